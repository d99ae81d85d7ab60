package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLParams(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		expected    map[string]any
		expectedErr bool
	}{
		{
			name:     "single params",
			raw:      "?utm_source=newsletter&page=2",
			expected: map[string]any{"utm_source": "newsletter", "page": "2"},
		},
		{
			name:     "no leading question mark",
			raw:      "q=hello",
			expected: map[string]any{"q": "hello"},
		},
		{
			name:     "repeated key keeps all values",
			raw:      "tag=a&tag=b",
			expected: map[string]any{"tag": []string{"a", "b"}},
		},
		{
			name:        "malformed escape",
			raw:         "a=%zz",
			expectedErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := URLParams(test.raw)
			if test.expectedErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, got)
		})
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		expected    map[string]any
		expectedErr bool
	}{
		{
			name:     "json object",
			raw:      `{"notice":"account_created","channel":"web"}`,
			expected: map[string]any{"notice": "account_created", "channel": "web"},
		},
		{
			name:        "not json",
			raw:         "plain text",
			expectedErr: true,
		},
		{
			name:        "json array is not an object",
			raw:         `[1,2]`,
			expectedErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Message(test.raw)
			if test.expectedErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, got)
		})
	}
}

func TestTrack(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		expected    map[string]any
		expectedErr bool
	}{
		{
			name:     "pairs",
			raw:      "event=sign_up,outcome=ok",
			expected: map[string]any{"event": "sign_up", "outcome": "ok"},
		},
		{
			name:     "whitespace trimmed",
			raw:      "event= pageview ",
			expected: map[string]any{"event": "pageview"},
		},
		{
			name:        "pair without separator",
			raw:         "event",
			expectedErr: true,
		},
		{
			name:        "empty key",
			raw:         "=value",
			expectedErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Track(test.raw)
			if test.expectedErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, got)
		})
	}
}
