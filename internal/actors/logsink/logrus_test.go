package logsink

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedSink(t *testing.T) (*LogrusSink, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(buf)
	sink, err := NewLogrusSink(logger)
	require.NoError(t, err)
	return sink, buf
}

func TestLogrusSinkWrite(t *testing.T) {
	sink, buf := newBufferedSink(t)

	record := map[string]any{
		"level":    "info",
		"method":   "GET",
		"path":     "/dashboard",
		"status":   200,
		"timeInMs": int64(12),
		"user":     nil,
		"referer":  "/",
	}
	require.NoError(t, sink.Write(context.Background(), record))

	// one structured line per record
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	got := map[string]any{}
	require.NoError(t, json.Unmarshal(lines[0], &got))
	assert.Equal(t, "GET", got["method"])
	assert.Equal(t, "/dashboard", got["path"])
	assert.Equal(t, float64(200), got["status"])
	assert.Equal(t, "/", got["referer"])
	assert.Contains(t, got, "user")
	assert.Nil(t, got["user"])
}

func TestLogrusSinkErrorLevel(t *testing.T) {
	sink, buf := newBufferedSink(t)

	require.NoError(t, sink.Write(context.Background(), map[string]any{
		"level":  "error",
		"method": "POST",
		"path":   "/auth/sign-up",
		"status": 500,
	}))

	got := map[string]any{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got))
	assert.Equal(t, "error", got["level"])
}

func TestLogrusSinkFlushIsIdempotent(t *testing.T) {
	sink, _ := newBufferedSink(t)
	ctx := context.Background()

	require.NoError(t, sink.Flush(ctx))
	require.NoError(t, sink.Flush(ctx))
}

func TestNewLogrusSinkNilLogger(t *testing.T) {
	_, err := NewLogrusSink(nil)
	require.Error(t, err)
}
