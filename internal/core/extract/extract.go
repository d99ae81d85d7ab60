// Package extract holds the leaf parsers that turn raw sub-event payloads
// into flat field mappings used to enrich audit records. Each parser is an
// independent transform: callers must treat a failure as an empty mapping
// and never let it abort record assembly. The three sources are expected to
// produce disjoint key namespaces.
package extract

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// URLParams parses a raw query string (with or without the leading '?') into
// a field mapping. Repeated keys keep every value.
func URLParams(raw string) (map[string]any, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return nil, fmt.Errorf("error parsing query string: %w", err)
	}
	fields := make(map[string]any, len(values))
	for key, vals := range values {
		if len(vals) == 1 {
			fields[key] = vals[0]
			continue
		}
		fields[key] = vals
	}
	return fields, nil
}

// Message parses a message payload into a field mapping. The payload is a
// JSON object of scalar fields.
func Message(raw string) (map[string]any, error) {
	fields := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("error parsing message payload: %w", err)
	}
	return fields, nil
}

// Track parses a track payload into a field mapping. The payload is a
// comma-separated list of key=value pairs, the format emitted by the
// client-side tracking beacon.
func Track(raw string) (map[string]any, error) {
	fields := map[string]any{}
	for _, pair := range strings.Split(raw, ",") {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("malformed track pair %q", pair)
		}
		fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return fields, nil
}
