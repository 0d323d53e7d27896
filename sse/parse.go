package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingDataLine  = errors.New("event block has no data line")
	ErrMalformedPayload = errors.New("malformed event payload")
)

// fields holds a payload object by exact key. encoding/json's struct
// matching is case-insensitive, which would accept "TYPE" or "Text".
type fields map[string]json.RawMessage

type field struct {
	key string
	dst any
}

// get decodes key into dst. A missing key or JSON null reports false.
func (f fields) get(key string, dst any) (bool, error) {
	raw, ok := f[key]
	if !ok || string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return true, nil
}

func (f fields) require(kind Kind, want ...field) error {
	for _, w := range want {
		ok, err := f.get(w.key, w.dst)
		if err != nil {
			return malformed("%s: %v", kind, err)
		}
		if !ok {
			return malformed("%s: missing %s", kind, w.key)
		}
	}
	return nil
}

// ParseBlock decodes one blank-line-delimited block. Only the last data line
// is used; event lines and comments are ignored, since the payload's own type
// field selects the variant.
func ParseBlock(block string) (Event, error) {
	var payload string
	found := false
	for _, line := range strings.Split(strings.TrimSpace(block), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "data:"); ok {
			payload = strings.TrimSpace(rest)
			found = true
		}
	}
	if !found {
		return nil, ErrMissingDataLine
	}
	return decodePayload([]byte(payload))
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedPayload, fmt.Sprintf(format, args...))
}

func decodePayload(data []byte) (Event, error) {
	var f fields
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, malformed("%v", err)
	}
	var kind Kind
	if ok, err := f.get("type", &kind); err != nil {
		return nil, malformed("%v", err)
	} else if !ok {
		return nil, malformed("missing type")
	}

	switch kind {
	case KindUser:
		var e UserEvent
		if err := f.require(kind,
			field{"text", &e.Text},
			field{"confidence", &e.Confidence},
			field{"timestamp", &e.Timestamp},
		); err != nil {
			return nil, err
		}
		return &e, nil

	case KindAssistant:
		var e AssistantEvent
		if err := f.require(kind,
			field{"text", &e.Text},
			field{"done", &e.Done},
			field{"timestamp", &e.Timestamp},
		); err != nil {
			return nil, err
		}
		return &e, nil

	case KindSystem:
		var e SystemEvent
		if err := f.require(kind,
			field{"status", &e.Status},
			field{"timestamp", &e.Timestamp},
		); err != nil {
			return nil, err
		}
		var msg string
		ok, err := f.get("message", &msg)
		if err != nil {
			return nil, malformed("%s: %v", kind, err)
		}
		if ok {
			e.Message = &msg
		}
		return &e, nil
	}
	return nil, malformed("unknown type %q", kind)
}
