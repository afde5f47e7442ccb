package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ToString renders a form value for display. Nil is empty, nested objects
// and lists are shown as JSON.
func ToString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any, []any:
		if raw, err := json.Marshal(v); err == nil {
			return string(raw)
		}
	}
	return fmt.Sprint(value)
}

// ToObject turns a form into a JSON object. A string is parsed as JSON; a
// struct or map goes through its JSON encoding.
func ToObject(value any) (JSON, error) {
	var raw []byte
	switch v := value.(type) {
	case nil:
		return nil, errors.New("cannot convert nil to object")
	case JSON:
		return v, nil
	case string:
		raw = []byte(v)
	default:
		var err error
		if raw, err = json.Marshal(v); err != nil {
			return nil, fmt.Errorf("cannot convert %T to object: %w", value, err)
		}
	}
	var obj JSON
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("cannot convert %T to object: %w", value, err)
	}
	return obj, nil
}
