package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Flag is a boolean the backend may encode as true/false, 0/1 or null.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null", `""`:
		*f = false
		return nil
	case "true", "1", `"1"`, `"true"`:
		*f = true
		return nil
	case "false", "0", `"0"`, `"false"`:
		*f = false
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		v, err := n.Float64()
		if err == nil {
			*f = v != 0
			return nil
		}
	}
	return fmt.Errorf("invalid flag value %s", data)
}

// BoolPtr returns nil for a nil flag.
func (f *Flag) BoolPtr() *bool {
	if f == nil {
		return nil
	}
	b := bool(*f)
	return &b
}
