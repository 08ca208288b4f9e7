package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexID is a uint64 that can be unmarshaled from either a JSON number or a JSON string.
type FlexID uint64

// ParseID parses a positive decimal id.
func ParseID(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	if id == 0 {
		return 0, fmt.Errorf("invalid id %q: must be positive", s)
	}
	return id, nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	// Try unmarshaling as a number first
	var n uint64
	if err := json.Unmarshal(data, &n); err == nil {
		if n == 0 {
			return fmt.Errorf("FlexID: id must be positive")
		}
		*f = FlexID(n)
		return nil
	}

	// Try unmarshaling as a string
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		val, err := ParseID(s)
		if err != nil {
			return fmt.Errorf("FlexID: %w", err)
		}
		*f = FlexID(val)
		return nil
	}

	return fmt.Errorf("FlexID: unexpected type, expected number or string")
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexID) MarshalJSON() ([]byte, error) {
	return json.Marshal(uint64(f))
}

// Uint64 converts FlexID back to uint64.
func (f FlexID) Uint64() uint64 {
	return uint64(f)
}
