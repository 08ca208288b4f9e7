package validate

// String returns a string value, or nil when absent or null.
func (v Values) String(name string) *string {
	if s, ok := v[name].(string); ok {
		return &s
	}
	return nil
}

// StringOr returns a string value or the fallback.
func (v Values) StringOr(name, fallback string) string {
	if s := v.String(name); s != nil {
		return *s
	}
	return fallback
}

// Int returns an integer value, or nil when absent or null.
func (v Values) Int(name string) *int64 {
	if n, ok := v[name].(int64); ok {
		return &n
	}
	return nil
}

// ID returns an integer value as an id, or nil when absent or null.
func (v Values) ID(name string) *uint64 {
	if n := v.Int(name); n != nil && *n > 0 {
		id := uint64(*n)
		return &id
	}
	return nil
}

// Bool returns a boolean value, or nil when absent or null.
func (v Values) Bool(name string) *bool {
	if b, ok := v[name].(bool); ok {
		return &b
	}
	return nil
}

// Has reports whether a value, possibly null, was supplied.
func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}
