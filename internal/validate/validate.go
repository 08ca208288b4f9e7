// Package validate normalizes JSON request bodies against a declarative field table.
package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/localnerve/lookout/internal/types"
)

// Kind is the type a field value is coerced to
type Kind int

const (
	String Kind = iota
	Int
	Bool
)

// Field describes one accepted body key.
type Field struct {
	Name    string   // JSON key
	Column  string   // database column
	Aliases []string // alternative spellings rejected together with Name when Immutable
	Kind    Kind

	Required bool
	Nullable bool     // explicit null clears the value
	Positive bool     // Int must be > 0
	Enum     []string // accepted String values
	Default  string   // applied on create when absent

	// Immutable fields may be given on create but are rejected on update.
	Immutable bool
	// Managed fields are set by the server; ignored on create, rejected on update.
	Managed bool
	// UpdateOnly fields are ignored on create.
	UpdateOnly bool

	MissingCode string
	InvalidCode string
	Label       string // human name used in messages, defaults to Name
}

// Schema is the rule table for one entity.
type Schema struct {
	Fields        []Field
	ProtectedCode string
	NoFieldsCode  string
}

// Values holds normalized values keyed by JSON name.
// A value is a string, int64, bool, or nil for an explicit null.
type Values map[string]interface{}

// Object is a decoded JSON object with raw member values.
type Object map[string]json.RawMessage

// DecodeObject parses a request body into an Object.
// An empty body is an empty object.
func DecodeObject(body []byte) (Object, error) {
	obj := Object{}
	if len(bytes.TrimSpace(body)) == 0 {
		return obj, nil
	}
	if err := json.Unmarshal(body, &obj); err != nil || obj == nil {
		return nil, types.BadRequest("INVALID_JSON", "Request body must be a JSON object")
	}
	return obj, nil
}

// Has reports whether the key is present, including an explicit null.
func (o Object) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// Create validates a body for insertion.
func (s Schema) Create(obj Object) (Values, error) {
	values := Values{}
	for _, f := range s.Fields {
		if f.Managed || f.UpdateOnly {
			continue
		}
		raw, present := obj[f.Name]
		if !present || isNull(raw) {
			if f.Required {
				return nil, f.missing()
			}
			if f.Default != "" {
				values[f.Name] = f.Default
			}
			continue
		}
		v, err := f.coerce(raw)
		if err != nil {
			return nil, err
		}
		if v == nil {
			if f.Default != "" {
				values[f.Name] = f.Default
			}
			continue
		}
		values[f.Name] = v
	}
	return values, nil
}

// Update validates a partial body. Any protected key fails the whole request.
func (s Schema) Update(obj Object) (Values, error) {
	if protected := s.Protected(obj); len(protected) > 0 {
		return nil, types.BadRequest(s.ProtectedCode,
			fmt.Sprintf("Cannot update fields: %s", strings.Join(protected, ", ")))
	}

	values := Values{}
	for _, f := range s.Fields {
		raw, present := obj[f.Name]
		if !present {
			continue
		}
		if isNull(raw) {
			if f.Nullable {
				values[f.Name] = nil
				continue
			}
			if f.Required {
				return nil, f.missing()
			}
			return nil, f.invalid()
		}
		v, err := f.coerce(raw)
		if err != nil {
			return nil, err
		}
		if v == nil {
			// blank string
			switch {
			case f.Required:
				return nil, f.missing()
			case !f.Nullable:
				return nil, f.invalid()
			}
		}
		values[f.Name] = v
	}

	if len(values) == 0 {
		return nil, types.BadRequest(s.NoFieldsCode, "At least one valid field must be provided for update")
	}
	return values, nil
}

// Protected returns the immutable keys present in obj, in table order.
func (s Schema) Protected(obj Object) []string {
	var keys []string
	for _, f := range s.Fields {
		if !f.Immutable && !f.Managed {
			continue
		}
		for _, key := range append([]string{f.Name}, f.Aliases...) {
			if obj.Has(key) {
				keys = append(keys, key)
			}
		}
	}
	return keys
}

// Field returns the rule for a JSON name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Columns maps values to database column names.
func (s Schema) Columns(values Values) map[string]interface{} {
	cols := make(map[string]interface{}, len(values))
	for name, v := range values {
		if f, ok := s.Field(name); ok && f.Column != "" {
			cols[f.Column] = v
		}
	}
	return cols
}

// coerce converts a raw non-null value. A blank string yields nil.
func (f Field) coerce(raw json.RawMessage) (interface{}, error) {
	switch f.Kind {
	case Bool:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, f.invalid()
		}
		return b, nil

	case Int:
		n, ok := parseInt(raw)
		if !ok || (f.Positive && n <= 0) {
			return nil, f.invalid()
		}
		return n, nil

	default:
		s, ok := parseString(raw)
		if !ok {
			return nil, f.invalid()
		}
		if s == "" {
			return nil, nil
		}
		if len(f.Enum) > 0 && !contains(f.Enum, s) {
			return nil, f.invalid()
		}
		return s, nil
	}
}

func (f Field) label() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

func (f Field) missing() error {
	return types.BadRequest(f.MissingCode, fmt.Sprintf("%s is required", f.label()))
}

func (f Field) invalid() error {
	switch {
	case len(f.Enum) > 0:
		return types.BadRequest(f.InvalidCode,
			fmt.Sprintf("%s must be one of: %s", f.label(), strings.Join(f.Enum, ", ")))
	case f.Kind == Bool:
		return types.BadRequest(f.InvalidCode, fmt.Sprintf("%s must be a boolean", f.label()))
	case f.Kind == Int && f.Nullable:
		return types.BadRequest(f.InvalidCode, fmt.Sprintf("%s must be a valid integer or null", f.label()))
	case f.Kind == Int:
		return types.BadRequest(f.InvalidCode, fmt.Sprintf("%s must be a valid integer", f.label()))
	}
	return types.BadRequest(f.InvalidCode, fmt.Sprintf("%s must be a string", f.label()))
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// parseString accepts strings, numbers, and booleans and trims the result.
func parseString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b), true
	}
	return "", false
}

// parseInt accepts JSON integers and decimal strings.
func parseInt(raw json.RawMessage) (int64, bool) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		i, err := n.Int64()
		return i, err == nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		return i, err == nil
	}
	return 0, false
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
