package codec

import (
	"fmt"
	"strconv"
)

// FieldType is the type tag of a hash field. The store keeps every value as a
// string, the tag decides how the value is formatted and parsed.
type FieldType int

const (
	FieldString FieldType = iota
	FieldInt
	FieldFloat
)

func (t FieldType) String() string {
	switch t {
	case FieldString:
		return "string"
	case FieldInt:
		return "int"
	case FieldFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Schema maps field names to their type tag
type Schema map[string]FieldType

// Format converts a typed value to its stored string form.
// Floats use the shortest representation that parses back to the same value.
func (s Schema) Format(field string, value interface{}) (string, error) {
	typ, ok := s[field]
	if !ok {
		return "", fmt.Errorf("unknown field %q", field)
	}

	switch typ {
	case FieldString:
		if v, ok := value.(string); ok {
			return v, nil
		}
	case FieldInt:
		if v, ok := value.(int64); ok {
			return strconv.FormatInt(v, 10), nil
		}
	case FieldFloat:
		if v, ok := value.(float64); ok {
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		}
	}
	return "", fmt.Errorf("field %q: expected %s, got %T", field, typ, value)
}

// Parse converts a stored string to a typed value (string, int64 or float64)
func (s Schema) Parse(field, raw string) (interface{}, error) {
	typ, ok := s[field]
	if !ok {
		return nil, fmt.Errorf("unknown field %q", field)
	}

	switch typ {
	case FieldInt:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		return v, nil
	case FieldFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		return v, nil
	default:
		return raw, nil
	}
}
