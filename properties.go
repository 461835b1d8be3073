package tmj

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// PropertyType is the declared type tag of a custom property.
type PropertyType string

const (
	PropString PropertyType = "string"
	PropInt    PropertyType = "int"
	PropFloat  PropertyType = "float"
	PropBool   PropertyType = "bool"
	PropColor  PropertyType = "color"
	PropFile   PropertyType = "file"
	PropObject PropertyType = "object"
)

// Property is one decoded custom property. Value holds a string, int,
// float64, bool, Color or ObjectRef depending on Type.
type Property struct {
	Type  PropertyType
	Value any
}

// ObjectRef is the id of an object referenced by an "object" property.
type ObjectRef int

// Properties maps property names to their decoded values.
type Properties map[string]Property

// GetString returns the named string or file property, or "".
func (p Properties) GetString(name string) string {
	if v, ok := p[name].Value.(string); ok {
		return v
	}
	return ""
}

// GetInt returns the named int property, or 0.
func (p Properties) GetInt(name string) int {
	if v, ok := p[name].Value.(int); ok {
		return v
	}
	return 0
}

// GetFloat returns the named float property, or 0.
func (p Properties) GetFloat(name string) float64 {
	if v, ok := p[name].Value.(float64); ok {
		return v
	}
	return 0
}

// GetBool returns the named bool property, or false.
func (p Properties) GetBool(name string) bool {
	if v, ok := p[name].Value.(bool); ok {
		return v
	}
	return false
}

// GetColor returns the named color property, or the zero Color.
func (p Properties) GetColor(name string) Color {
	if v, ok := p[name].Value.(Color); ok {
		return v
	}
	return Color{}
}

// resolveProperties turns the editor's flat name/type/value list into a
// typed map. A missing type tag means string. Duplicate names keep the last
// occurrence, matching how the editor overrides inherited properties.
func resolveProperties(raw []rawProperty) (Properties, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	props := make(Properties, len(raw))
	for _, rp := range raw {
		typ := PropertyType(rp.Type)
		if rp.Type == "" {
			typ = PropString
		}

		value, err := decodePropertyValue(typ, rp.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidProperty, rp.Name, err)
		}
		props[rp.Name] = Property{Type: typ, Value: value}
	}
	return props, nil
}

func decodePropertyValue(typ PropertyType, raw json.RawMessage) (any, error) {
	switch typ {
	case PropString, PropFile:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("not a string: %s", raw)
		}
		return s, nil

	case PropInt:
		n, err := decodeNumber(raw)
		if err != nil {
			return nil, err
		}
		i, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("not an integer: %s", n)
		}
		return int(i), nil

	case PropFloat:
		n, err := decodeNumber(raw)
		if err != nil {
			return nil, err
		}
		f, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("not a number: %s", n)
		}
		return f, nil

	case PropBool:
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			return b, nil
		}
		// Older exports quote booleans.
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if b, err := strconv.ParseBool(s); err == nil {
				return b, nil
			}
		}
		return nil, fmt.Errorf("not a bool: %s", raw)

	case PropColor:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("not a color string: %s", raw)
		}
		c, err := ParseColor(s)
		if err != nil {
			return nil, err
		}
		return c, nil

	case PropObject:
		n, err := decodeNumber(raw)
		if err != nil {
			return nil, err
		}
		id, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("not an object id: %s", n)
		}
		return ObjectRef(id), nil
	}

	return nil, fmt.Errorf("unrecognized type %q", typ)
}

// decodeNumber accepts a JSON number or a numeric string; the editor has
// emitted both over the years.
func decodeNumber(raw json.RawMessage) (json.Number, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			return json.Number(s), nil
		}
	}
	return "", fmt.Errorf("not a number: %s", raw)
}
