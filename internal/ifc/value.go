package ifc

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is one parameter of an entity instance
type Value interface {
	value()
}

// Ref is a reference to another instance
type Ref int

// Integer is an integer literal
type Integer int64

// Real is a real literal
type Real float64

// String is a decoded string literal
type String string

// Enum is an enumeration or logical literal without the dots
type Enum string

// Binary is a hex encoded binary literal
type Binary string

// List is an aggregate
type List []Value

// Typed is a value wrapped in its defined type, e.g. IFCREAL(3.5)
type Typed struct {
	Type  string
	Value Value
}

// Unset is the $ placeholder
type Unset struct{}

// Derived is the * placeholder
type Derived struct{}

func (Ref) value()     {}
func (Integer) value() {}
func (Real) value()    {}
func (String) value()  {}
func (Enum) value()    {}
func (Binary) value()  {}
func (List) value()    {}
func (Typed) value()   {}
func (Unset) value()   {}
func (Derived) value() {}

// AsRef returns the instance id of a reference value
func AsRef(v Value) (int, bool) {
	r, ok := v.(Ref)
	return int(r), ok
}

// AsFloat returns a numeric value, looking through typed wrappers
func AsFloat(v Value) (float64, bool) {
	switch t := v.(type) {
	case Real:
		return float64(t), true
	case Integer:
		return float64(t), true
	case Typed:
		return AsFloat(t.Value)
	}
	return 0, false
}

// AsInt returns an integer value, looking through typed wrappers
func AsInt(v Value) (int, bool) {
	switch t := v.(type) {
	case Integer:
		return int(t), true
	case Typed:
		return AsInt(t.Value)
	}
	return 0, false
}

// AsString returns a string value, looking through typed wrappers
func AsString(v Value) (string, bool) {
	switch t := v.(type) {
	case String:
		return string(t), true
	case Typed:
		return AsString(t.Value)
	}
	return "", false
}

// AsEnum returns an enumeration value, looking through typed wrappers
func AsEnum(v Value) (string, bool) {
	switch t := v.(type) {
	case Enum:
		return string(t), true
	case Typed:
		return AsEnum(t.Value)
	}
	return "", false
}

// AsList returns an aggregate value
func AsList(v Value) (List, bool) {
	l, ok := v.(List)
	return l, ok
}

// IsUnset reports whether v is $ or missing
func IsUnset(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Unset)
	return ok
}

// Format renders a value back in exchange file syntax, without escaping
func Format(v Value) string {
	switch t := v.(type) {
	case Ref:
		return "#" + strconv.Itoa(int(t))
	case Integer:
		return strconv.FormatInt(int64(t), 10)
	case Real:
		return strconv.FormatFloat(float64(t), 'g', -1, 64)
	case String:
		return "'" + string(t) + "'"
	case Enum:
		return "." + string(t) + "."
	case Binary:
		return `"` + string(t) + `"`
	case List:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = Format(e)
		}
		return "(" + strings.Join(parts, ",") + ")"
	case Typed:
		return t.Type + "(" + Format(t.Value) + ")"
	case Derived:
		return "*"
	case Unset, nil:
		return "$"
	}
	return fmt.Sprintf("%v", v)
}
