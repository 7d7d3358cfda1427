// Package jsonvalue is a small tagged-union JSON tree. Objects keep their
// member order so walks visit nodes in document order.
package jsonvalue

import (
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "invalid"
	}
}

// Member is one name/value pair of an object.
type Member struct {
	Name  string
	Value *Value
}

// Value is a parsed JSON node. Only the fields matching Kind are meaningful.
type Value struct {
	Kind    Kind
	Bool    bool
	Number  string // Literal text of a number, e.g. "1" or "2.5e3"
	Str     string
	Items   []*Value
	Members []Member
}

// NewString returns a string value.
func NewString(s string) *Value { return &Value{Kind: String, Str: s} }

// NewNumber returns a number value holding the literal text.
func NewNumber(lit string) *Value { return &Value{Kind: Number, Number: lit} }

// NewBool returns a bool value.
func NewBool(b bool) *Value { return &Value{Kind: Bool, Bool: b} }

// NewNull returns a null value.
func NewNull() *Value { return &Value{Kind: Null} }

// NewArray returns an array holding items.
func NewArray(items ...*Value) *Value { return &Value{Kind: Array, Items: items} }

// NewObject returns an object holding members in the given order.
func NewObject(members ...Member) *Value { return &Value{Kind: Object, Members: members} }

// IsObject reports whether v is a non-nil object.
func (v *Value) IsObject() bool { return v != nil && v.Kind == Object }

// IsArray reports whether v is a non-nil array.
func (v *Value) IsArray() bool { return v != nil && v.Kind == Array }

// Get returns the value of the last member called name, or nil. Nil receivers
// and non-objects return nil so lookups can be chained.
func (v *Value) Get(name string) *Value {
	if !v.IsObject() {
		return nil
	}
	for i := len(v.Members) - 1; i >= 0; i-- {
		if v.Members[i].Name == name {
			return v.Members[i].Value
		}
	}
	return nil
}

// Path follows a chain of member names.
func (v *Value) Path(names ...string) *Value {
	cur := v
	for _, n := range names {
		cur = cur.Get(n)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Unwrap returns the inner value of a {"value": X} wrapper, or v itself.
func (v *Value) Unwrap() *Value {
	if v.IsObject() {
		if inner := v.Get("value"); inner != nil {
			return inner
		}
	}
	return v
}

// AsString returns the string held by v (after unwrapping) and whether v was
// a string.
func (v *Value) AsString() (string, bool) {
	u := v.Unwrap()
	if u == nil || u.Kind != String {
		return "", false
	}
	return u.Str, true
}

// AsInt returns v as an integer. Numbers and numeric strings are accepted,
// matching how node types appear both as 1 and "1" in the wild.
func (v *Value) AsInt() (int64, bool) {
	u := v.Unwrap()
	if u == nil {
		return 0, false
	}
	var lit string
	switch u.Kind {
	case Number:
		lit = u.Number
	case String:
		lit = strings.TrimSpace(u.Str)
	default:
		return 0, false
	}
	if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

// Scalar renders a scalar value as text: strings verbatim, numbers as their
// literal, bools and null by name. Containers return "".
func (v *Value) Scalar() string {
	u := v.Unwrap()
	if u == nil {
		return ""
	}
	switch u.Kind {
	case String:
		return u.Str
	case Number:
		return u.Number
	case Bool:
		return strconv.FormatBool(u.Bool)
	case Null:
		return "null"
	default:
		return ""
	}
}
