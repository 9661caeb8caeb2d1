// Package jsonvalue holds the insertion-ordered JSON value model together with
// the strict and tolerant parsers and the serializer built on top of it.
package jsonvalue

import (
	"encoding/json"
	"strconv"
)

// Kind identifies which member of the Value union is populated.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

// String returns the JSON type name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is a parsed JSON value. Numbers keep the literal text they were
// parsed from so re-serialization is lossless.
type Value struct {
	kind  Kind
	b     bool
	text  string
	obj   *Object
	items []*Value
}

// Null returns a JSON null.
func Null() *Value { return &Value{kind: KindNull} }

// Bool returns a JSON boolean.
func Bool(b bool) *Value { return &Value{kind: KindBool, b: b} }

// String returns a JSON string.
func String(s string) *Value { return &Value{kind: KindString, text: s} }

// Number returns a JSON number from its literal text. The text is not
// validated; use Int or Float for computed values.
func Number(literal string) *Value { return &Value{kind: KindNumber, text: literal} }

// Int returns a JSON number holding n.
func Int(n int64) *Value { return Number(strconv.FormatInt(n, 10)) }

// Float returns a JSON number holding f, formatted the way JavaScript's
// Number#toString does. NaN and infinities have no JSON form and become null.
func Float(f float64) *Value {
	lit, ok := formatFloat(f)
	if !ok {
		return Null()
	}
	return Number(lit)
}

// Array returns a JSON array holding items in order.
func Array(items ...*Value) *Value {
	if items == nil {
		items = []*Value{}
	}
	return &Value{kind: KindArray, items: items}
}

// ObjectValue wraps o into a Value.
func ObjectValue(o *Object) *Value {
	if o == nil {
		o = NewObject()
	}
	return &Value{kind: KindObject, obj: o}
}

// Kind reports the value's kind. A nil Value is null.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether v is null.
func (v *Value) IsNull() bool { return v.Kind() == KindNull }

// BoolValue returns the boolean payload.
func (v *Value) BoolValue() bool { return v != nil && v.b }

// StringValue returns the string payload.
func (v *Value) StringValue() string {
	if v == nil || v.kind != KindString {
		return ""
	}
	return v.text
}

// NumberText returns the literal text of a number.
func (v *Value) NumberText() string {
	if v == nil || v.kind != KindNumber {
		return ""
	}
	return v.text
}

// Object returns the object payload, or nil when v is not an object.
func (v *Value) Object() *Object {
	if v == nil || v.kind != KindObject {
		return nil
	}
	return v.obj
}

// Items returns the array elements, or nil when v is not an array.
func (v *Value) Items() []*Value {
	if v == nil || v.kind != KindArray {
		return nil
	}
	return v.items
}

// Len returns the number of members of an object or elements of an array.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindObject:
		return v.obj.Len()
	case KindArray:
		return len(v.items)
	default:
		return 0
	}
}

// Text returns the plain string form of a scalar: strings unquoted, numbers
// as written, booleans and null as their literals. Containers return their
// compact JSON text.
func (v *Value) Text() string {
	switch v.Kind() {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber, KindString:
		return v.text
	default:
		return Compact(v)
	}
}

// Equal reports whether a and b hold the same data, including object key order.
func Equal(a, b *Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.text == b.text
	case KindNumber:
		if a.text == b.text {
			return true
		}
		af, aerr := strconv.ParseFloat(a.text, 64)
		bf, berr := strconv.ParseFloat(b.text, 64)
		return aerr == nil && berr == nil && af == bf
	case KindArray:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		am, bm := a.obj.Members(), b.obj.Members()
		if len(am) != len(bm) {
			return false
		}
		for i := range am {
			if am[i].Key != bm[i].Key || !Equal(am[i].Value, bm[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// Interface converts v into the plain Go form produced by encoding/json with
// UseNumber: map[string]any, []any, json.Number, string, bool and nil.
// Object key order is lost.
func (v *Value) Interface() any {
	switch v.Kind() {
	case KindBool:
		return v.b
	case KindNumber:
		return json.Number(v.text)
	case KindString:
		return v.text
	case KindArray:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, v.obj.Len())
		for _, m := range v.obj.Members() {
			out[m.Key] = m.Value.Interface()
		}
		return out
	default:
		return nil
	}
}
