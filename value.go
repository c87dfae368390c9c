package confl

import "time"

// Kind identifies the concrete type held by a [Value].
type Kind int8

// The kinds of value the decoder can produce and the encoder can consume.
const (
	KindNull Kind = iota
	KindUndefined
	KindBool
	KindNumber
	KindString
	KindDate
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a tagged union holding one decoded (or to-be-encoded) node of a
// confl document: a scalar, an array, or an object. The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	t    time.Time
	arr  []Value
	obj  *object
}

// entry is one (key, value) pair of an Object, in insertion order.
type entry struct {
	key   string
	value Value
}

// object is an insertion-ordered string-keyed map. Keys are unique; the
// index lets repeated-key merging (§4.4) find and replace the prior entry
// for a key in O(1) without disturbing the order of the other entries.
type object struct {
	entries []entry
	index   map[string]int
}

func newObject() *object {
	return &object{index: make(map[string]int)}
}

// Null returns the Null value.
func Null() Value { return Value{kind: KindNull} }

// Undefined returns the Undefined value.
func Undefined() Value { return Value{kind: KindUndefined} }

// Bool returns a Bool value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a Number value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String returns a String value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Date returns a Date value.
func Date(t time.Time) Value { return Value{kind: KindDate, t: t} }

// Array returns an Array value holding a copy of items.
func Array(items []Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindArray, arr: cp}
}

// Object returns a new, empty Object value.
func Object() Value {
	return Value{kind: KindObject, obj: newObject()}
}

// Set attaches key to val in an Object value, applying the same
// repeated-key merge rule the decoder uses for repeated keys (§4.4), and
// returns v for chaining. It panics if v is not an Object.
func (v Value) Set(key string, val Value) Value {
	if v.kind != KindObject {
		panic("confl: Set called on a non-object Value")
	}
	v.obj.set(key, val, false)
	return v
}

// Kind reports the concrete type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsUndefined reports whether v is Undefined.
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

// BoolValue returns the boolean payload of v; it is only meaningful when
// v.Kind() == KindBool.
func (v Value) BoolValue() bool { return v.b }

// Float returns the numeric payload of v; it is only meaningful when
// v.Kind() == KindNumber.
func (v Value) Float() float64 { return v.n }

// Str returns the string payload of v; it is only meaningful when
// v.Kind() == KindString.
func (v Value) Str() string { return v.s }

// Time returns the instant payload of v; it is only meaningful when
// v.Kind() == KindDate.
func (v Value) Time() time.Time { return v.t }

// Items returns the elements of v; it is nil unless v.Kind() == KindArray.
func (v Value) Items() []Value { return v.arr }

// Len returns the number of keys in an Object, or elements in an Array.
// It is zero for scalars.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		if v.obj == nil {
			return 0
		}
		return len(v.obj.entries)
	default:
		return 0
	}
}

// Keys returns the keys of an Object in insertion order. It is nil for
// non-Object values.
func (v Value) Keys() []string {
	if v.kind != KindObject || v.obj == nil {
		return nil
	}
	keys := make([]string, len(v.obj.entries))
	for i, e := range v.obj.entries {
		keys[i] = e.key
	}
	return keys
}

// Get returns the value stored at key in an Object, and whether it was
// present. It is always (Value{}, false) for non-Object values.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject || v.obj == nil {
		return Value{}, false
	}
	i, ok := v.obj.index[key]
	if !ok {
		return Value{}, false
	}
	return v.obj.entries[i].value, true
}

// set implements the repeated-key merge rule of spec §4.4: the first
// occurrence of a key is stored as-is (or, if forced, as a singleton
// array); later occurrences promote the stored value to an array, or
// append to it if it is already one.
func (o *object) set(key string, val Value, forceArray bool) {
	if i, ok := o.index[key]; ok {
		existing := o.entries[i].value
		if existing.kind == KindArray {
			existing.arr = append(existing.arr, val)
			o.entries[i].value = existing
		} else {
			o.entries[i].value = Array([]Value{existing, val})
		}
		return
	}
	if forceArray {
		val = Array([]Value{val})
	}
	o.index[key] = len(o.entries)
	o.entries = append(o.entries, entry{key: key, value: val})
}

// Equal reports whether v and other represent the same tree: the same
// kind and payload, arrays equal element by element in order, Dates equal
// as instants, and objects holding the same keys with equal values (the
// order of an object's keys is not compared).
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull, KindUndefined:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.n == other.n
	case KindString:
		return v.s == other.s
	case KindDate:
		return v.t.Equal(other.t)
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if v.Len() != other.Len() {
			return false
		}
		for _, e := range v.obj.entries {
			ov, ok := other.Get(e.key)
			if !ok || !e.value.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
