// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines the in-memory value tree for parsed JSON.
//
// A Value is exactly one of Null, Bool, Number, String, Array, or *Object.
// Values are built bottom-up by a parser and are not modified afterward.
// Each element of an Array or member of an Object belongs to that container
// alone; the grammar of JSON does not permit sharing or cycles.
package ast

import (
	"fmt"
	"iter"
	"math"
	"strconv"

	"github.com/creachadair/jdoc/hashtab"
	"github.com/creachadair/jdoc/internal/escape"
	"go4.org/mem"
)

// A Kind identifies the concrete type of a Value.
type Kind byte

// Constants defining the valid Kind values.
const (
	NullKind Kind = iota
	BoolKind
	NumberKind
	StringKind
	ArrayKind
	ObjectKind
)

var kindStr = [...]string{
	NullKind:   "null",
	BoolKind:   "bool",
	NumberKind: "number",
	StringKind: "string",
	ArrayKind:  "array",
	ObjectKind: "object",
}

func (k Kind) String() string {
	if int(k) < len(kindStr) {
		return kindStr[k]
	}
	return fmt.Sprintf("Kind(%d)", byte(k))
}

// A Value is an arbitrary JSON value.
type Value interface {
	// Kind reports which kind of value this is.
	Kind() Kind

	// String renders a short human-readable summary of the value.
	String() string

	isValue()
}

// Null represents the null constant.
type Null struct{}

func (Null) Kind() Kind     { return NullKind }
func (Null) String() string { return "null" }
func (Null) isValue()       {}

// A Bool is a Boolean constant, true or false.
type Bool bool

func (Bool) Kind() Kind       { return BoolKind }
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }
func (Bool) isValue()         {}

// A Number is a numeric value. JSON does not distinguish integers from
// floating-point values, and neither does Number.
type Number float64

func (Number) Kind() Kind { return NumberKind }
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}
func (Number) isValue() {}

// Float64 returns n as a float64.
func (n Number) Float64() float64 { return float64(n) }

// IsInt reports whether n has a finite integral value. The value need not fit
// in an int64.
func (n Number) IsInt() bool {
	f := float64(n)
	return f == math.Trunc(f) && !math.IsInf(f, 0)
}

// A String is a string value with escapes already decoded.
type String string

func (String) Kind() Kind { return StringKind }

// String returns the quoted JSON encoding of s.
func (s String) String() string { return string(escape.Quote(mem.S(string(s)))) }
func (String) isValue()         {}

// Len returns the length of s in bytes.
func (s String) Len() int { return len(s) }

// An Array is an ordered sequence of values.
type Array []Value

func (Array) Kind() Kind       { return ArrayKind }
func (a Array) String() string { return fmt.Sprintf("Array(len=%d)", len(a)) }
func (Array) isValue()         {}

// Len returns the number of elements in a.
func (a Array) Len() int { return len(a) }

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

func (m Member) String() string { return fmt.Sprintf("Member(key=%q)", m.Key) }

// Field constructs an object member with the given key and value.
// The value must be acceptable to ToValue.
func Field(key string, value any) Member { return Member{Key: key, Value: ToValue(value)} }

// An Object is a collection of key-value members stored in a hash table.
// An Object may contain more than one member with the same key; Lookup
// reports the one added most recently.
type Object struct {
	tab *hashtab.Table[Value]
}

// NewObject constructs an object containing the given members, in order.
func NewObject(ms ...Member) *Object {
	o := &Object{tab: hashtab.New[Value]()}
	for _, m := range ms {
		o.Add(m.Key, m.Value)
	}
	return o
}

// NewObjectHash constructs an empty object whose table selects buckets with h.
func NewObjectHash(h hashtab.HashFunc) *Object {
	return &Object{tab: hashtab.NewHash[Value](h)}
}

// Add adds a member with the given key and value to o. It does not check for
// or replace an existing member with the same key. Add is meant for use while
// an object is being constructed.
func (o *Object) Add(key string, v Value) { o.tab.Insert(key, v) }

func (*Object) Kind() Kind { return ObjectKind }
func (o *Object) String() string {
	return fmt.Sprintf("Object(len=%d)", o.Len())
}
func (*Object) isValue() {}

// Len returns the number of members in o, counting duplicate keys.
func (o *Object) Len() int {
	if o == nil || o.tab == nil {
		return 0
	}
	return o.tab.Len()
}

// Lookup returns the value of the most recently added member of o whose key
// exactly matches key, and reports whether one was found.
func (o *Object) Lookup(key string) (Value, bool) {
	if o == nil || o.tab == nil {
		return nil, false
	}
	return o.tab.Lookup(key)
}

// LookupAll returns an iterator over the values of all members of o whose key
// matches key, most recently added first.
func (o *Object) LookupAll(key string) iter.Seq[Value] {
	if o == nil || o.tab == nil {
		return func(func(Value) bool) {}
	}
	return o.tab.LookupAll(key)
}

// All returns an iterator over the members of o in the order they were added.
func (o *Object) All() iter.Seq2[string, Value] {
	if o == nil || o.tab == nil {
		return func(func(string, Value) bool) {}
	}
	return o.tab.All()
}

// Members returns a slice of the members of o in the order they were added.
func (o *Object) Members() []Member {
	out := make([]Member, 0, o.Len())
	for key, v := range o.All() {
		out = append(out, Member{Key: key, Value: v})
	}
	return out
}

// Lookup reports the value of the member of obj with the given key.
// It is shorthand for obj.Lookup(key).
func Lookup(obj *Object, key string) (Value, bool) { return obj.Lookup(key) }

// ToValue converts a string, int, float, bool, nil, []any, or Value into an
// equivalent Value. It panics if v does not have one of those types.
func ToValue(v any) Value {
	switch t := v.(type) {
	case Value:
		return t
	case nil:
		return Null{}
	case string:
		return String(t)
	case int:
		return Number(t)
	case int64:
		return Number(t)
	case float64:
		return Number(t)
	case bool:
		return Bool(t)
	case []any:
		out := make(Array, len(t))
		for i, elt := range t {
			out[i] = ToValue(elt)
		}
		return out
	default:
		panic(fmt.Sprintf("cannot convert %T to a value", v))
	}
}

// Equal reports whether a and b are structurally equal. Objects are equal if
// they have the same members, including duplicates, in the same order.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	} else if a.Kind() != b.Kind() {
		return false
	}
	switch t := a.(type) {
	case Array:
		u := b.(Array)
		if len(t) != len(u) {
			return false
		}
		for i := range t {
			if !Equal(t[i], u[i]) {
				return false
			}
		}
		return true
	case *Object:
		u := b.(*Object)
		if t.Len() != u.Len() {
			return false
		}
		tm, um := t.Members(), u.Members()
		for i := range tm {
			if tm[i].Key != um[i].Key || !Equal(tm[i].Value, um[i].Value) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
