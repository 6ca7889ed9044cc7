// Package query evaluates structural queries against parsed documents.
//
// A Query picks out a value reachable from the root of a document: a member
// of an object, an element of an array, or a collection of such values.
// Queries compose. Path follows a sequence of keys and indices, and Each
// applies a query to every element of an array. For example, given the
// document
//
//	{"name": "Ada", "phones": ["555-0100", "555-0101"]}
//
// the query Path("phones", -1) yields "555-0101".
//
// A Selection is a predicate on values, used to decide whether a document
// satisfies a condition (see Matches).
package query

import (
	"errors"
	"fmt"

	"github.com/creachadair/jdoc/ast"
)

// ErrNoMatch is reported by queries that found nothing to select.
var ErrNoMatch = errors.New("no matching values")

// Eval evaluates q against root and returns the value it selects.
func Eval(root ast.Value, q Query) (ast.Value, error) {
	return q.eval(root)
}

// A Query describes a traversal of a value tree.
type Query interface {
	eval(ast.Value) (ast.Value, error)
}

// Path follows a sequence of object keys and array indices from its input.
// Each key must be a string (an object key), an int (an array index, negative
// values counting from the end), or a Query. With no keys, Path selects its
// input unchanged.
func Path(keys ...any) Query {
	if len(keys) == 1 {
		return pathElem(keys[0])
	}
	var pq Seq
	for _, key := range keys {
		q := pathElem(key)
		if sq, ok := q.(Seq); ok {
			pq = append(pq, sq...)
		} else {
			pq = append(pq, q)
		}
	}
	return pq
}

func pathElem(key any) Query {
	switch t := key.(type) {
	case string:
		return memberQuery(t)
	case int:
		return indexQuery(t)
	case Query:
		return t
	default:
		panic(fmt.Sprintf("invalid path element %T", key))
	}
}

// memberQuery selects the most recent member of an object with a given key.
type memberQuery string

func (m memberQuery) eval(v ast.Value) (ast.Value, error) {
	obj, ok := v.(*ast.Object)
	if !ok {
		return nil, fmt.Errorf("got %v, want object", kindOf(v))
	}
	val, ok := obj.Lookup(string(m))
	if !ok {
		return nil, fmt.Errorf("key %q not found", string(m))
	}
	return val, nil
}

type indexQuery int

func (q indexQuery) eval(v ast.Value) (ast.Value, error) {
	arr, ok := v.(ast.Array)
	if !ok {
		return nil, fmt.Errorf("got %v, want array", kindOf(v))
	}
	i, ok := offset(int(q), len(arr))
	if !ok {
		return nil, fmt.Errorf("index %d out of range for length %d", int(q), len(arr))
	}
	return arr[i], nil
}

// offset resolves a possibly-negative index i into an array of length n.
func offset(i, n int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}

// Seq applies each of its queries in turn to the result of the one before.
// An empty Seq selects its input.
type Seq []Query

func (q Seq) eval(v ast.Value) (ast.Value, error) {
	for _, sq := range q {
		next, err := sq.eval(v)
		if err != nil {
			return nil, err
		}
		v = next
	}
	return v, nil
}

// Each applies Path(keys...) to every element of its input, which must be an
// array, and returns an array of the results. It fails if any element fails.
func Each(keys ...any) Query { return eachQuery{Path(keys...)} }

type eachQuery struct{ Query }

func (q eachQuery) eval(v ast.Value) (ast.Value, error) {
	arr, ok := v.(ast.Array)
	if !ok {
		return nil, fmt.Errorf("got %v, want array", kindOf(v))
	}
	out := make(ast.Array, len(arr))
	for i, elt := range arr {
		r, err := q.Query.eval(elt)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = r
	}
	return out, nil
}

// Recur applies Path(keys...) to its input and to each of its descendants,
// in document order, and returns an array of the values for which it
// succeeds. It reports ErrNoMatch if there are none.
func Recur(keys ...any) Query { return recurQuery{Path(keys...)} }

type recurQuery struct{ Query }

func (q recurQuery) eval(v ast.Value) (ast.Value, error) {
	var out ast.Array
	walk(v, func(v ast.Value) {
		if r, err := q.Query.eval(v); err == nil {
			out = append(out, r)
		}
	})
	if len(out) == 0 {
		return nil, ErrNoMatch
	}
	return out, nil
}

// walk calls f with v and then with each descendant of v, depth first.
func walk(v ast.Value, f func(ast.Value)) {
	f(v)
	switch t := v.(type) {
	case *ast.Object:
		for _, val := range t.All() {
			walk(val, f)
		}
	case ast.Array:
		for _, elt := range t {
			walk(elt, f)
		}
	}
}

// Glob selects an array of the member values of an object, in the order they
// were added, or the elements of an array.
func Glob() Query { return globQuery{} }

type globQuery struct{}

func (globQuery) eval(v ast.Value) (ast.Value, error) {
	switch t := v.(type) {
	case *ast.Object:
		out := make(ast.Array, 0, t.Len())
		for _, val := range t.All() {
			out = append(out, val)
		}
		return out, nil
	case ast.Array:
		return t, nil
	}
	return nil, fmt.Errorf("cannot expand %v", kindOf(v))
}

// Slice selects the elements of an array from offset lo up to but not
// including hi. Negative offsets count from the end of the array. Offsets
// beyond either end are clamped, so the result may be empty.
func Slice(lo, hi int) Query { return sliceQuery{lo: lo, hi: hi, bounded: true} }

// SliceFrom selects the elements of an array from offset lo to the end.
func SliceFrom(lo int) Query { return sliceQuery{lo: lo} }

type sliceQuery struct {
	lo, hi  int
	bounded bool
}

func (q sliceQuery) eval(v ast.Value) (ast.Value, error) {
	arr, ok := v.(ast.Array)
	if !ok {
		return nil, fmt.Errorf("got %v, want array", kindOf(v))
	}
	lo, hi := clamp(q.lo, len(arr)), len(arr)
	if q.bounded {
		hi = clamp(q.hi, len(arr))
	}
	if lo >= hi {
		return ast.Array{}, nil
	}
	return arr[lo:hi], nil
}

func clamp(i, n int) int {
	if i < 0 {
		i += n
	}
	return max(0, min(i, n))
}

// Pick selects an array of the elements at the given offsets of an array, in
// the order given. Negative offsets count from the end. It fails if any
// offset is out of range.
func Pick(offsets ...int) Query { return pickQuery(offsets) }

type pickQuery []int

func (q pickQuery) eval(v ast.Value) (ast.Value, error) {
	arr, ok := v.(ast.Array)
	if !ok {
		return nil, fmt.Errorf("got %v, want array", kindOf(v))
	}
	out := make(ast.Array, len(q))
	for j, off := range q {
		i, ok := offset(off, len(arr))
		if !ok {
			return nil, fmt.Errorf("index %d out of range for length %d", off, len(arr))
		}
		out[j] = arr[i]
	}
	return out, nil
}

func kindOf(v ast.Value) string {
	if v == nil {
		return "nil"
	}
	return v.Kind().String()
}
