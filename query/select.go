package query

import (
	"slices"

	"github.com/creachadair/jdoc/ast"
)

// A Selection reports whether a value satisfies some condition.
type Selection func(ast.Value) bool

// Exists returns a selection that reports whether Path(keys...) succeeds on
// its argument.
func Exists(keys ...any) Selection {
	q := Path(keys...)
	return func(v ast.Value) bool {
		_, err := q.eval(v)
		return err == nil
	}
}

// Equal returns a selection that reports whether Path(keys...) succeeds on
// its argument with a result equal to want (see ast.Equal).
func Equal(want ast.Value, keys ...any) Selection {
	q := Path(keys...)
	return func(v ast.Value) bool {
		got, err := q.eval(v)
		return err == nil && ast.Equal(got, want)
	}
}

// Matches is like Equal, but also reports true if the result is an array
// with an element equal to want. Thus Matches(ast.String("x"), "tags")
// selects documents whose "tags" member is "x" or contains "x".
func Matches(want ast.Value, keys ...any) Selection {
	q := Path(keys...)
	return func(v ast.Value) bool {
		got, err := q.eval(v)
		if err != nil {
			return false
		} else if ast.Equal(got, want) {
			return true
		}
		arr, ok := got.(ast.Array)
		return ok && slices.ContainsFunc(arr, func(elt ast.Value) bool {
			return ast.Equal(elt, want)
		})
	}
}

// All returns a selection that reports whether every one of sels is true of
// its argument. With no selections, it is always true.
func All(sels ...Selection) Selection {
	return func(v ast.Value) bool {
		for _, ok := range sels {
			if !ok(v) {
				return false
			}
		}
		return true
	}
}

// Where returns a query that applies q to its input if sel is true of that
// input, and fails with ErrNoMatch otherwise.
func Where(sel Selection, q Query) Query { return whereQuery{sel, q} }

type whereQuery struct {
	sel Selection
	q   Query
}

func (w whereQuery) eval(v ast.Value) (ast.Value, error) {
	if !w.sel(v) {
		return nil, ErrNoMatch
	}
	return w.q.eval(v)
}
