// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jpath

import (
	"fmt"

	"github.com/creachadair/jdoc/query"
)

// Compile converts e into a query that can be evaluated against a value.
//
// Steps that may select more than one value (wildcards, recursive descent,
// slices, and index lists) produce an array, and the steps after them are
// applied to each element of that array.
func Compile(e Expr) (query.Query, error) {
	var seq query.Seq
	for i, s := range e {
		q, multi, err := compileStep(s)
		if err != nil {
			return nil, fmt.Errorf("compile %s: step %d: %w", e, i, err)
		}
		seq = append(seq, q)
		if multi && i+1 < len(e) {
			rest, err := Compile(e[i+1:])
			if err != nil {
				return nil, err
			}
			return append(seq, query.Each(rest)), nil
		}
	}
	return seq, nil
}

// CompileString parses and compiles a JSONPath expression.
func CompileString(s string) (query.Query, error) {
	e, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return Compile(e)
}

// compileStep reports the query for s, and whether it selects an array of
// results rather than a single value.
func compileStep(s Step) (_ query.Query, multi bool, _ error) {
	switch s.Op {
	case Member:
		return query.Path(s.Name), false, nil
	case Wildcard:
		return query.Glob(), true, nil
	case Recur:
		return query.Recur(s.Name), true, nil
	case RecurAll:
		return query.Recur(), true, nil
	case Index:
		if len(s.Indices) == 1 {
			return query.Path(s.Indices[0]), false, nil
		} else if len(s.Indices) > 1 {
			return query.Pick(s.Indices...), true, nil
		}
		return nil, false, fmt.Errorf("empty index list")
	case Slice:
		if s.HasHi {
			return query.Slice(s.Lo, s.Hi), true, nil
		}
		return query.SliceFrom(s.Lo), true, nil
	}
	return nil, false, fmt.Errorf("invalid step %v", s.Op)
}
