// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package render encodes value trees as JSON text for display and tests.
package render

import (
	"strconv"

	"github.com/creachadair/jdoc/ast"
	"github.com/creachadair/jdoc/internal/escape"
	"go4.org/mem"
)

// JSON renders v as compact JSON text. Object members are written in the
// order they were added, including duplicates.
func JSON(v ast.Value) string { return string(AppendJSON(nil, v)) }

// AppendJSON appends the compact JSON encoding of v to buf and returns the
// extended slice. A nil Value is encoded as null.
func AppendJSON(buf []byte, v ast.Value) []byte {
	switch t := v.(type) {
	case nil, ast.Null:
		return append(buf, "null"...)
	case ast.Bool:
		return strconv.AppendBool(buf, bool(t))
	case ast.Number:
		return strconv.AppendFloat(buf, float64(t), 'g', -1, 64)
	case ast.String:
		return append(buf, escape.Quote(mem.S(string(t)))...)
	case ast.Array:
		buf = append(buf, '[')
		for i, elt := range t {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = AppendJSON(buf, elt)
		}
		return append(buf, ']')
	case *ast.Object:
		buf = append(buf, '{')
		i := 0
		for key, val := range t.All() {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, escape.Quote(mem.S(key))...)
			buf = append(buf, ':')
			buf = AppendJSON(buf, val)
			i++
		}
		return append(buf, '}')
	default:
		panic("unknown value type")
	}
}
