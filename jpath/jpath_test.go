package jpath_test

import (
	"errors"
	"testing"

	"github.com/creachadair/jdoc"
	"github.com/creachadair/jdoc/ast"
	"github.com/creachadair/jdoc/internal/render"
	"github.com/creachadair/jdoc/jpath"
	"github.com/creachadair/jdoc/query"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  jpath.Expr
	}{
		{"$", nil},
		{"$.store.book[*]..author", jpath.Expr{
			{Op: jpath.Member, Name: "store"},
			{Op: jpath.Member, Name: "book"},
			{Op: jpath.Wildcard},
			{Op: jpath.Recur, Name: "author"},
		}},
		{"$..*", jpath.Expr{{Op: jpath.RecurAll}}},
		{"$.store.*", jpath.Expr{{Op: jpath.Member, Name: "store"}, {Op: jpath.Wildcard}}},
		{"$..book[2]", jpath.Expr{{Op: jpath.Recur, Name: "book"}, {Op: jpath.Index, Indices: []int{2}}}},
		{"$..book[0,-1,3]", jpath.Expr{
			{Op: jpath.Recur, Name: "book"},
			{Op: jpath.Index, Indices: []int{0, -1, 3}},
		}},
		{"$[-1:]", jpath.Expr{{Op: jpath.Slice, Lo: -1}}},
		{"$[:2]", jpath.Expr{{Op: jpath.Slice, Hi: 2, HasHi: true}}},
		{"$[1:-1]", jpath.Expr{{Op: jpath.Slice, Lo: 1, Hi: -1, HasHi: true}}},
		{"$[:]", jpath.Expr{{Op: jpath.Slice}}},
		{"$['apple sauce'].pearPlum..'cherry apple'", jpath.Expr{
			{Op: jpath.Member, Name: "apple sauce"},
			{Op: jpath.Member, Name: "pearPlum"},
			{Op: jpath.Recur, Name: "cherry apple"},
		}},
		{"$[a][b]['c d e']", jpath.Expr{
			{Op: jpath.Member, Name: "a"},
			{Op: jpath.Member, Name: "b"},
			{Op: jpath.Member, Name: "c d e"},
		}},
	}
	for _, test := range tests {
		e, err := jpath.Parse(test.input)
		if err != nil {
			t.Errorf("Parse %q: %v", test.input, err)
			continue
		}
		if diff := cmp.Diff(test.want, e, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Parse %q (-want, +got):\n%s", test.input, diff)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"$", "$"},
		{"$.store.book[*]..author", "$.store.book.*..author"},
		{"$['store']['book'][0:2]", "$.store.book[:2]"},
		{"$[a][-3:][b]['c d e']", "$.a[-3:].b['c d e']"},
		{"$..'x y'[1,2]..*", "$..'x y'[1,2]..*"},
		{"$[0][1:-1]", "$[0][1:-1]"},
	}
	for _, test := range tests {
		e, err := jpath.Parse(test.input)
		if err != nil {
			t.Errorf("Parse %q: %v", test.input, err)
			continue
		}
		got := e.String()
		if got != test.want {
			t.Errorf("Parse %q: got %q, want %q", test.input, got, test.want)
		}

		// The canonical form parses to the same expression.
		f, err := jpath.Parse(got)
		if err != nil {
			t.Errorf("Parse %q: %v", got, err)
		} else if diff := cmp.Diff(e, f, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Reparse %q (-want, +got):\n%s", got, diff)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input  string
		offset int
	}{
		{"", 0},
		{"store", 0},
		{"$.", 2},
		{"$[1", 3},
		{"$.a b", 3},
		{"$['open", 2},
		{"$[1,]", 4},
		{"$[1:x]", 4},
		{"$..book[?(@.isbn)]", 8},
		{"$..book[(@.length-1)]", 8},
	}
	for _, test := range tests {
		e, err := jpath.Parse(test.input)
		if err == nil {
			t.Errorf("Parse %q: got %v, wanted error", test.input, e)
			continue
		}
		var serr *jpath.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("Parse %q: got error %T, want *SyntaxError", test.input, err)
		} else if serr.Offset != test.offset {
			t.Errorf("Parse %q: error %v at offset %d, want %d", test.input, err, serr.Offset, test.offset)
		}
	}
}

const storeJSON = `{
  "store": {
    "book": [
      {"author": "Nigel Rees", "title": "Sayings of the Century", "price": 8.95},
      {"author": "Evelyn Waugh", "title": "Sword of Honour", "price": 12.99},
      {"author": "Herman Melville", "title": "Moby Dick", "isbn": "0-553-21311-3"}
    ],
    "bicycle": {"color": "red", "price": 19.95}
  },
  "apple sauce": {"pear": 1}
}`

func TestCompile(t *testing.T) {
	root, err := jdoc.Parse([]byte(storeJSON))
	if err != nil {
		t.Fatalf("Parse input: %v", err)
	}

	tests := []struct {
		path string
		want string
	}{
		{"$", ""},
		{"$.store.bicycle.color", `"red"`},
		{"$.store.book[1].author", `"Evelyn Waugh"`},
		{"$.store.book[-1].title", `"Moby Dick"`},
		{"$['apple sauce'].pear", `1`},
		{"$[store]['bicycle'][price]", `19.95`},
		{"$.store.book[*].author", `["Nigel Rees","Evelyn Waugh","Herman Melville"]`},
		{"$..author", `["Nigel Rees","Evelyn Waugh","Herman Melville"]`},
		{"$..isbn", `["0-553-21311-3"]`},
		{"$.store.book[0,2].title", `["Sayings of the Century","Moby Dick"]`},
		{"$.store.book[:2].price", `[8.95,12.99]`},
		{"$.store.book[-1:].author", `["Herman Melville"]`},
		{"$.store.book[1:3].title", `["Sword of Honour","Moby Dick"]`},
		{"$.store.bicycle.*", `["red",19.95]`},
		{"$.store.book[1:9].title", `["Sword of Honour","Moby Dick"]`},
		{"$.store.book[5:].title", `[]`},
		{"$..book[0].author", `["Nigel Rees"]`},
		{"$.store..price", `[8.95,12.99,19.95]`},
	}
	for _, tc := range tests {
		q, err := jpath.CompileString(tc.path)
		if err != nil {
			t.Errorf("Compile %q: unexpected error: %v", tc.path, err)
			continue
		}
		got, err := query.Eval(root, q)
		if err != nil {
			t.Errorf("Eval %q: unexpected error: %v", tc.path, err)
			continue
		}
		want := root
		if tc.want != "" {
			want, err = jdoc.Parse([]byte(tc.want))
			if err != nil {
				t.Fatalf("Parse %q: %v", tc.want, err)
			}
		}
		if !ast.Equal(got, want) {
			t.Errorf("Eval %q: got %s, want %s", tc.path, render.JSON(got), render.JSON(want))
		}
	}
}

func TestCompileErrors(t *testing.T) {
	for _, path := range []string{"$..book[?(@.isbn)]", "$..book[(@.length-1)]", "nope"} {
		if q, err := jpath.CompileString(path); err == nil {
			t.Errorf("Compile %q: got %v, wanted error", path, q)
		}
	}
	for _, e := range []jpath.Expr{
		{{Op: jpath.Invalid}},
		{{Op: jpath.Member, Name: "a"}, {Op: jpath.Index}},
	} {
		if q, err := jpath.Compile(e); err == nil {
			t.Errorf("Compile %v: got %v, wanted error", e, q)
		}
	}

	// A path that compiles may still fail to match.
	root, err := jdoc.Parse([]byte(storeJSON))
	if err != nil {
		t.Fatalf("Parse input: %v", err)
	}
	for _, path := range []string{"$.store.book[*].isbn", "$.store.pen", "$.store.book[7]", "$..nonesuch"} {
		q, err := jpath.CompileString(path)
		if err != nil {
			t.Errorf("Compile %q: unexpected error: %v", path, err)
			continue
		}
		if v, err := query.Eval(root, q); err == nil {
			t.Errorf("Eval %q: got %s, wanted error", path, render.JSON(v))
		}
	}
}
