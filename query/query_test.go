package query_test

import (
	"errors"
	"testing"

	"github.com/creachadair/jdoc"
	"github.com/creachadair/jdoc/ast"
	"github.com/creachadair/jdoc/internal/render"
	"github.com/creachadair/jdoc/query"
)

const testJSON = `{
  "show": "Ship Shape",
  "episodes": [
    {"title": "Pilot", "airDate": "2021-11-30", "rating": 7.5, "guests": ["Pat"]},
    {"title": "Undertow", "airDate": "2021-12-07", "rating": 8, "guests": []},
    {"title": "Undertow", "airDate": "2021-12-14", "rating": 6.25},
    {"title": "Finale", "airDate": "2021-12-21", "rating": 9, "guests": ["Kim", "Lee"]}
  ],
  "network": {"name": "OBN", "owner": {"name": "Nobody"}},
  "cancelled": null
}`

func mustParse(t *testing.T, s string) ast.Value {
	t.Helper()
	v, err := jdoc.Parse([]byte(s))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return v
}

func TestQuery(t *testing.T) {
	val := mustParse(t, testJSON)

	tests := []struct {
		name  string
		query query.Query
		want  string
	}{
		{"Root", query.Path(), testJSON},
		{"Key", query.Path("show"), `"Ship Shape"`},
		{"Seq", query.Seq{
			query.Path("episodes"),
			query.Path(0),
			query.Path("airDate"),
		}, `"2021-11-30"`},
		{"PathMixed", query.Path("episodes", -1, "guests", 1), `"Lee"`},
		{"Null", query.Path("cancelled"), `null`},
		{"Each", query.Path("episodes", query.Each("airDate")),
			`["2021-11-30","2021-12-07","2021-12-14","2021-12-21"]`},
		{"Slice", query.Path("episodes", query.Slice(1, 3), query.Each("rating")), `[8,6.25]`},
		{"SliceNegative", query.Path("episodes", query.Slice(-3, -1), query.Each("rating")), `[8,6.25]`},
		{"SliceClamped", query.Path("episodes", query.Slice(2, 9), query.Each("title")), `["Undertow","Finale"]`},
		{"SliceEmpty", query.Path("episodes", query.Slice(3, 1)), `[]`},
		{"SliceFrom", query.Path("episodes", query.SliceFrom(-2), query.Each("title")), `["Undertow","Finale"]`},
		{"SliceFromAll", query.Path("episodes", 0, "guests", query.SliceFrom(-5)), `["Pat"]`},
		{"Pick", query.Path("episodes", query.Pick(3, 0), query.Each("title")), `["Finale","Pilot"]`},
		{"PickRepeat", query.Path("episodes", 3, "guests", query.Pick(1, -1)), `["Lee","Lee"]`},
		{"Recur", query.Recur("name"), `["OBN","Nobody"]`},
		{"RecurIndex", query.Recur("guests", 0), `["Pat","Kim"]`},
		{"GlobObject", query.Path("network", query.Glob()), `["OBN",{"name":"Nobody"}]`},
		{"GlobArray", query.Path("episodes", 3, "guests", query.Glob()), `["Kim","Lee"]`},
		{"Where", query.Path("episodes", 1, query.Where(
			query.Exists("guests"), query.Path("title"),
		)), `"Undertow"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := query.Eval(val, tc.query)
			if err != nil {
				t.Fatalf("Eval failed: %v", err)
			}
			if want := mustParse(t, tc.want); !ast.Equal(got, want) {
				t.Errorf("Eval: got %s, want %s", render.JSON(got), render.JSON(want))
			}
		})
	}
}

func TestDuplicateKeys(t *testing.T) {
	val := mustParse(t, `{"a": 1, "b": [2], "a": 3}`)
	got, err := query.Eval(val, query.Path("a"))
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if got != ast.Number(3) {
		t.Errorf("Eval: got %v, want 3", got)
	}

	// Glob and Recur see every member, shadowed or not.
	got, err = query.Eval(val, query.Glob())
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if want := mustParse(t, `[1, [2], 3]`); !ast.Equal(got, want) {
		t.Errorf("Glob: got %s, want %s", render.JSON(got), render.JSON(want))
	}
}

func TestQueryErrors(t *testing.T) {
	val := mustParse(t, testJSON)

	tests := []struct {
		name    string
		query   query.Query
		noMatch bool
	}{
		{"NoKey", query.Path("nonesuch"), false},
		{"KeyOnArray", query.Path("episodes", "title"), false},
		{"IndexOnObject", query.Path(0), false},
		{"IndexRange", query.Path("episodes", 4), false},
		{"NegativeRange", query.Path("episodes", -5), false},
		{"EachMissing", query.Path("episodes", query.Each("guests")), false},
		{"EachNonArray", query.Path("network", query.Each("name")), false},
		{"SliceNonArray", query.Path("network", query.Slice(0, 1)), false},
		{"PickRange", query.Path("episodes", query.Pick(0, 7)), false},
		{"GlobScalar", query.Path("show", query.Glob()), false},
		{"NoRecur", query.Recur("nonesuch"), true},
		{"WhereFalse", query.Where(query.Exists("nonesuch"), query.Path("show")), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := query.Eval(val, tc.query)
			if err == nil {
				t.Fatalf("Eval: got %s, wanted error", render.JSON(got))
			}
			if got := errors.Is(err, query.ErrNoMatch); got != tc.noMatch {
				t.Errorf("Eval: got error %v, ErrNoMatch is %v, want %v", err, got, tc.noMatch)
			}
		})
	}
}

func TestSelections(t *testing.T) {
	val := mustParse(t, `{"a": 1, "b": [1, 2], "c": {"d": "e"}}`)

	tests := []struct {
		name string
		sel  query.Selection
		want bool
	}{
		{"ExistsYes", query.Exists("c", "d"), true},
		{"ExistsNo", query.Exists("c", "e"), false},
		{"ExistsIndex", query.Exists("b", -1), true},
		{"EqualNumber", query.Equal(ast.Number(1), "a"), true},
		{"EqualArray", query.Equal(ast.ToValue([]any{1, 2}), "b"), true},
		{"EqualWrong", query.Equal(ast.String("1"), "a"), false},
		{"EqualMissing", query.Equal(ast.Null{}, "z"), false},
		{"EqualRoot", query.Equal(val), true},
		{"MatchesScalar", query.Matches(ast.Number(1), "a"), true},
		{"MatchesElement", query.Matches(ast.Number(2), "b"), true},
		{"MatchesWhole", query.Matches(ast.ToValue([]any{1, 2}), "b"), true},
		{"MatchesNone", query.Matches(ast.Number(3), "b"), false},
		{"MatchesNested", query.Matches(ast.String("e"), "c", "d"), true},
		{"MatchesMissing", query.Matches(ast.Number(1), "q"), false},
		{"AllEmpty", query.All(), true},
		{"AllTrue", query.All(query.Exists("a"), query.Matches(ast.Number(2), "b")), true},
		{"AllFalse", query.All(query.Exists("a"), query.Exists("q")), false},
	}
	for _, tc := range tests {
		if got := tc.sel(val); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
