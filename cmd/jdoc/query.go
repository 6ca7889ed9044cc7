// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/creachadair/jdoc"
	"github.com/creachadair/jdoc/ast"
	"github.com/creachadair/jdoc/internal/render"
	"github.com/creachadair/jdoc/jpath"
	"github.com/creachadair/jdoc/query"
	"github.com/go-kit/log/level"
	"github.com/tailscale/hujson"
)

// queryCommand prints a selected value from each document that satisfies a
// set of conditions.
type queryCommand struct {
	env     *env
	file    string
	sel     string
	where   []string
	queries string
}

// A namedQuery is a compiled selection with its conditions.
type namedQuery struct {
	name  string // empty for a query given by flags
	sel   query.Query
	where []query.Selection
}

func (q namedQuery) eval(doc *ast.Object) (ast.Value, error) {
	return query.Eval(doc, query.Where(query.All(q.where...), q.sel))
}

func (cmd *queryCommand) run(*kingpin.ParseContext) error {
	var qs []namedQuery
	if cmd.queries != "" {
		if cmd.sel != "" || len(cmd.where) != 0 {
			return errors.New("--queries cannot be combined with --select or --where")
		}
		var err error
		qs, err = loadQueries(cmd.queries)
		if err != nil {
			return err
		}
	} else {
		q, err := newNamedQuery("", cmd.sel, cmd.where)
		if err != nil {
			return err
		}
		qs = append(qs, q)
	}

	_, err := cmd.env.eachDocument(cmd.file, func(idx int, doc *ast.Object) error {
		for _, q := range qs {
			v, err := q.eval(doc)
			if err != nil {
				level.Debug(cmd.env.logger).Log("msg", "no match", "record", idx, "query", q.name, "err", err)
				continue
			}
			if q.name != "" {
				fmt.Fprintf(cmd.env.stdout, "%s\t", q.name)
			}
			fmt.Fprintln(cmd.env.stdout, render.JSON(v))
		}
		return nil
	})
	return err
}

// newNamedQuery compiles a selection path and a list of conditions. Each
// condition is either KEY=VALUE or a bare KEY, which requires only that KEY
// be present.
func newNamedQuery(name, sel string, where []string) (namedQuery, error) {
	if sel == "" {
		sel = "$"
	}
	q, err := jpath.CompileString(sel)
	if err != nil {
		return namedQuery{}, fmt.Errorf("invalid selection %q: %w", sel, err)
	}
	out := namedQuery{name: name, sel: q}
	for _, w := range where {
		key, text, ok := strings.Cut(w, "=")
		if key == "" {
			return namedQuery{}, fmt.Errorf("invalid condition %q (want KEY or KEY=VALUE)", w)
		}
		var want ast.Value
		if ok {
			v, err := jdoc.Parse([]byte(text))
			if err != nil {
				v = ast.String(text)
			}
			want = v
		}
		c, err := newCondition(key, want)
		if err != nil {
			return namedQuery{}, err
		}
		out.where = append(out.where, c)
	}
	return out, nil
}

// newCondition returns a selection matching documents in which key has the
// value want, or is an array containing want. If want == nil, key need only
// be present. A key beginning with "$" is a JSONPath expression; otherwise it
// names a top-level member.
func newCondition(key string, want ast.Value) (query.Selection, error) {
	var path any = key
	if strings.HasPrefix(key, "$") {
		q, err := jpath.CompileString(key)
		if err != nil {
			return nil, fmt.Errorf("invalid condition key %q: %w", key, err)
		}
		path = q
	}
	if want == nil {
		return query.Exists(path), nil
	}
	return query.Matches(want, path), nil
}

// loadQueries reads a batch of named queries from a HuJSON file. The file
// holds an object mapping each query name to an object of the form
//
//	{"select": "$.path", "where": {"key": value, ...}}
//
// Both fields are optional. Queries are applied in the order given.
func loadQueries(path string) ([]namedQuery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	root, err := jdoc.ParseObject(std)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var out []namedQuery
	for _, m := range root.Members() {
		def, ok := m.Value.(*ast.Object)
		if !ok {
			return nil, fmt.Errorf("%s: query %q is %v, want object", path, m.Key, m.Value.Kind())
		}
		var sel string
		if v, ok := def.Lookup("select"); ok {
			s, ok := v.(ast.String)
			if !ok {
				return nil, fmt.Errorf("%s: query %q: select is %v, want string", path, m.Key, v.Kind())
			}
			sel = string(s)
		}
		q, err := newNamedQuery(m.Key, sel, nil)
		if err != nil {
			return nil, fmt.Errorf("%s: query %q: %w", path, m.Key, err)
		}
		if v, ok := def.Lookup("where"); ok {
			conds, ok := v.(*ast.Object)
			if !ok {
				return nil, fmt.Errorf("%s: query %q: where is %v, want object", path, m.Key, v.Kind())
			}
			for key, want := range conds.All() {
				c, err := newCondition(key, want)
				if err != nil {
					return nil, fmt.Errorf("%s: query %q: %w", path, m.Key, err)
				}
				q.where = append(q.where, c)
			}
		}
		out = append(out, q)
	}
	return out, nil
}

func addQueryCommand(app *kingpin.Application, e *env) {
	cmd := &queryCommand{env: e}
	q := app.Command("query", "Print selected values from the documents that match a set of conditions.").Action(cmd.run)
	q.Arg("file", "The document file to read.").Required().ExistingFileVar(&cmd.file)
	q.Flag("select", "A JSONPath expression selecting the value to print (default $).").Short('s').StringVar(&cmd.sel)
	q.Flag("where", "A KEY=VALUE condition (VALUE is JSON, or else a plain string), or a KEY that must be present.").Short('w').StringsVar(&cmd.where)
	q.Flag("queries", "Read a batch of named queries from this HuJSON file.").ExistingFileVar(&cmd.queries)
}
