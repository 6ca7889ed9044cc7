// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	"github.com/creachadair/jdoc/ast"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

// statsCommand prints a summary of the documents in each file.
type statsCommand struct {
	env   *env
	files []string
}

// tally accumulates counts over the values of a set of documents.
type tally struct {
	kinds    [ast.ObjectKind + 1]int
	members  int
	keys     map[string]bool
	maxDepth int
}

func (t *tally) add(v ast.Value, depth int) {
	t.kinds[v.Kind()]++
	switch v := v.(type) {
	case ast.Array:
		t.maxDepth = max(t.maxDepth, depth)
		for _, elt := range v {
			t.add(elt, depth+1)
		}
	case *ast.Object:
		t.maxDepth = max(t.maxDepth, depth)
		for key, val := range v.All() {
			t.members++
			t.keys[key] = true
			t.add(val, depth+1)
		}
	}
}

func (t *tally) values() (n int) {
	for _, c := range t.kinds {
		n += c
	}
	return n
}

func (cmd *statsCommand) run(*kingpin.ParseContext) error {
	bold := color.New(color.Bold)
	out := cmd.env.stdout
	for _, name := range cmd.files {
		t := &tally{keys: make(map[string]bool)}
		st, err := cmd.env.eachDocument(name, func(_ int, doc *ast.Object) error {
			t.add(doc, 1)
			return nil
		})
		if err != nil {
			return err
		}
		bold.Fprintf(out, "%s:\n", name)
		fmt.Fprintf(out, "\tsize: %v, documents: %d, malformed: %d\n",
			humanize.Bytes(st.Bytes), st.Documents, st.Malformed)
		fmt.Fprintf(out, "\tvalues: %d, members: %d, distinct keys: %d, max depth: %d\n",
			t.values(), t.members, len(t.keys), t.maxDepth)
		fmt.Fprint(out, "\tkinds:")
		for k, n := range t.kinds {
			fmt.Fprintf(out, " %v %d", ast.Kind(k), n)
		}
		fmt.Fprintln(out)
	}
	return nil
}

func addStatsCommand(app *kingpin.Application, e *env) {
	cmd := &statsCommand{env: e}
	stats := app.Command("stats", "Print a summary of the documents in each file.").Action(cmd.run)
	stats.Arg("file", "The files to summarize.").Required().ExistingFilesVar(&cmd.files)
}
