// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	"github.com/creachadair/jdoc/ast"
	"github.com/creachadair/jdoc/internal/render"
	"github.com/go-kit/log/level"
)

// lookupCommand prints the values of top-level keys in each document.
type lookupCommand struct {
	env  *env
	file string
	keys []string
}

func (cmd *lookupCommand) run(*kingpin.ParseContext) error {
	_, err := cmd.env.eachDocument(cmd.file, func(idx int, doc *ast.Object) error {
		for _, key := range cmd.keys {
			v, ok := ast.Lookup(doc, key)
			if !ok {
				level.Debug(cmd.env.logger).Log("msg", "key not found", "record", idx, "key", key)
				continue
			}
			fmt.Fprintf(cmd.env.stdout, "%d\t%s\t%s\n", idx, key, render.JSON(v))
		}
		return nil
	})
	return err
}

func addLookupCommand(app *kingpin.Application, e *env) {
	cmd := &lookupCommand{env: e}
	lookup := app.Command("lookup", "Print the values of top-level keys in each document.").Action(cmd.run)
	lookup.Arg("file", "The document file to read.").Required().ExistingFileVar(&cmd.file)
	lookup.Arg("key", "The keys to look up.").Required().StringsVar(&cmd.keys)
}
