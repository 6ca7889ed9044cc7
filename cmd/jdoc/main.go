// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Program jdoc reads files of newline-delimited JSON documents and prints
// values selected from them.
//
// Usage:
//
//	jdoc [flags] lookup FILE KEY...
//	jdoc [flags] query FILE [--select PATH] [--where KEY[=VALUE]]... [--queries QFILE]
//	jdoc [flags] stats FILE...
//
// Each non-blank record of FILE must be a JSON object. A record ends at a
// newline outside a quoted string.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/creachadair/jdoc"
	"github.com/creachadair/jdoc/ast"
	"github.com/fatih/color"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

func main() {
	e := &env{stdout: os.Stdout, stderr: os.Stderr}
	if err := e.run(os.Args[1:]); err != nil {
		level.Error(e.logger).Log("msg", "command failed", "err", err)
		os.Exit(1)
	}
}

// env carries the settings and outputs shared by all the commands.
type env struct {
	stdout, stderr io.Writer
	logger         log.Logger

	logLevel string
	noColor  bool
	opts     jdoc.Options
}

func (e *env) newApp() *kingpin.Application {
	app := kingpin.New("jdoc", "Read and query files of newline-delimited JSON documents.")
	app.UsageWriter(e.stderr).ErrorWriter(e.stderr)

	app.Flag("log.level", "Only log messages with the given severity or above.").
		Default("warn").EnumVar(&e.logLevel, "debug", "info", "warn", "error")
	app.Flag("keep-going", "Log and skip malformed records instead of stopping.").
		BoolVar(&e.opts.ContinueOnError)
	app.Flag("max-depth", "Maximum nesting depth of values (0 means the default, -1 means no limit).").
		IntVar(&e.opts.MaxDepth)
	app.Flag("max-string-bytes", "Maximum length of a string value in bytes (0 means no limit).").
		IntVar(&e.opts.MaxStringBytes)
	app.Flag("max-record-bytes", "Maximum length of a record in bytes (0 means no limit).").
		IntVar(&e.opts.MaxRecordBytes)
	app.Flag("no-color", "Disable colored output.").BoolVar(&e.noColor)
	app.PreAction(e.setup)

	addLookupCommand(app, e)
	addQueryCommand(app, e)
	addStatsCommand(app, e)
	return app
}

// run parses args and executes the selected command.
func (e *env) run(args []string) error {
	e.logger = e.newLogger(level.AllowWarn())
	_, err := e.newApp().Parse(args)
	return err
}

// setup applies the global flags once they have been parsed.
func (e *env) setup(*kingpin.ParseContext) error {
	lvl, err := level.Parse(e.logLevel)
	if err != nil {
		return err
	}
	e.logger = e.newLogger(level.Allow(lvl))
	if e.noColor {
		color.NoColor = true
	}
	return nil
}

func (e *env) newLogger(opt level.Option) log.Logger {
	return level.NewFilter(log.NewLogfmtLogger(log.NewSyncWriter(e.stderr)), opt)
}

// fileStats summarize the records read from one file.
type fileStats struct {
	Bytes     uint64
	Documents int
	Malformed int
}

// eachDocument calls f with each document in the named file, together with
// the 0-based index of its record among the non-blank records of the file.
//
// If a record is malformed and the keep-going flag is set, the error is logged
// and the record is skipped; otherwise reading stops and the error is
// returned. If f reports an error, reading stops and that error is returned.
func (e *env) eachDocument(name string, f func(int, *ast.Object) error) (fileStats, error) {
	var st fileStats
	fp, err := os.Open(name)
	if err != nil {
		return st, err
	}
	defer fp.Close()
	if fi, err := fp.Stat(); err == nil {
		st.Bytes = uint64(fi.Size())
	}

	rd := e.opts.NewReader(fp)
	for {
		doc, err := rd.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			var perr *jdoc.ParseError
			if e.opts.ContinueOnError && errors.As(err, &perr) {
				var rerr *jdoc.RecordError
				errors.As(err, &rerr)
				level.Warn(e.logger).Log("msg", "skipping malformed record",
					"file", name, "record", rerr.Index, "line", rerr.Line, "err", perr)
				st.Malformed++
				continue
			}
			return st, fmt.Errorf("%s: %w", name, err)
		}
		idx := st.Documents + st.Malformed
		st.Documents++
		if err := f(idx, doc); err != nil {
			return st, err
		}
	}
	level.Debug(e.logger).Log("msg", "read file", "file", name,
		"documents", st.Documents, "malformed", st.Malformed)
	return st, nil
}
