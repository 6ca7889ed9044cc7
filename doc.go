// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jdoc implements a recursive-descent JSON parser that builds an
// in-memory value tree, and a reader for streams of newline-delimited JSON
// object records.
//
// # Parsing
//
// Parse parses a complete JSON value from a byte slice:
//
//	v, err := jdoc.Parse(data)
//	if err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// The result is an ast.Value; see package ast for the value types. In case of
// error, the concrete type of the error is *jdoc.ParseError, and its Kind
// is one of ErrSyntax, ErrUnterminatedString, ErrUnexpectedEnd, or
// ErrAllocation. Use errors.Is to check the kind:
//
//	if errors.Is(err, jdoc.ErrUnexpectedEnd) {
//	   log.Print("Input is truncated")
//	}
//
// Limits on nesting depth and on the sizes of strings, arrays, and records
// are set with an Options value, whose methods mirror the top-level functions:
//
//	opts := &jdoc.Options{MaxDepth: 64, MaxStringBytes: 1 << 20}
//	v, err := opts.Parse(data)
//
// # Reading documents
//
// A Reader splits its input into records at each newline that is not inside a
// quoted string, and parses each record as a JSON object:
//
//	rd := jdoc.NewReader(input)
//	for {
//	   doc, err := rd.Next()
//	   if err == io.EOF {
//	      break
//	   }
//	   var perr *jdoc.ParseError
//	   if errors.As(err, &perr) {
//	      log.Printf("Skipping bad record: %v", err)
//	      continue
//	   } else if err != nil {
//	      log.Fatalf("Read failed: %v", err)
//	   }
//	   v, ok := doc.Lookup("name")
//	   // ...
//	}
//
// A malformed record is reported as a *jdoc.RecordError giving the index and
// line of the record; the Reader remains usable, so the caller decides
// whether to continue. An error from the underlying reader is reported in the
// same way, but it is permanent: every later call to Next returns it again.
// ReadDocuments reads all the records at once.
package jdoc
