// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdoc

import (
	"errors"
	"fmt"
)

// Errors reported as the Kind of a *ParseError. Use errors.Is to check the
// kind of an error returned by a parse.
var (
	// ErrSyntax indicates a malformed literal, a wrong delimiter, or a
	// character that cannot begin a value.
	ErrSyntax = errors.New("syntax error")

	// ErrUnterminatedString indicates the input ended inside a string.
	ErrUnterminatedString = errors.New("unterminated string")

	// ErrUnexpectedEnd indicates the input ended before an array, object, or
	// value was complete.
	ErrUnexpectedEnd = errors.New("unexpected end of input")

	// ErrAllocation indicates that growing a string, array, record, or the
	// nesting depth would exceed a configured limit.
	ErrAllocation = errors.New("allocation limit exceeded")
)

// ParseError is the concrete type of errors reported by the parser.
type ParseError struct {
	Kind     error    // one of ErrSyntax, ErrUnterminatedString, ErrUnexpectedEnd, ErrAllocation
	Location Location // where the cursor was when parsing failed
	Expected string   // what the parser wanted, if known
	Found    string   // what the parser found instead

	err error // an underlying cause, or nil
}

// Error satisfies the error interface.
func (e *ParseError) Error() string {
	msg := fmt.Sprintf("at %s: %v", e.Location.First, e.Kind)
	if e.Expected != "" {
		msg += ": expected " + e.Expected
		if e.Found != "" {
			msg += ", found " + e.Found
		}
	} else if e.Found != "" {
		msg += ": " + e.Found
	}
	if e.err != nil {
		msg += ": " + e.err.Error()
	}
	return msg
}

// Offset reports the byte offset of the error in the input.
func (e *ParseError) Offset() int { return e.Location.Pos }

// Unwrap supports errors.Is and errors.As for the kind and underlying cause.
func (e *ParseError) Unwrap() []error {
	if e.err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.err}
}

// RecordError reports a failure to read or parse one record of a document
// stream.
type RecordError struct {
	Index int // 0-based index of the failing record among non-blank records
	Line  int // 1-based line of the input where the record begins

	Err error // the underlying *ParseError or I/O error
}

// Error satisfies the error interface.
func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d (line %d): %v", e.Index, e.Line, e.Err)
}

// Unwrap supports error wrapping.
func (e *RecordError) Unwrap() error { return e.Err }
