// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdoc

import (
	"bufio"
	"errors"
	"io"
	"strconv"

	"github.com/creachadair/jdoc/ast"
)

// Documents is an ordered collection of root objects, one per record.
type Documents []*ast.Object

// Reset discards all the documents in d, retaining its storage.
func (d *Documents) Reset() {
	clear(*d)
	*d = (*d)[:0]
}

// A Reader reads a stream of newline-delimited JSON object records.
//
// A record ends at a newline that is not inside a quoted string, so a string
// value may span lines. Blank records are skipped. A final record need not
// end with a newline.
type Reader struct {
	r    *bufio.Reader
	opts Options
	buf  []byte // current record

	index int   // index of the next non-blank record
	line  int   // 1-based line of the next input byte
	err   error // sticky read error
}

// NewReader constructs a Reader that consumes input from r using default
// options.
func NewReader(r io.Reader) *Reader { return (*Options)(nil).NewReader(r) }

// NewReader constructs a Reader that consumes input from r.
func (o *Options) NewReader(r io.Reader) *Reader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	rd := &Reader{r: br, line: 1}
	if o != nil {
		rd.opts = *o
	}
	return rd
}

// Next reads and parses the next record, which must be a JSON object.  At the
// end of the input, Next returns io.EOF.
//
// If a record cannot be parsed, Next reports a *RecordError and the Reader
// remains positioned at the following record, so the caller may choose to
// continue. Errors from the underlying reader are also reported as a
// *RecordError, but they are permanent.
func (r *Reader) Next() (*ast.Object, error) {
	for {
		if r.err != nil {
			return nil, r.err
		}
		start := r.line
		rerr := r.readRecord()
		if rerr != nil && rerr != io.EOF {
			r.err = &RecordError{Index: r.index, Line: start, Err: rerr}
			return nil, r.err
		}
		if isBlank(r.buf) {
			if rerr == io.EOF {
				r.err = io.EOF
				return nil, io.EOF
			}
			continue
		}

		idx := r.index
		r.index++
		if r.opts.MaxRecordBytes > 0 && len(r.buf) > r.opts.MaxRecordBytes {
			return nil, &RecordError{Index: idx, Line: start, Err: &ParseError{
				Kind:     ErrAllocation,
				Location: Location{Span: Span{Pos: r.opts.MaxRecordBytes, End: len(r.buf)}},
				Found:    "record longer than " + strconv.Itoa(r.opts.MaxRecordBytes) + " bytes",
			}}
		}
		obj, err := r.opts.ParseObject(r.buf)
		if err != nil {
			return nil, &RecordError{Index: idx, Line: start, Err: err}
		}
		return obj, nil
	}
}

// readRecord reads bytes up to the next newline outside a quoted string, and
// leaves them in r.buf without the newline. It returns io.EOF if the input
// ended before a newline was found.
//
// If a record exceeds the record limit, readRecord keeps consuming it but
// stops buffering after the limit, so that the caller can skip it.
func (r *Reader) readRecord() error {
	r.buf = r.buf[:0]
	limit := r.opts.MaxRecordBytes
	var inString, escaped bool
	for {
		c, err := r.r.ReadByte()
		if err != nil {
			return err
		}
		if c == '\n' {
			r.line++
			if !inString {
				return nil
			}
		}
		if inString {
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
		} else if c == '"' {
			inString = true
		}
		if limit <= 0 || len(r.buf) <= limit {
			r.buf = append(r.buf, c)
		}
	}
}

func isBlank(data []byte) bool {
	for _, b := range data {
		if !isSpace(b) {
			return false
		}
	}
	return true
}

// ReadDocuments reads all the records from r using default options.
func ReadDocuments(r io.Reader) (Documents, error) { return (*Options)(nil).ReadDocuments(r) }

// ReadDocuments reads all the records from r and returns the documents in
// order.
//
// By default, ReadDocuments stops at the first malformed record and returns
// the documents read before it together with its *RecordError.  If
// o.ContinueOnError is true, malformed records are skipped, and the errors for
// all of them are returned together (see errors.Join) along with the
// documents that were read successfully. A read error from r always stops
// the process.
func (o *Options) ReadDocuments(r io.Reader) (Documents, error) {
	rd := o.NewReader(r)
	keepGoing := o != nil && o.ContinueOnError

	var docs Documents
	var errs []error
	for {
		obj, err := rd.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			var perr *ParseError
			if keepGoing && errors.As(err, &perr) {
				errs = append(errs, err)
				continue
			}
			if len(errs) == 0 {
				return docs, err
			}
			return docs, errors.Join(append(errs, err)...)
		}
		docs = append(docs, obj)
	}
	return docs, errors.Join(errs...)
}
