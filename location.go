// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdoc

import (
	"bytes"
	"fmt"
)

// A Span describes a contiguous span of a source input.
type Span struct {
	Pos int // the start offset, 0-based
	End int // the end offset, 0-based (noninclusive)
}

// A LineCol describes the line number and column offset of a location in
// source text.
type LineCol struct {
	Line   int // line number, 1-based
	Column int // byte offset of column in line, 0-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// A Location describes the complete location of a range of source text,
// including line and column offsets.
type Location struct {
	Span
	First, Last LineCol
}

// lineCol computes the line and column of offset pos in src.
func lineCol(src []byte, pos int) LineCol {
	pos = min(pos, len(src))
	head := src[:pos]
	return LineCol{
		Line:   bytes.Count(head, []byte{'\n'}) + 1,
		Column: pos - (bytes.LastIndexByte(head, '\n') + 1),
	}
}

// locate computes the complete location of span in src.
func locate(src []byte, span Span) Location {
	return Location{Span: span, First: lineCol(src, span.Pos), Last: lineCol(src, span.End)}
}
