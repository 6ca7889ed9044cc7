// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdoc

import (
	"errors"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/creachadair/jdoc/ast"
	"github.com/creachadair/jdoc/internal/escape"
	"go4.org/mem"
)

// A scanner is a cursor over a complete input. The leaf parsers consume a
// prefix of the remaining input and advance the cursor past it.
type scanner struct {
	src []byte
	pos int

	// Scratch space for decoding strings, reused across values.
	buf []byte
}

func (s *scanner) atEOF() bool { return s.pos >= len(s.src) }

// peek returns the byte at the cursor, or 0 at the end of input.
func (s *scanner) peek() byte {
	if s.pos < len(s.src) {
		return s.src[s.pos]
	}
	return 0
}

func (s *scanner) rest() mem.RO { return mem.B(s.src[s.pos:]) }

// skipSpace advances past any JSON whitespace.
func (s *scanner) skipSpace() {
	for s.pos < len(s.src) && isSpace(s.src[s.pos]) {
		s.pos++
	}
}

// found describes the input at the cursor for an error message, and reports
// the length in bytes of the text described.
func (s *scanner) found() (string, int) {
	if s.atEOF() {
		return "end of input", 0
	}
	r, n := utf8.DecodeRune(s.src[s.pos:])
	if r == utf8.RuneError && n <= 1 {
		return strconv.Quote(string(s.src[s.pos : s.pos+1])), 1
	}
	return strconv.QuoteRune(r), n
}

// fail panics with a *ParseError of the given kind at the cursor.
func (s *scanner) fail(kind error, expected string, cause error) {
	found, n := s.found()
	panic(&ParseError{
		Kind:     kind,
		Location: locate(s.src, Span{Pos: s.pos, End: s.pos + n}),
		Expected: expected,
		Found:    found,
		err:      cause,
	})
}

// failf panics with a *ParseError whose description is msg rather than the
// text at the cursor.
func (s *scanner) failf(kind error, msg string) {
	panic(&ParseError{
		Kind:     kind,
		Location: locate(s.src, Span{Pos: s.pos, End: s.pos}),
		Found:    msg,
	})
}

// parseNull consumes the constant null.
func (s *scanner) parseNull() ast.Value {
	s.literal("null")
	return ast.Null{}
}

// parseBoolean consumes one of the constants true or false.
func (s *scanner) parseBoolean() ast.Value {
	if s.peek() == 't' {
		s.literal("true")
		return ast.Bool(true)
	}
	s.literal("false")
	return ast.Bool(false)
}

// literal consumes the constant word, or fails.
func (s *scanner) literal(word string) {
	if !mem.HasPrefix(s.rest(), mem.S(word)) {
		s.fail(ErrSyntax, strconv.Quote(word), nil)
	}
	s.pos += len(word)
}

// parseNumber consumes the longest prefix of the input that is a valid JSON
// number: an optional minus sign, an integer part, an optional fraction, and
// an optional exponent.
func (s *scanner) parseNumber() ast.Value {
	start := s.pos
	if s.peek() == '-' {
		s.pos++
	}

	// Integer part. A leading zero must be the only digit (RFC 8259, section 6).
	if !isDigit(s.peek()) {
		s.fail(ErrSyntax, "digit", nil)
	}
	lead := s.peek()
	s.pos++
	if lead == '0' && isDigit(s.peek()) {
		s.failf(ErrSyntax, "extra leading zeroes in number")
	}
	s.digits()

	// Fraction.
	if s.peek() == '.' {
		s.pos++
		if s.digits() == 0 {
			s.fail(ErrSyntax, "digit after decimal point", nil)
		}
	}

	// Exponent.
	if c := s.peek(); c == 'e' || c == 'E' {
		s.pos++
		if c := s.peek(); c == '+' || c == '-' {
			s.pos++
		}
		if s.digits() == 0 {
			s.fail(ErrSyntax, "exponent digits", nil)
		}
	}

	text := mem.B(s.src[start:s.pos])
	v, err := mem.ParseFloat(text, 64)
	if err != nil || math.IsInf(v, 0) {
		end := s.pos
		s.pos = start
		panic(&ParseError{
			Kind:     ErrSyntax,
			Location: locate(s.src, Span{Pos: start, End: end}),
			Found:    "number out of range: " + text.StringCopy(),
			err:      errors.Unwrap(err),
		})
	}
	return ast.Number(v)
}

// digits consumes a run of decimal digits and reports how many there were.
func (s *scanner) digits() int {
	start := s.pos
	for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
		s.pos++
	}
	return s.pos - start
}

// parseString consumes a quoted string and returns its decoded text.
func (s *scanner) parseString(maxBytes int) string {
	if s.peek() != '"' {
		s.fail(ErrSyntax, "string", nil)
	}
	open := s.pos
	s.pos++

	// Find the closing quote, noting whether any escapes need decoding.
	start, esc := s.pos, false
	for {
		if s.atEOF() {
			s.fail(ErrUnterminatedString, `'"'`, nil)
		}
		c := s.src[s.pos]
		if c == '"' {
			break
		} else if c == '\\' {
			esc = true
			s.pos++ // skip the escaped byte; it is checked when decoding
		}
		s.pos++
		if maxBytes > 0 && s.pos-start > maxBytes {
			s.pos = open
			s.failf(ErrAllocation, "string longer than "+strconv.Itoa(maxBytes)+" bytes")
		}
	}
	raw := s.src[start:s.pos]
	s.pos++ // closing quote
	if !esc {
		return string(raw)
	}

	var err error
	s.buf, err = escape.AppendUnquote(s.buf[:0], mem.B(raw))
	if err != nil {
		var e *escape.Error
		if errors.As(err, &e) {
			s.pos = start + e.Offset
		}
		s.fail(ErrSyntax, "valid escape sequence", err)
	}
	return string(s.buf)
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isDigit(c byte) bool { return '0' <= c && c <= '9' }
