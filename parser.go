// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdoc

import (
	"strconv"

	"github.com/creachadair/jdoc/ast"
	"github.com/creachadair/jdoc/hashtab"
)

// DefaultMaxDepth is the nesting limit used when Options.MaxDepth is zero.
const DefaultMaxDepth = 10000

// initArrayCap is the capacity of an array's backing store when its first
// element is added. The capacity doubles each time it is exhausted.
const initArrayCap = 4

// Options control the behavior of the parser and the document reader.
// A zero Options is ready for use and applies default settings.
type Options struct {
	// MaxDepth limits the nesting depth of arrays and objects. Zero means
	// DefaultMaxDepth; a negative value means no limit.
	MaxDepth int

	// MaxStringBytes limits the encoded length of a string. Zero means no limit.
	MaxStringBytes int

	// MaxArrayLen limits the number of elements in an array. Zero means no
	// limit.
	MaxArrayLen int

	// MaxRecordBytes limits the length of one record read by a Reader. Zero
	// means no limit.
	MaxRecordBytes int

	// Hash, if set, is used to select buckets in object tables.
	Hash hashtab.HashFunc

	// ContinueOnError instructs ReadDocuments to skip malformed records
	// rather than stopping at the first one.
	ContinueOnError bool
}

func (o *Options) maxDepth() int {
	if o == nil || o.MaxDepth == 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// Parse parses text as a single JSON value using default options.
func Parse(text []byte) (ast.Value, error) { return (*Options)(nil).Parse(text) }

// ParseObject parses text as a single JSON object using default options.
func ParseObject(text []byte) (*ast.Object, error) { return (*Options)(nil).ParseObject(text) }

// Parse parses text as a single JSON value. Whitespace may surround the
// value, but any other input after it is an error. In case of error, the
// concrete type of the error is *ParseError.
func (o *Options) Parse(text []byte) (_ ast.Value, err error) {
	p := o.newParser(text)
	defer recoverParseError(&err)

	v := p.parseValue()
	p.requireEnd()
	return v, nil
}

// ParseObject parses text as a single JSON object, as Parse does, but reports
// an error if the value is not an object.
func (o *Options) ParseObject(text []byte) (_ *ast.Object, err error) {
	p := o.newParser(text)
	defer recoverParseError(&err)

	p.skipSpace()
	if p.atEOF() {
		p.fail(ErrUnexpectedEnd, `'{'`, nil)
	} else if p.peek() != '{' {
		p.fail(ErrSyntax, `'{'`, nil)
	}
	obj := p.parseObject()
	p.requireEnd()
	return obj, nil
}

func (o *Options) newParser(text []byte) *parser {
	p := &parser{scanner: scanner{src: text}, maxDepth: o.maxDepth()}
	if o != nil {
		p.maxString = o.MaxStringBytes
		p.maxArray = o.MaxArrayLen
		p.hash = o.Hash
	}
	return p
}

func recoverParseError(errp *error) {
	if x := recover(); x != nil {
		perr, ok := x.(*ParseError)
		if !ok {
			panic(x)
		}
		*errp = perr
	}
}

// A parser is a recursive-descent parser for JSON values.
// Errors are reported by panicking with a *ParseError, which the exported
// entry points recover.
type parser struct {
	scanner

	depth, maxDepth int
	maxString       int
	maxArray        int
	hash            hashtab.HashFunc
}

// parseValue skips leading whitespace and dispatches on the first byte of a
// value to the parser for that kind of value. One byte of lookahead suffices.
func (p *parser) parseValue() ast.Value {
	p.skipSpace()
	switch c := p.peek(); {
	case p.atEOF():
		p.fail(ErrUnexpectedEnd, "value", nil)
	case c == '"':
		return ast.String(p.parseString(p.maxString))
	case c == '-' || isDigit(c):
		return p.parseNumber()
	case c == 't' || c == 'f':
		return p.parseBoolean()
	case c == 'n':
		return p.parseNull()
	case c == '[':
		return p.parseArray()
	case c == '{':
		return p.parseObject()
	}
	p.fail(ErrSyntax, "value", nil)
	panic("unreachable")
}

// requireEnd checks that only whitespace remains in the input.
func (p *parser) requireEnd() {
	p.skipSpace()
	if !p.atEOF() {
		p.fail(ErrSyntax, "end of input", nil)
	}
}

func (p *parser) enter() {
	p.depth++
	if p.maxDepth > 0 && p.depth > p.maxDepth {
		p.failf(ErrAllocation, "nesting depth exceeds "+strconv.Itoa(p.maxDepth))
	}
}

func (p *parser) leave() { p.depth-- }

// parseArray consumes a bracketed, comma-separated sequence of values.
// Precondition: the cursor is at "[".
func (p *parser) parseArray() ast.Value {
	p.enter()
	defer p.leave()
	p.pos++ // "["

	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return ast.Array(nil)
	}

	var vals []ast.Value
	for {
		v := p.parseValue()
		if len(vals) == cap(vals) {
			vals = p.growArray(vals)
		}
		vals = append(vals, v)

		p.skipSpace()
		switch {
		case p.atEOF():
			p.fail(ErrUnexpectedEnd, `',' or ']'`, nil)
		case p.peek() == ',':
			p.pos++
			continue
		case p.peek() == ']':
			p.pos++
		default:
			p.fail(ErrSyntax, `',' or ']'`, nil)
		}
		break
	}

	// Trim the backing store to the exact length.
	out := make(ast.Array, len(vals))
	copy(out, vals)
	return out
}

// growArray returns a copy of vals with double its capacity, or the initial
// capacity if vals is empty.
func (p *parser) growArray(vals []ast.Value) []ast.Value {
	n := max(2*cap(vals), initArrayCap)
	if p.maxArray > 0 {
		if len(vals) >= p.maxArray {
			p.failf(ErrAllocation, "array longer than "+strconv.Itoa(p.maxArray)+" elements")
		}
		n = min(n, p.maxArray)
	}
	next := make([]ast.Value, len(vals), n)
	copy(next, vals)
	return next
}

// parseObject consumes a braced, comma-separated sequence of "key": value
// members. Each member is added to the object's table as it is parsed.
// Precondition: the cursor is at "{".
func (p *parser) parseObject() *ast.Object {
	p.enter()
	defer p.leave()
	p.pos++ // "{"

	obj := ast.NewObjectHash(p.hash)
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return obj
	}
	for {
		p.skipSpace()
		if p.atEOF() {
			p.fail(ErrUnexpectedEnd, "string key", nil)
		} else if p.peek() != '"' {
			p.fail(ErrSyntax, "string key", nil)
		}
		key := p.parseString(p.maxString)

		p.skipSpace()
		if p.atEOF() {
			p.fail(ErrUnexpectedEnd, `':'`, nil)
		} else if p.peek() != ':' {
			p.fail(ErrSyntax, `':'`, nil)
		}
		p.pos++

		obj.Add(key, p.parseValue())

		p.skipSpace()
		switch {
		case p.atEOF():
			p.fail(ErrUnexpectedEnd, `',' or '}'`, nil)
		case p.peek() == ',':
			p.pos++
			continue
		case p.peek() == '}':
			p.pos++
		default:
			p.fail(ErrSyntax, `',' or '}'`, nil)
		}
		return obj
	}
}
