// Package jpath parses and compiles a subset of JSONPath selectors.
//
// The supported forms are:
//
//	$                the root of the document
//	.name  ['name']  the member of an object with the given key
//	.*     [*]       every member of an object, or every element of an array
//	..name ..'name'  the given key at the root and in every descendant
//	..*              every descendant, and the root itself
//	[i]    [i,j,...] elements of an array; negative indices count from the end
//	[lo:hi]          a slice of an array; either bound may be omitted
//
// A bare word in brackets, as in $[name], is also a member name. Filter
// expressions [?(...)] and script expressions [(...)] are not supported.
//
// See https://www.ietf.org/archive/id/draft-goessner-dispatch-jsonpath-00.html
// for the original description of the syntax.
package jpath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// An Expr is a parsed JSONPath expression. An empty Expr selects the root.
type Expr []Step

// An Op identifies the kind of a path step.
type Op byte

const (
	Invalid  Op = iota // not a valid step
	Member             // a named member: .name, ['name']
	Wildcard           // all members or elements: .*, [*]
	Recur              // recursive descent to a named member: ..name
	RecurAll           // recursive descent to all values: ..*
	Index              // one or more array elements: [i], [i,j]
	Slice              // a range of array elements: [lo:hi]
)

var opText = [...]string{
	Invalid:  "invalid",
	Member:   "member",
	Wildcard: "wildcard",
	Recur:    "recur",
	RecurAll: "recur-all",
	Index:    "index",
	Slice:    "slice",
}

func (o Op) String() string {
	if int(o) < len(opText) {
		return opText[o]
	}
	return opText[Invalid]
}

// A Step is a single step of a JSONPath expression.
type Step struct {
	Op Op

	Name    string // Member, Recur
	Indices []int  // Index

	// For Slice, the range starts at Lo and ends before Hi, or at the end of
	// the array if HasHi is false.
	Lo, Hi int
	HasHi  bool
}

// String renders s in canonical form.
func (s Step) String() string {
	switch s.Op {
	case Member:
		if isWord(s.Name) {
			return "." + s.Name
		}
		return "['" + s.Name + "']"
	case Wildcard:
		return ".*"
	case Recur:
		if isWord(s.Name) {
			return ".." + s.Name
		}
		return "..'" + s.Name + "'"
	case RecurAll:
		return "..*"
	case Index:
		parts := make([]string, len(s.Indices))
		for i, v := range s.Indices {
			parts[i] = strconv.Itoa(v)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case Slice:
		var lo, hi string
		if s.Lo != 0 {
			lo = strconv.Itoa(s.Lo)
		}
		if s.HasHi {
			hi = strconv.Itoa(s.Hi)
		}
		return "[" + lo + ":" + hi + "]"
	}
	return "[?]"
}

// String renders e in canonical form. Parsing the result yields an Expr equal
// to e.
func (e Expr) String() string {
	var buf strings.Builder
	buf.WriteString("$")
	for _, s := range e {
		buf.WriteString(s.String())
	}
	return buf.String()
}

// A SyntaxError reports a malformed path expression.
type SyntaxError struct {
	Offset  int    // byte offset of the error in the input
	Message string // description of the problem
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Message)
}

// Parse parses s as a JSONPath expression. In case of error, the concrete
// type of the error is *SyntaxError.
func Parse(s string) (Expr, error) {
	p := &parser{src: s}
	if !p.consume("$") {
		return nil, p.errorf("missing root marker")
	}
	var e Expr
	for p.pos < len(p.src) {
		st, err := p.step()
		if err != nil {
			return nil, err
		}
		e = append(e, st)
	}
	return e, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) rest() string { return p.src[p.pos:] }

func (p *parser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

// consume advances past tok if the input begins with it.
func (p *parser) consume(tok string) bool {
	if strings.HasPrefix(p.rest(), tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *parser) errorf(msg string, args ...any) error {
	return &SyntaxError{Offset: p.pos, Message: fmt.Sprintf(msg, args...)}
}

func (p *parser) step() (Step, error) {
	switch {
	case p.consume(".."):
		if p.consume("*") {
			return Step{Op: RecurAll}, nil
		}
		name, err := p.name()
		return Step{Op: Recur, Name: name}, err

	case p.consume("."):
		if p.consume("*") {
			return Step{Op: Wildcard}, nil
		}
		name, err := p.name()
		return Step{Op: Member, Name: name}, err

	case p.consume("["):
		st, err := p.bracket()
		if err != nil {
			return Step{}, err
		} else if !p.consume("]") {
			return Step{}, p.errorf("missing close bracket")
		}
		return st, nil
	}
	return Step{}, p.errorf("invalid path step %q", p.rest())
}

// bracket parses the contents of a bracketed step.
func (p *parser) bracket() (Step, error) {
	switch c := p.peek(); {
	case p.consume("*"):
		return Step{Op: Wildcard}, nil
	case c == '?' || c == '(':
		return Step{}, p.errorf("filter and script expressions are not supported")
	case c == ':' || c == '-' || isDigit(c):
		return p.indices()
	}
	name, err := p.name()
	return Step{Op: Member, Name: name}, err
}

// indices parses an index list or a slice.
func (p *parser) indices() (Step, error) {
	var lo int
	if p.peek() != ':' {
		v, err := p.index()
		if err != nil {
			return Step{}, err
		}
		lo = v
	}
	if !p.consume(":") {
		st := Step{Op: Index, Indices: []int{lo}}
		for p.consume(",") {
			v, err := p.index()
			if err != nil {
				return Step{}, err
			}
			st.Indices = append(st.Indices, v)
		}
		return st, nil
	}
	st := Step{Op: Slice, Lo: lo}
	if p.peek() != ']' {
		v, err := p.index()
		if err != nil {
			return Step{}, err
		}
		st.Hi, st.HasHi = v, true
	}
	return st, nil
}

func (p *parser) index() (int, error) {
	m := indexRE.FindString(p.rest())
	if m == "" {
		return 0, p.errorf("invalid index")
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0, p.errorf("invalid index %q: %v", m, err)
	}
	p.pos += len(m)
	return v, nil
}

// name parses a bare word or a single-quoted name.
func (p *parser) name() (string, error) {
	if m := wordRE.FindString(p.rest()); m != "" {
		p.pos += len(m)
		return m, nil
	}
	if p.peek() != '\'' {
		return "", p.errorf("invalid name")
	}
	end := strings.IndexByte(p.rest()[1:], '\'')
	if end < 0 {
		return "", p.errorf("unterminated quoted name")
	}
	name := p.rest()[1 : 1+end]
	p.pos += end + 2
	return name, nil
}

var (
	wordRE  = regexp.MustCompile(`^\w+`)
	indexRE = regexp.MustCompile(`^-?\d+`)
)

func isWord(s string) bool { return s != "" && wordRE.FindString(s) == s }

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
