// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// An Error reports an invalid escape sequence. Offset is the position of the
// backslash that begins the sequence, relative to the start of the input.
type Error struct {
	Offset int
	Msg    string
}

func (e *Error) Error() string { return fmt.Sprintf("%s (offset %d)", e.Msg, e.Offset) }

// Unquote decodes a byte slice containing the JSON encoding of a string. The
// input must have the enclosing double quotation marks already removed.
//
// The escapes \" \\ \/ \b \f \n \r \t and \uXXXX are replaced with their
// unescaped equivalents. A \u escape for a UTF-16 surrogate pair decodes to a
// single rune; an unpaired surrogate decodes to the Unicode replacement rune.
// Any other escape, or an incomplete one, is reported as an *Error.
func Unquote(src mem.RO) ([]byte, error) {
	return AppendUnquote(make([]byte, 0, src.Len()), src)
}

// AppendUnquote decodes src as Unquote does, appending the result to dst.
// In case of error, dst is returned with the text decoded before the error.
func AppendUnquote(dst []byte, src mem.RO) ([]byte, error) {
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		return mem.Append(dst, src), nil
	}

	putRune := func(r rune) { dst = utf8.AppendRune(dst, r) }
	base := 0 // offset of src in the original input
	for i >= 0 {
		dst = mem.Append(dst, src.SliceTo(i))
		pos := base + i
		src = src.SliceFrom(i + 1)
		base = pos + 1
		if src.Len() == 0 {
			return dst, &Error{Offset: pos, Msg: "incomplete escape sequence"}
		}

		c := src.At(0)
		src = src.SliceFrom(1)
		base++
		switch c {
		case '"', '\\', '/':
			dst = append(dst, c)
		case 'b':
			dst = append(dst, '\b')
		case 'f':
			dst = append(dst, '\f')
		case 'n':
			dst = append(dst, '\n')
		case 'r':
			dst = append(dst, '\r')
		case 't':
			dst = append(dst, '\t')
		case 'u':
			r, err := parseHex4(src)
			if err != nil {
				return dst, &Error{Offset: pos, Msg: err.Error()}
			}
			src = src.SliceFrom(4)
			base += 4
			if utf16.IsSurrogate(r) {
				// A high surrogate may be followed by an escaped low surrogate.
				if src.Len() >= 6 && src.At(0) == '\\' && src.At(1) == 'u' {
					if r2, err := parseHex4(src.SliceFrom(2)); err == nil {
						if dec := utf16.DecodeRune(r, r2); dec != utf8.RuneError {
							putRune(dec)
							src = src.SliceFrom(6)
							base += 6
							break
						}
					}
				}
				r = utf8.RuneError
			}
			putRune(r)
		default:
			return dst, &Error{Offset: pos, Msg: fmt.Sprintf("invalid escape %q", "\\"+string(c))}
		}

		i = mem.IndexByte(src, '\\')
	}
	return mem.Append(dst, src), nil
}

// parseHex4 decodes the first four bytes of data as a hexadecimal rune.
func parseHex4(data mem.RO) (rune, error) {
	if data.Len() < 4 {
		return 0, fmt.Errorf("incomplete Unicode escape")
	}
	var v rune
	for i := 0; i < 4; i++ {
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += rune(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += rune(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += rune(b - 'A' + 10)
		} else {
			return 0, fmt.Errorf("invalid hex digit %q in Unicode escape", b)
		}
	}
	return v, nil
}
