// Package glyph defines the records found in a Glyph array and the
// diagnostics produced while reading them.
package glyph

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Program is the command name used in diagnostics and generated banners.
const Program = "lookupgen"

// MaxCode is the largest code a glyph may carry; lookup tables have MaxCode+1 slots.
const MaxCode = 0xff

// Location narrows down where something was found in a source file.
// Line == 0 means the location refers to the file as a whole.
type Location struct {
	Source string
	Line   int
	Text   string
}

// FileLevel reports whether the location has no line to point at.
func (l Location) FileLevel() bool {
	return l.Line == 0
}

func (l Location) String() string {
	if l.FileLevel() {
		return l.Source
	}
	return fmt.Sprintf("%s:%d", l.Source, l.Line)
}

// Glyph is one { code, width, name } entry of the array.
type Glyph struct {
	Index    int    // position in the array, counting parsed entries only
	Code     int    // 0..MaxCode
	CodeText string // code as written
	Width    string
	Name     string
	Char     rune // printable form of Code, 0 if none
	Loc      Location
}

// HasChar reports whether the glyph's code has a printable form.
func (g Glyph) HasChar() bool {
	return g.Char != 0
}

// New builds a glyph from the three tokens of an array line.
func New(index int, code, width, name string, loc Location) (Glyph, error) {
	n, err := ParseCode(code)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return Glyph{}, outOfRange(loc, code)
		}
		return Glyph{}, Errorf(ErrInvalidCode, &loc, "code = %s is not an integer literal", code)
	}
	if n < 0 || n > MaxCode {
		return Glyph{}, outOfRange(loc, code)
	}

	return Glyph{
		Index:    index,
		Code:     n,
		CodeText: code,
		Width:    width,
		Name:     name,
		Char:     PrintableChar(n),
		Loc:      loc,
	}, nil
}

func outOfRange(loc Location, code string) error {
	return Errorf(ErrCodeOutOfRange, &loc, "code = %s exceeds %d = 0x%x", code, MaxCode, MaxCode)
}

// ParseCode parses an integer literal like 123 or 0x45. Binary and octal
// prefixes and digit separators are accepted too, but a decimal literal must
// not start with 0 (012 is an error, not octal).
func ParseCode(s string) (int, error) {
	if len(s) > 1 && s[0] == '0' && isDigitOrUnderscore(s[1]) && strings.Trim(s, "0_") != "" {
		return 0, &strconv.NumError{Func: "ParseCode", Num: s, Err: strconv.ErrSyntax}
	}
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func isDigitOrUnderscore(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9')
}

// PrintableChar returns the ASCII character for code, or 0 when the code is
// outside 0x20..0x7f or would need quoting in a character literal.
func PrintableChar(code int) rune {
	if code < 0x20 || code > 0x7f {
		return 0
	}
	c := rune(code)
	if strings.ContainsRune("'\\`", c) {
		return 0
	}
	return c
}
