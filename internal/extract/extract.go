// Package extract finds a Glyph array in a C source file and decodes its
// entries, one per line.
//
// The array is located by two markers: the first line that contains the start
// marker opens the block, and the first later line whose trimmed text begins
// with the end marker closes it. Every line in between must be blank, a 1-line
// comment, or exactly one entry of the form
//
//	{ code, width, name } [,] [comment]
package extract

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"lookupgen/internal/glyph"
	"lookupgen/internal/logging"

	"go.uber.org/zap"
)

// maxLineSize bounds a single source line.
const maxLineSize = 1 << 20

// { word, word, word } tail
var entryPattern = regexp.MustCompile(`^\s*\{\s*(\w+)\s*,\s*(\w+)\s*,\s*(\w+)\s*\}(.*)$`)

// Block is the decoded array.
type Block struct {
	Glyphs  []glyph.Glyph
	Start   glyph.Location // line holding the start marker
	EndLine int            // line holding the end marker
}

type state int

const (
	outsideBlock state = iota
	insideBlock
)

// Extract scans r for the block between start and end and decodes it.
// source names r in diagnostics. The first problem found aborts the scan.
func Extract(r io.Reader, source, start, end string) (*Block, error) {
	log := logging.Get(logging.CategoryExtract)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		st    = outsideBlock
		block = &Block{}
		n     int
	)
	for scanner.Scan() {
		n++
		line := scanner.Text()
		loc := glyph.Location{Source: source, Line: n, Text: line}

		switch st {
		case outsideBlock:
			if strings.Contains(line, start) {
				block.Start = loc
				st = insideBlock
				log.Debug("block start", zap.String("source", source), zap.Int("line", n))
			}

		case insideBlock:
			if strings.HasPrefix(strings.TrimSpace(line), end) {
				block.EndLine = n
				log.Debug("block end", zap.Int("line", n), zap.Int("glyphs", len(block.Glyphs)))
				return block, nil
			}
			void, err := isVoid(line, loc)
			if err != nil {
				return nil, err
			}
			if void {
				continue
			}
			g, err := decodeLine(loc, len(block.Glyphs))
			if err != nil {
				return nil, err
			}
			block.Glyphs = append(block.Glyphs, g)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}

	if st == insideBlock {
		return nil, glyph.Errorf(glyph.ErrUnterminatedBlock, &block.Start,
			"<start> pattern `%s` not followed by <end> pattern '%s'", start, end)
	}
	return nil, glyph.Errorf(glyph.ErrMarkerNotFound, &glyph.Location{Source: source},
		"<start> pattern '%s' not found", start)
}

// decodeLine decodes one entry. index is the entry's position in the array.
func decodeLine(loc glyph.Location, index int) (glyph.Glyph, error) {
	m := entryPattern.FindStringSubmatch(loc.Text)
	if m == nil {
		return glyph.Glyph{}, glyph.Errorf(glyph.ErrUnrecognizedLine, &loc, "line not recognized")
	}

	// After the closing brace there may be a ",", then at most a 1-line comment.
	tail := strings.TrimSpace(m[4])
	tail = strings.TrimPrefix(tail, ",")
	void, err := isVoid(tail, loc)
	if err != nil {
		return glyph.Glyph{}, err
	}
	if !void {
		return glyph.Glyph{}, glyph.Errorf(glyph.ErrUnrecognizedLine, &loc, "line not recognized")
	}

	return glyph.New(index, m[1], m[2], m[3], loc)
}

// isVoid reports whether s can be ignored: blank, or a comment that ends on
// the same line. A "/*" comment that does not close on its line is an error.
func isVoid(s string, loc glyph.Location) (bool, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return true, nil
	case strings.HasPrefix(s, "//"):
		return true, nil
	case strings.HasPrefix(s, "/*"):
		if !strings.HasSuffix(s, "*/") {
			return false, glyph.Errorf(glyph.ErrMultilineComment, &loc,
				"multi-line comments are not supported by %s", glyph.Program)
		}
		return true, nil
	}
	return false, nil
}
