package table

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"lookupgen/internal/glyph"
)

// Header carries what the generated file says about its own provenance.
type Header struct {
	Source    string // file the array was read from
	Start     string // <start> argument
	End       string // <end> argument
	Default   string // <default> argument
	Decl      string // declarator of the table
	StartLine int    // line of the start marker
	EndLine   int    // line of the end marker
}

// Command returns the invocation that regenerates the file.
func (h Header) Command() string {
	args := []string{glyph.Program}
	for _, a := range []string{h.Source, h.Start, h.End, h.Default, h.Decl} {
		args = append(args, "'"+a+"'")
	}
	return strings.Join(args, " ")
}

// Render writes the generated file. The output depends only on t and h.
func (t *Table) Render(w io.Writer, h Header) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "// Auto-generated file, don't change by hand.")
	fmt.Fprintf(bw, "// Generated from: %s, lines %d -- %d.\n", h.Source, h.StartLine, h.EndLine)
	fmt.Fprintf(bw, "// Generated with: %s\n", h.Command())
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "// A lookup table that maps Glyph.code to the index of the glyph")
	fmt.Fprintf(bw, "// in array '%s' from %s:%d.\n", h.Start, h.Source, h.StartLine)
	fmt.Fprintf(bw, "// %d entries, %d glyphs, %d defaults.\n", Size, t.Filled(), t.Defaults())
	fmt.Fprintf(bw, "%s =\n{\n", h.Decl)

	for code := 0; code < Size; code++ {
		if t.def != nil && code == t.def.Code {
			fmt.Fprintln(bw, "    // == DEFAULT ==")
		}
		e := t.Slot(code)
		fmt.Fprintf(bw, "    [0x%02x] = 0x%02x, // @%d, %s\n", code, e.Glyph.Index, e.Glyph.Index, describe(e))
	}
	fmt.Fprintln(bw, "};")

	return bw.Flush()
}

func describe(e Entry) string {
	switch {
	case e.IsDefault:
		return "default = " + e.Glyph.Name
	case e.Glyph.HasChar():
		return fmt.Sprintf("%s = '%c'", e.Glyph.Name, e.Glyph.Char)
	}
	return e.Glyph.Name
}
