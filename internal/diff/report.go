package diff

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ColorMode selects whether reports are styled.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // style when w is a terminal
	ColorAlways ColorMode = "always" // always emit ANSI styles
	ColorNever  ColorMode = "never"  // plain text
)

// Styles styles the parts of a report.
type Styles struct {
	plain   bool
	Header  lipgloss.Style
	Hunk    lipgloss.Style
	Added   lipgloss.Style
	Removed lipgloss.Style
}

// NewStyles returns report styles for output written to w.
func NewStyles(w io.Writer, mode ColorMode) Styles {
	if mode == ColorNever {
		return Styles{plain: true}
	}

	r := lipgloss.NewRenderer(w)
	if mode == ColorAlways {
		r.SetColorProfile(termenv.ANSI256)
	}
	if r.ColorProfile() == termenv.Ascii {
		return Styles{plain: true}
	}

	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return Styles{
		Header:  base.Bold(true),
		Hunk:    base.Foreground(lipgloss.Color("#2196F3")),
		Added:   base.Foreground(lipgloss.Color("#22c55e")),
		Removed: base.Foreground(lipgloss.Color("#ef4444")),
	}
}

func (s Styles) render(st lipgloss.Style, text string) string {
	if s.plain {
		return text
	}
	return st.Render(text)
}

// Report writes d as a unified diff.
func Report(w io.Writer, d *FileDiff, s Styles) error {
	if !d.Stale() {
		return nil
	}

	oldName := d.OldPath
	if d.IsNew {
		oldName = "/dev/null"
	}
	if _, err := fmt.Fprintln(w, s.render(s.Header, "--- "+oldName)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, s.render(s.Header, "+++ "+d.NewPath)); err != nil {
		return err
	}

	for _, h := range d.Hunks {
		hdr := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		if _, err := fmt.Fprintln(w, s.render(s.Hunk, hdr)); err != nil {
			return err
		}
		for _, l := range h.Lines {
			var text string
			switch l.Type {
			case LineAdded:
				text = s.render(s.Added, "+"+l.Content)
			case LineRemoved:
				text = s.render(s.Removed, "-"+l.Content)
			default:
				text = " " + l.Content
			}
			if _, err := fmt.Fprintln(w, text); err != nil {
				return err
			}
		}
	}
	return nil
}
