// Package table builds the 256-entry lookup table that maps a glyph code to
// the index of its glyph, and renders it as C source.
package table

import (
	"lookupgen/internal/glyph"
	"lookupgen/internal/logging"

	"go.uber.org/zap"
)

// Size is the number of slots, one per byte value.
const Size = glyph.MaxCode + 1

// Entry is the content of one slot.
type Entry struct {
	Glyph     glyph.Glyph
	IsDefault bool // slot had no glyph of its own
}

// Table maps every code to a glyph.
type Table struct {
	slots    [Size]*glyph.Glyph
	def      *glyph.Glyph // nil when every slot is filled
	defaults int
}

// Synthesize fills the table from glyphs. Later glyphs overwrite earlier ones
// with the same code. The glyph named defaultName is only looked up when at
// least one slot stays empty, so a complete array needs no default.
func Synthesize(glyphs []glyph.Glyph, defaultName string, loc glyph.Location) (*Table, error) {
	log := logging.Get(logging.CategoryTable)

	t := &Table{}
	for i := range glyphs {
		g := &glyphs[i]
		if prev := t.slots[g.Code]; prev != nil {
			log.Debug("code redefined",
				zap.Int("code", g.Code),
				zap.String("old", prev.Name),
				zap.String("new", g.Name))
		}
		t.slots[g.Code] = g
	}

	for _, s := range t.slots {
		if s == nil {
			t.defaults++
		}
	}
	if t.defaults == 0 {
		log.Debug("all codes defined, no default needed")
		return t, nil
	}

	for i := range glyphs {
		if glyphs[i].Name == defaultName {
			t.def = &glyphs[i]
			break
		}
	}
	if t.def == nil {
		return nil, glyph.Errorf(glyph.ErrDefaultNotFound, &loc, "default element '%s' not found", defaultName)
	}
	log.Debug("default resolved",
		zap.String("name", t.def.Name),
		zap.Int("index", t.def.Index),
		zap.Int("defaults", t.defaults))
	return t, nil
}

// Slot returns the entry for code.
func (t *Table) Slot(code int) Entry {
	if g := t.slots[code]; g != nil {
		return Entry{Glyph: *g}
	}
	return Entry{Glyph: *t.def, IsDefault: true}
}

// Filled returns the number of slots that have a glyph of their own.
func (t *Table) Filled() int {
	return Size - t.defaults
}

// Defaults returns the number of slots filled with the default glyph.
func (t *Table) Defaults() int {
	return t.defaults
}

// Default returns the default glyph, if one was needed.
func (t *Table) Default() (glyph.Glyph, bool) {
	if t.def == nil {
		return glyph.Glyph{}, false
	}
	return *t.def, true
}
