// Package diff compares a committed lookup table with a freshly generated one,
// using the sergi/go-diff line mode, and reports the drift as unified hunks.
package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineType represents the type of diff line
type LineType int

const (
	LineContext LineType = iota // Unchanged context line
	LineAdded                   // Present only in the generated table
	LineRemoved                 // Present only in the committed table
)

// Line represents a single line in the diff
type Line struct {
	Content string
	Type    LineType
}

// Hunk represents a group of changes with surrounding context
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// FileDiff is the drift between two versions of one generated file
type FileDiff struct {
	OldPath string
	NewPath string
	Hunks   []Hunk
	IsNew   bool // no committed version exists
}

// Stale reports whether the committed file differs from the generated one.
func (d *FileDiff) Stale() bool {
	return d.IsNew || len(d.Hunks) > 0
}

// Counts returns the number of added and removed lines.
func (d *FileDiff) Counts() (added, removed int) {
	for _, h := range d.Hunks {
		for _, l := range h.Lines {
			switch l.Type {
			case LineAdded:
				added++
			case LineRemoved:
				removed++
			}
		}
	}
	return added, removed
}

// operation is one line of the full comparison. oldPos/newPos count the
// lines of each side that precede it.
type operation struct {
	typ     LineType
	oldPos  int
	newPos  int
	content string
}

// Compare computes the line diff from oldContent to newContent with
// contextLines of unchanged lines around each change.
func Compare(oldPath, newPath, oldContent, newContent string, contextLines int) *FileDiff {
	d := &FileDiff{OldPath: oldPath, NewPath: newPath}
	if oldContent == newContent {
		return d
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0 // accuracy over speed, tables are small

	// Line-level reduction avoids newline boundary artifacts in line ops.
	a, b, lineArray := dmp.DiffLinesToChars(oldContent, newContent)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	d.Hunks = groupIntoHunks(toOperations(diffs), contextLines)
	return d
}

// toOperations flattens diffmatchpatch diffs into per-line operations.
func toOperations(diffs []diffmatchpatch.Diff) []operation {
	var ops []operation
	oldPos, newPos := 0, 0

	for _, diff := range diffs {
		lines := strings.Split(diff.Text, "\n")
		// Remove trailing empty line from split
		if len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}

		for _, line := range lines {
			op := operation{oldPos: oldPos, newPos: newPos, content: line}
			switch diff.Type {
			case diffmatchpatch.DiffEqual:
				op.typ = LineContext
				oldPos++
				newPos++
			case diffmatchpatch.DiffDelete:
				op.typ = LineRemoved
				oldPos++
			case diffmatchpatch.DiffInsert:
				op.typ = LineAdded
				newPos++
			}
			ops = append(ops, op)
		}
	}
	return ops
}

// groupIntoHunks cuts ops into hunks. Changes separated by at most
// 2*contextLines unchanged lines share a hunk.
func groupIntoHunks(ops []operation, contextLines int) []Hunk {
	var hunks []Hunk

	i := 0
	for i < len(ops) {
		if ops[i].typ == LineContext {
			i++
			continue
		}

		start := max(0, i-contextLines)
		last := i
		for j := i + 1; j < len(ops); j++ {
			if ops[j].typ != LineContext {
				last = j
				continue
			}
			if j-last > 2*contextLines {
				break
			}
		}
		stop := min(len(ops), last+contextLines+1)

		hunks = append(hunks, newHunk(ops[start:stop]))
		i = stop
	}
	return hunks
}

func newHunk(ops []operation) Hunk {
	h := Hunk{
		OldStart: ops[0].oldPos + 1,
		NewStart: ops[0].newPos + 1,
		Lines:    make([]Line, 0, len(ops)),
	}
	for _, op := range ops {
		h.Lines = append(h.Lines, Line{Content: op.content, Type: op.typ})
		if op.typ != LineAdded {
			h.OldCount++
		}
		if op.typ != LineRemoved {
			h.NewCount++
		}
	}
	// Unified diff convention: an empty side names the line before it.
	if h.OldCount == 0 {
		h.OldStart--
	}
	if h.NewCount == 0 {
		h.NewStart--
	}
	return h
}
