package diff

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func table(values map[int]string) string {
	var b strings.Builder
	for code := 0; code < 32; code++ {
		name := "default = QUESTION_MARK"
		if v, ok := values[code]; ok {
			name = v
		}
		fmt.Fprintf(&b, "    [0x%02x] = 0x01, // @1, %s\n", code, name)
	}
	return b.String()
}

func TestCompare_Identical(t *testing.T) {
	content := table(nil)
	d := Compare("lookup.h", "lookup.h", content, content, 3)
	if d.Stale() {
		t.Fatal("identical content should not be stale")
	}
	if len(d.Hunks) != 0 {
		t.Errorf("expected no hunks, got %d", len(d.Hunks))
	}
}

func TestCompare_SingleChange(t *testing.T) {
	oldContent := table(nil)
	newContent := table(map[int]string{0x10: "LETTER_X"})

	d := Compare("lookup.h", "lookup.h", oldContent, newContent, 3)
	if !d.Stale() {
		t.Fatal("expected stale diff")
	}
	if len(d.Hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(d.Hunks))
	}

	h := d.Hunks[0]
	if h.OldStart != 14 || h.NewStart != 14 {
		t.Errorf("expected hunk to start at line 14, got -%d +%d", h.OldStart, h.NewStart)
	}
	if h.OldCount != 7 || h.NewCount != 7 {
		t.Errorf("expected 7 lines per side, got -%d +%d", h.OldCount, h.NewCount)
	}

	added, removed := d.Counts()
	if added != 1 || removed != 1 {
		t.Errorf("expected 1 added and 1 removed, got %d/%d", added, removed)
	}

	hasAddition := false
	for _, line := range h.Lines {
		if line.Type == LineAdded && strings.Contains(line.Content, "LETTER_X") {
			hasAddition = true
		}
	}
	if !hasAddition {
		t.Error("Expected to find added LETTER_X line")
	}
}

func TestCompare_DistantChangesSplitHunks(t *testing.T) {
	oldContent := table(nil)
	newContent := table(map[int]string{0x02: "A", 0x1c: "B"})

	d := Compare("lookup.h", "lookup.h", oldContent, newContent, 3)
	if len(d.Hunks) != 2 {
		t.Fatalf("expected 2 hunks, got %d", len(d.Hunks))
	}
	if d.Hunks[0].OldStart != 1 {
		t.Errorf("first hunk should be clipped at line 1, got %d", d.Hunks[0].OldStart)
	}
	last := d.Hunks[1]
	if end := last.OldStart + last.OldCount - 1; end != 32 {
		t.Errorf("last hunk should end at line 32, got %d", end)
	}
}

func TestCompare_NearbyChangesMerge(t *testing.T) {
	oldContent := table(nil)
	newContent := table(map[int]string{0x08: "A", 0x0e: "B"})

	d := Compare("lookup.h", "lookup.h", oldContent, newContent, 3)
	if len(d.Hunks) != 1 {
		t.Fatalf("changes 6 lines apart should share a hunk, got %d hunks", len(d.Hunks))
	}
}

func TestCompare_NewFile(t *testing.T) {
	d := Compare("lookup.h", "lookup.h", "", "a\nb\n", 3)
	if len(d.Hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(d.Hunks))
	}
	h := d.Hunks[0]
	if h.OldStart != 0 || h.OldCount != 0 || h.NewStart != 1 || h.NewCount != 2 {
		t.Errorf("unexpected hunk range -%d,%d +%d,%d", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
	}
}

func TestReport_Plain(t *testing.T) {
	oldContent := "one\ntwo\nthree\n"
	newContent := "one\n2\nthree\n"

	d := Compare("lookup.h", "lookup.h (generated)", oldContent, newContent, 1)
	var buf bytes.Buffer
	if err := Report(&buf, d, NewStyles(&buf, ColorNever)); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	want := "--- lookup.h\n" +
		"+++ lookup.h (generated)\n" +
		"@@ -1,3 +1,3 @@\n" +
		" one\n" +
		"-two\n" +
		"+2\n" +
		" three\n"
	if buf.String() != want {
		t.Errorf("unexpected report:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestReport_NewFileAndUpToDate(t *testing.T) {
	d := Compare("lookup.h", "lookup.h", "", "x\n", 3)
	d.IsNew = true

	var buf bytes.Buffer
	if err := Report(&buf, d, NewStyles(&buf, ColorNever)); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "--- /dev/null\n+++ lookup.h\n") {
		t.Errorf("unexpected header: %q", buf.String())
	}

	buf.Reset()
	same := Compare("lookup.h", "lookup.h", "x\n", "x\n", 3)
	if err := Report(&buf, same, NewStyles(&buf, ColorNever)); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("up-to-date file should produce no report, got %q", buf.String())
	}
}

func TestReport_Colored(t *testing.T) {
	d := Compare("a", "b", "x\n", "y\n", 3)

	var buf bytes.Buffer
	if err := Report(&buf, d, NewStyles(&buf, ColorAlways)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected ANSI escapes in colored report, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "+y") || !strings.Contains(buf.String(), "-x") {
		t.Errorf("colored report lost content: %q", buf.String())
	}
}

func TestReport_AutoOnBufferIsPlain(t *testing.T) {
	d := Compare("a", "b", "x\n", "y\n", 3)

	var buf bytes.Buffer
	if err := Report(&buf, d, NewStyles(&buf, ColorAuto)); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("non-terminal writer should get plain text, got %q", buf.String())
	}
}
