// Package generate runs one lookup table job end to end: read the source
// file, extract the Glyph array, build the table and render it.
package generate

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lookupgen/internal/config"
	"lookupgen/internal/diff"
	"lookupgen/internal/extract"
	"lookupgen/internal/glyph"
	"lookupgen/internal/logging"
	"lookupgen/internal/table"

	"go.uber.org/zap"
)

// Validate rejects blank markers and default names before any file is touched.
func Validate(job config.Job) error {
	for _, arg := range []struct{ name, value string }{
		{"start", job.Start},
		{"end", job.End},
		{"default", job.Default},
	} {
		if strings.TrimSpace(arg.value) == "" {
			return glyph.Errorf(glyph.ErrUsage, nil, "empty <%s> pattern", arg.name)
		}
	}
	return nil
}

// Generate returns the rendered table for job. Nothing is returned unless the
// whole array decoded cleanly.
func Generate(ctx context.Context, job config.Job) ([]byte, error) {
	if err := Validate(job); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := logging.Get(logging.CategoryGenerate)

	f, err := os.Open(job.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	defer f.Close()

	block, err := extract.Extract(f, job.Source, job.Start, job.End)
	if err != nil {
		return nil, err
	}
	log.Debug("array decoded",
		zap.String("source", job.Source),
		zap.Int("glyphs", len(block.Glyphs)),
		zap.Int("start_line", block.Start.Line),
		zap.Int("end_line", block.EndLine))

	tbl, err := table.Synthesize(block.Glyphs, job.Default, block.Start)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = tbl.Render(&buf, table.Header{
		Source:    job.Source,
		Start:     job.Start,
		End:       job.End,
		Default:   job.Default,
		Decl:      job.Decl,
		StartLine: block.Start.Line,
		EndLine:   block.EndLine,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render table: %w", err)
	}
	return buf.Bytes(), nil
}

// Run generates job and writes the result to job.Output.
func Run(ctx context.Context, job config.Job) error {
	data, err := Generate(ctx, job)
	if err != nil {
		return err
	}
	if err := WriteOutput(job.Output, data); err != nil {
		return err
	}
	logging.Get(logging.CategoryGenerate).Info("table written",
		zap.String("source", job.Source),
		zap.String("output", job.Output))
	return nil
}

// WriteOutput replaces path with data. The data goes to a temporary file in
// the same directory first, so a reader never sees a half-written table.
func WriteOutput(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Check generates job and compares the result with the existing job.Output.
func Check(ctx context.Context, job config.Job, contextLines int) (*diff.FileDiff, error) {
	data, err := Generate(ctx, job)
	if err != nil {
		return nil, err
	}

	isNew := false
	existing, err := os.ReadFile(job.Output)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: %w", job.Output, err)
		}
		isNew = true
	}

	d := diff.Compare(job.Output, job.Output, string(existing), string(data), contextLines)
	d.IsNew = isNew

	log := logging.Get(logging.CategoryCheck)
	if d.Stale() {
		added, removed := d.Counts()
		log.Info("table out of date",
			zap.String("output", job.Output),
			zap.Bool("missing", isNew),
			zap.Int("added", added),
			zap.Int("removed", removed))
	} else {
		log.Debug("table up to date", zap.String("output", job.Output))
	}
	return d, nil
}
