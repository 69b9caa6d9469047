package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Job describes one lookup table: which array to read and where the table goes.
type Job struct {
	Source  string `yaml:"source"`  // C file holding the Glyph array
	Start   string `yaml:"start"`   // substring of the array's first line, e.g. "Glyph glyphs[]"
	End     string `yaml:"end"`     // prefix of the array's last line, e.g. "};"
	Default string `yaml:"default"` // name of the glyph used for unmapped codes
	Decl    string `yaml:"decl"`    // declarator of the generated table
	Output  string `yaml:"output"`  // generated file; empty means stdout
}

// Manifest is a list of jobs run together by "lookupgen batch".
type Manifest struct {
	Jobs []Job `yaml:"jobs"`
}

// LoadManifest reads a manifest. Relative source and output paths are
// resolved against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if len(m.Jobs) == 0 {
		return nil, fmt.Errorf("manifest %s has no jobs", path)
	}

	dir := filepath.Dir(path)
	for i := range m.Jobs {
		j := &m.Jobs[i]
		if j.Source == "" {
			return nil, fmt.Errorf("manifest %s: job %d has no source", path, i+1)
		}
		if j.Output == "" {
			return nil, fmt.Errorf("manifest %s: job %d (%s) has no output", path, i+1, j.Source)
		}
		j.Source = resolve(dir, j.Source)
		j.Output = resolve(dir, j.Output)
	}
	return &m, nil
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
