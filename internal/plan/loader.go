package plan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads and validates the plan file at path. The plan's id is derived
// from the filename (without extension); the recognized shapes are the
// structured markdown plan and the legacy JSON plan (spec §4.2).
func Load(path string) (*Plan, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan %s: %w", path, err)
	}

	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var p *Plan
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".md", ".markdown":
		p, err = ParseMarkdown(id, content)
	case ".json":
		p, err = ParseLegacy(id, content)
	default:
		// Content sniff: legacy plans are JSON objects, everything else is
		// treated as structured markdown.
		trimmed := strings.TrimSpace(string(content))
		if strings.HasPrefix(trimmed, "{") && json.Valid([]byte(trimmed)) {
			p, err = ParseLegacy(id, content)
		} else {
			p, err = ParseMarkdown(id, content)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("load plan %s: %w", path, err)
	}

	p.FilePath = path
	if err := Validate(p); err != nil {
		return nil, fmt.Errorf("validate plan %s: %w", path, err)
	}
	return p, nil
}
