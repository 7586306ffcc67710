// Package content resolves stage content items from a YAML manifest.
// A lesson either carries inline text or points at a media file relative to
// the manifest directory; missing entries resolve to a typed NotFoundError
// that names the stage, index and expected locator.
package content

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Item struct {
	Title   string `yaml:"title"`
	File    string `yaml:"file,omitempty"`
	Caption string `yaml:"caption,omitempty"`
	Text    string `yaml:"text,omitempty"`
}

type manifest struct {
	Stages map[string][]Item `yaml:"stages"`
}

type NotFoundError struct {
	Stage   string
	Index   int
	Locator string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("content not found: stage=%s index=%d locator=%s", e.Stage, e.Index, e.Locator)
}

type Resolver struct {
	baseDir string
	stages  map[string][]Item
}

func Load(path string) (*Resolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if m.Stages == nil {
		m.Stages = make(map[string][]Item)
	}

	return &Resolver{
		baseDir: filepath.Dir(path),
		stages:  m.Stages,
	}, nil
}

// Resolve returns item idx (1-based) of a stage. File-backed items are
// verified on disk at resolve time so a broken deployment is reported with
// the exact locator instead of failing mid-send.
func (r *Resolver) Resolve(stage string, idx int) (*Item, error) {
	items, ok := r.stages[stage]
	if !ok {
		return nil, &NotFoundError{Stage: stage, Index: idx, Locator: "stage missing from manifest"}
	}
	if idx < 1 || idx > len(items) {
		return nil, &NotFoundError{
			Stage:   stage,
			Index:   idx,
			Locator: fmt.Sprintf("index out of range (stage has %d items)", len(items)),
		}
	}

	item := items[idx-1]
	if item.File != "" {
		full := filepath.Join(r.baseDir, item.File)
		if _, err := os.Stat(full); err != nil {
			return nil, &NotFoundError{Stage: stage, Index: idx, Locator: full}
		}
		item.File = full
	}
	return &item, nil
}

// Count returns the number of items declared for a stage, 0 when absent.
func (r *Resolver) Count(stage string) int {
	return len(r.stages[stage])
}
