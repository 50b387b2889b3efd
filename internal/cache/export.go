// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"
)

// ExportEntry is one document in a YAML export of the cache.
type ExportEntry struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title"`
	Modified  string `yaml:"modified,omitempty"`
	Revision  string `yaml:"revision,omitempty"`
	LocalPath string `yaml:"local_path,omitempty"`
}

const exportLimit = 100000

// ExportYAML writes the cached listing to w as YAML, most recently modified
// first. A non-empty filter applies the same fuzzy title match as List.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer, filter string) error {
	metas, err := s.List(ctx, filter, exportLimit)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(metas))
	for i, m := range metas {
		entries[i] = ExportEntry{
			ID:        m.ID,
			Title:     m.Title,
			Revision:  m.Revision,
			LocalPath: m.LocalPath,
		}
		if !m.ModifiedTime.IsZero() {
			entries[i].Modified = m.ModifiedTime.UTC().Format(time.RFC3339)
		}
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}
