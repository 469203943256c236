package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/matzehuels/sunburst/pkg/failures"
)

// WriteJSON encodes a report as indented JSON, jobs in document order.
func WriteJSON(t failures.Tree, w io.Writer) error {
	raw, err := t.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}

// ExportJSON writes a report to a JSON file at path.
func ExportJSON(t failures.Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(t, f)
}

// WriteArtifacts writes each artifact to dir/base.<ext>, where ext comes
// from extension(format). It returns the written paths sorted by name.
func WriteArtifacts(dir, base string, artifacts map[string][]byte, extension func(string) string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := filepath.Join(dir, base+"."+extension(format))
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
