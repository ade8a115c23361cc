// Package dump loads UAssetGUI dump JSON files just far enough to show the
// user what was picked. The payload itself is never interpreted.
package dump

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Summary describes a loaded dump file.
type Summary struct {
	Path       string
	Properties int // number of top-level keys
	Size       int64
}

// String renders the line shown after picking a file.
func (s *Summary) String() string {
	return fmt.Sprintf("JSON file loaded (%d properties)", s.Properties)
}

// Load reads path and counts its top-level keys. The document must be a
// JSON object.
func Load(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading JSON file: %w", err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("parsing JSON file: %w", err)
	}
	if top == nil {
		return nil, fmt.Errorf("parsing JSON file: not a JSON object")
	}

	return &Summary{
		Path:       path,
		Properties: len(top),
		Size:       int64(len(data)),
	}, nil
}

// CopyToOutput copies src into outputDir under the same file name and
// returns the new path. outputDir must already exist.
func CopyToOutput(src, outputDir string) (string, error) {
	info, err := os.Stat(outputDir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("output directory does not exist: %s", outputDir)
	}

	dst := filepath.Join(outputDir, filepath.Base(src))

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to copy file: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}
	return dst, nil
}
