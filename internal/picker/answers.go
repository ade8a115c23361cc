package picker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/battlewithbytes/uasset-packer/internal/settings"
)

// Answers holds the raw values bound to the form fields.
type Answers struct {
	DumpJSONFile  string
	OutputFolder  string
	ModFolder     string
	GamePakFolder string

	// Confirmation
	Pack bool
}

// answersFrom pre-fills the form from the persisted paths.
func answersFrom(p settings.Paths) *Answers {
	return &Answers{
		DumpJSONFile:  p.DumpJSONFile,
		OutputFolder:  p.OutputFolder,
		ModFolder:     p.ModFolder,
		GamePakFolder: p.GamePakFolder,
	}
}

// Paths returns the picked values as a settings record.
func (a *Answers) Paths() settings.Paths {
	return settings.Paths{
		DumpJSONFile:  strings.TrimSpace(a.DumpJSONFile),
		OutputFolder:  strings.TrimSpace(a.OutputFolder),
		ModFolder:     strings.TrimSpace(a.ModFolder),
		GamePakFolder: strings.TrimSpace(a.GamePakFolder),
	}
}

// ValidateJSONFile returns nil if s is empty or names an existing .json file.
// Empty is allowed so a user can leave a field for later.
func ValidateJSONFile(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if !strings.EqualFold(filepath.Ext(s), ".json") {
		return fmt.Errorf("must be a .json file")
	}
	info, err := os.Stat(s)
	if err != nil {
		return fmt.Errorf("file not found")
	}
	if info.IsDir() {
		return fmt.Errorf("must be a file, not a directory")
	}
	return nil
}

// ValidateDir returns nil if s is empty or names an existing directory.
func ValidateDir(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	info, err := os.Stat(s)
	if err != nil {
		return fmt.Errorf("directory not found")
	}
	if !info.IsDir() {
		return fmt.Errorf("must be a directory")
	}
	return nil
}

// startDir picks where a file picker opens: the current value's directory,
// else the working directory.
func startDir(current string, isDir bool) string {
	if current != "" {
		dir := current
		if !isDir {
			dir = filepath.Dir(current)
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
