package packer

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/battlewithbytes/uasset-packer/internal/config"
	"github.com/battlewithbytes/uasset-packer/internal/toolexec"
)

// RunFunc launches an external process. toolexec.Run in production.
type RunFunc func(inv toolexec.Invocation) (*toolexec.Result, error)

// Toolbox runs the two bundled tools. Each step resolves the tools
// directory on every call so a moved install is picked up without restart.
type Toolbox struct {
	ToolsDir   func() (string, error)
	Converter  string
	Packer     string
	Manifest   string
	ArchiveExt string
	Launcher   []string
	Run        RunFunc
}

// NewToolbox builds a Toolbox from the application config.
func NewToolbox(cfg *config.Config) *Toolbox {
	return &Toolbox{
		ToolsDir:   cfg.ResolveToolsDir,
		Converter:  cfg.Tools.Converter,
		Packer:     cfg.Tools.Packer,
		Manifest:   cfg.Tools.Manifest,
		ArchiveExt: cfg.Archive.Extension,
		Launcher:   cfg.Tools.Launcher,
		Run:        toolexec.Run,
	}
}

// ManifestPath returns where the UnrealPak file list is written.
func (tb *Toolbox) ManifestPath() (string, error) {
	dir, err := tb.ToolsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, tb.Manifest), nil
}

// Convert runs "<converter> fromjson <sourceJSON> <asset>" and reports the
// asset path on success. The source file is not checked here; a missing
// file surfaces as the converter's own failure.
func (tb *Toolbox) Convert(sourceJSON, outputFolder string) StepResult {
	label := toolLabel(tb.Converter)

	dir, err := tb.ToolsDir()
	if err != nil {
		return stepFailed("Failed to execute %s: %v", label, err)
	}

	name := filepath.Base(sourceJSON)
	outputPath := AssetPath(sourceJSON, outputFolder)
	inv := toolexec.Invocation{
		Path:     filepath.Join(dir, tb.Converter),
		Args:     []string{"fromjson", sourceJSON, outputPath},
		Launcher: tb.Launcher,
	}

	log.Printf("[convert] %s", inv)
	res, err := tb.run(inv)
	if err != nil {
		return stepFailed("Failed to execute %s: %v", label, err)
	}
	if !res.Succeeded() {
		return stepFailed("%s failed with code %d: %s", label, res.ExitCode, res.Diagnostic())
	}
	return stepOK(outputPath, "Successfully converted %s to %s", name, outputPath)
}

// Pack writes the file list into the tools directory, then runs
// "<packer> <archive> -create=<filelist> -compress" from that directory.
// The file list is overwritten on every call and never removed.
func (tb *Toolbox) Pack(modFolder, gamePakFolder string) StepResult {
	label := toolLabel(tb.Packer)

	dir, err := tb.ToolsDir()
	if err != nil {
		return stepFailed("Failed to execute %s: %v", label, err)
	}

	archiveName := ArchiveName(modFolder, tb.ArchiveExt)
	archivePath := filepath.Join(gamePakFolder, archiveName)
	manifestPath := filepath.Join(dir, tb.Manifest)

	if err := os.WriteFile(manifestPath, []byte(ManifestContent(modFolder)), 0644); err != nil {
		return stepFailed("Failed to execute %s: writing file list: %v", label, err)
	}

	inv := toolexec.Invocation{
		Path:     filepath.Join(dir, tb.Packer),
		Args:     []string{archivePath, "-create=" + manifestPath, "-compress"},
		Dir:      dir,
		Launcher: tb.Launcher,
	}

	log.Printf("[pak] %s", inv)
	res, err := tb.run(inv)
	if err != nil {
		return stepFailed("Failed to execute %s: %v", label, err)
	}
	if !res.Succeeded() {
		return stepFailed("%s failed with code %d: %s", label, res.ExitCode, res.Diagnostic())
	}
	return stepOK(archivePath, "Successfully created pak file: %s", archiveName)
}

func (tb *Toolbox) run(inv toolexec.Invocation) (*toolexec.Result, error) {
	if tb.Run == nil {
		return toolexec.Run(inv)
	}
	res, err := tb.Run(inv)
	if err == nil && res == nil {
		return nil, fmt.Errorf("%s: no result", filepath.Base(inv.Path))
	}
	return res, err
}
