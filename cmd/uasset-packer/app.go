package main

import (
	"errors"
	"fmt"

	"github.com/battlewithbytes/uasset-packer/internal/config"
	"github.com/battlewithbytes/uasset-packer/internal/engine"
	"github.com/battlewithbytes/uasset-packer/internal/packer"
	"github.com/battlewithbytes/uasset-packer/internal/settings"
	"github.com/battlewithbytes/uasset-packer/internal/ui"
)

var (
	flagConfig    string
	flagDataDir   string
	flagEphemeral bool
)

// errRunFailed is returned after a failed outcome has already been printed.
var errRunFailed = errors.New("run failed")

// app bundles what most commands need.
type app struct {
	cfg      *config.Config
	engine   *engine.Engine
	settings *settings.State
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.DefaultConfigPath()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openApp loads the config, opens the engine and loads saved paths.
// Callers must Close the result.
func openApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, err
	}
	eng, err := engine.Open(cfg, dataDir)
	if err != nil {
		return nil, err
	}

	var backend settings.Backend = eng.Store()
	if flagEphemeral {
		backend = settings.NewMemoryBackend()
	}

	return &app{
		cfg:      cfg,
		engine:   eng,
		settings: settings.Load(backend),
	}, nil
}

func (a *app) Close() error {
	return a.engine.Close()
}

// observeStates prints each in-flight state as the orchestrator enters it.
func observeStates(s packer.State) {
	switch s {
	case packer.StateConverting:
		fmt.Println(ui.Dim.Render("  → Converting JSON to UAsset..."))
	case packer.StatePacking:
		fmt.Println(ui.Dim.Render("  → Creating pak file..."))
	}
}

// printOutcome prints an outcome and its run, returning errRunFailed on failure.
func printOutcome(run *engine.Run, out packer.Outcome) error {
	fmt.Println(ui.Status(out.Succeeded, out.Message))
	if run != nil {
		fmt.Println(ui.Dim.Render("  Run:    " + run.ID))
		if run.Digest != "" {
			fmt.Println(ui.Dim.Render("  Digest: " + run.Digest))
		}
	}
	if !out.Succeeded {
		return errRunFailed
	}
	return nil
}
