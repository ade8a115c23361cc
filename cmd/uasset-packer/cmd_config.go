package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/uasset-packer/internal/config"
	"github.com/battlewithbytes/uasset-packer/internal/ui"
)

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and create the UAsset Packer configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		toolsDir, err := cfg.ResolveToolsDir()
		if err != nil {
			toolsDir = "(unresolved: " + err.Error() + ")"
		}
		dataDir, err := cfg.ResolveDataDir()
		if err != nil {
			dataDir = "(unresolved: " + err.Error() + ")"
		}

		fmt.Println(ui.Cyan.Render("Tools:"))
		fmt.Println(ui.Dim.Render("  Dir:       ") + ui.White.Render(toolsDir))
		fmt.Println(ui.Dim.Render("  Converter: ") + ui.White.Render(cfg.Tools.Converter))
		fmt.Println(ui.Dim.Render("  Packer:    ") + ui.White.Render(cfg.Tools.Packer))
		fmt.Println(ui.Dim.Render("  File list: ") + ui.White.Render(cfg.Tools.Manifest))
		if len(cfg.Tools.Launcher) > 0 {
			fmt.Println(ui.Dim.Render("  Launcher:  ") + ui.White.Render(strings.Join(cfg.Tools.Launcher, " ")))
		}
		fmt.Println()
		fmt.Println(ui.Cyan.Render("Archive:"))
		fmt.Println(ui.Dim.Render("  Extension: ") + ui.White.Render(cfg.Archive.Extension))
		fmt.Println()
		fmt.Println(ui.Cyan.Render("Data dir: ") + ui.White.Render(dataDir))
		fmt.Println()
		fmt.Println(ui.Dim.Render("Config file: " + configPath()))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		if _, err := os.Stat(path); err == nil && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.Default().Save(path); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Println(ui.Green.Render("✓") + " Wrote " + ui.White.Render(path))
		return nil
	},
}
