package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/battlewithbytes/uasset-packer/internal/ui"
	"github.com/battlewithbytes/uasset-packer/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "uasset-packer",
	Short:        "UAsset Packer: convert UAssetGUI dumps and pack Unreal mods",
	Version:      version.Version,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return uiCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.Long = ui.Green.Render("UAsset Packer") + " " + ui.Cyan.Render(version.Version) + "\n" +
		ui.Dim.Render("Turns a UAssetGUI JSON dump back into a .uasset and packs a mod folder into a game pak with UnrealPak.")

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default <user config dir>/uasset-packer/config.yml)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory for settings and run history")
	rootCmd.PersistentFlags().BoolVar(&flagEphemeral, "ephemeral", false, "do not read or write saved paths")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
