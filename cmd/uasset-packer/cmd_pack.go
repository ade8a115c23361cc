package main

import (
	"fmt"

	"github.com/battlewithbytes/uasset-packer/internal/settings"
	"github.com/battlewithbytes/uasset-packer/internal/ui"
	"github.com/spf13/cobra"
)

var packFlags settings.Paths

func init() {
	packCmd.Flags().StringVar(&packFlags.DumpJSONFile, "json", "", "dump JSON file")
	packCmd.Flags().StringVar(&packFlags.OutputFolder, "output", "", "output folder for the .uasset")
	packCmd.Flags().StringVar(&packFlags.ModFolder, "mod", "", "mod folder to pack")
	packCmd.Flags().StringVar(&packFlags.GamePakFolder, "pak", "", "game pak folder")
	rootCmd.AddCommand(packCmd)
}

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Convert the dump and pack the mod using saved paths",
	Long:  "Runs UAssetGUI fromjson followed by UnrealPak. Flags override the saved paths and are remembered for next time.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.settings.Merge(packFlags); err != nil {
			fmt.Println(ui.Status(false, "Could not save paths: "+err.Error()))
		}

		run, out := a.engine.Pack(a.settings.Paths().Request(), observeStates)
		return printOutcome(run, out)
	},
}
