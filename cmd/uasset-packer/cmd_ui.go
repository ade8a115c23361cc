package main

import (
	"github.com/battlewithbytes/uasset-packer/internal/picker"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(uiCmd)
}

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Pick paths interactively and pack",
	Long:  "Shows file pickers for the dump JSON, output folder, mod folder and game pak folder, remembers the choices, then converts and packs on confirmation.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		out, err := picker.Run(a.engine, a.settings, a.cfg.Archive.Extension)
		if err != nil {
			return err
		}
		if out != nil && !out.Succeeded {
			return errRunFailed
		}
		return nil
	},
}
