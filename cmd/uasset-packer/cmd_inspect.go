package main

import (
	"fmt"
	"path/filepath"

	"github.com/battlewithbytes/uasset-packer/internal/dump"
	"github.com/battlewithbytes/uasset-packer/internal/packer"
	"github.com/battlewithbytes/uasset-packer/internal/ui"
	"github.com/spf13/cobra"
)

var inspectCopyTo string

func init() {
	inspectCmd.Flags().StringVar(&inspectCopyTo, "copy-to", "", "copy the JSON file into this existing folder")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <json>",
	Short: "Show what a dump JSON file would produce",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := dump.Load(args[0])
		if err != nil {
			fmt.Println(ui.Status(false, "Failed to load JSON file: "+err.Error()))
			return errRunFailed
		}

		fmt.Println(ui.Status(true, s.String()))
		fmt.Println(ui.Field("  Size:   ", fmt.Sprintf("%d bytes", s.Size)))
		fmt.Println(ui.Field("  Asset:  ", packer.AssetName(filepath.Base(args[0]))))

		if inspectCopyTo != "" {
			dst, err := dump.CopyToOutput(args[0], inspectCopyTo)
			if err != nil {
				return err
			}
			fmt.Println(ui.Status(true, "Copied to "+dst))
		}
		return nil
	},
}
