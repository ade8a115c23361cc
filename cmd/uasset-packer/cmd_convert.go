package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(pakCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert <json> <output-folder>",
	Short: "Convert a dump JSON into a .uasset only",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		run, out := a.engine.Convert(args[0], args[1], observeStates)
		return printOutcome(run, out)
	},
}

var pakCmd = &cobra.Command{
	Use:   "pak <mod-folder> <game-pak-folder>",
	Short: "Pack a mod folder into a pak only",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		run, out := a.engine.PackOnly(args[0], args[1], observeStates)
		return printOutcome(run, out)
	},
}
