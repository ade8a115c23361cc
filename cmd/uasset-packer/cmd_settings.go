package main

import (
	"fmt"
	"strings"

	"github.com/battlewithbytes/uasset-packer/internal/picker"
	"github.com/battlewithbytes/uasset-packer/internal/settings"
	"github.com/battlewithbytes/uasset-packer/internal/ui"
	"github.com/spf13/cobra"
)

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsClearCmd)
	rootCmd.AddCommand(settingsCmd)
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and change the remembered paths",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the remembered paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		printPaths(a.settings.Paths())
		return nil
	},
}

// settingFields maps the names accepted by "settings set" to their setters
// and validators.
var settingFields = map[string]struct {
	set      func(*settings.State, string) error
	validate func(string) error
}{
	"json":   {(*settings.State).SetDumpJSONFile, picker.ValidateJSONFile},
	"output": {(*settings.State).SetOutputFolder, picker.ValidateDir},
	"mod":    {(*settings.State).SetModFolder, picker.ValidateDir},
	"pak":    {(*settings.State).SetGamePakFolder, picker.ValidateDir},
}

var settingsSetCmd = &cobra.Command{
	Use:       "set <json|output|mod|pak> <path>",
	Short:     "Remember one path",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"json", "output", "mod", "pak"},
	RunE: func(cmd *cobra.Command, args []string) error {
		f, ok := settingFields[strings.ToLower(args[0])]
		if !ok {
			return fmt.Errorf("unknown field %q (want json, output, mod or pak)", args[0])
		}
		if err := f.validate(args[1]); err != nil {
			fmt.Println(ui.Dim.Render("warning: " + args[1] + ": " + err.Error()))
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := f.set(a.settings, args[1]); err != nil {
			return err
		}
		fmt.Println(ui.Status(true, "Saved "+args[0]+" = "+args[1]))
		return nil
	},
}

var settingsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all remembered paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.settings.Clear(); err != nil {
			return err
		}
		fmt.Println(ui.Status(true, "Cleared remembered paths"))
		return nil
	},
}

func printPaths(p settings.Paths) {
	fmt.Println(ui.Field("Dump JSON:       ", p.DumpJSONFile))
	fmt.Println(ui.Field("Output folder:   ", p.OutputFolder))
	fmt.Println(ui.Field("Mod folder:      ", p.ModFolder))
	fmt.Println(ui.Field("Game pak folder: ", p.GamePakFolder))
	fmt.Println()
	if p.Complete() {
		fmt.Println(ui.Green.Render("Ready to pack"))
	} else {
		fmt.Println(ui.Dim.Render("Missing: " + strings.Join(p.Request().Missing(), ", ")))
	}
}
