package main

import (
	"fmt"
	"time"

	"github.com/battlewithbytes/uasset-packer/internal/engine"
	"github.com/battlewithbytes/uasset-packer/internal/report"
	"github.com/battlewithbytes/uasset-packer/internal/ui"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	exportLimit  int
)

func init() {
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum runs to show (0 for all)")
	historyExportCmd.Flags().IntVar(&exportLimit, "limit", 0, "maximum runs to export (0 for all)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past conversion and pack runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		runs, err := a.engine.ListRuns(historyLimit)
		if err != nil {
			return fmt.Errorf("listing runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println(ui.Dim.Render("No runs recorded."))
			return nil
		}
		for _, r := range runs {
			fmt.Printf("%s  %s  %-8s %s\n",
				ui.Cyan.Render(r.ID),
				ui.Dim.Render(r.CreatedAt.Local().Format(time.DateTime)),
				r.Type,
				stateLabel(r))
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one run and its log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		r, err := a.engine.GetRun(args[0])
		if err != nil {
			return err
		}

		fmt.Println(ui.Field("Run:       ", r.ID))
		fmt.Println(ui.Field("Type:      ", r.Type))
		fmt.Println(ui.Cyan.Render("State:     ") + stateLabel(r))
		fmt.Println(ui.Field("Started:   ", r.CreatedAt.Local().Format(time.DateTime)))
		if r.CompletedAt != nil {
			fmt.Println(ui.Field("Completed: ", r.CompletedAt.Local().Format(time.DateTime)))
		}
		if r.SourceJSON != "" {
			fmt.Println(ui.Field("Dump JSON: ", r.SourceJSON))
			fmt.Println(ui.Field("Output:    ", r.OutputFolder))
		}
		if r.ModFolder != "" {
			fmt.Println(ui.Field("Mod:       ", r.ModFolder))
			fmt.Println(ui.Field("Game pak:  ", r.GamePakFolder))
		}
		if r.AssetPath != "" {
			fmt.Println(ui.Field("Asset:     ", r.AssetPath))
		}
		if r.ArchivePath != "" {
			fmt.Println(ui.Field("Archive:   ", r.ArchivePath))
		}
		if r.Digest != "" {
			fmt.Println(ui.Field("Digest:    ", r.Digest))
		}
		fmt.Println(ui.Field("Message:   ", r.Message))

		logs, err := a.engine.GetLogs(r.ID)
		if err != nil {
			return fmt.Errorf("loading logs: %w", err)
		}
		if len(logs) > 0 {
			fmt.Println()
			fmt.Println(ui.Cyan.Render("Log:"))
			for _, l := range logs {
				fmt.Printf("  %s %-5s %s\n",
					ui.Dim.Render(l.Timestamp.Local().Format("15:04:05.000")), l.Level, l.Message)
			}
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all finished runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.engine.ClearHistory()
		if err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		fmt.Println(ui.Status(true, fmt.Sprintf("Deleted %d run(s)", n)))
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Export run history to a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		runs, err := a.engine.ListRuns(exportLimit)
		if err != nil {
			return fmt.Errorf("listing runs: %w", err)
		}
		if err := report.ExportXLSX(runs, args[0]); err != nil {
			return err
		}
		fmt.Println(ui.Status(true, fmt.Sprintf("Exported %d run(s) to %s", len(runs), args[0])))
		return nil
	},
}

func stateLabel(r *engine.Run) string {
	switch {
	case r.Succeeded():
		return ui.Green.Render(r.State)
	case r.Terminal():
		return ui.Red.Render(r.State)
	default:
		return ui.White.Render(r.State)
	}
}
