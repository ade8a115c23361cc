// Package report exports run history for sharing outside the tool.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/battlewithbytes/uasset-packer/internal/engine"
)

const sheet = "Runs"

var headers = []string{
	"ID", "Type", "State", "Started", "Completed",
	"Dump JSON", "Output Folder", "Mod Folder", "Game Pak Folder",
	"Asset", "Archive", "BLAKE2b-256", "Message",
}

// ExportXLSX writes runs to a spreadsheet at path, one row per run.
func ExportXLSX(runs []*engine.Run, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return err
	}

	failStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "C00000"}})
	if err != nil {
		return err
	}

	for i, r := range runs {
		row := i + 2
		values := []any{
			r.ID, r.Type, r.State, formatTime(&r.CreatedAt), formatTime(r.CompletedAt),
			r.SourceJSON, r.OutputFolder, r.ModFolder, r.GamePakFolder,
			r.AssetPath, r.ArchivePath, r.Digest, r.Message,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		if r.Terminal() && !r.Succeeded() {
			stateCell, _ := excelize.CoordinatesToCellName(3, row)
			f.SetCellStyle(sheet, stateCell, stateCell, failStyle)
		}
	}

	f.SetColWidth(sheet, "A", "A", 18)
	f.SetColWidth(sheet, "D", "E", 20)
	f.SetColWidth(sheet, "F", "K", 40)
	f.SetColWidth(sheet, "M", "M", 80)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
