package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/battlewithbytes/uasset-packer/internal/dump"
	"github.com/battlewithbytes/uasset-packer/internal/packer"
	"github.com/battlewithbytes/uasset-packer/internal/settings"
)

// BuildForm constructs the path selection form around answers. save, if
// non-nil, is called with each path as soon as it is picked and valid; only
// that field is set in the record it receives.
func BuildForm(answers *Answers, archiveExt string, save func(settings.Paths)) *huh.Form {
	groups := []*huh.Group{
		dumpGroup(answers, save),
		folderGroup(answers, save),
		confirmGroup(answers, archiveExt),
	}
	return huh.NewForm(groups...).WithTheme(huh.ThemeCatppuccin())
}

func dumpGroup(answers *Answers, save func(settings.Paths)) *huh.Group {
	return huh.NewGroup(
		huh.NewNote().
			Title("UAsset Packer").
			Description("Pick a UAssetGUI dump, where the .uasset goes, the mod folder to pack\n"+
				"and the game's Paks folder. Choices are remembered between runs."),
		huh.NewFilePicker().
			Title("Dump JSON file").
			Description(currentValue(answers.DumpJSONFile)).
			AllowedTypes([]string{".json"}).
			CurrentDirectory(startDir(answers.DumpJSONFile, false)).
			FileAllowed(true).
			DirAllowed(false).
			ShowSize(true).
			Value(&answers.DumpJSONFile).
			Validate(savingOnPass(ValidateJSONFile, save, func(p *settings.Paths, v string) { p.DumpJSONFile = v })),
		huh.NewNote().
			Title("Dump").
			DescriptionFunc(func() string { return dumpStatus(answers.DumpJSONFile) }, &answers.DumpJSONFile),
	)
}

func folderGroup(answers *Answers, save func(settings.Paths)) *huh.Group {
	return huh.NewGroup(
		dirPicker("Output folder", "The converted .uasset is written here.", &answers.OutputFolder,
			savingOnPass(ValidateDir, save, func(p *settings.Paths, v string) { p.OutputFolder = v })),
		dirPicker("Mod folder", "Everything under this folder goes into the pak.", &answers.ModFolder,
			savingOnPass(ValidateDir, save, func(p *settings.Paths, v string) { p.ModFolder = v })),
		dirPicker("Game pak folder", "Usually <game>/Content/Paks.", &answers.GamePakFolder,
			savingOnPass(ValidateDir, save, func(p *settings.Paths, v string) { p.GamePakFolder = v })),
	)
}

// savingOnPass wraps validate so a value that passes is handed to save.
func savingOnPass(validate func(string) error, save func(settings.Paths), set func(*settings.Paths, string)) func(string) error {
	return func(v string) error {
		if err := validate(v); err != nil {
			return err
		}
		if v = strings.TrimSpace(v); v != "" && save != nil {
			var p settings.Paths
			set(&p, v)
			save(p)
		}
		return nil
	}
}

func dirPicker(title, desc string, value *string, validate func(string) error) *huh.FilePicker {
	return huh.NewFilePicker().
		Title(title).
		Description(desc + "\n" + currentValue(*value)).
		CurrentDirectory(startDir(*value, true)).
		FileAllowed(false).
		DirAllowed(true).
		Value(value).
		Validate(validate)
}

func confirmGroup(answers *Answers, archiveExt string) *huh.Group {
	return huh.NewGroup(
		huh.NewNote().
			Title("Ready to Pack").
			DescriptionFunc(func() string { return planSummary(answers, archiveExt) }, answers),
		huh.NewConfirm().
			Title("Convert and pack now?").
			Description("Choosing No keeps the selected paths for next time.").
			Value(&answers.Pack),
	)
}

func currentValue(v string) string {
	if v == "" {
		return "Current: (not set)"
	}
	return "Current: " + v
}

// dumpStatus is the line shown under the dump picker.
func dumpStatus(path string) string {
	if strings.TrimSpace(path) == "" {
		return "No file selected"
	}
	s, err := dump.Load(path)
	if err != nil {
		return fmt.Sprintf("Failed to load JSON file: %v", err)
	}
	return s.String()
}

// planSummary lists the files a pack would produce, or what is still missing.
func planSummary(answers *Answers, archiveExt string) string {
	req := answers.Paths().Request()
	if missing := req.Missing(); len(missing) > 0 {
		return "Still missing: " + strings.Join(missing, ", ") + "\n\nPacking is unavailable until every path is set."
	}

	var sb strings.Builder
	sb.WriteString("This will:\n")
	sb.WriteString(fmt.Sprintf("  1. Convert %s\n", req.SourceJSON))
	sb.WriteString(fmt.Sprintf("     to %s\n", packer.AssetPath(req.SourceJSON, req.OutputFolder)))
	sb.WriteString(fmt.Sprintf("  2. Pack %s\n", req.ModFolder))
	sb.WriteString(fmt.Sprintf("     to %s", packer.ArchivePath(req.ModFolder, req.GamePakFolder, archiveExt)))
	return sb.String()
}
