package packer

import (
	"path/filepath"
	"strings"
)

const (
	dumpMarker = "_dump"
	assetExt   = ".uasset"

	// archiveSuffix marks a patch pak so it loads after the base game paks.
	archiveSuffix = "_P"
)

// AssetName maps a dump file name to the asset name UAssetGUI should write:
// the last extension is dropped, one trailing "_dump" is removed, and
// ".uasset" is appended.
//
//	DA_gop_weapon_dump.json -> DA_gop_weapon.uasset
//	Weapon_Table.json       -> Weapon_Table.uasset
func AssetName(filename string) string {
	base := filename
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	base = strings.TrimSuffix(base, dumpMarker)
	return base + assetExt
}

// AssetPath is where the converted asset for sourceJSON lands.
func AssetPath(sourceJSON, outputFolder string) string {
	return filepath.Join(outputFolder, AssetName(filepath.Base(sourceJSON)))
}

// ArchiveName returns "<mod folder name>_P.<ext>".
func ArchiveName(modFolder, ext string) string {
	return filepath.Base(modFolder) + archiveSuffix + "." + ext
}

// ArchivePath is where the packed archive for modFolder lands.
func ArchivePath(modFolder, gamePakFolder, ext string) string {
	return filepath.Join(gamePakFolder, ArchiveName(modFolder, ext))
}

// ManifestContent is the UnrealPak response-file line for modFolder:
// every file under the mod folder, mounted three levels above the pak.
// The mount glob is fixed UnrealPak syntax and always uses backslashes.
func ManifestContent(modFolder string) string {
	return `"` + modFolder + `\*.*" "..\..\..\*.*"`
}

// toolLabel strips the extension for use in messages: UAssetGUI.exe -> UAssetGUI.
func toolLabel(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
