package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateMissingConverter(t *testing.T) {
	cfg := Default()
	cfg.Tools.Converter = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing tools.converter")
	}
}

func TestValidateToolNameIsPath(t *testing.T) {
	cfg := Default()
	cfg.Tools.Packer = `bin\UnrealPak.exe`
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for tool path")
	}
	if !strings.Contains(err.Error(), "tools.packer") {
		t.Errorf("error = %v, want mention of tools.packer", err)
	}
}

func TestValidateEmptyLauncherArg(t *testing.T) {
	cfg := Default()
	cfg.Tools.Launcher = []string{"wine", " "}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty launcher arg")
	}
}

func TestValidateExtension(t *testing.T) {
	tests := []struct {
		ext     string
		wantErr bool
	}{
		{"pak", false},
		{"utoc", false},
		{".pak", true},
		{"pa k", true},
		{"", true},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.Archive.Extension = tt.ext
		err := cfg.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("extension %q: err = %v, wantErr %v", tt.ext, err, tt.wantErr)
		}
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tools.Converter != DefaultConverter {
		t.Errorf("Converter = %q, want %q", cfg.Tools.Converter, DefaultConverter)
	}
	if cfg.Archive.Extension != DefaultArchiveExt {
		t.Errorf("Extension = %q, want %q", cfg.Archive.Extension, DefaultArchiveExt)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yml")
	cfg := Default()
	cfg.Tools.Dir = "/opt/ue/tools"
	cfg.Tools.Launcher = []string{"wine"}
	cfg.Archive.Extension = "pak"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Tools.Dir != "/opt/ue/tools" {
		t.Errorf("Tools.Dir = %q, want %q", loaded.Tools.Dir, "/opt/ue/tools")
	}
	if len(loaded.Tools.Launcher) != 1 || loaded.Tools.Launcher[0] != "wine" {
		t.Errorf("Launcher = %v, want [wine]", loaded.Tools.Launcher)
	}
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("tools:\n  dir: /srv/tools\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tools.Packer != DefaultPacker {
		t.Errorf("Packer = %q, want %q", cfg.Tools.Packer, DefaultPacker)
	}
	if cfg.Tools.Manifest != DefaultManifest {
		t.Errorf("Manifest = %q, want %q", cfg.Tools.Manifest, DefaultManifest)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	os.WriteFile(path, []byte("{{invalid yaml"), 0644)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoadInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	os.WriteFile(path, []byte("archive:\n  extension: .pak\n"), 0644)
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestResolveToolsDirExplicit(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Tools.Dir = dir
	got, err := cfg.ResolveToolsDir()
	if err != nil {
		t.Fatalf("ResolveToolsDir: %v", err)
	}
	if got != dir {
		t.Errorf("ResolveToolsDir = %q, want %q", got, dir)
	}
}

func TestResolveToolsDirFromResources(t *testing.T) {
	orig := ResourceDir
	ResourceDir = func() (string, error) { return "/app/resources", nil }
	t.Cleanup(func() { ResourceDir = orig })

	got, err := Default().ResolveToolsDir()
	if err != nil {
		t.Fatalf("ResolveToolsDir: %v", err)
	}
	want := filepath.Join("/app/resources", ToolsSubdir)
	if got != want {
		t.Errorf("ResolveToolsDir = %q, want %q", got, want)
	}
}
