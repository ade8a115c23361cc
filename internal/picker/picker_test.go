package picker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/battlewithbytes/uasset-packer/internal/engine"
	"github.com/battlewithbytes/uasset-packer/internal/packer"
	"github.com/battlewithbytes/uasset-packer/internal/settings"
)

type fakeRunner struct {
	busy  bool
	calls []packer.Request
	out   packer.Outcome
}

func (f *fakeRunner) Busy() bool { return f.busy }

func (f *fakeRunner) Pack(req packer.Request, observe packer.Observer) (*engine.Run, packer.Outcome) {
	f.calls = append(f.calls, req)
	return &engine.Run{ID: "run1", Digest: "abcd"}, f.out
}

// stubUI replaces the terminal hooks. fill is applied to the form answers.
func stubUI(t *testing.T, fill func(*Answers)) *[]string {
	t.Helper()
	var printed []string

	origAsk, origSpin, origPrintf := askPaths, runSpinner, printf
	t.Cleanup(func() {
		askPaths, runSpinner, printf = origAsk, origSpin, origPrintf
	})

	askPaths = func(a *Answers, _ string, _ func(settings.Paths)) error {
		if fill != nil {
			fill(a)
		}
		return nil
	}
	runSpinner = func(_ string, action func()) error {
		action()
		return nil
	}
	printf = func(format string, args ...any) {
		printed = append(printed, fmt.Sprintf(format, args...))
	}
	return &printed
}

func completePaths(t *testing.T) settings.Paths {
	t.Helper()
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "DA_weapon_dump.json")
	if err := os.WriteFile(jsonPath, []byte(`{"a":1}`), 0644); err != nil {
		t.Fatal(err)
	}
	return settings.Paths{
		DumpJSONFile:  jsonPath,
		OutputFolder:  dir,
		ModFolder:     filepath.Join(dir, "MyMod"),
		GamePakFolder: dir,
	}
}

func TestRunPersistsPathsWithoutPacking(t *testing.T) {
	want := completePaths(t)
	stubUI(t, func(a *Answers) {
		a.DumpJSONFile = want.DumpJSONFile
		a.OutputFolder = want.OutputFolder
		a.ModFolder = want.ModFolder
		a.GamePakFolder = want.GamePakFolder
		a.Pack = false
	})

	state := settings.Load(settings.NewMemoryBackend())
	runner := &fakeRunner{}

	out, err := Run(runner, state, "pak")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != nil {
		t.Errorf("outcome = %+v, want nil", out)
	}
	if len(runner.calls) != 0 {
		t.Errorf("runner called %d times, want 0", len(runner.calls))
	}
	if got := state.Paths(); got != want {
		t.Errorf("saved paths = %+v, want %+v", got, want)
	}
}

func TestRunPrefillsFromSettings(t *testing.T) {
	want := completePaths(t)
	backend := settings.NewMemoryBackend()
	state := settings.Load(backend)
	if err := state.Merge(want); err != nil {
		t.Fatal(err)
	}

	var seen Answers
	stubUI(t, func(a *Answers) { seen = *a })

	if _, err := Run(&fakeRunner{}, state, "pak"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if seen.Paths() != want {
		t.Errorf("prefilled = %+v, want %+v", seen.Paths(), want)
	}
}

func TestRunPacksWhenConfirmed(t *testing.T) {
	paths := completePaths(t)
	state := settings.Load(settings.NewMemoryBackend())
	if err := state.Merge(paths); err != nil {
		t.Fatal(err)
	}
	printed := stubUI(t, func(a *Answers) { a.Pack = true })

	runner := &fakeRunner{out: packer.Outcome{Succeeded: true, Message: "Successfully converted and packed: x and y"}}
	out, err := Run(runner, state, "pak")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out == nil || !out.Succeeded {
		t.Fatalf("outcome = %+v, want success", out)
	}
	if len(runner.calls) != 1 || runner.calls[0] != paths.Request() {
		t.Errorf("calls = %+v", runner.calls)
	}
	joined := strings.Join(*printed, "")
	if !strings.Contains(joined, "Successfully converted and packed") {
		t.Errorf("output missing message: %q", joined)
	}
	if !strings.Contains(joined, "abcd") {
		t.Errorf("output missing digest: %q", joined)
	}
}

func TestRunRefusesIncompletePaths(t *testing.T) {
	printed := stubUI(t, func(a *Answers) {
		a.OutputFolder = t.TempDir()
		a.Pack = true
	})
	runner := &fakeRunner{}

	out, err := Run(runner, settings.Load(settings.NewMemoryBackend()), "pak")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != nil || len(runner.calls) != 0 {
		t.Errorf("incomplete paths should not start a run")
	}
	if !strings.Contains(strings.Join(*printed, ""), "Select all four paths") {
		t.Errorf("printed = %q", *printed)
	}
}

func TestRunFormCancelled(t *testing.T) {
	stubUI(t, nil)
	askPaths = func(*Answers, string, func(settings.Paths)) error { return errors.New("user aborted") }

	_, err := Run(&fakeRunner{}, settings.Load(settings.NewMemoryBackend()), "pak")
	if err == nil || !strings.Contains(err.Error(), "picker cancelled") {
		t.Errorf("err = %v", err)
	}
}

func TestRunSavesPathsWhenCancelled(t *testing.T) {
	want := completePaths(t)
	stubUI(t, nil)
	askPaths = func(a *Answers, _ string, _ func(settings.Paths)) error {
		a.OutputFolder = want.OutputFolder
		a.ModFolder = want.ModFolder
		return errors.New("user aborted")
	}

	backend := settings.NewMemoryBackend()
	state := settings.Load(backend)
	if _, err := Run(&fakeRunner{}, state, "pak"); err == nil {
		t.Fatal("expected cancellation error")
	}

	got := settings.Load(backend).Paths()
	if got.OutputFolder != want.OutputFolder || got.ModFolder != want.ModFolder {
		t.Errorf("saved paths = %+v", got)
	}
	if backend.Saves != 2 {
		t.Errorf("saves = %d, want 2", backend.Saves)
	}
}

func TestRunSavesEachPickImmediately(t *testing.T) {
	want := completePaths(t)
	stubUI(t, nil)

	backend := settings.NewMemoryBackend()
	var savesDuringForm int
	askPaths = func(a *Answers, _ string, save func(settings.Paths)) error {
		validate := savingOnPass(ValidateDir, save, func(p *settings.Paths, v string) { p.GamePakFolder = v })
		if err := validate(want.GamePakFolder); err != nil {
			return err
		}
		savesDuringForm = backend.Saves
		a.GamePakFolder = want.GamePakFolder
		return errors.New("killed")
	}

	Run(&fakeRunner{}, settings.Load(backend), "pak")

	if savesDuringForm != 1 {
		t.Errorf("saves while the form was open = %d, want 1", savesDuringForm)
	}
	if got := settings.Load(backend).Paths().GamePakFolder; got != want.GamePakFolder {
		t.Errorf("GamePakFolder = %q, want %q", got, want.GamePakFolder)
	}
	if backend.Saves != 1 {
		t.Errorf("total saves = %d, want 1 (unchanged value is not rewritten)", backend.Saves)
	}
}

func TestSavingOnPassSkipsInvalidAndEmpty(t *testing.T) {
	var saved []settings.Paths
	save := func(p settings.Paths) { saved = append(saved, p) }
	validate := savingOnPass(ValidateDir, save, func(p *settings.Paths, v string) { p.ModFolder = v })

	if err := validate(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("missing dir should fail validation")
	}
	if err := validate(""); err != nil {
		t.Errorf("empty: %v", err)
	}
	if len(saved) != 0 {
		t.Errorf("saved = %+v, want none", saved)
	}

	dir := t.TempDir()
	if err := validate(dir); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(saved) != 1 || saved[0] != (settings.Paths{ModFolder: dir}) {
		t.Errorf("saved = %+v", saved)
	}
}

func TestPackWithSpinnerRefusesWhileBusy(t *testing.T) {
	stubUI(t, nil)
	spun := false
	runSpinner = func(string, func()) error {
		spun = true
		return nil
	}

	runner := &fakeRunner{busy: true}
	out, err := PackWithSpinner(runner, completePaths(t).Request())
	if err != nil {
		t.Fatalf("PackWithSpinner: %v", err)
	}
	if out.State != packer.StateRejected || out.Succeeded {
		t.Errorf("outcome = %+v, want rejected", out)
	}
	if !strings.Contains(out.Message, packer.ErrBusy.Error()) {
		t.Errorf("message = %q", out.Message)
	}
	if spun || len(runner.calls) != 0 {
		t.Error("busy runner should not be started")
	}
}

func TestValidateJSONFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "x.json")
	os.WriteFile(good, []byte("{}"), 0644)
	txt := filepath.Join(dir, "x.txt")
	os.WriteFile(txt, []byte("{}"), 0644)

	tests := []struct {
		in      string
		wantErr bool
	}{
		{"", false},
		{good, false},
		{txt, true},
		{filepath.Join(dir, "missing.json"), true},
	}
	for _, tt := range tests {
		if err := ValidateJSONFile(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("ValidateJSONFile(%q) = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestValidateDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	os.WriteFile(file, nil, 0644)

	if err := ValidateDir(""); err != nil {
		t.Errorf("empty: %v", err)
	}
	if err := ValidateDir(dir); err != nil {
		t.Errorf("dir: %v", err)
	}
	if err := ValidateDir(file); err == nil {
		t.Error("file should be rejected")
	}
	if err := ValidateDir(filepath.Join(dir, "nope")); err == nil {
		t.Error("missing dir should be rejected")
	}
}

func TestDumpStatus(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	os.WriteFile(good, []byte(`{"a":1,"b":[],"c":{}}`), 0644)
	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"a":`), 0644)

	if got := dumpStatus(good); got != "JSON file loaded (3 properties)" {
		t.Errorf("good = %q", got)
	}
	if got := dumpStatus(bad); !strings.HasPrefix(got, "Failed to load JSON file:") {
		t.Errorf("bad = %q", got)
	}
	if got := dumpStatus(""); got != "No file selected" {
		t.Errorf("empty = %q", got)
	}
}

func TestPlanSummary(t *testing.T) {
	a := answersFrom(completePaths(t))
	got := planSummary(a, "pak")
	if !strings.Contains(got, "DA_weapon.uasset") {
		t.Errorf("summary missing asset name: %q", got)
	}
	if !strings.Contains(got, "MyMod_P.pak") {
		t.Errorf("summary missing archive name: %q", got)
	}

	a.ModFolder = ""
	if got := planSummary(a, "pak"); !strings.HasPrefix(got, "Still missing: ") {
		t.Errorf("incomplete summary = %q", got)
	}
}
