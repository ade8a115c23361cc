// Package packer converts a dump JSON back into a .uasset with UAssetGUI and
// packages a mod folder into a .pak with UnrealPak, one step after the other.
package packer

import (
	"errors"
	"fmt"
	"strings"
)

// State is a position in the conversion state machine.
type State string

const (
	StateNotStarted    State = "not_started"
	StateRejected      State = "rejected"
	StateConverting    State = "converting"
	StateConvertFailed State = "convert_failed"
	StatePacking       State = "packing"
	StatePackFailed    State = "pack_failed"
	StateSucceeded     State = "succeeded"
)

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool {
	switch s {
	case StateRejected, StateConvertFailed, StatePackFailed, StateSucceeded:
		return true
	}
	return false
}

var (
	ErrMissingPaths = errors.New("missing required paths")
	ErrBusy         = errors.New("a conversion is already in progress")
)

// Request holds the four paths a full conversion needs.
type Request struct {
	SourceJSON    string `json:"source_json"`
	OutputFolder  string `json:"output_folder"`
	ModFolder     string `json:"mod_folder"`
	GamePakFolder string `json:"game_pak_folder"`
}

type field struct{ name, val string }

func (r Request) fields() []field {
	return []field{
		{"dump JSON file", r.SourceJSON},
		{"output folder", r.OutputFolder},
		{"mod folder", r.ModFolder},
		{"game pak folder", r.GamePakFolder},
	}
}

// Missing returns the names of the empty fields, in form order.
func (r Request) Missing() []string {
	return missingOf(r.fields()...)
}

// Validate fails with ErrMissingPaths when any field is empty.
func (r Request) Validate() error {
	return requireFields(r.fields()...)
}

func missingOf(fields ...field) []string {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.val) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func requireFields(fields ...field) error {
	if missing := missingOf(fields...); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingPaths, strings.Join(missing, ", "))
	}
	return nil
}

// StepResult is what one external tool invocation produced.
type StepResult struct {
	Succeeded    bool   `json:"succeeded"`
	Message      string `json:"message"`
	ProducedPath string `json:"produced_path,omitempty"`
}

func stepOK(path, format string, args ...any) StepResult {
	return StepResult{Succeeded: true, Message: fmt.Sprintf(format, args...), ProducedPath: path}
}

func stepFailed(format string, args ...any) StepResult {
	return StepResult{Message: fmt.Sprintf(format, args...)}
}

// Outcome aggregates both steps into the single result shown to the user.
type Outcome struct {
	Succeeded    bool        `json:"succeeded"`
	Message      string      `json:"message"`
	ProducedPath string      `json:"produced_path,omitempty"`
	State        State       `json:"state"`
	Convert      *StepResult `json:"convert,omitempty"`
	Pack         *StepResult `json:"pack,omitempty"`
}
