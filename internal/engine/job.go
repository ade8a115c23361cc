package engine

import (
	"time"

	"github.com/battlewithbytes/uasset-packer/internal/packer"
)

// Run types
const (
	RunTypeFull    = "full"
	RunTypeConvert = "convert"
	RunTypePak     = "pak"
)

// StateInterrupted marks runs that were in flight when the process died.
const StateInterrupted = "interrupted"

// Run is one recorded conversion or packaging attempt.
type Run struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	State         string     `json:"state"`
	SourceJSON    string     `json:"source_json,omitempty"`
	OutputFolder  string     `json:"output_folder,omitempty"`
	ModFolder     string     `json:"mod_folder,omitempty"`
	GamePakFolder string     `json:"game_pak_folder,omitempty"`
	ProducedPath  string     `json:"produced_path,omitempty"`
	AssetPath     string     `json:"asset_path,omitempty"`   // converted .uasset, kept even when packing fails
	ArchivePath   string     `json:"archive_path,omitempty"` // pak written by UnrealPak
	Digest        string     `json:"digest,omitempty"`
	Message       string     `json:"message"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// Succeeded reports whether the run ended in the success state.
func (r *Run) Succeeded() bool {
	return r.State == string(packer.StateSucceeded)
}

// Terminal reports whether the run has finished, successfully or not.
func (r *Run) Terminal() bool {
	return r.State == StateInterrupted || packer.State(r.State).Terminal()
}

// LogEntry represents a single log line for a run.
type LogEntry struct {
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}
