// Package settings keeps the four last-used paths across sessions.
package settings

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/battlewithbytes/uasset-packer/internal/packer"
)

// StateKey is the single key the path record is stored under.
const StateKey = "appState"

// Paths is the persisted record.
type Paths struct {
	DumpJSONFile  string `json:"dumpJsonFile"`
	OutputFolder  string `json:"outputFolder"`
	GamePakFolder string `json:"gamePakFolder"`
	ModFolder     string `json:"modFolder"`
}

// Complete reports whether every path is set; the pack action is
// unavailable until it is.
func (p Paths) Complete() bool {
	return len(p.Request().Missing()) == 0
}

// Request maps the record onto a conversion request.
func (p Paths) Request() packer.Request {
	return packer.Request{
		SourceJSON:    p.DumpJSONFile,
		OutputFolder:  p.OutputFolder,
		ModFolder:     p.ModFolder,
		GamePakFolder: p.GamePakFolder,
	}
}

// Backend is the key-value port the state is loaded from and saved to.
// LoadSetting returns nil data and no error for an unknown key.
type Backend interface {
	LoadSetting(key string) ([]byte, error)
	SaveSetting(key string, data []byte) error
}

// State is the in-memory copy of the record plus its backend.
type State struct {
	mu      sync.Mutex
	backend Backend
	paths   Paths
}

// Load reads the record from backend. A missing record yields empty paths.
// A broken record is logged and replaced by empty paths, so a bad settings
// store never blocks the app from starting.
func Load(backend Backend) *State {
	s := &State{backend: backend}

	data, err := backend.LoadSetting(StateKey)
	if err != nil {
		log.Printf("[settings] failed to load %s: %v", StateKey, err)
		return s
	}
	if len(data) == 0 {
		return s
	}
	if err := json.Unmarshal(data, &s.paths); err != nil {
		log.Printf("[settings] ignoring unreadable %s: %v", StateKey, err)
		s.paths = Paths{}
	}
	return s
}

// Paths returns a copy of the current record.
func (s *State) Paths() Paths {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paths
}

func (s *State) SetDumpJSONFile(path string) error {
	return s.update(func(p *Paths) { p.DumpJSONFile = path })
}

func (s *State) SetOutputFolder(path string) error {
	return s.update(func(p *Paths) { p.OutputFolder = path })
}

func (s *State) SetGamePakFolder(path string) error {
	return s.update(func(p *Paths) { p.GamePakFolder = path })
}

func (s *State) SetModFolder(path string) error {
	return s.update(func(p *Paths) { p.ModFolder = path })
}

// Merge applies every non-empty field of changes, saving after each one
// that differs from the current value.
func (s *State) Merge(changes Paths) error {
	setters := []struct {
		val     string
		current func(Paths) string
		set     func(string) error
	}{
		{changes.DumpJSONFile, func(p Paths) string { return p.DumpJSONFile }, s.SetDumpJSONFile},
		{changes.OutputFolder, func(p Paths) string { return p.OutputFolder }, s.SetOutputFolder},
		{changes.GamePakFolder, func(p Paths) string { return p.GamePakFolder }, s.SetGamePakFolder},
		{changes.ModFolder, func(p Paths) string { return p.ModFolder }, s.SetModFolder},
	}
	for _, f := range setters {
		if f.val == "" || f.val == f.current(s.Paths()) {
			continue
		}
		if err := f.set(f.val); err != nil {
			return err
		}
	}
	return nil
}

// Clear resets all four paths.
func (s *State) Clear() error {
	return s.update(func(p *Paths) { *p = Paths{} })
}

// update applies fn and rewrites the record. The in-memory value changes
// even if saving fails, matching what the user just picked.
func (s *State) update(fn func(*Paths)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.paths)
	data, err := json.Marshal(s.paths)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := s.backend.SaveSetting(StateKey, data); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// MemoryBackend keeps settings in a map. Used for tests and --ephemeral runs.
// The zero value is ready to use.
type MemoryBackend struct {
	mu    sync.Mutex
	data  map[string][]byte
	Saves int
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (m *MemoryBackend) LoadSetting(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *MemoryBackend) SaveSetting(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	m.data[key] = append([]byte(nil), data...)
	m.Saves++
	return nil
}
