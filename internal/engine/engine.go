// Package engine runs conversions through the orchestrator and records each
// run, its state transitions and its log lines in the SQLite store.
package engine

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/battlewithbytes/uasset-packer/internal/config"
	"github.com/battlewithbytes/uasset-packer/internal/packer"
)

// Engine owns the orchestrator and the run history.
type Engine struct {
	store *Store
	orch  *packer.Orchestrator
}

// Open creates the data directory if needed, opens the store in it and
// marks runs interrupted by an earlier crash.
func Open(cfg *config.Config, dataDir string) (*Engine, error) {
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	store, err := NewStore(filepath.Join(dataDir, config.DBFileName))
	if err != nil {
		return nil, fmt.Errorf("opening run store: %w", err)
	}

	if ids, err := store.RecoverOrphanedRuns(); err != nil {
		log.Printf("[store] orphan recovery failed: %v", err)
	} else if len(ids) > 0 {
		log.Printf("[store] marked %d interrupted run(s)", len(ids))
	}

	return New(store, packer.NewToolbox(cfg)), nil
}

// New wires an engine around an open store and a set of steps.
func New(store *Store, steps packer.Steps) *Engine {
	return &Engine{
		store: store,
		orch:  packer.NewOrchestrator(steps),
	}
}

// Close closes the engine's resources.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Store exposes the underlying store, which also backs settings.
func (e *Engine) Store() *Store {
	return e.store
}

// Busy reports whether a run is in flight.
func (e *Engine) Busy() bool {
	return e.orch.Busy()
}

// Pack runs the full conversion. The returned run is nil when the request
// was rejected before any tool started; rejected requests are not recorded.
func (e *Engine) Pack(req packer.Request, observe packer.Observer) (*Run, packer.Outcome) {
	rc := e.newRecorder(RunTypeFull, observe, func(r *Run) {
		r.SourceJSON = req.SourceJSON
		r.OutputFolder = req.OutputFolder
		r.ModFolder = req.ModFolder
		r.GamePakFolder = req.GamePakFolder
	})
	out := e.orch.Run(req, rc.observe)
	return rc.finish(out), out
}

// Convert runs only the JSON to asset conversion.
func (e *Engine) Convert(sourceJSON, outputFolder string, observe packer.Observer) (*Run, packer.Outcome) {
	rc := e.newRecorder(RunTypeConvert, observe, func(r *Run) {
		r.SourceJSON = sourceJSON
		r.OutputFolder = outputFolder
	})
	out := e.orch.Convert(sourceJSON, outputFolder, rc.observe)
	return rc.finish(out), out
}

// PackOnly runs only the pak creation.
func (e *Engine) PackOnly(modFolder, gamePakFolder string, observe packer.Observer) (*Run, packer.Outcome) {
	rc := e.newRecorder(RunTypePak, observe, func(r *Run) {
		r.ModFolder = modFolder
		r.GamePakFolder = gamePakFolder
	})
	out := e.orch.Pack(modFolder, gamePakFolder, rc.observe)
	return rc.finish(out), out
}

// GetRun returns a run by ID.
func (e *Engine) GetRun(id string) (*Run, error) {
	return e.store.GetRun(id)
}

// ListRuns returns recorded runs, newest first.
func (e *Engine) ListRuns(limit int) ([]*Run, error) {
	return e.store.ListRuns(limit)
}

// GetLogs returns all logs for a run.
func (e *Engine) GetLogs(runID string) ([]*LogEntry, error) {
	return e.store.GetLogs(runID)
}

// ClearHistory deletes all finished runs.
func (e *Engine) ClearHistory() (int64, error) {
	return e.store.ClearTerminalRuns()
}

// recorder mirrors orchestrator transitions into the store. The run row is
// created lazily on the first real transition so rejections leave no trace.
type recorder struct {
	engine *Engine
	typ    string
	fill   func(*Run)
	next   packer.Observer
	run    *Run
}

func (e *Engine) newRecorder(typ string, next packer.Observer, fill func(*Run)) *recorder {
	return &recorder{engine: e, typ: typ, fill: fill, next: next}
}

func (rc *recorder) observe(s packer.State) {
	if s != packer.StateRejected {
		rc.transition(s)
	}
	if rc.next != nil {
		rc.next(s)
	}
}

func (rc *recorder) transition(s packer.State) {
	now := time.Now()
	if rc.run == nil {
		rc.run = &Run{
			ID:        generateID(),
			Type:      rc.typ,
			State:     string(s),
			CreatedAt: now,
			UpdatedAt: now,
		}
		rc.fill(rc.run)
		if err := rc.engine.store.CreateRun(rc.run); err != nil {
			log.Printf("[store] create run %s: %v", rc.run.ID, err)
		}
	} else {
		rc.run.State = string(s)
		rc.run.UpdatedAt = now
		if err := rc.engine.store.UpdateRun(rc.run); err != nil {
			log.Printf("[store] update run %s: %v", rc.run.ID, err)
		}
	}
	rc.info("State: %s", s)
}

func (rc *recorder) log(level, msg string, args ...any) {
	message := fmt.Sprintf(msg, args...)
	log.Printf("[run %s] %s", rc.run.ID, message)
	err := rc.engine.store.AppendLog(&LogEntry{
		RunID:     rc.run.ID,
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
	})
	if err != nil {
		log.Printf("[store] append log for run %s: %v", rc.run.ID, err)
	}
}

func (rc *recorder) info(msg string, args ...any) {
	rc.log("info", msg, args...)
}

// finish stores the outcome on the run and returns it.
func (rc *recorder) finish(out packer.Outcome) *Run {
	if rc.run == nil {
		return nil
	}
	run := rc.run

	if out.Convert != nil {
		rc.stepLog(out.Convert)
		if out.Convert.Succeeded {
			run.AssetPath = out.Convert.ProducedPath
		}
	}
	if out.Pack != nil {
		rc.stepLog(out.Pack)
		if out.Pack.Succeeded {
			run.ArchivePath = out.Pack.ProducedPath
		}
	}

	if out.Succeeded && out.ProducedPath != "" {
		digest, err := fileDigest(out.ProducedPath)
		if err != nil {
			rc.log("warn", "Could not hash %s: %v", out.ProducedPath, err)
		} else {
			run.Digest = digest
			rc.info("BLAKE2b-256 %s", digest)
		}
	}

	now := time.Now()
	run.State = string(out.State)
	run.Message = out.Message
	run.ProducedPath = out.ProducedPath
	run.UpdatedAt = now
	run.CompletedAt = &now
	if err := rc.engine.store.UpdateRun(run); err != nil {
		log.Printf("[store] finish run %s: %v", run.ID, err)
	}
	return run
}

func (rc *recorder) stepLog(step *packer.StepResult) {
	if step.Succeeded {
		rc.info("%s", step.Message)
	} else {
		rc.log("error", "%s", step.Message)
	}
}

// fileDigest returns the hex BLAKE2b-256 of the file at path.
func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
