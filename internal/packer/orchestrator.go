package packer

import (
	"fmt"
	"log"
	"sync/atomic"
)

// Steps performs the two external steps. *Toolbox is the real one.
type Steps interface {
	Convert(sourceJSON, outputFolder string) StepResult
	Pack(modFolder, gamePakFolder string) StepResult
}

// Observer is told about every state change, including the terminal one.
// It runs on the caller's goroutine. May be nil.
type Observer func(State)

// Orchestrator sequences the steps, at most one run at a time.
// The tool file list is shared scratch state, so a second run is refused
// while one is in flight rather than left to the caller.
type Orchestrator struct {
	steps Steps
	busy  atomic.Bool
}

// NewOrchestrator returns an orchestrator driving steps.
func NewOrchestrator(steps Steps) *Orchestrator {
	return &Orchestrator{steps: steps}
}

// Busy reports whether a run is in flight.
func (o *Orchestrator) Busy() bool {
	return o.busy.Load()
}

// Run executes the full conversion and returns exactly one outcome.
// Conversion failure stops the run before packing starts. A packing failure
// leaves the converted asset on disk; nothing is rolled back.
func (o *Orchestrator) Run(req Request, observe Observer) Outcome {
	if err := req.Validate(); err != nil {
		return reject(observe, fmt.Sprintf("Please select JSON file, output folder, mod folder, and game pak folder (%v)", err))
	}
	return o.exclusive(observe, "full conversion", func(t *tracker) Outcome {
		t.enter(StateConverting)
		conv := o.steps.Convert(req.SourceJSON, req.OutputFolder)
		if !conv.Succeeded {
			t.enter(StateConvertFailed)
			return Outcome{Message: conv.Message, State: StateConvertFailed, Convert: &conv}
		}

		t.enter(StatePacking)
		pak := o.steps.Pack(req.ModFolder, req.GamePakFolder)
		if !pak.Succeeded {
			t.enter(StatePackFailed)
			return Outcome{
				Message: fmt.Sprintf("UAsset conversion succeeded, but pak creation failed: %s", pak.Message),
				State:   StatePackFailed,
				Convert: &conv,
				Pack:    &pak,
			}
		}

		t.enter(StateSucceeded)
		return Outcome{
			Succeeded:    true,
			Message:      fmt.Sprintf("Successfully converted and packed: %s and %s", conv.Message, pak.Message),
			ProducedPath: pak.ProducedPath,
			State:        StateSucceeded,
			Convert:      &conv,
			Pack:         &pak,
		}
	})
}

// Convert runs only the conversion step.
func (o *Orchestrator) Convert(sourceJSON, outputFolder string, observe Observer) Outcome {
	if err := requireFields(field{"dump JSON file", sourceJSON}, field{"output folder", outputFolder}); err != nil {
		return reject(observe, fmt.Sprintf("Please select JSON file and output folder (%v)", err))
	}
	return o.exclusive(observe, "conversion", func(t *tracker) Outcome {
		t.enter(StateConverting)
		conv := o.steps.Convert(sourceJSON, outputFolder)
		if !conv.Succeeded {
			t.enter(StateConvertFailed)
			return Outcome{Message: conv.Message, State: StateConvertFailed, Convert: &conv}
		}
		t.enter(StateSucceeded)
		return Outcome{
			Succeeded:    true,
			Message:      conv.Message,
			ProducedPath: conv.ProducedPath,
			State:        StateSucceeded,
			Convert:      &conv,
		}
	})
}

// Pack runs only the packaging step.
func (o *Orchestrator) Pack(modFolder, gamePakFolder string, observe Observer) Outcome {
	if err := requireFields(field{"mod folder", modFolder}, field{"game pak folder", gamePakFolder}); err != nil {
		return reject(observe, fmt.Sprintf("Please select mod folder and game pak folder (%v)", err))
	}
	return o.exclusive(observe, "pak creation", func(t *tracker) Outcome {
		t.enter(StatePacking)
		pak := o.steps.Pack(modFolder, gamePakFolder)
		if !pak.Succeeded {
			t.enter(StatePackFailed)
			return Outcome{Message: pak.Message, State: StatePackFailed, Pack: &pak}
		}
		t.enter(StateSucceeded)
		return Outcome{
			Succeeded:    true,
			Message:      pak.Message,
			ProducedPath: pak.ProducedPath,
			State:        StateSucceeded,
			Pack:         &pak,
		}
	})
}

// tracker remembers the current state so a recovered panic can be mapped
// onto the matching failure state.
type tracker struct {
	state   State
	observe Observer
}

func (t *tracker) enter(s State) {
	t.state = s
	if t.observe != nil {
		t.observe(s)
	}
}

// exclusive holds the busy flag for the duration of fn. Panics from path or
// string handling inside fn become a generic failure outcome.
func (o *Orchestrator) exclusive(observe Observer, what string, fn func(t *tracker) Outcome) (out Outcome) {
	if !o.busy.CompareAndSwap(false, true) {
		return reject(observe, fmt.Sprintf("Failed to execute %s: %v", what, ErrBusy))
	}
	defer o.busy.Store(false)

	t := &tracker{state: StateNotStarted, observe: observe}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[pack] unexpected failure in state %s: %v", t.state, r)
			failed := StateConvertFailed
			if t.state == StatePacking {
				failed = StatePackFailed
			}
			out = Outcome{
				Message: fmt.Sprintf("Failed to execute %s: %v", what, r),
				State:   failed,
			}
			t.enter(failed)
		}
	}()

	return fn(t)
}

func reject(observe Observer, msg string) Outcome {
	if observe != nil {
		observe(StateRejected)
	}
	return Outcome{Message: msg, State: StateRejected}
}
