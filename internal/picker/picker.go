// Package picker is the interactive path selection and pack flow.
package picker

import (
	"fmt"
	"log"

	"github.com/charmbracelet/huh/spinner"

	"github.com/battlewithbytes/uasset-packer/internal/engine"
	"github.com/battlewithbytes/uasset-packer/internal/packer"
	"github.com/battlewithbytes/uasset-packer/internal/settings"
	"github.com/battlewithbytes/uasset-packer/internal/ui"
)

// Runner starts full conversions. *engine.Engine is the real one.
type Runner interface {
	Busy() bool
	Pack(req packer.Request, observe packer.Observer) (*engine.Run, packer.Outcome)
}

// Hooks for tests; the real ones need a terminal.
var (
	askPaths = func(answers *Answers, archiveExt string, save func(settings.Paths)) error {
		return BuildForm(answers, archiveExt, save).Run()
	}

	runSpinner = func(title string, action func()) error {
		return spinner.New().Title(title).Action(action).Run()
	}

	printf = func(format string, args ...any) { fmt.Printf(format, args...) }
)

// Run shows the form and, if confirmed, performs the full conversion. Each
// path is saved as soon as it is picked, and whatever was picked is saved
// again when the form ends, even if it was cancelled. The returned outcome
// is nil when nothing was started.
func Run(runner Runner, state *settings.State, archiveExt string) (*packer.Outcome, error) {
	answers := answersFrom(state.Paths())
	save := func(p settings.Paths) {
		if err := state.Merge(p); err != nil {
			log.Printf("[settings] %v", err)
		}
	}

	formErr := askPaths(answers, archiveExt, save)
	if err := state.Merge(answers.Paths()); err != nil {
		printf("%s\n", ui.Status(false, "Could not save paths: "+err.Error()))
	}
	if formErr != nil {
		return nil, fmt.Errorf("picker cancelled: %w", formErr)
	}

	if !answers.Pack {
		printf("%s\n", ui.Dim.Render("Paths saved. Nothing was packed."))
		return nil, nil
	}

	paths := state.Paths()
	if !paths.Complete() {
		printf("%s\n", ui.Status(false, "Select all four paths before packing."))
		return nil, nil
	}

	out, err := PackWithSpinner(runner, paths.Request())
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// PackWithSpinner runs a full conversion while a spinner is shown, then
// prints the outcome. It refuses to start while another run is in flight.
func PackWithSpinner(runner Runner, req packer.Request) (packer.Outcome, error) {
	if runner.Busy() {
		out := packer.Outcome{
			State:   packer.StateRejected,
			Message: fmt.Sprintf("Failed to execute full conversion: %v", packer.ErrBusy),
		}
		printf("%s\n", ui.Status(false, out.Message))
		return out, nil
	}

	var (
		run *engine.Run
		out packer.Outcome
	)
	err := runSpinner("Converting and packing...", func() {
		run, out = runner.Pack(req, nil)
	})
	if err != nil {
		return out, fmt.Errorf("spinner: %w", err)
	}

	printf("%s\n", ui.Status(out.Succeeded, out.Message))
	if run != nil {
		printf("%s\n", ui.Dim.Render("Run "+run.ID))
		if run.Digest != "" {
			printf("%s\n", ui.Dim.Render("BLAKE2b-256 "+run.Digest))
		}
	}
	return out, nil
}
