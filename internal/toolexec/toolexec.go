// Package toolexec runs the bundled external tools as subprocesses.
// All commands use exec.Command with explicit argv, no shell strings.
package toolexec

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Invocation describes one external tool call.
type Invocation struct {
	Path string   // absolute path to the tool binary
	Args []string // arguments after the binary
	Dir  string   // working directory, empty = inherit

	// Launcher is prepended to argv, e.g. ["wine"] to run Windows tools
	// on other hosts.
	Launcher []string
}

// Argv returns the full argument vector, launcher first.
func (inv Invocation) Argv() []string {
	argv := make([]string, 0, len(inv.Launcher)+1+len(inv.Args))
	argv = append(argv, inv.Launcher...)
	argv = append(argv, inv.Path)
	argv = append(argv, inv.Args...)
	return argv
}

// String renders the invocation for logs. Not meant to be re-parsed.
func (inv Invocation) String() string {
	return strings.Join(inv.Argv(), " ")
}

// Result holds the captured output of a finished process.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Succeeded reports whether the tool exited with status 0.
func (r *Result) Succeeded() bool {
	return r.ExitCode == SuccessExitCode
}

// Diagnostic returns stderr if it has content, otherwise stdout.
func (r *Result) Diagnostic() string {
	if s := strings.TrimSpace(r.Stderr); s != "" {
		return s
	}
	return strings.TrimSpace(r.Stdout)
}

// SuccessExitCode is the only status either tool reports on success.
const SuccessExitCode = 0

// runProcess spawns the process and waits for it. Override in tests to
// mock process launch.
var runProcess = func(inv Invocation) (*Result, error) {
	argv := inv.Argv()
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = inv.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return nil, fmt.Errorf("start %s: %w", filepath.Base(inv.Path), err)
	}
	return result, nil
}

// Run executes the invocation and blocks until the process exits.
// A non-zero exit is reported in the Result, not as an error; an error
// means the process could not be started at all.
func Run(inv Invocation) (*Result, error) {
	if inv.Path == "" {
		return nil, fmt.Errorf("empty tool path")
	}
	return runProcess(inv)
}
