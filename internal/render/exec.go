package render

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"git.home.luguber.info/inful/databuild/internal/config"
	"git.home.luguber.info/inful/databuild/internal/errors"
	"git.home.luguber.info/inful/databuild/internal/logfields"
)

// Environment variables forming the unit contract.
const (
	// EnvContext names a JSON file holding the read-only view of
	// previously merged objects.
	EnvContext = "DATABUILD_CONTEXT"

	// EnvOutput names the JSON file the unit writes its produced objects
	// to, as a single top-level object keyed by name.
	EnvOutput = "DATABUILD_OUTPUT"
)

// ExecRunner runs a unit script as a subprocess in the render root. The
// script receives the merged-context view through DATABUILD_CONTEXT and
// reports produced objects through DATABUILD_OUTPUT. Script stdout and
// stderr are streamed to the logger line by line.
type ExecRunner struct {
	logger *slog.Logger
}

// NewExecRunner creates the default subprocess runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{logger: slog.Default()}
}

// WithLogger sets a custom logger.
func (r *ExecRunner) WithLogger(logger *slog.Logger) *ExecRunner {
	r.logger = logger
	return r
}

// Run executes the unit. The unit is considered failed on non-zero exit or
// when its output file cannot be parsed; a missing output file means the
// unit produced no objects, which is not an error.
func (r *ExecRunner) Run(ctx context.Context, unit config.Unit, view ContextView, workdir string) (map[string]any, error) {
	scratch, err := os.MkdirTemp("", "databuild-unit-*")
	if err != nil {
		return nil, fmt.Errorf("create unit scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	contextPath := filepath.Join(scratch, "context.json")
	outputPath := filepath.Join(scratch, "output.json")

	viewData, err := json.Marshal(view)
	if err != nil {
		return nil, fmt.Errorf("serialize context view: %w", err)
	}
	// Read-only so a unit cannot write through the view by accident.
	if err := os.WriteFile(contextPath, viewData, 0o400); err != nil {
		return nil, fmt.Errorf("write context view: %w", err)
	}

	script := unit.Script
	if !filepath.IsAbs(script) {
		script = filepath.Join(workdir, script)
	}

	cmd := exec.CommandContext(ctx, script)
	cmd.Dir = workdir
	cmd.Env = append(os.Environ(),
		EnvContext+"="+contextPath,
		EnvOutput+"="+outputPath,
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("attach stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("attach stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, errors.UnitExecutionFailed(unit.Script, err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go r.stream(&wg, stdout, unit.Script, slog.LevelInfo)
	go r.stream(&wg, stderr, unit.Script, slog.LevelWarn)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		return nil, errors.UnitExecutionFailed(unit.Script, err)
	}

	return r.readOutput(outputPath, unit.Script)
}

// readOutput parses the objects the unit declared through its output file.
func (r *ExecRunner) readOutput(outputPath, script string) (map[string]any, error) {
	data, err := os.ReadFile(outputPath)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.Debug("Unit produced no output file", logfields.Unit(script))
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("read unit output: %w", err)
	}

	var produced map[string]any
	if err := json.Unmarshal(data, &produced); err != nil {
		return nil, errors.UnitExecutionFailed(script,
			fmt.Errorf("output is not a JSON object: %w", err))
	}
	return produced, nil
}

func (r *ExecRunner) stream(wg *sync.WaitGroup, pipe io.Reader, script string, level slog.Level) {
	defer wg.Done()
	scanner := bufio.NewScanner(pipe)
	for scanner.Scan() {
		r.logger.Log(context.Background(), level, scanner.Text(), logfields.Unit(script))
	}
}
