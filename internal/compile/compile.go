// Package compile drives the whole lowering pass: load, discover, build,
// validate, synthesize, and write the per-task artifacts.
package compile

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lutherstrike/tapa/internal/codegen"
	"github.com/lutherstrike/tapa/internal/diag"
	"github.com/lutherstrike/tapa/internal/frontend"
	"github.com/lutherstrike/tapa/internal/graph"
)

// Options configures one compilation.
type Options struct {
	Sources   []string
	Top       string
	WorkDir   string
	BuildTags []string

	Reporter *diag.Reporter
	Logger   *slog.Logger
}

// Result is the outcome of a successful compilation.
type Result struct {
	Model *graph.Model
	Files []string
}

// Analyze runs the front half of the pass and returns the validated task
// model without writing anything.
func Analyze(opts Options) (*frontend.Program, *graph.Model, error) {
	logger := opts.logger()
	reporter := opts.reporter()

	prog, err := frontend.LoadPackages(frontend.LoadConfig{
		Sources:   opts.Sources,
		BuildTags: opts.BuildTags,
	}, reporter)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("program loaded", "packages", len(prog.Pkgs))

	model, err := graph.Discover(prog, opts.Top, reporter)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("tasks discovered", "tasks", len(model.TaskNames()))

	graph.Build(prog, model, reporter)
	graph.Validate(model, reporter)
	if reporter.HasErrors() {
		return nil, nil, fmt.Errorf("compilation of %s failed", opts.Top)
	}
	return prog, model, nil
}

// Run executes the full pass and writes one rewritten translation unit per
// task, one metadata document per orchestrator, and the host glue of the top
// task into the work directory.
func Run(opts Options) (*Result, error) {
	logger := opts.logger()

	prog, model, err := Analyze(opts)
	if err != nil {
		return nil, err
	}

	workDir := opts.WorkDir
	if workDir == "" {
		workDir = "."
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work directory: %w", err)
	}

	result := &Result{Model: model}
	write := func(name string, data []byte) error {
		path := filepath.Join(workDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		result.Files = append(result.Files, path)
		return nil
	}

	for _, name := range model.TaskNames() {
		task := model.Tasks[name]
		file, err := codegen.SynthesizeTask(prog, model, task)
		if err != nil {
			return nil, err
		}
		if err := write(task.Name+".go", file.Content); err != nil {
			return nil, err
		}
		logger.Info("task synthesized", "task", task.Name, "source", file.Source)

		if !task.IsUpper {
			continue
		}
		meta, err := graph.MetadataJSON(task)
		if err != nil {
			return nil, err
		}
		if err := write(task.Name+".json", meta); err != nil {
			return nil, err
		}
	}

	glue, err := codegen.HostGlue(prog, model)
	if err != nil {
		return nil, err
	}
	if err := write(strings.ToLower(model.Top.Name)+"_host.go", glue); err != nil {
		return nil, err
	}
	logger.Info("host glue generated", "top", model.Top.Name)

	return result, nil
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (o Options) reporter() *diag.Reporter {
	if o.Reporter != nil {
		return o.Reporter
	}
	return diag.NewReporter(io.Discard, "text")
}
