package graph

import (
	"github.com/lutherstrike/tapa/internal/diag"
)

// Validate checks channel wiring in every orchestrator. A declared channel
// nobody touches is dropped with a warning; a declared channel wired on only
// one side is an error and stays in the graph. Channels backed by the
// orchestrator's own stream ports are exempt, their missing side lives
// outside the task.
func Validate(m *Model, reporter *diag.Reporter) {
	for _, name := range m.TaskNames() {
		task := m.Tasks[name]
		if !task.IsUpper {
			continue
		}
		validateTask(task, reporter)
	}
}

func validateTask(task *Task, reporter *diag.Reporter) {
	names := append([]string(nil), task.FifoNames()...)
	for _, name := range names {
		f := task.Fifos[name]
		if f == nil || !f.Declared {
			continue
		}
		switch {
		case f.Produced == nil && f.Consumed == nil:
			reporter.Warning(f.DeclPos, "unused channel: %s", name)
			task.removeFifo(name)
		case f.Produced == nil:
			reporter.Error(f.DeclPos, "channel '%s' consumed but not produced", name)
		case f.Consumed == nil:
			reporter.Error(f.DeclPos, "channel '%s' produced but not consumed", name)
		}
	}
}
