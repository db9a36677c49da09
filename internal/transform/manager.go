package transform

import (
	"github.com/orizon-lang/prism/internal/diagnostics"
	"github.com/orizon-lang/prism/internal/program"
)

// Manager runs a sequence of transforms left to right.
type Manager struct {
	transforms []Transform
	logger     Logger
}

// NewManager creates a manager running transforms in order.
func NewManager(transforms ...Transform) *Manager {
	return &Manager{transforms: transforms, logger: nopLogger{}}
}

// Add appends a transform to the pipeline.
func (m *Manager) Add(t Transform) *Manager {
	m.transforms = append(m.transforms, t)
	return m
}

// WithLogger sets the logger used to trace the pipeline.
func (m *Manager) WithLogger(logger Logger) *Manager {
	if logger == nil {
		logger = nopLogger{}
	}
	m.logger = logger
	return m
}

// Transforms returns the pipeline in run order.
func (m *Manager) Transforms() []Transform {
	return m.transforms
}

// Run applies every transform whose ShouldRun is true. Each transform sees
// the caller's inputs merged with the outputs of the transforms before it.
// A failing transform, or one producing an invalid program, stops the run:
// the result is the last good program with the new error diagnostics
// appended, together with the outputs collected so far. An invalid prog
// is returned unchanged and no transform runs.
func (m *Manager) Run(prog *program.Program, inputs *DataMap) Output {
	if !prog.IsValid() {
		m.logger.Info("input program is invalid; no transform run")
		return Output{Program: prog, Data: NewDataMap()}
	}

	data := NewDataMap()
	data.Merge(inputs)

	outputs := NewDataMap()
	current := prog

	for _, t := range m.transforms {
		if !t.ShouldRun(current, data) {
			m.logger.Debug("transform %s: skipped", t.Name())
			continue
		}

		m.logger.Debug("transform %s: running", t.Name())

		out := Apply(t, current, data)
		outputs.Merge(out.Data)
		data.Merge(out.Data)

		if !out.Program.IsValid() {
			errs := newErrors(current.Diagnostics(), out.Program.Diagnostics())
			m.logger.Info("transform %s failed: %s", t.Name(), errs.String())
			return Output{Program: current.WithDiagnostics(errs...), Data: outputs}
		}

		current = out.Program
	}

	return Output{Program: current, Data: outputs}
}

// newErrors returns the error diagnostics of after that are not already
// carried by before. Apply appends to the input diagnostics, so the new
// ones are the tail; a program rebuilt from scratch carries only its own.
func newErrors(before, after diagnostics.List) diagnostics.List {
	tail := after
	if len(after) >= len(before) && samePrefix(before, after) {
		tail = after[len(before):]
	}
	return tail.Errors()
}

func samePrefix(prefix, list diagnostics.List) bool {
	for i := range prefix {
		if prefix[i] != list[i] {
			return false
		}
	}
	return true
}
