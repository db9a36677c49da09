// Package transform defines the program-to-program transform contract,
// the typed data exchanged between transforms, the sequential Manager and
// the concrete transforms used by the backend sanitizers.
package transform

import (
	"fmt"

	"github.com/orizon-lang/prism/internal/clone"
	"github.com/orizon-lang/prism/internal/diagnostics"
	"github.com/orizon-lang/prism/internal/errors"
	"github.com/orizon-lang/prism/internal/program"
)

// Transform rewrites a program by cloning it through a clone.Context.
type Transform interface {
	// Name identifies the transform in diagnostics and logs.
	Name() string
	// ShouldRun reports whether Run would change prog.
	ShouldRun(prog *program.Program, data *DataMap) bool
	// Run registers rewrites on ctx and must call ctx.CloneModule before
	// returning nil.
	Run(ctx *clone.Context, inputs, outputs *DataMap) error
}

// Output is the result of running one transform or a pipeline.
type Output struct {
	Program *program.Program
	Data    *DataMap
}

// Logger receives pipeline tracing. *cli.Logger satisfies it.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}

// Apply runs t on prog without consulting ShouldRun. An invalid prog is
// returned as is with empty data. When Run fails, the returned program is
// prog with an error diagnostic carrying the failure message.
func Apply(t Transform, prog *program.Program, inputs *DataMap) Output {
	outputs := NewDataMap()
	if !prog.IsValid() {
		return Output{Program: prog, Data: outputs}
	}

	if inputs == nil {
		inputs = NewDataMap()
	}

	ctx := clone.New(prog)

	if err := t.Run(ctx, inputs, outputs); err != nil {
		return Output{
			Program: prog.WithDiagnostics(errorDiagnostic(err)),
			Data:    outputs,
		}
	}

	if !ctx.Cloned() {
		panic(errors.Misuse("TRANSFORM_DID_NOT_CLONE",
			fmt.Sprintf("transform %s returned without cloning the module", t.Name()), nil))
	}

	return Output{Program: program.Build(ctx.Dst), Data: outputs}
}

func errorDiagnostic(err error) diagnostics.Diagnostic {
	return diagnostics.Errorf(diagnostics.CategoryTransform, "%s", errors.DiagnosticText(err)).Build()
}

// cloneOnly copies the program without rewrites. Transforms that find
// nothing to do call it so Run still produces a program.
func cloneOnly(ctx *clone.Context) error {
	ctx.CloneModule()
	return nil
}
