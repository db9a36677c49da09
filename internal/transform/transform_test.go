package transform

import (
	"fmt"
	"strings"
	"testing"

	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/clone"
	"github.com/orizon-lang/prism/internal/diagnostics"
	"github.com/orizon-lang/prism/internal/errors"
	"github.com/orizon-lang/prism/internal/format"
	"github.com/orizon-lang/prism/internal/program"
)

// run builds b and passes it through a manager holding transforms.
func run(b *program.Builder, data *DataMap, transforms ...Transform) Output {
	return NewManager(transforms...).Run(program.Build(b), data)
}

// str renders an output the way tests compare it: the diagnostics when the
// program is invalid, the printed module otherwise.
func str(out Output) string {
	if !out.Program.IsValid() {
		return out.Program.Diagnostics().Errors().String()
	}
	return format.Program(out.Program)
}

func expectOutput(t *testing.T, got Output, want string) {
	t.Helper()
	if s := str(got); s != want {
		t.Errorf("got:\n%s\nwant:\n%s", s, want)
	}
}

type payloadA struct{ N int }
type payloadB struct{ S string }

func TestDataMap(t *testing.T) {
	d := NewDataMap()
	Add(d, payloadA{N: 1})
	Add(d, payloadB{S: "x"})
	Add(d, payloadA{N: 2})

	if d.Len() != 2 {
		t.Fatalf("Len = %d, want 2", d.Len())
	}
	if a, ok := Get[payloadA](d); !ok || a.N != 2 {
		t.Errorf("Get[payloadA] = %+v, %v", a, ok)
	}

	Remove[payloadB](d)
	if Has[payloadB](d) {
		t.Error("payloadB still present after Remove")
	}

	other := NewDataMap()
	Add(other, payloadB{S: "y"})
	Add(other, payloadA{N: 3})
	d.Merge(other)

	if b, _ := Get[payloadB](d); b.S != "y" {
		t.Errorf("merged payloadB = %+v", b)
	}
	if a, _ := Get[payloadA](d); a.N != 3 {
		t.Errorf("merged payloadA = %+v", a)
	}
	if got := strings.Join(d.Types(), ","); got != "payloadA,payloadB" {
		t.Errorf("Types = %s", got)
	}

	var nilMap *DataMap
	if _, ok := Get[payloadA](nilMap); ok || nilMap.Len() != 0 {
		t.Error("nil map should be empty")
	}
}

// recorder appends its name to a shared log and optionally fails.
type recorder struct {
	name string
	log  *[]string
	skip bool
	fail error
	out  string
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) ShouldRun(*program.Program, *DataMap) bool { return !r.skip }

func (r *recorder) Run(ctx *clone.Context, inputs, outputs *DataMap) error {
	*r.log = append(*r.log, r.name)
	if r.fail != nil {
		return r.fail
	}
	if r.out != "" {
		Add(outputs, stepData{From: r.out})
	}
	ctx.CloneModule()
	return nil
}

type stepData struct{ From string }

func TestManagerOrder(t *testing.T) {
	var log []string

	b := program.NewBuilder()
	b.Func("f", nil, ast.None, nil)

	out := run(b, nil,
		&recorder{name: "a", log: &log},
		&recorder{name: "b", log: &log, skip: true},
		&recorder{name: "c", log: &log, out: "c"},
	)

	if got := strings.Join(log, ","); got != "a,c" {
		t.Errorf("ran %s, want a,c", got)
	}
	if d, ok := Get[stepData](out.Data); !ok || d.From != "c" {
		t.Errorf("output data = %+v, %v", d, ok)
	}
	expectOutput(t, out, "fn f() {\n}\n")
}

func TestManagerStopsOnError(t *testing.T) {
	var log []string

	b := program.NewBuilder()
	b.Func("f", nil, ast.None, nil)
	src := program.Build(b)

	out := NewManager(
		&recorder{name: "a", log: &log, out: "a"},
		&recorder{name: "b", log: &log, fail: errors.MissingTransformData("b")},
		&recorder{name: "c", log: &log},
	).Run(src, nil)

	if got := strings.Join(log, ","); got != "a,b" {
		t.Errorf("ran %s, want a,b", got)
	}
	if got := str(out); got != "error: missing transform data for b" {
		t.Errorf("diagnostics = %q", got)
	}
	if !Has[stepData](out.Data) {
		t.Error("outputs collected before the failure were dropped")
	}
	if format.Program(out.Program) != "fn f() {\n}\n" {
		t.Errorf("the last good program was not returned:\n%s", format.Program(out.Program))
	}
}

// breaker emits a call to an undeclared function, producing an invalid
// program.
type breaker struct{}

func (breaker) Name() string                              { return "breaker" }
func (breaker) ShouldRun(*program.Program, *DataMap) bool { return true }
func (breaker) Run(ctx *clone.Context, _, _ *DataMap) error {
	ctx.Dst.Func("g", nil, ast.None, []ast.NodeID{ctx.Dst.CallStmt(ctx.Dst.Call("missing"))})
	ctx.CloneModule()
	return nil
}

func TestManagerStopsOnInvalidProgram(t *testing.T) {
	var log []string

	b := program.NewBuilder()
	b.Func("f", nil, ast.None, nil)

	out := run(b, nil, breaker{}, &recorder{name: "after", log: &log})

	if len(log) != 0 {
		t.Errorf("transform after the failure ran: %v", log)
	}
	if got := str(out); got != "error: unknown function 'missing'" {
		t.Errorf("diagnostics = %q", got)
	}
}

func TestManagerKeepsInvalidInput(t *testing.T) {
	var log []string

	b := program.NewBuilder()
	b.Func("f", nil, ast.None, nil)
	src := program.Build(b).WithDiagnostics(
		diagnostics.Errorf(diagnostics.CategoryDecoder, "earlier stage failed").Build())

	out := NewManager(&recorder{name: "a", log: &log, out: "a"}, NewRenamer()).Run(src, nil)

	if len(log) != 0 {
		t.Errorf("transforms ran on an invalid program: %v", log)
	}
	if out.Program != src {
		t.Error("invalid input was not returned unchanged")
	}
	if got := out.Program.Diagnostics().String(); got != "error: earlier stage failed" {
		t.Errorf("diagnostics = %q", got)
	}
	if out.Data.Len() != 0 {
		t.Errorf("output data = %v", out.Data.Types())
	}

	applied := Apply(&recorder{name: "b", log: &log}, src, nil)
	if len(log) != 0 || applied.Program != src {
		t.Error("Apply ran a transform on an invalid program")
	}
}

func TestManagerKeepsWarnings(t *testing.T) {
	b := program.NewBuilder()
	b.Func("f", nil, ast.None, nil)
	src := program.Build(b).WithDiagnostics(
		diagnostics.Warningf(diagnostics.CategoryDecoder, "unknown field 'extra'").Build())

	out := NewManager(NewRenamer()).Run(src, nil)

	if !out.Program.IsValid() {
		t.Fatalf("output is invalid:\n%s", out.Program.Diagnostics())
	}
	if got := out.Program.Diagnostics().String(); got != "warning: unknown field 'extra'" {
		t.Errorf("diagnostics = %q", got)
	}
}

type noClone struct{}

func (noClone) Name() string                                 { return "noClone" }
func (noClone) ShouldRun(*program.Program, *DataMap) bool    { return true }
func (noClone) Run(*clone.Context, *DataMap, *DataMap) error { return nil }

func TestApplyRequiresClone(t *testing.T) {
	defer func() {
		if r := recover(); !errors.IsMisuse(r, "TRANSFORM_DID_NOT_CLONE") {
			t.Fatalf("expected misuse panic, got %v", r)
		}
	}()
	Apply(noClone{}, program.Build(program.NewBuilder()), nil)
}

type logLines []string

func (l *logLines) Debug(msg string, args ...interface{}) {
	*l = append(*l, fmt.Sprintf(msg, args...))
}
func (l *logLines) Info(msg string, args ...interface{}) {
	*l = append(*l, fmt.Sprintf(msg, args...))
}

func TestManagerLogs(t *testing.T) {
	var log []string
	var lines logLines

	NewManager(&recorder{name: "a", log: &log, skip: true}).
		Add(&recorder{name: "b", log: &log}).
		WithLogger(&lines).
		Run(program.Build(program.NewBuilder()), nil)

	want := "transform a: skipped|transform b: running"
	if got := strings.Join(lines, "|"); got != want {
		t.Errorf("log = %q, want %q", got, want)
	}
}
