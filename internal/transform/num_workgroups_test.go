package transform

import (
	"testing"

	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/program"
	"github.com/orizon-lang/prism/internal/sem"
)

func numWorkgroupsConfig(group, binding uint32) *DataMap {
	d := NewDataMap()
	Add(d, NumWorkgroupsFromUniformConfig{BindingPoint: sem.BindingPoint{Group: group, Binding: binding}})
	return d
}

func computeEntry(b *program.Builder, params []ast.NodeID, stmts ...ast.NodeID) {
	b.Func("main", params, ast.None, stmts, b.Stage(ast.StageCompute), b.WorkgroupSize(1))
}

func TestNumWorkgroupsShouldRun(t *testing.T) {
	tr := NewNumWorkgroupsFromUniform()

	b := program.NewBuilder()
	computeEntry(b, []ast.NodeID{b.Param("idx", b.Ty().U32(), b.Builtin(ast.BuiltinLocalInvocationIndex))})
	if tr.ShouldRun(program.Build(b), nil) {
		t.Error("ShouldRun true without num_workgroups")
	}

	b = program.NewBuilder()
	b.Struct("Builtins", b.Member("n", b.Ty().Vec3(b.Ty().U32()), b.Builtin(ast.BuiltinNumWorkgroups)))
	if !tr.ShouldRun(program.Build(b), nil) {
		t.Error("ShouldRun false with a num_workgroups member")
	}
}

func TestNumWorkgroupsMissingData(t *testing.T) {
	b := program.NewBuilder()
	computeEntry(b, []ast.NodeID{b.Param("n", b.Ty().Vec3(b.Ty().U32()), b.Builtin(ast.BuiltinNumWorkgroups))})

	out := run(b, nil, NewNumWorkgroupsFromUniform())
	expectOutput(t, out, "error: missing transform data for NumWorkgroupsFromUniform")
}

func TestNumWorkgroupsStructMember(t *testing.T) {
	b := program.NewBuilder()
	b.Struct("Builtins",
		b.Member("local_id", b.Ty().Vec3(b.Ty().U32()), b.Builtin(ast.BuiltinLocalInvocationID)),
		b.Member("num_wgs", b.Ty().Vec3(b.Ty().U32()), b.Builtin(ast.BuiltinNumWorkgroups)))
	computeEntry(b, []ast.NodeID{b.Param("inputs", b.Ty().Named("Builtins"))},
		b.Decl(b.Let("groups_x", ast.None, b.MemberAccessor(b.MemberAccessor("inputs", "num_wgs"), "x"))),
		b.Decl(b.Let("local_x", ast.None, b.MemberAccessor(b.MemberAccessor("inputs", "local_id"), "x"))))

	want := `struct tint_symbol {
  num_workgroups : vec3<u32>,
}

@group(0) @binding(30) var<uniform> tint_symbol_1 : tint_symbol;

struct Builtins {
  @builtin(local_invocation_id) local_id : vec3<u32>,
}

@compute @workgroup_size(1)
fn main(inputs : Builtins) {
  let groups_x = tint_symbol_1.num_workgroups.x;
  let local_x = inputs.local_id.x;
}
`
	expectOutput(t, run(b, numWorkgroupsConfig(0, 30), NewNumWorkgroupsFromUniform()), want)
}

func TestNumWorkgroupsParameter(t *testing.T) {
	b := program.NewBuilder()
	computeEntry(b,
		[]ast.NodeID{
			b.Param("wgs", b.Ty().Vec3(b.Ty().U32()), b.Builtin(ast.BuiltinNumWorkgroups)),
			b.Param("idx", b.Ty().U32(), b.Builtin(ast.BuiltinLocalInvocationIndex)),
		},
		b.Decl(b.Let("total", ast.None, b.Mul(b.MemberAccessor("wgs", "x"), "idx"))))

	want := `struct tint_symbol {
  num_workgroups : vec3<u32>,
}

@group(1) @binding(2) var<uniform> tint_symbol_1 : tint_symbol;

@compute @workgroup_size(1)
fn main(@builtin(local_invocation_index) idx : u32) {
  let total = (tint_symbol_1.num_workgroups.x * idx);
}
`
	expectOutput(t, run(b, numWorkgroupsConfig(1, 2), NewNumWorkgroupsFromUniform()), want)
}

func TestNumWorkgroupsEmptiedStruct(t *testing.T) {
	b := program.NewBuilder()
	b.Struct("Builtins", b.Member("num_wgs", b.Ty().Vec3(b.Ty().U32()), b.Builtin(ast.BuiltinNumWorkgroups)))
	computeEntry(b, []ast.NodeID{b.Param("inputs", b.Ty().Named("Builtins"))},
		b.Decl(b.Let("n", ast.None, b.MemberAccessor("inputs", "num_wgs"))))

	want := `struct tint_symbol {
  num_workgroups : vec3<u32>,
}

@group(0) @binding(0) var<uniform> tint_symbol_1 : tint_symbol;

struct Builtins {
  num_wgs : vec3<u32>,
}

@compute @workgroup_size(1)
fn main() {
  let n = tint_symbol_1.num_workgroups;
}
`
	expectOutput(t, run(b, numWorkgroupsConfig(0, 0), NewNumWorkgroupsFromUniform()), want)
}

func TestNumWorkgroupsEmptiedStructWholeValue(t *testing.T) {
	b := program.NewBuilder()
	b.Struct("Builtins", b.Member("num_wgs", b.Ty().Vec3(b.Ty().U32()), b.Builtin(ast.BuiltinNumWorkgroups)))
	b.Func("groups_x", []ast.NodeID{b.Param("arg", b.Ty().Named("Builtins"))}, b.Ty().U32(), []ast.NodeID{
		b.ReturnValue(b.MemberAccessor(b.MemberAccessor("arg", "num_wgs"), "x")),
	})
	computeEntry(b, []ast.NodeID{b.Param("inputs", b.Ty().Named("Builtins"))},
		b.Decl(b.Let("copy", ast.None, b.Expr("inputs"))),
		b.Decl(b.Let("x", ast.None, b.Call("groups_x", "inputs"))))

	want := `struct tint_symbol {
  num_workgroups : vec3<u32>,
}

@group(0) @binding(3) var<uniform> tint_symbol_1 : tint_symbol;

struct Builtins {
  num_wgs : vec3<u32>,
}

fn groups_x(arg : Builtins) -> u32 {
  return arg.num_wgs.x;
}

@compute @workgroup_size(1)
fn main() {
  let copy = Builtins(tint_symbol_1.num_workgroups);
  let x = groups_x(Builtins(tint_symbol_1.num_workgroups));
}
`
	out := run(b, numWorkgroupsConfig(0, 3), NewNumWorkgroupsFromUniform())
	if !out.Program.IsValid() {
		t.Fatalf("output is invalid:\n%s", out.Program.Diagnostics())
	}
	expectOutput(t, out, want)
}

func TestNumWorkgroupsIgnoresOtherStages(t *testing.T) {
	b := program.NewBuilder()
	b.Struct("Builtins", b.Member("num_wgs", b.Ty().Vec3(b.Ty().U32()), b.Builtin(ast.BuiltinNumWorkgroups)))
	b.Func("helper", []ast.NodeID{b.Param("inputs", b.Ty().Named("Builtins"))}, ast.None, nil)

	want := `struct Builtins {
  @builtin(num_workgroups) num_wgs : vec3<u32>,
}

fn helper(inputs : Builtins) {
}
`
	expectOutput(t, run(b, numWorkgroupsConfig(0, 0), NewNumWorkgroupsFromUniform()), want)
}
