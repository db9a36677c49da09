package sanitizer

import (
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/errors"
	"github.com/orizon-lang/prism/internal/format"
	"github.com/orizon-lang/prism/internal/program"
	"github.com/orizon-lang/prism/internal/sem"
	"github.com/orizon-lang/prism/internal/transform"
)

func twoStages() *program.Program {
	b := program.NewBuilder()
	b.Struct("A", b.Member("x", b.Ty().F32()))
	b.GlobalVar("a", b.Ty().Named("A"), ast.AddressSpaceUniform, b.Group(0), b.Binding(0))

	vec4 := func() ast.NodeID { return b.Ty().Vec4(b.Ty().F32()) }
	b.FuncReturning("vmain", nil, vec4(), []ast.NodeID{b.Builtin(ast.BuiltinPosition)},
		[]ast.NodeID{b.ReturnValue(b.Construct(vec4()))},
		b.Stage(ast.StageVertex))
	b.Func("fmain", nil, ast.None, []ast.NodeID{
		b.Decl(b.Let("x", ast.None, b.MemberAccessor("a", "x"))),
	}, b.Stage(ast.StageFragment))
	return program.Build(b)
}

func computeOnly(name string) *program.Builder {
	b := program.NewBuilder()
	b.Func(name, nil, ast.None, nil, b.Stage(ast.StageCompute), b.WorkgroupSize(8, 2))
	return b
}

func mustSanitize(t *testing.T, prog *program.Program, opts Options) *Result {
	t.Helper()
	res, err := Sanitize(prog, opts)
	if err != nil {
		t.Fatalf("Sanitize: %v", err)
	}
	return res
}

func TestSanitizeGLSL(t *testing.T) {
	opts := Options{Backend: BackendGLSL}
	opts.GLSL.EntryPoint = "fmain"
	opts.GLSL.BindingRemaps = []BindingRemap{{From: sem.BindingPoint{}, To: sem.BindingPoint{Group: 1, Binding: 2}}}

	res := mustSanitize(t, twoStages(), opts)

	want := `struct A {
  x : f32,
}

@group(1) @binding(2) var<uniform> a : A;

@fragment
fn fmain() {
  let x = a.x;
}
`
	if got := format.Program(res.Program); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
	if res.Header != "#version 310 es" {
		t.Errorf("Header = %q", res.Header)
	}
	wantEntries := []EntryPoint{{Name: "fmain", Stage: "fragment"}}
	if !reflect.DeepEqual(res.EntryPoints, wantEntries) {
		t.Errorf("EntryPoints = %+v, want %+v", res.EntryPoints, wantEntries)
	}
}

func TestSanitizeGLSLEntryPointSelection(t *testing.T) {
	_, err := Sanitize(twoStages(), Options{Backend: BackendGLSL})
	if !errors.Is(err, errors.CategoryInput, "AMBIGUOUS_ENTRY_POINT") {
		t.Errorf("err = %v, want AMBIGUOUS_ENTRY_POINT", err)
	}

	opts := Options{Backend: BackendGLSL}
	opts.GLSL.EntryPoint = "missing"
	_, err = Sanitize(twoStages(), opts)
	if !errors.Is(err, errors.CategoryInput, "ENTRY_POINT_NOT_FOUND") {
		t.Errorf("err = %v, want ENTRY_POINT_NOT_FOUND", err)
	}
}

func TestSanitizeGLSLComputeVersion(t *testing.T) {
	tests := []struct {
		version string
		ok      bool
	}{
		{"300 es", false},
		{"310 es", true},
		{"330", false},
		{"430", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			opts := Options{Backend: BackendGLSL}
			opts.GLSL.Version = tt.version

			res, err := Sanitize(program.Build(computeOnly("cs")), opts)
			if tt.ok {
				if err != nil {
					t.Fatalf("Sanitize: %v", err)
				}
				want := []EntryPoint{{Name: "cs", Stage: "compute", WorkgroupSize: [3]uint32{8, 2, 1}}}
				if !reflect.DeepEqual(res.EntryPoints, want) {
					t.Errorf("EntryPoints = %+v", res.EntryPoints)
				}
				return
			}
			if !errors.Is(err, errors.CategoryConfiguration, "UNSUPPORTED_STAGE") {
				t.Errorf("err = %v, want UNSUPPORTED_STAGE", err)
			}
		})
	}
}

func TestSanitizeGLSLRenamesKeywords(t *testing.T) {
	res := mustSanitize(t, program.Build(computeOnly("main")), Options{Backend: BackendGLSL})

	if len(res.EntryPoints) != 1 || res.EntryPoints[0].Name != "tint_symbol" {
		t.Errorf("EntryPoints = %+v", res.EntryPoints)
	}
	data, ok := transform.Get[transform.RenamerData](res.Data)
	if !ok || data.Remappings["main"] != "tint_symbol" {
		t.Errorf("RenamerData = %+v, %v", data, ok)
	}
}

func TestSanitizeHLSLNumWorkgroups(t *testing.T) {
	b := program.NewBuilder()
	b.Func("main", []ast.NodeID{b.Param("n", b.Ty().Vec3(b.Ty().U32()), b.Builtin(ast.BuiltinNumWorkgroups))},
		ast.None, []ast.NodeID{b.Decl(b.Let("x", ast.None, b.MemberAccessor("n", "x")))},
		b.Stage(ast.StageCompute), b.WorkgroupSize(1))

	res := mustSanitize(t, program.Build(b), Options{Backend: BackendHLSL})

	want := `struct tint_symbol {
  num_workgroups : vec3<u32>,
}

@group(0) @binding(30) var<uniform> tint_symbol_1 : tint_symbol;

@compute @workgroup_size(1)
fn main() {
  let x = tint_symbol_1.num_workgroups.x;
}
`
	if got := format.Program(res.Program); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
	if res.Header != "" {
		t.Errorf("Header = %q", res.Header)
	}
}

func TestSanitizeHLSLFirstIndexOffset(t *testing.T) {
	b := program.NewBuilder()
	vec4 := func() ast.NodeID { return b.Ty().Vec4(b.Ty().F32()) }
	b.FuncReturning("vs", []ast.NodeID{b.Param("vi", b.Ty().U32(), b.Builtin(ast.BuiltinVertexIndex))},
		vec4(), []ast.NodeID{b.Builtin(ast.BuiltinPosition)},
		[]ast.NodeID{
			b.Decl(b.Let("i", ast.None, b.Expr("vi"))),
			b.ReturnValue(b.Construct(vec4())),
		},
		b.Stage(ast.StageVertex))

	prog := program.Build(b)

	opts := Options{Backend: BackendHLSL}
	res := mustSanitize(t, prog, opts)
	if transform.Has[transform.FirstIndexOffsetData](res.Data) {
		t.Error("FirstIndexOffset ran without configuration")
	}

	opts.HLSL.FirstIndexOffset = &transform.FirstIndexOffsetBindingPoint{Group: 2, Binding: 1}
	res = mustSanitize(t, prog, opts)
	data, ok := transform.Get[transform.FirstIndexOffsetData](res.Data)
	if !ok || !data.HasVertexIndex || data.HasInstanceIndex {
		t.Errorf("FirstIndexOffsetData = %+v, %v", data, ok)
	}
}

func TestSanitizeMSLVersion(t *testing.T) {
	prog := program.Build(computeOnly("cs"))

	opts := Options{Backend: BackendMSL}
	opts.MSL.Version = "1.1"
	if _, err := Sanitize(prog, opts); !errors.Is(err, errors.CategoryConfiguration, "UNSUPPORTED_VERSION") {
		t.Errorf("err = %v, want UNSUPPORTED_VERSION", err)
	}

	opts.MSL.Version = "2.1"
	res := mustSanitize(t, prog, opts)
	if res.Header != "#include <metal_stdlib>" {
		t.Errorf("Header = %q", res.Header)
	}
}

func TestSanitizeSPIRV(t *testing.T) {
	b := program.NewBuilder()
	b.Func("f", nil, ast.None, []ast.NodeID{b.Return(), b.Decl(b.Var("x", b.Ty().I32(), ast.None))})

	res := mustSanitize(t, program.Build(b), Options{Backend: BackendSPIRV})
	if got, want := format.Program(res.Program), "fn f() {\n  return;\n}\n"; got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestSanitizeTransformFailure(t *testing.T) {
	b := program.NewBuilder()
	b.GlobalVar("t", b.Ty().ExternalTexture(), ast.AddressSpaceNone, b.Group(0), b.Binding(0))

	res, err := Sanitize(program.Build(b), Options{Backend: BackendSPIRV})

	var serr *Error
	if !stderrors.As(err, &serr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if serr.Backend != BackendSPIRV {
		t.Errorf("Backend = %v", serr.Backend)
	}
	if got, want := serr.Diagnostics.String(), "error: missing new binding points for texture_external at binding {0,0}"; got != want {
		t.Errorf("diagnostics = %q, want %q", got, want)
	}
	if res == nil || res.Program.IsValid() {
		t.Error("result should carry the invalid program")
	}
}

func TestSanitizeInvalidInput(t *testing.T) {
	b := program.NewBuilder()
	b.Func("f", nil, ast.None, []ast.NodeID{b.Decl(b.Let("x", ast.None, b.Expr("missing")))})

	res, err := Sanitize(program.Build(b), Options{Backend: BackendMSL})
	var serr *Error
	if !stderrors.As(err, &serr) || res != nil {
		t.Errorf("Sanitize = %v, %v", res, err)
	}
}

func TestSanitizeInvalidAccess(t *testing.T) {
	opts := Options{Backend: BackendSPIRV}
	opts.SPIRV.AccessControls = []AccessControl{{Binding: sem.BindingPoint{}, Access: "rw"}}

	_, err := Sanitize(program.Build(computeOnly("cs")), opts)
	if !errors.Is(err, errors.CategoryConfiguration, "INVALID_ACCESS") {
		t.Errorf("err = %v, want INVALID_ACCESS", err)
	}
}
