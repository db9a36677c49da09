package sanitizer

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/orizon-lang/prism/internal/ast"
	"github.com/orizon-lang/prism/internal/sem"
	"github.com/orizon-lang/prism/internal/transform"
)

func TestParseBackends(t *testing.T) {
	got, err := ParseBackends("glsl, HLSL,spv,glsl")
	if err != nil {
		t.Fatalf("ParseBackends: %v", err)
	}
	want := []Backend{BackendGLSL, BackendHLSL, BackendSPIRV}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseBackends = %v, want %v", got, want)
	}

	if _, err := ParseBackends("glsl,wgsl"); err == nil {
		t.Error("ParseBackends accepted wgsl")
	}
}

func TestBackendString(t *testing.T) {
	for b, name := range backendNames {
		if b.String() != name {
			t.Errorf("%d.String() = %q, want %q", int(b), b.String(), name)
		}
	}
	if Backend(9).String() != "Backend(9)" {
		t.Errorf("unknown backend = %q", Backend(9).String())
	}
}

const optionsJSON = `{
  "glsl": {
    "version": "440",
    "entry_point": "main",
    "binding_remaps": [{"from": {"group": 0, "binding": 1}, "to": {"group": 2, "binding": 3}}]
  },
  "hlsl": {
    "first_index_offset": {"binding": 4, "group": 5},
    "num_workgroups": {"group": 1, "binding": 7},
    "access_controls": [{"binding": {"group": 0, "binding": 2}, "access": "read"}],
    "allow_collisions": true
  },
  "msl": {"version": "2.1"},
  "spirv": {
    "external_textures": [
      {"binding": {"group": 0, "binding": 0}, "plane1": {"group": 0, "binding": 1}, "params": {"group": 0, "binding": 2}}
    ]
  }
}`

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions([]byte(optionsJSON))
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}

	if opts.GLSL.Version != "440" || opts.GLSL.EntryPoint != "main" {
		t.Errorf("GLSL = %+v", opts.GLSL)
	}
	if opts.HLSL.FirstIndexOffset == nil || *opts.HLSL.FirstIndexOffset != (transform.FirstIndexOffsetBindingPoint{Group: 5, Binding: 4}) {
		t.Errorf("HLSL.FirstIndexOffset = %+v", opts.HLSL.FirstIndexOffset)
	}
	if opts.HLSL.NumWorkgroups == nil || *opts.HLSL.NumWorkgroups != (sem.BindingPoint{Group: 1, Binding: 7}) {
		t.Errorf("HLSL.NumWorkgroups = %+v", opts.HLSL.NumWorkgroups)
	}
	if opts.MSL.Version != "2.1" {
		t.Errorf("MSL.Version = %q", opts.MSL.Version)
	}

	r, err := opts.GLSL.remappings()
	if err != nil {
		t.Fatalf("remappings: %v", err)
	}
	if got := r.BindingPoints[sem.BindingPoint{Group: 0, Binding: 1}]; got != (sem.BindingPoint{Group: 2, Binding: 3}) {
		t.Errorf("GLSL remap = %v", got)
	}

	r, err = opts.HLSL.remappings()
	if err != nil {
		t.Fatalf("remappings: %v", err)
	}
	if !r.AllowCollisions || r.AccessControls[sem.BindingPoint{Group: 0, Binding: 2}] != ast.AccessRead {
		t.Errorf("HLSL remappings = %+v", r)
	}

	ext := opts.SPIRV.externalTextures()
	want := transform.BindingPoints{
		Plane1: sem.BindingPoint{Group: 0, Binding: 1},
		Params: sem.BindingPoint{Group: 0, Binding: 2},
	}
	if got := ext.BindingsMap[sem.BindingPoint{}]; got != want {
		t.Errorf("external textures = %+v", ext.BindingsMap)
	}
}

func TestParseOptionsUnknownField(t *testing.T) {
	if _, err := ParseOptions([]byte(`{"glsl": {"verison": "440"}}`)); err == nil {
		t.Error("ParseOptions accepted an unknown field")
	}
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.json")
	if err := os.WriteFile(path, []byte(optionsJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if opts.MSL.Version != "2.1" {
		t.Errorf("MSL.Version = %q", opts.MSL.Version)
	}

	if _, err := LoadOptions(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadOptions succeeded for a missing file")
	}
}
