package diagnostics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/orizon-lang/prism/internal/position"
)

// TestDiagnosticString tests the fixed rendering format.
func TestDiagnosticString(t *testing.T) {
	var l List
	l.AddError(CategoryTransform, "missing transform data for FirstIndexOffset", position.Span{})

	if got := l.String(); got != "error: missing transform data for FirstIndexOffset" {
		t.Errorf("String() = %q", got)
	}

	span := position.Span{
		Start: position.Position{Filename: "a.wgsl", Line: 2, Column: 7, Offset: 12},
		End:   position.Position{Filename: "a.wgsl", Line: 2, Column: 9, Offset: 14},
	}
	d := Warningf(CategoryResolver, "unused variable '%s'", "x").At(span).Build()
	if got := d.String(); got != "a.wgsl:2:7 warning: unused variable 'x'" {
		t.Errorf("String() = %q", got)
	}
}

// TestContainsErrors tests severity accounting.
func TestContainsErrors(t *testing.T) {
	var l List
	l.AddWarning(CategoryResolver, "w", position.Span{})
	if l.ContainsErrors() {
		t.Error("warnings alone are not errors")
	}

	Errorf(CategoryTransform, "e").AddTo(&l)
	if !l.ContainsErrors() || l.ErrorCount() != 1 || len(l.Errors()) != 1 {
		t.Errorf("unexpected accounting: %v", l)
	}
}

// TestRender tests plain and colored output.
func TestRender(t *testing.T) {
	l := List{{Level: DiagnosticError, Message: "boom"}}

	var plain, colored bytes.Buffer
	if err := l.Render(&plain, false); err != nil {
		t.Fatal(err)
	}
	if err := l.Render(&colored, true); err != nil {
		t.Fatal(err)
	}

	if plain.String() != "error: boom\n" {
		t.Errorf("plain = %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[31;1merror\x1b[0m: boom") {
		t.Errorf("colored = %q", colored.String())
	}
}

func TestBuilder(t *testing.T) {
	d := Errorf(CategoryTransform, "100% broken").Code("X").At(position.Span{}).Build()
	want := Diagnostic{Level: DiagnosticError, Category: CategoryTransform, Message: "100% broken", Code: "X"}
	if d != want {
		t.Errorf("Build() = %+v, want %+v", d, want)
	}
}

func TestWithout(t *testing.T) {
	l := List{
		{Level: DiagnosticError, Category: CategoryResolver, Message: "r"},
		{Level: DiagnosticWarning, Category: CategoryTransform, Message: "t"},
		{Level: DiagnosticWarning, Category: CategoryDecoder, Message: "d"},
	}
	got := l.Without(CategoryResolver)
	if got.String() != "warning: t\nwarning: d" {
		t.Errorf("Without = %q", got.String())
	}
	if len(l) != 3 {
		t.Error("Without modified the list")
	}
}
