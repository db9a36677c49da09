package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestStandardErrorFormat(t *testing.T) {
	err := InvalidInput("BINDING_NOT_FOUND", "no variable at binding {0,3}", nil)

	if !strings.HasPrefix(err.Error(), "[INPUT:BINDING_NOT_FOUND] no variable at binding {0,3} (caller: ") {
		t.Errorf("Error() = %q", err.Error())
	}
	if !strings.Contains(err.Caller, "TestStandardErrorFormat") {
		t.Errorf("Caller = %q", err.Caller)
	}
	if err.DiagnosticMessage() != "no variable at binding {0,3}" {
		t.Errorf("DiagnosticMessage() = %q", err.DiagnosticMessage())
	}
}

func TestIs(t *testing.T) {
	wrapped := fmt.Errorf("sanitize: %w", MissingTransformData("Renamer"))

	tests := []struct {
		name     string
		err      error
		category ErrorCategory
		code     string
		want     bool
	}{
		{"wrapped exact", wrapped, CategoryConfiguration, "MISSING_TRANSFORM_DATA", true},
		{"any code", wrapped, CategoryConfiguration, "", true},
		{"wrong code", wrapped, CategoryConfiguration, "OTHER", false},
		{"wrong category", wrapped, CategoryInput, "", false},
		{"plain error", stderrors.New("x"), CategoryConfiguration, "", false},
		{"nil", nil, CategoryConfiguration, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.category, tt.code); got != tt.want {
				t.Errorf("Is = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiagnosticText(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", MissingTransformData("Renamer"))
	if got := DiagnosticText(wrapped); got != "missing transform data for Renamer" {
		t.Errorf("DiagnosticText(wrapped) = %q", got)
	}
	if got := DiagnosticText(stderrors.New("plain")); got != "plain" {
		t.Errorf("DiagnosticText(plain) = %q", got)
	}
}

func TestIsMisuse(t *testing.T) {
	v := func() (r interface{}) {
		defer func() { r = recover() }()
		panic(Misuse("BAD_CAST", "cannot cast", nil))
	}()

	if !IsMisuse(v, "BAD_CAST") || !IsMisuse(v, "") {
		t.Errorf("IsMisuse(%v) = false", v)
	}
	if IsMisuse(v, "OTHER") {
		t.Error("IsMisuse matched the wrong code")
	}
	if IsMisuse(InvalidInput("X", "y", nil), "") {
		t.Error("input error reported as misuse")
	}
	if IsMisuse("not an error", "") {
		t.Error("string reported as misuse")
	}
}
