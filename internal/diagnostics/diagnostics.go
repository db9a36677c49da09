// Package diagnostics collects the errors and warnings attached to a
// program. Diagnostics are accumulated, never dropped: a program carries
// every diagnostic produced by the stages that built it.
package diagnostics

import (
	"fmt"
	"io"
	"strings"

	"github.com/orizon-lang/prism/internal/position"
)

// DiagnosticLevel represents the severity level of a diagnostic
type DiagnosticLevel int

const (
	DiagnosticError DiagnosticLevel = iota
	DiagnosticWarning
	DiagnosticInfo
	DiagnosticHint
)

func (dl DiagnosticLevel) String() string {
	switch dl {
	case DiagnosticError:
		return "error"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticInfo:
		return "info"
	case DiagnosticHint:
		return "hint"
	default:
		return "unknown"
	}
}

// DiagnosticCategory names the stage that raised a diagnostic.
type DiagnosticCategory int

const (
	CategoryResolver DiagnosticCategory = iota
	CategoryTransform
	CategorySanitizer
	CategoryDecoder
)

func (dc DiagnosticCategory) String() string {
	switch dc {
	case CategoryResolver:
		return "resolver"
	case CategoryTransform:
		return "transform"
	case CategorySanitizer:
		return "sanitizer"
	case CategoryDecoder:
		return "decoder"
	default:
		return "unknown"
	}
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Level    DiagnosticLevel    `json:"level"`
	Category DiagnosticCategory `json:"category"`
	Message  string             `json:"message"`
	Span     position.Span      `json:"span"`
	Code     string             `json:"code,omitempty"`
}

// String renders the diagnostic as "error: reason", prefixed with the
// source location when one is known.
func (d Diagnostic) String() string {
	if d.Span.IsValid() {
		return fmt.Sprintf("%s %s: %s", d.Span, d.Level, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Level, d.Message)
}

// List is an ordered collection of diagnostics.
type List []Diagnostic

// Add appends a diagnostic.
func (l *List) Add(d Diagnostic) {
	*l = append(*l, d)
}

// AddError appends an error diagnostic.
func (l *List) AddError(category DiagnosticCategory, message string, span position.Span) {
	l.Add(Diagnostic{Level: DiagnosticError, Category: category, Message: message, Span: span})
}

// AddWarning appends a warning diagnostic.
func (l *List) AddWarning(category DiagnosticCategory, message string, span position.Span) {
	l.Add(Diagnostic{Level: DiagnosticWarning, Category: category, Message: message, Span: span})
}

// Without returns the diagnostics not raised by category.
func (l List) Without(category DiagnosticCategory) List {
	var out List
	for _, d := range l {
		if d.Category != category {
			out = append(out, d)
		}
	}
	return out
}

// Append appends every diagnostic of other.
func (l *List) Append(other List) {
	*l = append(*l, other...)
}

// ContainsErrors reports whether any entry has error severity.
func (l List) ContainsErrors() bool {
	return l.ErrorCount() > 0
}

// ErrorCount returns the number of error entries.
func (l List) ErrorCount() int {
	n := 0
	for _, d := range l {
		if d.Level == DiagnosticError {
			n++
		}
	}
	return n
}

// Errors returns only the error entries.
func (l List) Errors() List {
	var out List
	for _, d := range l {
		if d.Level == DiagnosticError {
			out = append(out, d)
		}
	}
	return out
}

// String joins the rendered diagnostics with newlines.
func (l List) String() string {
	lines := make([]string, len(l))
	for i, d := range l {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31;1m"
	colorYellow = "\x1b[33;1m"
	colorCyan   = "\x1b[36m"
)

// Render writes one diagnostic per line, coloring the severity when color
// is set.
func (l List) Render(w io.Writer, color bool) error {
	for _, d := range l {
		line := d.String()
		if color {
			line = colorize(d)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func colorize(d Diagnostic) string {
	c := colorCyan
	switch d.Level {
	case DiagnosticError:
		c = colorRed
	case DiagnosticWarning:
		c = colorYellow
	}

	prefix := ""
	if d.Span.IsValid() {
		prefix = d.Span.String() + " "
	}

	return fmt.Sprintf("%s%s%s%s: %s", prefix, c, d.Level, colorReset, d.Message)
}
