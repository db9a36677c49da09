package diagnostics

import (
	"fmt"

	"github.com/orizon-lang/prism/internal/position"
)

// Builder assembles one diagnostic. Start it with Errorf or Warningf,
// then attach a span or a code before calling Build or AddTo.
type Builder struct {
	d Diagnostic
}

// Errorf starts an error raised by the given stage.
func Errorf(category DiagnosticCategory, format string, args ...interface{}) *Builder {
	return newBuilder(DiagnosticError, category, format, args)
}

// Warningf starts a warning raised by the given stage.
func Warningf(category DiagnosticCategory, format string, args ...interface{}) *Builder {
	return newBuilder(DiagnosticWarning, category, format, args)
}

func newBuilder(level DiagnosticLevel, category DiagnosticCategory, format string, args []interface{}) *Builder {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Builder{d: Diagnostic{Level: level, Category: category, Message: msg}}
}

// At sets the source location. Invalid spans are ignored.
func (b *Builder) At(span position.Span) *Builder {
	if span.IsValid() {
		b.d.Span = span
	}
	return b
}

// Code tags the diagnostic with a machine-readable code.
func (b *Builder) Code(code string) *Builder {
	b.d.Code = code
	return b
}

// Build returns the diagnostic.
func (b *Builder) Build() Diagnostic { return b.d }

// AddTo appends the diagnostic to l.
func (b *Builder) AddTo(l *List) { l.Add(b.d) }
