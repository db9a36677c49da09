// Package position provides source positions for program nodes and
// diagnostics. Programs built in memory carry zero spans; programs decoded
// from a front-end keep the spans it recorded.
package position

import (
	"fmt"
	"path/filepath"
)

// Position represents a single point in source code
type Position struct {
	Filename string `json:"file,omitempty"`
	Line     int    `json:"line"`   // 1-based line number
	Column   int    `json:"column"` // 1-based column number
	Offset   int    `json:"offset"` // 0-based byte offset in source
}

// IsValid returns true if the position is valid
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0 && p.Offset >= 0
}

// String returns a string representation of the position
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", filepath.Base(p.Filename), p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before returns true if this position comes before other
func (p Position) Before(other Position) bool {
	if p.Filename != other.Filename {
		return p.Filename < other.Filename
	}
	return p.Offset < other.Offset
}

// Span represents a range of source code between two positions
type Span struct {
	Start Position `json:"start"` // inclusive
	End   Position `json:"end"`   // exclusive
}

// IsValid returns true if the span is valid
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid() &&
		s.Start.Filename == s.End.Filename &&
		s.Start.Offset <= s.End.Offset
}

// String returns the start of the span, which is how diagnostics cite it.
func (s Span) String() string {
	return s.Start.String()
}

// Union returns a span that encompasses both this span and other
func (s Span) Union(other Span) Span {
	if !s.IsValid() {
		return other
	}
	if !other.IsValid() || s.Start.Filename != other.Start.Filename {
		return s
	}

	start, end := s.Start, s.End
	if other.Start.Before(start) {
		start = other.Start
	}
	if end.Before(other.End) {
		end = other.End
	}

	return Span{Start: start, End: end}
}
