package position

import "testing"

func at(line, col, offset int) Position {
	return Position{Filename: "shader.wgsl", Line: line, Column: col, Offset: offset}
}

// TestSpanString tests how spans are cited in diagnostics.
func TestSpanString(t *testing.T) {
	span := Span{Start: at(3, 5, 40), End: at(3, 9, 44)}
	if got := span.String(); got != "shader.wgsl:3:5" {
		t.Errorf("String() = %q", got)
	}

	if (Span{}).IsValid() {
		t.Error("zero span must be invalid")
	}
}

// TestSpanUnion tests span merging.
func TestSpanUnion(t *testing.T) {
	a := Span{Start: at(1, 1, 0), End: at(1, 5, 4)}
	b := Span{Start: at(2, 1, 10), End: at(2, 3, 12)}

	u := a.Union(b)
	if u.Start != a.Start || u.End != b.End {
		t.Errorf("Union = %+v", u)
	}

	if got := (Span{}).Union(b); got != b {
		t.Errorf("invalid.Union(b) = %+v, want b", got)
	}
}
