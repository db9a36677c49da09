package format

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/orizon-lang/prism/internal/program"
)

// DiffOptions controls diff generation.
type DiffOptions struct {
	Context     int  // Number of context lines to show
	ShowNumbers bool // Show line numbers
}

// DefaultDiffOptions returns default diff options.
func DefaultDiffOptions() DiffOptions {
	return DiffOptions{
		Context:     3,
		ShowNumbers: false,
	}
}

// DiffResult represents the result of a diff operation.
type DiffResult struct {
	Hunks      []Hunk
	Stats      DiffStat
	HasChanges bool
}

// Hunk represents a contiguous block of changes.
type Hunk struct {
	Header        string
	Lines         []Line
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
}

// Line represents a single line in a diff.
type Line struct {
	Content string
	Type    LineType
	Number  int
}

// LineType represents the type of a diff line.
type LineType int

const (
	LineTypeContext LineType = iota // Unchanged context line
	LineTypeAdded                   // Added line (+)
	LineTypeRemoved                 // Removed line (-)
)

// DiffStat contains statistics about changes.
type DiffStat struct {
	LinesAdded   int // Number of lines added
	LinesRemoved int // Number of lines removed
}

// edit is one step of the edit script; orig and mod are 0-based line
// indexes at the point of the step.
type edit struct {
	kind LineType
	orig int
	mod  int
}

// Diff compares two renderings line by line.
func Diff(original, modified string, options DiffOptions) *DiffResult {
	a, b := splitLines(original), splitLines(modified)
	edits := computeEdits(a, b)
	hunks := buildHunks(edits, a, b, options.Context)

	result := &DiffResult{HasChanges: len(hunks) > 0, Hunks: hunks}
	for _, h := range hunks {
		for _, l := range h.Lines {
			switch l.Type {
			case LineTypeAdded:
				result.Stats.LinesAdded++
			case LineTypeRemoved:
				result.Stats.LinesRemoved++
			}
		}
	}

	return result
}

// ProgramDiff renders both programs and returns the unified diff, or ""
// when they print identically.
func ProgramDiff(name string, before, after *program.Program, options DiffOptions) string {
	result := Diff(Program(before), Program(after), options)
	return result.Unified(name, options)
}

// Unified formats the result as a unified diff.
func (r *DiffResult) Unified(name string, options DiffOptions) string {
	if !r.HasChanges {
		return ""
	}

	var output strings.Builder

	output.WriteString(fmt.Sprintf("--- %s\t(before)\n", name))
	output.WriteString(fmt.Sprintf("+++ %s\t(after)\n", name))

	for _, hunk := range r.Hunks {
		output.WriteString(hunk.Header + "\n")

		for _, line := range hunk.Lines {
			prefix := " "
			switch line.Type {
			case LineTypeAdded:
				prefix = "+"
			case LineTypeRemoved:
				prefix = "-"
			}

			if options.ShowNumbers {
				output.WriteString(fmt.Sprintf("%s%4d: %s\n", prefix, line.Number, line.Content))
			} else {
				output.WriteString(prefix + line.Content + "\n")
			}
		}
	}

	return output.String()
}

func splitLines(text string) []string {
	var lines []string

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	return lines
}

// computeEdits derives a shortest edit script from the longest common
// subsequence of a and b.
func computeEdits(a, b []string) []edit {
	n, m := len(a), len(b)

	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	var edits []edit

	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			edits = append(edits, edit{LineTypeContext, i, j})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			edits = append(edits, edit{LineTypeRemoved, i, j})
			i++
		default:
			edits = append(edits, edit{LineTypeAdded, i, j})
			j++
		}
	}
	for ; i < n; i++ {
		edits = append(edits, edit{LineTypeRemoved, i, j})
	}
	for ; j < m; j++ {
		edits = append(edits, edit{LineTypeAdded, i, j})
	}

	return edits
}

// buildHunks merges changes separated by at most 2*context unchanged
// lines into one hunk.
func buildHunks(edits []edit, a, b []string, context int) []Hunk {
	var changed []int
	for k, e := range edits {
		if e.kind != LineTypeContext {
			changed = append(changed, k)
		}
	}

	var hunks []Hunk

	for c := 0; c < len(changed); {
		first, last := changed[c], changed[c]
		c++
		for c < len(changed) && changed[c]-last-1 <= 2*context {
			last = changed[c]
			c++
		}

		start := max(0, first-context)
		end := min(len(edits), last+context+1)

		h := Hunk{
			OriginalStart: edits[start].orig + 1,
			ModifiedStart: edits[start].mod + 1,
		}

		for _, e := range edits[start:end] {
			switch e.kind {
			case LineTypeContext:
				h.Lines = append(h.Lines, Line{Type: e.kind, Number: e.orig + 1, Content: a[e.orig]})
				h.OriginalCount++
				h.ModifiedCount++
			case LineTypeRemoved:
				h.Lines = append(h.Lines, Line{Type: e.kind, Number: e.orig + 1, Content: a[e.orig]})
				h.OriginalCount++
			case LineTypeAdded:
				h.Lines = append(h.Lines, Line{Type: e.kind, Number: e.mod + 1, Content: b[e.mod]})
				h.ModifiedCount++
			}
		}

		h.Header = fmt.Sprintf("@@ -%d,%d +%d,%d @@",
			h.OriginalStart, h.OriginalCount, h.ModifiedStart, h.ModifiedCount)

		hunks = append(hunks, h)
	}

	return hunks
}
