// Package rewrite applies textual edits to source files by byte offset.
// Edits accumulate in a log and are spliced in one pass, so the rest of the
// compiler can plan changes against original offsets without tracking how
// earlier edits shift the text.
package rewrite

import (
	"bytes"
	"fmt"
	"sort"
)

// Edit replaces the byte range [Start, End) with Text. Start == End inserts.
type Edit struct {
	Start int
	End   int
	Text  string
}

// Log collects edits against a single source buffer.
type Log struct {
	edits []Edit
}

// Replace records the replacement of [start, end) with text.
func (l *Log) Replace(start, end int, text string) {
	l.edits = append(l.edits, Edit{Start: start, End: end, Text: text})
}

// Insert records an insertion of text at offset.
func (l *Log) Insert(offset int, text string) {
	l.edits = append(l.edits, Edit{Start: offset, End: offset, Text: text})
}

// Empty reports whether the log holds no edits.
func (l *Log) Empty() bool { return len(l.edits) == 0 }

// Apply splices all recorded edits into src and returns the result. Edits
// must not overlap; an overlap means two transformations disagree about the
// same text and continuing would corrupt the output, so it is an error, not
// a merge. Insertions at the same offset keep their recording order.
func (l *Log) Apply(src []byte) ([]byte, error) {
	edits := append([]Edit(nil), l.edits...)
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Start != edits[j].Start {
			return edits[i].Start < edits[j].Start
		}
		return edits[i].End < edits[j].End
	})

	for i, e := range edits {
		if e.Start < 0 || e.End < e.Start || e.End > len(src) {
			return nil, fmt.Errorf("edit [%d, %d) out of range for %d-byte source", e.Start, e.End, len(src))
		}
		if i > 0 && edits[i-1].End > e.Start {
			prev := edits[i-1]
			return nil, fmt.Errorf("conflicting edits: [%d, %d) overlaps [%d, %d)",
				prev.Start, prev.End, e.Start, e.End)
		}
	}

	var out bytes.Buffer
	last := 0
	for _, e := range edits {
		out.Write(src[last:e.Start])
		out.WriteString(e.Text)
		last = e.End
	}
	out.Write(src[last:])
	return out.Bytes(), nil
}
