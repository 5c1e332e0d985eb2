// Package diag accumulates compiler diagnostics and renders them to a sink.
// Reporting never aborts the caller: the pass keeps walking so that one run
// surfaces as many issues as possible, and it is up to the driver to decide
// whether accumulated errors block output emission.
package diag

import (
	"encoding/json"
	"fmt"
	"go/token"
	"io"

	"github.com/fatih/color"
)

// Severity classifies a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
	Remark
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Remark:
		return "remark"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Diagnostic is one recorded issue, anchored to a source range.
type Diagnostic struct {
	Severity Severity
	Pos      token.Pos
	End      token.Pos
	Message  string
}

// Reporter writes diagnostics to w and keeps them for later inspection.
type Reporter struct {
	w        io.Writer
	format   string
	fset     *token.FileSet
	recorded []Diagnostic
	errors   int
}

var severityColors = map[Severity]*color.Color{
	Error:   color.New(color.FgRed, color.Bold),
	Warning: color.New(color.FgYellow, color.Bold),
	Remark:  color.New(color.FgCyan),
}

// NewReporter creates a reporter writing to w in the given format
// ("text" or "json").
func NewReporter(w io.Writer, format string) *Reporter {
	if format != "json" {
		format = "text"
	}
	return &Reporter{w: w, format: format}
}

// SetFileSet installs the file set used to resolve positions.
func (r *Reporter) SetFileSet(fset *token.FileSet) { r.fset = fset }

// Report records a diagnostic and renders it.
func (r *Reporter) Report(d Diagnostic) {
	r.recorded = append(r.recorded, d)
	if d.Severity == Error {
		r.errors++
	}
	if r.w == nil {
		return
	}
	if r.format == "json" {
		r.renderJSON(d)
		return
	}
	r.renderText(d)
}

// Error records an error at pos.
func (r *Reporter) Error(pos token.Pos, format string, args ...any) {
	r.Report(Diagnostic{Severity: Error, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// Warning records a warning at pos.
func (r *Reporter) Warning(pos token.Pos, format string, args ...any) {
	r.Report(Diagnostic{Severity: Warning, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// Remark records an informational remark at pos.
func (r *Reporter) Remark(pos token.Pos, format string, args ...any) {
	r.Report(Diagnostic{Severity: Remark, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// ErrorRange records an error anchored to [pos, end).
func (r *Reporter) ErrorRange(pos, end token.Pos, format string, args ...any) {
	r.Report(Diagnostic{Severity: Error, Pos: pos, End: end, Message: fmt.Sprintf(format, args...)})
}

// Errorf records an error without a source anchor.
func (r *Reporter) Errorf(format string, args ...any) {
	r.Error(token.NoPos, format, args...)
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (r *Reporter) HasErrors() bool { return r.errors > 0 }

// Diagnostics returns every recorded diagnostic in emission order.
func (r *Reporter) Diagnostics() []Diagnostic { return r.recorded }

func (r *Reporter) renderText(d Diagnostic) {
	c, ok := severityColors[d.Severity]
	if !ok {
		c = color.New()
	}
	if loc := r.position(d.Pos); loc != "" {
		fmt.Fprintf(r.w, "%s: %s: %s\n", loc, c.Sprint(d.Severity), d.Message)
		return
	}
	fmt.Fprintf(r.w, "%s: %s\n", c.Sprint(d.Severity), d.Message)
}

func (r *Reporter) renderJSON(d Diagnostic) {
	payload := struct {
		Severity string `json:"severity"`
		Pos      string `json:"pos,omitempty"`
		End      string `json:"end,omitempty"`
		Message  string `json:"message"`
	}{
		Severity: d.Severity.String(),
		Pos:      r.position(d.Pos),
		End:      r.position(d.End),
		Message:  d.Message,
	}
	enc := json.NewEncoder(r.w)
	_ = enc.Encode(payload)
}

func (r *Reporter) position(pos token.Pos) string {
	if r.fset == nil || !pos.IsValid() {
		return ""
	}
	return r.fset.Position(pos).String()
}
