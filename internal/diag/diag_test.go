package diag

import (
	"bytes"
	"encoding/json"
	"go/token"
	"strings"
	"testing"
)

func TestTextRendering(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, "text")

	fset := token.NewFileSet()
	file := fset.AddFile("main.go", -1, 100)
	pos := file.Pos(10)
	file.SetLines([]int{0, 50})
	r.SetFileSet(fset)

	r.Error(pos, "channel '%s' produced more than once", "s")
	out := buf.String()
	if !strings.Contains(out, "main.go") {
		t.Errorf("missing position in %q", out)
	}
	if !strings.Contains(out, "error") {
		t.Errorf("missing severity in %q", out)
	}
	if !strings.Contains(out, "channel 's' produced more than once") {
		t.Errorf("missing message in %q", out)
	}
}

func TestTextRenderingWithoutPosition(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, "text")
	r.Errorf("package loading failed")
	if !strings.Contains(buf.String(), "package loading failed") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestJSONRendering(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, "json")
	r.Warning(token.NoPos, "unused channel: %s", "s")

	var payload struct {
		Severity string `json:"severity"`
		Message  string `json:"message"`
	}
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if payload.Severity != "warning" || payload.Message != "unused channel: s" {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestHasErrorsCountsOnlyErrors(t *testing.T) {
	r := NewReporter(nil, "text")
	r.Warning(token.NoPos, "w")
	r.Remark(token.NoPos, "r")
	if r.HasErrors() {
		t.Fatalf("warnings and remarks should not count as errors")
	}
	r.Errorf("e")
	if !r.HasErrors() {
		t.Fatalf("error not counted")
	}
	if len(r.Diagnostics()) != 3 {
		t.Fatalf("expected 3 recorded diagnostics, got %d", len(r.Diagnostics()))
	}
}
