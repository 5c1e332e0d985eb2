// Package codegen turns the validated task model back into source text: one
// rewritten translation unit per task carrying interface directives, plus a
// host-side dispatch file for the top task.
package codegen

import (
	"fmt"

	"github.com/lutherstrike/tapa/internal/graph"
)

// directivePrefix marks a line consumed by the downstream hardware toolchain.
// The prefix follows the compiler-directive comment convention, so ordinary
// tooling treats the lines as comments.
const directivePrefix = "//go:hls "

func directive(format string, args ...any) string {
	return directivePrefix + fmt.Sprintf(format, args...)
}

// asyncSubSignals are the five handshake channels an asynchronous buffer port
// decomposes into.
var asyncSubSignals = [5]string{
	"read_addr", "read_data", "read_peek", "write_addr", "write_data",
}

// LeafDirectives renders the interface directives of a lower-level task.
// Buffer ports bind directly to the memory interconnect and streams decompose
// into their handshake signals; scalars need no directive at this level.
func LeafDirectives(task *graph.Task) []string {
	var lines []string
	for _, p := range task.Ports {
		switch p.Cat.Elem() {
		case graph.IStream, graph.OStream:
			lines = append(lines, streamDirectives(p)...)
		case graph.MMap:
			for _, name := range flattenedNames(p) {
				lines = append(lines, directive(
					"interface m_axi port = %s offset = direct bundle = %s", name, name))
			}
		case graph.AsyncMMap:
			for _, name := range elementNames(p) {
				lines = append(lines, asyncMMapDirectives(name)...)
			}
		}
	}
	return lines
}

// UpperDirectives renders the interface directives of an orchestrator. The
// top task exposes its scalars and buffer addresses over the control bus;
// internal orchestrators register them across the module boundary instead.
func UpperDirectives(task *graph.Task, isTop bool) []string {
	var lines []string
	for _, p := range task.Ports {
		switch p.Cat.Elem() {
		case graph.IStream, graph.OStream:
			lines = append(lines, streamDirectives(p)...)
		case graph.MMap, graph.AsyncMMap, graph.Scalar:
			for _, name := range flattenedNames(p) {
				if isTop {
					lines = append(lines, directive(
						"interface s_axilite port = %s bundle = control", name))
				} else {
					lines = append(lines, directive(
						"interface ap_none port = %s register", name))
				}
			}
		}
	}
	if isTop {
		lines = append(lines, directive("interface s_axilite port = return bundle = control"))
	}
	return lines
}

func streamDirectives(p graph.Port) []string {
	var lines []string
	if p.Cat.IsArray() {
		lines = append(lines, directive("array_partition variable = %s complete", p.Name))
	}
	for _, name := range elementNames(p) {
		lines = append(lines, directive("disaggregate variable = %s", name))
		signals := []string{name + ".fifo"}
		if p.Cat.Elem() == graph.IStream {
			signals = append(signals, name+".peek")
		}
		for _, sig := range signals {
			lines = append(lines,
				directive("interface ap_fifo port = %s", sig),
				directive("aggregate variable = %s bit", sig))
		}
	}
	return lines
}

func asyncMMapDirectives(name string) []string {
	lines := []string{directive("disaggregate variable = %s", name)}
	for _, sub := range asyncSubSignals {
		sig := name + "." + sub
		lines = append(lines,
			directive("interface ap_fifo port = %s", sig),
			directive("aggregate variable = %s bit", sig))
	}
	return lines
}

// elementNames expands an array port into its indexed element names; a
// singular port is its own single element.
func elementNames(p graph.Port) []string {
	if !p.Cat.IsArray() {
		return []string{p.Name}
	}
	names := make([]string, 0, p.Arity)
	for i := int64(0); i < p.Arity; i++ {
		names = append(names, fmt.Sprintf("%s[%d]", p.Name, i))
	}
	return names
}

// flattenedNames expands an array port into flat identifiers, the shape the
// rewritten top-level signature uses for generated base-address parameters.
func flattenedNames(p graph.Port) []string {
	if !p.Cat.IsArray() {
		return []string{p.Name}
	}
	names := make([]string, 0, p.Arity)
	for i := int64(0); i < p.Arity; i++ {
		names = append(names, fmt.Sprintf("%s_%d", p.Name, i))
	}
	return names
}
