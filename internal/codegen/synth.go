package codegen

import (
	"bytes"
	"fmt"
	"go/token"
	"go/types"
	"strings"

	"github.com/lutherstrike/tapa/internal/frontend"
	"github.com/lutherstrike/tapa/internal/graph"
	"github.com/lutherstrike/tapa/internal/rewrite"
)

// SynthesizedFile is one rewritten translation unit.
type SynthesizedFile struct {
	Task    string
	Source  string
	Content []byte
}

// SynthesizeTask rewrites the translation unit of one task. Other tasks
// defined in the same file are removed, non-task functions pass through
// untouched. Leaf tasks keep their body and gain an interface directive
// block; orchestrator bodies are replaced by a stub of directives and port
// touch statements, since their control flow lives in the generated
// interconnect, not in the function body.
func SynthesizeTask(prog *frontend.Program, m *graph.Model, task *graph.Task) (SynthesizedFile, error) {
	path, src, err := prog.SourceOf(task.Decl.Pos())
	if err != nil {
		return SynthesizedFile{}, err
	}

	offset := func(pos token.Pos) int { return prog.Fset.Position(pos).Offset }

	var log rewrite.Log
	for _, name := range m.TaskNames() {
		other := m.Tasks[name]
		if other == task || prog.Fset.Position(other.Decl.Pos()).Filename != path {
			continue
		}
		start := other.Decl.Pos()
		if other.Decl.Doc != nil {
			start = other.Decl.Doc.Pos()
		}
		log.Replace(offset(start), offset(other.Decl.End()), "")
	}

	body := task.Decl.Body
	if task.IsUpper {
		isTop := m.Top == task
		if isTop {
			log.Insert(offset(task.Decl.Pos()), "//export "+task.Name+"\n")
		}
		rewriteUpperSignature(&log, offset, task)
		log.Replace(offset(body.Lbrace)+1, offset(body.Rbrace), upperStub(task, isTop))
	} else {
		at := offset(body.Lbrace) + 1
		if !hasDirectiveBlock(src, at) {
			log.Insert(at, directiveBlock(LeafDirectives(task)))
		}
	}

	out, err := log.Apply(src)
	if err != nil {
		return SynthesizedFile{}, fmt.Errorf("rewrite %s for task %s: %w", path, task.Name, err)
	}
	return SynthesizedFile{Task: task.Name, Source: path, Content: out}, nil
}

// rewriteUpperSignature turns every memory-mapped parameter of an
// orchestrator into plain uint64 base addresses, one per array element.
// Buffers travel between levels as bus addresses, so the rewrite applies at
// every orchestrator, not just the exported top.
func rewriteUpperSignature(log *rewrite.Log, offset func(token.Pos) int, task *graph.Task) {
	params := task.Decl.Type.Params
	if params == nil {
		return
	}
	for _, field := range params.List {
		var flat []string
		rewriteField := false
		for _, ident := range field.Names {
			port := task.Port(ident.Name)
			if port == nil {
				continue
			}
			if port.Cat.IsMMap() {
				rewriteField = true
			}
			flat = append(flat, flattenedNames(*port)...)
		}
		if !rewriteField {
			continue
		}
		log.Replace(offset(field.Pos()), offset(field.End()),
			strings.Join(flat, ", ")+" uint64")
	}
}

// upperStub renders the replacement body of an orchestrator: the directive
// block followed by one touch statement per port, keeping every interface
// live for the downstream toolchain.
func upperStub(task *graph.Task, isTop bool) string {
	var sb strings.Builder
	sb.WriteString(directiveBlock(UpperDirectives(task, isTop)))
	touches := touchStatements(task)
	if len(touches) > 0 {
		sb.WriteString("\n")
		for _, stmt := range touches {
			sb.WriteString("\t" + stmt + "\n")
		}
	}
	return sb.String()
}

func touchStatements(task *graph.Task) []string {
	var stmts []string
	for _, p := range task.Ports {
		switch p.Cat.Elem() {
		case graph.IStream:
			for _, name := range elementNames(p) {
				stmts = append(stmts, fmt.Sprintf("_ = %s.Read()", name))
			}
		case graph.OStream:
			elem := elemTypeString(task, p)
			for _, name := range elementNames(p) {
				stmts = append(stmts, fmt.Sprintf("%s.Write(*new(%s))", name, elem))
			}
		case graph.MMap, graph.AsyncMMap:
			for _, name := range flattenedNames(p) {
				stmts = append(stmts, "_ = "+name)
			}
		case graph.Scalar:
			stmts = append(stmts, "_ = "+p.Name)
		}
	}
	return stmts
}

func directiveBlock(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n")
	for _, line := range lines {
		sb.WriteString("\t" + line + "\n")
	}
	return sb.String()
}

// hasDirectiveBlock reports whether the body already starts with a directive
// line, which makes re-insertion a no-op instead of a duplicate block.
func hasDirectiveBlock(src []byte, from int) bool {
	rest := bytes.TrimLeft(src[from:], " \t\r\n")
	return bytes.HasPrefix(rest, []byte(strings.TrimSpace(directivePrefix)))
}

func elemTypeString(task *graph.Task, p graph.Port) string {
	if p.Elem == nil {
		return ""
	}
	return types.TypeString(p.Elem, func(other *types.Package) string {
		if other == task.Pkg.Types {
			return ""
		}
		return other.Name()
	})
}
