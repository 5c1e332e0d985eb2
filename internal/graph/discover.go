package graph

import (
	"fmt"
	"go/ast"
	"go/types"
	"sort"

	"golang.org/x/tools/go/packages"

	"github.com/lutherstrike/tapa/internal/diag"
	"github.com/lutherstrike/tapa/internal/frontend"
)

// Discover walks the loaded program, finds the designated top task and every
// task reachable from it, classifies their ports and marks each task as an
// orchestrator or a leaf. Functions that are neither the top nor reachable
// from it are not tasks and are left untouched by later stages.
func Discover(prog *frontend.Program, topName string, reporter *diag.Reporter) (*Model, error) {
	decls := indexFuncDecls(prog)
	top, ok := decls[topName]
	if !ok {
		return nil, fmt.Errorf("top-level task %q not found in the program", topName)
	}

	m := &Model{Tasks: make(map[string]*Task)}

	queue := []funcDecl{top}
	seen := map[string]bool{topName: true}
	for len(queue) > 0 {
		fd := queue[0]
		queue = queue[1:]

		task, err := newTask(fd, reporter)
		if err != nil {
			return nil, err
		}
		if err := m.addTask(task); err != nil {
			return nil, err
		}
		if m.Top == nil {
			m.Top = task
		}

		if !task.IsUpper {
			continue
		}
		for _, target := range invocationTargets(fd.pkg.TypesInfo, fd.decl.Body) {
			if seen[target] {
				continue
			}
			child, ok := decls[target]
			if !ok {
				// The builder reports unresolved targets with a proper
				// source anchor; discovery just skips them.
				continue
			}
			seen[target] = true
			queue = append(queue, child)
		}
	}

	return m, nil
}

type funcDecl struct {
	decl *ast.FuncDecl
	pkg  *packages.Package
}

// indexFuncDecls collects every top-level function definition of the loaded
// program, excluding the DSL support package itself.
func indexFuncDecls(prog *frontend.Program) map[string]funcDecl {
	decls := make(map[string]funcDecl)
	for _, unit := range prog.Units() {
		if unit.Pkg.PkgPath == tapaPkgPath {
			continue
		}
		for _, d := range unit.File.Decls {
			fn, ok := d.(*ast.FuncDecl)
			if !ok || fn.Recv != nil || fn.Body == nil {
				continue
			}
			if _, dup := decls[fn.Name.Name]; dup {
				continue
			}
			decls[fn.Name.Name] = funcDecl{decl: fn, pkg: unit.Pkg}
		}
	}
	return decls
}

func newTask(fd funcDecl, reporter *diag.Reporter) (*Task, error) {
	task := &Task{
		Name:      fd.decl.Name.Name,
		Decl:      fd.decl,
		Pkg:       fd.pkg,
		Fifos:     make(map[string]*Fifo),
		Instances: make(map[string][]*Instance),
	}

	info := fd.pkg.TypesInfo
	if fd.decl.Type.Params != nil {
		for _, field := range fd.decl.Type.Params.List {
			t := info.TypeOf(field.Type)
			for _, name := range field.Names {
				port, err := ClassifyPort(name.Name, t)
				if err != nil {
					reporter.Error(field.Pos(), "parameter %s of task %s: %v", name.Name, task.Name, err)
					return nil, fmt.Errorf("port classification failed for task %s", task.Name)
				}
				task.Ports = append(task.Ports, port)
			}
		}
	}

	task.Marker = findMarker(info, fd.decl.Body)
	task.IsUpper = task.Marker != nil
	return task, nil
}

// findMarker locates the orchestrator marker, a call to tapa.Task, anywhere
// in the body except inside nested function literals.
func findMarker(info *types.Info, body *ast.BlockStmt) *ast.CallExpr {
	var marker *ast.CallExpr
	ast.Inspect(body, func(n ast.Node) bool {
		if marker != nil {
			return false
		}
		if _, ok := n.(*ast.FuncLit); ok {
			return false
		}
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		if obj := frontend.CalleeObject(info, call); isTapaObject(obj, "Task") {
			marker = call
			return false
		}
		return true
	})
	return marker
}

// collectInvokes returns every Invoke/InvokeVec call in the body in source
// order, skipping nested function literals. Chained invocations nest in the
// AST, so ordering goes by the call's left parenthesis.
func collectInvokes(info *types.Info, body *ast.BlockStmt) []*ast.CallExpr {
	var calls []*ast.CallExpr
	ast.Inspect(body, func(n ast.Node) bool {
		if _, ok := n.(*ast.FuncLit); ok {
			return false
		}
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		if isInvokeCall(info, call) {
			calls = append(calls, call)
		}
		return true
	})
	sort.Slice(calls, func(i, j int) bool { return calls[i].Lparen < calls[j].Lparen })
	return calls
}

// invocationTargets extracts the referenced task names from the body's
// invocation statements, for reachability only; full argument resolution
// happens in the builder.
func invocationTargets(info *types.Info, body *ast.BlockStmt) []string {
	var targets []string
	for _, call := range collectInvokes(info, body) {
		pos := targetArgIndex(call)
		if pos >= len(call.Args) {
			continue
		}
		obj := frontend.RefObject(info, call.Args[pos])
		if fn, ok := obj.(*types.Func); ok {
			targets = append(targets, fn.Name())
		}
	}
	return targets
}

// isInvokeCall reports whether call is a Builder.Invoke or Builder.InvokeVec
// method call of the DSL package.
func isInvokeCall(info *types.Info, call *ast.CallExpr) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	name := sel.Sel.Name
	if name != "Invoke" && name != "InvokeVec" {
		return false
	}
	fn, ok := info.ObjectOf(sel.Sel).(*types.Func)
	if !ok || fn.Pkg() == nil {
		return false
	}
	return fn.Pkg().Path() == tapaPkgPath
}

func isVecInvoke(call *ast.CallExpr) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	return ok && sel.Sel.Name == "InvokeVec"
}

// targetArgIndex is the position of the invocation target: Invoke(step,
// target, ...) or InvokeVec(step, n, target, ...).
func targetArgIndex(call *ast.CallExpr) int {
	if isVecInvoke(call) {
		return 2
	}
	return 1
}

func isTapaObject(obj types.Object, name string) bool {
	return obj != nil && obj.Pkg() != nil &&
		obj.Pkg().Path() == tapaPkgPath && obj.Name() == name
}
