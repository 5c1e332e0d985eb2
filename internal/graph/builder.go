package graph

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/lutherstrike/tapa/internal/diag"
	"github.com/lutherstrike/tapa/internal/frontend"
)

// Build fills in the channel tables and instance lists of every orchestrator
// in the model. Channel endpoints are registered as invocations are walked in
// source order; the first registration of each endpoint wins and later
// conflicting ones are reported as errors. Diagnostics accumulate on the
// reporter without aborting the walk, so one pass surfaces as many issues as
// possible.
func Build(prog *frontend.Program, m *Model, reporter *diag.Reporter) {
	for _, name := range m.TaskNames() {
		task := m.Tasks[name]
		if !task.IsUpper {
			continue
		}
		b := &builder{
			model:    m,
			reporter: reporter,
			task:     task,
			info:     task.Pkg.TypesInfo,
			lengths:  make(map[types.Object]int64),
		}
		b.run()
	}
}

type builder struct {
	model    *Model
	reporter *diag.Reporter
	task     *Task
	info     *types.Info

	// lengths maps channel-group and plural-port objects to their element
	// counts, for wrap-around indexing of vector invocations.
	lengths map[types.Object]int64
}

func (b *builder) run() {
	b.scanPorts()
	b.scanFifoDecls()
	for _, call := range collectInvokes(b.info, b.task.Decl.Body) {
		b.processInvoke(call)
	}
}

// scanPorts records the element counts of the orchestrator's own array
// ports, stream and buffer alike, so forwarded arrays index the same way
// local channel groups do.
func (b *builder) scanPorts() {
	params := b.task.Decl.Type.Params
	if params == nil {
		return
	}
	for _, field := range params.List {
		for _, ident := range field.Names {
			port := b.task.Port(ident.Name)
			if port == nil || !port.Cat.IsArray() {
				continue
			}
			if obj := b.info.ObjectOf(ident); obj != nil {
				b.lengths[obj] = port.Arity
			}
		}
	}
}

// scanFifoDecls walks the direct statements of the orchestrator body and
// records every channel declaration. Declarations nested inside blocks or
// function literals do not participate in the dataflow graph.
func (b *builder) scanFifoDecls() {
	for _, stmt := range b.task.Decl.Body.List {
		switch s := stmt.(type) {
		case *ast.AssignStmt:
			if s.Tok != token.DEFINE || len(s.Lhs) != 1 || len(s.Rhs) != 1 {
				continue
			}
			ident, ok := s.Lhs[0].(*ast.Ident)
			if !ok {
				continue
			}
			b.recordFifoDecl(ident, s.Rhs[0])
		case *ast.DeclStmt:
			gen, ok := s.Decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.VAR {
				continue
			}
			for _, spec := range gen.Specs {
				vs, ok := spec.(*ast.ValueSpec)
				if !ok || len(vs.Names) != 1 || len(vs.Values) != 1 {
					continue
				}
				b.recordFifoDecl(vs.Names[0], vs.Values[0])
			}
		}
	}
}

func (b *builder) recordFifoDecl(ident *ast.Ident, value ast.Expr) {
	call, ok := astutil.Unparen(value).(*ast.CallExpr)
	if !ok {
		return
	}
	callee := frontend.CalleeObject(b.info, call)
	switch {
	case isTapaObject(callee, "NewStream"):
		if len(call.Args) != 1 {
			return
		}
		depth, ok := frontend.ConstInt(b.info, call.Args[0])
		if !ok {
			b.reporter.Error(call.Args[0].Pos(),
				"channel depth must be a compile-time integer constant")
			return
		}
		f := b.task.ensureFifo(ident.Name)
		f.Declared = true
		f.Depth = depth
		f.DeclPos = ident.Pos()
	case isTapaObject(callee, "NewStreams"):
		if len(call.Args) != 2 {
			return
		}
		n, ok := frontend.ConstInt(b.info, call.Args[0])
		if !ok || n <= 0 {
			b.reporter.Error(call.Args[0].Pos(),
				"channel count must be a positive compile-time integer constant")
			return
		}
		depth, ok := frontend.ConstInt(b.info, call.Args[1])
		if !ok {
			b.reporter.Error(call.Args[1].Pos(),
				"channel depth must be a compile-time integer constant")
			return
		}
		for i := int64(0); i < n; i++ {
			f := b.task.ensureFifo(fmt.Sprintf("%s[%d]", ident.Name, i))
			f.Declared = true
			f.Depth = depth
			f.DeclPos = ident.Pos()
		}
		if obj := b.info.ObjectOf(ident); obj != nil {
			b.lengths[obj] = n
		}
	}
}

func (b *builder) processInvoke(call *ast.CallExpr) {
	step, ok := b.resolveStep(call.Args[0])
	if !ok {
		return
	}

	n := int64(1)
	if isVecInvoke(call) {
		n, ok = frontend.ConstInt(b.info, call.Args[1])
		if !ok || n <= 0 {
			b.reporter.Error(call.Args[1].Pos(),
				"invocation count must be a positive compile-time integer constant")
			return
		}
	}

	pos := targetArgIndex(call)
	if pos >= len(call.Args) {
		b.reporter.Error(call.Rparen, "invocation is missing its target task")
		return
	}
	targetExpr := call.Args[pos]
	child := b.resolveTarget(targetExpr)
	if child == nil {
		return
	}

	portArgs := call.Args[pos+1:]
	instName := ""
	if len(portArgs) == len(child.Ports)+1 {
		if s, ok := frontend.ConstString(b.info, portArgs[0]); ok {
			instName = s
			portArgs = portArgs[1:]
		}
	}
	if len(portArgs) != len(child.Ports) {
		b.reporter.Error(targetExpr.Pos(),
			"task %s expects %d arguments, got %d",
			child.Name, len(child.Ports), len(portArgs))
		return
	}

	for iVec := int64(0); iVec < n; iVec++ {
		inst := &Instance{Step: step, Name: instName}
		index := b.task.appendInstance(child.Name, inst)
		ep := Endpoint{Task: child.Name, Index: index}
		for j, arg := range portArgs {
			b.bindArg(iVec, inst, ep, child.Ports[j], arg)
		}
	}
}

func (b *builder) resolveStep(expr ast.Expr) (int, bool) {
	v, ok := frontend.ConstInt(b.info, expr)
	if !ok {
		b.reporter.Error(expr.Pos(),
			"fail to evaluate the step as an integer at compile time")
		return 0, false
	}
	return int(v), true
}

func (b *builder) resolveTarget(expr ast.Expr) *Task {
	obj := frontend.RefObject(b.info, expr)
	fn, ok := obj.(*types.Func)
	if !ok {
		b.reporter.Error(expr.Pos(), "unexpected invocation: %s", types.ExprString(expr))
		return nil
	}
	child, ok := b.model.Tasks[fn.Name()]
	if !ok {
		b.reporter.Error(expr.Pos(), "unexpected invocation: %s", fn.Name())
		return nil
	}
	return child
}

// bindArg resolves one invocation argument against the formal port of the
// invoked task, records the binding on the instance and registers channel
// endpoints on the orchestrator.
func (b *builder) bindArg(iVec int64, inst *Instance, ep Endpoint, port Port, arg ast.Expr) {
	cat := port.Cat.MetaName()
	switch port.Cat {
	case IStream, OStream:
		name, ok := b.elementArgName(iVec, arg)
		if !ok {
			return
		}
		inst.bind(port.Name, cat, name)
		b.registerEndpoint(port.Cat, name, arg.Pos(), ep)

	case IStreams, OStreams:
		base, length, ok := b.streamArrayRef(arg)
		if !ok {
			if port.Arity == 1 {
				// A single channel satisfies a one-element array port.
				name, ok := b.elementArgName(iVec, arg)
				if !ok {
					return
				}
				inst.bind(fmt.Sprintf("%s[0]", port.Name), cat, name)
				b.registerEndpoint(port.Cat, name, arg.Pos(), ep)
				return
			}
			b.reporter.Error(arg.Pos(), "unexpected argument: %s", types.ExprString(arg))
			return
		}
		if port.Arity > length {
			b.reporter.Error(arg.Pos(),
				"array argument %s has %d channels but port %s needs %d",
				base, length, port.Name, port.Arity)
			return
		}
		for k := int64(0); k < port.Arity; k++ {
			name := fmt.Sprintf("%s[%d]", base, k)
			inst.bind(fmt.Sprintf("%s[%d]", port.Name, k), cat, name)
			b.registerEndpoint(port.Cat, name, arg.Pos(), ep)
		}

	case MMap, AsyncMMap:
		name, ok := b.elementArgName(iVec, arg)
		if !ok {
			return
		}
		inst.bind(port.Name, cat, name)

	case MMaps, AsyncMMaps:
		if obj := frontend.RefObject(b.info, arg); obj != nil {
			inst.bind(port.Name, cat, obj.Name())
			return
		}
		b.reporter.Error(arg.Pos(), "unexpected argument: %s", types.ExprString(arg))

	case Scalar:
		if b.isSeqArg(arg) {
			inst.bind(port.Name, cat, fmt.Sprintf("64'd%d", iVec))
			return
		}
		if v, ok := frontend.ConstInt(b.info, arg); ok {
			inst.bind(port.Name, cat, fmt.Sprintf("64'd%d", v))
			return
		}
		if obj := frontend.RefObject(b.info, arg); obj != nil {
			inst.bind(port.Name, cat, obj.Name())
			return
		}
		b.reporter.Error(arg.Pos(), "unexpected argument: %s", types.ExprString(arg))
	}
}

// elementArgName resolves the argument of a singular stream or buffer port
// to a named entity. Referencing a channel group or plural buffer port
// without an index selects the element at the vector index modulo the array
// length, reported as a remark.
func (b *builder) elementArgName(iVec int64, arg ast.Expr) (string, bool) {
	if obj, i, ok := frontend.IndexRef(b.info, arg); ok {
		return fmt.Sprintf("%s[%d]", obj.Name(), i), true
	}
	obj := frontend.RefObject(b.info, arg)
	if obj == nil {
		b.reporter.Error(arg.Pos(), "unexpected argument: %s", types.ExprString(arg))
		return "", false
	}
	if length, ok := b.lengths[obj]; ok {
		idx := iVec % length
		if iVec >= length {
			b.reporter.Remark(arg.Pos(), "invocation #%d accesses '%s[%d]'", iVec, obj.Name(), idx)
		}
		return fmt.Sprintf("%s[%d]", obj.Name(), idx), true
	}
	return obj.Name(), true
}

// streamArrayRef resolves an argument referring to a whole channel group or a
// plural stream port of the orchestrator.
func (b *builder) streamArrayRef(arg ast.Expr) (string, int64, bool) {
	obj := frontend.RefObject(b.info, arg)
	if obj == nil {
		return "", 0, false
	}
	length, ok := b.lengths[obj]
	if !ok {
		return "", 0, false
	}
	return obj.Name(), length, true
}

func (b *builder) isSeqArg(arg ast.Expr) bool {
	call, ok := astutil.Unparen(arg).(*ast.CallExpr)
	if !ok {
		return false
	}
	return isTapaObject(frontend.CalleeObject(b.info, call), "Seq")
}

func (b *builder) registerEndpoint(cat Cat, name string, pos token.Pos, ep Endpoint) {
	switch cat.Elem() {
	case IStream:
		b.registerConsumer(name, pos, ep)
	case OStream:
		b.registerProducer(name, pos, ep)
	}
}

func (b *builder) registerConsumer(name string, pos token.Pos, ep Endpoint) {
	f := b.task.ensureFifo(name)
	if f.Consumed != nil {
		b.reporter.Error(pos, "channel '%s' consumed more than once", name)
		return
	}
	f.Consumed = &Endpoint{Task: ep.Task, Index: ep.Index}
}

func (b *builder) registerProducer(name string, pos token.Pos, ep Endpoint) {
	f := b.task.ensureFifo(name)
	if f.Produced != nil {
		b.reporter.Error(pos, "channel '%s' produced more than once", name)
		return
	}
	f.Produced = &Endpoint{Task: ep.Task, Index: ep.Index}
}
