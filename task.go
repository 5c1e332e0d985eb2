package tapa

import (
	"fmt"
	"reflect"
	"runtime"
	"sync"
)

// Step is the scheduling discipline of an invocation: Join waits for
// completion before the enclosing orchestrator completes, Detach runs the
// instance without a completion dependency, and any non-negative value is an
// explicit ordering bucket among sibling invocations.
type Step int

const (
	Join   Step = 0
	Detach Step = -1
)

type seqMarker struct{}

// Seq marks an argument of a vectorized invocation that binds to the
// per-instance ordinal (0..n-1) instead of a named entity.
func Seq() seqMarker { return seqMarker{} }

// Builder collects the task instances of an orchestrator. tapacc treats a
// call to Task as the orchestrator marker and walks the Invoke/InvokeVec
// statements to build the instance graph; at software-simulation time the
// same calls record pending instances executed by Wait.
type Builder struct {
	pending  []pendingInvoke
	detached sync.WaitGroup
}

type pendingInvoke struct {
	step Step
	name string
	fn   reflect.Value
	args []any
	n    int
}

// Task starts an orchestrator.
func Task() *Builder { return &Builder{} }

// Invoke instantiates task once. An optional string literal before the port
// arguments names the instance.
func (b *Builder) Invoke(step Step, task any, args ...any) *Builder {
	return b.InvokeVec(step, 1, task, args...)
}

// InvokeVec instantiates task n times concurrently from a single statement.
// Array-typed stream arguments are indexed per instance with wrap-around;
// Seq() arguments receive the instance ordinal.
func (b *Builder) InvokeVec(step Step, n int, task any, args ...any) *Builder {
	fn := reflect.ValueOf(task)
	if fn.Kind() != reflect.Func {
		panic(fmt.Sprintf("tapa: invocation target %T is not a function", task))
	}
	if n < 1 {
		panic(fmt.Sprintf("tapa: vector length must be >= 1, got %d", n))
	}
	name := ""
	if len(args) > 0 {
		if s, ok := args[0].(string); ok {
			name = s
			args = args[1:]
		}
	}
	if len(args) != fn.Type().NumIn() {
		panic(fmt.Sprintf("tapa: %s expects %d arguments, got %d",
			runtimeFuncName(fn), fn.Type().NumIn(), len(args)))
	}
	b.pending = append(b.pending, pendingInvoke{step: step, name: name, fn: fn, args: args, n: n})
	return b
}

// Wait runs the recorded instances. Detached instances are started first and
// never waited for; the remaining instances run bucket by bucket in ascending
// step order, each bucket fully completing before the next starts.
func (b *Builder) Wait() {
	steps := make(map[Step][]pendingInvoke)
	var order []Step
	for _, p := range b.pending {
		if p.step == Detach {
			b.start(p, nil)
			continue
		}
		if _, seen := steps[p.step]; !seen {
			order = append(order, p.step)
		}
		steps[p.step] = append(steps[p.step], p)
	}
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && order[j] < order[j-1]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	for _, step := range order {
		var wg sync.WaitGroup
		for _, p := range steps[step] {
			b.start(p, &wg)
		}
		wg.Wait()
	}
	b.pending = nil
}

func (b *Builder) start(p pendingInvoke, wg *sync.WaitGroup) {
	for i := 0; i < p.n; i++ {
		in := bindArgs(p.fn, p.args, i)
		if wg != nil {
			wg.Add(1)
		}
		go func() {
			if wg != nil {
				defer wg.Done()
			}
			p.fn.Call(in)
		}()
	}
}

// bindArgs resolves the call arguments for vector instance iVec, applying
// the same binding rules tapacc records in the graph: Seq becomes the
// ordinal, array arguments feeding a singular port are indexed at
// iVec mod len, and array ports take their elements positionally.
func bindArgs(fn reflect.Value, args []any, iVec int) []reflect.Value {
	t := fn.Type()
	in := make([]reflect.Value, len(args))
	for j, arg := range args {
		formal := t.In(j)
		if _, ok := arg.(seqMarker); ok {
			in[j] = reflect.ValueOf(iVec).Convert(formal)
			continue
		}
		av := reflect.ValueOf(arg)
		in[j] = bindOne(fn, j, formal, av, iVec)
	}
	return in
}

func bindOne(fn reflect.Value, j int, formal reflect.Type, av reflect.Value, iVec int) reflect.Value {
	if av.Type() == formal {
		return av
	}
	isArrayArg := av.Kind() == reflect.Slice || av.Kind() == reflect.Array
	if formal.Kind() == reflect.Array {
		out := reflect.New(formal).Elem()
		if isArrayArg {
			l := av.Len()
			for k := 0; k < formal.Len(); k++ {
				out.Index(k).Set(convertArg(fn, j, av.Index(k%l), formal.Elem()))
			}
		} else if formal.Len() == 1 {
			// A plain stream satisfies a unit-length array port.
			out.Index(0).Set(convertArg(fn, j, av, formal.Elem()))
		} else {
			panic(fmt.Sprintf("tapa: %s argument %d: cannot bind %s to %s",
				runtimeFuncName(fn), j, av.Type(), formal))
		}
		return out
	}
	if isArrayArg && formal.Kind() == reflect.Struct {
		return convertArg(fn, j, av.Index(iVec%av.Len()), formal)
	}
	return convertArg(fn, j, av, formal)
}

func convertArg(fn reflect.Value, j int, av reflect.Value, formal reflect.Type) reflect.Value {
	if av.Type() == formal {
		return av
	}
	if av.Type().ConvertibleTo(formal) {
		return av.Convert(formal)
	}
	panic(fmt.Sprintf("tapa: %s argument %d: cannot convert %s to %s",
		runtimeFuncName(fn), j, av.Type(), formal))
}

func runtimeFuncName(fn reflect.Value) string {
	if f := runtime.FuncForPC(fn.Pointer()); f != nil {
		return f.Name()
	}
	return fn.Type().String()
}
