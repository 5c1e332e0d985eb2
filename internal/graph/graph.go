package graph

import (
	"fmt"
	"go/ast"
	"go/token"

	"golang.org/x/tools/go/packages"
)

// Step values mirror the DSL constants: Join waits for completion, Detach
// runs without a completion dependency, non-negative values are explicit
// ordering buckets.
const (
	StepJoin   = 0
	StepDetach = -1
)

// Task is one function participating in the dataflow hierarchy. Discovered
// once, immutable afterwards except for body replacement during synthesis.
type Task struct {
	Name  string
	Decl  *ast.FuncDecl
	Pkg   *packages.Package
	Ports []Port

	// IsUpper marks an orchestrator; its body holds the marker statement
	// and the invocation statements that wire sub-tasks together.
	IsUpper bool
	Marker  *ast.CallExpr

	// Graph state of an orchestrator, filled by the builder.
	Fifos     map[string]*Fifo
	fifoOrder []string
	Instances map[string][]*Instance
	taskOrder []string
}

// Port returns the named port, or nil.
func (t *Task) Port(name string) *Port {
	for i := range t.Ports {
		if t.Ports[i].Name == name {
			return &t.Ports[i]
		}
	}
	return nil
}

// FifoNames returns the channel names in declaration/registration order.
func (t *Task) FifoNames() []string { return t.fifoOrder }

// InstanceTaskNames returns the invoked task names in first-invocation order.
func (t *Task) InstanceTaskNames() []string { return t.taskOrder }

func (t *Task) ensureFifo(name string) *Fifo {
	if f, ok := t.Fifos[name]; ok {
		return f
	}
	f := &Fifo{Name: name, Depth: -1}
	t.Fifos[name] = f
	t.fifoOrder = append(t.fifoOrder, name)
	return f
}

func (t *Task) removeFifo(name string) {
	delete(t.Fifos, name)
	for i, n := range t.fifoOrder {
		if n == name {
			t.fifoOrder = append(t.fifoOrder[:i], t.fifoOrder[i+1:]...)
			break
		}
	}
}

func (t *Task) appendInstance(taskName string, inst *Instance) int {
	if _, ok := t.Instances[taskName]; !ok {
		t.taskOrder = append(t.taskOrder, taskName)
	}
	t.Instances[taskName] = append(t.Instances[taskName], inst)
	return len(t.Instances[taskName]) - 1
}

// Instance is one instantiation of a task inside an orchestrator. Its index
// within the task's instance list anchors producer/consumer identity.
type Instance struct {
	Step int
	Name string
	Args []InstArg
}

// InstArg binds one formal port of the instance to an argument.
type InstArg struct {
	Port string
	Cat  string
	Arg  string
}

func (inst *Instance) bind(port, cat, arg string) {
	inst.Args = append(inst.Args, InstArg{Port: port, Cat: cat, Arg: arg})
}

// Fifo is a named channel declared in an orchestrator body. Depth is -1 for
// channels that were referenced but never declared.
type Fifo struct {
	Name     string
	Depth    int64
	Declared bool
	DeclPos  token.Pos
	Produced *Endpoint
	Consumed *Endpoint
}

// Endpoint identifies the task instance and slot on one side of a channel.
type Endpoint struct {
	Task  string
	Index int
}

// Model is the discovered task hierarchy rooted at the designated entry
// point.
type Model struct {
	Top   *Task
	Tasks map[string]*Task
	order []string
}

// TaskNames returns all task names in discovery order.
func (m *Model) TaskNames() []string { return m.order }

// UpperTasks returns orchestrators in discovery order.
func (m *Model) UpperTasks() []*Task {
	var uppers []*Task
	for _, name := range m.order {
		if t := m.Tasks[name]; t != nil && t.IsUpper {
			uppers = append(uppers, t)
		}
	}
	return uppers
}

func (m *Model) addTask(t *Task) error {
	if _, ok := m.Tasks[t.Name]; ok {
		return fmt.Errorf("task %q defined more than once", t.Name)
	}
	m.Tasks[t.Name] = t
	m.order = append(m.order, t.Name)
	return nil
}
