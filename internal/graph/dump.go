package graph

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a simple human-readable representation of the task hierarchy.
func Dump(m *Model, w io.Writer) {
	if m == nil || m.Top == nil {
		fmt.Fprintln(w, "<nil model>")
		return
	}
	for _, name := range m.TaskNames() {
		task := m.Tasks[name]
		kind := "leaf"
		if task.IsUpper {
			kind = "orchestrator"
		}
		fmt.Fprintf(w, "task %s (%s)\n", task.Name, kind)
		dumpPorts(task, w)
		dumpFifos(task, w)
		dumpInstances(task, w)
		fmt.Fprintln(w)
	}
}

func dumpPorts(task *Task, w io.Writer) {
	if len(task.Ports) == 0 {
		return
	}
	fmt.Fprintln(w, "  ports:")
	for _, port := range task.Ports {
		arity := ""
		if port.Cat.IsArray() {
			arity = fmt.Sprintf("[%d]", port.Arity)
		}
		fmt.Fprintf(w, "    %-10s %s%s %s %db\n",
			port.Cat,
			port.Name,
			arity,
			port.ElemString(),
			port.Width,
		)
	}
}

func dumpFifos(task *Task, w io.Writer) {
	if len(task.FifoNames()) == 0 {
		return
	}
	fmt.Fprintln(w, "  channels:")
	for _, name := range task.FifoNames() {
		f := task.Fifos[name]
		depth := "extern"
		if f.Declared {
			depth = fmt.Sprintf("depth=%d", f.Depth)
		}
		fmt.Fprintf(w, "    %-12s %s %s -> %s\n",
			f.Name,
			depth,
			endpointString(f.Produced),
			endpointString(f.Consumed),
		)
	}
}

func dumpInstances(task *Task, w io.Writer) {
	for _, name := range task.InstanceTaskNames() {
		for idx, inst := range task.Instances[name] {
			label := ""
			if inst.Name != "" {
				label = " " + inst.Name
			}
			args := make([]string, 0, len(inst.Args))
			for _, a := range inst.Args {
				args = append(args, fmt.Sprintf("%s=%s", a.Port, a.Arg))
			}
			fmt.Fprintf(w, "  invoke %s#%d%s step=%d (%s)\n",
				name, idx, label, inst.Step, strings.Join(args, ", "))
		}
	}
}

func endpointString(ep *Endpoint) string {
	if ep == nil {
		return "?"
	}
	return fmt.Sprintf("%s#%d", ep.Task, ep.Index)
}
