package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MetadataJSON renders the dataflow graph of an orchestrator as the JSON
// document consumed by downstream floorplanning and host tooling. Key order
// follows declaration order in the source, not alphabetical order, so the
// document stays diffable against the program.
func MetadataJSON(t *Task) ([]byte, error) {
	if !t.IsUpper {
		return nil, fmt.Errorf("task %s is not an orchestrator", t.Name)
	}

	doc := newOmap()
	doc.set("ports", portsMeta(t))
	doc.set("tasks", tasksMeta(t))
	doc.set("fifos", fifosMeta(t))

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type portMeta struct {
	Cat   string `json:"cat"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Width int64  `json:"width"`
}

func portsMeta(t *Task) []portMeta {
	ports := make([]portMeta, 0, len(t.Ports))
	for _, p := range t.Ports {
		meta := portMeta{
			Cat:   p.Cat.MetaName(),
			Name:  p.Name,
			Type:  p.TypeString(),
			Width: p.Width,
		}
		if p.Cat.IsArray() && p.Cat.IsMMap() {
			// Plural buffer ports enter the document one entry per element.
			for i := int64(0); i < p.Arity; i++ {
				meta.Name = fmt.Sprintf("%s[%d]", p.Name, i)
				ports = append(ports, meta)
			}
			continue
		}
		ports = append(ports, meta)
	}
	return ports
}

func tasksMeta(t *Task) *omap {
	tasks := newOmap()
	for _, name := range t.InstanceTaskNames() {
		insts := make([]*omap, 0, len(t.Instances[name]))
		for _, inst := range t.Instances[name] {
			im := newOmap()
			args := newOmap()
			for _, a := range inst.Args {
				binding := newOmap()
				binding.set("arg", a.Arg)
				binding.set("cat", a.Cat)
				args.set(a.Port, binding)
			}
			im.set("args", args)
			if inst.Name != "" {
				im.set("name", inst.Name)
			}
			im.set("step", inst.Step)
			insts = append(insts, im)
		}
		tasks.set(name, insts)
	}
	return tasks
}

func fifosMeta(t *Task) *omap {
	fifos := newOmap()
	for _, name := range t.FifoNames() {
		f := t.Fifos[name]
		fm := newOmap()
		if f.Depth >= 0 {
			fm.set("depth", f.Depth)
		}
		if f.Produced != nil {
			fm.set("produced_by", []any{f.Produced.Task, f.Produced.Index})
		}
		if f.Consumed != nil {
			fm.set("consumed_by", []any{f.Consumed.Task, f.Consumed.Index})
		}
		fifos.set(name, fm)
	}
	return fifos
}

// omap is a JSON object that marshals its keys in insertion order.
type omap struct {
	keys []string
	vals map[string]any
}

func newOmap() *omap {
	return &omap{vals: make(map[string]any)}
}

func (m *omap) set(key string, value any) {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = value
}

func (m *omap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(m.vals[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
