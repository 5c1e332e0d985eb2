package frt

import (
	"strings"
	"testing"
)

type fakeInstance struct {
	bitstream string
	scalars   map[int]any
	buffers   map[int]Buffer
	calls     []string
}

func (f *fakeInstance) ArgsInfo() []ArgInfo {
	return []ArgInfo{
		{Index: 0, Name: "a", Cat: "mmap"},
		{Index: 1, Name: "n", Cat: "scalar"},
	}
}

func (f *fakeInstance) SetArg(index int, value any) error {
	f.scalars[index] = value
	return nil
}

func (f *fakeInstance) AllocBuf(index int, buf Buffer) error {
	f.buffers[index] = buf
	return nil
}

func (f *fakeInstance) WriteToDevice() error  { f.calls = append(f.calls, "write"); return nil }
func (f *fakeInstance) Exec() error           { f.calls = append(f.calls, "exec"); return nil }
func (f *fakeInstance) ReadFromDevice() error { f.calls = append(f.calls, "read"); return nil }
func (f *fakeInstance) Finish() error         { f.calls = append(f.calls, "finish"); return nil }

type fakeDriver struct {
	last *fakeInstance
}

func (d *fakeDriver) Open(bitstream string) (Instance, error) {
	d.last = &fakeInstance{
		bitstream: bitstream,
		scalars:   make(map[int]any),
		buffers:   make(map[int]Buffer),
	}
	return d.last, nil
}

func TestNewRequiresDriver(t *testing.T) {
	RegisterDriver(nil)
	_, err := New("kernel.xclbin")
	if err == nil {
		t.Fatalf("expected error without a registered driver")
	}
	if !strings.Contains(err.Error(), "no device driver") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewDispatchesToDriver(t *testing.T) {
	d := &fakeDriver{}
	RegisterDriver(d)
	defer RegisterDriver(nil)

	inst, err := New("kernel.xclbin")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if d.last.bitstream != "kernel.xclbin" {
		t.Errorf("bitstream = %q", d.last.bitstream)
	}

	data := []float32{1, 2, 3}
	if err := inst.AllocBuf(0, Buffer{Data: data, Direction: ReadWrite}); err != nil {
		t.Fatalf("alloc: %v", err)
	}
	if err := inst.SetArg(1, uint64(3)); err != nil {
		t.Fatalf("set arg: %v", err)
	}
	for _, step := range []func() error{inst.WriteToDevice, inst.Exec, inst.ReadFromDevice, inst.Finish} {
		if err := step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	want := []string{"write", "exec", "read", "finish"}
	for i, call := range d.last.calls {
		if call != want[i] {
			t.Fatalf("call order %v, want %v", d.last.calls, want)
		}
	}
}

func TestDirectionString(t *testing.T) {
	cases := map[Direction]string{
		ReadOnly:  "read_only",
		WriteOnly: "write_only",
		ReadWrite: "read_write",
	}
	for d, want := range cases {
		if d.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(d), d.String(), want)
		}
	}
}
