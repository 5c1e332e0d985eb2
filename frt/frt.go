// Package frt is the device-invocation runtime boundary used by generated
// host glue. A kernel is opened from a bitstream, its reported arguments are
// bound by name, and execution follows the fixed
// WriteToDevice/Exec/ReadFromDevice/Finish sequence.
//
// The package only defines the contract; a concrete device backend registers
// itself with RegisterDriver. Without one, New fails so that generated glue
// degrades with a clear runtime error instead of a crash.
package frt

import (
	"fmt"
	"sync"
)

// Direction describes how a buffer argument moves between host and device.
type Direction int

const (
	ReadOnly Direction = iota
	WriteOnly
	ReadWrite
)

func (d Direction) String() string {
	switch d {
	case ReadOnly:
		return "read_only"
	case WriteOnly:
		return "write_only"
	case ReadWrite:
		return "read_write"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Buffer is a host allocation bound to a kernel buffer argument.
type Buffer struct {
	Data      any
	Direction Direction
}

// ArgInfo is one kernel argument reported by the loaded bitstream.
type ArgInfo struct {
	Index int
	Name  string
	Cat   string
}

// Instance is one opened kernel.
type Instance interface {
	ArgsInfo() []ArgInfo
	SetArg(index int, value any) error
	AllocBuf(index int, buf Buffer) error
	WriteToDevice() error
	Exec() error
	ReadFromDevice() error
	Finish() error
}

// Driver opens kernel instances from bitstream paths.
type Driver interface {
	Open(bitstream string) (Instance, error)
}

var (
	driverMu sync.RWMutex
	driver   Driver
)

// RegisterDriver installs the device backend. The last registration wins.
func RegisterDriver(d Driver) {
	driverMu.Lock()
	defer driverMu.Unlock()
	driver = d
}

// New opens the kernel contained in the bitstream at path.
func New(bitstream string) (Instance, error) {
	driverMu.RLock()
	d := driver
	driverMu.RUnlock()
	if d == nil {
		return nil, fmt.Errorf("frt: no device driver registered; cannot open %q", bitstream)
	}
	return d.Open(bitstream)
}
