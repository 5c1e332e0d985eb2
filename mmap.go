package tapa

// MMap is a memory-mapped buffer port. Inside a leaf task it is indexed like
// an ordinary slice; at the top level tapacc rewrites it into a 64-bit base
// address handed to the device runtime.
type MMap[T any] []T

// ReadOnlyMMap is an MMap whose element type is constant: the kernel never
// writes through it, so the generated host glue binds it write-only from the
// host's point of view.
type ReadOnlyMMap[T any] []T

// AsyncMMap is a memory-mapped buffer accessed through explicit
// address/data handshakes instead of direct indexing. tapacc disaggregates it
// into read_addr, read_data, read_peek, write_addr and write_data sub-signals.
type AsyncMMap[T any] struct {
	data []T
}

// NewAsyncMMap wraps a host buffer for async access during software
// simulation.
func NewAsyncMMap[T any](data []T) AsyncMMap[T] {
	return AsyncMMap[T]{data: data}
}

// Read returns the element at addr.
func (m AsyncMMap[T]) Read(addr uint64) T { return m.data[addr] }

// Write stores v at addr.
func (m AsyncMMap[T]) Write(addr uint64, v T) { m.data[addr] = v }

// Len returns the number of elements backing the buffer.
func (m AsyncMMap[T]) Len() int { return len(m.data) }

// Slice exposes the backing buffer for host-side binding.
func (m AsyncMMap[T]) Slice() []T { return m.data }
