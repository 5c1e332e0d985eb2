package tapa

import "sync"

// queue backs every stream endpoint. A Stream declared in an orchestrator and
// the IStream/OStream views handed to child tasks all share one queue, so the
// three types convert freely into each other.
type queue[T any] struct {
	ch     chan T
	mu     sync.Mutex
	peeked []T
	closed bool
}

func (q *queue[T]) read() T {
	q.mu.Lock()
	if n := len(q.peeked); n > 0 {
		v := q.peeked[0]
		q.peeked = q.peeked[1:]
		q.mu.Unlock()
		return v
	}
	q.mu.Unlock()
	return <-q.ch
}

func (q *queue[T]) tryRead() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n := len(q.peeked); n > 0 {
		v := q.peeked[0]
		q.peeked = q.peeked[1:]
		return v, true
	}
	select {
	case v, ok := <-q.ch:
		if !ok {
			var zero T
			return zero, false
		}
		return v, true
	default:
		var zero T
		return zero, false
	}
}

func (q *queue[T]) peek() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.peeked) > 0 {
		return q.peeked[0], true
	}
	select {
	case v, ok := <-q.ch:
		if !ok {
			var zero T
			return zero, false
		}
		q.peeked = append(q.peeked, v)
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// eot reports whether the producer has closed the stream and every element
// has been drained.
func (q *queue[T]) eot() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.peeked) > 0 {
		return false
	}
	select {
	case v, ok := <-q.ch:
		if !ok {
			return true
		}
		q.peeked = append(q.peeked, v)
		return false
	default:
		return false
	}
}

// Stream is a named, depth-bounded FIFO declared inside an orchestrator body.
// It is passed to exactly one producer (as OStream) and exactly one consumer
// (as IStream); tapacc enforces this statically.
type Stream[T any] struct {
	q *queue[T]
}

// IStream is the consumer endpoint of a stream.
type IStream[T any] struct {
	q *queue[T]
}

// OStream is the producer endpoint of a stream.
type OStream[T any] struct {
	q *queue[T]
}

// Streams is an array of streams declared with NewStreams. Its elements bind
// to array-typed stream ports, wrapping around when a vectorized invocation
// outnumbers them.
type Streams[T any] []Stream[T]

// NewStream declares a stream with the given depth. The depth must be a
// positive compile-time constant for tapacc to accept the declaration.
func NewStream[T any](depth int) Stream[T] {
	if depth <= 0 {
		panic("tapa: stream depth must be positive")
	}
	return Stream[T]{q: &queue[T]{ch: make(chan T, depth)}}
}

// NewStreams declares an array of n streams, each with the given depth. Both
// arguments must be positive compile-time constants.
func NewStreams[T any](n, depth int) Streams[T] {
	if n <= 0 {
		panic("tapa: stream array length must be positive")
	}
	ss := make(Streams[T], n)
	for i := range ss {
		ss[i] = NewStream[T](depth)
	}
	return ss
}

// Read blocks until an element is available. It returns the zero value once
// the stream is closed and drained; use Eot to detect end of transmission.
func (s IStream[T]) Read() T { return s.q.read() }

// TryRead performs a non-blocking read.
func (s IStream[T]) TryRead() (T, bool) { return s.q.tryRead() }

// Peek returns the next element without consuming it.
func (s IStream[T]) Peek() (T, bool) { return s.q.peek() }

// Eot reports whether the stream is closed and fully drained.
func (s IStream[T]) Eot() bool { return s.q.eot() }

// Write blocks until the element is enqueued.
func (s OStream[T]) Write(v T) { s.q.ch <- v }

// TryWrite performs a non-blocking write.
func (s OStream[T]) TryWrite(v T) bool {
	select {
	case s.q.ch <- v:
		return true
	default:
		return false
	}
}

// Close marks end of transmission.
func (s OStream[T]) Close() {
	s.q.mu.Lock()
	defer s.q.mu.Unlock()
	if !s.q.closed {
		s.q.closed = true
		close(s.q.ch)
	}
}
