package channel

// Buffered queues up to its size before TrySend starts dropping
type Buffered[T any] struct {
	pipe[T]
}

// NewBuffered creates a new buffered channel with the given size
func NewBuffered[T any](size int) *Buffered[T] {
	return &Buffered[T]{pipe: pipe[T]{ch: make(chan T, size)}}
}

// Len returns the number of items currently in the buffer
func (b *Buffered[T]) Len() int {
	return len(b.ch)
}
