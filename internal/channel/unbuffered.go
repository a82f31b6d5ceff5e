package channel

// Unbuffered hands values over only to a waiting receiver
type Unbuffered[T any] struct {
	pipe[T]
}

// NewUnbuffered creates a new unbuffered channel
func NewUnbuffered[T any]() *Unbuffered[T] {
	return &Unbuffered[T]{pipe: pipe[T]{ch: make(chan T)}}
}

// Len always returns 0
func (u *Unbuffered[T]) Len() int {
	return 0
}
