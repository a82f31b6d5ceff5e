// Package channel provides generic channel interfaces used to stream host notifications.
package channel

// Receiver provides read access to a channel.
type Receiver[T any] interface {
	Receive() <-chan T
	Len() int
}

// Sender provides write access to a channel. Sending after Close is a no-op.
type Sender[T any] interface {
	Send(T)
	// TrySend delivers without blocking and reports whether the value was accepted
	TrySend(T) bool
}

// Channel combines read and write access.
type Channel[T any] interface {
	Receiver[T]
	Sender[T]
	// Dropped counts values rejected by TrySend
	Dropped() int64
	Close()
}

// New creates a notification channel. A size of zero or less gives an
// unbuffered channel, so a slow host shows up as dropped notifications.
func New[T any](size int) Channel[T] {
	if size <= 0 {
		return NewUnbuffered[T]()
	}
	return NewBuffered[T](size)
}

// Drain forwards every value from r to fn until the channel is closed.
func Drain[T any](r Receiver[T], fn func(T)) {
	for v := range r.Receive() {
		fn(v)
	}
}
