package queue

import (
	"sync"
)

// Queue is a FIFO buffer shared between the session goroutine and the
// persistence worker. Push never blocks; readers wait on Ready.
type Queue[T any] struct {
	mu      sync.Mutex
	items   []T
	ready   chan struct{}
	dropped int
	limit   int
}

// New creates an empty queue. A limit of 0 means unbounded; otherwise the
// oldest items are discarded once the limit is exceeded.
func New[T any](limit int) *Queue[T] {
	return &Queue[T]{
		items: make([]T, 0),
		ready: make(chan struct{}, 1),
		limit: limit,
	}
}

// Push appends items and wakes a waiting reader
func (q *Queue[T]) Push(items ...T) {
	if len(items) == 0 {
		return
	}
	q.mu.Lock()
	q.items = append(q.items, items...)
	if q.limit > 0 && len(q.items) > q.limit {
		over := len(q.items) - q.limit
		q.dropped += over
		q.items = append(q.items[:0:0], q.items[over:]...)
	}
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Ready is signalled after a Push. The signal is coalesced, so readers
// must Drain everything they find.
func (q *Queue[T]) Ready() <-chan struct{} {
	return q.ready
}

// Drain returns all items in push order and empties the queue
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	result := q.items
	q.items = make([]T, 0, cap(result))
	return result
}

// Requeue puts items back at the front, ahead of anything pushed since
func (q *Queue[T]) Requeue(items ...T) {
	if len(items) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(append(make([]T, 0, len(items)+len(q.items)), items...), q.items...)
}

// Len returns the number of waiting items
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Dropped reports how many items were discarded by the limit
func (q *Queue[T]) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
