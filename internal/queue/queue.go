package queue

import (
	"context"
	"sync"
)

// Queue is a thread-safe generic unbounded FIFO queue.
// Enqueue never blocks; consumers either poll with Dequeue or park on
// DequeueWait until an item arrives or the context is cancelled.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
	wake  chan struct{}
}

// New creates an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{
		items: make([]T, 0),
		wake:  make(chan struct{}, 1),
	}
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Enqueue appends a value to the tail of the queue.
func (q *Queue[T]) Enqueue(value T) {
	q.mu.Lock()
	q.items = append(q.items, value)
	q.mu.Unlock()
	q.signal()
}

// Dequeue removes and returns the head of the queue.
// Returns false if the queue is empty.
func (q *Queue[T]) Dequeue() (T, bool) {
	q.mu.Lock()

	if len(q.items) == 0 {
		q.mu.Unlock()
		var zero T
		return zero, false
	}

	item := q.items[0]
	var zero T
	q.items[0] = zero // avoid memory leak
	q.items = q.items[1:]
	remaining := len(q.items)
	q.mu.Unlock()

	// wake another waiter if there is more work
	if remaining > 0 {
		q.signal()
	}
	return item, true
}

// DequeueWait blocks until an item is available or ctx is done.
// Returns false only on cancellation.
func (q *Queue[T]) DequeueWait(ctx context.Context) (T, bool) {
	for {
		if item, ok := q.Dequeue(); ok {
			return item, true
		}

		select {
		case <-ctx.Done():
			var zero T
			return zero, false
		case <-q.wake:
		}
	}
}

// DequeueAll drains the queue in FIFO order.
func (q *Queue[T]) DequeueAll() []T {
	items := make([]T, 0, q.Len())
	for {
		item, ok := q.Dequeue()
		if !ok {
			return items
		}
		items = append(items, item)
	}
}

func (q *Queue[T]) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}
