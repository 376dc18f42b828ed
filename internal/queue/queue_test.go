package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFOOrder(t *testing.T) {
	q := New[string]()
	q.Enqueue("first")
	q.Enqueue("second")
	q.Enqueue("third")

	v, ok := q.Dequeue()
	assert.True(t, ok)
	assert.Equal(t, "first", v)

	v, ok = q.Dequeue()
	assert.True(t, ok)
	assert.Equal(t, "second", v)

	v, ok = q.Dequeue()
	assert.True(t, ok)
	assert.Equal(t, "third", v)

	_, ok = q.Dequeue()
	assert.False(t, ok)
}

func TestQueue_DequeueAll(t *testing.T) {
	q := New[int]()
	q.Enqueue(1)
	q.Enqueue(2)
	q.Enqueue(3)
	assert.Equal(t, 3, q.Len())

	all := q.DequeueAll()
	assert.Equal(t, []int{1, 2, 3}, all)
	assert.Equal(t, 0, q.Len())
}

func TestQueue_DequeueWait_DeliversEnqueuedItem(t *testing.T) {
	q := New[int]()

	done := make(chan int, 1)
	go func() {
		v, ok := q.DequeueWait(context.Background())
		if ok {
			done <- v
		}
	}()

	time.Sleep(10 * time.Millisecond)
	q.Enqueue(42)

	select {
	case v := <-done:
		assert.Equal(t, 42, v)
	case <-time.After(time.Second):
		t.Fatal("DequeueWait never returned")
	}
}

func TestQueue_DequeueWait_CancelledContext(t *testing.T) {
	q := New[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := q.DequeueWait(ctx)
	assert.False(t, ok)
}

func TestQueue_ConcurrentEnqueue(t *testing.T) {
	q := New[int]()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			q.Enqueue(v)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, q.Len())
}

func TestQueue_MultipleWaitersAllWake(t *testing.T) {
	q := New[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	const n = 8
	got := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, ok := q.DequeueWait(ctx)
			require.True(t, ok)
			got <- v
		}()
	}

	for i := 0; i < n; i++ {
		q.Enqueue(i)
	}
	wg.Wait()
	close(got)

	seen := make(map[int]bool)
	for v := range got {
		seen[v] = true
	}
	assert.Len(t, seen, n)
}
