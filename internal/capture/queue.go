// Package capture buffers live audio for the detector.
//
// A device delivers blocks on its own goroutine; a Session queues them while
// recording and hands the whole take to the detector when stopped.
package capture

import "sync"

// Queue holds blocks in arrival order. Push and Drain may be called from
// different goroutines. After Drain the queue is closed and further blocks
// are refused, so the producer never writes into a drained queue.
type Queue struct {
	mu      sync.Mutex
	blocks  [][]float32
	limit   int
	dropped int
	closed  bool
}

// NewQueue returns an open queue holding at most limit blocks (0 = no limit).
func NewQueue(limit int) *Queue {
	return &Queue{limit: limit}
}

// Push appends b, taking ownership of it. It reports false when the block
// was refused because the queue is full or drained.
func (q *Queue) Push(b []float32) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	if q.limit > 0 && len(q.blocks) >= q.limit {
		q.dropped++
		return false
	}

	q.blocks = append(q.blocks, b)
	return true
}

// Drain closes the queue and returns every queued block; the caller owns
// them.
func (q *Queue) Drain() [][]float32 {
	q.mu.Lock()
	defer q.mu.Unlock()

	blocks := q.blocks
	q.blocks = nil
	q.closed = true
	return blocks
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.blocks)
}

// Dropped counts blocks refused because the queue was full. Blocks
// arriving after Drain are not counted.
func (q *Queue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// Concat flattens blocks into a single sample buffer, in order.
func Concat(blocks [][]float32) []float64 {
	n := 0
	for _, b := range blocks {
		n += len(b)
	}

	out := make([]float64, 0, n)
	for _, b := range blocks {
		for _, s := range b {
			out = append(out, float64(s))
		}
	}
	return out
}
