package executor

import "sync"

// job is one queued task with its handle already bound
type job struct {
	taskID string
	kind   string
	run    func() error
}

// queue is an unbounded FIFO shared by all workers.
// pop blocks until an item is available or the queue is closed and empty.
type queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []*job
	closed bool
}

func newQueue() *queue {
	q := &queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends j; it returns false once the queue is closed
func (q *queue) push(j *job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.items = append(q.items, j)
	q.cond.Signal()
	return true
}

// pop removes the oldest item; ok is false when closed and drained
func (q *queue) pop() (*job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}

	if len(q.items) == 0 {
		return nil, false
	}

	j := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return j, true
}

// close stops further pushes and wakes all waiting workers.
// It returns true only for the call that actually closed the queue.
func (q *queue) close() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.closed = true
	q.cond.Broadcast()
	return true
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
