package world

import (
	"container/heap"
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// job is one unit of work submitted to a JobQueue: a priority (lower
// runs first, distance-to-player in blocks) and a function to run on a
// worker goroutine.
type job struct {
	priority float32
	run      func()
	seq      uint64 // FIFO tiebreaker for equal priority
}

type jobHeap []*job

func (h jobHeap) Len() int { return len(h) }
func (h jobHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}
func (h jobHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *jobHeap) Push(x interface{}) { *h = append(*h, x.(*job)) }
func (h *jobHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// JobQueue is a bounded pool of worker goroutines pulling from a
// shared min-priority-heap of pending jobs. There is no preemption: a
// job that has started always runs to completion, and cancellation is
// cooperative via a chunk's generationId rather than context
// cancellation of in-flight work.
type JobQueue struct {
	name    string
	log     *zap.Logger
	workers int

	mu      sync.Mutex
	cond    *sync.Cond
	heap    jobHeap
	nextSeq uint64
	closed  bool

	group  *errgroup.Group
	cancel context.CancelFunc
}

// NewJobQueue builds a named queue with the given worker count. name
// is used only for log lines.
func NewJobQueue(name string, workers int, log *zap.Logger) *JobQueue {
	if workers < 1 {
		workers = 1
	}
	q := &JobQueue{name: name, log: log, workers: workers}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Start launches the worker goroutines. Calling Start twice is a no-op.
func (q *JobQueue) Start(ctx context.Context) {
	if q.group != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	q.cancel = cancel
	g, gctx := errgroup.WithContext(ctx)
	q.group = g
	for i := 0; i < q.workers; i++ {
		workerID := i
		g.Go(func() error {
			q.runWorker(gctx, workerID)
			return nil
		})
	}
}

func (q *JobQueue) runWorker(ctx context.Context, id int) {
	for {
		q.mu.Lock()
		for len(q.heap) == 0 && !q.closed {
			q.cond.Wait()
		}
		if q.closed && len(q.heap) == 0 {
			q.mu.Unlock()
			return
		}
		j := heap.Pop(&q.heap).(*job)
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return
		default:
		}
		j.run()
	}
}

// Submit enqueues fn at the given priority (lower runs sooner).
func (q *JobQueue) Submit(priority float32, fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	j := &job{priority: priority, run: fn, seq: q.nextSeq}
	q.nextSeq++
	heap.Push(&q.heap, j)
	q.cond.Signal()
}

// Len returns the number of jobs currently queued (not counting one
// that a worker has already popped and is executing).
func (q *JobQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.heap)
}

// Stop signals all workers to drain and exit once the queue empties,
// and waits for them to return.
func (q *JobQueue) Stop() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
	if q.group != nil {
		if err := q.group.Wait(); err != nil {
			q.log.Warn("job queue worker returned error", zap.String("queue", q.name), zap.Error(err))
		}
	}
	if q.cancel != nil {
		q.cancel()
	}
}
