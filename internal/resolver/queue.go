package resolver

import (
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultWorkers bounds concurrent resolutions; third-party sources
	// rate-limit aggressively and the gain past a few workers is nil.
	DefaultWorkers = 4

	// DefaultPace spaces task completions so bursts against the same host
	// stay polite.
	DefaultPace = 60 * time.Millisecond
)

// Queue is a FIFO task queue with a fixed number of in-flight workers and a
// short pacing delay between dispatches. Tasks are zero-argument closures;
// a panicking task is logged and the pump keeps running. There is no
// cancellation of started tasks.
type Queue struct {
	mu     sync.Mutex
	idle   *sync.Cond
	tasks  []func()
	active int

	workers int
	pace    time.Duration
	logger  *slog.Logger
}

func NewQueue(workers int, pace time.Duration, logger *slog.Logger) *Queue {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{workers: workers, pace: pace, logger: logger}
	q.idle = sync.NewCond(&q.mu)
	return q
}

// Push enqueues a task and starts workers up to the limit.
func (q *Queue) Push(task func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
	q.pump()
}

// Len returns the number of tasks not yet started.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// WaitIdle blocks until the queue is empty and no task is in flight.
func (q *Queue) WaitIdle() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.tasks) > 0 || q.active > 0 {
		q.idle.Wait()
	}
}

func (q *Queue) pump() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.active < q.workers && len(q.tasks) > 0 {
		task := q.tasks[0]
		q.tasks = q.tasks[1:]
		q.active++
		go q.run(task)
	}
}

func (q *Queue) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("resolution task panicked", "panic", r)
		}
		if q.pace > 0 {
			time.Sleep(q.pace)
		}
		q.mu.Lock()
		q.active--
		if len(q.tasks) == 0 && q.active == 0 {
			q.idle.Broadcast()
		}
		q.mu.Unlock()
		q.pump()
	}()
	task()
}
