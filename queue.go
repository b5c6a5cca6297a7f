package apirequest

import "sync"

// taskQueue runs enqueued functions one at a time, in enqueue order, on a
// dedicated goroutine. It models the "next turn of the event loop" contract:
// by the time a task runs, the state transition that scheduled it has long
// been committed. Enqueueing never blocks the caller.
type taskQueue struct {
	mu      sync.Mutex
	tasks   []func()
	wake    chan struct{}
	closed  bool
	running bool
	done    chan struct{}
}

func newTaskQueue() *taskQueue {
	q := &taskQueue{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *taskQueue) run() {
	defer close(q.done)
	for {
		q.mu.Lock()
		tasks := q.tasks
		q.tasks = nil
		closed := q.closed
		q.running = len(tasks) > 0
		q.mu.Unlock()

		for _, task := range tasks {
			task()
		}

		if len(tasks) > 0 {
			q.mu.Lock()
			q.running = false
			q.mu.Unlock()
		}

		if closed && len(tasks) == 0 {
			return
		}
		if closed {
			// Drain whatever was enqueued while running.
			continue
		}
		<-q.wake
	}
}

// enqueue schedules fn after all previously enqueued tasks. Tasks enqueued
// after close are dropped.
func (q *taskQueue) enqueue(fn func()) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// close stops intake; already-enqueued tasks still run before the runner
// goroutine exits. close waits for that exit unless a task is executing at
// the moment of the call: the task may be the caller itself, and waiting for
// the runner from the runner's own goroutine would never return.
func (q *taskQueue) close() {
	q.mu.Lock()
	running := q.running
	q.closed = true
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	if running {
		return
	}
	<-q.done
}
