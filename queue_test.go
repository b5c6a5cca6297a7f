package apirequest

import (
	"sync"
	"testing"
	"time"
)

func TestTaskQueueRunsInOrder(t *testing.T) {
	q := newTaskQueue()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	wg.Add(10)
	for i := 0; i < 10; i++ {
		i := i
		q.enqueue(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		})
	}
	wg.Wait()
	q.close()

	for i, got := range order {
		if got != i {
			t.Fatalf("Expected task %d at position %d, got %d", i, i, got)
		}
	}
}

func TestTaskQueueCloseDrainsPendingTasks(t *testing.T) {
	q := newTaskQueue()

	var mu sync.Mutex
	ran := 0
	for i := 0; i < 5; i++ {
		q.enqueue(func() {
			mu.Lock()
			ran++
			mu.Unlock()
		})
	}
	q.close()

	select {
	case <-q.done:
	case <-time.After(conditionTimeout):
		t.Fatal("Timed out waiting for the runner to drain and exit")
	}

	mu.Lock()
	defer mu.Unlock()
	if ran != 5 {
		t.Errorf("Expected all 5 tasks to run before the queue shut down, got %d", ran)
	}
}

func TestTaskQueueCloseFromTaskDoesNotBlock(t *testing.T) {
	q := newTaskQueue()

	returned := make(chan struct{})
	q.enqueue(func() {
		q.close()
		close(returned)
	})

	select {
	case <-returned:
	case <-time.After(conditionTimeout):
		t.Fatal("Timed out: close called from a running task never returned")
	}

	select {
	case <-q.done:
	case <-time.After(conditionTimeout):
		t.Fatal("Timed out waiting for the runner to exit after reentrant close")
	}
}

func TestTaskQueueDropsTasksAfterClose(t *testing.T) {
	q := newTaskQueue()
	q.close()

	ran := make(chan struct{})
	q.enqueue(func() { close(ran) })

	select {
	case <-ran:
		t.Error("Expected task enqueued after close to be dropped")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTaskQueueCloseIsIdempotent(t *testing.T) {
	q := newTaskQueue()
	q.close()
	q.close()
}
