package task

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolProcessesTasks(t *testing.T) {
	queue := NewTaskQueue(10, testLogger())
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 2}, testLogger())

	var wg sync.WaitGroup
	tasks := make([]*stubTask, 5)
	for i := range tasks {
		wg.Add(1)
		tasks[i] = newStubTask(func(context.Context) error {
			wg.Done()
			return nil
		})
		require.NoError(t, queue.Enqueue(tasks[i]))
	}

	pool.Start()
	defer pool.Stop()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tasks to execute")
	}

	for _, task := range tasks {
		assert.Equal(t, int32(1), task.runs.Load(), "each task runs exactly once")
	}
}

func TestWorkerPoolErrorHandler(t *testing.T) {
	queue := NewTaskQueue(1, testLogger())
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 1}, testLogger())

	taskErr := errors.New("boom")
	failing := newStubTask(func(context.Context) error { return taskErr })

	handled := make(chan error, 1)
	pool.SetErrorHandler(func(task Task, err error) {
		assert.Equal(t, failing.ID(), task.ID())
		handled <- err
	})

	require.NoError(t, queue.Enqueue(failing))
	pool.Start()
	defer pool.Stop()

	select {
	case err := <-handled:
		assert.ErrorIs(t, err, taskErr)
	case <-time.After(2 * time.Second):
		t.Fatal("error handler was not called")
	}
}

func TestWorkerPoolStopWaitsForWorkers(t *testing.T) {
	queue := NewTaskQueue(1, testLogger())
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 1}, testLogger())

	started := make(chan struct{})
	require.NoError(t, queue.Enqueue(newStubTask(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})))

	pool.Start()
	<-started
	pool.Stop() // must not hang: Stop cancels the task's context
}

func TestWorkerPoolDefaultsWorkerCount(t *testing.T) {
	queue := NewTaskQueue(1, testLogger())
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 0}, testLogger())
	assert.Equal(t, 1, pool.workerCount)
}
