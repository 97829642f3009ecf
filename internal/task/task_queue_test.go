package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskQueueEnqueueAndConsume(t *testing.T) {
	queue := NewTaskQueue(2, testLogger())

	first := newStubTask(nil)
	second := newStubTask(nil)
	require.NoError(t, queue.Enqueue(first))
	require.NoError(t, queue.Enqueue(second))

	got := <-queue.GetChannel()
	assert.Equal(t, first.ID(), got.ID(), "tasks come out in FIFO order")
	got = <-queue.GetChannel()
	assert.Equal(t, second.ID(), got.ID())
}

func TestTaskQueueFull(t *testing.T) {
	queue := NewTaskQueue(1, testLogger())

	require.NoError(t, queue.Enqueue(newStubTask(nil)))

	err := queue.Enqueue(newStubTask(nil))
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestTaskQueueClosed(t *testing.T) {
	queue := NewTaskQueue(1, testLogger())
	queue.Close()
	queue.Close() // idempotent

	err := queue.Enqueue(newStubTask(nil))
	assert.ErrorIs(t, err, ErrQueueClosed)

	_, ok := <-queue.GetChannel()
	assert.False(t, ok, "channel is closed")
}
