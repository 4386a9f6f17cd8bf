package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"foodsnap-api/internal/infrastructure/config"
	"foodsnap-api/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 2, MaxSize: 1})
	ctx := context.Background()

	require.NoError(t, m.Acquire(ctx))
	require.NoError(t, m.Acquire(ctx))
	assert.Equal(t, 2, m.GetQueueStatus().Active)

	m.Release()
	m.Release()
	status := m.GetQueueStatus()
	assert.Equal(t, 0, status.Active)
	assert.Equal(t, 2, status.ProcessedCount)
}

func TestAcquire_WaitsForSlot(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 1})
	ctx := context.Background()
	require.NoError(t, m.Acquire(ctx))

	acquired := make(chan error, 1)
	go func() { acquired <- m.Acquire(ctx) }()

	assert.Eventually(t, func() bool { return m.GetQueueStatus().QueueLength == 1 }, time.Second, 5*time.Millisecond)

	// 第二個等待者超過上限
	assert.Equal(t, common.ErrQueueFull, m.Acquire(ctx))

	m.Release()
	select {
	case err := <-acquired:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("waiter was not woken")
	}
}

func TestAcquire_ContextCancelled(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 5})
	require.NoError(t, m.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := m.Acquire(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, 0, m.GetQueueStatus().QueueLength)
}

func TestClose(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 5})
	require.NoError(t, m.Acquire(context.Background()))

	result := make(chan error, 1)
	go func() { result <- m.Acquire(context.Background()) }()
	assert.Eventually(t, func() bool { return m.GetQueueStatus().QueueLength == 1 }, time.Second, 5*time.Millisecond)

	m.Close()
	m.Close()
	assert.Equal(t, ErrClosed, <-result)
	assert.Equal(t, ErrClosed, m.Acquire(context.Background()))
}
