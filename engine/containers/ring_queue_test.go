package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueueFIFO(t *testing.T) {
	rq := NewRingQueue[int](4)
	for i := 1; i <= 3; i++ {
		rq.Enqueue(i)
	}
	assert.Equal(t, 3, rq.Len())

	head, err := rq.Peek()
	require.NoError(t, err)
	assert.Equal(t, 1, head)

	for i := 1; i <= 3; i++ {
		v, err := rq.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
	assert.True(t, rq.IsEmpty())
}

func TestRingQueueEmpty(t *testing.T) {
	rq := NewRingQueue[string](2)

	_, err := rq.Dequeue()
	assert.ErrorIs(t, err, ErrQueueEmpty)

	_, err = rq.Peek()
	assert.ErrorIs(t, err, ErrQueueEmpty)
}

func TestRingQueueGrowsKeepingOrder(t *testing.T) {
	rq := NewRingQueue[int](2)

	// move the read index so the buffer wraps before growing
	rq.Enqueue(0)
	_, err := rq.Dequeue()
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		rq.Enqueue(i)
	}
	assert.Equal(t, 5, rq.Len())
	assert.GreaterOrEqual(t, rq.Cap(), 5)

	for i := 1; i <= 5; i++ {
		v, err := rq.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
}

func TestRingQueueClear(t *testing.T) {
	rq := NewRingQueue[int](0)
	rq.Enqueue(1)
	rq.Enqueue(2)
	rq.Clear()

	assert.True(t, rq.IsEmpty())
	rq.Enqueue(3)
	v, err := rq.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}
