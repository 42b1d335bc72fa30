package ringqueue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSPSCCapacityRoundsUpToPowerOfTwo(t *testing.T) {
	q := New[int](5)
	assert.Equal(t, 8, q.Cap())
}

func TestSPSCPushPopOrdering(t *testing.T) {
	q := New[int](4)
	for i := 0; i < 4; i++ {
		require.True(t, q.TryPush(i))
	}
	require.False(t, q.TryPush(99), "ring should be full")

	for i := 0; i < 4; i++ {
		v, ok := q.TryPop()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	_, ok := q.TryPop()
	assert.False(t, ok, "ring should be empty")
}

func TestSPSCDrainUpToBounds(t *testing.T) {
	q := New[int](16)
	for i := 0; i < 10; i++ {
		q.TryPush(i)
	}
	var drained []int
	n := q.DrainUpTo(4, func(v int) { drained = append(drained, v) })
	assert.Equal(t, 4, n)
	assert.Equal(t, []int{0, 1, 2, 3}, drained)
	assert.Equal(t, 6, q.Len())
}

func TestSPSCConcurrentSingleProducerSingleConsumer(t *testing.T) {
	q := New[int](64)
	const total = 100000

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			for !q.TryPush(i) {
			}
		}
	}()

	received := make([]int, 0, total)
	go func() {
		defer wg.Done()
		for len(received) < total {
			if v, ok := q.TryPop(); ok {
				received = append(received, v)
			}
		}
	}()

	wg.Wait()
	require.Len(t, received, total)
	for i, v := range received {
		require.Equal(t, i, v)
	}
}
