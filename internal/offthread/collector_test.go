package offthread

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeReleasable struct {
	released *atomic.Bool
}

func (f fakeReleasable) Release() {
	f.released.Store(true)
}

func TestCollectorReleasesOffGoroutine(t *testing.T) {
	c := NewCollector(16)
	go c.Run()
	defer c.Stop()

	released := &atomic.Bool{}
	c.Retire(fakeReleasable{released: released})

	require.Eventually(t, func() bool { return released.Load() }, time.Second, time.Millisecond)
	require.Equal(t, uint64(1), c.Drained())
}

func TestCollectorStopDrainsRemaining(t *testing.T) {
	c := NewCollector(16)
	go c.Run()

	flags := make([]*atomic.Bool, 10)
	for i := range flags {
		flags[i] = &atomic.Bool{}
		c.Retire(fakeReleasable{released: flags[i]})
	}
	c.Stop()

	require.Equal(t, uint64(10), c.Drained())
	for i, f := range flags {
		require.True(t, f.Load(), "item %d was not released", i)
	}
}
