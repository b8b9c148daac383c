package worker

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolRunsTasks(t *testing.T) {
	p := NewPool(4)
	var count int32
	for i := 0; i < 20; i++ {
		p.Submit(func() { atomic.AddInt32(&count, 1) })
	}
	p.Stop()
	require.Equal(t, int32(20), atomic.LoadInt32(&count))
}

func TestPoolDefaultsToOneWorker(t *testing.T) {
	p := NewPool(0)
	done := false
	p.Submit(func() { done = true })
	p.Stop()
	require.True(t, done)
}

func TestPoolIgnoresNilTask(t *testing.T) {
	p := NewPool(1)
	p.Submit(nil)
	p.Submit(func() {})
	p.Stop()
}
