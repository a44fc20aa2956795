package staging

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletionQueueClears(t *testing.T) {
	p := newTestPool(NewMemDevice(0))
	tracker := NewTokenTracker()
	cq := NewCompletionQueue(tracker, 16)

	stage := NewStagedBuffer(p, tracker, 1024)
	assert.NoError(t, stage.Write([]byte("one frame")))
	_, err := stage.GpuBuffer("t1")
	assert.NoError(t, err)
	stage.Close()

	cq.Complete("t1")
	cq.Close()

	assert.Equal(t, 0, tracker.Pending())
	assert.Equal(t, 0, p.used.Size())
	assert.Equal(t, 1, p.freeCount())
}

// Producer and completion sides race against each other across many frames; the pool
// must come out of it with a clean free/used partition.
func TestProducerCompletionInterleaving(t *testing.T) {
	p := newTestPool(NewMemDevice(0))
	tracker := NewTokenTracker()
	cq := NewCompletionQueue(tracker, 64)

	const producers = 4
	const frames = 200

	var wg sync.WaitGroup
	for pi := 0; pi < producers; pi++ {
		wg.Add(1)
		go func(pi int) {
			defer wg.Done()
			stage := NewStagedBuffer(p, tracker, 512)
			defer stage.Close()
			for i := 0; i < frames; i++ {
				if err := stage.Write(make([]byte, 256+i)); err != nil {
					panic(err)
				}
				token := fmt.Sprintf("p%d-f%d", pi, i)
				if _, err := stage.GpuBuffer(token); err != nil {
					panic(err)
				}
				if _, err := stage.GpuBuffer(token); err != nil {
					panic(err)
				}
				cq.Complete(token)
			}
		}(pi)
	}
	wg.Wait()
	cq.Close()

	assert.Equal(t, 0, tracker.Pending())
	assert.Equal(t, 0, p.used.Size())
	assert.NotPanics(t, func() { p.Reset() })
	assert.Equal(t, 0, p.freeCount())
}

func TestCompletionOfTokenlessWork(t *testing.T) {
	tracker := NewTokenTracker()
	cq := NewCompletionQueue(tracker, 4)

	// a submission that touched no staged buffers completes without incident
	cq.Complete("empty")
	cq.Close()
	assert.Equal(t, 0, tracker.Pending())
}
