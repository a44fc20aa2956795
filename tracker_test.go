package staging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackIdempotent(t *testing.T) {
	p := newTestPool(NewMemDevice(0))
	tracker := NewTokenTracker()

	e, err := p.Acquire(64)
	assert.NoError(t, err)

	assert.True(t, tracker.Track("t1", e, p))
	p.Retain(e)
	assert.False(t, tracker.Track("t1", e, p))
	assert.Equal(t, int32(2), p.slots[e.index].refs)

	tracker.Clear("t1")
	assert.Equal(t, int32(1), p.slots[e.index].refs)
	p.Release(e)
}

func TestTrackDistinctTokens(t *testing.T) {
	p := newTestPool(NewMemDevice(0))
	tracker := NewTokenTracker()

	e, err := p.Acquire(64)
	assert.NoError(t, err)

	assert.True(t, tracker.Track("t1", e, p))
	p.Retain(e)
	assert.True(t, tracker.Track("t2", e, p))
	p.Retain(e)
	assert.Equal(t, 2, tracker.Pending())

	tracker.Clear("t1")
	tracker.Clear("t2")
	assert.Equal(t, 0, tracker.Pending())
	assert.Equal(t, int32(1), p.slots[e.index].refs)
	p.Release(e)
}

func TestClearUnknownTokenNoop(t *testing.T) {
	tracker := NewTokenTracker()
	assert.NotPanics(t, func() { tracker.Clear("never-registered") })
	assert.Equal(t, 0, tracker.Pending())
}

func TestClearRunsActionsOnce(t *testing.T) {
	tracker := NewTokenTracker()
	r := &countingReleaser{}

	tracker.Track("t1", Entry{index: 1}, r)
	tracker.Track("t1", Entry{index: 2}, r)
	tracker.Clear("t1")
	tracker.Clear("t1")
	assert.Equal(t, 2, r.count)
}

type countingReleaser struct {
	count int
}

func (self *countingReleaser) Release(_ Entry) {
	self.count++
}
