package staging

import (
	"github.com/gfxkit/staging/util"
	"github.com/pkg/errors"
)

// StagedBuffer is the facade the producer works through. It holds at most one
// checked-out entry at a time. Each Write swaps to a fresh entry rather than
// overwriting in place, because the previous content version may still be read by an
// in-flight submission; the old entry stays alive through whatever token references
// remain and returns to the pool when the last one clears.
//
type StagedBuffer struct {
	pool    *Pool
	tracker *TokenTracker
	sz      int
	current Entry
	held    bool
	uz      int
}

func NewStagedBuffer(pool *Pool, tracker *TokenTracker, sz int) *StagedBuffer {
	return &StagedBuffer{
		pool:    pool,
		tracker: tracker,
		sz:      sz,
	}
}

// Write copies data into a freshly acquired entry, releasing the previously held one
// first.
//
func (self *StagedBuffer) Write(data []byte) error {
	if self.held {
		self.pool.Release(self.current)
		self.held = false
		self.uz = 0
	}

	e, err := self.pool.Acquire(len(data))
	if err != nil {
		return errors.Wrap(err, "acquire")
	}
	bw := util.NewByteWriter(self.pool.View(e))
	if _, err := bw.Write(data); err != nil {
		self.pool.Release(e)
		return errors.Wrap(err, "copy")
	}
	self.current = e
	self.held = true
	self.uz = len(data)
	return nil
}

// GpuBuffer hands the held entry's backing allocation to a consumer submitting under
// token. The entry is registered with the tracker; the first registration for this
// (token, entry) pair adds the token's reference. If nothing is held yet, an entry of
// the configured size is acquired.
//
func (self *StagedBuffer) GpuBuffer(token Token) (Allocation, error) {
	if !self.held {
		e, err := self.pool.Acquire(self.sz)
		if err != nil {
			return nil, errors.Wrap(err, "acquire")
		}
		self.current = e
		self.held = true
		self.uz = 0
	}
	if self.tracker.Track(token, self.current, self.pool) {
		self.pool.Retain(self.current)
	}
	return self.pool.Buffer(self.current), nil
}

// Used reports how many bytes the last Write staged into the held entry.
//
func (self *StagedBuffer) Used() int {
	return self.uz
}

// Close releases the facade's own reference. The entry itself stays with the pool and
// outlives the facade for as long as submission tokens still reference it.
//
func (self *StagedBuffer) Close() {
	if self.held {
		self.pool.Release(self.current)
		self.held = false
		self.uz = 0
	}
}
