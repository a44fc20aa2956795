package util

import (
	"math"
	"sync/atomic"
)

// Sequence hands out monotonically increasing identifiers; the sim harness uses one
// per run to mint work tokens.
//
type Sequence struct {
	nextValue int64
}

func NewSequence(nextValue int64) *Sequence {
	return &Sequence{nextValue: nextValue - 1}
}

func (self *Sequence) ResetTo(nextValue int64) {
	atomic.StoreInt64(&self.nextValue, nextValue-1)
}

func (self *Sequence) Next() int64 {
	atomic.CompareAndSwapInt64(&self.nextValue, math.MaxInt64, -1)
	return atomic.AddInt64(&self.nextValue, 1)
}
