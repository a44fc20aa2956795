package util

import (
	"math/rand"
	"time"
)

func init() {
	r = rand.New(rand.NewSource(time.Now().UnixNano()))
}

var r *rand.Rand

// RandomSz picks a size in [min, max], used by the sim harness to vary frame payloads.
//
func RandomSz(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.Intn(max-min+1)
}
