package staging

import (
	"fmt"
	"sync"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/emirpasic/gods/utils"
	"github.com/pkg/errors"
)

// Pool owns every staging allocation for one device. Entries move between a
// size-indexed free tree and a used set; an entry is always in exactly one of the two.
// Acquire prefers the smallest free entry at least as large as the request, so a
// size-stable workload settles into pure reuse. All state is guarded by a single lock
// held for the duration of each operation; no operation blocks while holding it.
//
type Pool struct {
	lock        *sync.Mutex
	device      Device
	slots       []*slot
	vacant      []uint32
	free        *treemap.Map
	used        *hashset.Set
	tick        int64
	evictionAge int64
	ii          InstrumentInstance
}

func NewPool(device Device, profile *Profile, ii InstrumentInstance) *Pool {
	return &Pool{
		lock:        new(sync.Mutex),
		device:      device,
		free:        treemap.NewWith(utils.IntComparator),
		used:        hashset.New(),
		evictionAge: profile.EvictionAge,
		ii:          ii,
	}
}

// Acquire checks out the smallest free entry with size >= minSz, falling back to a
// fresh device allocation of exactly minSz. The returned entry carries one reference.
//
func (self *Pool) Acquire(minSz int) (Entry, error) {
	self.lock.Lock()
	defer self.lock.Unlock()

	if k, v := self.free.Ceiling(minSz); k != nil {
		e := self.popFree(k.(int), v.([]Entry))
		s := self.slots[e.index]
		s.refs = 1
		self.used.Add(e)
		if self.ii != nil {
			self.ii.Reuse(s.sz)
		}
		return e, nil
	}

	alc, err := self.device.Allocate(minSz)
	if err != nil {
		return Entry{}, errors.Wrapf(err, "allocate [%d]", minSz)
	}
	e := self.insert(alc, minSz)
	self.used.Add(e)
	if self.ii != nil {
		self.ii.Allocate(minSz)
	}
	return e, nil
}

// Retain adds a reference to a checked-out entry. Retaining an entry that is not in
// the used set means the caller is holding a stale handle; that is fatal.
//
func (self *Pool) Retain(e Entry) {
	self.lock.Lock()
	defer self.lock.Unlock()

	s := self.slot(e)
	if !self.used.Contains(e) {
		panic(fmt.Sprintf("retain of free entry [#%d]", e.index))
	}
	s.refs++
	if self.ii != nil {
		self.ii.Retain()
	}
}

// Release drops one reference. At zero references the entry moves back to the free
// tree and its idle age starts counting. A release of an entry that is not checked
// out is a double-release and fatal.
//
func (self *Pool) Release(e Entry) {
	self.lock.Lock()
	defer self.lock.Unlock()

	s := self.slot(e)
	if !self.used.Contains(e) || s.refs < 1 {
		panic(fmt.Sprintf("double release [#%d]", e.index))
	}
	s.refs--
	if s.refs == 0 {
		self.used.Remove(e)
		s.lastTick = self.tick
		self.pushFree(e, s.sz)
	}
	if self.ii != nil {
		self.ii.Release()
	}
}

// Gc advances the pool tick and destroys free entries idle for at least the eviction
// age. Checked-out entries are never touched.
//
func (self *Pool) Gc() {
	self.lock.Lock()
	defer self.lock.Unlock()

	self.tick++

	var stale []Entry
	self.free.Each(func(k, v interface{}) {
		for _, e := range v.([]Entry) {
			if self.tick-self.slots[e.index].lastTick >= self.evictionAge {
				stale = append(stale, e)
			}
		}
	})
	for _, e := range stale {
		sz := self.slots[e.index].sz
		self.removeFree(e, sz)
		self.destroy(e)
		if self.ii != nil {
			self.ii.Evict(sz)
		}
	}

	if self.ii != nil {
		self.ii.GcComplete(self.freeCount(), self.used.Size())
	}
}

// Reset tears the pool down. The caller must have drained all outstanding work first;
// a reset with checked-out entries is a teardown-ordering violation and fatal.
//
func (self *Pool) Reset() {
	self.lock.Lock()
	defer self.lock.Unlock()

	if self.used.Size() > 0 {
		panic(fmt.Sprintf("reset with [%d] outstanding checkouts", self.used.Size()))
	}

	var all []Entry
	self.free.Each(func(_, v interface{}) {
		all = append(all, v.([]Entry)...)
	})
	for _, e := range all {
		self.destroy(e)
	}
	self.free.Clear()
	if self.ii != nil {
		self.ii.Reset()
	}
}

// View exposes the CPU-mapped bytes of a checked-out entry. The caller owns the entry
// exclusively while writing (Held state in the facade), so the mapping is returned
// without further coordination.
//
func (self *Pool) View(e Entry) []byte {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.slot(e).alc.Bytes()
}

// Buffer exposes the backing allocation of a checked-out entry for an asynchronous
// consumer.
//
func (self *Pool) Buffer(e Entry) Allocation {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.slot(e).alc
}

func (self *Pool) Size(e Entry) int {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.slot(e).sz
}

func (self *Pool) slot(e Entry) *slot {
	if int(e.index) >= len(self.slots) {
		panic(fmt.Sprintf("invalid entry [#%d]", e.index))
	}
	s := self.slots[e.index]
	if s.generation != e.generation {
		panic(fmt.Sprintf("stale entry [#%d, generation %d != %d]", e.index, e.generation, s.generation))
	}
	return s
}

func (self *Pool) insert(alc Allocation, sz int) Entry {
	var index uint32
	if len(self.vacant) > 0 {
		index = self.vacant[len(self.vacant)-1]
		self.vacant = self.vacant[:len(self.vacant)-1]
	} else {
		index = uint32(len(self.slots))
		self.slots = append(self.slots, &slot{})
	}
	s := self.slots[index]
	s.alc = alc
	s.sz = sz
	s.lastTick = self.tick
	s.refs = 1
	return Entry{index: index, generation: s.generation}
}

func (self *Pool) destroy(e Entry) {
	s := self.slot(e)
	s.alc.Free()
	s.alc = nil
	s.refs = 0
	s.generation++
	self.vacant = append(self.vacant, e.index)
}

func (self *Pool) pushFree(e Entry, sz int) {
	if v, found := self.free.Get(sz); found {
		self.free.Put(sz, append(v.([]Entry), e))
	} else {
		self.free.Put(sz, []Entry{e})
	}
}

func (self *Pool) popFree(sz int, bucket []Entry) Entry {
	e := bucket[len(bucket)-1]
	if len(bucket) > 1 {
		self.free.Put(sz, bucket[:len(bucket)-1])
	} else {
		self.free.Remove(sz)
	}
	return e
}

func (self *Pool) removeFree(e Entry, sz int) {
	v, found := self.free.Get(sz)
	if !found {
		panic(fmt.Sprintf("free entry missing from tree [#%d]", e.index))
	}
	bucket := v.([]Entry)
	for i, candidate := range bucket {
		if candidate == e {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) > 0 {
		self.free.Put(sz, bucket)
	} else {
		self.free.Remove(sz)
	}
}

func (self *Pool) freeCount() int {
	count := 0
	self.free.Each(func(_, v interface{}) {
		count += len(v.([]Entry))
	})
	return count
}
