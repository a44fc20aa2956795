package staging

import (
	"sync"

	"github.com/pkg/errors"
)

// MemDevice is a heap-backed Device. It stands in for a native graphics allocator in
// tests and load harnesses; a capacity of 0 means unbounded.
//
type MemDevice struct {
	lock      *sync.Mutex
	capacity  int
	allocated int
}

func NewMemDevice(capacity int) *MemDevice {
	return &MemDevice{
		lock:     new(sync.Mutex),
		capacity: capacity,
	}
}

func (self *MemDevice) Allocate(sz int) (Allocation, error) {
	self.lock.Lock()
	defer self.lock.Unlock()

	if sz < 1 {
		return nil, errors.Errorf("invalid allocation size [%d]", sz)
	}
	if self.capacity > 0 && self.allocated+sz > self.capacity {
		return nil, errors.Errorf("device capacity exhausted [%d + %d > %d]", self.allocated, sz, self.capacity)
	}
	self.allocated += sz
	return &memAllocation{device: self, data: make([]byte, sz)}, nil
}

func (self *MemDevice) Allocated() int {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.allocated
}

type memAllocation struct {
	device *MemDevice
	data   []byte
	freed  bool
}

func (self *memAllocation) Bytes() []byte {
	return self.data
}

func (self *memAllocation) Size() int {
	return len(self.data)
}

func (self *memAllocation) Free() {
	self.device.lock.Lock()
	defer self.device.lock.Unlock()
	if !self.freed {
		self.freed = true
		self.device.allocated -= len(self.data)
	}
}
