package staging

// Device is the staging core's view of the underlying graphics allocator. Implementations
// hand out host-visible, CPU-mappable allocations suitable for asynchronous GPU reads.
//
type Device interface {
	Allocate(sz int) (Allocation, error)
}

// Allocation is one backing buffer owned by a pool entry. Bytes exposes the CPU-mapped
// view of the allocation; the mapping remains valid until Free.
//
type Allocation interface {
	Bytes() []byte
	Size() int
	Free()
}
