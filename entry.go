package staging

// Entry is a generation-checked handle to one pool-owned allocation. The pool hands
// entries out by value; a handle whose generation no longer matches its arena slot
// refers to an allocation that has since been evicted, and any use of it is fatal.
//
type Entry struct {
	index      uint32
	generation uint32
}

type slot struct {
	generation uint32
	alc        Allocation
	sz         int
	lastTick   int64
	refs       int32
}
