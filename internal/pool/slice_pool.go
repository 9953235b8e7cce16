package pool

import "sync"

var uint64SlicePool = sync.Pool{
	New: func() any { return &[]uint64{} },
}

// GetUint64Slice retrieves a uint64 slice of length size from the pool.
//
// The contents are not cleared. The caller must call the returned function to
// give the slice back once it no longer references it.
//
// Example:
//
//	values, release := pool.GetUint64Slice(n)
//	defer release()
func GetUint64Slice(size int) ([]uint64, func()) {
	ptr, _ := uint64SlicePool.Get().(*[]uint64)

	slice := *ptr
	if cap(slice) < size {
		slice = make([]uint64, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { uint64SlicePool.Put(ptr) }
}
