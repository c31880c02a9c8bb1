package kernel

import (
	"reflect"
	"unsafe"
)

// overlay returns a byte slice backed by the size bytes starting at addr.
// Callers are expected to pass addresses inside the kernel direct-map window
// so the slice aliases physical memory.
func overlay(addr uintptr, size uintptr) []byte {
	return *(*[]byte)(unsafe.Pointer(&reflect.SliceHeader{
		Len:  int(size),
		Cap:  int(size),
		Data: addr,
	}))
}

// Memset sets size bytes at the given address to the supplied value. Instead
// of a plain byte loop it performs log2(size) copy calls; page extents are
// always aligned so the copies stay cheap.
func Memset(addr uintptr, value byte, size uintptr) {
	if size == 0 {
		return
	}

	target := overlay(addr, size)

	// Set first element and make log2(size) optimized copies
	target[0] = value
	for index := uintptr(1); index < size; index *= 2 {
		copy(target[index:], target[:index])
	}
}

// Memcopy copies size bytes from src to dst. The ranges are expected not to
// overlap; extents handed out by the frame allocator never do.
func Memcopy(src, dst uintptr, size uintptr) {
	if size == 0 {
		return
	}

	copy(overlay(dst, size), overlay(src, size))
}
