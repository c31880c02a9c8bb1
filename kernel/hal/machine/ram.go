// Package machine models the memory-facing hardware of a MIPS-class teaching
// machine: the free physical RAM extent reported after boot, a fully
// associative software-refilled TLB and the kseg0 direct-map window. The
// kernel proper only talks to this package; hosted tests point the RAM extent
// and direct map at Go-allocated buffers.
package machine

import "mipsos/kernel/mm"

var (
	// firstFree tracks the lowest free physical address. It grows upward
	// as RAMStealMem carves pages off the extent.
	firstFree mm.PAddr

	// lastFree marks the exclusive top of the free extent.
	lastFree mm.PAddr
)

// SetRAMExtent installs the free physical extent [lo, hi) discovered by the
// boot code. Both bounds must be page-aligned.
func SetRAMExtent(lo, hi mm.PAddr) {
	if !lo.PageAligned() || !hi.PageAligned() || hi < lo {
		panicFn("machine: bad RAM extent")
		return
	}

	firstFree = lo
	lastFree = hi
}

// RAMGetSize reports the free physical extent [lo, hi) that remains after
// early-boot stealing. The physical frame allocator takes ownership of the
// extent when it bootstraps.
func RAMGetSize() (lo, hi mm.PAddr) {
	return firstFree, lastFree
}

// RAMStealMem carves npages contiguous pages off the bottom of the free
// extent and returns their base. It is only legal before the frame allocator
// bootstraps; it returns 0 once the extent is exhausted.
func RAMStealMem(npages uintptr) mm.PAddr {
	if npages > uintptr(lastFree-firstFree)/mm.PageSize {
		return 0
	}

	size := npages * mm.PageSize
	pa := firstFree
	firstFree += mm.PAddr(size)
	return pa
}
