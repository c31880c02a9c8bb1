// Package mm defines the address types shared by the physical and virtual
// memory managers together with the extent-allocator seam that decouples the
// two: the pmm registers its allocator here and the vmm reaches physical
// memory only through it.
package mm

// PAddr describes a physical memory address.
type PAddr uintptr

// PageBase returns the page-aligned base of the page containing this address.
func (pa PAddr) PageBase() PAddr {
	return pa & PAddr(PageFrame)
}

// PageAligned returns true if this address sits on a page boundary.
func (pa PAddr) PageAligned() bool {
	return pa.PageBase() == pa
}

// VAddr describes a virtual memory address.
type VAddr uintptr

// PageBase returns the page-aligned base of the page containing this address.
func (va VAddr) PageBase() VAddr {
	return va & VAddr(PageFrame)
}

// PageAligned returns true if this address sits on a page boundary.
func (va VAddr) PageAligned() bool {
	return va.PageBase() == va
}

// RoundUpToPage rounds size up to the next multiple of PageSize.
func RoundUpToPage(size uintptr) uintptr {
	return (size + PageSize - 1) & PageFrame
}

var (
	// allocExtentFn points to an extent allocator registered via
	// SetExtentAllocator.
	allocExtentFn ExtentAllocFn

	// freeExtentFn points to the matching release function.
	freeExtentFn ExtentFreeFn
)

// ExtentAllocFn is a function that reserves a contiguous run of npages
// physical pages and returns its page-aligned base, or 0 when the request
// cannot be satisfied.
type ExtentAllocFn func(npages uintptr) PAddr

// ExtentFreeFn is a function that releases an extent previously returned by
// an ExtentAllocFn. Releasing PAddr(0) is a no-op.
type ExtentFreeFn func(pa PAddr)

// SetExtentAllocator registers the physical extent allocator that AllocExtent
// and FreeExtent delegate to. It is called once by the pmm at bootstrap.
func SetExtentAllocator(alloc ExtentAllocFn, free ExtentFreeFn) {
	allocExtentFn = alloc
	freeExtentFn = free
}

// AllocExtent reserves a contiguous npages-page physical extent using the
// currently registered allocator. It returns 0 when the request cannot be
// satisfied.
func AllocExtent(npages uintptr) PAddr {
	return allocExtentFn(npages)
}

// FreeExtent releases an extent previously returned by AllocExtent.
func FreeExtent(pa PAddr) {
	freeExtentFn(pa)
}
