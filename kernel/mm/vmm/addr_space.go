package vmm

import (
	"mipsos/kernel"
	"mipsos/kernel/cpu"
	"mipsos/kernel/hal/machine"
	"mipsos/kernel/kfmt"
	"mipsos/kernel/mm"
)

// AddrSpace describes the virtual memory of one user process: two code/data
// regions plus a fixed-size stack, each backed by a contiguous physical
// extent. A zero physical base marks an extent that has not been loaded yet.
type AddrSpace struct {
	vbase1  mm.VAddr
	pbase1  mm.PAddr
	npages1 uintptr

	vbase2  mm.VAddr
	pbase2  mm.PAddr
	npages2 uintptr

	// stackVBase is the exclusive top of the stack; the stack grows
	// downward from it across StackPages pages.
	stackVBase mm.VAddr
	stackPBase mm.PAddr
}

// NewAddrSpace allocates a zero-initialized address space record.
func NewAddrSpace() *AddrSpace {
	return &AddrSpace{}
}

// DefineRegion sets up one of the two code/data regions so it covers every
// byte of [vaddr, vaddr+size). The base is aligned down to a page boundary
// and the size rounded up accordingly. The permission flags are accepted for
// interface compatibility but ignored; every page is mapped read-write.
//
// Callers are trusted not to define overlapping regions; overlap is not
// checked here.
func (as *AddrSpace) DefineRegion(vaddr mm.VAddr, size uintptr, readable, writeable, executable bool) *kernel.Error {
	// Align the region. First, the base...
	size += uintptr(vaddr) & (mm.PageSize - 1)
	vaddr = vaddr.PageBase()

	// ...and now the length.
	size = mm.RoundUpToPage(size)

	npages := size / mm.PageSize

	_, _, _ = readable, writeable, executable

	if as.vbase1 == 0 {
		as.vbase1 = vaddr
		as.npages1 = npages
		return nil
	}

	if as.vbase2 == 0 {
		as.vbase2 = vaddr
		as.npages2 = npages
		return nil
	}

	// Support for more than two regions is not available.
	kfmt.Printf("[vmm] warning: too many regions\n")
	return errTooManyRegions
}

// PrepareLoad reserves the physical extents backing both regions and the
// stack and zeroes their contents. It must be called exactly once, after the
// regions are defined. On failure the address space may own a partial set of
// extents; Destroy releases whatever was reserved.
func (as *AddrSpace) PrepareLoad() *kernel.Error {
	if as.pbase1 != 0 || as.pbase2 != 0 || as.stackPBase != 0 {
		kfmt.Panic(errCorruptAS)
	}

	if as.pbase1 = mm.AllocExtent(as.npages1); as.pbase1 == 0 {
		return errOutOfMemory
	}
	as.zeroExtent(as.pbase1, as.npages1)

	if as.pbase2 = mm.AllocExtent(as.npages2); as.pbase2 == 0 {
		return errOutOfMemory
	}
	as.zeroExtent(as.pbase2, as.npages2)

	if as.stackPBase = mm.AllocExtent(StackPages); as.stackPBase == 0 {
		return errOutOfMemory
	}
	as.zeroExtent(as.stackPBase, StackPages)

	return nil
}

// zeroExtent clears a freshly reserved extent through its kernel alias.
func (as *AddrSpace) zeroExtent(pa mm.PAddr, npages uintptr) {
	kernel.Memset(uintptr(paddrToKVAddrFn(pa)), 0, npages*mm.PageSize)
}

// CompleteLoad is a hook invoked by the loader once the executable image has
// been copied in. Nothing needs to happen here until the MMU grows fence
// semantics.
func (as *AddrSpace) CompleteLoad() *kernel.Error {
	return nil
}

const (
	// stackRandomBase is the top of the statically reserved user
	// code/data window (1 MiB of code plus stack headroom); the stack top
	// is never placed below it.
	stackRandomBase = mm.VAddr(0x005c0000)

	// stackRandomWindow bounds the randomized stack top below the kernel
	// window at 0x80000000.
	stackRandomWindow = uintptr(0x7fa40000)
)

// DefineStack chooses a randomized stack top for the process and returns it.
// The stack occupies the StackPages pages below the returned address. The
// randomness read may block on device I/O, so DefineStack must not be called
// from a high-IPL section.
func (as *AddrSpace) DefineStack() (mm.VAddr, *kernel.Error) {
	if as.stackPBase == 0 {
		kfmt.Panic(errCorruptAS)
	}

	if randomSource == nil {
		return 0, errNoRandomSource
	}

	var buf [4]byte
	if _, err := randomSource.ReadBytes(buf[:]); err != nil {
		return 0, err
	}

	rand := uintptr(buf[0]) | uintptr(buf[1])<<8 | uintptr(buf[2])<<16 | uintptr(buf[3])<<24

	rand %= stackRandomWindow
	newStack := (stackRandomBase + mm.VAddr(rand)).PageBase()

	as.stackVBase = newStack
	return newStack, nil
}

// Activate makes this address space the one described by the TLB by
// invalidating every slot. Since any valid entry may belong to the previously
// active address space, nothing can be kept.
func (as *AddrSpace) Activate() {
	spl := cpu.SplHigh()
	defer cpu.Splx(spl)

	for i := 0; i < machine.NumTLB; i++ {
		tlbWriteFn(machine.TLBHiInvalid(i), machine.TLBLoInvalid(), i)
	}
}

// Destroy returns the backing physical extents to the frame allocator.
// Extents that were never reserved have zero bases, which the allocator
// ignores.
func (as *AddrSpace) Destroy() {
	mm.FreeExtent(as.pbase1)
	mm.FreeExtent(as.pbase2)
	mm.FreeExtent(as.stackPBase)
}

// Copy produces an address space equivalent to this one whose extents are
// bytewise copies made through the kernel direct-map window. The source
// address space must have completed its load; the copy runs in the calling
// thread before the clone is activated, so neither side can be switched to
// while the bytes move.
func (as *AddrSpace) Copy() (*AddrSpace, *kernel.Error) {
	newAS := NewAddrSpace()

	newAS.vbase1 = as.vbase1
	newAS.npages1 = as.npages1
	newAS.vbase2 = as.vbase2
	newAS.npages2 = as.npages2
	newAS.stackVBase = as.stackVBase

	if as.pbase1 == 0 || as.pbase2 == 0 || as.stackPBase == 0 {
		kfmt.Panic(errCorruptAS)
	}

	if err := newAS.PrepareLoad(); err != nil {
		newAS.Destroy()
		return nil, errOutOfMemory
	}

	copyExtent(as.pbase1, newAS.pbase1, as.npages1)
	copyExtent(as.pbase2, newAS.pbase2, as.npages2)
	copyExtent(as.stackPBase, newAS.stackPBase, StackPages)

	return newAS, nil
}

// copyExtent copies npages pages between two physical extents through their
// kernel aliases.
func copyExtent(src, dst mm.PAddr, npages uintptr) {
	kernel.Memcopy(
		uintptr(paddrToKVAddrFn(src)),
		uintptr(paddrToKVAddrFn(dst)),
		npages*mm.PageSize,
	)
}
