// Package pmm implements the physical frame allocator. Physical RAM is
// tracked as a list of buddy entries that partitions the free extent
// discovered at boot: serving a request best-fit selects the smallest free
// entry that can hold it and then splits the entry in half until a further
// split would be too small. Buddies are never coalesced; allocations only
// happen on process creation and frees on process destruction, so the list
// stays short for the lifetime of the system.
package pmm

import (
	"io"

	"mipsos/kernel/cpu"
	"mipsos/kernel/hal/machine"
	"mipsos/kernel/kfmt"
	"mipsos/kernel/mm"
)

var (
	// the following functions are mocked by tests.
	ramGetSizeFn    = machine.RAMGetSize
	ramStealMemFn   = machine.RAMStealMem
	paddrToKVAddrFn = machine.PAddrToKVAddr
	kvaddrToPAddrFn = machine.KVAddrToPAddr
)

// buddyEntry describes one contiguous physical run produced by splitting.
type buddyEntry struct {
	paddr mm.PAddr
	pages uintptr
	inuse bool
}

// allocator is the process-wide allocator state. It is written exactly once
// by Bootstrap and mutated only at high IPL afterwards.
var allocator struct {
	buddies     []buddyEntry
	initialized bool
}

// Bootstrap queries the machine for the free physical extent and records it
// as a single free buddy. Until Bootstrap runs, page requests are served by
// stealing memory off the bottom of the machine's free extent. Bootstrap also
// registers the allocator as the system extent allocator with the mm package.
func Bootstrap() {
	lo, hi := ramGetSizeFn()
	npages := uintptr(hi-lo) / mm.PageSize

	kfmt.Printf("[pmm] free memory: 0x%8x - 0x%8x\n", uintptr(lo), uintptr(hi))

	allocator.buddies = append(allocator.buddies[:0], buddyEntry{paddr: lo, pages: npages})
	allocator.initialized = true

	mm.SetExtentAllocator(GetPPages, FreePPage)

	kfmt.Printf("[pmm] initialized with one buddy @ 0x%8x spanning %d pages\n", uintptr(lo), npages)
}

// GetPPages reserves a contiguous run of npages physical pages and returns
// its page-aligned base, or 0 when no free buddy can hold the request.
// Before Bootstrap runs the request is served by the machine's linear
// steal-memory interface and the buddy list is left untouched.
func GetPPages(npages uintptr) mm.PAddr {
	spl := cpu.SplHigh()
	defer cpu.Splx(spl)

	// every tracked buddy spans at least one page
	if npages == 0 {
		npages = 1
	}

	if !allocator.initialized {
		return ramStealMemFn(npages)
	}

	return calculateBuddy(npages)
}

// FreePPage marks the buddy whose base address equals pa as free. Freeing 0
// or an address that does not match any buddy base is a no-op; an address
// space that never completed its load legitimately owns zero-valued bases.
func FreePPage(pa mm.PAddr) {
	spl := cpu.SplHigh()
	defer cpu.Splx(spl)

	if pa == 0 {
		return
	}

	for i := range allocator.buddies {
		if allocator.buddies[i].paddr == pa {
			allocator.buddies[i].inuse = false
			return
		}
	}
}

// AllocKPages reserves npages contiguous physical pages and returns their
// kernel virtual alias, or 0 when the request cannot be satisfied.
func AllocKPages(npages uintptr) mm.VAddr {
	pa := GetPPages(npages)
	if pa == 0 {
		return 0
	}

	return paddrToKVAddrFn(pa)
}

// FreeKPages releases pages previously returned by AllocKPages.
func FreeKPages(kva mm.VAddr) {
	FreePPage(kvaddrToPAddrFn(kva))
}

// findBuddy best-fit selects a free buddy able to hold npages pages and
// returns its index, or -1 when no buddy fits. Ties are broken by the first
// entry encountered.
func findBuddy(npages uintptr) int {
	chosen := -1
	for i := range allocator.buddies {
		be := &allocator.buddies[i]
		if be.inuse || be.pages < npages {
			continue
		}

		if chosen == -1 || be.pages < allocator.buddies[chosen].pages {
			chosen = i
		}
	}

	return chosen
}

// calculateBuddy serves an allocation request from the buddy list. The chosen
// entry is halved until a further split would no longer hold the request; the
// left child replaces the chosen entry in place and the right child is
// appended to the list. Halving uses integer division so an odd-sized entry
// splits into a smaller left and a larger right child, partitioning an
// arbitrary initial size exactly.
func calculateBuddy(npages uintptr) mm.PAddr {
	buddyIndex := findBuddy(npages)
	if buddyIndex == -1 {
		return 0
	}

	oldsize := allocator.buddies[buddyIndex].pages
	nextpaddr := allocator.buddies[buddyIndex].paddr

	for nextsize := oldsize / 2; nextsize >= npages; nextsize /= 2 {
		allocator.buddies[buddyIndex] = buddyEntry{paddr: nextpaddr, pages: nextsize}
		allocator.buddies = append(allocator.buddies, buddyEntry{
			paddr: nextpaddr + mm.PAddr(nextsize*mm.PageSize),
			pages: oldsize - nextsize,
		})

		oldsize = nextsize
	}

	allocator.buddies[buddyIndex].inuse = true
	return allocator.buddies[buddyIndex].paddr
}

// DumpBuddyList writes a human-readable table of the buddy list to w.
func DumpBuddyList(w io.Writer) {
	kfmt.Fprintf(w, "+-----BUDDYLIST--------------------+\n")
	kfmt.Fprintf(w, "| idx |    paddr   | pages | inuse |\n")
	for i, be := range allocator.buddies {
		kfmt.Fprintf(w, "| %3d | 0x%8x |  %4d |     %d |\n", i, uintptr(be.paddr), be.pages, boolToInt(be.inuse))
	}
	kfmt.Fprintf(w, "+----------------------------------+\n")
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
