package machine

import "mipsos/kernel/mm"

// KSeg0Base is the bottom of the kernel's unmapped, direct-mapped virtual
// window on the real machine. Every physical RAM address has exactly one
// kernel virtual alias inside the window.
const KSeg0Base = uintptr(0x80000000)

// directMapBase holds the offset applied by the direct map. It defaults to
// KSeg0Base; hosted tests set it to 0 so kernel virtual addresses alias the
// Go-allocated buffer standing in for RAM.
var directMapBase = KSeg0Base

// SetDirectMapBase overrides the direct-map offset.
func SetDirectMapBase(base uintptr) {
	directMapBase = base
}

// PAddrToKVAddr returns the kernel virtual alias of a physical address.
func PAddrToKVAddr(pa mm.PAddr) mm.VAddr {
	return mm.VAddr(uintptr(pa) + directMapBase)
}

// KVAddrToPAddr returns the physical address behind a kernel virtual alias.
// It is the exact inverse of PAddrToKVAddr.
func KVAddrToPAddr(kva mm.VAddr) mm.PAddr {
	return mm.PAddr(uintptr(kva) - directMapBase)
}
