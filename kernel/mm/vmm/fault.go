package vmm

import (
	"mipsos/kernel"
	"mipsos/kernel/cpu"
	"mipsos/kernel/hal/machine"
	"mipsos/kernel/kfmt"
	"mipsos/kernel/mm"
	"mipsos/kernel/mm/pmm"
)

// FaultType describes the reason the MMU raised a fault.
type FaultType int

const (
	// FaultRead is a load (or instruction fetch) from a page with no
	// valid TLB entry.
	FaultRead = FaultType(0)

	// FaultWrite is a store to a page with no valid TLB entry.
	FaultWrite = FaultType(1)

	// FaultReadonly is a store through a TLB entry with the dirty bit
	// clear. Every mapping is installed dirty, so seeing one means the
	// TLB state is corrupt.
	FaultReadonly = FaultType(2)
)

// Debug controls whether the fault handler traces each translation it
// installs.
var Debug bool

// Fault resolves a faulting user virtual address against the current address
// space and installs the translation into the first free TLB slot. The whole
// handler runs at high IPL: the {read address space, decide mapping, write
// TLB} sequence must be atomic with respect to context switches and other
// faults.
//
// A fault that cannot be resolved from the address-space metadata surfaces
// bad-address; the caller (the trap code) kills the process. The handler
// never allocates memory and never evicts TLB entries.
func Fault(faultType FaultType, faultAddress mm.VAddr) *kernel.Error {
	spl := cpu.SplHigh()
	defer cpu.Splx(spl)

	faultAddress = faultAddress.PageBase()

	switch faultType {
	case FaultReadonly:
		// We always create pages read-write, so we can't get this
		kfmt.Panic(errReadonlyFault)
	case FaultRead, FaultWrite:
	default:
		return errInvalidFault
	}

	as := curAddrSpaceFn()
	if as == nil {
		// No address space set up. This is probably a kernel fault
		// early in boot. Surface bad-address so the trap code panics
		// instead of entering an infinite faulting loop.
		return errBadAddress
	}

	// The address space must be fully set up before it can fault.
	switch {
	case as.vbase1 == 0, as.pbase1 == 0, as.npages1 == 0,
		as.vbase2 == 0, as.pbase2 == 0, as.npages2 == 0,
		as.stackVBase == 0, as.stackPBase == 0:
		kfmt.Panic(errCorruptAS)
	case !as.vbase1.PageAligned(), !as.pbase1.PageAligned(),
		!as.vbase2.PageAligned(), !as.pbase2.PageAligned(),
		!as.stackVBase.PageAligned(), !as.stackPBase.PageAligned():
		kfmt.Panic(errCorruptAS)
	}

	var (
		vtop1     = as.vbase1 + mm.VAddr(as.npages1*mm.PageSize)
		vtop2     = as.vbase2 + mm.VAddr(as.npages2*mm.PageSize)
		stackBase = as.stackVBase - mm.VAddr(StackPages*mm.PageSize)
		paddr     mm.PAddr
	)

	switch {
	case faultAddress >= as.vbase1 && faultAddress < vtop1:
		paddr = as.pbase1 + mm.PAddr(faultAddress-as.vbase1)
	case faultAddress >= as.vbase2 && faultAddress < vtop2:
		paddr = as.pbase2 + mm.PAddr(faultAddress-as.vbase2)
	case faultAddress >= stackBase && faultAddress < as.stackVBase:
		paddr = as.stackPBase + mm.PAddr(faultAddress-stackBase)
	default:
		pmm.DumpBuddyList(kfmt.GetOutputSink())
		return errBadAddress
	}

	if !paddr.PageAligned() {
		kfmt.Panic(errUnalignedTarget)
	}

	for i := 0; i < machine.NumTLB; i++ {
		_, elo := tlbReadFn(i)
		if elo&machine.TLBLoValid != 0 {
			continue
		}

		if Debug {
			kfmt.Printf("[vmm] fault: 0x%x -> 0x%x\n", uintptr(faultAddress), uintptr(paddr))
		}

		tlbWriteFn(uintptr(faultAddress), uintptr(paddr)|machine.TLBLoDirty|machine.TLBLoValid, i)
		return nil
	}

	kfmt.Printf("[vmm] out of TLB entries - cannot handle page fault\n")
	return errBadAddress
}
