// Package vmm manages user address spaces and the software-refilled TLB.
// Each address space models a process as two contiguous code/data regions
// plus a fixed-size stack, every one backed by a physical extent obtained
// from the frame allocator. Translation is a linear offset inside the owning
// region; there are no page tables.
package vmm

import (
	"mipsos/kernel"
	"mipsos/kernel/hal/machine"
	"mipsos/kernel/irq"
	"mipsos/kernel/mm"
)

// StackPages is the fixed user stack size in pages (48 KiB).
const StackPages = uintptr(12)

var (
	// the following functions are mocked by tests.
	tlbReadFn       = machine.TLBRead
	tlbWriteFn      = machine.TLBWrite
	paddrToKVAddrFn = machine.PAddrToKVAddr

	// curAddrSpaceFn yields the active address space, if any. The thread
	// subsystem registers the real provider at boot.
	curAddrSpaceFn = func() *AddrSpace { return nil }

	// randomSource is the byte source backing stack-base randomization.
	// The HAL registers the "random:" device here once its driver is
	// probed and initialized.
	randomSource ByteSource

	errBadAddress      = &kernel.Error{Module: "vmm", Message: "bad address"}
	errInvalidFault    = &kernel.Error{Module: "vmm", Message: "invalid fault type"}
	errTooManyRegions  = &kernel.Error{Module: "vmm", Message: "too many regions"}
	errOutOfMemory     = &kernel.Error{Module: "vmm", Message: "out of memory"}
	errNoRandomSource  = &kernel.Error{Module: "vmm", Message: "no random source registered"}
	errReadonlyFault   = &kernel.Error{Module: "vmm", Message: "got a readonly fault; all pages are mapped read-write"}
	errCorruptAS       = &kernel.Error{Module: "vmm", Message: "address space is not set up properly"}
	errUnalignedTarget = &kernel.Error{Module: "vmm", Message: "translated address is not page-aligned"}
)

// ByteSource is a capability yielding raw bytes from an entropy device.
type ByteSource interface {
	// ReadBytes fills p with up to len(p) bytes and returns the count
	// actually read.
	ReadBytes(p []byte) (int, *kernel.Error)
}

// SetRandomSource registers the byte source consumed by DefineStack.
func SetRandomSource(src ByteSource) {
	randomSource = src
}

// SetCurrentAddrSpaceProvider registers the function used to look up the
// active address space during fault handling.
func SetCurrentAddrSpaceProvider(fn func() *AddrSpace) {
	curAddrSpaceFn = fn
}

// Init installs the TLB exception handlers so faults raised by the machine
// reach Fault with the right fault type.
func Init() {
	irq.HandleException(irq.ExcTLBLoad, func(faultAddr uintptr) *kernel.Error {
		return Fault(FaultRead, mm.VAddr(faultAddr))
	})
	irq.HandleException(irq.ExcTLBStore, func(faultAddr uintptr) *kernel.Error {
		return Fault(FaultWrite, mm.VAddr(faultAddr))
	})
	irq.HandleException(irq.ExcTLBMod, func(faultAddr uintptr) *kernel.Error {
		return Fault(FaultReadonly, mm.VAddr(faultAddr))
	})
}
