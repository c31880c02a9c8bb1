// Package kmain drives the boot sequence of the VM subsystem.
package kmain

import (
	"mipsos/kernel"
	"mipsos/kernel/hal"
	"mipsos/kernel/hal/machine"
	"mipsos/kernel/kfmt"
	"mipsos/kernel/mm"
	"mipsos/kernel/mm/pmm"
	"mipsos/kernel/mm/vmm"
	"mipsos/kernel/thread"

	// drivers register themselves with the device registry.
	_ "mipsos/device/random"
)

var errKmainReturned = &kernel.Error{Module: "kmain", Message: "Kmain returned"}

// Kmain is invoked by the early boot code once the machine reports the free
// physical extent [ramLo, ramHi). It brings up the frame allocator, probes
// for hardware, installs the fault handlers and creates the boot thread.
//
// Kmain never returns: once the boot sequence completes it halts the CPU
// through kfmt.Panic.
func Kmain(ramLo, ramHi mm.PAddr) {
	machine.SetRAMExtent(ramLo, ramHi)

	pmm.Bootstrap()

	hal.DetectHardware()

	vmm.Init()
	thread.Init()

	kfmt.Panic(errKmainReturned)
}
