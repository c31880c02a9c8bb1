// Package thread carries the minimal thread model the VM subsystem needs:
// a current-thread pointer whose record names the active address space.
package thread

import "mipsos/kernel/mm/vmm"

// Thread describes one kernel-visible thread of execution.
type Thread struct {
	// Name identifies the thread in diagnostics.
	Name string

	// VMSpace is the address space the thread runs in, or nil for pure
	// kernel threads.
	VMSpace *vmm.AddrSpace
}

// current points to the running thread. The machine is uniprocessor; there
// is exactly one.
var current *Thread

// Current returns the running thread, or nil before Init.
func Current() *Thread {
	return current
}

// SetCurrent installs t as the running thread. The scheduler calls this on
// every context switch.
func SetCurrent(t *Thread) {
	current = t
}

// Init creates the boot thread and registers the current-address-space
// provider consumed by the fault handler.
func Init() {
	current = &Thread{Name: "<boot>"}

	vmm.SetCurrentAddrSpaceProvider(func() *vmm.AddrSpace {
		if current == nil {
			return nil
		}
		return current.VMSpace
	})
}
