// Package cpu models the MIPS coprocessor-0 interrupt priority level. The
// kernel is uniprocessor; raising the IPL to its highest level for the length
// of a critical section is the only mutual exclusion primitive the VM core
// uses.
package cpu

const (
	// IPLNone is the interrupt priority level where all interrupts are
	// enabled.
	IPLNone = 0

	// IPLHigh is the interrupt priority level where all interrupts are
	// masked. Code running at IPLHigh cannot be preempted.
	IPLHigh = 15
)

// curIPL tracks the current interrupt priority level.
var curIPL = IPLNone

// SplHigh raises the interrupt priority level to IPLHigh and returns the
// previous level. The caller must hand the returned value to Splx when
// leaving the critical section; nesting is safe since each caller restores
// the level it saw.
func SplHigh() int {
	old := curIPL
	curIPL = IPLHigh
	return old
}

// Splx restores the interrupt priority level to a value previously returned
// by SplHigh.
func Splx(level int) {
	curIPL = level
}

// CurIPL returns the current interrupt priority level.
func CurIPL() int {
	return curIPL
}

// Halt stops instruction processing. It is only reached through kfmt.Panic
// when the kernel detects a violated invariant.
func Halt() {
	panic("cpu: halted")
}
