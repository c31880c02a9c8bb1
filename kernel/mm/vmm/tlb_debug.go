package vmm

import (
	"io"

	"mipsos/kernel/cpu"
	"mipsos/kernel/hal/machine"
	"mipsos/kernel/kfmt"
)

// DumpTLB writes a human-readable table of every TLB slot to w. Reading the
// TLB is a hardware access, so the dump runs at high IPL like every other
// TLB operation.
func DumpTLB(w io.Writer) {
	spl := cpu.SplHigh()
	defer cpu.Splx(spl)

	kfmt.Fprintf(w, "+---TLB---------------------+\n")
	kfmt.Fprintf(w, "| idx | ehi      | elo      |\n")
	for i := 0; i < machine.NumTLB; i++ {
		ehi, elo := tlbReadFn(i)
		kfmt.Fprintf(w, "| %3d | %8x | %8x |\n", i, ehi, elo)
	}
	kfmt.Fprintf(w, "+---------------------------+\n")
}
