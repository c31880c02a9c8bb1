package mm

import "testing"

func TestPAddrAlignmentHelpers(t *testing.T) {
	specs := []struct {
		in      PAddr
		expBase PAddr
		aligned bool
	}{
		{0, 0, true},
		{0x00100000, 0x00100000, true},
		{0x00100fff, 0x00100000, false},
		{0x00101234, 0x00101000, false},
	}

	for specIndex, spec := range specs {
		if got := spec.in.PageBase(); got != spec.expBase {
			t.Errorf("[spec %d] expected page base 0x%x; got 0x%x", specIndex, spec.expBase, got)
		}
		if got := spec.in.PageAligned(); got != spec.aligned {
			t.Errorf("[spec %d] expected aligned to be %t; got %t", specIndex, spec.aligned, got)
		}
	}
}

func TestVAddrAlignmentHelpers(t *testing.T) {
	if got := VAddr(0x00401234).PageBase(); got != VAddr(0x00401000) {
		t.Fatalf("expected page base 0x00401000; got 0x%x", got)
	}
	if !VAddr(0x00400000).PageAligned() {
		t.Fatal("expected 0x00400000 to be page-aligned")
	}
}

func TestRoundUpToPage(t *testing.T) {
	specs := []struct {
		in, exp uintptr
	}{
		{0, 0},
		{1, PageSize},
		{PageSize, PageSize},
		{PageSize + 1, 2 * PageSize},
	}

	for specIndex, spec := range specs {
		if got := RoundUpToPage(spec.in); got != spec.exp {
			t.Errorf("[spec %d] expected RoundUpToPage(%d) to return %d; got %d", specIndex, spec.in, spec.exp, got)
		}
	}
}

func TestExtentAllocatorSeam(t *testing.T) {
	defer SetExtentAllocator(nil, nil)

	var (
		gotNpages uintptr
		gotFree   PAddr
	)
	SetExtentAllocator(
		func(npages uintptr) PAddr {
			gotNpages = npages
			return PAddr(0x00200000)
		},
		func(pa PAddr) { gotFree = pa },
	)

	if got := AllocExtent(3); got != PAddr(0x00200000) {
		t.Fatalf("expected AllocExtent to return 0x00200000; got 0x%x", got)
	}
	if gotNpages != 3 {
		t.Fatalf("expected registered allocator to receive npages=3; got %d", gotNpages)
	}

	FreeExtent(PAddr(0x00200000))
	if gotFree != PAddr(0x00200000) {
		t.Fatalf("expected registered free fn to receive 0x00200000; got 0x%x", gotFree)
	}
}
