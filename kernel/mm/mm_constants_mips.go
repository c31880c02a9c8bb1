package mm

const (
	// PageShift is equal to log2(PageSize). This constant is used when we
	// need to convert an address to a page number (shift right by
	// PageShift) and vice-versa.
	PageShift = uintptr(12)

	// PageSize defines the system's page size in bytes.
	PageSize = uintptr(1 << PageShift)

	// PageFrame masks off the in-page offset bits of an address, leaving
	// the page-aligned base.
	PageFrame = ^(PageSize - 1)
)
