package heap

import "github.com/vkngwrapper/fitsim/metadata"

//go:generate mockgen -source grower.go -destination ./mocks/grower.go

// Grower wraps a single heap-extension primitive. Grow extends the heap by n bytes and
// returns the base address of the newly added region. When the environment refuses to
// extend the heap, Grow returns an error wrapping fitsim.ErrHeapExhausted and the heap is
// left as it was.
type Grower interface {
	Grow(n int) (metadata.Address, error)
	// Grown returns the total number of bytes the heap has been extended by
	Grown() int
}
