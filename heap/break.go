package heap

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/fitsim"
	"github.com/vkngwrapper/fitsim/metadata"
)

const (
	// DefaultBreakBase is the initial program break used when BreakOptions.Base is left empty
	DefaultBreakBase metadata.Address = 0x10000000
)

// BreakOptions contains optional settings when creating a Break. It is valid to leave all
// fields blank.
type BreakOptions struct {
	// Base is the address of the first byte handed out. Defaults to DefaultBreakBase.
	Base metadata.Address
	// Limit is the maximum number of bytes the heap may grow by. 0 means unlimited.
	Limit int
}

// Break is a deterministic simulation of a program break. Every Grow returns the current
// break and advances it by the requested number of bytes, so addresses are contiguous and
// reproducible from run to run.
type Break struct {
	base  metadata.Address
	brk   metadata.Address
	limit int
}

var _ Grower = &Break{}

func NewBreak(options BreakOptions) *Break {
	base := options.Base
	if base == metadata.NoAddress {
		base = DefaultBreakBase
	}

	return &Break{
		base:  base,
		brk:   base,
		limit: options.Limit,
	}
}

func (b *Break) Grow(n int) (metadata.Address, error) {
	if n <= 0 {
		return metadata.NoAddress, errors.Wrapf(fitsim.ErrInvalidSize, "cannot grow the heap by %d bytes", n)
	}

	if b.limit > 0 && b.Grown()+n > b.limit {
		return metadata.NoAddress, errors.Wrapf(fitsim.ErrHeapExhausted,
			"growing by %d bytes would exceed the %d byte limit (%d already grown)", n, b.limit, b.Grown())
	}

	next := b.brk + metadata.Address(n)
	if next < b.brk {
		return metadata.NoAddress, errors.Wrapf(fitsim.ErrHeapExhausted, "growing by %d bytes would overflow the address space", n)
	}

	addr := b.brk
	b.brk = next
	return addr, nil
}

func (b *Break) Grown() int { return int(b.brk - b.base) }

func (b *Break) Base() metadata.Address { return b.base }

// Current returns the current program break, the address the next Grow will return
func (b *Break) Current() metadata.Address { return b.brk }

func (b *Break) Limit() int { return b.limit }
