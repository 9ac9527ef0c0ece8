//go:build unix

package heap

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/fitsim"
	"github.com/vkngwrapper/fitsim/metadata"
	"golang.org/x/sys/unix"
)

// Mapped is a heap backed by a single anonymous private mapping reserved up front. Grow
// bumps through the mapping, so the addresses it returns are real addresses in this
// process. Once the reservation is used up, Grow reports fitsim.ErrHeapExhausted.
//
// The mapping is released by Close, and every address handed out becomes invalid.
type Mapped struct {
	data []byte
	used int
}

var _ Grower = &Mapped{}

// NewMapped reserves capacity bytes, rounded up to the system page size
func NewMapped(capacity int) (*Mapped, error) {
	if capacity <= 0 {
		return nil, errors.Wrapf(fitsim.ErrInvalidSize, "mapped heap capacity %d", capacity)
	}

	pageSize := unix.Getpagesize()
	if err := fitsim.CheckPow2(pageSize, "page size"); err != nil {
		return nil, err
	}
	capacity = fitsim.AlignUp(capacity, uint(pageSize))

	data, err := unix.Mmap(-1, 0, capacity, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, errors.Wrapf(err, "could not reserve %d bytes for the heap", capacity)
	}

	return &Mapped{data: data}, nil
}

func (m *Mapped) Grow(n int) (metadata.Address, error) {
	if m.data == nil {
		return metadata.NoAddress, errors.New("the heap mapping has been closed")
	}
	if n <= 0 {
		return metadata.NoAddress, errors.Wrapf(fitsim.ErrInvalidSize, "cannot grow the heap by %d bytes", n)
	}
	if m.used+n > len(m.data) {
		return metadata.NoAddress, errors.Wrapf(fitsim.ErrHeapExhausted,
			"growing by %d bytes would exceed the %d byte mapping (%d already grown)", n, len(m.data), m.used)
	}

	addr := metadata.Address(uintptr(unsafe.Pointer(&m.data[m.used])))
	m.used += n
	return addr, nil
}

func (m *Mapped) Grown() int { return m.used }

// Capacity returns the size of the reservation in bytes
func (m *Mapped) Capacity() int { return len(m.data) }

// Bytes returns the memory backing a region previously returned by Grow
func (m *Mapped) Bytes(addr metadata.Address, size int) ([]byte, error) {
	if m.data == nil {
		return nil, errors.New("the heap mapping has been closed")
	}

	base := uintptr(unsafe.Pointer(&m.data[0]))
	offset := int(uintptr(addr) - base)
	if uintptr(addr) < base || offset+size > m.used {
		return nil, errors.Newf("region %s+%d is outside the grown heap", addr, size)
	}

	return m.data[offset : offset+size : offset+size], nil
}

func (m *Mapped) Close() error {
	if m.data == nil {
		return nil
	}

	err := unix.Munmap(m.data)
	m.data = nil
	m.used = 0
	return err
}
