//go:build !unix

package heap

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/fitsim/metadata"
)

// Mapped is only available on unix platforms
type Mapped struct{}

var _ Grower = &Mapped{}

func NewMapped(capacity int) (*Mapped, error) {
	return nil, errors.New("the mapped heap is not supported on this platform")
}

func (m *Mapped) Grow(n int) (metadata.Address, error) {
	return metadata.NoAddress, errors.New("the mapped heap is not supported on this platform")
}

func (m *Mapped) Grown() int { return 0 }

func (m *Mapped) Capacity() int { return 0 }

func (m *Mapped) Bytes(addr metadata.Address, size int) ([]byte, error) {
	return nil, errors.New("the mapped heap is not supported on this platform")
}

func (m *Mapped) Close() error { return nil }
