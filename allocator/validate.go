package allocator

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/fitsim"
	"github.com/vkngwrapper/fitsim/metadata"
)

var _ fitsim.Validatable = &Allocator{}

// Validate performs internal consistency checks across the registries, the ledger and
// the allocation order. When the allocator is functioning correctly, it should not be
// possible for this method to return an error.
func (a *Allocator) Validate() error {
	if err := a.free.Validate(); err != nil {
		return err
	}
	if err := a.allocated.Validate(); err != nil {
		return err
	}

	err := a.allocated.Visit(func(chunk metadata.Chunk) error {
		if a.free.Contains(chunk.Address) {
			return errors.Newf("chunk %s is in both the free and allocated registries", chunk.Address)
		}
		if !a.partitions.Contains(chunk.Size) {
			return errors.Newf("allocated chunk %s has size %d, which is not a partition size", chunk.Address, chunk.Size)
		}
		if !a.ledger.Has(chunk.Address) {
			return errors.Newf("allocated chunk %s has no used-size ledger entry", chunk.Address)
		}
		if used := a.ledger.Get(chunk.Address); used > chunk.Size {
			return errors.Newf("allocated chunk %s has size %d but the ledger records %d used bytes", chunk.Address, chunk.Size, used)
		}
		if !a.order.Contains(chunk.Address) {
			return errors.Newf("allocated chunk %s is missing from the allocation order", chunk.Address)
		}
		return nil
	})
	if err != nil {
		return err
	}

	err = a.free.Visit(func(chunk metadata.Chunk) error {
		if !a.partitions.Contains(chunk.Size) {
			return errors.Newf("free chunk %s has size %d, which is not a partition size", chunk.Address, chunk.Size)
		}
		return nil
	})
	if err != nil {
		return err
	}

	usedBytes := 0
	_ = a.allocated.Visit(func(chunk metadata.Chunk) error {
		usedBytes += a.ledger.Get(chunk.Address)
		return nil
	})
	if usedBytes != a.ledger.Sum() {
		return errors.Newf("allocated chunks use %d bytes but the ledger totals %d", usedBytes, a.ledger.Sum())
	}

	if a.ledger.Len() != a.allocated.Len() {
		return errors.Newf("the ledger has %d entries but there are %d allocated chunks", a.ledger.Len(), a.allocated.Len())
	}
	if a.order.Len() != a.allocated.Len() {
		return errors.Newf("the allocation order has %d entries but there are %d allocated chunks", a.order.Len(), a.allocated.Len())
	}

	return nil
}
