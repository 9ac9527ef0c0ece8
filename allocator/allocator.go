package allocator

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/fitsim"
	"github.com/vkngwrapper/fitsim/heap"
	"github.com/vkngwrapper/fitsim/metadata"
	"github.com/vkngwrapper/fitsim/partition"
)

// Allocator is a fixed-partition, first-fit allocator. Requests are rounded up to a
// partition size, served from the most recently freed chunk that is large enough, and
// only when no such chunk exists is the heap grown. Chunks are never split, merged or
// returned to the heap.
//
// Allocator is not safe for concurrent use.
type Allocator struct {
	logger     *slog.Logger
	partitions *partition.Table
	grower     heap.Grower

	free      *metadata.Registry
	allocated *metadata.Registry
	ledger    *metadata.Ledger
	order     *metadata.OrderTracker

	counters Counters
}

// Allocate reserves a chunk for requested bytes and returns its address. The free
// registry is always searched before the heap is grown. A reused chunk is recorded at
// the request's partition size, whatever size it was freed with. The error wraps
// fitsim.ErrOversizeRequest when requested is larger than the largest partition, and
// fitsim.ErrHeapExhausted when the heap could not be grown; in both cases no state is
// changed. If the grower hands back an unusable address, the allocator's registries are
// left as they were but the grower keeps the bytes it grew by.
func (a *Allocator) Allocate(requested int) (metadata.Address, error) {
	a.counters.AllocCalls++

	partitionSize, err := a.partitions.Classify(requested)
	if err != nil {
		a.logFailure("Allocator::Allocate", err, slog.Int("Requested", requested))
		return metadata.NoAddress, err
	}

	chunk, found := a.free.FirstFit(partitionSize)
	if found {
		a.free.Remove(chunk.Address)
		err = a.allocated.InsertFront(partitionSize, chunk.Address)
		if err != nil {
			panic(errors.Wrap(err, "free and allocated registries are no longer disjoint"))
		}

		a.counters.ReuseHits++
		a.commit(chunk.Address, requested)
		a.logger.LogAttrs(context.Background(), slog.LevelDebug, "Allocator::Allocate reused free chunk",
			slog.Int("Requested", requested),
			slog.Int("Partition", partitionSize),
			slog.Int("ChunkSize", chunk.Size),
			slog.String("Address", chunk.Address.String()),
		)
		return chunk.Address, nil
	}

	addr, err := a.grower.Grow(partitionSize)
	if err != nil {
		a.logFailure("Allocator::Allocate", err, slog.Int("Requested", requested), slog.Int("Partition", partitionSize))
		return metadata.NoAddress, err
	}
	if addr == metadata.NoAddress {
		err = errors.Newf("the heap grower returned no address for a %d byte growth", partitionSize)
		a.logFailure("Allocator::Allocate", err, slog.Int("Requested", requested), slog.Int("Partition", partitionSize))
		return metadata.NoAddress, err
	}
	if a.free.Contains(addr) || a.allocated.Contains(addr) {
		err = errors.Newf("the heap grower returned address %s, which is already in use", addr)
		a.logFailure("Allocator::Allocate", err, slog.Int("Requested", requested), slog.Int("Partition", partitionSize))
		return metadata.NoAddress, err
	}

	a.counters.GrowCalls++
	a.counters.GrowBytes += partitionSize

	err = a.allocated.InsertFront(partitionSize, addr)
	if err != nil {
		return metadata.NoAddress, errors.Wrap(err, "could not register a newly grown chunk")
	}

	a.commit(addr, requested)
	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "Allocator::Allocate grew heap",
		slog.Int("Requested", requested),
		slog.Int("Partition", partitionSize),
		slog.String("Address", addr.String()),
	)
	return addr, nil
}

func (a *Allocator) commit(addr metadata.Address, requested int) {
	a.order.Push(addr)
	a.ledger.Set(addr, requested)
	fitsim.DebugValidate(a)
}

// Deallocate frees the most recent live allocation and returns its address. The
// address popped from the allocation order is the only authority: that exact chunk
// moves to the free registry with its own size. When nothing is allocated, the error
// wraps fitsim.ErrNothingToFree.
func (a *Allocator) Deallocate() (metadata.Address, error) {
	a.counters.FreeCalls++

	addr, ok := a.order.Pop()
	if !ok {
		err := errors.WithStack(fitsim.ErrNothingToFree)
		a.logFailure("Allocator::Deallocate", err)
		return metadata.NoAddress, err
	}

	chunk, found := a.allocated.Get(addr)
	if !found {
		a.order.Push(addr)
		return metadata.NoAddress, errors.Wrapf(fitsim.ErrUnknownAddress, "allocation order tracked %s, but it is not allocated", addr)
	}

	a.release(chunk)
	return addr, nil
}

// DeallocateAddress frees the chunk at addr. If addr is not currently allocated, the
// error wraps fitsim.ErrUnknownAddress and no state is changed.
func (a *Allocator) DeallocateAddress(addr metadata.Address) error {
	a.counters.FreeCalls++

	chunk, found := a.allocated.Get(addr)
	if !found {
		err := errors.Wrapf(fitsim.ErrUnknownAddress, "address %s", addr)
		a.logFailure("Allocator::DeallocateAddress", err, slog.String("Address", addr.String()))
		return err
	}

	a.order.Remove(addr)
	a.release(chunk)
	return nil
}

func (a *Allocator) release(chunk metadata.Chunk) {
	requested := a.ledger.Get(chunk.Address)

	a.allocated.Remove(chunk.Address)
	err := a.free.InsertFront(chunk.Size, chunk.Address)
	if err != nil {
		panic(errors.Wrap(err, "free and allocated registries are no longer disjoint"))
	}
	a.ledger.Erase(chunk.Address)

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "Allocator::release freed chunk",
		slog.String("Address", chunk.Address.String()),
		slog.Int("ChunkSize", chunk.Size),
		slog.Int("Used", requested),
	)
	fitsim.DebugValidate(a)
}

func (a *Allocator) logFailure(op string, err error, attrs ...slog.Attr) {
	a.counters.Failures++
	attrs = append(attrs, slog.Any("error", err))
	a.logger.LogAttrs(context.Background(), slog.LevelDebug, op+" failed", attrs...)
}

// UsedSize returns the size originally requested for the allocation at addr, or 0 if
// addr is not allocated
func (a *Allocator) UsedSize(addr metadata.Address) int {
	return a.ledger.Get(addr)
}

// IsAllocated returns true if addr is currently handed out
func (a *Allocator) IsAllocated(addr metadata.Address) bool {
	return a.allocated.Contains(addr)
}

// IsFree returns true if addr is a chunk waiting in the free registry
func (a *Allocator) IsFree(addr metadata.Address) bool {
	return a.free.Contains(addr)
}

// VisitAllocated calls the callback for each live allocation, most recent first, along
// with the size originally requested for it
func (a *Allocator) VisitAllocated(visit func(chunk metadata.Chunk, used int) error) error {
	return a.allocated.Visit(func(chunk metadata.Chunk) error {
		return visit(chunk, a.ledger.Get(chunk.Address))
	})
}

// VisitFree calls the callback for each free chunk, most recently freed first
func (a *Allocator) VisitFree(visit func(chunk metadata.Chunk) error) error {
	return a.free.Visit(visit)
}

func (a *Allocator) AllocationCount() int { return a.allocated.Len() }

func (a *Allocator) FreeChunkCount() int { return a.free.Len() }

func (a *Allocator) Partitions() *partition.Table { return a.partitions }

func (a *Allocator) Grower() heap.Grower { return a.grower }
