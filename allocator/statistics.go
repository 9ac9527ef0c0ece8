package allocator

import (
	"github.com/vkngwrapper/fitsim"
	"github.com/vkngwrapper/fitsim/metadata"
)

// Counters tracks how often each path through the allocator was taken
type Counters struct {
	AllocCalls int // Allocate calls, including failures
	ReuseHits  int // allocations served from the free registry
	GrowCalls  int // allocations that grew the heap
	GrowBytes  int // bytes the heap was grown by
	FreeCalls  int // Deallocate and DeallocateAddress calls, including failures
	Failures   int
}

func (a *Allocator) Counters() Counters {
	return a.counters
}

// AddStatistics sums this allocator's chunk accounting into the provided fitsim.Statistics
func (a *Allocator) AddStatistics(stats *fitsim.Statistics) {
	stats.ChunkCount += a.free.Len() + a.allocated.Len()
	stats.ChunkBytes += a.free.SumSize() + a.allocated.SumSize()
	stats.AllocationCount += a.allocated.Len()
	stats.AllocationBytes += a.allocated.SumSize()
}

// AddDetailedStatistics sums this allocator's chunk accounting into the provided
// fitsim.DetailedStatistics
func (a *Allocator) AddDetailedStatistics(stats *fitsim.DetailedStatistics) {
	_ = a.VisitAllocated(func(chunk metadata.Chunk, used int) error {
		stats.AddAllocation(chunk.Size, used)
		return nil
	})
	_ = a.VisitFree(func(chunk metadata.Chunk) error {
		stats.AddFreeChunk(chunk.Size)
		return nil
	})
}
