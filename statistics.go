package fitsim

import "math"

// Statistics holds the basic chunk accounting of an allocator. Every chunk that was
// ever grown is counted in ChunkCount and ChunkBytes, free or not.
type Statistics struct {
	ChunkCount      int
	AllocationCount int
	ChunkBytes      int
	AllocationBytes int
}

func (s *Statistics) Clear() {
	s.ChunkCount = 0
	s.AllocationCount = 0
	s.ChunkBytes = 0
	s.AllocationBytes = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.ChunkCount += other.ChunkCount
	s.AllocationCount += other.AllocationCount
	s.ChunkBytes += other.ChunkBytes
	s.AllocationBytes += other.AllocationBytes
}

type DetailedStatistics struct {
	Statistics
	FreeChunkCount int
	// RequestedBytes is the sum of the pre-rounding sizes of all live allocations
	RequestedBytes    int
	AllocationSizeMin int
	AllocationSizeMax int
	FreeChunkSizeMin  int
	FreeChunkSizeMax  int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.FreeChunkCount = 0
	s.RequestedBytes = 0
	s.AllocationSizeMin = math.MaxInt
	s.AllocationSizeMax = 0
	s.FreeChunkSizeMin = math.MaxInt
	s.FreeChunkSizeMax = 0
}

func (s *DetailedStatistics) AddFreeChunk(size int) {
	s.ChunkCount++
	s.ChunkBytes += size
	s.FreeChunkCount++

	if size < s.FreeChunkSizeMin {
		s.FreeChunkSizeMin = size
	}

	if size > s.FreeChunkSizeMax {
		s.FreeChunkSizeMax = size
	}
}

func (s *DetailedStatistics) AddAllocation(size, requested int) {
	s.ChunkCount++
	s.ChunkBytes += size
	s.AllocationCount++
	s.AllocationBytes += size
	s.RequestedBytes += requested

	if size < s.AllocationSizeMin {
		s.AllocationSizeMin = size
	}

	if size > s.AllocationSizeMax {
		s.AllocationSizeMax = size
	}
}

// InternalFragmentation is the number of allocated bytes lost to partition rounding
func (s *DetailedStatistics) InternalFragmentation() int {
	return s.AllocationBytes - s.RequestedBytes
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)
	s.FreeChunkCount += other.FreeChunkCount
	s.RequestedBytes += other.RequestedBytes

	if other.FreeChunkSizeMin < s.FreeChunkSizeMin {
		s.FreeChunkSizeMin = other.FreeChunkSizeMin
	}

	if other.FreeChunkSizeMax > s.FreeChunkSizeMax {
		s.FreeChunkSizeMax = other.FreeChunkSizeMax
	}

	if other.AllocationSizeMin < s.AllocationSizeMin {
		s.AllocationSizeMin = other.AllocationSizeMin
	}

	if other.AllocationSizeMax > s.AllocationSizeMax {
		s.AllocationSizeMax = other.AllocationSizeMax
	}
}
