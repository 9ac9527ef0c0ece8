package fitsim_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/fitsim"
)

func TestDetailedStatisticsAccumulate(t *testing.T) {
	var left fitsim.DetailedStatistics
	left.Clear()
	left.AddAllocation(64, 40)
	left.AddFreeChunk(32)

	var right fitsim.DetailedStatistics
	right.Clear()
	right.AddAllocation(512, 300)
	right.AddAllocation(32, 1)

	left.AddDetailedStatistics(&right)

	require.Equal(t, fitsim.DetailedStatistics{
		Statistics: fitsim.Statistics{
			ChunkCount:      4,
			AllocationCount: 3,
			ChunkBytes:      640,
			AllocationBytes: 608,
		},
		FreeChunkCount:    1,
		RequestedBytes:    341,
		AllocationSizeMin: 32,
		AllocationSizeMax: 512,
		FreeChunkSizeMin:  32,
		FreeChunkSizeMax:  32,
	}, left)
	require.Equal(t, 267, left.InternalFragmentation())
}

func TestDetailedStatisticsClear(t *testing.T) {
	var stats fitsim.DetailedStatistics
	stats.AddAllocation(64, 1)
	stats.AddFreeChunk(128)
	stats.Clear()

	require.Equal(t, fitsim.DetailedStatistics{
		AllocationSizeMin: math.MaxInt,
		FreeChunkSizeMin:  math.MaxInt,
	}, stats)
}

func TestStatisticsAccumulate(t *testing.T) {
	stats := fitsim.Statistics{ChunkCount: 1, AllocationCount: 1, ChunkBytes: 32, AllocationBytes: 32}
	stats.AddStatistics(&fitsim.Statistics{ChunkCount: 2, ChunkBytes: 128})
	require.Equal(t, fitsim.Statistics{ChunkCount: 3, AllocationCount: 1, ChunkBytes: 160, AllocationBytes: 32}, stats)

	stats.Clear()
	require.Equal(t, fitsim.Statistics{}, stats)
}
