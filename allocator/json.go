package allocator

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/fitsim"
	"github.com/vkngwrapper/fitsim/metadata"
)

// PrintDetailedMap writes a json object describing the partition table, summary
// statistics and every chunk in both registries
func (a *Allocator) PrintDetailedMap(writer *jwriter.Writer) {
	objState := writer.Object()
	defer objState.End()

	partitions := objState.Name("Partitions").Array()
	for _, size := range a.partitions.Sizes() {
		partitions.Int(size)
	}
	partitions.End()

	var stats fitsim.DetailedStatistics
	stats.Clear()
	a.AddDetailedStatistics(&stats)

	objState.Name("TotalBytes").Int(stats.ChunkBytes)
	objState.Name("AllocatedBytes").Int(stats.AllocationBytes)
	objState.Name("UsedBytes").Int(stats.RequestedBytes)
	objState.Name("UnusedBytes").Int(stats.ChunkBytes - stats.AllocationBytes)
	objState.Name("Allocations").Int(stats.AllocationCount)
	objState.Name("FreeChunks").Int(stats.FreeChunkCount)

	allocated := objState.Name("Allocated").Array()
	_ = a.VisitAllocated(func(chunk metadata.Chunk, used int) error {
		obj := allocated.Object()
		defer obj.End()

		obj.Name("Address").String(chunk.Address.String())
		obj.Name("TotalSize").Int(chunk.Size)
		obj.Name("UsedSize").Int(used)
		return nil
	})
	allocated.End()

	free := objState.Name("Free").Array()
	_ = a.VisitFree(func(chunk metadata.Chunk) error {
		obj := free.Object()
		defer obj.End()

		obj.Name("Address").String(chunk.Address.String())
		obj.Name("TotalSize").Int(chunk.Size)
		return nil
	})
	free.End()
}
