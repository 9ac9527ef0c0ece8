package allocator

import (
	"io"
	"log/slog"

	"github.com/vkngwrapper/fitsim/heap"
	"github.com/vkngwrapper/fitsim/metadata"
	"github.com/vkngwrapper/fitsim/partition"
)

// CreateOptions contains optional settings when creating an allocator. It is valid to leave
// all the fields blank.
type CreateOptions struct {
	// Partitions is the table of chunk sizes requests are rounded up to. Defaults to
	// partition.Default().
	Partitions *partition.Table
	// Grower extends the heap when no free chunk can satisfy a request. Defaults to a
	// heap.Break with no limit.
	Grower heap.Grower
}

// New creates a new Allocator with empty registries
//
// logger - Receives debug-level records for every operation. If nil, output is discarded.
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, options CreateOptions) (*Allocator, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	partitions := options.Partitions
	if partitions == nil {
		partitions = partition.Default()
	}

	grower := options.Grower
	if grower == nil {
		grower = heap.NewBreak(heap.BreakOptions{})
	}

	return &Allocator{
		logger:     logger,
		partitions: partitions,
		grower:     grower,
		free:       metadata.NewRegistry(metadata.RegistryFree),
		allocated:  metadata.NewRegistry(metadata.RegistryAllocated),
		ledger:     metadata.NewLedger(),
		order:      metadata.NewOrderTracker(),
	}, nil
}
