package report

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/fitsim"
	"github.com/vkngwrapper/fitsim/metadata"
)

// Source is the read-only allocator state a report is built from
type Source interface {
	VisitAllocated(visit func(chunk metadata.Chunk, used int) error) error
	VisitFree(visit func(chunk metadata.Chunk) error) error
	PrintDetailedMap(writer *jwriter.Writer)
}

// WriteText lists the allocated registry, then the free registry, most recent chunk
// first. Each list ends with a blank line.
func WriteText(w io.Writer, src Source) error {
	_, err := fmt.Fprintf(w, "%s:\n", metadata.RegistryAllocated)
	if err != nil {
		return errors.WithStack(err)
	}

	err = src.VisitAllocated(func(chunk metadata.Chunk, used int) error {
		_, err := fmt.Fprintf(w, "Address: %s, Total Size: %d, Used Size: %d\n", chunk.Address, chunk.Size, used)
		return err
	})
	if err != nil {
		return errors.WithStack(err)
	}

	_, err = fmt.Fprintf(w, "\n%s:\n", metadata.RegistryFree)
	if err != nil {
		return errors.WithStack(err)
	}

	err = src.VisitFree(func(chunk metadata.Chunk) error {
		_, err := fmt.Fprintf(w, "Address: %s, Total Size: %d\n", chunk.Address, chunk.Size)
		return err
	})
	if err != nil {
		return errors.WithStack(err)
	}

	_, err = io.WriteString(w, "\n")
	return errors.WithStack(err)
}

// WriteJSON writes the source's detailed map followed by a newline
func WriteJSON(w io.Writer, src Source) error {
	writer := jwriter.NewWriter()
	src.PrintDetailedMap(&writer)
	if err := writer.Error(); err != nil {
		return errors.Wrap(err, "could not build json report")
	}

	_, err := w.Write(append(writer.Bytes(), '\n'))
	return errors.WithStack(err)
}

// WriteSummary writes a single line describing chunk usage with human-readable byte counts
func WriteSummary(w io.Writer, stats *fitsim.DetailedStatistics) error {
	_, err := fmt.Fprintf(w, "%d allocated (%s, %s requested), %d free (%s), %s grown, %s lost to rounding\n",
		stats.AllocationCount,
		humanize.IBytes(uint64(stats.AllocationBytes)),
		humanize.IBytes(uint64(stats.RequestedBytes)),
		stats.FreeChunkCount,
		humanize.IBytes(uint64(stats.ChunkBytes-stats.AllocationBytes)),
		humanize.IBytes(uint64(stats.ChunkBytes)),
		humanize.IBytes(uint64(stats.InternalFragmentation())),
	)
	return errors.WithStack(err)
}
