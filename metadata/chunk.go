package metadata

import "fmt"

// Address is an opaque, pointer-sized handle identifying a chunk. It is produced by a heap
// growth provider and is never interpreted by the registries.
type Address uintptr

const (
	// NoAddress is never handed out by a successful allocation
	NoAddress Address = 0
)

func (a Address) String() string {
	return fmt.Sprintf("0x%x", uintptr(a))
}

// Chunk is a region of memory identified by its address, and its partition size. Size is
// always one of the partition table's values, never the size that was originally requested.
type Chunk struct {
	Address Address
	Size    int
}
