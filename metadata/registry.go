package metadata

import (
	"github.com/dolthub/swiss"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// RegistryKind identifies which role a Registry plays within an allocator
type RegistryKind uint32

const (
	// RegistryFree holds chunks available for reuse
	RegistryFree RegistryKind = iota
	// RegistryAllocated holds chunks currently handed out
	RegistryAllocated
)

var registryKindMapping = map[RegistryKind]string{
	RegistryFree:      "Free List",
	RegistryAllocated: "Allocated List",
}

func (k RegistryKind) String() string {
	return registryKindMapping[k]
}

// Registry is an ordered collection of chunks keyed by address. Insertion always
// makes a chunk the most recent entry, and every scan runs from the most recent entry
// to the oldest. Paired with FirstFit, this means the most recently inserted chunk
// of sufficient size is the one found.
type Registry struct {
	kind    RegistryKind
	chunks  *swiss.Map[Address, int]
	order   []Address
	sumSize int
}

// NewRegistry creates an empty registry of the provided kind
func NewRegistry(kind RegistryKind) *Registry {
	return &Registry{
		kind:   kind,
		chunks: swiss.NewMap[Address, int](42),
	}
}

// Len returns the number of chunks in the registry
func (r *Registry) Len() int { return len(r.order) }

// SumSize returns the combined partition size of every chunk in the registry
func (r *Registry) SumSize() int { return r.sumSize }

// InsertFront adds a chunk as the most recent entry. An address may only be present
// once; inserting a duplicate returns an error and leaves the registry unchanged.
func (r *Registry) InsertFront(size int, addr Address) error {
	if size <= 0 {
		return errors.Errorf("%s: chunk %s has non-positive size %d", r.kind, addr, size)
	}
	if r.chunks.Has(addr) {
		return errors.Errorf("%s: chunk %s is already present", r.kind, addr)
	}

	r.chunks.Put(addr, size)
	r.order = append(r.order, addr)
	r.sumSize += size
	return nil
}

// Remove deletes the chunk with the provided address. If no such chunk exists, the
// registry is left unchanged and false is returned.
func (r *Registry) Remove(addr Address) bool {
	size, ok := r.chunks.Get(addr)
	if !ok {
		return false
	}

	index := r.indexOf(addr)
	if index < 0 {
		panic("registry address map and order list have diverged")
	}

	r.chunks.Delete(addr)
	r.order = slices.Delete(r.order, index, index+1)
	r.sumSize -= size
	return true
}

// indexOf searches from the most recent entry, since recent chunks are the ones
// most often removed
func (r *Registry) indexOf(addr Address) int {
	for i := len(r.order) - 1; i >= 0; i-- {
		if r.order[i] == addr {
			return i
		}
	}
	return -1
}

// Get retrieves the chunk with the provided address
func (r *Registry) Get(addr Address) (Chunk, bool) {
	size, ok := r.chunks.Get(addr)
	if !ok {
		return Chunk{}, false
	}
	return Chunk{Address: addr, Size: size}, true
}

// Contains returns true if a chunk with the provided address is present
func (r *Registry) Contains(addr Address) bool {
	return r.chunks.Has(addr)
}

// FirstFit returns the first chunk, from most recent to oldest, whose size is at
// least minSize. It is not a best fit: a larger chunk inserted more recently wins over
// an exact match inserted earlier.
func (r *Registry) FirstFit(minSize int) (Chunk, bool) {
	for i := len(r.order) - 1; i >= 0; i-- {
		addr := r.order[i]
		size, _ := r.chunks.Get(addr)
		if size >= minSize {
			return Chunk{Address: addr, Size: size}, true
		}
	}

	return Chunk{}, false
}

// Visit calls the provided callback once for each chunk, most recent first. Iteration
// stops at the first error, which is returned.
func (r *Registry) Visit(visit func(chunk Chunk) error) error {
	for i := len(r.order) - 1; i >= 0; i-- {
		addr := r.order[i]
		size, _ := r.chunks.Get(addr)
		if err := visit(Chunk{Address: addr, Size: size}); err != nil {
			return err
		}
	}
	return nil
}

// Validate performs internal consistency checks on the registry: the address map and the
// order list must describe the same chunks, and no chunk may have a non-positive size.
func (r *Registry) Validate() error {
	if r.chunks.Count() != len(r.order) {
		return errors.Errorf("%s: address map holds %d chunks but the order list holds %d", r.kind, r.chunks.Count(), len(r.order))
	}

	seen := make(map[Address]struct{}, len(r.order))
	var sumSize int
	for index, addr := range r.order {
		if _, dup := seen[addr]; dup {
			return errors.Errorf("%s: chunk %s appears more than once in the order list", r.kind, addr)
		}
		seen[addr] = struct{}{}

		size, ok := r.chunks.Get(addr)
		if !ok {
			return errors.Errorf("%s: chunk %s at order index %d is missing from the address map", r.kind, addr, index)
		}
		if size <= 0 {
			return errors.Errorf("%s: chunk %s has non-positive size %d", r.kind, addr, size)
		}
		sumSize += size
	}

	if sumSize != r.sumSize {
		return errors.Errorf("%s: chunks add up to %d bytes but the registry reports %d", r.kind, sumSize, r.sumSize)
	}

	return nil
}
