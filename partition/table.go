package partition

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/fitsim"
)

var defaultSizes = []int{32, 64, 128, 256, 512}

// Table is an immutable, strictly increasing list of the chunk sizes an allocator
// is permitted to hand out. Every request is rounded up to one of these sizes.
type Table struct {
	sizes []int
}

// New creates a Table from the provided sizes. The sizes must be positive and
// strictly increasing, and there must be at least one.
func New(sizes ...int) (*Table, error) {
	if len(sizes) == 0 {
		return nil, errors.Wrap(fitsim.ErrInvalidPartitionTable, "at least one partition size is required")
	}

	for i, size := range sizes {
		if size <= 0 {
			return nil, errors.Wrapf(fitsim.ErrInvalidPartitionTable, "partition %d has non-positive size %d", i, size)
		}
		if i > 0 && size <= sizes[i-1] {
			return nil, errors.Wrapf(fitsim.ErrInvalidPartitionTable, "partition %d (%d) is not larger than partition %d (%d)", i, size, i-1, sizes[i-1])
		}
	}

	table := &Table{sizes: make([]int, len(sizes))}
	copy(table.sizes, sizes)
	return table, nil
}

// Default returns the table 32, 64, 128, 256, 512
func Default() *Table {
	table, err := New(defaultSizes...)
	if err != nil {
		panic(err)
	}
	return table
}

// Parse reads a comma-separated list of sizes, such as "32,64,128"
func Parse(s string) (*Table, error) {
	fields := strings.Split(s, ",")
	sizes := make([]int, 0, len(fields))
	for _, field := range fields {
		field = strings.TrimSpace(field)
		size, err := strconv.Atoi(field)
		if err != nil {
			return nil, errors.Wrapf(fitsim.ErrInvalidPartitionTable, "could not parse partition size %q", field)
		}
		sizes = append(sizes, size)
	}

	return New(sizes...)
}

// Classify returns the smallest partition size that can hold requested. The scan is
// linear and in ascending order, so the first match is also the smallest.
func (t *Table) Classify(requested int) (int, error) {
	if requested < 0 {
		return 0, errors.Wrapf(fitsim.ErrInvalidSize, "requested %d", requested)
	}

	for _, size := range t.sizes {
		if requested <= size {
			return size, nil
		}
	}

	return 0, errors.Wrapf(fitsim.ErrOversizeRequest, "requested %d, largest partition is %d", requested, t.Max())
}

// Sizes returns a copy of the partition sizes in ascending order
func (t *Table) Sizes() []int {
	sizes := make([]int, len(t.sizes))
	copy(sizes, t.sizes)
	return sizes
}

func (t *Table) Max() int { return t.sizes[len(t.sizes)-1] }

func (t *Table) Len() int { return len(t.sizes) }

// Index returns the class index of an exact partition size, or -1 if size is not a partition
func (t *Table) Index(size int) int {
	for i, partition := range t.sizes {
		if partition == size {
			return i
		}
		if partition > size {
			break
		}
	}
	return -1
}

func (t *Table) Contains(size int) bool {
	return t.Index(size) >= 0
}

func (t *Table) String() string {
	var sb strings.Builder
	for i, size := range t.sizes {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(size))
	}
	return sb.String()
}
