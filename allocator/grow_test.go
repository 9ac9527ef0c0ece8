package allocator_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/fitsim"
	"github.com/vkngwrapper/fitsim/allocator"
	mock_heap "github.com/vkngwrapper/fitsim/heap/mocks"
	"github.com/vkngwrapper/fitsim/metadata"
	"go.uber.org/mock/gomock"
)

func TestGrowsExactlyOnceOnMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	grower := mock_heap.NewMockGrower(ctrl)
	grower.EXPECT().Grow(64).Return(metadata.Address(0x5000), nil).Times(1)

	alloc := readyAllocator(t, allocator.CreateOptions{Grower: grower})

	addr, err := alloc.Allocate(40)
	require.NoError(t, err)
	require.Equal(t, metadata.Address(0x5000), addr)
}

func TestReuseDoesNotGrow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	grower := mock_heap.NewMockGrower(ctrl)
	gomock.InOrder(
		grower.EXPECT().Grow(32).Return(metadata.Address(0x5000), nil),
		grower.EXPECT().Grow(32).Return(metadata.Address(0x6000), nil),
	)

	alloc := readyAllocator(t, allocator.CreateOptions{Grower: grower})

	first, err := alloc.Allocate(8)
	require.NoError(t, err)
	_, err = alloc.Deallocate()
	require.NoError(t, err)

	// Served from the free registry; a third Grow call would fail the controller
	reused, err := alloc.Allocate(16)
	require.NoError(t, err)
	require.Equal(t, first, reused)

	grown, err := alloc.Allocate(32)
	require.NoError(t, err)
	require.Equal(t, metadata.Address(0x6000), grown)
}

func TestGrowFailureLeavesStateUnchanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	grower := mock_heap.NewMockGrower(ctrl)
	grower.EXPECT().Grow(128).Return(metadata.NoAddress, errors.Wrap(fitsim.ErrHeapExhausted, "test refusal"))

	alloc := readyAllocator(t, allocator.CreateOptions{Grower: grower})

	addr, err := alloc.Allocate(100)
	require.True(t, errors.Is(err, fitsim.ErrHeapExhausted))
	require.Equal(t, metadata.NoAddress, addr)
	require.Equal(t, 0, alloc.AllocationCount())
	require.Equal(t, 0, alloc.FreeChunkCount())

	_, err = alloc.Deallocate()
	require.True(t, errors.Is(err, fitsim.ErrNothingToFree))
}

func TestGrowerReturningNoAddress(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	grower := mock_heap.NewMockGrower(ctrl)
	grower.EXPECT().Grow(32).Return(metadata.NoAddress, nil)

	alloc := readyAllocator(t, allocator.CreateOptions{Grower: grower})

	_, err := alloc.Allocate(1)
	require.Error(t, err)
	require.Equal(t, 0, alloc.AllocationCount())
	require.Equal(t, allocator.Counters{AllocCalls: 1, Failures: 1}, alloc.Counters())
}

func TestGrowerReturningAddressInUse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	grower := mock_heap.NewMockGrower(ctrl)
	grower.EXPECT().Grow(32).Return(metadata.Address(0x5000), nil).Times(2)

	alloc := readyAllocator(t, allocator.CreateOptions{Grower: grower})

	_, err := alloc.Allocate(1)
	require.NoError(t, err)

	_, err = alloc.Allocate(1)
	require.Error(t, err)
	require.Equal(t, 1, alloc.AllocationCount())
	require.Equal(t, 1, alloc.Counters().Failures)
	require.Equal(t, 1, alloc.Counters().GrowCalls)
	require.NoError(t, alloc.Validate())
}

func TestOversizeNeverGrows(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	grower := mock_heap.NewMockGrower(ctrl)
	alloc := readyAllocator(t, allocator.CreateOptions{Grower: grower})

	_, err := alloc.Allocate(513)
	require.True(t, errors.Is(err, fitsim.ErrOversizeRequest))
}
