package fitsim

import "github.com/cockroachdb/errors"

var (
	// ErrOversizeRequest is returned when a requested size is larger than the largest partition
	ErrOversizeRequest = errors.New("chunk size exceeded maximum partition size")
	// ErrHeapExhausted is returned when the heap growth provider refuses to extend the heap
	ErrHeapExhausted = errors.New("failed to create new space")
	// ErrNothingToFree is returned by an address-less deallocation when no allocation is live
	ErrNothingToFree = errors.New("no memory to deallocate")
	// ErrUnknownAddress is returned when freeing an address that is not currently allocated
	ErrUnknownAddress = errors.New("attempting to free memory not allocated")

	// ErrInvalidSize is returned for negative request sizes and non-positive growth or capacity
	ErrInvalidSize = errors.New("invalid size")
	// ErrInvalidPartitionTable is returned when a partition table is empty, non-positive or not
	// strictly increasing
	ErrInvalidPartitionTable = errors.New("invalid partition table")
)

// PowerOfTwoError is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")
