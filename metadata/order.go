package metadata

import "golang.org/x/exp/slices"

// OrderTracker records live allocations in the order they were made, so that a
// deallocation without an address can release the most recent one.
type OrderTracker struct {
	stack []Address
}

func NewOrderTracker() *OrderTracker {
	return &OrderTracker{}
}

func (o *OrderTracker) Push(addr Address) {
	o.stack = append(o.stack, addr)
}

// Pop removes and returns the most recent address. The boolean is false when the
// tracker is empty.
func (o *OrderTracker) Pop() (Address, bool) {
	if len(o.stack) == 0 {
		return NoAddress, false
	}

	top := len(o.stack) - 1
	addr := o.stack[top]
	o.stack = o.stack[:top]
	return addr, true
}

func (o *OrderTracker) Len() int { return len(o.stack) }

func (o *OrderTracker) Contains(addr Address) bool {
	return slices.Contains(o.stack, addr)
}

// Remove deletes the most recent record of addr from anywhere in the tracker. This
// keeps the tracker in step with the allocated registry when a chunk is freed by address.
func (o *OrderTracker) Remove(addr Address) bool {
	for i := len(o.stack) - 1; i >= 0; i-- {
		if o.stack[i] == addr {
			o.stack = slices.Delete(o.stack, i, i+1)
			return true
		}
	}
	return false
}
