package metadata

import "github.com/dolthub/swiss"

// Ledger maps each allocated address to the size that was originally requested for it,
// before rounding up to a partition. It is bookkeeping for reports only and plays no part
// in allocation policy.
type Ledger struct {
	used *swiss.Map[Address, int]
	sum  int
}

func NewLedger() *Ledger {
	return &Ledger{used: swiss.NewMap[Address, int](42)}
}

func (l *Ledger) Set(addr Address, requested int) {
	if old, ok := l.used.Get(addr); ok {
		l.sum -= old
	}
	l.used.Put(addr, requested)
	l.sum += requested
}

// Get returns the requested size recorded for addr, or 0 if there is none
func (l *Ledger) Get(addr Address) int {
	requested, _ := l.used.Get(addr)
	return requested
}

func (l *Ledger) Has(addr Address) bool {
	return l.used.Has(addr)
}

func (l *Ledger) Erase(addr Address) {
	if old, ok := l.used.Get(addr); ok {
		l.sum -= old
		l.used.Delete(addr)
	}
}

func (l *Ledger) Len() int { return l.used.Count() }

// Sum returns the total requested bytes across every entry
func (l *Ledger) Sum() int { return l.sum }
