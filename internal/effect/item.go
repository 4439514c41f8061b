package effect

import (
	"time"

	"github.com/udisondev/combatcore/internal/observer"
)

// Item is the handle for one configured effect. It holds no ledger state of
// its own and forwards every query to its Manager.
type Item struct {
	id        string
	manager   *Manager
	observers observer.Registry[ItemObserver]
}

// ID returns the effect id.
func (it *Item) ID() string { return it.id }

func (it *Item) ledger() *ledger { return it.manager.ledgers[it.id] }

func (it *Item) newest() *stack {
	l := it.ledger()
	if len(l.entries) == 0 {
		return nil
	}
	return l.entries[len(l.entries)-1]
}

// Count returns the number of active stacks.
func (it *Item) Count() int { return len(it.ledger().entries) }

// Amount returns the sum of the active stacks' amounts.
func (it *Item) Amount() float64 { return it.ledger().amount }

// MaxCount returns the configured stack capacity.
func (it *Item) MaxCount() int { return it.ledger().config.MaxCount }

// Duration returns the full duration of the newest stack, or 0.
func (it *Item) Duration() time.Duration {
	if s := it.newest(); s != nil {
		return s.timer.Duration()
	}
	return 0
}

// ElapsedDuration returns how long the newest stack has been active, or 0.
func (it *Item) ElapsedDuration() time.Duration {
	if s := it.newest(); s != nil {
		return s.timer.Elapsed()
	}
	return 0
}

// Remaining returns the time left on the newest stack, or 0.
func (it *Item) Remaining() time.Duration {
	if s := it.newest(); s != nil {
		return max(s.timer.Duration()-s.timer.Elapsed(), 0)
	}
	return 0
}

// IsEffective reports whether at least one stack is active.
func (it *Item) IsEffective() bool { return it.Count() > 0 }

// Apply adds count stacks, each lasting duration and contributing amount.
func (it *Item) Apply(duration time.Duration, count int, amount float64) {
	l := it.ledger()
	for range count {
		it.manager.apply(l, duration, amount)
	}
}

// Stop removes the oldest stack, or every stack when all is set.
// No-op when nothing is active.
func (it *Item) Stop(all bool) {
	it.manager.stop(it.ledger(), all)
}

// AddObserver registers an observer for this effect only.
func (it *Item) AddObserver(o ItemObserver) observer.Handle {
	return it.observers.Add(o)
}

// RemoveObserver unregisters an item observer.
func (it *Item) RemoveObserver(h observer.Handle) bool {
	return it.observers.Remove(h)
}

func (it *Item) dispatchCountChanged(count, delta int) {
	it.observers.Dispatch(func(o ItemObserver) {
		if o.OnCountChanged != nil {
			o.OnCountChanged(count, delta)
		}
	})
}
