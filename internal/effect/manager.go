package effect

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/udisondev/combatcore/internal/observer"
	"github.com/udisondev/combatcore/internal/schedule"
)

// stack is one active instance of an effect. Matched by handle on removal,
// never by amount.
type stack struct {
	handle uint64
	timer  *schedule.Entry
	amount float64
}

// ledger holds the active stacks of one effect, oldest first.
type ledger struct {
	item    *Item
	config  Config
	amount  float64
	entries []*stack
}

func (l *ledger) indexOf(handle uint64) int {
	for i, s := range l.entries {
		if s.handle == handle {
			return i
		}
	}
	return -1
}

// Option configures a Manager.
type Option func(*Manager)

// WithPolicy sets the invariant violation policy. Default is PolicyStrict.
func WithPolicy(p Policy) Option {
	return func(m *Manager) {
		m.policy = p
	}
}

// Manager owns one ledger per configured effect id.
//
// Not safe for concurrent use. A Manager belongs to one owner and shares
// that owner's scheduler and update loop.
type Manager struct {
	scheduler schedule.Scheduler
	policy    Policy

	ledgers map[string]*ledger
	items   []*Item // configuration order

	observers  observer.Registry[Observer]
	nextHandle uint64
	disposed   bool
}

// NewManager creates a Manager with one ledger per config. Expiry timers are
// registered on scheduler, which the owner ticks.
func NewManager(scheduler schedule.Scheduler, configs []Config, opts ...Option) (*Manager, error) {
	if scheduler == nil {
		return nil, fmt.Errorf("%w: nil scheduler", ErrInvalidConfig)
	}
	if err := validateConfigs(configs); err != nil {
		return nil, err
	}

	m := &Manager{
		scheduler: scheduler,
		ledgers:   make(map[string]*ledger, len(configs)),
		items:     make([]*Item, 0, len(configs)),
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, c := range configs {
		item := &Item{id: c.ID, manager: m}
		m.ledgers[c.ID] = &ledger{item: item, config: c}
		m.items = append(m.items, item)
	}
	return m, nil
}

// GetItem returns the item for id, or nil if id was never configured.
func (m *Manager) GetItem(id string) *Item {
	l, ok := m.ledgers[id]
	if !ok {
		return nil
	}
	return l.item
}

// Items returns all items in configuration order.
func (m *Manager) Items() []*Item {
	out := make([]*Item, len(m.items))
	copy(out, m.items)
	return out
}

// AddObserver registers a manager-wide observer.
func (m *Manager) AddObserver(o Observer) observer.Handle {
	return m.observers.Add(o)
}

// RemoveObserver unregisters a manager-wide observer.
func (m *Manager) RemoveObserver(h observer.Handle) bool {
	return m.observers.Remove(h)
}

// StopAll removes every stack of every effect.
func (m *Manager) StopAll() {
	for _, item := range m.items {
		item.Stop(true)
	}
}

// Dispose cancels every pending expiry timer. Active stacks stay in their
// ledgers, so counts, amounts and the stats derived from them keep their last
// values and no notification is sent. Further Apply calls are ignored. Safe
// to call repeatedly.
func (m *Manager) Dispose() {
	for _, item := range m.items {
		for _, s := range m.ledgers[item.id].entries {
			m.scheduler.Clear(s.timer.ID())
		}
	}
	m.disposed = true
}

// apply pushes one stack onto the ledger and evicts the oldest stack if the
// ledger went over capacity.
func (m *Manager) apply(l *ledger, duration time.Duration, amount float64) {
	if m.disposed {
		slog.Warn("apply on disposed effect manager ignored", "effect", l.config.ID)
		return
	}

	m.nextHandle++
	s := &stack{handle: m.nextHandle, amount: amount}
	s.timer = m.scheduler.ScheduleOnce(duration, func() {
		m.remove(l, s)
	})

	l.entries = append(l.entries, s)
	l.amount += amount
	count := len(l.entries)

	l.item.dispatchCountChanged(count, 1)
	m.observers.Dispatch(func(o Observer) {
		if o.OnItemCountChanged != nil {
			o.OnItemCountChanged(l.item, count, 1)
		}
	})
	if l.config.Begin != nil {
		l.config.Begin(count, duration)
	}
	l.item.observers.Dispatch(func(o ItemObserver) {
		if o.OnBegin != nil {
			o.OnBegin(count, duration)
		}
	})
	m.observers.Dispatch(func(o Observer) {
		if o.OnItemBegin != nil {
			o.OnItemBegin(l.item, count, duration)
		}
	})

	if len(l.entries) > l.config.MaxCount {
		slog.Debug("effect over capacity, evicting oldest stack",
			"effect", l.config.ID,
			"maxCount", l.config.MaxCount)
		m.remove(l, l.entries[0])
	}
}

// remove takes stack s off the ledger. End notifications go out before the
// ledger changes, count-changed notifications after.
func (m *Manager) remove(l *ledger, s *stack) {
	if len(l.entries) == 0 {
		m.policy.violate(l.config.ID, "remove from empty ledger")
		return
	}
	if l.indexOf(s.handle) < 0 {
		m.policy.violate(l.config.ID, fmt.Sprintf("stack %d not in ledger", s.handle))
		return
	}

	count := len(l.entries)
	if l.config.End != nil {
		l.config.End(count)
	}
	l.item.observers.Dispatch(func(o ItemObserver) {
		if o.OnEnd != nil {
			o.OnEnd(count)
		}
	})
	m.observers.Dispatch(func(o Observer) {
		if o.OnItemEnd != nil {
			o.OnItemEnd(l.item, count)
		}
	})

	// An End handler may already have stopped this stack.
	idx := l.indexOf(s.handle)
	if idx < 0 {
		return
	}

	l.amount -= s.amount
	l.entries = slices.Delete(l.entries, idx, idx+1)
	m.scheduler.Clear(s.timer.ID())

	l.item.dispatchCountChanged(count, -1)
	m.observers.Dispatch(func(o Observer) {
		if o.OnItemCountChanged != nil {
			o.OnItemCountChanged(l.item, count, -1)
		}
	})
}

// stop removes the oldest stack, or all stacks when all is set.
func (m *Manager) stop(l *ledger, all bool) {
	if len(l.entries) == 0 {
		return
	}
	if !all {
		m.remove(l, l.entries[0])
		return
	}
	for len(l.entries) > 0 {
		m.remove(l, l.entries[0])
	}
}
