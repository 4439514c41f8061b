package schedule

import (
	"log/slog"
	"time"
)

// Scheduler is the timer surface other components depend on.
type Scheduler interface {
	ScheduleOnce(delay time.Duration, fn func()) *Entry
	Schedule(interval time.Duration, fn func()) *Entry
	ScheduleUpdate(fn func(delta time.Duration)) *Entry
	Clear(id ID)
}

// Manager owns a table of schedule entries in insertion order.
//
// Not safe for concurrent use. All calls happen on the owner's update loop.
type Manager struct {
	nextID   ID
	entries  []*Entry
	byID     map[ID]*Entry
	updating bool
	resets   uint64
}

var _ Scheduler = (*Manager)(nil)

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		entries: make([]*Entry, 0, 16),
		byID:    make(map[ID]*Entry, 16),
	}
}

// ScheduleOnce fires fn once, on the first ProcessUpdate where the
// accumulated time reaches delay.
func (m *Manager) ScheduleOnce(delay time.Duration, fn func()) *Entry {
	return m.add(KindOnce, delay, func(time.Duration) { fn() })
}

// Schedule fires fn every interval until the entry is cleared.
// At most one fire per ProcessUpdate; leftover time carries to the next
// interval.
func (m *Manager) Schedule(interval time.Duration, fn func()) *Entry {
	return m.add(KindLoop, interval, func(time.Duration) { fn() })
}

// ScheduleUpdate fires fn on every ProcessUpdate with the raw delta until
// the entry is cleared.
func (m *Manager) ScheduleUpdate(fn func(delta time.Duration)) *Entry {
	return m.add(KindUpdate, 0, fn)
}

func (m *Manager) add(kind Kind, d time.Duration, fn func(time.Duration)) *Entry {
	m.nextID++
	e := &Entry{
		id:       m.nextID,
		kind:     kind,
		duration: d,
		callback: fn,
	}
	m.entries = append(m.entries, e)
	m.byID[e.id] = e
	return e
}

// Clear marks the entry expired. The entry leaves the table on the next
// sweep. Unknown or already expired ids are ignored.
func (m *Manager) Clear(id ID) {
	if e, ok := m.byID[id]; ok {
		e.expired = true
	}
}

// ClearAll expires every entry and empties the table immediately.
func (m *Manager) ClearAll() {
	m.resets++
	for _, e := range m.entries {
		e.expired = true
	}
	clear(m.entries)
	m.entries = m.entries[:0]
	clear(m.byID)
}

// Get returns the entry with the given id, or nil once it has been swept.
func (m *Manager) Get(id ID) *Entry {
	return m.byID[id]
}

// Pending returns the number of entries that can still fire.
func (m *Manager) Pending() int {
	n := 0
	for _, e := range m.entries {
		if !e.expired {
			n++
		}
	}
	return n
}

// ProcessUpdate advances every live entry by delta and fires the due ones in
// registration order, then sweeps expired entries out of the table.
// Entries scheduled by callbacks during the sweep first run on the next call.
func (m *Manager) ProcessUpdate(delta time.Duration) {
	if m.updating {
		slog.Warn("nested schedule update ignored", "delta", delta)
		return
	}
	m.updating = true
	defer func() { m.updating = false }()

	n := len(m.entries)
	resets := m.resets
	for i := 0; i < n && i < len(m.entries) && resets == m.resets; i++ {
		e := m.entries[i]
		if e.expired {
			continue
		}
		e.advance(delta)
	}

	m.sweep()
}

func (m *Manager) sweep() {
	n := 0
	for _, e := range m.entries {
		if e.expired {
			delete(m.byID, e.id)
			continue
		}
		m.entries[n] = e
		n++
	}
	clear(m.entries[n:])
	m.entries = m.entries[:n]
}
