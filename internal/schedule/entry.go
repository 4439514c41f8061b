// Package schedule implements the per-owner timer engine driven by one
// ProcessUpdate call per frame.
package schedule

import "time"

// ID identifies a schedule entry within its Manager.
type ID uint64

// Kind selects the firing rule of an Entry.
type Kind uint8

const (
	KindOnce   Kind = iota // fire once after the delay, then expire
	KindLoop               // fire every interval until cleared
	KindUpdate             // fire every tick with the raw delta until cleared
)

func (k Kind) String() string {
	switch k {
	case KindOnce:
		return "once"
	case KindLoop:
		return "loop"
	case KindUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// Entry is one timer registration. Owned by the Manager that created it;
// other components only hold a reference to query or clear it.
type Entry struct {
	id       ID
	kind     Kind
	duration time.Duration
	elapsed  time.Duration
	expired  bool
	callback func(delta time.Duration)
}

func (e *Entry) ID() ID                  { return e.id }
func (e *Entry) Kind() Kind              { return e.kind }
func (e *Entry) Duration() time.Duration { return e.duration }

// Elapsed returns time accumulated since scheduling (Once) or since the
// last fire (Loop). Update entries accumulate total time.
func (e *Entry) Elapsed() time.Duration { return e.elapsed }

// IsExpired reports whether the entry fired its last time or was cleared.
func (e *Entry) IsExpired() bool { return e.expired }

// advance moves the entry forward by delta and fires its callback according
// to its kind.
func (e *Entry) advance(delta time.Duration) {
	e.elapsed += delta

	switch e.kind {
	case KindOnce:
		if e.elapsed < e.duration {
			return
		}
		// Mark first so a callback that clears or queries this entry sees
		// the final state.
		e.expired = true
		e.callback(delta)

	case KindLoop:
		if e.elapsed < e.duration {
			return
		}
		if e.duration > 0 {
			e.elapsed -= e.duration
		} else {
			e.elapsed = 0
		}
		e.callback(delta)

	case KindUpdate:
		e.callback(delta)
	}
}
