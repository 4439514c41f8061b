package stats

import "github.com/udisondev/combatcore/internal/observer"

// Observer is notified when a stat value changes. Nil fields are skipped.
type Observer struct {
	OnStatsChanged func(stat Stat, value float64)
}

// Provider is the stat query surface shared by every layer.
type Provider interface {
	// GetStats returns the current value of stat. Panics on a stat the
	// chain does not serve.
	GetStats(stat Stat) float64
	AddObserver(o Observer) observer.Handle
	RemoveObserver(h observer.Handle) bool
}

// notifier is embedded by providers to publish stat changes.
type notifier struct {
	observers observer.Registry[Observer]
}

func (n *notifier) AddObserver(o Observer) observer.Handle {
	return n.observers.Add(o)
}

func (n *notifier) RemoveObserver(h observer.Handle) bool {
	return n.observers.Remove(h)
}

func (n *notifier) dispatch(stat Stat, value float64) {
	n.observers.Dispatch(func(o Observer) {
		if o.OnStatsChanged != nil {
			o.OnStatsChanged(stat, value)
		}
	})
}
