package stats

import "github.com/udisondev/combatcore/internal/observer"

// layer is the shared part of a provider that wraps an upstream provider.
// Upstream changes pass through unchanged, followed by a change for every
// stat of this layer that depends on them.
type layer struct {
	notifier

	upstream   Provider
	dependents map[Stat][]Stat
	self       func(Stat) float64
	sub        observer.Handle
}

func (l *layer) attach(upstream Provider, dependents map[Stat][]Stat, self func(Stat) float64) {
	l.upstream = upstream
	l.dependents = dependents
	l.self = self
	l.sub = upstream.AddObserver(Observer{OnStatsChanged: l.onUpstreamChanged})
}

func (l *layer) onUpstreamChanged(stat Stat, value float64) {
	l.dispatch(stat, value)
	for _, dep := range l.dependents[stat] {
		l.dispatch(dep, l.self(dep))
	}
}

// Close unsubscribes from the upstream provider.
func (l *layer) Close() {
	l.upstream.RemoveObserver(l.sub)
}
