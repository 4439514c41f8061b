package stats

import (
	"fmt"

	"github.com/udisondev/combatcore/internal/effect"
	"github.com/udisondev/combatcore/internal/observer"
)

// EffectSource is the effect manager surface the base layer reads.
type EffectSource interface {
	GetItem(id string) *effect.Item
	AddObserver(o effect.Observer) observer.Handle
	RemoveObserver(h observer.Handle) bool
}

type boundFormula struct {
	Formula
	item *effect.Item
}

// BaseProvider computes base stats from effect ledgers through a fixed
// formula table.
type BaseProvider struct {
	notifier

	effects  EffectSource
	formulas map[Stat]boundFormula
	byEffect map[string][]Stat
	sub      observer.Handle
}

var _ Provider = (*BaseProvider)(nil)

// NewBaseProvider binds formulas to the items of effects and subscribes to
// their count changes. Every formula must name a configured effect, and each
// stat may appear once.
func NewBaseProvider(effects EffectSource, formulas []Formula) (*BaseProvider, error) {
	p := &BaseProvider{
		effects:  effects,
		formulas: make(map[Stat]boundFormula, len(formulas)),
		byEffect: make(map[string][]Stat, len(formulas)),
	}

	for _, f := range formulas {
		if !f.Stat.Valid() {
			return nil, fmt.Errorf("formula for %s: invalid stat", f.Stat)
		}
		if _, dup := p.formulas[f.Stat]; dup {
			return nil, fmt.Errorf("formula for %s: defined twice", f.Stat)
		}
		item := effects.GetItem(f.Effect)
		if item == nil {
			return nil, fmt.Errorf("formula for %s: %w: %q", f.Stat, effect.ErrUnknownEffect, f.Effect)
		}
		p.formulas[f.Stat] = boundFormula{Formula: f, item: item}
		p.byEffect[f.Effect] = append(p.byEffect[f.Effect], f.Stat)
	}

	p.sub = effects.AddObserver(effect.Observer{
		OnItemCountChanged: p.onItemCountChanged,
	})
	return p, nil
}

// GetStats returns the value of a base stat.
func (p *BaseProvider) GetStats(stat Stat) float64 {
	f, ok := p.formulas[stat]
	if !ok {
		return unhandled("base", stat)
	}
	return f.Eval(f.item.Count(), f.item.Amount())
}

// Serves reports whether the table has a formula for stat.
func (p *BaseProvider) Serves(stat Stat) bool {
	_, ok := p.formulas[stat]
	return ok
}

// Close unsubscribes from the effect manager.
func (p *BaseProvider) Close() {
	p.effects.RemoveObserver(p.sub)
}

func (p *BaseProvider) onItemCountChanged(item *effect.Item, _, _ int) {
	for _, stat := range p.byEffect[item.ID()] {
		p.dispatch(stat, p.GetStats(stat))
	}
}
