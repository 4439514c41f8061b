package stats

import "github.com/udisondev/combatcore/internal/observer"

// BodyConfig holds a character's base body values.
type BodyConfig struct {
	MaxHealth float64 `yaml:"max_health"`
	MoveSpeed float64 `yaml:"move_speed"`
	Defense   float64 `yaml:"defense"`
	DodgeRate float64 `yaml:"dodge_rate"`
}

var bodyDependents = map[Stat][]Stat{
	HealthBonus:             {Health, MaxHealth},
	HealthMultiplier:        {Health, MaxHealth},
	MovementSpeedMultiplier: {MovementSpeed},
	DefenseBonus:            {Defense},
	DodgeRateBonus:          {DodgeRate},
}

// BodyObserver is notified of hits and heals. Nil fields are skipped.
type BodyObserver struct {
	OnDamageTaken func(amount float64)
	OnHealed      func(amount float64)
	OnDied        func()
}

// BodyProvider adds health, movement and defense on top of an upstream
// provider.
//
// Health is stored as a fraction of MaxHealth, so a MaxHealth change
// rescales current health instead of leaving it stale.
type BodyProvider struct {
	layer

	cfg              BodyConfig
	healthPercentage float64
	bodyObservers    observer.Registry[BodyObserver]
}

var _ Provider = (*BodyProvider)(nil)

// NewBodyProvider wraps upstream. The body starts at full health.
func NewBodyProvider(upstream Provider, cfg BodyConfig) *BodyProvider {
	p := &BodyProvider{
		cfg:              cfg,
		healthPercentage: 1,
	}
	p.attach(upstream, bodyDependents, p.GetStats)
	return p
}

func (p *BodyProvider) GetStats(stat Stat) float64 {
	switch stat {
	case MaxHealth:
		return (p.cfg.MaxHealth + p.upstream.GetStats(HealthBonus)) * p.upstream.GetStats(HealthMultiplier)
	case Health:
		return p.healthPercentage * p.GetStats(MaxHealth)
	case MovementSpeed:
		return p.cfg.MoveSpeed * p.upstream.GetStats(MovementSpeedMultiplier)
	case Defense:
		return p.cfg.Defense * p.upstream.GetStats(DefenseBonus)
	case DodgeRate:
		return p.cfg.DodgeRate + p.upstream.GetStats(DodgeRateBonus)
	default:
		return p.upstream.GetStats(stat)
	}
}

// HealthPercentage returns current health as a fraction of MaxHealth.
func (p *BodyProvider) HealthPercentage() float64 { return p.healthPercentage }

// IsDead reports whether health reached zero.
func (p *BodyProvider) IsDead() bool { return p.healthPercentage <= 0 }

// AddBodyObserver registers a hit/heal observer.
func (p *BodyProvider) AddBodyObserver(o BodyObserver) observer.Handle {
	return p.bodyObservers.Add(o)
}

// RemoveBodyObserver unregisters a hit/heal observer.
func (p *BodyProvider) RemoveBodyObserver(h observer.Handle) bool {
	return p.bodyObservers.Remove(h)
}

// TakeDamage converts amount into a fraction of the current MaxHealth and
// subtracts it. Health never drops below zero. Non-positive damage is ignored.
func (p *BodyProvider) TakeDamage(amount float64) {
	if amount <= 0 {
		return
	}

	wasAlive := !p.IsDead()
	maxHealth := p.GetStats(MaxHealth)
	if maxHealth <= 0 {
		p.healthPercentage = 0
	} else {
		p.healthPercentage = max(p.healthPercentage-amount/maxHealth, 0)
	}

	p.dispatch(Health, p.GetStats(Health))
	p.bodyObservers.Dispatch(func(o BodyObserver) {
		if o.OnDamageTaken != nil {
			o.OnDamageTaken(amount)
		}
	})
	if wasAlive && p.IsDead() {
		p.bodyObservers.Dispatch(func(o BodyObserver) {
			if o.OnDied != nil {
				o.OnDied()
			}
		})
	}
}

// Heal restores health. Heart heals are scaled by BoostHeartHealing. Health
// never exceeds MaxHealth; a heal that amounts to nothing dispatches nothing.
func (p *BodyProvider) Heal(amount float64, isHealByHeart bool) {
	if isHealByHeart {
		amount *= p.upstream.GetStats(BoostHeartHealing)
	}
	if amount <= 0 {
		return
	}
	maxHealth := p.GetStats(MaxHealth)
	if maxHealth <= 0 {
		return
	}

	p.healthPercentage = min(p.healthPercentage+amount/maxHealth, 1)

	p.dispatch(Health, p.GetStats(Health))
	p.bodyObservers.Dispatch(func(o BodyObserver) {
		if o.OnHealed != nil {
			o.OnHealed(amount)
		}
	})
}

// Restore resets the body to full health, e.g. when a pooled character
// respawns.
func (p *BodyProvider) Restore() {
	if p.healthPercentage == 1 {
		return
	}
	p.healthPercentage = 1
	p.dispatch(Health, p.GetStats(Health))
}
