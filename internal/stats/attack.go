package stats

// AttackConfig holds a character's base attack values.
type AttackConfig struct {
	Damage           float64 `yaml:"damage"`
	DamageMultiplier float64 `yaml:"damage_multiplier"`
	CriticalRate     float64 `yaml:"critical_rate"`
	CriticalDamage   float64 `yaml:"critical_damage"`
	AttackSpeed      float64 `yaml:"attack_speed"`
}

var attackDependents = map[Stat][]Stat{
	DamageBonus:           {Damage},
	DamageMultiplier:      {Damage},
	CriticalRateBonus:     {CriticalRate},
	CriticalDamageBonus:   {CriticalDamage},
	AttackSpeedMultiplier: {AttackSpeed},
}

// AttackProvider adds damage and critical stats on top of an upstream
// provider.
type AttackProvider struct {
	layer

	cfg AttackConfig
}

var _ Provider = (*AttackProvider)(nil)

// NewAttackProvider wraps upstream.
func NewAttackProvider(upstream Provider, cfg AttackConfig) *AttackProvider {
	p := &AttackProvider{cfg: cfg}
	p.attach(upstream, attackDependents, p.GetStats)
	return p
}

func (p *AttackProvider) GetStats(stat Stat) float64 {
	switch stat {
	case Damage:
		return (p.cfg.Damage + p.upstream.GetStats(DamageBonus)) * p.cfg.DamageMultiplier * p.upstream.GetStats(DamageMultiplier)
	case CriticalRate:
		return p.cfg.CriticalRate + p.upstream.GetStats(CriticalRateBonus)
	case CriticalDamage:
		return p.cfg.CriticalDamage + p.upstream.GetStats(CriticalDamageBonus)
	case AttackSpeed:
		return p.cfg.AttackSpeed * p.upstream.GetStats(AttackSpeedMultiplier)
	default:
		return p.upstream.GetStats(stat)
	}
}
