package stats

import (
	"fmt"
	"strings"
)

// Effect ids read by the default formula table.
const (
	EffectMaxHealthUp      = "MaxHealthUp"
	EffectVitality         = "Vitality"
	EffectMoveSpeedUp      = "MoveSpeedUp"
	EffectDefenseUp        = "DefenseUp"
	EffectDodgeUp          = "DodgeUp"
	EffectHeartHealingUp   = "HeartHealingUp"
	EffectSharpness        = "Sharpness"
	EffectAttackDamageUp   = "AttackDamageUp"
	EffectCriticalRateUp   = "CriticalRateUp"
	EffectCriticalDamageUp = "CriticalDamageUp"
	EffectAttackSpeedUp    = "AttackSpeedUp"
)

// Source selects which ledger value a formula reads.
type Source uint8

const (
	SourceCount  Source = iota // number of active stacks
	SourceAmount               // sum of the stacks' amounts
)

func (s Source) String() string {
	switch s {
	case SourceCount:
		return "count"
	case SourceAmount:
		return "amount"
	default:
		return fmt.Sprintf("Source(%d)", uint8(s))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Source) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "count":
		*s = SourceCount
	case "amount":
		*s = SourceAmount
	default:
		return fmt.Errorf("unknown formula source %q", text)
	}
	return nil
}

// Kind selects the formula shape.
type Kind uint8

const (
	KindMultiplier Kind = iota // 1 + rate*x
	KindBonus                  // rate*x
)

func (k Kind) String() string {
	switch k {
	case KindMultiplier:
		return "multiplier"
	case KindBonus:
		return "bonus"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "multiplier", "mul":
		*k = KindMultiplier
	case "bonus", "add":
		*k = KindBonus
	default:
		return fmt.Errorf("unknown formula kind %q", text)
	}
	return nil
}

// Formula derives one base stat from one effect ledger.
type Formula struct {
	Stat   Stat    `yaml:"stat"`
	Effect string  `yaml:"effect"`
	Source Source  `yaml:"source"`
	Kind   Kind    `yaml:"kind"`
	Rate   float64 `yaml:"rate"`
}

// Eval computes the stat from the ledger's count and amount.
func (f Formula) Eval(count int, amount float64) float64 {
	x := amount
	if f.Source == SourceCount {
		x = float64(count)
	}
	if f.Kind == KindMultiplier {
		return 1 + f.Rate*x
	}
	return f.Rate * x
}

// DefaultFormulas returns the built-in table, one formula per base stat.
func DefaultFormulas() []Formula {
	return []Formula{
		{Stat: HealthBonus, Effect: EffectVitality, Source: SourceAmount, Kind: KindBonus, Rate: 1},
		{Stat: HealthMultiplier, Effect: EffectMaxHealthUp, Source: SourceAmount, Kind: KindMultiplier, Rate: 0.1},
		{Stat: MovementSpeedMultiplier, Effect: EffectMoveSpeedUp, Source: SourceCount, Kind: KindMultiplier, Rate: 0.1},
		{Stat: DefenseBonus, Effect: EffectDefenseUp, Source: SourceCount, Kind: KindMultiplier, Rate: 0.1},
		{Stat: DodgeRateBonus, Effect: EffectDodgeUp, Source: SourceCount, Kind: KindBonus, Rate: 0.05},
		{Stat: BoostHeartHealing, Effect: EffectHeartHealingUp, Source: SourceCount, Kind: KindMultiplier, Rate: 0.5},
		{Stat: DamageBonus, Effect: EffectSharpness, Source: SourceAmount, Kind: KindBonus, Rate: 1},
		{Stat: DamageMultiplier, Effect: EffectAttackDamageUp, Source: SourceCount, Kind: KindMultiplier, Rate: 0.1},
		{Stat: CriticalRateBonus, Effect: EffectCriticalRateUp, Source: SourceCount, Kind: KindBonus, Rate: 0.05},
		{Stat: CriticalDamageBonus, Effect: EffectCriticalDamageUp, Source: SourceCount, Kind: KindBonus, Rate: 0.1},
		{Stat: AttackSpeedMultiplier, Effect: EffectAttackSpeedUp, Source: SourceCount, Kind: KindMultiplier, Rate: 0.1},
	}
}
