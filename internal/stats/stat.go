// Package stats turns effect ledgers into named combat stats.
//
// Providers form a chain: BaseProvider reads effect counts and amounts,
// BodyProvider and AttackProvider wrap an upstream provider and add the
// character's base values. Every provider notifies observers when a stat it
// serves changes; stats are never cached.
package stats

import (
	"fmt"
	"strings"
)

// Stat names a derived quantity.
type Stat uint8

const (
	// Base layer: computed from effect ledgers.
	HealthBonus Stat = iota
	HealthMultiplier
	MovementSpeedMultiplier
	DefenseBonus
	DodgeRateBonus
	BoostHeartHealing
	DamageBonus
	DamageMultiplier
	CriticalRateBonus
	CriticalDamageBonus
	AttackSpeedMultiplier

	// Body layer.
	Health
	MaxHealth
	MovementSpeed
	Defense
	DodgeRate

	// Attack layer.
	Damage
	CriticalRate
	CriticalDamage
	AttackSpeed

	statCount
)

var statNames = [statCount]string{
	HealthBonus:             "HealthBonus",
	HealthMultiplier:        "HealthMultiplier",
	MovementSpeedMultiplier: "MovementSpeedMultiplier",
	DefenseBonus:            "DefenseBonus",
	DodgeRateBonus:          "DodgeRateBonus",
	BoostHeartHealing:       "BoostHeartHealing",
	DamageBonus:             "DamageBonus",
	DamageMultiplier:        "DamageMultiplier",
	CriticalRateBonus:       "CriticalRateBonus",
	CriticalDamageBonus:     "CriticalDamageBonus",
	AttackSpeedMultiplier:   "AttackSpeedMultiplier",
	Health:                  "Health",
	MaxHealth:               "MaxHealth",
	MovementSpeed:           "MovementSpeed",
	Defense:                 "Defense",
	DodgeRate:               "DodgeRate",
	Damage:                  "Damage",
	CriticalRate:            "CriticalRate",
	CriticalDamage:          "CriticalDamage",
	AttackSpeed:             "AttackSpeed",
}

// All returns every stat in declaration order.
func All() []Stat {
	out := make([]Stat, statCount)
	for i := range out {
		out[i] = Stat(i)
	}
	return out
}

func (s Stat) String() string {
	if s < statCount {
		return statNames[s]
	}
	return fmt.Sprintf("Stat(%d)", uint8(s))
}

// Valid reports whether s is a declared stat.
func (s Stat) Valid() bool { return s < statCount }

// ParseStat resolves a stat by name, case-insensitively.
func ParseStat(name string) (Stat, error) {
	for i, n := range statNames {
		if strings.EqualFold(n, name) {
			return Stat(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stat %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Stat) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown stat %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stat) UnmarshalText(text []byte) error {
	v, err := ParseStat(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// unhandled panics for a stat no provider in the chain serves. Reaching it
// means the chain was wired wrong.
func unhandled(layer string, s Stat) float64 {
	panic(fmt.Sprintf("stats: %s provider cannot serve %s", layer, s))
}
