package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/combatcore/internal/effect"
	"github.com/udisondev/combatcore/internal/stats"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Effect configures one stackable effect.
type Effect struct {
	ID       string `yaml:"id"`
	MaxCount int    `yaml:"max_count"`
}

// Archetype holds the base values of one kind of character.
type Archetype struct {
	Body   stats.BodyConfig   `yaml:"body"`
	Attack stats.AttackConfig `yaml:"attack"`
}

// Engine holds all configuration for the effect/stat engine.
type Engine struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// StrictInvariants panics on broken ledger invariants instead of
	// logging them. Keep on outside production.
	StrictInvariants bool `yaml:"strict_invariants"`

	TickInterval time.Duration `yaml:"tick_interval"`

	Effects    []Effect        `yaml:"effects"`
	Formulas   []stats.Formula `yaml:"formulas"`
	Archetypes Archetypes      `yaml:"archetypes"`

	Scenario Scenario `yaml:"scenario"`
}

// Archetypes maps archetype names to their base values.
type Archetypes map[string]Archetype

// UnmarshalYAML decodes each archetype on top of the value already held under
// its name, so a file can override single fields of a built-in archetype.
func (a *Archetypes) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("archetypes: expected mapping, got %s", node.ShortTag())
	}
	if *a == nil {
		*a = make(Archetypes, len(node.Content)/2)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var name string
		if err := node.Content[i].Decode(&name); err != nil {
			return fmt.Errorf("archetypes: %w", err)
		}
		arch := (*a)[name]
		if err := node.Content[i+1].Decode(&arch); err != nil {
			return fmt.Errorf("archetype %s: %w", name, err)
		}
		(*a)[name] = arch
	}
	return nil
}

// DefaultEffects returns one effect per default formula, capped at 5 stacks.
func DefaultEffects() []Effect {
	formulas := stats.DefaultFormulas()
	out := make([]Effect, 0, len(formulas))
	for _, f := range formulas {
		out = append(out, Effect{ID: f.Effect, MaxCount: 5})
	}
	return out
}

// DefaultArchetypes returns the built-in player and enemy archetypes.
func DefaultArchetypes() Archetypes {
	return Archetypes{
		"player": {
			Body:   stats.BodyConfig{MaxHealth: 100, MoveSpeed: 5, Defense: 10, DodgeRate: 0.05},
			Attack: stats.AttackConfig{Damage: 10, DamageMultiplier: 1, CriticalRate: 0.05, CriticalDamage: 1.5, AttackSpeed: 1},
		},
		"slime": {
			Body:   stats.BodyConfig{MaxHealth: 40, MoveSpeed: 2, Defense: 2},
			Attack: stats.AttackConfig{Damage: 4, DamageMultiplier: 1, CriticalDamage: 1.5, AttackSpeed: 0.5},
		},
	}
}

// DefaultEngine returns Engine config with sensible defaults.
func DefaultEngine() Engine {
	return Engine{
		LogLevel:         "info",
		StrictInvariants: true,
		TickInterval:     100 * time.Millisecond,
		Effects:          DefaultEffects(),
		Formulas:         stats.DefaultFormulas(),
		Archetypes:       DefaultArchetypes(),
		Scenario:         DefaultScenario(),
	}
}

// LoadEngine loads engine config from a YAML file on top of the defaults.
// If the file doesn't exist, returns defaults.
func LoadEngine(path string) (Engine, error) {
	cfg := DefaultEngine()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}

// Policy returns the invariant policy selected by StrictInvariants.
func (e Engine) Policy() effect.Policy {
	if e.StrictInvariants {
		return effect.PolicyStrict
	}
	return effect.PolicyLenient
}

// EffectConfigs converts the effect list for effect.NewManager.
// Begin/End hooks are left for the caller to fill.
func (e Engine) EffectConfigs() []effect.Config {
	out := make([]effect.Config, len(e.Effects))
	for i, ec := range e.Effects {
		out[i] = effect.Config{ID: ec.ID, MaxCount: ec.MaxCount}
	}
	return out
}

// HasEffect reports whether id is configured.
func (e Engine) HasEffect(id string) bool {
	for _, ec := range e.Effects {
		if ec.ID == id {
			return true
		}
	}
	return false
}

// Validate checks cross-references between effects, formulas, archetypes
// and the scenario.
func (e Engine) Validate() error {
	if e.TickInterval <= 0 {
		return fmt.Errorf("%w: tick_interval must be positive, got %s", ErrInvalid, e.TickInterval)
	}

	seen := make(map[string]struct{}, len(e.Effects))
	for _, ec := range e.Effects {
		if ec.ID == "" {
			return fmt.Errorf("%w: effect with empty id", ErrInvalid)
		}
		if ec.MaxCount < 1 {
			return fmt.Errorf("%w: effect %s: max_count must be >= 1", ErrInvalid, ec.ID)
		}
		if _, dup := seen[ec.ID]; dup {
			return fmt.Errorf("%w: effect %s defined twice", ErrInvalid, ec.ID)
		}
		seen[ec.ID] = struct{}{}
	}

	for _, f := range e.Formulas {
		if _, ok := seen[f.Effect]; !ok {
			return fmt.Errorf("%w: formula for %s references unknown effect %q", ErrInvalid, f.Stat, f.Effect)
		}
	}

	for name, a := range e.Archetypes {
		if a.Body.MaxHealth <= 0 {
			return fmt.Errorf("%w: archetype %s: body.max_health must be positive", ErrInvalid, name)
		}
		if a.Attack.DamageMultiplier <= 0 {
			return fmt.Errorf("%w: archetype %s: attack.damage_multiplier must be positive", ErrInvalid, name)
		}
	}

	return e.Scenario.validate(e)
}
