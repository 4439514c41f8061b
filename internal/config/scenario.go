package config

import (
	"fmt"
	"time"
)

// Action is a scenario event kind.
type Action string

const (
	ActionApply  Action = "apply"
	ActionStop   Action = "stop"
	ActionDamage Action = "damage"
	ActionHeal   Action = "heal"
)

// CharacterSpec places one character in a scenario.
type CharacterSpec struct {
	Name      string `yaml:"name"`
	Archetype string `yaml:"archetype"`
}

// Event is one timed action against a character.
type Event struct {
	At        time.Duration `yaml:"at"`
	Character string        `yaml:"character"`
	Action    Action        `yaml:"action"`

	// apply / stop
	Effect   string        `yaml:"effect"`
	Duration time.Duration `yaml:"duration"`
	Count    int           `yaml:"count"`
	All      bool          `yaml:"all"`

	// apply / damage / heal
	Amount  float64 `yaml:"amount"`
	ByHeart bool    `yaml:"by_heart"`
}

// Scenario is a scripted simulation run by cmd/simulate.
type Scenario struct {
	Duration   time.Duration   `yaml:"duration"`
	Characters []CharacterSpec `yaml:"characters"`
	Events     []Event         `yaml:"events"`
}

// DefaultScenario returns a short fight between a player and a slime.
func DefaultScenario() Scenario {
	return Scenario{
		Duration: 10 * time.Second,
		Characters: []CharacterSpec{
			{Name: "hero", Archetype: "player"},
			{Name: "slime", Archetype: "slime"},
		},
		Events: []Event{
			{At: 0, Character: "hero", Action: ActionApply, Effect: "AttackDamageUp", Duration: 5 * time.Second, Count: 2, Amount: 1},
			{At: time.Second, Character: "hero", Action: ActionDamage, Amount: 25},
			{At: 2 * time.Second, Character: "hero", Action: ActionApply, Effect: "MaxHealthUp", Duration: 4 * time.Second, Count: 1, Amount: 10},
			{At: 3 * time.Second, Character: "hero", Action: ActionHeal, Amount: 10, ByHeart: true},
			{At: 4 * time.Second, Character: "slime", Action: ActionDamage, Amount: 15},
			{At: 6 * time.Second, Character: "hero", Action: ActionStop, Effect: "AttackDamageUp", All: true},
		},
	}
}

func (s Scenario) validate(e Engine) error {
	if s.Duration < 0 {
		return fmt.Errorf("%w: scenario.duration must not be negative", ErrInvalid)
	}

	chars := make(map[string]struct{}, len(s.Characters))
	for _, c := range s.Characters {
		if c.Name == "" {
			return fmt.Errorf("%w: scenario character with empty name", ErrInvalid)
		}
		if _, dup := chars[c.Name]; dup {
			return fmt.Errorf("%w: scenario character %s defined twice", ErrInvalid, c.Name)
		}
		if _, ok := e.Archetypes[c.Archetype]; !ok {
			return fmt.Errorf("%w: character %s: unknown archetype %q", ErrInvalid, c.Name, c.Archetype)
		}
		chars[c.Name] = struct{}{}
	}

	for i, ev := range s.Events {
		if _, ok := chars[ev.Character]; !ok {
			return fmt.Errorf("%w: event #%d: unknown character %q", ErrInvalid, i, ev.Character)
		}
		if ev.At < 0 {
			return fmt.Errorf("%w: event #%d: negative time", ErrInvalid, i)
		}
		if ev.At > s.Duration {
			return fmt.Errorf("%w: event #%d: at %s is past scenario duration %s", ErrInvalid, i, ev.At, s.Duration)
		}
		switch ev.Action {
		case ActionApply, ActionStop:
			if !e.HasEffect(ev.Effect) {
				return fmt.Errorf("%w: event #%d: unknown effect %q", ErrInvalid, i, ev.Effect)
			}
		case ActionDamage, ActionHeal:
		default:
			return fmt.Errorf("%w: event #%d: unknown action %q", ErrInvalid, i, ev.Action)
		}
	}
	return nil
}

// EventsFor returns the events of one character, in file order.
func (s Scenario) EventsFor(name string) []Event {
	var out []Event
	for _, ev := range s.Events {
		if ev.Character == name {
			out = append(out, ev)
		}
	}
	return out
}
