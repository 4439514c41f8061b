// Package character wires one owner's timer, effect ledgers and stat chain
// together behind a single per-frame update.
package character

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/combatcore/internal/config"
	"github.com/udisondev/combatcore/internal/effect"
	"github.com/udisondev/combatcore/internal/schedule"
	"github.com/udisondev/combatcore/internal/stats"
)

// Character owns the effect/stat engine of one player or enemy.
//
// Not safe for concurrent use: drive each Character from one goroutine.
type Character struct {
	id        uuid.UUID
	name      string
	archetype string

	scheduler *schedule.Manager
	effects   *effect.Manager
	base      *stats.BaseProvider
	body      *stats.BodyProvider
	attack    *stats.AttackProvider

	disposed bool
}

// New builds a character of the named archetype from cfg.
func New(name, archetype string, cfg config.Engine) (*Character, error) {
	arch, ok := cfg.Archetypes[archetype]
	if !ok {
		return nil, fmt.Errorf("character %s: unknown archetype %q", name, archetype)
	}

	c := &Character{
		id:        uuid.New(),
		name:      name,
		archetype: archetype,
		scheduler: schedule.NewManager(),
	}

	configs := cfg.EffectConfigs()
	for i := range configs {
		id := configs[i].ID
		configs[i].Begin = func(count int, duration time.Duration) {
			slog.Debug("effect stack begin",
				"character", c.name,
				"effect", id,
				"count", count,
				"duration", duration)
		}
		configs[i].End = func(count int) {
			slog.Debug("effect stack end",
				"character", c.name,
				"effect", id,
				"count", count)
		}
	}

	var err error
	c.effects, err = effect.NewManager(c.scheduler, configs, effect.WithPolicy(cfg.Policy()))
	if err != nil {
		return nil, fmt.Errorf("character %s: effects: %w", name, err)
	}
	c.base, err = stats.NewBaseProvider(c.effects, cfg.Formulas)
	if err != nil {
		return nil, fmt.Errorf("character %s: stats: %w", name, err)
	}
	c.body = stats.NewBodyProvider(c.base, arch.Body)
	c.attack = stats.NewAttackProvider(c.body, arch.Attack)

	slog.Debug("character created",
		"character", name,
		"id", c.id,
		"archetype", archetype)
	return c, nil
}

func (c *Character) ID() uuid.UUID     { return c.id }
func (c *Character) Name() string      { return c.name }
func (c *Character) Archetype() string { return c.archetype }

// Stats returns the top of the stat chain; it serves every Stat.
func (c *Character) Stats() stats.Provider { return c.attack }

// Body returns the body layer for damage, heal and death hooks.
func (c *Character) Body() *stats.BodyProvider { return c.body }

// Effects returns the effect manager.
func (c *Character) Effects() *effect.Manager { return c.effects }

// Scheduler returns the character's timer engine, for collaborators that
// need their own timers on the same clock.
func (c *Character) Scheduler() *schedule.Manager { return c.scheduler }

// ProcessUpdate advances all timers by delta. Call once per frame.
func (c *Character) ProcessUpdate(delta time.Duration) {
	if c.disposed {
		return
	}
	c.scheduler.ProcessUpdate(delta)
}

// Apply grants count stacks of an effect.
func (c *Character) Apply(effectID string, duration time.Duration, count int, amount float64) error {
	item, err := effect.LookupItem(c.effects, effectID)
	if err != nil {
		return fmt.Errorf("character %s: %w", c.name, err)
	}
	item.Apply(duration, count, amount)
	return nil
}

// Stop removes the oldest stack of an effect, or all of them.
func (c *Character) Stop(effectID string, all bool) error {
	item, err := effect.LookupItem(c.effects, effectID)
	if err != nil {
		return fmt.Errorf("character %s: %w", c.name, err)
	}
	item.Stop(all)
	return nil
}

// TakeDamage forwards a hit to the body layer.
func (c *Character) TakeDamage(amount float64) { c.body.TakeDamage(amount) }

// Heal forwards a heal to the body layer.
func (c *Character) Heal(amount float64, isHealByHeart bool) { c.body.Heal(amount, isHealByHeart) }

// Respawn clears every effect and restores full health, for pooled reuse.
func (c *Character) Respawn() {
	c.effects.StopAll()
	c.body.Restore()
}

// Dispose cancels all timers and detaches the stat chain. Safe to call
// repeatedly.
func (c *Character) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true

	c.effects.Dispose()
	c.attack.Close()
	c.body.Close()
	c.base.Close()
	c.scheduler.ClearAll()

	slog.Debug("character disposed", "character", c.name, "id", c.id)
}
