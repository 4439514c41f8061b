package main

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/combatcore/internal/character"
	"github.com/udisondev/combatcore/internal/config"
	"github.com/udisondev/combatcore/internal/stats"
)

// result is a character's state at the end of the scenario.
type result struct {
	Name  string
	ID    uuid.UUID
	Dead  bool
	Stats map[stats.Stat]float64
}

// simulate runs every scenario character on its own goroutine. Characters
// share nothing, so each owner's engine stays single-threaded.
func simulate(ctx context.Context, cfg config.Engine) ([]result, error) {
	results := make([]result, len(cfg.Scenario.Characters))

	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range cfg.Scenario.Characters {
		g.Go(func() error {
			r, err := runCharacter(gctx, cfg, spec)
			if err != nil {
				return fmt.Errorf("character %s: %w", spec.Name, err)
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runCharacter(ctx context.Context, cfg config.Engine, spec config.CharacterSpec) (result, error) {
	c, err := character.New(spec.Name, spec.Archetype, cfg)
	if err != nil {
		return result{}, err
	}
	defer c.Dispose()

	c.Stats().AddObserver(stats.Observer{
		OnStatsChanged: func(stat stats.Stat, value float64) {
			slog.Debug("stat changed", "character", spec.Name, "stat", stat, "value", value)
		},
	})
	c.Body().AddBodyObserver(stats.BodyObserver{
		OnDied: func() {
			slog.Info("character died", "character", spec.Name)
		},
	})

	events := cfg.Scenario.EventsFor(spec.Name)
	slices.SortStableFunc(events, func(a, b config.Event) int {
		return cmp.Compare(a.At, b.At)
	})

	var (
		now  time.Duration
		next int
	)
	for {
		for next < len(events) && events[next].At <= now {
			if err := applyEvent(c, events[next]); err != nil {
				return result{}, err
			}
			next++
		}
		if now >= cfg.Scenario.Duration {
			break
		}
		if err := ctx.Err(); err != nil {
			return result{}, err
		}

		step := min(cfg.TickInterval, cfg.Scenario.Duration-now)
		c.ProcessUpdate(step)
		now += step
	}

	return result{
		Name:  spec.Name,
		ID:    c.ID(),
		Dead:  c.Body().IsDead(),
		Stats: stats.Snapshot(c.Stats()),
	}, nil
}

func applyEvent(c *character.Character, ev config.Event) error {
	slog.Debug("scenario event",
		"character", c.Name(),
		"at", ev.At,
		"action", ev.Action,
		"effect", ev.Effect)

	switch ev.Action {
	case config.ActionApply:
		return c.Apply(ev.Effect, ev.Duration, ev.Count, ev.Amount)
	case config.ActionStop:
		return c.Stop(ev.Effect, ev.All)
	case config.ActionDamage:
		c.TakeDamage(ev.Amount)
	case config.ActionHeal:
		c.Heal(ev.Amount, ev.ByHeart)
	default:
		return fmt.Errorf("unknown action %q", ev.Action)
	}
	return nil
}
