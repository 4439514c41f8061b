// Package effect keeps the per-effect stack ledgers: every Apply pushes a
// stack bound to its own expiry timer, the ledger aggregates the stacks'
// amounts and evicts the oldest stack when the effect's capacity is exceeded.
package effect

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnknownEffect is returned (or panicked with) when an effect id was
	// never configured on the manager.
	ErrUnknownEffect = errors.New("unknown effect")

	// ErrInvalidConfig is returned by NewManager for malformed configs.
	ErrInvalidConfig = errors.New("invalid effect config")

	// ErrInvariant describes a broken ledger invariant.
	ErrInvariant = errors.New("effect ledger invariant violated")
)

// Config describes one stackable effect. Immutable after NewManager.
type Config struct {
	ID       string
	MaxCount int

	// Begin runs after a stack was added, with the new stack count.
	Begin func(count int, duration time.Duration)
	// End runs before a stack is removed, with the count prior to removal.
	End func(count int)
}

func validateConfigs(configs []Config) error {
	seen := make(map[string]struct{}, len(configs))
	for i, c := range configs {
		if c.ID == "" {
			return fmt.Errorf("%w: config #%d has empty id", ErrInvalidConfig, i)
		}
		if c.MaxCount < 1 {
			return fmt.Errorf("%w: %s max count %d", ErrInvalidConfig, c.ID, c.MaxCount)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidConfig, c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}
