package effect

import (
	"fmt"
	"log/slog"
)

// Policy decides what happens when a ledger invariant is violated.
type Policy uint8

const (
	// PolicyStrict panics. Use in development and tests.
	PolicyStrict Policy = iota
	// PolicyLenient logs the violation and skips the operation.
	PolicyLenient
)

func (p Policy) String() string {
	switch p {
	case PolicyStrict:
		return "strict"
	case PolicyLenient:
		return "lenient"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// violate reports a broken invariant according to the policy.
func (p Policy) violate(effectID, reason string) {
	if p == PolicyStrict {
		panic(fmt.Errorf("%w: %s: %s", ErrInvariant, effectID, reason))
	}
	slog.Error("effect invariant violated", "effect", effectID, "reason", reason)
}
