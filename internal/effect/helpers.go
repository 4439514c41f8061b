package effect

import (
	"fmt"
	"time"
)

// ItemSource resolves effect items by id.
type ItemSource interface {
	GetItem(id string) *Item
}

func mustItem(src ItemSource, id string) *Item {
	item := src.GetItem(id)
	if item == nil {
		panic(fmt.Errorf("%w: %q", ErrUnknownEffect, id))
	}
	return item
}

// ApplyItem applies count stacks of effect id.
// Panics if id is not configured: that is a wiring mistake, not a runtime
// condition.
func ApplyItem(src ItemSource, id string, duration time.Duration, count int, amount float64) {
	mustItem(src, id).Apply(duration, count, amount)
}

// StopItem stops the oldest stack of effect id, or every stack when all is
// set. Panics if id is not configured.
func StopItem(src ItemSource, id string, all bool) {
	mustItem(src, id).Stop(all)
}

// LookupItem is the non-panicking form for ids that come from user input.
func LookupItem(src ItemSource, id string) (*Item, error) {
	item := src.GetItem(id)
	if item == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, id)
	}
	return item, nil
}
