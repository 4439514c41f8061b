package effect

import "time"

// ItemObserver receives notifications for one effect. Nil fields are skipped.
type ItemObserver struct {
	OnBegin        func(count int, duration time.Duration)
	OnEnd          func(count int)
	OnCountChanged func(count, delta int)
}

// Observer receives notifications for every effect of a Manager.
// Nil fields are skipped.
type Observer struct {
	OnItemBegin        func(item *Item, count int, duration time.Duration)
	OnItemEnd          func(item *Item, count int)
	OnItemCountChanged func(item *Item, count, delta int)
}
