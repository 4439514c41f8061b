// Package testutil holds helpers shared by package tests.
package testutil

import "time"

// Updater is anything driven by per-frame ProcessUpdate calls.
type Updater interface {
	ProcessUpdate(delta time.Duration)
}

// Advance calls u.ProcessUpdate with step until total time has passed and
// returns the number of ticks. The last tick may be shorter than step so
// that exactly total is simulated.
func Advance(u Updater, total, step time.Duration) int {
	if step <= 0 {
		panic("testutil.Advance: step must be positive")
	}
	ticks := 0
	for elapsed := time.Duration(0); elapsed < total; {
		d := min(step, total-elapsed)
		u.ProcessUpdate(d)
		elapsed += d
		ticks++
	}
	return ticks
}
