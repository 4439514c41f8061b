package testutil

// Change is one recorded notification.
type Change[K comparable] struct {
	Key   K
	Value float64
}

// Recorder collects keyed value notifications in arrival order.
// Its Record method fits observer callbacks such as OnStatsChanged.
type Recorder[K comparable] struct {
	Changes []Change[K]
}

// Record appends a change.
func (r *Recorder[K]) Record(key K, value float64) {
	r.Changes = append(r.Changes, Change[K]{Key: key, Value: value})
}

// Keys returns the keys in arrival order, duplicates included.
func (r *Recorder[K]) Keys() []K {
	out := make([]K, len(r.Changes))
	for i, c := range r.Changes {
		out[i] = c.Key
	}
	return out
}

// Last returns the most recent value recorded for key.
func (r *Recorder[K]) Last(key K) (float64, bool) {
	for i := len(r.Changes) - 1; i >= 0; i-- {
		if r.Changes[i].Key == key {
			return r.Changes[i].Value, true
		}
	}
	return 0, false
}

// Count returns how many times key was recorded.
func (r *Recorder[K]) Count(key K) int {
	n := 0
	for _, c := range r.Changes {
		if c.Key == key {
			n++
		}
	}
	return n
}

// Reset drops all recorded changes.
func (r *Recorder[K]) Reset() {
	r.Changes = r.Changes[:0]
}
