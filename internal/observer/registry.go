// Package observer provides a handle-keyed subscriber registry shared by the
// schedule, effect and stats packages.
package observer

// Handle identifies a registered observer. Handles are never reused.
type Handle uint64

type entry[T any] struct {
	handle  Handle
	value   T
	removed bool
}

// Registry keeps observers in registration order.
//
// Not safe for concurrent use: a registry belongs to a single owner and is
// only touched from that owner's update loop.
type Registry[T any] struct {
	next        Handle
	entries     []entry[T]
	dispatching int
	dirty       bool
}

// Add registers v and returns its handle.
func (r *Registry[T]) Add(v T) Handle {
	r.next++
	r.entries = append(r.entries, entry[T]{handle: r.next, value: v})
	return r.next
}

// Remove unregisters the observer with handle h.
// Returns false if h is unknown or already removed.
func (r *Registry[T]) Remove(h Handle) bool {
	for i := range r.entries {
		if r.entries[i].handle != h || r.entries[i].removed {
			continue
		}
		r.entries[i].removed = true
		r.dirty = true
		r.compact()
		return true
	}
	return false
}

// Dispatch calls fn for every observer registered when the dispatch started.
// Observers removed mid-dispatch are skipped; observers added mid-dispatch
// wait for the next dispatch.
func (r *Registry[T]) Dispatch(fn func(T)) {
	n := len(r.entries)
	if n == 0 {
		return
	}

	r.dispatching++
	defer func() {
		r.dispatching--
		r.compact()
	}()

	for i := 0; i < n && i < len(r.entries); i++ {
		e := r.entries[i]
		if e.removed {
			continue
		}
		fn(e.value)
	}
}

// Len returns the number of live observers.
func (r *Registry[T]) Len() int {
	n := 0
	for i := range r.entries {
		if !r.entries[i].removed {
			n++
		}
	}
	return n
}

// Clear removes every observer.
func (r *Registry[T]) Clear() {
	for i := range r.entries {
		r.entries[i].removed = true
	}
	r.dirty = true
	r.compact()
}

// compact drops removed entries once no dispatch is walking the slice.
func (r *Registry[T]) compact() {
	if r.dispatching > 0 || !r.dirty {
		return
	}
	n := 0
	for _, e := range r.entries {
		if !e.removed {
			r.entries[n] = e
			n++
		}
	}
	clear(r.entries[n:])
	r.entries = r.entries[:n]
	r.dirty = false
}
