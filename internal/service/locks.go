package service

import (
	"sort"
	"sync"
)

// resourceLocks serializes multi-row mutations per resource ID.
//
// WHY THIS EXISTS:
// The backing store has no transactions and no row locks, so two concurrent
// settlements touching the same item or the same user would interleave
// their read-modify-write sequences and lose updates (or sell one item
// twice). Settlement therefore takes an in-process lock on every resource
// it will touch before reading anything.
//
// DEADLOCK AVOIDANCE:
// Keys are deduplicated and locked in sorted order, so two settlements that
// share any subset of resources always acquire them in the same sequence.
//
// This protects a single process only — which matches the deployment model:
// the spreadsheet's single-writer assumption already rules out running more
// than one instance against the same store.
type resourceLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newResourceLocks() *resourceLocks {
	return &resourceLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks every key and returns the function that releases them all.
// Lock entries are never removed; the key space (active users and items) is
// small enough that the map is not worth reference-counting.
func (r *resourceLocks) acquire(keys ...string) (release func()) {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	held := make([]*sync.Mutex, 0, len(sorted))
	var prev string
	for i, key := range sorted {
		if key == "" || (i > 0 && key == prev) {
			continue
		}
		prev = key

		r.mu.Lock()
		m, ok := r.locks[key]
		if !ok {
			m = &sync.Mutex{}
			r.locks[key] = m
		}
		r.mu.Unlock()

		m.Lock()
		held = append(held, m)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
