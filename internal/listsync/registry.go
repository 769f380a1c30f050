// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package listsync

import (
	"sync"
	"time"
)

// Registry holds per-session synchronizers keyed by session id and
// entity name, with idle entries swept out after a TTL. Browser tabs
// sharing a session share one synchronizer per entity, which is what
// makes the generation-based supersession meaningful across
// overlapping requests.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry
	ttl     time.Duration
	stop    chan struct{}
	stopped bool
}

type registryEntry struct {
	value    any
	lastSeen time.Time
}

// NewRegistry creates a registry whose entries expire after ttl of
// inactivity. The sweeper goroutine runs until Close.
func NewRegistry(ttl time.Duration) *Registry {
	r := &Registry{
		entries: make(map[string]*registryEntry),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
	go r.sweep()
	return r
}

// sweep evicts idle entries at half-TTL intervals.
func (r *Registry) sweep() {
	interval := r.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case now := <-ticker.C:
			r.mu.Lock()
			for key, e := range r.entries {
				if now.Sub(e.lastSeen) > r.ttl {
					if closer, ok := e.value.(interface{ Close() }); ok {
						closer.Close()
					}
					delete(r.entries, key)
				}
			}
			r.mu.Unlock()
		}
	}
}

// Close stops the sweeper and releases all entries.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.stopped = true
	close(r.stop)
	for key, e := range r.entries {
		if closer, ok := e.value.(interface{ Close() }); ok {
			closer.Close()
		}
		delete(r.entries, key)
	}
}

// get retrieves a live entry and refreshes its last-seen time.
func (r *Registry) get(key string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	if !ok {
		return nil, false
	}
	e.lastSeen = time.Now()
	return e.value, true
}

// put stores an entry.
func (r *Registry) put(key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.entries[key] = &registryEntry{value: value, lastSeen: time.Now()}
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// For returns the synchronizer stored under key, creating it with
// create on first use. A stored value of the wrong type is replaced.
func For[T any](r *Registry, key string, create func() *Synchronizer[T]) *Synchronizer[T] {
	if v, ok := r.get(key); ok {
		if s, ok := v.(*Synchronizer[T]); ok {
			return s
		}
	}
	s := create()
	r.put(key, s)
	return s
}
