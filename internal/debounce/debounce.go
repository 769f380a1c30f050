// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

// Package debounce coalesces rapid value changes into a single
// callback after a quiet period, the primitive behind live search.
package debounce

import (
	"sync"
	"time"
)

// DefaultQuiet is the standard quiet period for search inputs.
const DefaultQuiet = 500 * time.Millisecond

// Debouncer delivers the latest value to its callback once no new
// value has arrived for the quiet period. Creating a Debouncer never
// fires the callback, regardless of the initial value: only updates
// do. Safe for concurrent use.
type Debouncer struct {
	mu      sync.Mutex
	quiet   time.Duration
	fn      func(string)
	timer   *time.Timer
	pending string
	stopped bool
}

// New creates a Debouncer with the given quiet period. A non-positive
// quiet period falls back to DefaultQuiet.
func New(quiet time.Duration, fn func(string)) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	return &Debouncer{quiet: quiet, fn: fn}
}

// Update records a new value and restarts the quiet-period timer. Any
// previously pending delivery is cancelled, so a burst of updates
// results in exactly one callback carrying the final value. The empty
// string is a valid value (a cleared search fires like any other).
func (d *Debouncer) Update(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending = value

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, d.fire)
}

// fire delivers the pending value unless the debouncer was stopped or
// superseded in the meantime.
func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	value := d.pending
	d.timer = nil
	d.mu.Unlock()

	d.fn(value)
}

// Stop cancels any pending delivery and prevents future ones. It is
// the unmount path: a value settling after Stop must not fire.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
