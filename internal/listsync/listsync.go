// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

// Package listsync reconciles remote list state with local pagination,
// search and filter terms. One Synchronizer backs each entity list
// (categories, products, users); it re-fetches whenever its query
// changes and guarantees that only the most recently initiated fetch
// can ever become visible.
package listsync

import (
	"context"
	"sync"
	"time"

	"github.com/tntware/catalog-admin/internal/debounce"
)

// State of a synchronizer.
type State int

// Synchronizer states.
const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Query is the fetch parameter set: page (1-based), free-text search
// term and an optional filter value (a category id for products).
type Query struct {
	Page   int
	Search string
	Filter string
}

// Result is one fetched page plus the backend's total item count.
type Result[T any] struct {
	Items []T
	Total int
}

// FetchFunc loads one page from the backend.
type FetchFunc[T any] func(ctx context.Context, q Query) (Result[T], error)

// Snapshot is a consistent copy of a synchronizer's visible state.
// After a failed fetch Items and Total still hold the last successful
// result, so the table never collapses to empty on an error.
type Snapshot[T any] struct {
	State State
	Query Query
	Items []T
	Total int
	Err   error
}

// Synchronizer keeps one entity list in sync with the backend.
type Synchronizer[T any] struct {
	mu    sync.Mutex
	fetch FetchFunc[T]

	query Query
	state State
	items []T
	total int
	err   error

	// generation tags every initiated fetch; a completing fetch whose
	// tag is no longer current is discarded.
	generation uint64

	searchDebouncer *debounce.Debouncer
}

// New creates an idle synchronizer starting at page 1.
func New[T any](fetch FetchFunc[T]) *Synchronizer[T] {
	s := &Synchronizer[T]{
		fetch: fetch,
		query: Query{Page: 1},
		state: StateIdle,
	}
	return s
}

// EnableDebouncedSearch attaches a debouncer so UpdateSearch coalesces
// keystroke-level updates into one fetch after the quiet period.
func (s *Synchronizer[T]) EnableDebouncedSearch(quiet time.Duration, timeout time.Duration) {
	s.searchDebouncer = debounce.New(quiet, func(term string) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		s.SetSearch(ctx, term)
	})
}

// UpdateSearch feeds a raw (per-keystroke) search value into the
// debouncer. Without EnableDebouncedSearch it applies immediately.
func (s *Synchronizer[T]) UpdateSearch(term string) {
	if s.searchDebouncer == nil {
		s.SetSearch(context.Background(), term)
		return
	}
	s.searchDebouncer.Update(term)
}

// Close cancels any pending debounced search.
func (s *Synchronizer[T]) Close() {
	if s.searchDebouncer != nil {
		s.searchDebouncer.Stop()
	}
}

// Snapshot returns a copy of the current visible state.
func (s *Synchronizer[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]T, len(s.items))
	copy(items, s.items)
	return Snapshot[T]{
		State: s.state,
		Query: s.query,
		Items: items,
		Total: s.total,
		Err:   s.err,
	}
}

// Query returns the current query.
func (s *Synchronizer[T]) CurrentQuery() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// SetPage moves to the given page (clamped to 1) at the current search
// and filter, and fetches.
func (s *Synchronizer[T]) SetPage(ctx context.Context, page int) Snapshot[T] {
	if page < 1 {
		page = 1
	}
	s.mu.Lock()
	s.query.Page = page
	s.mu.Unlock()
	return s.load(ctx)
}

// SetSearch applies a settled search term. A changed term resets the
// page to 1 before the fetch fires, so stale deep pages are never
// requested against a new term.
func (s *Synchronizer[T]) SetSearch(ctx context.Context, term string) Snapshot[T] {
	s.mu.Lock()
	if s.query.Search != term {
		s.query.Search = term
		s.query.Page = 1
	}
	s.mu.Unlock()
	return s.load(ctx)
}

// SetFilter applies a filter value (empty clears it), resetting the
// page to 1 on change.
func (s *Synchronizer[T]) SetFilter(ctx context.Context, filter string) Snapshot[T] {
	s.mu.Lock()
	if s.query.Filter != filter {
		s.query.Filter = filter
		s.query.Page = 1
	}
	s.mu.Unlock()
	return s.load(ctx)
}

// Apply reconciles a full incoming query (page, search, filter) in one
// step. When search or filter differ from the current query, the page
// resets to 1 and the incoming page is ignored; otherwise the incoming
// page is used. This is the request-parameter entry point for
// full-page renders.
func (s *Synchronizer[T]) Apply(ctx context.Context, page int, search, filter string) Snapshot[T] {
	if page < 1 {
		page = 1
	}
	s.mu.Lock()
	if s.query.Search != search || s.query.Filter != filter {
		s.query.Search = search
		s.query.Filter = filter
		s.query.Page = 1
	} else {
		s.query.Page = page
	}
	s.mu.Unlock()
	return s.load(ctx)
}

// Refresh re-fetches at the current query state. Used after a
// confirmed create, update or delete so totals and page contents
// reflect the backend.
func (s *Synchronizer[T]) Refresh(ctx context.Context) Snapshot[T] {
	return s.load(ctx)
}

// load runs one generation-tagged fetch. The fetch itself happens
// outside the lock; on completion the result is committed only if no
// newer fetch has been initiated since.
func (s *Synchronizer[T]) load(ctx context.Context) Snapshot[T] {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.state = StateLoading
	q := s.query
	s.mu.Unlock()

	result, err := s.fetch(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		// Superseded by a newer fetch; discard without touching state.
		return s.snapshotLocked()
	}

	if err != nil {
		// Keep the previously displayed items so the table does not
		// clear on a failed refresh.
		s.state = StateFailed
		s.err = err
		return s.snapshotLocked()
	}

	s.state = StateLoaded
	s.items = result.Items
	s.total = result.Total
	s.query.Page = q.Page
	s.err = nil
	return s.snapshotLocked()
}

// snapshotLocked builds a Snapshot; callers hold s.mu.
func (s *Synchronizer[T]) snapshotLocked() Snapshot[T] {
	items := make([]T, len(s.items))
	copy(items, s.items)
	return Snapshot[T]{
		State: s.state,
		Query: s.query,
		Items: items,
		Total: s.total,
		Err:   s.err,
	}
}
