// Copyright (c) 2026 TNT Commerce
// SPDX-License-Identifier: GPL-3.0-or-later

package listsync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetch records queries and serves canned results per call.
type fakeFetch struct {
	mu      sync.Mutex
	queries []Query
	result  Result[string]
	err     error
}

func (f *fakeFetch) fn(_ context.Context, q Query) (Result[string], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.result, f.err
}

func (f *fakeFetch) lastQuery() Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func TestStartsIdleAtPageOne(t *testing.T) {
	s := New[string](nil)
	snap := s.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Equal(t, 1, snap.Query.Page)
	assert.Empty(t, snap.Items)
}

func TestLoadedReplacesItemsAndTotal(t *testing.T) {
	f := &fakeFetch{result: Result[string]{Items: []string{"a", "b"}, Total: 12}}
	s := New(f.fn)

	snap := s.Refresh(context.Background())
	assert.Equal(t, StateLoaded, snap.State)
	assert.Equal(t, []string{"a", "b"}, snap.Items)
	assert.Equal(t, 12, snap.Total)
}

func TestSearchChangeResetsPage(t *testing.T) {
	f := &fakeFetch{result: Result[string]{Items: []string{"x"}, Total: 1}}
	s := New(f.fn)

	s.SetPage(context.Background(), 3)
	assert.Equal(t, 3, f.lastQuery().Page)

	s.SetSearch(context.Background(), "shoe")
	q := f.lastQuery()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, "shoe", q.Search)
}

func TestFilterChangeResetsPage(t *testing.T) {
	f := &fakeFetch{result: Result[string]{}}
	s := New(f.fn)

	s.SetPage(context.Background(), 5)
	s.SetFilter(context.Background(), "cat-1")
	q := f.lastQuery()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, "cat-1", q.Filter)

	// Same filter again keeps the page.
	s.SetPage(context.Background(), 2)
	s.SetFilter(context.Background(), "cat-1")
	assert.Equal(t, 2, f.lastQuery().Page)
}

func TestApplyIgnoresStalePageOnNewSearch(t *testing.T) {
	f := &fakeFetch{result: Result[string]{}}
	s := New(f.fn)

	s.Apply(context.Background(), 4, "", "")
	assert.Equal(t, 4, f.lastQuery().Page)

	// Page 4 link clicked after the search changed: page must reset.
	s.Apply(context.Background(), 4, "shoe", "")
	q := f.lastQuery()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, "shoe", q.Search)
}

func TestFailureKeepsPreviousItems(t *testing.T) {
	f := &fakeFetch{result: Result[string]{Items: []string{"kept"}, Total: 7}}
	s := New(f.fn)
	s.Refresh(context.Background())

	f.mu.Lock()
	f.err = errors.New("backend down")
	f.mu.Unlock()

	snap := s.Refresh(context.Background())
	assert.Equal(t, StateFailed, snap.State)
	assert.Error(t, snap.Err)
	assert.Equal(t, []string{"kept"}, snap.Items)
	assert.Equal(t, 7, snap.Total)

	// Recovery clears the error.
	f.mu.Lock()
	f.err = nil
	f.mu.Unlock()
	snap = s.Refresh(context.Background())
	assert.Equal(t, StateLoaded, snap.State)
	assert.NoError(t, snap.Err)
}

func TestStaleResponseDiscarded(t *testing.T) {
	type fetchCall struct {
		q       Query
		release chan Result[string]
	}
	calls := make(chan fetchCall, 2)

	fetch := func(_ context.Context, q Query) (Result[string], error) {
		release := make(chan Result[string])
		calls <- fetchCall{q: q, release: release}
		return <-release, nil
	}
	s := New(fetch)

	done := make(chan struct{}, 2)

	// Fetch A is initiated first and blocks.
	go func() {
		s.SetSearch(context.Background(), "old")
		done <- struct{}{}
	}()
	callA := <-calls

	// Fetch B is initiated second and resolves first.
	go func() {
		s.SetSearch(context.Background(), "new")
		done <- struct{}{}
	}()
	callB := <-calls
	callB.release <- Result[string]{Items: []string{"new-items"}, Total: 1}

	// A resolves late; its result must be discarded.
	callA.release <- Result[string]{Items: []string{"old-items"}, Total: 99}
	<-done
	<-done

	snap := s.Snapshot()
	assert.Equal(t, StateLoaded, snap.State)
	assert.Equal(t, []string{"new-items"}, snap.Items)
	assert.Equal(t, 1, snap.Total)
	assert.Equal(t, "new", snap.Query.Search)
}

func TestDebouncedSearchCoalesces(t *testing.T) {
	f := &fakeFetch{result: Result[string]{Items: []string{"hit"}, Total: 1}}
	s := New(f.fn)
	s.EnableDebouncedSearch(30*time.Millisecond, time.Second)
	defer s.Close()

	s.UpdateSearch("s")
	s.UpdateSearch("sh")
	s.UpdateSearch("shoe")

	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return len(f.queries) == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, "shoe", f.lastQuery().Search)

	// Quiet afterwards: still exactly one fetch.
	time.Sleep(80 * time.Millisecond)
	f.mu.Lock()
	assert.Len(t, f.queries, 1)
	f.mu.Unlock()
}

func TestRegistrySharesSynchronizerPerKey(t *testing.T) {
	r := NewRegistry(time.Minute)
	defer r.Close()

	created := 0
	create := func() *Synchronizer[string] {
		created++
		return New[string](func(context.Context, Query) (Result[string], error) {
			return Result[string]{}, nil
		})
	}

	a := For(r, "sess-1/products", create)
	b := For(r, "sess-1/products", create)
	c := For(r, "sess-2/products", create)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, created)
	assert.Equal(t, 2, r.Len())
}

func TestRegistrySweepsIdleEntries(t *testing.T) {
	r := NewRegistry(10 * time.Millisecond)
	defer r.Close()

	For(r, "sess/categories", func() *Synchronizer[string] {
		return New[string](func(context.Context, Query) (Result[string], error) {
			return Result[string]{}, nil
		})
	})
	require.Equal(t, 1, r.Len())

	assert.Eventually(t, func() bool { return r.Len() == 0 }, 5*time.Second, 20*time.Millisecond)
}
