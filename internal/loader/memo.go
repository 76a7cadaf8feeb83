// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package loader

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Memo memoizes the result of a load that never fails.
//
// Concurrent Get calls share one in-flight load. A result is kept only when
// keep accepts it, so an empty result is retried on the next call. Reset
// drops the memoized value; a load already in flight when Reset is called
// still answers its waiters but is not memoized. Refresh reloads while the
// current value keeps being served and replaces it only with an accepted
// result.
//
// The load runs detached from the first caller's cancellation. A caller
// whose context ends stops waiting and receives the zero value while the
// load continues for the others.
type Memo[T any] struct {
	key   string
	keep  func(T) bool
	group singleflight.Group

	mu    sync.RWMutex
	value T
	set   bool
	gen   uint64
}

// NewMemo creates a memo. keep decides which results are worth keeping.
func NewMemo[T any](key string, keep func(T) bool) *Memo[T] {
	return &Memo[T]{key: key, keep: keep}
}

// Get returns the memoized value or runs load.
func (m *Memo[T]) Get(ctx context.Context, load func(context.Context) T) T {
	m.mu.RLock()
	if m.set {
		v := m.value
		m.mu.RUnlock()
		return v
	}
	gen := m.gen
	m.mu.RUnlock()

	return m.flight(ctx, gen, load)
}

// flight runs load under the shared in-flight key. gen is the generation
// observed before joining; a Reset since then keeps the result out of the
// memo.
func (m *Memo[T]) flight(ctx context.Context, gen uint64, load func(context.Context) T) T {
	detached := context.WithoutCancel(ctx)
	ch := m.group.DoChan(m.key, func() (any, error) {
		// A flight that finished after the caller's check has already
		// memoized its result.
		m.mu.RLock()
		if m.set {
			v := m.value
			m.mu.RUnlock()
			return v, nil
		}
		m.mu.RUnlock()

		v := load(detached)
		m.mu.Lock()
		if m.gen == gen && m.keep(v) {
			m.value = v
			m.set = true
		}
		m.mu.Unlock()
		return v, nil
	})
	return m.wait(ctx, ch)
}

// Refresh runs load and swaps its result in when keep accepts it; otherwise
// the previous value stays. It returns the value served afterwards, which
// is the rejected result only when nothing was memoized before. Concurrent
// Refresh calls share one load.
func (m *Memo[T]) Refresh(ctx context.Context, load func(context.Context) T) T {
	detached := context.WithoutCancel(ctx)
	ch := m.group.DoChan(m.key+"/refresh", func() (any, error) {
		v := load(detached)
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.keep(v) {
			m.value = v
			m.set = true
			// Loads started before the swap must not overwrite it.
			m.gen++
			return v, nil
		}
		if m.set {
			return m.value, nil
		}
		return v, nil
	})
	return m.wait(ctx, ch)
}

func (m *Memo[T]) wait(ctx context.Context, ch <-chan singleflight.Result) T {
	select {
	case res := <-ch:
		v, _ := res.Val.(T)
		return v
	case <-ctx.Done():
		var zero T
		return zero
	}
}

// Peek returns the memoized value without loading.
func (m *Memo[T]) Peek() (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.value, m.set
}

// Reset drops the memoized value.
func (m *Memo[T]) Reset() {
	m.mu.Lock()
	var zero T
	m.value = zero
	m.set = false
	m.gen++
	m.mu.Unlock()
	m.group.Forget(m.key)
	m.group.Forget(m.key + "/refresh")
}
