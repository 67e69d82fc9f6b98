package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Outcome is the result of one task run by RunAll
type Outcome[K comparable, V any] struct {
	Key   K
	Value V
	Err   error
}

// RunAll runs fn once per key, all keys concurrently, and returns one outcome per key in
// key order. A failing task only fails its own outcome.
func RunAll[K comparable, V any](ctx context.Context, keys []K, fn func(context.Context, K) (V, error)) []Outcome[K, V] {
	outcomes := make([]Outcome[K, V], len(keys))
	if len(keys) == 0 {
		return outcomes
	}

	var g errgroup.Group
	g.SetLimit(len(keys))
	for i, key := range keys {
		g.Go(func() error {
			value, err := fn(ctx, key)
			outcomes[i] = Outcome[K, V]{Key: key, Value: value, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// OutcomeMap indexes outcomes by key. Later duplicates win.
func OutcomeMap[K comparable, V any](outcomes []Outcome[K, V]) map[K]Outcome[K, V] {
	m := make(map[K]Outcome[K, V], len(outcomes))
	for _, o := range outcomes {
		m[o.Key] = o
	}
	return m
}
