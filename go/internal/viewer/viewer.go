// Package viewer implements the fetch-once collection state machine shared by
// every dashboard view: loading, then success or error until remounted.
package viewer

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// State is the lifecycle position of a viewer.
type State int

const (
	StateLoading State = iota
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "loading"
	}
}

// Snapshot is an immutable copy of a viewer's state.
type Snapshot[T any] struct {
	State State
	Items []T
	Err   string
}

// Count is the number of fetched items.
func (s Snapshot[T]) Count() int {
	return len(s.Items)
}

func (s Snapshot[T]) Loading() bool { return s.State == StateLoading }
func (s Snapshot[T]) Failed() bool  { return s.State == StateError }
func (s Snapshot[T]) Ready() bool   { return s.State == StateSuccess }

// FetchFunc reads one collection.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Viewer holds the state of one mounted collection view.
type Viewer[T any] struct {
	name  string
	fetch FetchFunc[T]

	mu         sync.Mutex
	snapshot   Snapshot[T]
	generation uint64
	started    bool
}

// New returns a viewer in the loading state. Nothing is fetched until Load.
func New[T any](name string, fetch FetchFunc[T]) *Viewer[T] {
	return &Viewer[T]{
		name:     name,
		fetch:    fetch,
		snapshot: Snapshot[T]{State: StateLoading},
	}
}

func (v *Viewer[T]) Name() string {
	return v.name
}

// Snapshot returns the current state.
func (v *Viewer[T]) Snapshot() Snapshot[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshot
}

// Load issues the mount's single read and returns the resulting snapshot.
// Later calls within the same mount do not fetch again. If ctx ends before the
// read completes, the result is dropped and the viewer stays loading.
func (v *Viewer[T]) Load(ctx context.Context) Snapshot[T] {
	v.mu.Lock()
	if v.started {
		snap := v.snapshot
		v.mu.Unlock()
		return snap
	}
	v.started = true
	gen := v.generation
	v.mu.Unlock()

	return v.run(ctx, gen)
}

// Reload discards fetched data and loads again as a fresh mount. Completions
// of any earlier load are dropped.
func (v *Viewer[T]) Reload(ctx context.Context) Snapshot[T] {
	v.mu.Lock()
	v.generation++
	v.started = true
	v.snapshot = Snapshot[T]{State: StateLoading}
	gen := v.generation
	v.mu.Unlock()

	return v.run(ctx, gen)
}

func (v *Viewer[T]) run(ctx context.Context, gen uint64) Snapshot[T] {
	items, err := v.fetch(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	if ctx.Err() != nil || gen != v.generation {
		log.Debug().
			Str("view", v.name).
			Uint64("generation", gen).
			Msg("dropping result for unmounted view")
		return v.snapshot
	}

	if err != nil {
		log.Error().Err(err).Str("view", v.name).Msg("failed to fetch collection")
		v.snapshot = Snapshot[T]{State: StateError, Err: err.Error()}
		return v.snapshot
	}

	if items == nil {
		items = []T{}
	}
	log.Debug().Str("view", v.name).Int("count", len(items)).Msg("collection loaded")
	v.snapshot = Snapshot[T]{State: StateSuccess, Items: items}
	return v.snapshot
}
