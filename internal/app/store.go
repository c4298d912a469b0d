package app

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"review_dashboard/internal/domain"
)

type builder interface {
	Build(ctx context.Context) *Snapshot
}

// Store serves the current snapshot and swaps in a new one only after it
// is fully built. Concurrent reloads share one build.
type Store struct {
	b    builder
	cur  atomic.Pointer[Snapshot]
	sf   singleflight.Group
	subs []func(*Snapshot)
}

func NewStore(b builder) *Store { return &Store{b: b} }

// OnSwap registers a callback invoked after each swap. Register before the
// first Reload.
func (s *Store) OnSwap(fn func(*Snapshot)) { s.subs = append(s.subs, fn) }

func (s *Store) Current() (*Snapshot, error) {
	snap := s.cur.Load()
	if snap == nil {
		return nil, domain.ErrNotReady
	}
	return snap, nil
}

func (s *Store) Reload(ctx context.Context) *Snapshot {
	v, _, _ := s.sf.Do("reload", func() (any, error) {
		// detached so one caller's cancellation doesn't abort a shared build
		snap := s.b.Build(context.WithoutCancel(ctx))
		old := s.cur.Swap(snap)
		for _, fn := range s.subs {
			fn(old)
		}
		return snap, nil
	})
	return v.(*Snapshot)
}
