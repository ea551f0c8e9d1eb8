package usecase

import (
	"context"
	"sync"

	"nxt-watch/domain/model"
	"nxt-watch/infrastructure/logger"
)

// Fetch loads the data a screen shows for params (the search term or video id)
type Fetch[T any] func(ctx context.Context, params string) (T, error)

// Snapshot is a copy of a screen's state at one point in time
type Snapshot[T any] struct {
	Name   string
	Status model.RequestStatus
	Params string
	Data   T
	Err    error
	Seq    uint64
	Empty  bool
}

// View picks what to render for the snapshot.
// A successful empty result renders the "no results" view.
func (s Snapshot[T]) View() model.View {
	switch s.Status {
	case model.RequestStatusInProgress:
		return model.ViewLoading
	case model.RequestStatusFailure:
		return model.ViewFailure
	case model.RequestStatusSuccess:
		if s.Empty {
			return model.ViewEmpty
		}
		return model.ViewList
	default:
		return model.ViewNone
	}
}

// Screen is the fetch state machine behind one page:
// INITIAL -> IN_PROGRESS -> SUCCESS | FAILURE, and back to IN_PROGRESS on every load or retry.
//
// Every load takes a sequence number. A response that resolves after a newer load was
// issued is dropped, so the state always reflects the latest request.
type Screen[T any] struct {
	name  string
	fetch Fetch[T]
	empty func(T) bool

	mu        sync.Mutex
	status    model.RequestStatus
	params    string
	data      T
	err       error
	issued    uint64
	settled   chan struct{} // closed when the latest load resolves
	observers []func(Snapshot[T])
}

// NewScreen creates a screen in the INITIAL state. empty may be nil when the screen has no "no results" view.
func NewScreen[T any](name string, fetch Fetch[T], empty func(T) bool) *Screen[T] {
	return &Screen[T]{
		name:   name,
		fetch:  fetch,
		empty:  empty,
		status: model.RequestStatusInitial,
	}
}

// OnTransition registers fn to run after every status change, under the screen lock
func (s *Screen[T]) OnTransition(fn func(Snapshot[T])) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Load issues a fetch for params and waits for it.
// A superseded request waits for the latest one to resolve, so the returned snapshot
// is never IN_PROGRESS unless ctx ends first.
func (s *Screen[T]) Load(ctx context.Context, params string) Snapshot[T] {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.params = params
	var zero T
	s.data = zero
	s.err = nil
	s.transition(model.RequestStatusInProgress)
	s.mu.Unlock()

	data, err := s.fetch(ctx, params)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.issued {
		logger.GetLogger().WithFields(map[string]interface{}{
			"screen": s.name,
			"params": params,
			"seq":    seq,
			"latest": s.issued,
		}).Debug("Discarding superseded response")
		return s.awaitSettled(ctx)
	}
	if err != nil {
		s.err = err
		s.transition(model.RequestStatusFailure)
		return s.snapshot()
	}
	s.data = data
	s.transition(model.RequestStatusSuccess)
	return s.snapshot()
}

// awaitSettled blocks until the screen leaves IN_PROGRESS. Called and returns with s.mu held.
func (s *Screen[T]) awaitSettled(ctx context.Context) Snapshot[T] {
	for s.status == model.RequestStatusInProgress && s.settled != nil {
		settled := s.settled
		s.mu.Unlock()
		select {
		case <-settled:
		case <-ctx.Done():
			s.mu.Lock()
			return s.snapshot()
		}
		s.mu.Lock()
	}
	return s.snapshot()
}

// Retry re-issues the last request with the same params
func (s *Screen[T]) Retry(ctx context.Context) Snapshot[T] {
	s.mu.Lock()
	params := s.params
	s.mu.Unlock()
	return s.Load(ctx, params)
}

// Snapshot returns the current state
func (s *Screen[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Screen[T]) transition(next model.RequestStatus) {
	if !s.status.CanTransition(next) {
		logger.GetLogger().WithFields(map[string]interface{}{
			"screen": s.name,
			"from":   s.status,
			"to":     next,
		}).Error("Rejected screen status transition")
		return
	}
	switch {
	case next == model.RequestStatusInProgress && s.status != model.RequestStatusInProgress:
		s.settled = make(chan struct{})
	case next.IsFinished() && s.settled != nil:
		close(s.settled)
		s.settled = nil
	}
	s.status = next
	snap := s.snapshot()
	for _, fn := range s.observers {
		fn(snap)
	}
}

func (s *Screen[T]) snapshot() Snapshot[T] {
	snap := Snapshot[T]{
		Name:   s.name,
		Status: s.status,
		Params: s.params,
		Data:   s.data,
		Err:    s.err,
		Seq:    s.issued,
	}
	if s.status == model.RequestStatusSuccess && s.empty != nil {
		snap.Empty = s.empty(s.data)
	}
	return snap
}
