package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

var (
	// ErrSlotBusy is returned under the reject policy while a request is outstanding.
	ErrSlotBusy = errors.New("a request for this operation is already in progress")
	// ErrSuperseded is returned to a request cancelled by a newer one.
	ErrSuperseded = errors.New("request superseded by a newer one")
)

// Policy decides what a slot does with a request that arrives while another is outstanding
type Policy string

const (
	PolicyReject    Policy = "reject"
	PolicySupersede Policy = "supersede"
)

// ParsePolicy converts a config value into a Policy
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyReject, PolicySupersede:
		return p, nil
	}
	return "", fmt.Errorf("unknown slot policy: %q", s)
}

// Slot allows at most one outstanding request for one gateway operation
type Slot struct {
	name   string
	policy Policy
	sem    *semaphore.Weighted

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelCauseFunc
}

// NewSlot creates a slot with the given policy
func NewSlot(name string, policy Policy) *Slot {
	return &Slot{
		name:   name,
		policy: policy,
		sem:    semaphore.NewWeighted(1),
	}
}

// Acquire claims the slot. The returned context is cancelled with ErrSuperseded
// when a newer request takes over; release must be called once the work has unwound.
func (s *Slot) Acquire(ctx context.Context) (context.Context, func(), error) {
	runCtx, cancel := context.WithCancelCause(ctx)

	if s.policy == PolicyReject {
		if !s.sem.TryAcquire(1) {
			cancel(nil)
			return nil, nil, ErrSlotBusy
		}
		return runCtx, func() {
			cancel(nil)
			s.sem.Release(1)
		}, nil
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel(ErrSuperseded)
	}
	s.gen++
	gen := s.gen
	s.cancel = cancel
	s.mu.Unlock()

	// Wait for the previous holder to unwind
	if err := s.sem.Acquire(runCtx, 1); err != nil {
		s.clear(gen)
		cause := context.Cause(runCtx)
		cancel(nil)
		if errors.Is(cause, ErrSuperseded) {
			return nil, nil, ErrSuperseded
		}
		return nil, nil, err
	}
	if errors.Is(context.Cause(runCtx), ErrSuperseded) {
		s.clear(gen)
		cancel(nil)
		s.sem.Release(1)
		return nil, nil, ErrSuperseded
	}

	return runCtx, func() {
		s.clear(gen)
		cancel(nil)
		s.sem.Release(1)
	}, nil
}

// clear forgets the cancel func of generation gen if no newer request replaced it
func (s *Slot) clear(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen {
		s.cancel = nil
	}
}

// Superseded reports whether ctx, obtained from Acquire, was cancelled by a newer request
func Superseded(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), ErrSuperseded)
}
