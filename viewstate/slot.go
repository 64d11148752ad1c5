package viewstate

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrSlotBusy is returned by Begin while a request is already in flight.
	ErrSlotBusy = errors.New("request already in progress")
	// ErrStaleTicket marks a completion that belongs to a superseded or reset request.
	ErrStaleTicket = errors.New("stale request completion discarded")
	// ErrInvalidTransition marks a completion for a slot that is not Loading.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrRequestPanicked marks a slot whose request function panicked.
	ErrRequestPanicked = errors.New("request panicked")
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// State is a snapshot of a slot. Result is only meaningful on Success, Err only on Failure.
type State[R any] struct {
	Status Status
	Result R
	Err    error
	Seq    uint64
}

// Ticket identifies one request issued on a slot.
type Ticket struct {
	slot string
	seq  uint64
}

func (t Ticket) Seq() uint64 {
	return t.seq
}

// Slot holds exactly one request state. Every request gets a sequence number and
// only the latest one may complete the slot.
type Slot[R any] struct {
	mu    sync.Mutex
	name  string
	seq   uint64
	state State[R]
}

func NewSlot[R any](name string) *Slot[R] {
	return &Slot[R]{name: name}
}

func (s *Slot[R]) Name() string {
	return s.name
}

// Begin moves the slot to Loading. It is rejected with ErrSlotBusy while a request
// is in flight, leaving that request untouched.
func (s *Slot[R]) Begin() (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Status == StatusLoading {
		return Ticket{}, fmt.Errorf("%s: %w", s.name, ErrSlotBusy)
	}

	return s.loadingLocked(), nil
}

// Supersede moves the slot to Loading even if a request is in flight. The older
// request can no longer complete the slot.
func (s *Slot[R]) Supersede() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadingLocked()
}

func (s *Slot[R]) loadingLocked() Ticket {
	s.seq++
	var zero R
	s.state = State[R]{Status: StatusLoading, Result: zero, Seq: s.seq}

	return Ticket{slot: s.name, seq: s.seq}
}

func (s *Slot[R]) Succeed(ticket Ticket, result R) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkCompletionLocked(ticket); err != nil {
		return err
	}
	s.state = State[R]{Status: StatusSuccess, Result: result, Seq: ticket.seq}

	return nil
}

func (s *Slot[R]) Fail(ticket Ticket, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if checkErr := s.checkCompletionLocked(ticket); checkErr != nil {
		return checkErr
	}
	if err == nil {
		err = errors.New("request failed")
	}
	s.state = State[R]{Status: StatusFailure, Err: err, Seq: ticket.seq}

	return nil
}

func (s *Slot[R]) checkCompletionLocked(ticket Ticket) error {
	if ticket.slot != s.name || ticket.seq != s.seq {
		return fmt.Errorf("%s: %w (seq %d, latest %d)", s.name, ErrStaleTicket, ticket.seq, s.seq)
	}
	if s.state.Status != StatusLoading {
		return fmt.Errorf("%s: %w from %s", s.name, ErrInvalidTransition, s.state.Status)
	}
	return nil
}

// Reset returns the slot to Idle from any state. An in-flight request becomes stale.
func (s *Slot[R]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.state = State[R]{Status: StatusIdle, Seq: s.seq}
}

func (s *Slot[R]) State() State[R] {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Run begins a request on the slot, executes fn and records its outcome. Every
// error from fn ends as a Failure state; a busy slot is returned as ErrSlotBusy
// without calling fn. A completion that lost to a newer request is discarded
// and reported with ErrStaleTicket.
func Run[R any](ctx context.Context, slot *Slot[R], fn func(ctx context.Context) (R, error)) (State[R], error) {
	ticket, err := slot.Begin()
	if err != nil {
		return slot.State(), err
	}

	return complete(ctx, slot, ticket, fn)
}

// RunLatest is Run with supersede semantics: a new request always starts and
// older in-flight requests are discarded when they complete.
func RunLatest[R any](ctx context.Context, slot *Slot[R], fn func(ctx context.Context) (R, error)) (State[R], error) {
	return complete(ctx, slot, slot.Supersede(), fn)
}

// complete records the outcome of fn. A panicking fn fails the slot before the
// panic propagates, so the slot never stays Loading.
func complete[R any](ctx context.Context, slot *Slot[R], ticket Ticket, fn func(ctx context.Context) (R, error)) (State[R], error) {
	defer func() {
		if r := recover(); r != nil {
			_ = slot.Fail(ticket, fmt.Errorf("%s: %w: %v", slot.Name(), ErrRequestPanicked, r))
			panic(r)
		}
	}()

	result, fnErr := fn(ctx)

	var err error
	if fnErr != nil {
		err = slot.Fail(ticket, fnErr)
	} else {
		err = slot.Succeed(ticket, result)
	}

	return slot.State(), err
}
