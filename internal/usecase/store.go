package usecase

import (
	"sync"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/secsim/internal/domain"
)

// Listener observes every transition. It runs on the dispatching goroutine,
// outside the store lock, and may dispatch further actions.
type Listener func(prev, next domain.State)

// Dispatcher is the single entry point for state changes.
type Dispatcher interface {
	Dispatch(a Action)
}

// Session is a Dispatcher whose current state can be read.
type Session interface {
	Dispatcher
	State() domain.State
}

// Store owns the live session state.
//
// Dispatch is serialised: actions are queued and drained in FIFO order by
// whichever goroutine found the queue idle. Listeners are notified in
// transition order, and actions they dispatch are queued behind the current
// one instead of recursing.
type Store struct {
	mu        sync.Mutex
	state     domain.State
	queue     []Action
	draining  bool
	listeners map[int]Listener
	order     []int
	nextSubID int

	clock  clockwork.Clock
	logger *zap.Logger
}

var _ Session = (*Store)(nil)

// NewStore creates a store holding initial.
func NewStore(initial domain.State, clock clockwork.Clock, logger *zap.Logger) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		state:     initial,
		listeners: make(map[int]Listener),
		clock:     clock,
		logger:    logger,
	}
}

// State returns the current snapshot. Snapshots are immutable.
func (s *Store) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Score returns the live security score of the current snapshot.
func (s *Store) Score() int {
	return SecurityScore(s.State())
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.listeners[id] = l
	s.order = append(s.order, id)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// Dispatch applies a. If another dispatch is in progress the action is
// queued and applied by that caller before it returns.
func (s *Store) Dispatch(a Action) {
	if a == nil {
		return
	}

	s.mu.Lock()
	s.queue = append(s.queue, a)
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true

	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]

		prev := s.state
		s.state = Reduce(prev, next, s.clock.Now())
		cur := s.state
		listeners := make([]Listener, 0, len(s.order))
		for _, id := range s.order {
			listeners = append(listeners, s.listeners[id])
		}
		s.mu.Unlock()

		s.logger.Debug("action dispatched", zap.String("kind", next.Kind()))
		for _, l := range listeners {
			l(prev, cur)
		}

		s.mu.Lock()
	}

	s.queue = nil
	s.draining = false
	s.mu.Unlock()
}
