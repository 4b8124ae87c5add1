// Package daemon implements the background simulators that drive a session:
// scan progress, update installation, the phishing countdown, toast expiry,
// achievement announcements and evaluation report delivery.
package daemon

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/eliteGoblin/focusd/secsim/internal/domain"
	"github.com/eliteGoblin/focusd/secsim/internal/usecase"
)

// Session is a store the simulators can read, dispatch to and observe.
type Session interface {
	usecase.Session
	Subscribe(l usecase.Listener) func()
}

// Rand is the randomness the simulators draw from.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand returns a goroutine-safe PCG source. A zero seed is replaced by
// the current time.
func NewRand(seed uint64) Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// SilentChime is the default Chime: it plays nothing.
type SilentChime struct{}

// Play implements domain.Chime.
func (SilentChime) Play(domain.Cue) {}

var _ domain.Chime = SilentChime{}

// sleep waits for d on clock or until ctx is done.
func sleep(ctx context.Context, clock clockwork.Clock, d time.Duration) error {
	timer := clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.Chan():
		return nil
	}
}
