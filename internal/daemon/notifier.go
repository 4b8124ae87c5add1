package daemon

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/secsim/internal/domain"
	"github.com/eliteGoblin/focusd/secsim/internal/usecase"
)

// PhishingDue reports whether the phishing countdown should be running:
// the prompt was never answered, a guarded window is open and no modal is
// showing.
func PhishingDue(s domain.State) bool {
	return s.Phishing.Outcome == domain.PhishingUnanswered &&
		s.HasGuardedWindow() &&
		!s.ModalOpen()
}

// PhishingTimer shows the phishing prompt once its countdown elapses.
type PhishingTimer struct {
	delay   time.Duration
	session usecase.Session
	clock   clockwork.Clock
	logger  *zap.Logger
}

// NewPhishingTimer creates a new phishing countdown.
func NewPhishingTimer(delay time.Duration, session usecase.Session, clock clockwork.Clock, logger *zap.Logger) *PhishingTimer {
	return &PhishingTimer{
		delay:   delay,
		session: session,
		clock:   clock,
		logger:  logger,
	}
}

// Run waits for the countdown and shows the prompt if it is still due.
func (p *PhishingTimer) Run(ctx context.Context) error {
	if err := sleep(ctx, p.clock, p.delay); err != nil {
		return err
	}
	if !PhishingDue(p.session.State()) {
		return nil
	}
	p.session.Dispatch(usecase.ShowPhishingPopup{})
	p.logger.Info("phishing prompt shown")
	return nil
}

// ToastSweeper removes expired toasts on a fixed cadence.
type ToastSweeper struct {
	interval time.Duration
	session  usecase.Session
	clock    clockwork.Clock
	logger   *zap.Logger
}

// NewToastSweeper creates a new toast sweeper.
func NewToastSweeper(interval time.Duration, session usecase.Session, clock clockwork.Clock, logger *zap.Logger) *ToastSweeper {
	return &ToastSweeper{
		interval: interval,
		session:  session,
		clock:    clock,
		logger:   logger,
	}
}

// Run sweeps until ctx is canceled.
func (t *ToastSweeper) Run(ctx context.Context) error {
	ticker := t.clock.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			t.sweep()
		}
	}
}

func (t *ToastSweeper) sweep() {
	now := t.clock.Now()
	for _, toast := range t.session.State().Notifications {
		if !now.Before(toast.ExpiresAt) {
			t.session.Dispatch(usecase.ExpireNotifications{})
			return
		}
	}
}

// Announcer turns newly unlocked achievements into a toast and a sound cue,
// exactly once per unlock.
type Announcer struct {
	session usecase.Dispatcher
	chime   domain.Chime
	logger  *zap.Logger
}

// NewAnnouncer creates a new achievement announcer.
func NewAnnouncer(session usecase.Dispatcher, chime domain.Chime, logger *zap.Logger) *Announcer {
	return &Announcer{
		session: session,
		chime:   chime,
		logger:  logger,
	}
}

// Observe announces every achievement present in next but not in prev.
func (a *Announcer) Observe(prev, next domain.State) {
	for _, id := range next.Achievements.Added(prev.Achievements) {
		info, ok := id.Info()
		if !ok {
			continue
		}
		a.chime.Play(domain.CueAchievement)
		a.session.Dispatch(usecase.AddNotification{
			Title:    "Achievement Unlocked!",
			Message:  info.Name,
			Severity: domain.ToastAchievement,
			Icon:     "trophy",
		})
		a.logger.Info("achievement unlocked", zap.String("achievement", info.Key))
	}
}
