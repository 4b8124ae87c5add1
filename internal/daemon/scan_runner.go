package daemon

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/secsim/internal/domain"
	"github.com/eliteGoblin/focusd/secsim/internal/usecase"
)

// ScanRunnerConfig holds scan ticker configuration.
type ScanRunnerConfig struct {
	TickInterval time.Duration // Time between progress updates (default 100ms)
	FileJitter   int           // Upper bound of the random extra files per tick
}

// DefaultScanRunnerConfig returns default scan ticker configuration.
func DefaultScanRunnerConfig() ScanRunnerConfig {
	return ScanRunnerConfig{
		TickInterval: 100 * time.Millisecond,
		FileJitter:   500,
	}
}

// TargetResolver returns the paths a profile walks.
type TargetResolver func(p domain.ScanProfile) []string

// ScanRunner feeds progress into a running scan and finishes it.
// One Run call drives one scan; it returns once the scan is no longer running.
type ScanRunner struct {
	config  ScanRunnerConfig
	session usecase.Session
	targets TargetResolver
	rng     Rand
	chime   domain.Chime
	clock   clockwork.Clock
	logger  *zap.Logger
}

// NewScanRunner creates a new scan ticker.
func NewScanRunner(
	config ScanRunnerConfig,
	session usecase.Session,
	targets TargetResolver,
	rng Rand,
	chime domain.Chime,
	clock clockwork.Clock,
	logger *zap.Logger,
) *ScanRunner {
	return &ScanRunner{
		config:  config,
		session: session,
		targets: targets,
		rng:     rng,
		chime:   chime,
		clock:   clock,
		logger:  logger,
	}
}

// scanJob is the ticker-local state of one scan. The scan profile itself
// always comes from the session state.
type scanJob struct {
	scanned int
}

// Run ticks until the scan finishes, stops being the running scan, or ctx
// is canceled.
func (r *ScanRunner) Run(ctx context.Context) error {
	if !r.session.State().Scan.Scanning {
		return nil
	}

	r.logger.Debug("scan ticker started")
	ticker := r.clock.NewTicker(r.config.TickInterval)
	defer ticker.Stop()

	job := &scanJob{}
	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("scan ticker stopping")
			return ctx.Err()

		case <-ticker.Chan():
			if done := r.step(job); done {
				return nil
			}
		}
	}
}

// step performs one tick and reports whether the scan is over.
func (r *ScanRunner) step(job *scanJob) bool {
	s := r.session.State()
	if !s.Scan.Scanning {
		return true
	}
	if s.Scan.Progress >= 100 {
		r.finish(s.Scan.Profile)
		return true
	}

	profile := s.Scan.Profile
	ticks := profile.Ticks
	if ticks <= 0 {
		ticks = 1
	}
	progress := math.Min(100, s.Scan.Progress+100/float64(ticks))

	job.scanned += profile.FileCount / ticks
	if r.config.FileJitter > 0 {
		job.scanned += r.rng.IntN(r.config.FileJitter)
	}

	file, ok := r.pickTarget(s.Scan, r.targets(profile))
	if !ok {
		// The tick elapses without a report.
		return false
	}

	r.session.Dispatch(usecase.ScanProgress{
		Progress:     progress,
		FilesScanned: min(job.scanned, profile.FileCount),
		CurrentFile:  file,
	})

	if progress >= 100 {
		r.finish(profile)
		return true
	}
	return false
}

// pickTarget returns the file reported this tick, or false when the pick
// was excluded. With no scannable target at all the scan advances without
// a current file so it still finishes.
func (r *ScanRunner) pickTarget(scan domain.ScanState, targets []string) (string, bool) {
	scannable := 0
	for _, t := range targets {
		if !scan.IsExcluded(t) {
			scannable++
		}
	}
	if scannable == 0 {
		return "", true
	}
	file := targets[r.rng.IntN(len(targets))]
	if scan.IsExcluded(file) {
		return "", false
	}
	return file, true
}

// finish ends the scan, detecting one synthetic threat with the profile's
// probability, and announces the outcome.
func (r *ScanRunner) finish(profile domain.ScanProfile) {
	var threats []domain.Threat
	if r.rng.Float64() < profile.ThreatChance {
		threats = append(threats, domain.Threat{Name: usecase.ScanThreatName, Status: domain.ThreatActive})
	}

	r.session.Dispatch(usecase.FinishScan{Threats: threats})

	if len(threats) > 0 {
		r.chime.Play(domain.CueNotification)
		r.session.Dispatch(usecase.AddNotification{
			Title:    "Threat found!",
			Message:  fmt.Sprintf("Security found a threat: %s.", threats[0].Name),
			Severity: domain.ToastError,
			Icon:     "shield-error",
		})
	} else {
		r.session.Dispatch(usecase.AddNotification{
			Title:    "Scan complete",
			Message:  "No new threats were found.",
			Severity: domain.ToastSuccess,
			Icon:     "check-circle",
		})
	}

	r.logger.Info("scan finished",
		zap.String("profile", profile.ID),
		zap.Int("threats", len(threats)))
}
