package daemon

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/secsim/internal/domain"
)

// Job kinds owned by the supervisor. At most one job of each kind runs.
const (
	jobScan     = "scan"
	jobCheck    = "update-check"
	jobInstall  = "update-install"
	jobPhishing = "phishing"
)

// SupervisorConfig holds the timing of every simulator.
type SupervisorConfig struct {
	Scan               ScanRunnerConfig
	Updates            UpdateInstallerConfig
	PhishingDelay      time.Duration // Countdown before the phishing prompt (default 30s)
	ToastSweepInterval time.Duration // How often expired toasts are swept (default 250ms)
	ReportTimeout      time.Duration // Upper bound for one report delivery
}

// DefaultSupervisorConfig returns default simulator timing.
func DefaultSupervisorConfig() SupervisorConfig {
	return SupervisorConfig{
		Scan:               DefaultScanRunnerConfig(),
		Updates:            DefaultUpdateInstallerConfig(),
		PhishingDelay:      30 * time.Second,
		ToastSweepInterval: 250 * time.Millisecond,
		ReportTimeout:      DefaultReportTimeout,
	}
}

// Supervisor watches a session and starts or stops the simulators as the
// state crosses their trigger edges. Every background effect of a session
// is owned here and stops with Run.
type Supervisor struct {
	config  SupervisorConfig
	session Session
	logger  *zap.Logger

	scans     *ScanRunner
	updates   *UpdateInstaller
	phishing  *PhishingTimer
	sweeper   *ToastSweeper
	announcer *Announcer
	reports   *ReportEmitter

	mu      sync.Mutex
	ctx     context.Context
	jobs    map[string]*job
	stopped bool
	wg      sync.WaitGroup
}

type job struct {
	cancel context.CancelFunc
}

// SupervisorDeps are the collaborators a supervisor drives.
type SupervisorDeps struct {
	Targets   TargetResolver
	Rand      Rand
	Chime     domain.Chime
	Sink      domain.ReportSink
	SessionID string
}

// NewSupervisor creates a new supervisor.
func NewSupervisor(
	config SupervisorConfig,
	session Session,
	deps SupervisorDeps,
	clock clockwork.Clock,
	logger *zap.Logger,
) *Supervisor {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if deps.Rand == nil {
		deps.Rand = NewRand(0)
	}
	if deps.Chime == nil {
		deps.Chime = SilentChime{}
	}
	if deps.Targets == nil {
		deps.Targets = func(domain.ScanProfile) []string { return nil }
	}

	return &Supervisor{
		config:    config,
		session:   session,
		logger:    logger,
		scans:     NewScanRunner(config.Scan, session, deps.Targets, deps.Rand, deps.Chime, clock, logger),
		updates:   NewUpdateInstaller(config.Updates, session, clock, logger),
		phishing:  NewPhishingTimer(config.PhishingDelay, session, clock, logger),
		sweeper:   NewToastSweeper(config.ToastSweepInterval, session, clock, logger),
		announcer: NewAnnouncer(session, deps.Chime, logger),
		reports:   NewReportEmitter(deps.Sink, deps.SessionID, config.ReportTimeout, clock, logger),
		jobs:      make(map[string]*job),
	}
}

// Run supervises the session until ctx is canceled. Jobs still running at
// that point are canceled and awaited before Run returns.
func (s *Supervisor) Run(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.stopped = false
	s.mu.Unlock()

	unsubscribe := s.session.Subscribe(s.observe)
	s.logger.Info("supervisor started")

	// Pick up work that was already in progress before we subscribed.
	s.syncJobs(domain.State{}, s.session.State())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = s.sweeper.Run(ctx)
	}()

	<-ctx.Done()
	s.logger.Info("supervisor stopping")

	unsubscribe()
	s.mu.Lock()
	s.stopped = true
	for kind, j := range s.jobs {
		j.cancel()
		delete(s.jobs, kind)
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.reports.Close()
	return ctx.Err()
}

func (s *Supervisor) observe(prev, next domain.State) {
	s.syncJobs(prev, next)
	s.announcer.Observe(prev, next)
	s.reports.Observe(prev, next)
}

// syncJobs reacts to the edges of every trigger condition.
func (s *Supervisor) syncJobs(prev, next domain.State) {
	switch {
	case !prev.Scan.Scanning && next.Scan.Scanning:
		s.startJob(jobScan, s.scans.Run)
	case prev.Scan.Scanning && !next.Scan.Scanning:
		s.stopJob(jobScan)
	}

	switch {
	case !prev.Updates.Checking && next.Updates.Checking:
		s.startJob(jobCheck, s.updates.RunCheck)
	case prev.Updates.Checking && !next.Updates.Checking:
		s.stopJob(jobCheck)
	}

	switch {
	case !prev.Updates.Installing && next.Updates.Installing:
		s.startJob(jobInstall, s.updates.Run)
	case prev.Updates.Installing && !next.Updates.Installing:
		s.stopJob(jobInstall)
	}

	wasDue, isDue := PhishingDue(prev), PhishingDue(next)
	switch {
	case !wasDue && isDue:
		s.startJob(jobPhishing, s.phishing.Run)
	case wasDue && !isDue:
		s.stopJob(jobPhishing)
	}
}

func (s *Supervisor) startJob(kind string, fn func(context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || s.ctx == nil {
		return
	}
	if old, ok := s.jobs[kind]; ok {
		old.cancel()
	}

	ctx, cancel := context.WithCancel(s.ctx)
	j := &job{cancel: cancel}
	s.jobs[kind] = j

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		if err := fn(ctx); err != nil && ctx.Err() == nil {
			s.logger.Warn("job failed", zap.String("job", kind), zap.Error(err))
		}

		s.mu.Lock()
		if s.jobs[kind] == j {
			delete(s.jobs, kind)
		}
		s.mu.Unlock()
	}()
	s.logger.Debug("job started", zap.String("job", kind))
}

func (s *Supervisor) stopJob(kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if j, ok := s.jobs[kind]; ok {
		j.cancel()
		delete(s.jobs, kind)
		s.logger.Debug("job stopped", zap.String("job", kind))
	}
}

// running reports whether a job of the given kind is active.
func (s *Supervisor) running(kind string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[kind]
	return ok
}
