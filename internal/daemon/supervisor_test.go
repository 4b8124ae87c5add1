package daemon

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/secsim/internal/domain"
	"github.com/eliteGoblin/focusd/secsim/internal/usecase"
)

func testSupervisorConfig() SupervisorConfig {
	return SupervisorConfig{
		Scan:               ScanRunnerConfig{TickInterval: 100 * time.Millisecond},
		Updates:            UpdateInstallerConfig{CheckDelay: time.Second, StepDelay: time.Second},
		PhishingDelay:      30 * time.Second,
		ToastSweepInterval: time.Hour,
		ReportTimeout:      time.Second,
	}
}

type supervisorHarness struct {
	store  *usecase.Store
	clock  *clockwork.FakeClock
	sup    *Supervisor
	sink   *recordingSink
	chime  *recordingChime
	ctx    context.Context
	cancel context.CancelFunc
	done   chan error

	once sync.Once
	err  error
}

// stop cancels Run and returns its result. Safe to call more than once.
func (h *supervisorHarness) stop() error {
	h.once.Do(func() {
		h.cancel()
		h.err = <-h.done
	})
	return h.err
}

func startSupervisor(t *testing.T) *supervisorHarness {
	t.Helper()

	store, clock := newTestStore()
	h := &supervisorHarness{
		store: store,
		clock: clock,
		sink:  &recordingSink{},
		chime: &recordingChime{},
		done:  make(chan error, 1),
	}
	h.sup = NewSupervisor(testSupervisorConfig(), store, SupervisorDeps{
		Targets:   staticTargets,
		Rand:      fixedRand{f: 0.99},
		Chime:     h.chime,
		Sink:      h.sink,
		SessionID: "test-session",
	}, clock, zap.NewNop())

	h.ctx, h.cancel = context.WithTimeout(context.Background(), 10*time.Second)
	go func() { h.done <- h.sup.Run(h.ctx) }()

	// The sweeper's ticker is the first waiter; once it exists Run has subscribed.
	require.NoError(t, clock.BlockUntilContext(h.ctx, 1))

	t.Cleanup(func() { _ = h.stop() })
	return h
}

func contains(list []string, v string) bool { return slices.Contains(list, v) }

func TestSupervisor_AnnouncesAchievements(t *testing.T) {
	h := startSupervisor(t)

	h.store.Dispatch(usecase.ToggleFirewall{})

	s := h.store.State()
	assert.Contains(t, toastTitles(s), "Achievement Unlocked!")
	assert.Equal(t, []domain.Cue{domain.CueAchievement}, h.chime.played())
}

func TestSupervisor_DrivesScanToCompletion(t *testing.T) {
	h := startSupervisor(t)

	h.store.Dispatch(usecase.StartScan{Profile: testProfile})
	require.True(t, h.sup.running(jobScan))
	require.NoError(t, h.clock.BlockUntilContext(h.ctx, 2))

	assert.Eventually(t, func() bool {
		h.clock.Advance(100 * time.Millisecond)
		return !h.store.State().Scan.Scanning
	}, 3*time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool { return !h.sup.running(jobScan) }, time.Second, 10*time.Millisecond)
	assert.Contains(t, toastTitles(h.store.State()), "Scan complete")
}

func TestSupervisor_DrivesUpdates(t *testing.T) {
	h := startSupervisor(t)

	h.store.Dispatch(usecase.CheckForUpdates{})
	require.True(t, h.sup.running(jobCheck))

	assert.Eventually(t, func() bool {
		h.clock.Advance(time.Second)
		return contains(toastTitles(h.store.State()), "System updated")
	}, 3*time.Second, 10*time.Millisecond)

	s := h.store.State()
	assert.True(t, s.Updates.AllInstalled())
	assert.False(t, s.Updates.Installing)
	assert.True(t, s.Achievements.Has(domain.LatestAndGreatest))
}

func TestSupervisor_PhishingCountdown(t *testing.T) {
	h := startSupervisor(t)

	h.store.Dispatch(usecase.OpenWindow{App: domain.AppSecurityCenter, Guarded: true})
	require.True(t, h.sup.running(jobPhishing))
	require.NoError(t, h.clock.BlockUntilContext(h.ctx, 2))

	h.clock.Advance(30 * time.Second)
	assert.Eventually(t, func() bool { return h.store.State().Phishing.PopupOpen }, time.Second, 10*time.Millisecond)

	h.store.Dispatch(usecase.ClosePhishingPopup{Claimed: false})
	s := h.store.State()
	assert.Equal(t, domain.PhishingAvoided, s.Phishing.Outcome)
	assert.True(t, s.Achievements.Has(domain.PhishAvoider))
	assert.False(t, h.sup.running(jobPhishing))
}

func TestSupervisor_PhishingCountdownRestartsAfterModal(t *testing.T) {
	h := startSupervisor(t)

	h.store.Dispatch(usecase.OpenWindow{App: domain.AppSecurityCenter, Guarded: true})
	require.True(t, h.sup.running(jobPhishing))
	require.NoError(t, h.clock.BlockUntilContext(h.ctx, 2))
	h.clock.Advance(20 * time.Second)

	h.store.Dispatch(usecase.ShowVulnerablePopup{})
	assert.False(t, h.sup.running(jobPhishing))

	h.store.Dispatch(usecase.CloseVulnerablePopup{})
	require.True(t, h.sup.running(jobPhishing))

	// The restarted countdown runs the full delay, not the 10s left over.
	elapsed := 0
	assert.Eventually(t, func() bool {
		if h.store.State().Phishing.PopupOpen {
			return true
		}
		h.clock.Advance(time.Second)
		elapsed++
		return false
	}, 5*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, elapsed, 30)
}

func TestSupervisor_PhishingCountdownStopsWhenReportClosesWindow(t *testing.T) {
	h := startSupervisor(t)

	h.store.Dispatch(usecase.OpenWindow{App: domain.AppSecurityCenter, Guarded: true})
	require.True(t, h.sup.running(jobPhishing))

	h.store.Dispatch(usecase.ShowSecurityReport{})
	assert.False(t, h.sup.running(jobPhishing))

	// Closing the report also closes the guarded window, so nothing is due.
	h.store.Dispatch(usecase.CloseSecurityReport{})
	assert.False(t, h.store.State().HasGuardedWindow())
	assert.False(t, h.sup.running(jobPhishing))

	h.clock.Advance(time.Minute)
	assert.False(t, h.store.State().Phishing.PopupOpen)
}

func TestSupervisor_EmitsEvaluationReport(t *testing.T) {
	h := startSupervisor(t)

	h.store.Dispatch(usecase.Evaluate{})

	require.Eventually(t, func() bool { return len(h.sink.sent()) == 1 }, time.Second, 10*time.Millisecond)
	report := h.sink.sent()[0]
	assert.Equal(t, "test-session", report.SessionID)
	assert.Equal(t, domain.ReportType, report.Type)
}

func TestSupervisor_StopsJobsOnCancel(t *testing.T) {
	h := startSupervisor(t)

	h.store.Dispatch(usecase.StartScan{Profile: testProfile})
	require.True(t, h.sup.running(jobScan))

	assert.ErrorIs(t, h.stop(), context.Canceled)
	assert.False(t, h.sup.running(jobScan))

	// Dispatches after shutdown start nothing.
	h.store.Dispatch(usecase.CheckForUpdates{})
	assert.False(t, h.sup.running(jobCheck))
}
