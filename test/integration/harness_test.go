//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/secsim/internal/daemon"
	"github.com/eliteGoblin/focusd/secsim/internal/domain"
	"github.com/eliteGoblin/focusd/secsim/internal/httpapi"
	"github.com/eliteGoblin/focusd/secsim/internal/profile"
	"github.com/eliteGoblin/focusd/secsim/internal/usecase"
	"github.com/eliteGoblin/focusd/secsim/test/fixtures"
)

const testSessionID = "session-it"

// fastConfig shrinks every simulator delay so a session plays out in
// milliseconds. The phishing prompt is effectively disabled.
func fastConfig() daemon.SupervisorConfig {
	return daemon.SupervisorConfig{
		Scan:               daemon.ScanRunnerConfig{TickInterval: time.Millisecond, FileJitter: 500},
		Updates:            daemon.UpdateInstallerConfig{CheckDelay: time.Millisecond, StepDelay: time.Millisecond},
		PhishingDelay:      time.Hour,
		ToastSweepInterval: 5 * time.Millisecond,
		ReportTimeout:      time.Second,
	}
}

// liveSession is a store, its supervisor and the HTTP API in front of them.
type liveSession struct {
	store  *usecase.Store
	sink   *fixtures.RecordingSink
	server *httptest.Server
	cancel context.CancelFunc
	done   chan error
}

func startSession(cfg daemon.SupervisorConfig, settings domain.Settings, rnd daemon.Rand) *liveSession {
	logger := zap.NewNop()
	clock := clockwork.NewRealClock()
	profiles := profile.NewRegistry()

	l := &liveSession{
		store: usecase.NewStore(domain.NewState(settings), clock, logger),
		sink:  &fixtures.RecordingSink{},
		done:  make(chan error, 1),
	}

	sup := daemon.NewSupervisor(cfg, l.store, daemon.SupervisorDeps{
		Targets:   profiles.Targets,
		Rand:      rnd,
		Sink:      l.sink,
		SessionID: testSessionID,
	}, clock, logger)

	var ctx context.Context
	ctx, l.cancel = context.WithCancel(context.Background())
	go func() { l.done <- sup.Run(ctx) }()

	l.server = httptest.NewServer(httpapi.New(l.store, profiles, nil, clock, logger).Routes())
	return l
}

func (l *liveSession) stop() {
	l.server.Close()
	l.cancel()
	Eventually(l.done).Should(Receive(MatchError(context.Canceled)))
}

func (l *liveSession) state() domain.State {
	return l.store.State()
}

// act posts one envelope and returns the score the API reported.
func (l *liveSession) act(envelope string) int {
	resp, err := http.Post(l.server.URL+"/actions", "application/json", strings.NewReader(envelope))
	Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()
	Expect(resp.StatusCode).To(Equal(http.StatusAccepted))

	var body struct {
		Score int `json:"score"`
	}
	Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
	return body.Score
}

// post sends an empty POST and returns the status code.
func (l *liveSession) post(path string) int {
	resp, err := http.Post(l.server.URL+path, "application/json", nil)
	Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()
	return resp.StatusCode
}

func (l *liveSession) score() int {
	resp, err := http.Get(l.server.URL + "/score")
	Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()

	var body struct {
		Score int `json:"score"`
	}
	Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
	return body.Score
}

func threatCount(s domain.State) int {
	return len(s.Scan.Threats)
}
