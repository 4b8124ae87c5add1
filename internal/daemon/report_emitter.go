package daemon

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/secsim/internal/domain"
	"github.com/eliteGoblin/focusd/secsim/internal/usecase"
)

// DefaultReportTimeout bounds a single report delivery.
const DefaultReportTimeout = 10 * time.Second

// ReportEmitter sends each new evaluation to the hosting context.
// Delivery happens off the dispatch path and failures are only logged.
type ReportEmitter struct {
	sink      domain.ReportSink
	sessionID string
	timeout   time.Duration
	clock     clockwork.Clock
	logger    *zap.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewReportEmitter creates a new report emitter. A nil sink makes every
// emission a no-op.
func NewReportEmitter(
	sink domain.ReportSink,
	sessionID string,
	timeout time.Duration,
	clock clockwork.Clock,
	logger *zap.Logger,
) *ReportEmitter {
	if timeout <= 0 {
		timeout = DefaultReportTimeout
	}
	return &ReportEmitter{
		sink:      sink,
		sessionID: sessionID,
		timeout:   timeout,
		clock:     clock,
		logger:    logger,
	}
}

// Observe emits a report when next carries a new evaluation result.
func (e *ReportEmitter) Observe(prev, next domain.State) {
	if next.Evaluation == nil || next.Evaluation == prev.Evaluation {
		return
	}
	report := usecase.BuildReport(*next.Evaluation, e.clock.Now())
	report.SessionID = e.sessionID

	if e.sink == nil {
		e.logger.Debug("no report sink configured, dropping evaluation",
			zap.Int("score", report.Score))
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		e.logger.Warn("report emitter closed, dropping evaluation",
			zap.Int("score", report.Score))
		return
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.send(report)
	}()
}

func (e *ReportEmitter) send(report domain.EvaluationReport) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	if err := e.sink.Send(ctx, report); err != nil {
		e.logger.Warn("failed to deliver evaluation report",
			zap.String("session", report.SessionID),
			zap.Error(err))
		return
	}
	e.logger.Info("evaluation report emitted",
		zap.String("session", report.SessionID),
		zap.Int("score", report.Score),
		zap.Int("max_score", report.MaxScore))
}

// Wait blocks until in-flight deliveries finish.
func (e *ReportEmitter) Wait() {
	e.wg.Wait()
}

// Close stops accepting evaluations and waits for in-flight deliveries.
// Observe calls made after Close are dropped.
func (e *ReportEmitter) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.wg.Wait()
}
