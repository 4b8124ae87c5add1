// Package fixtures provides test helpers for integration tests.
package fixtures

import (
	"context"
	"sync"

	"github.com/eliteGoblin/focusd/secsim/internal/domain"
)

// RecordingSink is a report sink that keeps every report it receives.
type RecordingSink struct {
	mu      sync.Mutex
	reports []domain.EvaluationReport
	Err     error // Returned from Send after recording, when set
}

// Send records r.
func (s *RecordingSink) Send(_ context.Context, r domain.EvaluationReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, r)
	return s.Err
}

// Reports returns a copy of the recorded reports.
func (s *RecordingSink) Reports() []domain.EvaluationReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.EvaluationReport, len(s.reports))
	copy(out, s.reports)
	return out
}

var _ domain.ReportSink = (*RecordingSink)(nil)

// FixedRand always returns the same values, making scans deterministic.
// Float below a profile's threat chance guarantees a detection.
type FixedRand struct {
	Int   int
	Float float64
}

// IntN returns Int clamped to [0, n).
func (r FixedRand) IntN(n int) int {
	if n <= 0 || r.Int < 0 {
		return 0
	}
	if r.Int >= n {
		return n - 1
	}
	return r.Int
}

// Float64 returns Float.
func (r FixedRand) Float64() float64 {
	return r.Float
}
