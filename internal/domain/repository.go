package domain

import (
	"context"
	"time"
)

// ReportType is the fixed discriminator of evaluation messages.
const ReportType = "evaluationResult"

// EvaluationReport is the message handed to the hosting context when an
// evaluation completes. The JSON shape is a fixed contract.
type EvaluationReport struct {
	Type           string `json:"type"`
	Score          int    `json:"score"`
	MaxScore       int    `json:"maxScore"`
	Details        string `json:"details"`
	TasksCompleted int    `json:"tasksCompleted"`
	TotalTasks     int    `json:"totalTasks"`
	ExtractedText  string `json:"extractedText"`
	Timestamp      string `json:"timestamp"`

	// SessionID ties archived reports to the session that produced them.
	SessionID string `json:"-"`
}

// ReportSink delivers evaluation reports to the hosting context.
// Implementations: log, webhook, JSON file, encrypted archive.
type ReportSink interface {
	// Send delivers one report. Delivery is best-effort; callers log errors.
	Send(ctx context.Context, report EvaluationReport) error
}

// ReportArchive is a ReportSink that can also list what it stored.
// Implementation: SQLCipher database keyed by a file beside it.
type ReportArchive interface {
	ReportSink

	// List returns the most recent reports, newest first.
	List(ctx context.Context, limit int) ([]EvaluationReport, error)

	// Close releases the database connection.
	Close() error
}

// HealthItem is one line of the device health report.
type HealthItem struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// DeviceHealth is an informational snapshot of the host. It never
// influences the security score.
type DeviceHealth struct {
	Items     []HealthItem `json:"items"`
	CheckedAt time.Time    `json:"checkedAt"`
}

// HealthChecker inspects the host.
// Implementation: gopsutil disk, memory and host queries.
type HealthChecker interface {
	Check(ctx context.Context) (DeviceHealth, error)
}

// Cue names a sound effect.
type Cue string

const (
	CueNotification Cue = "notification"
	CueAchievement  Cue = "achievement"
)

// Chime plays sound cues. Audio is an outside concern; the default is silent.
type Chime interface {
	Play(cue Cue)
}
