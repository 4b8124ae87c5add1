package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/secsim/internal/domain"
)

// SinkKind names a report delivery target.
type SinkKind string

const (
	SinkNone    SinkKind = "none"
	SinkLog     SinkKind = "log"
	SinkWebhook SinkKind = "webhook"
	SinkFile    SinkKind = "file"
	SinkArchive SinkKind = "archive"
)

// SinkKinds lists every supported sink in display order.
func SinkKinds() []SinkKind {
	return []SinkKind{SinkNone, SinkLog, SinkWebhook, SinkFile, SinkArchive}
}

// SinkOptions configure OpenSink.
type SinkOptions struct {
	Kind       SinkKind
	WebhookURL string
	FileDir    string
	ArchiveDir string
}

// OpenSink builds the sink named by opts. The returned closer releases its
// resources; it is never nil. SinkNone yields a nil sink.
func OpenSink(opts SinkOptions, logger *zap.Logger) (domain.ReportSink, func() error, error) {
	noop := func() error { return nil }

	switch opts.Kind {
	case "", SinkNone:
		return nil, noop, nil
	case SinkLog:
		return NewLogSink(logger), noop, nil
	case SinkWebhook:
		if opts.WebhookURL == "" {
			return nil, noop, fmt.Errorf("webhook sink requires a webhook URL")
		}
		return NewWebhookSink(opts.WebhookURL, nil), noop, nil
	case SinkFile:
		sink, err := NewFileSink(opts.FileDir)
		if err != nil {
			return nil, noop, err
		}
		return sink, noop, nil
	case SinkArchive:
		archive, err := OpenArchive(opts.ArchiveDir)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open report archive: %w", err)
		}
		return archive, archive.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown report sink %q", opts.Kind)
	}
}

// LogSink writes reports to the structured log.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a log sink.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Send implements domain.ReportSink.
func (s *LogSink) Send(_ context.Context, r domain.EvaluationReport) error {
	s.logger.Info("evaluation result",
		zap.String("type", r.Type),
		zap.String("session", r.SessionID),
		zap.Int("score", r.Score),
		zap.Int("max_score", r.MaxScore),
		zap.Int("tasks_completed", r.TasksCompleted),
		zap.Int("total_tasks", r.TotalTasks),
		zap.String("details", r.Details),
		zap.String("timestamp", r.Timestamp))
	return nil
}

// WebhookSink POSTs each report as JSON to a fixed URL.
type WebhookSink struct {
	url    string
	client *http.Client
}

// NewWebhookSink creates a webhook sink. A nil client uses a client with a
// ten second timeout.
func NewWebhookSink(url string, client *http.Client) *WebhookSink {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WebhookSink{url: url, client: client}
}

// Send implements domain.ReportSink.
func (s *WebhookSink) Send(ctx context.Context, r domain.EvaluationReport) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.SessionID != "" {
		req.Header.Set("X-Session-Id", r.SessionID)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// FileSink writes every report to its own JSON file in a directory.
type FileSink struct {
	dir string
}

// NewFileSink creates the directory if needed and returns a sink writing
// into it.
func NewFileSink(dir string) (*FileSink, error) {
	if dir == "" {
		return nil, fmt.Errorf("file sink requires a directory")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

// Send implements domain.ReportSink.
func (s *FileSink) Send(ctx context.Context, r domain.EvaluationReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return atomicWrite(filepath.Join(s.dir, reportFileName(r)), data)
}

// Dir returns the directory reports are written to.
func (s *FileSink) Dir() string {
	return s.dir
}

// reportFileName derives a sortable, filesystem-safe name from the report.
func reportFileName(r domain.EvaluationReport) string {
	stamp := strings.NewReplacer(":", "", "-", "", ".", "").Replace(r.Timestamp)
	if stamp == "" {
		stamp = fmt.Sprintf("%d", time.Now().UnixNano())
	}
	name := "report-" + stamp
	if r.SessionID != "" {
		name += "-" + r.SessionID
	}
	return name + ".json"
}

// atomicWrite writes data next to path and renames it into place.
func atomicWrite(path string, data []byte) error {
	// Unique per process so concurrent writers never share a temp file.
	tmpPath := fmt.Sprintf("%s.%d.tmp", path, os.Getpid())
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

var (
	_ domain.ReportSink = (*LogSink)(nil)
	_ domain.ReportSink = (*WebhookSink)(nil)
	_ domain.ReportSink = (*FileSink)(nil)
)
