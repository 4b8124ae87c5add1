package infra

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlcipher "github.com/mutecomm/go-sqlcipher/v4"

	"github.com/eliteGoblin/focusd/secsim/internal/domain"
)

// Ensure sqlcipher driver is registered.
var _ = sqlcipher.ErrBusy

const (
	archiveDBName = "reports.db"
	schemaVersion = "1"
)

// EncryptedArchive implements domain.ReportArchive using a SQLCipher
// encrypted SQLite database.
type EncryptedArchive struct {
	db     *sql.DB
	dbPath string
}

// NewEncryptedArchive opens (or creates) an encrypted report archive.
// The key is used as the SQLCipher passphrase via PRAGMA key.
func NewEncryptedArchive(dataDir string, key []byte) (*EncryptedArchive, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, archiveDBName)
	keyHex := hex.EncodeToString(key)

	dsn := fmt.Sprintf("%s?_pragma_key=x'%s'&_pragma_cipher_page_size=4096", dbPath, keyHex)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open encrypted database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to encrypted database: %w", err)
	}

	// A wrong key only shows up on the first read of the schema.
	var tables int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master`).Scan(&tables); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrArchiveKeyMismatch, dbPath, err)
	}

	archive := &EncryptedArchive{
		db:     db,
		dbPath: dbPath,
	}

	if err := archive.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return archive, nil
}

func (a *EncryptedArchive) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL,
		score INTEGER NOT NULL,
		max_score INTEGER NOT NULL,
		details TEXT NOT NULL,
		tasks_completed INTEGER NOT NULL,
		total_tasks INTEGER NOT NULL,
		extracted_text TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := a.db.Exec(schema); err != nil {
		return err
	}
	_, err := a.db.Exec(`INSERT OR IGNORE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion)
	return err
}

// Send stores one report.
func (a *EncryptedArchive) Send(ctx context.Context, r domain.EvaluationReport) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO reports (session_id, type, score, max_score, details, tasks_completed,
			total_tasks, extracted_text, timestamp, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.Type, r.Score, r.MaxScore, r.Details, r.TasksCompleted,
		r.TotalTasks, r.ExtractedText, r.Timestamp, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to archive report: %w", err)
	}
	return nil
}

// List returns up to limit reports, newest first. A non-positive limit
// returns everything.
func (a *EncryptedArchive) List(ctx context.Context, limit int) ([]domain.EvaluationReport, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := a.db.QueryContext(ctx, `
		SELECT session_id, type, score, max_score, details, tasks_completed,
			total_tasks, extracted_text, timestamp
		FROM reports ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []domain.EvaluationReport
	for rows.Next() {
		var r domain.EvaluationReport
		if err := rows.Scan(&r.SessionID, &r.Type, &r.Score, &r.MaxScore, &r.Details,
			&r.TasksCompleted, &r.TotalTasks, &r.ExtractedText, &r.Timestamp); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// Count returns how many reports are archived.
func (a *EncryptedArchive) Count(ctx context.Context) (int, error) {
	var n int
	err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports`).Scan(&n)
	return n, err
}

// Path returns the database file path.
func (a *EncryptedArchive) Path() string {
	return a.dbPath
}

// Close releases the database connection.
func (a *EncryptedArchive) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

var _ domain.ReportArchive = (*EncryptedArchive)(nil)

// OpenArchive opens the archive in dataDir, keyed by the reports.key file
// beside it. The key is created on first use.
func OpenArchive(dataDir string) (*EncryptedArchive, error) {
	key, err := ensureArchiveKey(dataDir)
	if err != nil {
		return nil, err
	}
	return NewEncryptedArchive(dataDir, key)
}
