package infra

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// archiveKeyName is the hex SQLCipher passphrase stored beside reports.db.
const (
	archiveKeyName = "reports.key"
	archiveKeySize = 32
)

var (
	// ErrArchiveKeyLost means the database exists but its key file does not.
	// A new key could never decrypt it, so none is generated.
	ErrArchiveKeyLost = errors.New("report archive key is missing")

	// ErrInvalidArchiveKey means the key file is not a hex 256-bit key.
	ErrInvalidArchiveKey = errors.New("invalid report archive key")

	// ErrArchiveKeyMismatch means the key does not decrypt the database.
	ErrArchiveKeyMismatch = errors.New("report archive key does not match database")
)

func newArchiveKey() ([]byte, error) {
	key := make([]byte, archiveKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate archive key: %w", err)
	}
	return key, nil
}

func readArchiveKey(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArchiveKey, path, err)
	}
	if len(key) != archiveKeySize {
		return nil, fmt.Errorf("%w: %s: got %d bytes, want %d", ErrInvalidArchiveKey, path, len(key), archiveKeySize)
	}
	return key, nil
}

// ensureArchiveKey returns the key of the archive in dir. The first open of
// an empty directory creates the key file with owner-only permissions.
func ensureArchiveKey(dir string) ([]byte, error) {
	keyPath := filepath.Join(dir, archiveKeyName)

	key, err := readArchiveKey(keyPath)
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return key, err
	}
	if _, err := os.Stat(filepath.Join(dir, archiveDBName)); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrArchiveKeyLost, keyPath)
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	key, err = newArchiveKey()
	if err != nil {
		return nil, err
	}

	// O_EXCL: a concurrent opener that won the race keeps its key.
	f, err := os.OpenFile(keyPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if errors.Is(err, fs.ErrExist) {
		return readArchiveKey(keyPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create archive key: %w", err)
	}
	if _, err := f.WriteString(hex.EncodeToString(key) + "\n"); err != nil {
		f.Close()
		os.Remove(keyPath)
		return nil, fmt.Errorf("failed to write archive key: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(keyPath)
		return nil, fmt.Errorf("failed to write archive key: %w", err)
	}
	return key, nil
}
