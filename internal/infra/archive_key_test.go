package infra

import (
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readKeyFile(t *testing.T, dir string) string {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(dir, archiveKeyName))
	require.NoError(t, err)
	return strings.TrimSpace(string(raw))
}

func TestOpenArchive_CreatesKeyOnFirstOpen(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "archive")

	archive, err := OpenArchive(dataDir)
	require.NoError(t, err)
	defer archive.Close()

	assert.Equal(t, filepath.Join(dataDir, archiveDBName), archive.Path())

	info, err := os.Stat(filepath.Join(dataDir, archiveKeyName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	key, err := hex.DecodeString(readKeyFile(t, dataDir))
	require.NoError(t, err)
	assert.Len(t, key, archiveKeySize)
}

func TestOpenArchive_ReusesKeyOnReopen(t *testing.T) {
	dataDir := t.TempDir()
	ctx := context.Background()

	archive, err := OpenArchive(dataDir)
	require.NoError(t, err)
	require.NoError(t, archive.Send(ctx, sampleReport(70, "s1")))
	require.NoError(t, archive.Close())
	key := readKeyFile(t, dataDir)

	reopened, err := OpenArchive(dataDir)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, key, readKeyFile(t, dataDir))
	reports, err := reopened.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, 70, reports[0].Score)
}

func TestOpenArchive_ToleratesHandEditedKey(t *testing.T) {
	dataDir := t.TempDir()

	archive, err := OpenArchive(dataDir)
	require.NoError(t, err)
	require.NoError(t, archive.Close())

	keyPath := filepath.Join(dataDir, archiveKeyName)
	edited := "  " + strings.ToUpper(readKeyFile(t, dataDir)) + "\n\n"
	require.NoError(t, os.WriteFile(keyPath, []byte(edited), 0600))

	reopened, err := OpenArchive(dataDir)
	require.NoError(t, err)
	assert.NoError(t, reopened.Close())
}

func TestOpenArchive_KeyErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(t *testing.T, keyPath string)
		wantErr error
	}{
		{
			name: "key replaced",
			mutate: func(t *testing.T, keyPath string) {
				other, err := newArchiveKey()
				require.NoError(t, err)
				require.NoError(t, os.WriteFile(keyPath, []byte(hex.EncodeToString(other)), 0600))
			},
			wantErr: ErrArchiveKeyMismatch,
		},
		{
			name: "key deleted",
			mutate: func(t *testing.T, keyPath string) {
				require.NoError(t, os.Remove(keyPath))
			},
			wantErr: ErrArchiveKeyLost,
		},
		{
			name: "key truncated",
			mutate: func(t *testing.T, keyPath string) {
				require.NoError(t, os.WriteFile(keyPath, []byte("abcd"), 0600))
			},
			wantErr: ErrInvalidArchiveKey,
		},
		{
			name: "key not hex",
			mutate: func(t *testing.T, keyPath string) {
				require.NoError(t, os.WriteFile(keyPath, []byte(strings.Repeat("zz", archiveKeySize)), 0600))
			},
			wantErr: ErrInvalidArchiveKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dataDir := t.TempDir()
			archive, err := OpenArchive(dataDir)
			require.NoError(t, err)
			require.NoError(t, archive.Send(context.Background(), sampleReport(40, "s")))
			require.NoError(t, archive.Close())

			tt.mutate(t, filepath.Join(dataDir, archiveKeyName))

			_, err = OpenArchive(dataDir)
			assert.ErrorIs(t, err, tt.wantErr)

			// A failed open never replaces the key file.
			if tt.wantErr == ErrArchiveKeyLost {
				assert.NoFileExists(t, filepath.Join(dataDir, archiveKeyName))
			}
		})
	}
}

func TestEnsureArchiveKey_KeepsExistingFile(t *testing.T) {
	dataDir := t.TempDir()

	first, err := ensureArchiveKey(dataDir)
	require.NoError(t, err)
	second, err := ensureArchiveKey(dataDir)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, hex.EncodeToString(first), readKeyFile(t, dataDir))
}
