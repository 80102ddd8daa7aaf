package session

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStorage_FileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not enforced on windows")
	}
	path := filepath.Join(t.TempDir(), "session.json")
	st := NewFileStorage(path)
	require.NoError(t, st.Set(KeyAccessToken, "secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := Open(NewFileStorage(path))
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse session file")
}

func TestFileStorage_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	s, err := Open(NewFileStorage(path))
	require.NoError(t, err)
	require.Equal(t, Session{}, s.Get())
}

func TestFileStorage_DeleteMissingKeys(t *testing.T) {
	st := NewFileStorage(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, st.Delete(KeyAccessToken, KeyTenantSlug))
}
