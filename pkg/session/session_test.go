package session

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type failingStorage struct {
	*MemoryStorage
	failSet    bool
	failDelete bool
}

func (f *failingStorage) Set(key, value string) error {
	if f.failSet {
		return errors.New("disk full")
	}
	return f.MemoryStorage.Set(key, value)
}

func (f *failingStorage) Delete(keys ...string) error {
	if f.failDelete {
		return errors.New("read-only")
	}
	return f.MemoryStorage.Delete(keys...)
}

func TestStore_OpenHydrates(t *testing.T) {
	st := NewMemoryStorage()
	require.NoError(t, st.Set(KeyAccessToken, "a1"))
	require.NoError(t, st.Set(KeyRefreshToken, "r1"))
	require.NoError(t, st.Set(KeyTenantSlug, "acme"))

	s, err := Open(st)
	require.NoError(t, err)

	got := s.Get()
	require.Equal(t, "a1", got.AccessToken)
	require.Equal(t, "r1", got.RefreshToken)
	require.Equal(t, "acme", got.TenantSlug)
	require.Nil(t, got.User)
	require.True(t, s.IsAuthenticated())
}

func TestStore_EmptyIsUnauthenticated(t *testing.T) {
	s := NewMemoryStore()
	require.False(t, s.IsAuthenticated())
	require.False(t, s.Get().IsAuthenticated())
}

func TestStore_SetTokensPersistsBeforeReturning(t *testing.T) {
	st := NewMemoryStorage()
	s, err := Open(st)
	require.NoError(t, err)

	require.NoError(t, s.SetTokens("h.e1.s", "r1"))

	v, ok, err := st.Get(KeyAccessToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "h.e1.s", v)

	v, ok, err = st.Get(KeyRefreshToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "r1", v)
	require.True(t, s.IsAuthenticated())
}

func TestStore_SetTokensKeepsRefreshWhenNotRotated(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.SetTokens("a1", "r1"))
	require.NoError(t, s.SetTokens("a2", ""))

	got := s.Get()
	require.Equal(t, "a2", got.AccessToken)
	require.Equal(t, "r1", got.RefreshToken)
}

func TestStore_SetTokensStorageFailureLeavesMemory(t *testing.T) {
	st := &failingStorage{MemoryStorage: NewMemoryStorage(), failSet: true}
	s, err := Open(st)
	require.NoError(t, err)

	err = s.SetTokens("a1", "r1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "disk full")
	require.False(t, s.IsAuthenticated())
}

func TestStore_SetTenantIndependentOfTokens(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.SetTenant("acme"))
	got := s.Get()
	require.Equal(t, "acme", got.TenantSlug)
	require.False(t, got.IsAuthenticated())
}

func TestStore_ClearRemovesAllFields(t *testing.T) {
	st := NewMemoryStorage()
	s, err := Open(st)
	require.NoError(t, err)
	require.NoError(t, s.SetTokens("a1", "r1"))
	require.NoError(t, s.SetTenant("acme"))
	s.SetUser(&Identity{ID: "u1", TenantID: "t1"})

	require.NoError(t, s.Clear())

	require.Equal(t, Session{}, s.Get())
	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyTenantSlug} {
		_, ok, err := st.Get(key)
		require.NoError(t, err)
		require.False(t, ok, "key %q should be cleared", key)
	}
}

func TestStore_ClearResetsMemoryWhenStorageFails(t *testing.T) {
	st := &failingStorage{MemoryStorage: NewMemoryStorage()}
	s, err := Open(st)
	require.NoError(t, err)
	require.NoError(t, s.SetTokens("a1", "r1"))

	st.failDelete = true
	err = s.Clear()
	require.Error(t, err)
	require.Equal(t, Session{}, s.Get())
}

func TestStore_SubscribeNotifiesEveryChange(t *testing.T) {
	s := NewMemoryStore()
	var seen []Session
	unsubscribe := s.Subscribe(func(snap Session) {
		seen = append(seen, snap)
	})

	require.NoError(t, s.SetTenant("acme"))
	require.NoError(t, s.SetTokens("a1", "r1"))
	s.SetUser(PlaceholderIdentity())
	require.NoError(t, s.Clear())

	require.Len(t, seen, 4)
	require.Equal(t, "acme", seen[0].TenantSlug)
	require.Equal(t, "a1", seen[1].AccessToken)
	require.True(t, seen[2].User.Authenticated)
	require.Equal(t, Session{}, seen[3])

	unsubscribe()
	unsubscribe()
	require.NoError(t, s.SetTenant("other"))
	require.Len(t, seen, 4)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	s.SetUser(&Identity{ID: "u1"})

	got := s.Get()
	got.User.ID = "mutated"

	require.Equal(t, "u1", s.Get().User.ID)
}

func TestFileStorage_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	st := NewFileStorage(path)

	_, ok, err := st.Get(KeyAccessToken)
	require.NoError(t, err)
	require.False(t, ok)

	s, err := Open(st)
	require.NoError(t, err)
	require.NoError(t, s.SetTokens("a1", "r1"))
	require.NoError(t, s.SetTenant("acme"))

	reopened, err := Open(NewFileStorage(path))
	require.NoError(t, err)
	got := reopened.Get()
	require.Equal(t, "a1", got.AccessToken)
	require.Equal(t, "r1", got.RefreshToken)
	require.Equal(t, "acme", got.TenantSlug)

	require.NoError(t, reopened.Clear())
	cleared, err := Open(NewFileStorage(path))
	require.NoError(t, err)
	require.Equal(t, Session{}, cleared.Get())
}
