package session

import (
	"fmt"
	"sync"
)

// Identity is the user identity shown by the client. It is decoded from the
// access token without signature verification and is informational only.
// A placeholder identity has Authenticated set and no ID.
type Identity struct {
	ID            string
	TenantID      string
	Authenticated bool
}

// PlaceholderIdentity is recorded when the access token's claims cannot be decoded.
func PlaceholderIdentity() *Identity {
	return &Identity{Authenticated: true}
}

// Session is a snapshot of the client session. Empty strings mean absent.
type Session struct {
	AccessToken  string
	RefreshToken string
	TenantSlug   string
	User         *Identity
}

// IsAuthenticated reports whether an access token is present.
func (s Session) IsAuthenticated() bool {
	return s.AccessToken != ""
}

// Store is the session store. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	storage   Storage
	current   Session
	nextID    int
	listeners map[int]func(Session)
}

// Open creates a Store and hydrates it from storage.
func Open(storage Storage) (*Store, error) {
	s := &Store{storage: storage, listeners: make(map[int]func(Session))}
	for key, dst := range map[string]*string{
		KeyAccessToken:  &s.current.AccessToken,
		KeyRefreshToken: &s.current.RefreshToken,
		KeyTenantSlug:   &s.current.TenantSlug,
	} {
		v, ok, err := storage.Get(key)
		if err != nil {
			return nil, fmt.Errorf("session.Open: %w", err)
		}
		if ok {
			*dst = v
		}
	}
	return s, nil
}

// NewMemoryStore returns an empty Store backed by MemoryStorage.
func NewMemoryStore() *Store {
	s, _ := Open(NewMemoryStorage()) //nolint:errcheck // memory storage never fails
	return s
}

// Get returns the current session.
func (s *Store) Get() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// IsAuthenticated reports whether an access token is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.AccessToken != ""
}

// SetTokens persists the access token and, when refresh is non-empty, the
// refresh token. An empty refresh leaves the stored refresh token in place.
// Memory is updated only after storage accepted the write.
func (s *Store) SetTokens(access, refresh string) error {
	s.mu.Lock()
	if err := s.storage.Set(KeyAccessToken, access); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("session.SetTokens: %w", err)
	}
	if refresh != "" {
		if err := s.storage.Set(KeyRefreshToken, refresh); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("session.SetTokens: %w", err)
		}
		s.current.RefreshToken = refresh
	}
	s.current.AccessToken = access
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// SetTenant persists the selected store slug, independent of token state.
func (s *Store) SetTenant(slug string) error {
	s.mu.Lock()
	if err := s.storage.Set(KeyTenantSlug, slug); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("session.SetTenant: %w", err)
	}
	s.current.TenantSlug = slug
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// SetUser records the decoded identity. It is kept in memory only.
func (s *Store) SetUser(u *Identity) {
	s.mu.Lock()
	if u != nil {
		cp := *u
		u = &cp
	}
	s.current.User = u
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Clear removes every persisted credential field and resets the session.
// Memory is reset even when storage fails; the storage error is returned.
func (s *Store) Clear() error {
	s.mu.Lock()
	err := s.storage.Delete(KeyAccessToken, KeyRefreshToken, KeyTenantSlug)
	s.current = Session{}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	if err != nil {
		return fmt.Errorf("session.Clear: %w", err)
	}
	return nil
}

// Subscribe registers fn to be called with a snapshot after every change.
// fn runs on the goroutine that made the change. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(Session)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) snapshotLocked() Session {
	out := s.current
	if s.current.User != nil {
		u := *s.current.User
		out.User = &u
	}
	return out
}

func (s *Store) notify(snap Session) {
	s.mu.RLock()
	fns := make([]func(Session), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(snap)
	}
}
