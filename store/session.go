package store

import (
	"sync"

	"courier-booking/logger"
	authTypes "courier-booking/types/auth"
)

// Storage keys for the two session records
const (
	UserSessionKey  = "courier_user"
	AdminSessionKey = "courier_admin"
)

type sessionRecord struct {
	User  authTypes.SessionUser `json:"user"`
	Token string                `json:"token,omitempty"`
}

// Session holds the signed-in user and bearer token. The in-memory copy stays authoritative
// when the backing storage fails.
type Session struct {
	storage Storage
	key     string

	mu    sync.RWMutex
	user  *authTypes.SessionUser
	token string
}

// NewSession restores any record persisted under key
func NewSession(storage Storage, key string) *Session {
	s := &Session{storage: storage, key: key}

	var record sessionRecord
	found, err := storage.Load(key, &record)
	if err != nil {
		logger.Error("Failed to restore session "+key, err)
		return s
	}
	if found && record.User.ID != "" {
		s.user = &record.User
		s.token = record.Token
	}
	return s
}

func (s *Session) Login(u authTypes.SessionUser, token string) {
	s.mu.Lock()
	s.user = &u
	s.token = token
	s.mu.Unlock()

	if err := s.storage.Save(s.key, sessionRecord{User: u, Token: token}); err != nil {
		logger.Error("Failed to persist session "+s.key, err)
	}
}

func (s *Session) Logout() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	if err := s.storage.Remove(s.key); err != nil {
		logger.Error("Failed to clear session "+s.key, err)
	}
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *Session) User() (authTypes.SessionUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return authTypes.SessionUser{}, false
	}
	return *s.user, true
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}
