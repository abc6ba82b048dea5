package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
)

// Errors
var (
	ErrInvalidSession = errors.New("invalid session")
)

// Service maps session tokens to participant names. A token is issued at
// registration and replaces the bare identity header; it carries no
// expiry of its own because membership is always re-checked against the
// directory, and the reaper revokes tokens when it evicts a name.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]string
}

// New creates a new auth service
func New() *Service {
	return &Service{
		sessions: make(map[string]string),
	}
}

// IssueToken creates a session token bound to the participant name
func (s *Service) IssueToken(name string) string {
	token := generateToken()

	s.mu.Lock()
	s.sessions[token] = name
	s.mu.Unlock()

	return token
}

// Resolve returns the participant name a token was issued for
func (s *Service) Resolve(token string) (string, error) {
	s.mu.RLock()
	name, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return "", ErrInvalidSession
	}
	return name, nil
}

// RevokeName invalidates every token issued for the given name; called by
// the reaper after eviction
func (s *Service) RevokeName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, n := range s.sessions {
		if n == name {
			delete(s.sessions, token)
		}
	}
}

func generateToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return "sess_" + base64.RawURLEncoding.EncodeToString(b)
}
