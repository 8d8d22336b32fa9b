package session

import (
	"errors"
	"sync"

	"app/internal/model"
)

// Session is the authenticated identity a request acts under: an opaque user
// id, the user's email, and the coarse role classification. It replaces
// ambient global auth state with a value handed to whoever needs it.
type Session struct {
	UserID string
	Email  string
	Role   model.Role
}

// IsAdmin reports whether the session holds the admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == model.RoleAdmin
}

// Manager owns the session lifecycle: acquired from a token at sign-in,
// refreshed when credentials change, torn down at sign-out.
type Manager struct {
	keyMaterial string

	mu      sync.RWMutex
	current *Session
}

// NewManager creates a session Manager validating tokens against keyMaterial.
func NewManager(keyMaterial string) *Manager {
	return &Manager{keyMaterial: keyMaterial}
}

// FromToken validates a bearer token and builds the session it describes.
// Tokens without a recognized role claim default to the student role.
func (m *Manager) FromToken(token string) (*Session, error) {
	claims, err := ValidateJWT(token, m.keyMaterial)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	role := model.RoleStudent
	if claims.AppRole == string(model.RoleAdmin) {
		role = model.RoleAdmin
	}

	return &Session{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   role,
	}, nil
}

// Acquire validates the token and installs the resulting session as current.
func (m *Manager) Acquire(token string) (*Session, error) {
	s, err := m.FromToken(token)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.current = s
	m.mu.Unlock()
	return s, nil
}

// Refresh re-validates a new token for the same lifecycle slot, e.g. after
// the auth backend rotated credentials.
func (m *Manager) Refresh(token string) (*Session, error) {
	return m.Acquire(token)
}

// Current returns the installed session, or nil when signed out.
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// SignOut tears the current session down.
func (m *Manager) SignOut() {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
}
