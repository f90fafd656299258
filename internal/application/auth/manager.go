package auth

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bryanwahyu/report-vault/internal/application"
	"github.com/bryanwahyu/report-vault/internal/domain/activity"
	domain "github.com/bryanwahyu/report-vault/internal/domain/auth"
)

// DefaultSessionTimeout: a session is valid while now - loginTime < timeout
const DefaultSessionTimeout = 3600 * time.Second

// session is the per-token state. Expiry is checked lazily on every
// IsAuthenticated call; there is no background sweep.
type session struct {
	user      domain.UserInfo
	loginTime time.Time
}

// Manager authenticates credentials, issues time-bounded sessions keyed by
// opaque tokens, and exposes the permission gate every report operation passes
// through. Safe for concurrent use.
type Manager struct {
	creds    domain.CredentialStore
	activity activity.Repository // optional audit trail
	clock    application.Clock
	timeout  time.Duration

	mu       sync.RWMutex
	sessions map[string]*session
}

func NewManager(creds domain.CredentialStore, audit activity.Repository, clock application.Clock, timeout time.Duration) *Manager {
	if clock == nil {
		clock = application.SystemClock{}
	}
	if timeout <= 0 {
		timeout = DefaultSessionTimeout
	}
	return &Manager{
		creds:    creds,
		activity: audit,
		clock:    clock,
		timeout:  timeout,
		sessions: make(map[string]*session),
	}
}

// Authenticate verifies the password against the stored bcrypt hash. Unknown
// username and wrong password are both reported as a generic failure so the
// caller gets no enumeration signal; the audit log distinguishes them.
func (m *Manager) Authenticate(ctx context.Context, username, password string) (*domain.UserInfo, bool) {
	users, err := m.creds.Load(ctx)
	if err != nil {
		log.Printf("auth: load credentials: %v", err)
		return nil, false
	}

	cred, ok := users[username]
	if !ok {
		log.Printf("auth: unknown user: %s", username)
		m.record(ctx, username, "login_failed", "unknown user")
		return nil, false
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		log.Printf("auth: wrong password for user: %s", username)
		m.record(ctx, username, "login_failed", "wrong password")
		return nil, false
	}

	return &domain.UserInfo{
		Username:    username,
		Role:        cred.Role,
		Permissions: cred.Permissions,
	}, true
}

// Login authenticates and, on success, issues a fresh session token
func (m *Manager) Login(ctx context.Context, username, password string) (string, bool) {
	user, ok := m.Authenticate(ctx, username, password)
	if !ok {
		return "", false
	}

	token := uuid.NewString()
	m.mu.Lock()
	m.sessions[token] = &session{user: *user, loginTime: m.clock.Now()}
	m.mu.Unlock()

	log.Printf("auth: user %s logged in", username)
	m.record(ctx, username, "login", "")
	return token, true
}

// Logout destroys the session, if any
func (m *Manager) Logout(ctx context.Context, token string) {
	m.mu.Lock()
	s, ok := m.sessions[token]
	delete(m.sessions, token)
	m.mu.Unlock()

	if ok {
		log.Printf("auth: user %s logged out", s.user.Username)
		m.record(ctx, s.user.Username, "logout", "")
	}
}

// IsAuthenticated is the single source of truth for session validity. An
// expired session is discovered here and removed, not swept in the background.
func (m *Manager) IsAuthenticated(token string) bool {
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return false
	}

	if m.clock.Now().Sub(s.loginTime) >= m.timeout {
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
		log.Printf("auth: session expired for user %s", s.user.Username)
		return false
	}
	return true
}

// CheckPermission is false when not authenticated, otherwise membership in
// the session's permission set
func (m *Manager) CheckPermission(token string, name domain.Permission) bool {
	if !m.IsAuthenticated(token) {
		return false
	}
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	return s.user.HasPermission(name)
}

// RequirePermission gates an operation: nil when allowed, otherwise a short
// user-visible denial. The underlying operation must not be attempted.
func (m *Manager) RequirePermission(token string, name domain.Permission) error {
	if !m.CheckPermission(token, name) {
		return fmt.Errorf("you do not have the %q permission", name)
	}
	return nil
}

// CurrentUser returns the sanitized user info for a live session
func (m *Manager) CurrentUser(token string) (*domain.UserInfo, bool) {
	if !m.IsAuthenticated(token) {
		return nil, false
	}
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	u := s.user
	return &u, true
}

// record writes an audit entry, best-effort
func (m *Manager) record(ctx context.Context, username, action, detail string) {
	if m.activity == nil {
		return
	}
	e := &activity.Entry{
		Username:  username,
		Action:    action,
		Detail:    detail,
		CreatedAt: m.clock.Now(),
	}
	if err := m.activity.Record(ctx, e); err != nil {
		log.Printf("auth: record activity: %v", err)
	}
}
