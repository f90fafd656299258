package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/report-vault/internal/domain/activity"
	domain "github.com/bryanwahyu/report-vault/internal/domain/auth"
	"github.com/bryanwahyu/report-vault/internal/infra/credstore"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

type memActivity struct{ entries []*activity.Entry }

func (m *memActivity) Record(_ context.Context, e *activity.Entry) error {
	m.entries = append(m.entries, e)
	return nil
}

func (m *memActivity) Latest(context.Context, string, int) ([]*activity.Entry, error) {
	return m.entries, nil
}

func newTestManager(t *testing.T) (*Manager, *fakeClock, *memActivity) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	audit := &memActivity{}
	store := credstore.New(filepath.Join(t.TempDir(), "users.json"))
	return NewManager(store, audit, clock, 0), clock, audit
}

func TestLoginWithBootstrappedAccounts(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	token, ok := m.Login(ctx, "admin", "admin123")
	require.True(t, ok)
	require.NotEmpty(t, token)
	assert.True(t, m.IsAuthenticated(token))

	user, ok := m.CurrentUser(token)
	require.True(t, ok)
	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, "admin", user.Role)

	token2, ok := m.Login(ctx, "user", "user123")
	require.True(t, ok)
	assert.NotEqual(t, token, token2)
}

func TestLoginFailureIsGeneric(t *testing.T) {
	m, _, audit := newTestManager(t)
	ctx := context.Background()

	_, ok := m.Login(ctx, "admin", "wrong")
	assert.False(t, ok)
	_, ok = m.Login(ctx, "ghost", "admin123")
	assert.False(t, ok)

	// the audit trail, not the caller, distinguishes the two failures
	require.Len(t, audit.entries, 2)
	assert.Equal(t, "wrong password", audit.entries[0].Detail)
	assert.Equal(t, "unknown user", audit.entries[1].Detail)
}

func TestSessionExpiresAfterTimeout(t *testing.T) {
	m, clock, _ := newTestManager(t)
	ctx := context.Background()

	token, ok := m.Login(ctx, "admin", "admin123")
	require.True(t, ok)

	clock.now = clock.now.Add(DefaultSessionTimeout - time.Second)
	assert.True(t, m.IsAuthenticated(token))

	clock.now = clock.now.Add(time.Second)
	assert.False(t, m.IsAuthenticated(token))
	// expired session is gone, not just hidden
	_, ok = m.CurrentUser(token)
	assert.False(t, ok)
}

func TestLogoutDestroysSession(t *testing.T) {
	m, _, audit := newTestManager(t)
	ctx := context.Background()

	token, ok := m.Login(ctx, "admin", "admin123")
	require.True(t, ok)

	m.Logout(ctx, token)
	assert.False(t, m.IsAuthenticated(token))

	// logging out an unknown token is a no-op
	before := len(audit.entries)
	m.Logout(ctx, "no-such-token")
	assert.Len(t, audit.entries, before)
}

func TestPermissionGates(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	assert.False(t, m.CheckPermission("no-session", domain.PermAnalysis))
	assert.Error(t, m.RequirePermission("no-session", domain.PermAnalysis))

	admin, ok := m.Login(ctx, "admin", "admin123")
	require.True(t, ok)
	assert.True(t, m.CheckPermission(admin, domain.PermAnalysis))
	assert.True(t, m.CheckPermission(admin, domain.PermConfig))
	assert.True(t, m.CheckPermission(admin, domain.PermAdmin))
	assert.NoError(t, m.RequirePermission(admin, domain.PermAdmin))

	user, ok := m.Login(ctx, "user", "user123")
	require.True(t, ok)
	assert.True(t, m.CheckPermission(user, domain.PermAnalysis))
	assert.False(t, m.CheckPermission(user, domain.PermAdmin))

	err := m.RequirePermission(user, domain.PermAdmin)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin")

	m.Logout(ctx, admin)
	assert.False(t, m.CheckPermission(admin, domain.PermAdmin))
}

func TestExpiryAppliesToPermissionChecks(t *testing.T) {
	m, clock, _ := newTestManager(t)
	token, ok := m.Login(context.Background(), "admin", "admin123")
	require.True(t, ok)

	clock.now = clock.now.Add(DefaultSessionTimeout)
	assert.False(t, m.CheckPermission(token, domain.PermAnalysis))
	assert.Error(t, m.RequirePermission(token, domain.PermAnalysis))
}
