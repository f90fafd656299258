package middleware

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appauth "github.com/bryanwahyu/report-vault/internal/application/auth"
	"github.com/bryanwahyu/report-vault/internal/infra/credstore"
)

func TestLoggingSeesAuthenticatedUsername(t *testing.T) {
	creds := credstore.New(filepath.Join(t.TempDir(), "users.json"))
	sessions := appauth.NewManager(creds, nil, nil, 0)
	token, ok := sessions.Login(context.Background(), "admin", "admin123")
	require.True(t, ok)

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	// session auth wraps logging, matching the server's middleware order, so
	// the log line carries the resolved username
	h := SessionAuth(sessions)(LoggingMiddleware(inner))

	req := httptest.NewRequest(http.MethodGet, "/v1/reports", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), "user=admin")
}
