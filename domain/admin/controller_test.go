package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akeren/waitlist-api/config/router"
	"github.com/akeren/waitlist-api/internal/auth"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminRouter(t *testing.T, password string) *router.RouterService {
	t.Helper()

	logger := log.NewLoggerWithJSONOutput()
	service := newAdminService(logger, &fakeReader{total: 1}, nil, 0, func() time.Time { return fixedNow })

	rs := router.CreateRouterService(logger, &router.RouterConfig{})
	rs.MountController(NewAdminController(service, auth.NewCredentialChecker("admin", password)))
	return rs
}

func serveAdmin(rs *router.RouterService, method, path string, creds ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if len(creds) == 2 {
		req.SetBasicAuth(creds[0], creds[1])
	}
	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)
	return w
}

func TestLoginHandler(t *testing.T) {
	rs := newAdminRouter(t, "s3cret")

	t.Run("valid credentials", func(t *testing.T) {
		w := serveAdmin(rs, http.MethodPost, "/api/v1/admin/login", "admin", "s3cret")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Admin 'admin' logged in successfully.","token":"placeholder-admin-session-token-12345"}`, w.Body.String())
	})

	t.Run("wrong password", func(t *testing.T) {
		w := serveAdmin(rs, http.MethodPost, "/api/v1/admin/login", "admin", "nope")

		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"detail":"Invalid admin credentials."}`, w.Body.String())
		assert.Equal(t, `Basic realm="admin"`, w.Header().Get("WWW-Authenticate"))
	})

	t.Run("no credentials", func(t *testing.T) {
		w := serveAdmin(rs, http.MethodPost, "/api/v1/admin/login")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestLoginHandler_PasswordNotConfigured(t *testing.T) {
	rs := newAdminRouter(t, "")

	w := serveAdmin(rs, http.MethodPost, "/api/v1/admin/login", "admin", "anything")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Server Misconfiguration: Admin password not set."}`, w.Body.String())
}

func TestStatsHandler(t *testing.T) {
	rs := newAdminRouter(t, "s3cret")

	w := serveAdmin(rs, http.MethodGet, "/api/v1/admin/stats")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serveAdmin(rs, http.MethodGet, "/api/v1/admin/stats", "admin", "s3cret")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_signups":1`)
	assert.Contains(t, w.Body.String(), `"estimated_wait_time":"1-2 Weeks"`)
}
