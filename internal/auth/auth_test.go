package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akeren/waitlist-api/config/router"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialChecker_Check(t *testing.T) {
	checker := NewCredentialChecker("", "s3cret")

	user, err := checker.Check("admin", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "admin", user)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "nope"},
		{"wrong username", "root", "s3cret"},
		{"both wrong", "root", "nope"},
		{"password prefix", "admin", "s3cre"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := checker.Check(tc.username, tc.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestCredentialChecker_NotConfigured(t *testing.T) {
	checker := NewCredentialChecker("admin", "")

	assert.False(t, checker.Configured())
	_, err := checker.Check("admin", "")
	assert.ErrorIs(t, err, ErrAdminPasswordNotConfigured)
}

func TestCredentialChecker_CustomUsername(t *testing.T) {
	checker := NewCredentialChecker("ops", "pw")

	user, err := checker.Check("ops", "pw")
	require.NoError(t, err)
	assert.Equal(t, "ops", user)

	_, err = checker.Check("admin", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func newProtectedRouter(t *testing.T, checker *CredentialChecker) *router.RouterService {
	t.Helper()

	rs := router.CreateRouterService(log.NewLoggerWithJSONOutput(), &router.RouterConfig{})
	rs.MountController(router.NewVersionedRESTController("Protected", "v1", "/", func(rs *router.RouterService, c *router.RESTController) {
		rs.AddGetHandler(c, "secret", func(ctx *router.RequestContext) *router.ServiceResult {
			return router.OKResult(map[string]string{"user": AdminUser(ctx)}, "ok")
		}, RequireAdmin(checker))
	}))
	return rs
}

func serve(rs *router.RouterService, username, password string, withAuth bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/secret", nil)
	if withAuth {
		req.SetBasicAuth(username, password)
	}
	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)
	return w
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	d, _ := body["detail"].(string)
	return d
}

func TestRequireAdmin(t *testing.T) {
	rs := newProtectedRouter(t, NewCredentialChecker("admin", "s3cret"))

	t.Run("valid credentials", func(t *testing.T) {
		w := serve(rs, "admin", "s3cret", true)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user":"admin"}`, w.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		w := serve(rs, "", "", false)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, `Basic realm="admin"`, w.Header().Get("WWW-Authenticate"))
		assert.Equal(t, "Invalid admin credentials.", detail(t, w))
	})

	t.Run("wrong password", func(t *testing.T) {
		w := serve(rs, "admin", "wrong", true)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, `Basic realm="admin"`, w.Header().Get("WWW-Authenticate"))
	})
}

func TestRequireAdmin_PasswordNotConfigured(t *testing.T) {
	rs := newProtectedRouter(t, NewCredentialChecker("admin", ""))

	w := serve(rs, "admin", "anything", true)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server Misconfiguration: Admin password not set.", detail(t, w))
	assert.Empty(t, w.Header().Get("WWW-Authenticate"))

	w = serve(rs, "", "", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
