package auth

import (
	"github.com/akeren/waitlist-api/config/router"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
)

const (
	// AdminUserKey holds the authenticated admin username on the gin context.
	AdminUserKey = "admin_user"

	basicChallenge = `Basic realm="admin"`
)

// RequireAdmin rejects requests that do not carry valid admin Basic
// credentials. A missing header is rejected before the password
// configuration is consulted.
func RequireAdmin(checker *CredentialChecker) router.MiddlewareFunc {
	return func(c *router.RequestContext) {
		logger := router.GetLogger(c)

		username, password, ok := c.Request.BasicAuth()
		if !ok {
			logger.Warn("Admin request without credentials", "path", c.Request.URL.Path)
			router.WriteResult(c, router.UnauthorizedResult(ErrInvalidCredentials.Message, basicChallenge))
			return
		}

		user, err := checker.Check(username, password)
		if err != nil {
			if apperrors.HTTPStatusCode(err) == apperrors.StatusUnauthorized {
				logger.Warn("Admin credential check failed", "path", c.Request.URL.Path)
				router.WriteResult(c, router.UnauthorizedResult(apperrors.GetHumanReadableMessage(err), basicChallenge))
				return
			}

			logger.Error("Admin credential check unavailable", "error", err)
			router.WriteResult(c, router.ErrorResultFromError(err))
			return
		}

		c.Set(AdminUserKey, user)
		c.Next()
	}
}

// AdminUser returns the username stored by RequireAdmin.
func AdminUser(c *router.RequestContext) string {
	return c.GetString(AdminUserKey)
}
