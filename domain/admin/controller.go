package admin

import (
	"github.com/akeren/waitlist-api/config/router"
	"github.com/akeren/waitlist-api/internal/auth"
)

// NewAdminController mounts /api/v1/admin/login and /api/v1/admin/stats, both
// behind admin Basic credentials.
func NewAdminController(service AdminService, checker *auth.CredentialChecker) *router.RESTController {
	return router.NewVersionedRESTController(
		"AdminController",
		"v1",
		"/admin",
		func(rs *router.RouterService, c *router.RESTController) {
			requireAdmin := auth.RequireAdmin(checker)

			rs.AddPostHandler(c, "login", loginHandler(service), requireAdmin)
			rs.AddGetHandler(c, "stats", statsHandler(service), requireAdmin)
		},
	)
}

func loginHandler(service AdminService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		response := service.Login(ctx.Request.Context(), auth.AdminUser(ctx))
		return router.OKResult(response, response.Message)
	}
}

func statsHandler(service AdminService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		stats, err := service.Stats(ctx.Request.Context())
		if err != nil {
			return router.ErrorResultFromError(err)
		}

		return router.OKResult(stats, "Waitlist statistics computed")
	}
}
