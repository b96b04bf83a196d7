package waitlist

import (
	"github.com/akeren/waitlist-api/config/router"
	"github.com/akeren/waitlist-api/internal/auth"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
)

// NewWaitlistController mounts POST /api/v1/signup and the admin-only
// GET /api/v1/waitlist.
func NewWaitlistController(service WaitlistService, checker *auth.CredentialChecker) *router.RESTController {
	return router.NewVersionedRESTController(
		"WaitlistController",
		"v1",
		"/",
		func(rs *router.RouterService, c *router.RESTController) {
			rs.AddPostHandler(c, "signup", signupHandler(service))
			rs.AddGetHandler(c, "waitlist", listEntriesHandler(service), auth.RequireAdmin(checker))
		},
	)
}

func signupHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req SignupRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Warn("Rejected signup payload", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.UnprocessableEntityResult(InvalidEmailMessage, validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		response, err := service.Signup(ctx.Request.Context(), &req)
		if err != nil {
			return router.ErrorResultFromError(err)
		}

		return router.CreatedResult(response, response.Message)
	}
}

func listEntriesHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		response, err := service.ListEntries(ctx.Request.Context())
		if err != nil {
			return router.ErrorResultFromError(err)
		}

		return router.OKResult(response, "Waitlist entries retrieved successfully")
	}
}
