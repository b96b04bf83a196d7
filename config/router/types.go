package router

import (
	"github.com/gin-gonic/gin"
)

type RequestContext = gin.Context

type MiddlewareFunc = gin.HandlerFunc

// ServiceResult is what every handler returns. Successful results render Data
// as the response body (or {"message": ...} when Data is nil); error results
// render {"detail": Message} plus "errors" when Data carries field errors.
type ServiceResult struct {
	StatusCode int
	Data       any
	Message    string
	Headers    map[string]string
}

type HandlerFunction func(*RequestContext) *ServiceResult

type RESTController struct {
	name         string
	mountPoint   string
	version      string
	handlerCount int
	prepare      func(*RouterService, *RESTController)
}

func (result *ServiceResult) ToJSON() any {
	if result.IsError() {
		body := gin.H{"detail": result.Message}
		if result.Data != nil {
			body["errors"] = result.Data
		}
		return body
	}

	if result.Data != nil {
		return result.Data
	}

	return gin.H{"message": result.Message}
}

func (result *ServiceResult) IsSuccess() bool {
	return result.StatusCode >= 200 && result.StatusCode < 300
}

func (result *ServiceResult) IsError() bool {
	return result.StatusCode >= 400
}
