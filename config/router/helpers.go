package router

import (
	"net/http"

	"github.com/akeren/waitlist-api/internal/log"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
)

func GetLogger(ctx *RequestContext) *log.Logger {
	if logger := ctx.Request.Context().Value(log.LoggerKeyForContext); logger != nil {
		if l, ok := logger.(*log.Logger); ok {
			return l
		}
	}

	baseLogger := log.NewLoggerWithJSONOutput()
	return baseLogger.WithCorrelationID(ctx.Request.Context())
}

// WriteResult renders result, including its headers, and stops the chain.
func WriteResult(ctx *RequestContext, result *ServiceResult) {
	for k, v := range result.Headers {
		ctx.Header(k, v)
	}
	ctx.AbortWithStatusJSON(result.StatusCode, result.ToJSON())
}

func OKResult(data any, message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusOK,
		Data:       data,
		Message:    message,
	}
}

func CreatedResult(data any, message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusCreated,
		Data:       data,
		Message:    message,
	}
}

func BadRequestResult(message string, payload any) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusBadRequest,
		Data:       payload,
		Message:    message,
	}
}

func UnprocessableEntityResult(message string, payload any) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusUnprocessableEntity,
		Data:       payload,
		Message:    message,
	}
}

func UnauthorizedResult(message string, challenge string) *ServiceResult {
	result := &ServiceResult{
		StatusCode: http.StatusUnauthorized,
		Message:    message,
	}
	if challenge != "" {
		result.Headers = map[string]string{"WWW-Authenticate": challenge}
	}
	return result
}

func NotFoundResult(message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusNotFound,
		Message:    message,
	}
}

func InternalServerErrorResult(message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusInternalServerError,
		Message:    message,
	}
}

func ServiceUnavailableResult(data any, message string) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusServiceUnavailable,
		Data:       data,
		Message:    message,
	}
}

func ErrorResult(statusCode int, message string, data any) *ServiceResult {
	return &ServiceResult{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
	}
}

// ErrorResultFromError maps an application error onto its HTTP status without
// leaking internal error text.
func ErrorResultFromError(err error) *ServiceResult {
	return ErrorResult(
		apperrors.HTTPStatusCode(err),
		apperrors.GetHumanReadableMessage(err),
		nil,
	)
}
