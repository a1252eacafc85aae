package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marcosfaria19/clarohub-sub000/internal/model"
	"github.com/marcosfaria19/clarohub-sub000/internal/parser"
)

// APIError carries an HTTP status alongside the message.
type APIError struct {
	Code    int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	return e.Message
}

// ErrorHandlerMiddleware converts errors attached to the context into the
// unified error envelope.
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last()

			var apiErr *APIError
			if errors.As(err, &apiErr) {
				Error(c, apiErr.Code, apiErr.Message, apiErr.Detail)
			} else {
				Error(c, http.StatusInternalServerError, "internal server error", err.Error())
			}
		}
	}
}

// BindError attaches a 400 APIError for a failed request bind. The error
// handler middleware renders it once the handler returns.
func BindError(c *gin.Context, err error) {
	_ = c.Error(&APIError{
		Code:    http.StatusBadRequest,
		Message: "invalid request",
		Detail:  err.Error(),
	})
}

// RespondDomainError maps the domain error taxonomy onto HTTP statuses.
// Anything unclassified is a 500 with a generic message; the detail is
// logged server-side by the request log, not leaked wholesale to clients.
func RespondDomainError(c *gin.Context, err error) {
	var schemaErr *parser.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		Error(c, http.StatusBadRequest, "invalid spreadsheet", schemaErr.Error())
	case errors.Is(err, model.ErrInvalidTarget):
		Error(c, http.StatusBadRequest, "invalid transition target", err.Error())
	case errors.Is(err, model.ErrPermission):
		Error(c, http.StatusForbidden, "not the current claim holder", err.Error())
	case errors.Is(err, model.ErrNotAvailable):
		Error(c, http.StatusNotFound, "queue empty", err.Error())
	case errors.Is(err, model.ErrNotFound):
		Error(c, http.StatusNotFound, "not found", err.Error())
	case errors.Is(err, model.ErrStageNotEmpty):
		Error(c, http.StatusConflict, "assignment still holds tasks", err.Error())
	default:
		GetLogger().WithError(err).Error("unhandled service error")
		Error(c, http.StatusInternalServerError, "internal server error", "")
	}
}
