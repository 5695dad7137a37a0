package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/macrolens/diary/internal/domain"
	applog "github.com/macrolens/diary/internal/log"
)

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps a domain error onto an HTTP status code
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidState), errors.Is(err, domain.ErrLowConfidence):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUSDAAPIFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as JSON. Unclassified errors are logged and
// replaced by a generic message.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		applog.Error(c.Request.Context(), "[http] request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}
