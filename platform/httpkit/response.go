// Package httpkit provides shared HTTP plumbing: response helpers, the
// domain-error to status mapping, and middleware.
package httpkit

import (
	"errors"
	"net/http"

	"caterops_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error body every endpoint returns. Details carries
// structured payloads such as selection violation lists.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// JSON writes payload with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Error writes an ErrorResponse with the given status.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// OK writes payload with 200.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// HandleError writes the response for a service-layer error and reports
// whether one was written. Typed apperr errors map through their Kind and
// keep their Details; anything untyped becomes a 400 with the bare message.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		c.JSON(domainErr.HTTPStatus(), ErrorResponse{
			Error:   domainErr.Message,
			Details: domainErr.Details,
		})
		return true
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	return true
}
