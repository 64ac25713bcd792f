// Package handler exposes the catalog HTTP API.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"caterops_backend/internal/catalog/service"
	"caterops_backend/platform/httpkit"
	"caterops_backend/platform/validator"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"
)

// New creates a new catalog handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func mustGetWorkspaceID(c *gin.Context) (uuid.UUID, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.UUID{}, false
	}
	workspaceID := identity.WorkspaceID()
	if workspaceID == nil {
		httpkit.Error(c, http.StatusBadRequest, "workspace ID is required", nil)
		return uuid.UUID{}, false
	}
	return *workspaceID, true
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

// bindAndValidate decodes the JSON body into req and runs struct validation.
func (h *Handler) bindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return false
	}
	return true
}
