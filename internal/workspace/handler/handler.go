package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"caterops_backend/internal/workspace/service"
	"caterops_backend/internal/workspace/transport"
	"caterops_backend/platform/httpkit"
	"caterops_backend/platform/validator"
)

// Handler handles HTTP requests for workspaces.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid workspace id"
)

// New creates a new workspace handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// CreateWorkspace creates a new workspace.
// POST /api/v1/workspaces
func (h *Handler) CreateWorkspace(c *gin.Context) {
	var req transport.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// GetWorkspace retrieves a workspace by ID.
// GET /api/v1/workspaces/:id
func (h *Handler) GetWorkspace(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListWorkspaces lists all workspaces visible to the caller.
// GET /api/v1/workspaces
func (h *Handler) ListWorkspaces(c *gin.Context) {
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	result, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateWorkspace updates a workspace.
// PUT /api/v1/workspaces/:id
func (h *Handler) UpdateWorkspace(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	if httpkit.MustGetIdentity(c) == nil {
		return
	}

	result, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetConfig retrieves a workspace config document.
// GET /api/v1/workspaces/configs/:key
func (h *Handler) GetConfig(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c, identity)
	if !ok {
		return
	}

	result, err := h.svc.GetConfig(c.Request.Context(), workspaceID, c.Param("key"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpsertConfig creates or replaces a workspace config document.
// PUT /api/v1/workspaces/configs/:key
func (h *Handler) UpsertConfig(c *gin.Context) {
	var req transport.UpsertConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c, identity)
	if !ok {
		return
	}

	result, err := h.svc.UpsertConfig(c.Request.Context(), workspaceID, c.Param("key"), req.Value)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func mustGetWorkspaceID(c *gin.Context, identity httpkit.Identity) (uuid.UUID, bool) {
	workspaceID := identity.WorkspaceID()
	if workspaceID == nil {
		httpkit.Error(c, http.StatusBadRequest, "workspace ID is required", nil)
		return uuid.UUID{}, false
	}
	return *workspaceID, true
}
