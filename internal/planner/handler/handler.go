// Package handler exposes the event planning HTTP API.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"caterops_backend/internal/planner/repository"
	"caterops_backend/internal/planner/service"
	"caterops_backend/internal/planner/transport"
	"caterops_backend/platform/httpkit"
	"caterops_backend/platform/validator"
)

// Handler handles HTTP requests for event planning.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"
)

// New creates a new planner handler.
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

// CreateEvent creates an event.
// POST /api/v1/events
func (h *Handler) CreateEvent(c *gin.Context) {
	var req transport.CreateEventRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.CreateEvent(c.Request.Context(), workspaceID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// GetEvent retrieves an event.
// GET /api/v1/events/:id
func (h *Handler) GetEvent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetEvent(c.Request.Context(), workspaceID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListEvents lists events with filters and pagination.
// GET /api/v1/events?status=&from=&to=&limit=&offset=
func (h *Handler) ListEvents(c *gin.Context) {
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	params := repository.ListEventsParams{WorkspaceID: workspaceID}
	if v := c.Query("status"); v != "" {
		params.Status = &v
	}
	if v := c.Query("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid from timestamp", nil)
			return
		}
		params.From = &from
	}
	if v := c.Query("to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid to timestamp", nil)
			return
		}
		params.To = &to
	}
	params.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))
	params.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	result, err := h.svc.ListEvents(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateEvent applies partial updates to an event.
// PUT /api/v1/events/:id
func (h *Handler) UpdateEvent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.UpdateEventRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.UpdateEvent(c.Request.Context(), workspaceID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteEvent deletes an event.
// DELETE /api/v1/events/:id
func (h *Handler) DeleteEvent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteEvent(c.Request.Context(), workspaceID, id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// EventCostReport resolves every item of an event and aggregates resource
// costs and prices.
// GET /api/v1/events/:id/cost-report
func (h *Handler) EventCostReport(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.EventCostReport(c.Request.Context(), workspaceID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreatePhase appends a phase to an event.
// POST /api/v1/events/:id/phases
func (h *Handler) CreatePhase(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.CreatePhaseRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.CreatePhase(c.Request.Context(), workspaceID, eventID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// ListPhases lists an event's phases in order.
// GET /api/v1/events/:id/phases
func (h *Handler) ListPhases(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.ListPhases(c.Request.Context(), workspaceID, eventID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ReorderPhases rewrites an event's phase ordering.
// PUT /api/v1/events/:id/phases/reorder
func (h *Handler) ReorderPhases(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.ReorderPhasesRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.ReorderPhases(c.Request.Context(), workspaceID, eventID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetPhase retrieves a phase.
// GET /api/v1/phases/:id
func (h *Handler) GetPhase(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetPhase(c.Request.Context(), workspaceID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdatePhase applies partial updates to a phase.
// PUT /api/v1/phases/:id
func (h *Handler) UpdatePhase(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.UpdatePhaseRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.UpdatePhase(c.Request.Context(), workspaceID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeletePhase deletes a phase.
// DELETE /api/v1/phases/:id
func (h *Handler) DeletePhase(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.DeletePhase(c.Request.Context(), workspaceID, id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ListCompatibleProducts lists products placeable in a phase.
// GET /api/v1/phases/:id/compatible-products
func (h *Handler) ListCompatibleProducts(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.ListCompatibleProducts(c.Request.Context(), workspaceID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// AddItem places a product in a phase.
// POST /api/v1/phases/:id/items
func (h *Handler) AddItem(c *gin.Context) {
	phaseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.AddItemRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.AddItem(c.Request.Context(), workspaceID, phaseID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// ListItems lists a phase's items.
// GET /api/v1/phases/:id/items
func (h *Handler) ListItems(c *gin.Context) {
	phaseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.ListItems(c.Request.Context(), workspaceID, phaseID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetItem retrieves an item with its stored configuration.
// GET /api/v1/items/:id
func (h *Handler) GetItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetItem(c.Request.Context(), workspaceID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateItem applies partial updates to an item.
// PUT /api/v1/items/:id
func (h *Handler) UpdateItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.UpdateItemRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.UpdateItem(c.Request.Context(), workspaceID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// RemoveItem removes an item.
// DELETE /api/v1/items/:id
func (h *Handler) RemoveItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.RemoveItem(c.Request.Context(), workspaceID, id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// SaveConfiguration replaces an item's component configuration.
// PUT /api/v1/items/:id/configuration
func (h *Handler) SaveConfiguration(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.SaveConfigurationRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.SaveConfiguration(c.Request.Context(), workspaceID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
