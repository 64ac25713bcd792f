package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"caterops_backend/internal/catalog/transport"
	"caterops_backend/platform/httpkit"
)

// CreateCategory creates a product category.
// POST /api/v1/catalog/categories
func (h *Handler) CreateCategory(c *gin.Context) {
	var req transport.CreateCategoryRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.CreateCategory(c.Request.Context(), workspaceID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// ListCategories lists categories.
// GET /api/v1/catalog/categories
func (h *Handler) ListCategories(c *gin.Context) {
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.ListCategories(c.Request.Context(), workspaceID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateCategory updates a category.
// PUT /api/v1/catalog/categories/:id
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.UpdateCategoryRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.UpdateCategory(c.Request.Context(), workspaceID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteCategory deletes a category.
// DELETE /api/v1/catalog/categories/:id
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteCategory(c.Request.Context(), workspaceID, id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// CreatePhaseType creates a phase type.
// POST /api/v1/catalog/phase-types
func (h *Handler) CreatePhaseType(c *gin.Context) {
	var req transport.CreatePhaseTypeRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.CreatePhaseType(c.Request.Context(), workspaceID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// ListPhaseTypes lists phase types.
// GET /api/v1/catalog/phase-types
func (h *Handler) ListPhaseTypes(c *gin.Context) {
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.ListPhaseTypes(c.Request.Context(), workspaceID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdatePhaseType updates a phase type.
// PUT /api/v1/catalog/phase-types/:id
func (h *Handler) UpdatePhaseType(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.UpdatePhaseTypeRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.UpdatePhaseType(c.Request.Context(), workspaceID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeletePhaseType deletes a phase type.
// DELETE /api/v1/catalog/phase-types/:id
func (h *Handler) DeletePhaseType(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.DeletePhaseType(c.Request.Context(), workspaceID, id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ListCompatibleProducts lists products that can be placed in phases of the
// given type.
// GET /api/v1/catalog/phase-types/:id/compatible-products
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

// CreateResource creates a resource.
// POST /api/v1/catalog/resources
func (h *Handler) CreateResource(c *gin.Context) {
	var req transport.CreateResourceRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.CreateResource(c.Request.Context(), workspaceID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// GetResource retrieves a resource.
// GET /api/v1/catalog/resources/:id
func (h *Handler) GetResource(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetResource(c.Request.Context(), workspaceID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListResources lists resources.
// GET /api/v1/catalog/resources
func (h *Handler) ListResources(c *gin.Context) {
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.ListResources(c.Request.Context(), workspaceID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateResource updates a resource.
// PUT /api/v1/catalog/resources/:id
func (h *Handler) UpdateResource(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.UpdateResourceRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.UpdateResource(c.Request.Context(), workspaceID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteResource deletes a resource.
// DELETE /api/v1/catalog/resources/:id
func (h *Handler) DeleteResource(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteResource(c.Request.Context(), workspaceID, id)) {
		return
	}
	c.Status(http.StatusNoContent)
}
