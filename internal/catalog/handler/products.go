package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"caterops_backend/internal/catalog/transport"
	"caterops_backend/platform/httpkit"
)

// CreateProduct creates a product.
// POST /api/v1/catalog/products
func (h *Handler) CreateProduct(c *gin.Context) {
	var req transport.CreateProductRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.CreateProduct(c.Request.Context(), workspaceID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// GetProduct retrieves a product.
// GET /api/v1/catalog/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetProduct(c.Request.Context(), workspaceID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListProducts lists products with filters and pagination.
// GET /api/v1/catalog/products?search=&type=&role=&categoryId=&active=&limit=&offset=
func (h *Handler) ListProducts(c *gin.Context) {
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	query := transport.ListProductsQuery{Search: c.Query("search")}
	if v := c.Query("type"); v != "" {
		query.ProductType = &v
	}
	if v := c.Query("role"); v != "" {
		query.ProductRole = &v
	}
	if v := c.Query("categoryId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid categoryId", nil)
			return
		}
		query.CategoryID = &id
	}
	if v := c.Query("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid active flag", nil)
			return
		}
		query.IsActive = &active
	}
	query.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))
	query.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	result, err := h.svc.ListProducts(c.Request.Context(), workspaceID, query)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateProduct applies partial updates to a product.
// PUT /api/v1/catalog/products/:id
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.UpdateProductRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.UpdateProduct(c.Request.Context(), workspaceID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteProduct deletes a product.
// DELETE /api/v1/catalog/products/:id
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteProduct(c.Request.Context(), workspaceID, id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// GetBundleDefinition retrieves a bundle's composition.
// GET /api/v1/catalog/products/:id/bundle
func (h *Handler) GetBundleDefinition(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetBundleDefinition(c.Request.Context(), workspaceID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DefineBundle replaces a bundle's composition.
// PUT /api/v1/catalog/products/:id/bundle
func (h *Handler) DefineBundle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.DefineBundleRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.DefineBundle(c.Request.Context(), workspaceID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ValidateSelection checks a candidate component selection.
// POST /api/v1/catalog/products/:id/validate-selection
func (h *Handler) ValidateSelection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.ValidateSelectionRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.ValidateSelection(c.Request.Context(), workspaceID, id, req.Components)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListConsumptionRules lists a product's resource consumption rules.
// GET /api/v1/catalog/products/:id/rules
func (h *Handler) ListConsumptionRules(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.ListConsumptionRules(c.Request.Context(), workspaceID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ReplaceConsumptionRules replaces a product's resource consumption rules.
// PUT /api/v1/catalog/products/:id/rules
func (h *Handler) ReplaceConsumptionRules(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req transport.ReplaceRulesRequest
	if !h.bindAndValidate(c, &req) {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.ReplaceConsumptionRules(c.Request.Context(), workspaceID, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ResolveCost resolves a product's resource cost at a quantity using default
// selections.
// GET /api/v1/catalog/products/:id/cost?quantity=N
func (h *Handler) ResolveCost(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	quantity, err := strconv.ParseFloat(c.Query("quantity"), 64)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid quantity", nil)
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.ResolveProductCost(c.Request.Context(), workspaceID, id, quantity)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ResolveCostForConfiguration resolves a product's resource cost for an
// explicit component configuration.
// POST /api/v1/catalog/products/:id/cost
func (h *Handler) ResolveCostForConfiguration(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Quantity   float64                            `json:"quantity" validate:"gt=0"`
		Components []transport.ConfigurationComponent `json:"components" validate:"dive"`
	}
	if !h.bindAndValidate(c, &req) {
		return
	}
	workspaceID, ok := mustGetWorkspaceID(c)
	if !ok {
		return
	}

	result, err := h.svc.ResolveCostForConfiguration(c.Request.Context(), workspaceID, id, req.Quantity, req.Components)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
