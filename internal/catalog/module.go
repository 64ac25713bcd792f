// Package catalog provides the product catalog bounded context module:
// products, bundle composition, resources, and cost resolution.
package catalog

import (
	"caterops_backend/internal/catalog/handler"
	"caterops_backend/internal/catalog/repository"
	"caterops_backend/internal/catalog/service"
	"caterops_backend/internal/events"
	apphttp "caterops_backend/internal/http"
	"caterops_backend/platform/logger"
	"caterops_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module. It subscribes to
// workspace lifecycle events to seed per-workspace defaults.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	svc.RegisterEventHandlers(bus)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for use by other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/catalog")

	categories := group.Group("/categories")
	categories.GET("", m.handler.ListCategories)
	categories.POST("", m.handler.CreateCategory)
	categories.PUT("/:id", m.handler.UpdateCategory)
	categories.DELETE("/:id", m.handler.DeleteCategory)

	phaseTypes := group.Group("/phase-types")
	phaseTypes.GET("", m.handler.ListPhaseTypes)
	phaseTypes.POST("", m.handler.CreatePhaseType)
	phaseTypes.PUT("/:id", m.handler.UpdatePhaseType)
	phaseTypes.DELETE("/:id", m.handler.DeletePhaseType)
	phaseTypes.GET("/:id/compatible-products", m.handler.ListCompatibleProducts)

	resources := group.Group("/resources")
	resources.GET("", m.handler.ListResources)
	resources.POST("", m.handler.CreateResource)
	resources.GET("/:id", m.handler.GetResource)
	resources.PUT("/:id", m.handler.UpdateResource)
	resources.DELETE("/:id", m.handler.DeleteResource)

	products := group.Group("/products")
	products.GET("", m.handler.ListProducts)
	products.POST("", m.handler.CreateProduct)
	products.GET("/:id", m.handler.GetProduct)
	products.PUT("/:id", m.handler.UpdateProduct)
	products.DELETE("/:id", m.handler.DeleteProduct)
	products.GET("/:id/bundle", m.handler.GetBundleDefinition)
	products.PUT("/:id/bundle", m.handler.DefineBundle)
	products.POST("/:id/validate-selection", m.handler.ValidateSelection)
	products.GET("/:id/rules", m.handler.ListConsumptionRules)
	products.PUT("/:id/rules", m.handler.ReplaceConsumptionRules)
	products.GET("/:id/cost", m.handler.ResolveCost)
	products.POST("/:id/cost", m.handler.ResolveCostForConfiguration)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
