// Package planner provides the event planning bounded context module:
// events, phases, phase items, and cost reporting.
package planner

import (
	apphttp "caterops_backend/internal/http"
	"caterops_backend/internal/planner/handler"
	"caterops_backend/internal/planner/repository"
	"caterops_backend/internal/planner/service"
	"caterops_backend/platform/logger"
	"caterops_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the planner bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the planner module. The catalog
// dependency resolves products, bundle definitions, and resource costs.
func NewModule(pool *pgxpool.Pool, catalog service.Catalog, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, catalog, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "planner"
}

// RegisterRoutes mounts planner routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	events := ctx.Protected.Group("/events")
	events.GET("", m.handler.ListEvents)
	events.POST("", m.handler.CreateEvent)
	events.GET("/:id", m.handler.GetEvent)
	events.PUT("/:id", m.handler.UpdateEvent)
	events.DELETE("/:id", m.handler.DeleteEvent)
	events.GET("/:id/cost-report", m.handler.EventCostReport)
	events.GET("/:id/phases", m.handler.ListPhases)
	events.POST("/:id/phases", m.handler.CreatePhase)
	events.PUT("/:id/phases/reorder", m.handler.ReorderPhases)

	phases := ctx.Protected.Group("/phases")
	phases.GET("/:id", m.handler.GetPhase)
	phases.PUT("/:id", m.handler.UpdatePhase)
	phases.DELETE("/:id", m.handler.DeletePhase)
	phases.GET("/:id/compatible-products", m.handler.ListCompatibleProducts)
	phases.GET("/:id/items", m.handler.ListItems)
	phases.POST("/:id/items", m.handler.AddItem)

	items := ctx.Protected.Group("/items")
	items.GET("/:id", m.handler.GetItem)
	items.PUT("/:id", m.handler.UpdateItem)
	items.DELETE("/:id", m.handler.RemoveItem)
	items.PUT("/:id/configuration", m.handler.SaveConfiguration)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
