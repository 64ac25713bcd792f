// Package workspace provides the tenant workspace bounded context module.
package workspace

import (
	"caterops_backend/internal/events"
	apphttp "caterops_backend/internal/http"
	"caterops_backend/internal/workspace/handler"
	"caterops_backend/internal/workspace/repository"
	"caterops_backend/internal/workspace/service"
	"caterops_backend/platform/logger"
	"caterops_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the workspace bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the workspace module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "workspace"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts workspace routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/workspaces")
	group.GET("", m.handler.ListWorkspaces)
	group.POST("", m.handler.CreateWorkspace)
	group.GET("/:id", m.handler.GetWorkspace)
	group.PUT("/:id", m.handler.UpdateWorkspace)
	group.GET("/configs/:key", m.handler.GetConfig)
	group.PUT("/configs/:key", m.handler.UpsertConfig)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
