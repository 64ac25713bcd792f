package transport

import (
	"encoding/json"

	"github.com/google/uuid"
)

type CreateWorkspaceRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

type UpdateWorkspaceRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
}

type WorkspaceResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

type WorkspaceListResponse struct {
	Items []WorkspaceResponse `json:"items"`
}

// Configs are free-form JSON documents keyed per workspace, e.g. the
// catalog feature toggles.

type UpsertConfigRequest struct {
	Value json.RawMessage `json:"value" validate:"required"`
}

type ConfigResponse struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt string          `json:"updatedAt"`
}
