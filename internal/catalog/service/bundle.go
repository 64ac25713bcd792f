package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"caterops_backend/internal/catalog/repository"
	"caterops_backend/internal/catalog/selection"
	"caterops_backend/internal/catalog/transport"
	"caterops_backend/platform/apperr"
)

// DefineBundle atomically replaces a bundle's option groups and component
// edges. The definition is rejected as a whole when any group range is
// invalid, any component is unknown, archived, or self-referencing, or the new edges
// would create a composition cycle.
func (s *Service) DefineBundle(ctx context.Context, workspaceID, productID uuid.UUID, req transport.DefineBundleRequest) (transport.BundleDefinitionResponse, error) {
	product, err := s.repo.GetProduct(ctx, workspaceID, productID)
	if err != nil {
		return transport.BundleDefinitionResponse{}, err
	}
	if product.ProductType != "bundle" {
		return transport.BundleDefinitionResponse{}, apperr.Validation("product is not a bundle")
	}

	groupKeys := make(map[string]bool, len(req.Groups))
	for _, group := range req.Groups {
		if groupKeys[group.Key] {
			return transport.BundleDefinitionResponse{}, apperr.Validation(fmt.Sprintf("duplicate group key %q", group.Key))
		}
		groupKeys[group.Key] = true
		if group.MaxSelect != nil && *group.MaxSelect < group.MinSelect {
			return transport.BundleDefinitionResponse{}, apperr.Validation(
				fmt.Sprintf("group %q: maximum %d is below minimum %d", group.Name, *group.MaxSelect, group.MinSelect))
		}
	}

	for _, comp := range req.Components {
		if comp.ChildProductID == productID {
			return transport.BundleDefinitionResponse{}, apperr.Validation("a bundle cannot contain itself")
		}
		if comp.GroupKey != nil && !groupKeys[*comp.GroupKey] {
			return transport.BundleDefinitionResponse{}, apperr.Validation(
				fmt.Sprintf("component references unknown group %q", *comp.GroupKey))
		}
		child, err := s.repo.GetProduct(ctx, workspaceID, comp.ChildProductID)
		if err != nil {
			if apperr.GetKind(err) == apperr.KindNotFound {
				return transport.BundleDefinitionResponse{}, apperr.Validation(
					fmt.Sprintf("unknown component product %s", comp.ChildProductID))
			}
			return transport.BundleDefinitionResponse{}, err
		}
		if !child.IsActive {
			return transport.BundleDefinitionResponse{}, apperr.Validation(
				fmt.Sprintf("component product %q is archived", child.Name))
		}
	}

	if err := s.checkComposition(ctx, workspaceID, productID, req.Components); err != nil {
		return transport.BundleDefinitionResponse{}, err
	}

	params := repository.ReplaceBundleDefinitionParams{
		WorkspaceID: workspaceID,
		ProductID:   productID,
		Groups:      make([]repository.GroupInput, len(req.Groups)),
		Components:  make([]repository.ComponentInput, len(req.Components)),
	}
	for i, group := range req.Groups {
		params.Groups[i] = repository.GroupInput{
			Key:             group.Key,
			Name:            group.Name,
			MinSelect:       group.MinSelect,
			MaxSelect:       group.MaxSelect,
			PricingBehavior: orDefault(group.PricingBehavior, "included"),
			SortOrder:       group.SortOrder,
		}
	}
	for i, comp := range req.Components {
		params.Components[i] = repository.ComponentInput{
			ChildProductID:  comp.ChildProductID,
			GroupKey:        comp.GroupKey,
			Quantity:        comp.Quantity,
			IsOptional:      comp.IsOptional,
			DefaultSelected: comp.DefaultSelected,
			VisibilityMode:  orDefault(comp.VisibilityMode, "both"),
			Notes:           comp.Notes,
		}
	}

	if err := s.repo.ReplaceBundleDefinition(ctx, params); err != nil {
		return transport.BundleDefinitionResponse{}, err
	}

	s.log.Info("bundle definition replaced",
		"workspaceId", workspaceID, "productId", productID,
		"groups", len(req.Groups), "components", len(req.Components))
	return s.GetBundleDefinition(ctx, workspaceID, productID)
}

// GetBundleDefinition retrieves a bundle's composition.
func (s *Service) GetBundleDefinition(ctx context.Context, workspaceID, productID uuid.UUID) (transport.BundleDefinitionResponse, error) {
	if _, err := s.repo.GetProduct(ctx, workspaceID, productID); err != nil {
		return transport.BundleDefinitionResponse{}, err
	}

	def, err := s.repo.GetBundleDefinition(ctx, workspaceID, productID)
	if err != nil {
		return transport.BundleDefinitionResponse{}, err
	}
	return toBundleDefinitionResponse(productID, def), nil
}

// ValidateSelection checks a candidate component selection against the
// bundle's group constraints and returns every violation.
func (s *Service) ValidateSelection(ctx context.Context, workspaceID, productID uuid.UUID, components []transport.ConfigurationComponent) (transport.ValidationResponse, error) {
	def, err := s.repo.GetBundleDefinition(ctx, workspaceID, productID)
	if err != nil {
		return transport.ValidationResponse{}, err
	}
	violations, err := validateAgainstDefinition(def, components)
	if err != nil {
		return transport.ValidationResponse{}, err
	}
	return transport.ValidationResponse{Valid: len(violations) == 0, Violations: violations}, nil
}

// validateAgainstDefinition runs the selection validator over a stored
// bundle definition. Selections referencing edges outside the definition are
// rejected outright.
func validateAgainstDefinition(def repository.BundleDefinition, components []transport.ConfigurationComponent) ([]transport.ViolationResponse, error) {
	known := make(map[uuid.UUID]bool, len(def.Components))
	for _, comp := range def.Components {
		known[comp.ID] = true
	}

	groups := make([]selection.Group, len(def.Groups))
	for i, group := range def.Groups {
		groups[i] = selection.Group{
			ID:        group.ID,
			Name:      group.Name,
			MinSelect: group.MinSelect,
			MaxSelect: group.MaxSelect,
		}
	}
	edges := make([]selection.Component, len(def.Components))
	for i, comp := range def.Components {
		edges[i] = selection.Component{
			ID:       comp.ID,
			GroupID:  comp.GroupID,
			Quantity: comp.Quantity,
		}
	}
	selections := make([]selection.Selection, len(components))
	for i, comp := range components {
		if !known[comp.ComponentID] {
			return nil, apperr.Validation(fmt.Sprintf("unknown bundle component %s", comp.ComponentID))
		}
		selections[i] = selection.Selection{
			ComponentID: comp.ComponentID,
			Quantity:    comp.Quantity,
			Selected:    comp.Selected,
		}
	}

	violations := selection.Validate(groups, edges, selections)
	responses := make([]transport.ViolationResponse, len(violations))
	for i, v := range violations {
		responses[i] = transport.ViolationResponse{GroupID: v.GroupID, GroupName: v.GroupName, Reason: v.Reason}
	}
	return responses, nil
}

// checkComposition rejects the definition when the candidate edges, combined
// with every other bundle's existing edges, would let the product reach
// itself.
func (s *Service) checkComposition(ctx context.Context, workspaceID, productID uuid.UUID, components []transport.ComponentDefinition) error {
	existing, err := s.repo.ListComponentEdges(ctx, workspaceID)
	if err != nil {
		return err
	}

	adjacency := make(map[uuid.UUID][]uuid.UUID)
	for _, edge := range existing {
		if edge.ParentID == productID {
			continue
		}
		adjacency[edge.ParentID] = append(adjacency[edge.ParentID], edge.ChildID)
	}
	for _, comp := range components {
		adjacency[productID] = append(adjacency[productID], comp.ChildProductID)
	}

	if reaches(adjacency, productID, productID, make(map[uuid.UUID]bool)) {
		return apperr.Validation("bundle composition would create a cycle")
	}
	return nil
}

// reaches reports whether target is reachable from any child of start.
func reaches(adjacency map[uuid.UUID][]uuid.UUID, start, target uuid.UUID, visited map[uuid.UUID]bool) bool {
	for _, child := range adjacency[start] {
		if child == target {
			return true
		}
		if visited[child] {
			continue
		}
		visited[child] = true
		if reaches(adjacency, child, target, visited) {
			return true
		}
	}
	return false
}

func toBundleDefinitionResponse(productID uuid.UUID, def repository.BundleDefinition) transport.BundleDefinitionResponse {
	resp := transport.BundleDefinitionResponse{
		ProductID:  productID,
		Groups:     make([]transport.BundleGroupResponse, len(def.Groups)),
		Components: make([]transport.BundleComponentResponse, len(def.Components)),
	}
	for i, group := range def.Groups {
		resp.Groups[i] = transport.BundleGroupResponse{
			ID:              group.ID,
			Name:            group.Name,
			MinSelect:       group.MinSelect,
			MaxSelect:       group.MaxSelect,
			PricingBehavior: group.PricingBehavior,
			SortOrder:       group.SortOrder,
		}
	}
	for i, comp := range def.Components {
		resp.Components[i] = transport.BundleComponentResponse{
			ID:              comp.ID,
			ChildProductID:  comp.ChildProductID,
			ChildName:       comp.ChildName,
			ChildType:       comp.ChildType,
			ChildActive:     comp.ChildActive,
			GroupID:         comp.GroupID,
			Quantity:        comp.Quantity,
			IsOptional:      comp.IsOptional,
			DefaultSelected: comp.DefaultSelected,
			VisibilityMode:  comp.VisibilityMode,
			Notes:           comp.Notes,
		}
	}
	return resp
}
