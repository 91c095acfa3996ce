package services

import (
	"context"
	"errors"
	"fmt"

	"dashboard-api/internal/domain"
	"dashboard-api/internal/repositories"

	"go.uber.org/zap"
)

// Validator checks a DTO's structure before anything else runs.
type Validator interface {
	Validate(ctx context.Context, dto any) error
}

// CrudConfig binds one entity type to the generic CrudService.
//
// TransformCreate, TransformUpdate, BuildFilters, DataScope and IncludeOptions
// are required. ValidateBusinessRules and the After* hooks default to no-ops.
type CrudConfig struct {
	// Name is the entity name used in logs and not-found errors.
	Name       string
	Repository repositories.Repository
	Validator  Validator
	Logger     *zap.Logger

	TransformCreate func(dto any) (domain.Record, error)
	TransformUpdate func(dto any) (domain.Record, error)
	BuildFilters    func(q domain.Query, user domain.UserContext) ([]domain.Filter, error)
	DataScope       func(user domain.UserContext) domain.DataScope
	IncludeOptions  func(user domain.UserContext) []string

	// ValidateBusinessRules receives a nil dto for deletes and a nil existing
	// record for creates.
	ValidateBusinessRules func(ctx context.Context, dto any, user domain.UserContext, op domain.Operation, existing domain.Record) error
	AfterCreate           func(ctx context.Context, entity domain.Record, user domain.UserContext) error
	AfterUpdate           func(ctx context.Context, entity, previous domain.Record, user domain.UserContext) error
	AfterDelete           func(ctx context.Context, entity domain.Record, user domain.UserContext) error
}

func (c CrudConfig) check() error {
	var missing []error
	req := func(ok bool, field string) {
		if !ok {
			missing = append(missing, fmt.Errorf("%s is required", field))
		}
	}
	req(c.Name != "", "Name")
	req(c.Repository != nil, "Repository")
	req(c.Validator != nil, "Validator")
	req(c.TransformCreate != nil, "TransformCreate")
	req(c.TransformUpdate != nil, "TransformUpdate")
	req(c.BuildFilters != nil, "BuildFilters")
	req(c.DataScope != nil, "DataScope")
	req(c.IncludeOptions != nil, "IncludeOptions")
	if len(missing) > 0 {
		return fmt.Errorf("crud config %q: %w", c.Name, errors.Join(missing...))
	}
	return nil
}

func (c *CrudConfig) applyDefaults() {
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.ValidateBusinessRules == nil {
		c.ValidateBusinessRules = func(context.Context, any, domain.UserContext, domain.Operation, domain.Record) error { return nil }
	}
	if c.AfterCreate == nil {
		c.AfterCreate = func(context.Context, domain.Record, domain.UserContext) error { return nil }
	}
	if c.AfterUpdate == nil {
		c.AfterUpdate = func(context.Context, domain.Record, domain.Record, domain.UserContext) error { return nil }
	}
	if c.AfterDelete == nil {
		c.AfterDelete = func(context.Context, domain.Record, domain.UserContext) error { return nil }
	}
}

// NoIncludes is an IncludeOptions for entities without relations.
func NoIncludes(domain.UserContext) []string { return nil }
