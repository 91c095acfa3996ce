package services

import (
	"context"
	"fmt"

	"dashboard-api/internal/domain"
	"dashboard-api/internal/repositories"

	"go.uber.org/zap"
)

// TypedConfig describes an entity E with create input C and update input U.
// It is lowered onto a CrudConfig so the shared flow stays monomorphic.
type TypedConfig[E, C, U any] struct {
	Name       string
	Repository repositories.Repository
	Validator  Validator
	Logger     *zap.Logger

	Decode          func(rec domain.Record) (E, error)
	TransformCreate func(dto C) (domain.Record, error)
	TransformUpdate func(dto U) (domain.Record, error)
	BuildFilters    func(q domain.Query, user domain.UserContext) ([]domain.Filter, error)
	DataScope       func(user domain.UserContext) domain.DataScope
	IncludeOptions  func(user domain.UserContext) []string

	ValidateCreate func(ctx context.Context, dto C, user domain.UserContext) error
	ValidateUpdate func(ctx context.Context, dto U, user domain.UserContext, existing E) error
	ValidateDelete func(ctx context.Context, user domain.UserContext, existing E) error

	AfterCreate func(ctx context.Context, entity E, user domain.UserContext) error
	AfterUpdate func(ctx context.Context, entity, previous E, user domain.UserContext) error
	AfterDelete func(ctx context.Context, entity E, user domain.UserContext) error
}

// TypedService exposes a CrudService in terms of concrete entity types.
type TypedService[E, C, U any] struct {
	core   *CrudService
	decode func(domain.Record) (E, error)
}

func NewTypedService[E, C, U any](cfg TypedConfig[E, C, U], opts ...Option) (*TypedService[E, C, U], error) {
	if cfg.Decode == nil {
		return nil, fmt.Errorf("typed config %q: Decode is required", cfg.Name)
	}
	decode := func(rec domain.Record) (E, error) {
		e, err := cfg.Decode(rec)
		if err != nil {
			var zero E
			return zero, domain.InternalError{Msg: "cannot decode " + cfg.Name, Err: err}
		}
		return e, nil
	}

	core := CrudConfig{
		Name:           cfg.Name,
		Repository:     cfg.Repository,
		Validator:      cfg.Validator,
		Logger:         cfg.Logger,
		BuildFilters:   cfg.BuildFilters,
		DataScope:      cfg.DataScope,
		IncludeOptions: cfg.IncludeOptions,
	}
	if cfg.TransformCreate != nil {
		core.TransformCreate = func(dto any) (domain.Record, error) {
			c, err := cast[C](cfg.Name, dto)
			if err != nil {
				return nil, err
			}
			return cfg.TransformCreate(c)
		}
	}
	if cfg.TransformUpdate != nil {
		core.TransformUpdate = func(dto any) (domain.Record, error) {
			u, err := cast[U](cfg.Name, dto)
			if err != nil {
				return nil, err
			}
			return cfg.TransformUpdate(u)
		}
	}

	core.ValidateBusinessRules = func(ctx context.Context, dto any, user domain.UserContext, op domain.Operation, existing domain.Record) error {
		switch op {
		case domain.OpCreate:
			if cfg.ValidateCreate == nil {
				return nil
			}
			c, err := cast[C](cfg.Name, dto)
			if err != nil {
				return err
			}
			return cfg.ValidateCreate(ctx, c, user)
		case domain.OpUpdate:
			if cfg.ValidateUpdate == nil {
				return nil
			}
			u, err := cast[U](cfg.Name, dto)
			if err != nil {
				return err
			}
			prev, err := decode(existing)
			if err != nil {
				return err
			}
			return cfg.ValidateUpdate(ctx, u, user, prev)
		case domain.OpDelete:
			if cfg.ValidateDelete == nil {
				return nil
			}
			prev, err := decode(existing)
			if err != nil {
				return err
			}
			return cfg.ValidateDelete(ctx, user, prev)
		}
		return nil
	}

	if cfg.AfterCreate != nil {
		core.AfterCreate = func(ctx context.Context, rec domain.Record, user domain.UserContext) error {
			e, err := decode(rec)
			if err != nil {
				return err
			}
			return cfg.AfterCreate(ctx, e, user)
		}
	}
	if cfg.AfterUpdate != nil {
		core.AfterUpdate = func(ctx context.Context, rec, previous domain.Record, user domain.UserContext) error {
			e, err := decode(rec)
			if err != nil {
				return err
			}
			prev, err := decode(previous)
			if err != nil {
				return err
			}
			return cfg.AfterUpdate(ctx, e, prev, user)
		}
	}
	if cfg.AfterDelete != nil {
		core.AfterDelete = func(ctx context.Context, rec domain.Record, user domain.UserContext) error {
			e, err := decode(rec)
			if err != nil {
				return err
			}
			return cfg.AfterDelete(ctx, e, user)
		}
	}

	svc, err := NewCrudService(core, opts...)
	if err != nil {
		return nil, err
	}
	return &TypedService[E, C, U]{core: svc, decode: decode}, nil
}

func cast[T any](name string, dto any) (T, error) {
	v, ok := dto.(T)
	if !ok {
		var zero T
		return zero, domain.InternalError{Msg: fmt.Sprintf("%s: unexpected input type %T", name, dto)}
	}
	return v, nil
}

// Core returns the untyped service.
func (s *TypedService[E, C, U]) Core() *CrudService { return s.core }

func (s *TypedService[E, C, U]) Name() string { return s.core.Name() }

func (s *TypedService[E, C, U]) Create(ctx context.Context, dto C, user domain.UserContext) (E, error) {
	rec, err := s.core.Create(ctx, dto, user)
	if err != nil {
		var zero E
		return zero, err
	}
	return s.decode(rec)
}

func (s *TypedService[E, C, U]) FindAllWithPagination(ctx context.Context, q domain.Query, user domain.UserContext) ([]E, domain.PaginationInfo, error) {
	page, err := s.core.FindAllWithPagination(ctx, q, user)
	if err != nil {
		return nil, domain.PaginationInfo{}, err
	}
	out := make([]E, 0, len(page.Data))
	for _, rec := range page.Data {
		e, err := s.decode(rec)
		if err != nil {
			return nil, domain.PaginationInfo{}, err
		}
		out = append(out, e)
	}
	return out, page.Pagination, nil
}

// FindOne returns (nil, nil) when the entity is absent or out of scope.
func (s *TypedService[E, C, U]) FindOne(ctx context.Context, id domain.ID, user domain.UserContext) (*E, error) {
	rec, err := s.core.FindOne(ctx, id, user)
	if err != nil || rec == nil {
		return nil, err
	}
	e, err := s.decode(rec)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *TypedService[E, C, U]) Update(ctx context.Context, id domain.ID, dto U, user domain.UserContext) (E, error) {
	rec, err := s.core.Update(ctx, id, dto, user)
	if err != nil {
		var zero E
		return zero, err
	}
	return s.decode(rec)
}

func (s *TypedService[E, C, U]) Remove(ctx context.Context, id domain.ID, user domain.UserContext) error {
	return s.core.Remove(ctx, id, user)
}
