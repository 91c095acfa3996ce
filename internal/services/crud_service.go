package services

import (
	"context"
	"math"

	"dashboard-api/internal/domain"
	"dashboard-api/internal/logger"

	"go.uber.org/zap"
)

const (
	DefaultPage      = 1
	DefaultLimit     = 10
	DefaultMaxLimit  = 100
	DefaultSortField = "createdAt"

	// MaxOffset bounds (page-1)*limit; deeper pages are refused.
	MaxOffset = math.MaxInt32
)

// PageResult is a page of records plus metadata derived from the raw totals.
type PageResult struct {
	Data       []domain.Record
	Pagination domain.PaginationInfo
}

// CrudService runs the shared create/read/update/delete flow for one entity
// type. Each operation is a fixed sequence: structural validation, business
// rules, persistence, post hooks, then a success log line. Errors from any
// step are returned unchanged and nothing after that step runs.
type CrudService struct {
	cfg      CrudConfig
	maxLimit int
}

// NewCrudService validates cfg and fills optional hooks with no-ops.
func NewCrudService(cfg CrudConfig, opts ...Option) (*CrudService, error) {
	if err := cfg.check(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	s := &CrudService{cfg: cfg, maxLimit: DefaultMaxLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Option tunes a CrudService.
type Option func(*CrudService)

// WithMaxLimit caps the page size; non-positive values keep the default.
func WithMaxLimit(n int) Option {
	return func(s *CrudService) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

func (s *CrudService) Name() string { return s.cfg.Name }

func (s *CrudService) log(ctx context.Context, op string, user domain.UserContext) *zap.Logger {
	return logger.From(ctx, s.cfg.Logger).With(
		logger.Entity(s.cfg.Name),
		logger.Op(op),
		logger.UserID(user.Subject),
		logger.Role(string(user.Role)),
		logger.OrgID(user.OrganizationID),
	)
}

func (s *CrudService) Create(ctx context.Context, dto any, user domain.UserContext) (domain.Record, error) {
	if err := s.cfg.Validator.Validate(ctx, dto); err != nil {
		return nil, err
	}
	if err := s.cfg.ValidateBusinessRules(ctx, dto, user, domain.OpCreate, nil); err != nil {
		return nil, err
	}
	data, err := s.cfg.TransformCreate(dto)
	if err != nil {
		return nil, err
	}

	entity, err := s.cfg.Repository.Create(ctx, data, nil, s.cfg.DataScope(user))
	if err != nil {
		return nil, err
	}
	if err := s.cfg.AfterCreate(ctx, entity, user); err != nil {
		return nil, err
	}

	l := s.log(ctx, string(domain.OpCreate), user)
	l.Info("entity created", logger.ID(int64(entity.RecordID("id"))))
	l.Debug("created entity payload", zap.Any("entity", entity))
	return entity, nil
}

// normalize applies paging and sorting defaults and rejects out-of-range input.
func (s *CrudService) normalize(q domain.Query) (domain.Query, domain.Sort, error) {
	switch {
	case q.Page < 0:
		return q, domain.Sort{}, domain.ValidationError{Field: "page", Msg: "must be at least 1"}
	case q.Page == 0:
		q.Page = DefaultPage
	}
	switch {
	case q.Limit < 0:
		return q, domain.Sort{}, domain.ValidationError{Field: "limit", Msg: "must be at least 1"}
	case q.Limit == 0:
		q.Limit = DefaultLimit
	case q.Limit > s.maxLimit:
		q.Limit = s.maxLimit
	}
	if q.Page-1 > MaxOffset/q.Limit {
		return q, domain.Sort{}, domain.ValidationError{Field: "page", Msg: "is out of range"}
	}

	order, ok := domain.ParseSortOrder(q.Order)
	if !ok {
		return q, domain.Sort{}, domain.ValidationError{Field: "order", Msg: "must be asc or desc"}
	}
	if order == "" {
		order = domain.SortDesc
	}
	field := q.Sort
	if field == "" {
		field = DefaultSortField
	}
	return q, domain.Sort{Field: field, Direction: order}, nil
}

func (s *CrudService) FindAllWithPagination(ctx context.Context, q domain.Query, user domain.UserContext) (PageResult, error) {
	q, sort, err := s.normalize(q)
	if err != nil {
		return PageResult{}, err
	}
	filters, err := s.cfg.BuildFilters(q, user)
	if err != nil {
		return PageResult{}, err
	}

	raw, err := s.cfg.Repository.FindManyWithPagination(
		ctx,
		filters,
		sort,
		s.cfg.IncludeOptions(user),
		domain.PageRequest{Page: q.Page, Limit: q.Limit},
		s.cfg.DataScope(user),
	)
	if err != nil {
		return PageResult{}, err
	}

	data := raw.Records
	if data == nil {
		data = []domain.Record{}
	}
	return PageResult{
		Data:       data,
		Pagination: domain.NewPaginationInfo(raw.Total, raw.Page, raw.Limit),
	}, nil
}

// FindOne returns (nil, nil) when id is absent or outside the caller's scope.
func (s *CrudService) FindOne(ctx context.Context, id domain.ID, user domain.UserContext) (domain.Record, error) {
	return s.cfg.Repository.FindByID(ctx, id, s.cfg.IncludeOptions(user), s.cfg.DataScope(user))
}

// Update loads the current row first so business rules and AfterUpdate can
// compare the previous state with the new one.
func (s *CrudService) Update(ctx context.Context, id domain.ID, dto any, user domain.UserContext) (domain.Record, error) {
	if err := s.cfg.Validator.Validate(ctx, dto); err != nil {
		return nil, err
	}
	scope := s.cfg.DataScope(user)

	existing, err := s.cfg.Repository.FindByID(ctx, id, nil, scope)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.NotFoundError{Resource: s.cfg.Name}
	}
	if err := s.cfg.ValidateBusinessRules(ctx, dto, user, domain.OpUpdate, existing); err != nil {
		return nil, err
	}
	data, err := s.cfg.TransformUpdate(dto)
	if err != nil {
		return nil, err
	}

	entity, err := s.cfg.Repository.Update(ctx, id, data, nil, scope)
	if err != nil {
		return nil, err
	}
	if err := s.cfg.AfterUpdate(ctx, entity, existing, user); err != nil {
		return nil, err
	}

	l := s.log(ctx, string(domain.OpUpdate), user)
	l.Info("entity updated", logger.ID(int64(id)))
	l.Debug("updated entity payload", zap.Any("entity", entity))
	return entity, nil
}

// Remove reports domain.NotFoundError both for missing ids and for ids
// outside the caller's scope.
func (s *CrudService) Remove(ctx context.Context, id domain.ID, user domain.UserContext) error {
	scope := s.cfg.DataScope(user)

	existing, err := s.cfg.Repository.FindByID(ctx, id, nil, scope)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.NotFoundError{Resource: s.cfg.Name}
	}
	if err := s.cfg.ValidateBusinessRules(ctx, nil, user, domain.OpDelete, existing); err != nil {
		return err
	}
	if err := s.cfg.Repository.Delete(ctx, id, scope); err != nil {
		return err
	}
	if err := s.cfg.AfterDelete(ctx, existing, user); err != nil {
		return err
	}

	s.log(ctx, string(domain.OpDelete), user).Info("entity deleted", logger.ID(int64(id)))
	return nil
}
