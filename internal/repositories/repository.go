package repositories

import (
	"context"

	"dashboard-api/internal/domain"
)

// Repository is the scoped CRUD capability the generic service runs against.
//
// Every implementation must AND the scope into the predicate of every call,
// relations loaded through include included. The service never re-checks.
type Repository interface {
	Create(ctx context.Context, data domain.Record, include []string, scope domain.DataScope) (domain.Record, error)
	// FindByID returns (nil, nil) when no row with id is reachable under scope.
	FindByID(ctx context.Context, id domain.ID, include []string, scope domain.DataScope) (domain.Record, error)
	// Update returns domain.NotFoundError when no row with id is reachable under scope.
	Update(ctx context.Context, id domain.ID, data domain.Record, include []string, scope domain.DataScope) (domain.Record, error)
	// Delete returns domain.NotFoundError when no row with id is reachable under scope.
	Delete(ctx context.Context, id domain.ID, scope domain.DataScope) error
	FindManyWithPagination(ctx context.Context, filters []domain.Filter, sort domain.Sort, include []string, page domain.PageRequest, scope domain.DataScope) (domain.Page, error)
}
