package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"dashboard-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVisitorStore(t *testing.T) *MemoryRepository {
	t.Helper()
	repo := NewMemoryRepository(VisitorsTable())
	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	n := 0
	repo.Now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
	return repo
}

func seedVisitors(t *testing.T, repo *MemoryRepository) {
	t.Helper()
	ctx := context.Background()
	for org := int64(1); org <= 2; org++ {
		for dept := int64(1); dept <= 3; dept++ {
			for i := 0; i < 4; i++ {
				_, err := repo.Create(ctx, domain.Record{
					"organization_id": org,
					"department_id":   org*10 + dept,
					"full_name":       fmt.Sprintf("Guest %d-%d-%d", org, dept, i),
					"id_number":       fmt.Sprintf("ID%d%d%d", org, dept, i),
					"purpose":         "meeting",
				}, nil, domain.DataScope{})
				require.NoError(t, err)
			}
		}
	}
}

func TestMemoryFindMany_NeverLeaksAcrossOrganizations(t *testing.T) {
	repo := newVisitorStore(t)
	seedVisitors(t, repo)
	ctx := context.Background()

	filterSets := [][]domain.Filter{
		nil,
		{{Field: "purpose", Op: domain.OpEq, Value: "meeting"}},
		{{Fields: []string{"full_name", "id_number"}, Op: domain.OpLike, Value: "Guest"}},
		{{Field: "organization_id", Op: domain.OpEq, Value: int64(2)}},
	}
	for _, org := range []int64{1, 2} {
		scope := domain.OrgScope(org)
		for _, filters := range filterSets {
			for page := 1; page <= 3; page++ {
				res, err := repo.FindManyWithPagination(ctx, filters, domain.Sort{Field: "createdAt", Direction: domain.SortDesc}, nil, domain.PageRequest{Page: page, Limit: 5}, scope)
				require.NoError(t, err)
				for _, rec := range res.Records {
					got, _ := rec.Int64("organization_id")
					assert.Equal(t, org, got, "org %d saw a row of org %d", org, got)
				}
			}
		}
	}
}

func TestMemoryFindMany_DepartmentScope(t *testing.T) {
	repo := newVisitorStore(t)
	seedVisitors(t, repo)

	scope := domain.DataScope{OrganizationID: domain.OrgScope(1).OrganizationID, DepartmentIDs: []int64{11, 12}}
	res, err := repo.FindManyWithPagination(context.Background(), nil, domain.Sort{Field: "createdAt"}, nil, domain.PageRequest{Page: 1, Limit: 100}, scope)
	require.NoError(t, err)
	assert.Equal(t, 8, res.Total)
	for _, rec := range res.Records {
		d, _ := rec.Int64("department_id")
		assert.Contains(t, []int64{11, 12}, d)
	}

	res, err = repo.FindManyWithPagination(context.Background(), nil, domain.Sort{Field: "createdAt"}, nil, domain.PageRequest{Page: 1, Limit: 100}, domain.DenyAll())
	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.Empty(t, res.Records)
}

func TestMemoryFindMany_PagesAndSorts(t *testing.T) {
	repo := newVisitorStore(t)
	seedVisitors(t, repo)
	ctx := context.Background()

	res, err := repo.FindManyWithPagination(ctx, nil, domain.Sort{Field: "createdAt", Direction: domain.SortAsc}, nil, domain.PageRequest{Page: 3, Limit: 10}, domain.DataScope{})
	require.NoError(t, err)
	assert.Equal(t, 24, res.Total)
	assert.Len(t, res.Records, 4)
	assert.Equal(t, domain.ID(21), res.Records[0].RecordID("id"))

	res, err = repo.FindManyWithPagination(ctx, nil, domain.Sort{Field: "createdAt", Direction: domain.SortDesc}, nil, domain.PageRequest{Page: 1, Limit: 2}, domain.DataScope{})
	require.NoError(t, err)
	assert.Equal(t, domain.ID(24), res.Records[0].RecordID("id"))
	assert.Equal(t, domain.ID(23), res.Records[1].RecordID("id"))

	_, err = repo.FindManyWithPagination(ctx, nil, domain.Sort{Field: "password"}, nil, domain.PageRequest{Page: 1, Limit: 2}, domain.DataScope{})
	assert.True(t, domain.IsValidation(err))

	_, err = repo.FindManyWithPagination(ctx, []domain.Filter{{Field: "secret", Op: domain.OpEq, Value: 1}}, domain.Sort{Field: "createdAt"}, nil, domain.PageRequest{Page: 1, Limit: 2}, domain.DataScope{})
	assert.True(t, domain.IsValidation(err))
}

func TestMemoryCreate_PinsRowInsideScope(t *testing.T) {
	repo := newVisitorStore(t)
	ctx := context.Background()
	scope := domain.DataScope{OrganizationID: domain.OrgScope(1).OrganizationID, DepartmentIDs: []int64{11}}

	rec, err := repo.Create(ctx, domain.Record{"organization_id": int64(2), "full_name": "A", "id_number": "1", "purpose": "x"}, nil, scope)
	require.NoError(t, err)
	org, _ := rec.Int64("organization_id")
	dept, _ := rec.Int64("department_id")
	assert.Equal(t, int64(1), org)
	assert.Equal(t, int64(11), dept)

	_, err = repo.Create(ctx, domain.Record{"department_id": int64(12), "full_name": "B"}, nil, scope)
	assert.True(t, domain.IsForbidden(err))

	_, err = repo.Create(ctx, domain.Record{"full_name": "C"}, nil, domain.DataScope{})
	assert.True(t, domain.IsValidation(err), "unscoped create must name its organization")

	_, err = repo.Create(ctx, domain.Record{"full_name": "D", "organization_id": int64(1)}, nil, domain.DenyAll())
	assert.True(t, domain.IsForbidden(err))
	assert.Equal(t, 1, repo.Len())
}

func TestMemoryErrors_UseClientFieldNames(t *testing.T) {
	repo := newVisitorStore(t)
	ctx := context.Background()

	fieldOf := func(err error) string {
		var ve domain.ValidationError
		require.ErrorAs(t, err, &ve)
		return ve.Field
	}

	_, err := repo.Create(ctx, domain.Record{"full_name": "A"}, nil, domain.DataScope{})
	assert.Equal(t, "organizationId", fieldOf(err))

	scope := domain.DataScope{OrganizationID: domain.OrgScope(1).OrganizationID, DepartmentIDs: []int64{11, 12}}
	_, err = repo.Create(ctx, domain.Record{"full_name": "B"}, nil, scope)
	assert.Equal(t, "departmentId", fieldOf(err))

	_, err = repo.FindManyWithPagination(ctx,
		[]domain.Filter{{Field: "host_name", Op: domain.OpEq, Value: "x"}},
		domain.Sort{Field: "createdAt"}, nil, domain.PageRequest{Page: 1, Limit: 10}, domain.DataScope{})
	assert.Equal(t, "hostName", fieldOf(err))
}

func TestMemoryOrganizations_ScopedCallerCannotCreateTenant(t *testing.T) {
	repo := NewMemoryRepository(OrganizationsTable())
	_, err := repo.Create(context.Background(), domain.Record{"name": "Acme", "code": "ACME"}, nil, domain.OrgScope(1))
	assert.True(t, domain.IsForbidden(err))

	rec, err := repo.Create(context.Background(), domain.Record{"name": "Acme", "code": "ACME"}, nil, domain.DataScope{})
	require.NoError(t, err)
	assert.Equal(t, domain.ID(1), rec.RecordID("id"))

	got, err := repo.FindByID(context.Background(), 1, nil, domain.OrgScope(1))
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.String("name"))

	got, err = repo.FindByID(context.Background(), 1, nil, domain.OrgScope(2))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryUpdateDelete_OutOfScopeLooksMissing(t *testing.T) {
	repo := newVisitorStore(t)
	seedVisitors(t, repo)
	ctx := context.Background()
	other := domain.OrgScope(2)

	// id 1 belongs to organization 1
	_, err := repo.Update(ctx, 1, domain.Record{"purpose": "x"}, nil, other)
	assert.True(t, domain.IsNotFound(err))

	errOutOfScope := repo.Delete(ctx, 1, other)
	errMissing := repo.Delete(ctx, 999, other)
	assert.Equal(t, errMissing, errOutOfScope)
	assert.Equal(t, 24, repo.Len())

	require.NoError(t, repo.Delete(ctx, 1, domain.OrgScope(1)))
	assert.Equal(t, 23, repo.Len())
}

func TestMemoryUpdate_CannotMoveOutOfScope(t *testing.T) {
	repo := newVisitorStore(t)
	seedVisitors(t, repo)
	scope := domain.DataScope{OrganizationID: domain.OrgScope(1).OrganizationID, DepartmentIDs: []int64{11}}

	_, err := repo.Update(context.Background(), 1, domain.Record{"department_id": int64(12)}, nil, scope)
	assert.True(t, domain.IsForbidden(err))

	_, err = repo.Update(context.Background(), 1, domain.Record{"organization_id": int64(2)}, nil, domain.OrgScope(1))
	assert.True(t, domain.IsForbidden(err))

	rec, err := repo.Update(context.Background(), 1, domain.Record{"purpose": "delivery", "unknown": 1}, nil, scope)
	require.NoError(t, err)
	assert.Equal(t, "delivery", rec.String("purpose"))
	assert.NotContains(t, rec, "unknown")
}

func TestMemoryRepository_CancelledContext(t *testing.T) {
	repo := newVisitorStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := repo.FindByID(ctx, 1, nil, domain.DataScope{})
	assert.True(t, domain.IsStore(err))
}

func TestMatchOne(t *testing.T) {
	assert.True(t, matchOne(int64(3), domain.OpIn, []int64{1, 3}))
	assert.False(t, matchOne(int64(2), domain.OpIn, []int64{1, 3}))
	assert.True(t, matchOne(nil, domain.OpIsNull, true))
	assert.False(t, matchOne(time.Now(), domain.OpIsNull, true))
	assert.True(t, matchOne("Budi Santoso", domain.OpLike, "santoso"))
	assert.True(t, matchOne(int64(5), domain.OpGte, 5))
	assert.True(t, matchOne(int64(4), domain.OpLt, int64(5)))
}
