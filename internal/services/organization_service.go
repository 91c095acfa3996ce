package services

import (
	"context"
	"strconv"
	"strings"

	"dashboard-api/internal/domain"
	"dashboard-api/internal/domain/models"
	"dashboard-api/internal/repositories"
)

type OrganizationService = TypedService[models.Organization, models.CreateOrganizationInput, models.UpdateOrganizationInput]

// OrganizationScope: superadmin sees every organization, everyone else only
// their own.
func OrganizationScope(user domain.UserContext) domain.DataScope {
	if user.IsSuperAdmin() {
		return domain.DataScope{}
	}
	if user.OrganizationID == nil {
		return domain.DenyAll()
	}
	return domain.OrgScope(*user.OrganizationID)
}

func NewOrganizationService(deps EntityDeps) (*OrganizationService, error) {
	repo := deps.Repository
	return NewTypedService(TypedConfig[models.Organization, models.CreateOrganizationInput, models.UpdateOrganizationInput]{
		Name:            "organization",
		Repository:      repo,
		Validator:       deps.Validator,
		Logger:          deps.Logger,
		Decode:          DecodeOrganization,
		TransformCreate: organizationCreateRecord,
		TransformUpdate: organizationUpdateRecord,
		BuildFilters:    organizationFilters,
		DataScope:       OrganizationScope,
		IncludeOptions:  NoIncludes,
		ValidateCreate: func(ctx context.Context, dto models.CreateOrganizationInput, user domain.UserContext) error {
			if !user.IsSuperAdmin() {
				return domain.ForbiddenError{Msg: "only superadmin can create organizations"}
			}
			return ensureCodeAvailable(ctx, repo, dto.Code, 0)
		},
		ValidateUpdate: func(ctx context.Context, dto models.UpdateOrganizationInput, _ domain.UserContext, existing models.Organization) error {
			if dto.Code == nil || strings.EqualFold(strings.TrimSpace(*dto.Code), existing.Code) {
				return nil
			}
			return ensureCodeAvailable(ctx, repo, *dto.Code, existing.ID)
		},
		ValidateDelete: func(_ context.Context, user domain.UserContext, _ models.Organization) error {
			if !user.IsSuperAdmin() {
				return domain.ForbiddenError{Msg: "only superadmin can delete organizations"}
			}
			return nil
		},
	}, WithMaxLimit(deps.MaxLimit))
}

// ensureCodeAvailable looks across all tenants: codes are globally unique.
func ensureCodeAvailable(ctx context.Context, repo repositories.Repository, code string, self int64) error {
	code = normalizeCode(code)
	page, err := repo.FindManyWithPagination(ctx,
		[]domain.Filter{{Field: "code", Op: domain.OpEq, Value: code}},
		domain.Sort{Field: "id", Direction: domain.SortAsc},
		nil,
		domain.PageRequest{Page: 1, Limit: 2},
		domain.DataScope{},
	)
	if err != nil {
		return err
	}
	for _, rec := range page.Records {
		if id, _ := rec.Int64("id"); id != self {
			return domain.ConflictError{Resource: "organization", Msg: "code " + code + " is already in use"}
		}
	}
	return nil
}

func organizationCreateRecord(dto models.CreateOrganizationInput) (domain.Record, error) {
	active := true
	if dto.IsActive != nil {
		active = *dto.IsActive
	}
	return domain.Record{
		"name":      strings.TrimSpace(dto.Name),
		"code":      normalizeCode(dto.Code),
		"address":   strings.TrimSpace(dto.Address),
		"phone":     strings.TrimSpace(dto.Phone),
		"is_active": active,
	}, nil
}

func organizationUpdateRecord(dto models.UpdateOrganizationInput) (domain.Record, error) {
	rec := domain.Record{}
	setString(rec, "name", dto.Name)
	if dto.Code != nil {
		rec["code"] = normalizeCode(*dto.Code)
	}
	setString(rec, "address", dto.Address)
	setString(rec, "phone", dto.Phone)
	if dto.IsActive != nil {
		rec["is_active"] = *dto.IsActive
	}
	return rec, nil
}

func organizationFilters(q domain.Query, _ domain.UserContext) ([]domain.Filter, error) {
	var filters []domain.Filter
	if s := strings.TrimSpace(q.Search); s != "" {
		filters = append(filters, domain.Filter{Fields: []string{"name", "code"}, Op: domain.OpLike, Value: s})
	}
	if raw := q.Get("isActive"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, domain.ValidationError{Field: "isActive", Msg: "must be true or false"}
		}
		filters = append(filters, domain.Filter{Field: "is_active", Op: domain.OpEq, Value: active})
	}
	return filters, nil
}

func DecodeOrganization(rec domain.Record) (models.Organization, error) {
	id, ok := rec.Int64("id")
	if !ok {
		return models.Organization{}, errMissingColumn("organizations", "id")
	}
	org := models.Organization{
		ID:       id,
		Name:     rec.String("name"),
		Code:     rec.String("code"),
		Address:  rec.String("address"),
		Phone:    rec.String("phone"),
		IsActive: rec.Bool("is_active"),
	}
	org.CreatedAt, _ = rec.Time("created_at")
	org.UpdatedAt, _ = rec.Time("updated_at")
	return org, nil
}

// normalizeCode stores codes upper-cased so uniqueness does not depend on the
// store's collation.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func setString(rec domain.Record, col string, v *string) {
	if v != nil {
		rec[col] = strings.TrimSpace(*v)
	}
}
