package services

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"dashboard-api/internal/domain"
	"dashboard-api/internal/domain/models"
	"dashboard-api/internal/logger"

	"go.uber.org/zap"
)

type VisitorService = TypedService[models.Visitor, models.CreateVisitorInput, models.UpdateVisitorInput]

// VisitorScope: superadmin sees everything, admin their organization, manager
// and staff only their departments inside it.
func VisitorScope(user domain.UserContext) domain.DataScope {
	if user.IsSuperAdmin() {
		return domain.DataScope{}
	}
	if user.OrganizationID == nil {
		return domain.DenyAll()
	}
	switch user.Role {
	case domain.RoleAdmin:
		return domain.OrgScope(*user.OrganizationID)
	case domain.RoleManager, domain.RoleStaff:
		depts := slices.Clone(user.DepartmentIDs)
		if depts == nil {
			depts = []int64{}
		}
		return domain.DataScope{OrganizationID: user.OrganizationID, DepartmentIDs: depts}
	}
	return domain.DenyAll()
}

func visitorIncludes(domain.UserContext) []string { return []string{"organization"} }

func NewVisitorService(deps EntityDeps) (*VisitorService, error) {
	log := deps.logger()
	return NewTypedService(TypedConfig[models.Visitor, models.CreateVisitorInput, models.UpdateVisitorInput]{
		Name:       "visitor",
		Repository: deps.Repository,
		Validator:  deps.Validator,
		Logger:     deps.Logger,
		Decode:     DecodeVisitor,
		TransformCreate: func(dto models.CreateVisitorInput) (domain.Record, error) {
			return visitorCreateRecord(dto, deps.now()), nil
		},
		TransformUpdate: visitorUpdateRecord,
		BuildFilters:    visitorFilters,
		DataScope:       VisitorScope,
		IncludeOptions:  visitorIncludes,
		ValidateCreate: func(_ context.Context, dto models.CreateVisitorInput, user domain.UserContext) error {
			return checkDepartment(user, dto.DepartmentID)
		},
		ValidateUpdate: func(_ context.Context, dto models.UpdateVisitorInput, user domain.UserContext, existing models.Visitor) error {
			if dto.DepartmentID != nil && *dto.DepartmentID != existing.DepartmentID {
				if err := checkDepartment(user, *dto.DepartmentID); err != nil {
					return err
				}
			}
			if dto.CheckedOutAt != nil {
				if !existing.CheckedIn() {
					return domain.ConflictError{Resource: "visitor", Msg: "already checked out"}
				}
				if dto.CheckedOutAt.Before(existing.CheckedInAt) {
					return domain.ConflictError{Resource: "visitor", Msg: "cannot check out before check-in"}
				}
			}
			return nil
		},
		ValidateDelete: func(_ context.Context, _ domain.UserContext, existing models.Visitor) error {
			if existing.CheckedIn() {
				return domain.ConflictError{Resource: "visitor", Msg: "visitor is still checked in"}
			}
			return nil
		},
		AfterCreate: func(ctx context.Context, v models.Visitor, user domain.UserContext) error {
			logger.From(ctx, log).Info("visitor checked in",
				logger.ID(v.ID),
				zap.Int64("department_id", v.DepartmentID),
				zap.Time("checked_in_at", v.CheckedInAt),
				logger.UserID(user.Subject),
			)
			return nil
		},
		AfterUpdate: func(ctx context.Context, v, previous models.Visitor, user domain.UserContext) error {
			if previous.CheckedIn() && !v.CheckedIn() {
				logger.From(ctx, log).Info("visitor checked out",
					logger.ID(v.ID),
					zap.Duration("stay", v.CheckedOutAt.Sub(v.CheckedInAt)),
					logger.UserID(user.Subject),
				)
			}
			return nil
		},
	}, WithMaxLimit(deps.MaxLimit))
}

// checkDepartment refuses departments a department-scoped caller cannot reach.
func checkDepartment(user domain.UserContext, deptID int64) error {
	if user.Role != domain.RoleManager && user.Role != domain.RoleStaff {
		return nil
	}
	if !slices.Contains(user.DepartmentIDs, deptID) {
		return domain.ForbiddenError{Msg: fmt.Sprintf("department %d is outside your scope", deptID)}
	}
	return nil
}

func visitorCreateRecord(dto models.CreateVisitorInput, now time.Time) domain.Record {
	rec := domain.Record{
		"full_name":      strings.TrimSpace(dto.FullName),
		"id_number":      strings.TrimSpace(dto.IDNumber),
		"phone":          strings.TrimSpace(dto.Phone),
		"purpose":        strings.TrimSpace(dto.Purpose),
		"host_name":      strings.TrimSpace(dto.HostName),
		"department_id":  dto.DepartmentID,
		"checked_in_at":  now,
		"checked_out_at": nil,
	}
	if dto.CheckedInAt != nil {
		rec["checked_in_at"] = *dto.CheckedInAt
	}
	if dto.OrganizationID != nil {
		rec["organization_id"] = *dto.OrganizationID
	}
	return rec
}

func visitorUpdateRecord(dto models.UpdateVisitorInput) (domain.Record, error) {
	rec := domain.Record{}
	setString(rec, "full_name", dto.FullName)
	setString(rec, "id_number", dto.IDNumber)
	setString(rec, "phone", dto.Phone)
	setString(rec, "purpose", dto.Purpose)
	setString(rec, "host_name", dto.HostName)
	if dto.DepartmentID != nil {
		rec["department_id"] = *dto.DepartmentID
	}
	if dto.CheckedOutAt != nil {
		rec["checked_out_at"] = *dto.CheckedOutAt
	}
	return rec, nil
}

func visitorFilters(q domain.Query, _ domain.UserContext) ([]domain.Filter, error) {
	var filters []domain.Filter
	if s := strings.TrimSpace(q.Search); s != "" {
		filters = append(filters, domain.Filter{Fields: []string{"full_name", "id_number"}, Op: domain.OpLike, Value: s})
	}
	if raw := q.Get("departmentId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, domain.ValidationError{Field: "departmentId", Msg: "must be a positive integer"}
		}
		filters = append(filters, domain.Filter{Field: "department_id", Op: domain.OpEq, Value: id})
	}
	if raw := q.Get("purpose"); raw != "" {
		filters = append(filters, domain.Filter{Field: "purpose", Op: domain.OpEq, Value: raw})
	}
	if raw := q.Get("checkedIn"); raw != "" {
		in, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, domain.ValidationError{Field: "checkedIn", Msg: "must be true or false"}
		}
		filters = append(filters, domain.Filter{Field: "checked_out_at", Op: domain.OpIsNull, Value: in})
	}
	return filters, nil
}

func DecodeVisitor(rec domain.Record) (models.Visitor, error) {
	id, ok := rec.Int64("id")
	if !ok {
		return models.Visitor{}, errMissingColumn("visitors", "id")
	}
	v := models.Visitor{
		ID:           id,
		FullName:     rec.String("full_name"),
		IDNumber:     rec.String("id_number"),
		Phone:        rec.String("phone"),
		Purpose:      rec.String("purpose"),
		HostName:     rec.String("host_name"),
		CheckedOutAt: rec.TimePtr("checked_out_at"),
	}
	v.OrganizationID, _ = rec.Int64("organization_id")
	v.DepartmentID, _ = rec.Int64("department_id")
	v.CheckedInAt, _ = rec.Time("checked_in_at")
	v.CreatedAt, _ = rec.Time("created_at")
	v.UpdatedAt, _ = rec.Time("updated_at")

	if orgRec, ok := rec["organization"].(domain.Record); ok && orgRec != nil {
		org, err := DecodeOrganization(orgRec)
		if err != nil {
			return models.Visitor{}, err
		}
		v.Organization = &org
	}
	return v, nil
}

func errMissingColumn(table, col string) error {
	return fmt.Errorf("%s row has no %s", table, col)
}
