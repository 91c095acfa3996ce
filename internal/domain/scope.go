package domain

import "slices"

// Role of the authenticated caller.
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleStaff      Role = "staff"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// DataScope is the tenant boundary applied to every repository call.
//
// A nil OrganizationID means no organization restriction. A nil DepartmentIDs
// means no department restriction, while a non-nil empty slice reaches no
// department at all and therefore matches nothing.
type DataScope struct {
	OrganizationID *int64  `json:"organizationId,omitempty"`
	DepartmentIDs  []int64 `json:"departmentIds,omitempty"`
}

// DenyAll returns a scope that matches no row.
func DenyAll() DataScope {
	return DataScope{DepartmentIDs: []int64{}}
}

// OrgScope restricts to a single organization.
func OrgScope(orgID int64) DataScope {
	return DataScope{OrganizationID: &orgID}
}

// IsUnrestricted reports whether the scope places no restriction at all.
func (s DataScope) IsUnrestricted() bool {
	return s.OrganizationID == nil && s.DepartmentIDs == nil
}

// DeniesAll reports whether the scope can never match a row.
func (s DataScope) DeniesAll() bool {
	return s.DepartmentIDs != nil && len(s.DepartmentIDs) == 0
}

// AllowsOrganization reports whether rows of orgID are reachable.
func (s DataScope) AllowsOrganization(orgID int64) bool {
	if s.DeniesAll() {
		return false
	}
	return s.OrganizationID == nil || *s.OrganizationID == orgID
}

// AllowsDepartment reports whether rows of deptID are reachable.
func (s DataScope) AllowsDepartment(deptID int64) bool {
	if s.DepartmentIDs == nil {
		return true
	}
	return slices.Contains(s.DepartmentIDs, deptID)
}

// UserContext carries the authenticated caller. It is built once per request
// and never persisted.
type UserContext struct {
	DataScope
	Subject  string `json:"sub"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsSuperAdmin reports whether the caller may act across tenants.
func (u UserContext) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}
