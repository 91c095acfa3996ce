package repositories

func organizationsTable() *Table {
	return &Table{
		Name:       "organizations",
		Resource:   "organization",
		PrimaryKey: "id",
		Columns:    []string{"id", "name", "code", "address", "phone", "is_active", "created_at", "updated_at"},
		Writable:   []string{"name", "code", "address", "phone", "is_active"},
		Filterable: []string{"id", "name", "code", "is_active"},
		Sortable: map[string]string{
			"id":        "id",
			"name":      "name",
			"code":      "code",
			"createdAt": "created_at",
			"updatedAt": "updated_at",
		},
		OrgColumn: "id",
		CreatedAt: "created_at",
		UpdatedAt: "updated_at",
		Fields: map[string]string{
			"is_active":  "isActive",
			"created_at": "createdAt",
			"updated_at": "updatedAt",
		},
	}
}

func visitorsTable() *Table {
	return &Table{
		Name:       "visitors",
		Resource:   "visitor",
		PrimaryKey: "id",
		Columns: []string{
			"id", "organization_id", "department_id", "full_name", "id_number", "phone",
			"purpose", "host_name", "checked_in_at", "checked_out_at", "created_at", "updated_at",
		},
		Writable: []string{
			"organization_id", "department_id", "full_name", "id_number", "phone",
			"purpose", "host_name", "checked_in_at", "checked_out_at",
		},
		Filterable: []string{"organization_id", "department_id", "full_name", "id_number", "purpose", "checked_in_at", "checked_out_at"},
		Sortable: map[string]string{
			"id":          "id",
			"fullName":    "full_name",
			"checkedInAt": "checked_in_at",
			"createdAt":   "created_at",
			"updatedAt":   "updated_at",
		},
		OrgColumn:  "organization_id",
		DeptColumn: "department_id",
		CreatedAt:  "created_at",
		UpdatedAt:  "updated_at",
		Fields: map[string]string{
			"organization_id": "organizationId",
			"department_id":   "departmentId",
			"full_name":       "fullName",
			"id_number":       "idNumber",
			"host_name":       "hostName",
			"checked_in_at":   "checkedInAt",
			"checked_out_at":  "checkedOutAt",
			"created_at":      "createdAt",
			"updated_at":      "updatedAt",
		},
	}
}

// OrganizationsTable describes the tenant table; a scoped caller reaches only
// the row whose id is their organization.
func OrganizationsTable() *Table {
	return organizationsTable()
}

// VisitorsTable describes visitors, owned by an organization and a department.
// Include "organization" loads the owning organization.
func VisitorsTable() *Table {
	t := visitorsTable()
	t.Relations = map[string]Relation{
		"organization": {Table: organizationsTable(), LocalKey: "organization_id", ForeignKey: "id"},
	}
	return t
}
