package models

import "time"

// Visitor is a guest registered at an organization's front desk.
type Visitor struct {
	ID             int64         `json:"id"`
	OrganizationID int64         `json:"organizationId"`
	DepartmentID   int64         `json:"departmentId"`
	FullName       string        `json:"fullName"`
	IDNumber       string        `json:"idNumber"`
	Phone          string        `json:"phone"`
	Purpose        string        `json:"purpose"`
	HostName       string        `json:"hostName"`
	CheckedInAt    time.Time     `json:"checkedInAt"`
	CheckedOutAt   *time.Time    `json:"checkedOutAt"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
	Organization   *Organization `json:"organization,omitempty"`
}

// CheckedIn reports whether the visitor is still on site.
func (v Visitor) CheckedIn() bool { return v.CheckedOutAt == nil }

type CreateVisitorInput struct {
	FullName       string     `json:"fullName" validate:"required,max=255"`
	IDNumber       string     `json:"idNumber" validate:"required,max=64"`
	Phone          string     `json:"phone" validate:"omitempty,max=32"`
	Purpose        string     `json:"purpose" validate:"required,max=255"`
	HostName       string     `json:"hostName" validate:"omitempty,max=255"`
	DepartmentID   int64      `json:"departmentId" validate:"required,gt=0"`
	OrganizationID *int64     `json:"organizationId" validate:"omitempty,gt=0"`
	CheckedInAt    *time.Time `json:"checkedInAt"`
}

type UpdateVisitorInput struct {
	FullName     *string    `json:"fullName" validate:"omitempty,min=1,max=255"`
	IDNumber     *string    `json:"idNumber" validate:"omitempty,min=1,max=64"`
	Phone        *string    `json:"phone" validate:"omitempty,max=32"`
	Purpose      *string    `json:"purpose" validate:"omitempty,min=1,max=255"`
	HostName     *string    `json:"hostName" validate:"omitempty,max=255"`
	DepartmentID *int64     `json:"departmentId" validate:"omitempty,gt=0"`
	CheckedOutAt *time.Time `json:"checkedOutAt"`
}
