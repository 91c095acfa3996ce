package models

import "time"

// Organization is the tenant root. Its id is the organization scope itself.
type Organization struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateOrganizationInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Code     string `json:"code" validate:"required,alphanum,max=32"`
	Address  string `json:"address" validate:"omitempty,max=500"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
	IsActive *bool  `json:"isActive"`
}

// UpdateOrganizationInput supports PATCH-style updates via key presence.
type UpdateOrganizationInput struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Code     *string `json:"code" validate:"omitempty,alphanum,max=32"`
	Address  *string `json:"address" validate:"omitempty,max=500"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
	IsActive *bool   `json:"isActive"`
}
