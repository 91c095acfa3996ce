package handlers

import (
	"time"

	"dashboard-api/internal/domain/models"
	"dashboard-api/internal/http/response"
	"dashboard-api/internal/services"
)

type OrganizationController = CrudController[models.Organization, models.CreateOrganizationInput, models.UpdateOrganizationInput, OrganizationResponse]

type OrganizationResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func ToOrganizationResponse(o models.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:        o.ID,
		Name:      o.Name,
		Code:      o.Code,
		Address:   o.Address,
		Phone:     o.Phone,
		IsActive:  o.IsActive,
		CreatedAt: formatTime(o.CreatedAt),
		UpdatedAt: formatTime(o.UpdatedAt),
	}
}

func NewOrganizationTransformer() *response.Transformer[models.Organization, OrganizationResponse] {
	return response.NewTransformer("/api/organizations", ToOrganizationResponse)
}

func NewOrganizationController(svc *services.OrganizationService) *OrganizationController {
	return &OrganizationController{Service: svc, Transformer: NewOrganizationTransformer()}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
