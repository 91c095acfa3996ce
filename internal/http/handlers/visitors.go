package handlers

import (
	"context"
	"net/http"

	"dashboard-api/internal/domain"
	"dashboard-api/internal/domain/models"
	"dashboard-api/internal/http/response"
	"dashboard-api/internal/services"

	"github.com/gin-gonic/gin"
)

type VisitorController = CrudController[models.Visitor, models.CreateVisitorInput, models.UpdateVisitorInput, VisitorResponse]

type VisitorResponse struct {
	ID             int64                 `json:"id"`
	OrganizationID int64                 `json:"organizationId"`
	DepartmentID   int64                 `json:"departmentId"`
	FullName       string                `json:"fullName"`
	IDNumber       string                `json:"idNumber"`
	Phone          string                `json:"phone,omitempty"`
	Purpose        string                `json:"purpose"`
	HostName       string                `json:"hostName,omitempty"`
	CheckedIn      bool                  `json:"checkedIn"`
	CheckedInAt    string                `json:"checkedInAt"`
	CheckedOutAt   *string               `json:"checkedOutAt"`
	CreatedAt      string                `json:"createdAt"`
	UpdatedAt      string                `json:"updatedAt"`
	Organization   *OrganizationResponse `json:"organization,omitempty"`
}

func ToVisitorResponse(v models.Visitor) VisitorResponse {
	out := VisitorResponse{
		ID:             v.ID,
		OrganizationID: v.OrganizationID,
		DepartmentID:   v.DepartmentID,
		FullName:       v.FullName,
		IDNumber:       v.IDNumber,
		Phone:          v.Phone,
		Purpose:        v.Purpose,
		HostName:       v.HostName,
		CheckedIn:      v.CheckedIn(),
		CheckedInAt:    formatTime(v.CheckedInAt),
		CreatedAt:      formatTime(v.CreatedAt),
		UpdatedAt:      formatTime(v.UpdatedAt),
	}
	if v.CheckedOutAt != nil {
		s := formatTime(*v.CheckedOutAt)
		out.CheckedOutAt = &s
	}
	if v.Organization != nil {
		org := ToOrganizationResponse(*v.Organization)
		out.Organization = &org
	}
	return out
}

func NewVisitorTransformer() *response.Transformer[models.Visitor, VisitorResponse] {
	return response.NewTransformer("/api/visitors", ToVisitorResponse)
}

func NewVisitorController(svc *services.VisitorService) *VisitorController {
	return &VisitorController{Service: svc, Transformer: NewVisitorTransformer()}
}

// BadgeGenerator renders a visitor badge document.
type BadgeGenerator interface {
	Generate(ctx context.Context, id domain.ID, user domain.UserContext) ([]byte, string, error)
}

// VisitorBadge returns the visitor's badge PDF inline.
func VisitorBadge(badges BadgeGenerator) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := parseID(c)
		if !ok {
			return
		}
		pdf, filename, err := badges.Generate(c.Request.Context(), id, user)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
		c.Data(http.StatusOK, "application/pdf", pdf)
	}
}
