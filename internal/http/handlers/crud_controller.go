package handlers

import (
	"context"
	"net/http"

	"dashboard-api/internal/domain"
	"dashboard-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// EntityService is the typed CRUD surface a controller drives.
type EntityService[E, C, U any] interface {
	Create(ctx context.Context, dto C, user domain.UserContext) (E, error)
	FindAllWithPagination(ctx context.Context, q domain.Query, user domain.UserContext) ([]E, domain.PaginationInfo, error)
	FindOne(ctx context.Context, id domain.ID, user domain.UserContext) (*E, error)
	Update(ctx context.Context, id domain.ID, dto U, user domain.UserContext) (E, error)
	Remove(ctx context.Context, id domain.ID, user domain.UserContext) error
}

// CrudController exposes an EntityService over REST and shapes results with a
// Transformer.
type CrudController[E, C, U, R any] struct {
	Service     EntityService[E, C, U]
	Transformer *response.Transformer[E, R]
}

func NewCrudController[E, C, U, R any](svc EntityService[E, C, U], tr *response.Transformer[E, R]) *CrudController[E, C, U, R] {
	return &CrudController[E, C, U, R]{Service: svc, Transformer: tr}
}

func (ctl *CrudController[E, C, U, R]) Register(g *gin.RouterGroup) {
	g.POST("", ctl.Create)
	g.GET("", ctl.List)
	g.GET("/:id", ctl.Get)
	g.PUT("/:id", ctl.Update)
	g.DELETE("/:id", ctl.Delete)
}

func (ctl *CrudController[E, C, U, R]) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var dto C
	if !BindJSONOrError(c, &dto) {
		return
	}
	entity, err := ctl.Service.Create(c.Request.Context(), dto, user)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ctl.Transformer.ToResponse(entity))
}

func (ctl *CrudController[E, C, U, R]) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	q, err := parseQuery(c)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	items, info, err := ctl.Service.FindAllWithPagination(c.Request.Context(), q, user)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.Transformer.ToPaginatedResponse(items, info))
}

func (ctl *CrudController[E, C, U, R]) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	entity, err := ctl.Service.FindOne(c.Request.Context(), id, user)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if entity == nil {
		respondError(c, http.StatusNotFound, "not_found", "Entity not found", nil)
		return
	}
	c.JSON(http.StatusOK, ctl.Transformer.ToResponse(*entity))
}

func (ctl *CrudController[E, C, U, R]) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var dto U
	if !BindJSONOrError(c, &dto) {
		return
	}
	entity, err := ctl.Service.Update(c.Request.Context(), id, dto, user)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.Transformer.ToResponse(entity))
}

func (ctl *CrudController[E, C, U, R]) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctl.Service.Remove(c.Request.Context(), id, user); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.Transformer.Deleted())
}
