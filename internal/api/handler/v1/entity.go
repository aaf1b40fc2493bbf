package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clubraffle/raffle-api/internal/api/handler/v1/request"
	"github.com/clubraffle/raffle-api/internal/api/handler/v1/response"
	"github.com/clubraffle/raffle-api/internal/domain"
	"github.com/clubraffle/raffle-api/internal/service"
)

type EntityService interface {
	Create(ctx context.Context, entity domain.Entity) (domain.Entity, error)
	GetAll(ctx context.Context) ([]domain.Entity, error)
	Get(ctx context.Context, id uint) (domain.Entity, error)
	Update(ctx context.Context, entity domain.Entity) (domain.Entity, error)
	Delete(ctx context.Context, id uint) error
}

type EntityHandler struct {
	svc       EntityService
	policySvc PolicyService
}

func NewEntityHandler(svc EntityService, policySvc PolicyService) *EntityHandler {
	return &EntityHandler{
		svc:       svc,
		policySvc: policySvc,
	}
}

// HandleCreateEntity godoc
// @Summary      Create a new club
// @Description  Creates a club with its ticket counter. Superusers only.
// @Tags         entities
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateEntityRequest true "request body"
// @Success      201      {object}  domain.Entity
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /entities [post]
// @Security     BearerAuth
func (h *EntityHandler) HandleCreateEntity(ctx *gin.Context) {
	policy, respErr := getPolicy(ctx, h.policySvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !policy.CanCreateClubs() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot create clubs", policy.UserID)))
		return
	}

	var req request.CreateEntityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	entity := domain.Entity{
		Name:             req.Name,
		DisplayName:      req.DisplayName,
		Emoji:            req.Emoji,
		Tagline:          req.Tagline,
		RafflePercentage: req.RafflePercentage,
	}

	created, err := h.svc.Create(ctx.Request.Context(), entity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEntityExists):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrPercentageInvalid):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleCreateEntity -> h.svc.Create -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleGetEntities godoc
// @Summary      List all clubs
// @Tags         entities
// @Produce      json
// @Success      200  {array}   domain.Entity
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /entities [get]
// @Security     BearerAuth
func (h *EntityHandler) HandleGetEntities(ctx *gin.Context) {
	entities, err := h.svc.GetAll(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetEntities -> h.svc.GetAll -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, entities)
}

// HandleGetEntity godoc
// @Summary      Get a club by ID
// @Tags         entities
// @Produce      json
// @Param        entityID  path      int  true  "Entity ID"
// @Success      200  {object}  domain.Entity
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /entities/{entityID} [get]
// @Security     BearerAuth
func (h *EntityHandler) HandleGetEntity(ctx *gin.Context) {
	entityID, err := strconv.ParseUint(ctx.Param("entityID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid entity ID: %w", err)))
		return
	}

	entity, err := h.svc.Get(ctx.Request.Context(), uint(entityID))
	if err != nil {
		if errors.Is(err, service.ErrEntityNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("entity", "ID", entityID))
			return
		}

		err = fmt.Errorf("v1.HandleGetEntity -> h.svc.Get -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, entity)
}

// HandleUpdateEntity godoc
// @Summary      Update a club
// @Description  Updates club branding and raffle percentage. Empty fields keep their current values.
// @Tags         entities
// @Accept       json
// @Produce      json
// @Param        entityID  path      int                         true  "Entity ID"
// @Param        request   body      request.UpdateEntityRequest true  "request body"
// @Success      200  {object}  domain.Entity
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /entities/{entityID} [put]
// @Security     BearerAuth
func (h *EntityHandler) HandleUpdateEntity(ctx *gin.Context) {
	policy, respErr := getPolicy(ctx, h.policySvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	entityID, err := strconv.ParseUint(ctx.Param("entityID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid entity ID: %w", err)))
		return
	}

	if !policy.CanEditClubInfo() || !policy.CanAccessEntity(uint(entityID)) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot edit entity %v", policy.UserID, entityID)))
		return
	}

	var req request.UpdateEntityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	entity := domain.Entity{
		ID:               uint(entityID),
		Name:             req.Name,
		DisplayName:      req.DisplayName,
		Emoji:            req.Emoji,
		Tagline:          req.Tagline,
		RafflePercentage: req.RafflePercentage,
	}

	updated, err := h.svc.Update(ctx.Request.Context(), entity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEntityNotFound):
			response.RenderErr(ctx, response.ErrNotFound("entity", "ID", entityID))
		case errors.Is(err, service.ErrPercentageInvalid):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleUpdateEntity -> h.svc.Update -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteEntity godoc
// @Summary      Delete a club
// @Description  Deletes a club and its ticket counter. Superusers only.
// @Tags         entities
// @Produce      json
// @Param        entityID  path      int  true  "Entity ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /entities/{entityID} [delete]
// @Security     BearerAuth
func (h *EntityHandler) HandleDeleteEntity(ctx *gin.Context) {
	policy, respErr := getPolicy(ctx, h.policySvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !policy.CanCreateClubs() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot delete clubs", policy.UserID)))
		return
	}

	entityID, err := strconv.ParseUint(ctx.Param("entityID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid entity ID: %w", err)))
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), uint(entityID)); err != nil {
		if errors.Is(err, service.ErrEntityNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("entity", "ID", entityID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteEntity -> h.svc.Delete -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
