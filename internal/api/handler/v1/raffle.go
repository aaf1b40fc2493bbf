package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clubraffle/raffle-api/internal/api/handler/v1/request"
	"github.com/clubraffle/raffle-api/internal/api/handler/v1/response"
	"github.com/clubraffle/raffle-api/internal/domain"
	"github.com/clubraffle/raffle-api/internal/service"
)

type RaffleService interface {
	Create(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error)
	Get(ctx context.Context, id uint) (domain.Raffle, error)
	GetAll(ctx context.Context) ([]domain.Raffle, error)
	GetByEntity(ctx context.Context, entityID uint) ([]domain.Raffle, error)
	Update(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error)
	Delete(ctx context.Context, id uint) error
	DrawWinner(ctx context.Context, raffleID uint) (domain.DrawResult, error)
}

type RaffleHandler struct {
	svc       RaffleService
	policySvc PolicyService
}

func NewRaffleHandler(svc RaffleService, policySvc PolicyService) *RaffleHandler {
	return &RaffleHandler{
		svc:       svc,
		policySvc: policySvc,
	}
}

// HandleCreateRaffle godoc
// @Summary      Create a raffle
// @Tags         raffles
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateRaffleRequest true "request body"
// @Success      201  {object}  domain.Raffle
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles [post]
// @Security     BearerAuth
func (h *RaffleHandler) HandleCreateRaffle(ctx *gin.Context) {
	policy, respErr := getPolicy(ctx, h.policySvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateRaffleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if !policy.CanEditClubInfo() || !policy.CanAccessEntity(req.EntityID) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot create raffles for entity %v", policy.UserID, req.EntityID)))
		return
	}

	raffle := domain.Raffle{
		EntityID:         req.EntityID,
		Name:             req.Name,
		Description:      req.Description,
		PrizeDescription: req.PrizeDescription,
		TicketPrice:      req.TicketPrice,
		MaxTickets:       req.MaxTickets,
		IsActive:         true,
	}

	if req.DrawDate != "" {
		parsed, err := time.Parse("2006-01-02", req.DrawDate)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid draw date: %w", err)))
			return
		}
		raffle.DrawDate = &parsed
	}

	created, err := h.svc.Create(ctx.Request.Context(), raffle)
	if err != nil {
		if errors.Is(err, service.ErrEntityNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("entity", "ID", req.EntityID))
			return
		}

		err = fmt.Errorf("v1.HandleCreateRaffle -> h.svc.Create -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleGetRaffles godoc
// @Summary      List raffles
// @Description  All raffles, or a single club's when entity_id is given.
// @Tags         raffles
// @Produce      json
// @Param        entity_id  query  int  false  "Entity ID"
// @Success      200  {array}   domain.Raffle
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles [get]
// @Security     BearerAuth
func (h *RaffleHandler) HandleGetRaffles(ctx *gin.Context) {
	if raw := ctx.Query("entity_id"); raw != "" {
		entityID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid entity ID: %w", err)))
			return
		}

		raffles, err := h.svc.GetByEntity(ctx.Request.Context(), uint(entityID))
		if err != nil {
			err = fmt.Errorf("v1.HandleGetRaffles -> h.svc.GetByEntity -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
			return
		}

		ctx.JSON(http.StatusOK, raffles)
		return
	}

	raffles, err := h.svc.GetAll(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetRaffles -> h.svc.GetAll -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, raffles)
}

// HandleGetRaffle godoc
// @Summary      Get a raffle by ID
// @Tags         raffles
// @Produce      json
// @Param        raffleID  path      int  true  "Raffle ID"
// @Success      200  {object}  domain.Raffle
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles/{raffleID} [get]
// @Security     BearerAuth
func (h *RaffleHandler) HandleGetRaffle(ctx *gin.Context) {
	raffleID, err := strconv.ParseUint(ctx.Param("raffleID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid raffle ID: %w", err)))
		return
	}

	raffle, err := h.svc.Get(ctx.Request.Context(), uint(raffleID))
	if err != nil {
		if errors.Is(err, service.ErrRaffleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("raffle", "ID", raffleID))
			return
		}

		err = fmt.Errorf("v1.HandleGetRaffle -> h.svc.Get -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, raffle)
}

// HandleUpdateRaffle godoc
// @Summary      Update a raffle
// @Tags         raffles
// @Accept       json
// @Produce      json
// @Param        raffleID  path      int                         true  "Raffle ID"
// @Param        request   body      request.UpdateRaffleRequest true  "request body"
// @Success      200  {object}  domain.Raffle
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles/{raffleID} [put]
// @Security     BearerAuth
func (h *RaffleHandler) HandleUpdateRaffle(ctx *gin.Context) {
	policy, respErr := getPolicy(ctx, h.policySvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	raffleID, err := strconv.ParseUint(ctx.Param("raffleID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid raffle ID: %w", err)))
		return
	}

	current, err := h.svc.Get(ctx.Request.Context(), uint(raffleID))
	if err != nil {
		if errors.Is(err, service.ErrRaffleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("raffle", "ID", raffleID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateRaffle -> h.svc.Get -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if !policy.CanEditClubInfo() || !policy.CanAccessEntity(current.EntityID) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot edit raffles of entity %v", policy.UserID, current.EntityID)))
		return
	}

	var req request.UpdateRaffleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if req.Name != "" {
		current.Name = req.Name
	}
	if req.Description != "" {
		current.Description = req.Description
	}
	if req.PrizeDescription != "" {
		current.PrizeDescription = req.PrizeDescription
	}
	if req.TicketPrice > 0 {
		current.TicketPrice = req.TicketPrice
	}
	if req.MaxTickets > 0 {
		current.MaxTickets = req.MaxTickets
	}
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}
	if req.DrawDate != "" {
		parsed, err := time.Parse("2006-01-02", req.DrawDate)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid draw date: %w", err)))
			return
		}
		current.DrawDate = &parsed
	}

	updated, err := h.svc.Update(ctx.Request.Context(), current)
	if err != nil {
		if errors.Is(err, service.ErrRaffleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("raffle", "ID", raffleID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateRaffle -> h.svc.Update -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteRaffle godoc
// @Summary      Delete a raffle
// @Tags         raffles
// @Produce      json
// @Param        raffleID  path      int  true  "Raffle ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles/{raffleID} [delete]
// @Security     BearerAuth
func (h *RaffleHandler) HandleDeleteRaffle(ctx *gin.Context) {
	policy, respErr := getPolicy(ctx, h.policySvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	raffleID, err := strconv.ParseUint(ctx.Param("raffleID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid raffle ID: %w", err)))
		return
	}

	current, err := h.svc.Get(ctx.Request.Context(), uint(raffleID))
	if err != nil {
		if errors.Is(err, service.ErrRaffleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("raffle", "ID", raffleID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteRaffle -> h.svc.Get -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if !policy.CanEditClubInfo() || !policy.CanAccessEntity(current.EntityID) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot delete raffles of entity %v", policy.UserID, current.EntityID)))
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), uint(raffleID)); err != nil {
		if errors.Is(err, service.ErrRaffleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("raffle", "ID", raffleID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteRaffle -> h.svc.Delete -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleDrawWinner godoc
// @Summary      Draw the raffle winner
// @Description  Selects uniformly among all tickets ever sold for the raffle's club, records the winner and deactivates the raffle. Cannot be repeated.
// @Tags         raffles
// @Produce      json
// @Param        raffleID  path      int  true  "Raffle ID"
// @Success      200  {object}  domain.DrawResult
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /raffles/{raffleID}/draw [post]
// @Security     BearerAuth
func (h *RaffleHandler) HandleDrawWinner(ctx *gin.Context) {
	policy, respErr := getPolicy(ctx, h.policySvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	raffleID, err := strconv.ParseUint(ctx.Param("raffleID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid raffle ID: %w", err)))
		return
	}

	current, err := h.svc.Get(ctx.Request.Context(), uint(raffleID))
	if err != nil {
		if errors.Is(err, service.ErrRaffleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("raffle", "ID", raffleID))
			return
		}

		err = fmt.Errorf("v1.HandleDrawWinner -> h.svc.Get -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if !policy.CanEditClubInfo() || !policy.CanAccessEntity(current.EntityID) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot draw raffles of entity %v", policy.UserID, current.EntityID)))
		return
	}

	result, err := h.svc.DrawWinner(ctx.Request.Context(), uint(raffleID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRaffleNotActive):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrNoTicketsInDraw):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleDrawWinner -> h.svc.DrawWinner -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, result)
}
