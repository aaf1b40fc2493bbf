package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clubraffle/raffle-api/internal/api/handler/v1/response"
	"github.com/clubraffle/raffle-api/internal/domain"
	"github.com/clubraffle/raffle-api/internal/service"
)

type UserService interface {
	Get(ctx context.Context, id uint) (domain.User, error)
	GetAll(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id uint, policy domain.Policy) error
	AssignEntity(ctx context.Context, userID, entityID uint) error
	UnassignEntity(ctx context.Context, userID, entityID uint) error
	PolicyFor(ctx context.Context, userID uint) (domain.Policy, error)
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleGetUsers godoc
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.User
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetUsers(ctx *gin.Context) {
	policy, respErr := getPolicy(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !policy.CanManageUsers() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot manage users", policy.UserID)))
		return
	}

	users, err := h.svc.GetAll(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetUsers -> h.svc.GetAll -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, users)
}

// HandleGetUser godoc
// @Summary      Get a user by ID
// @Tags         users
// @Produce      json
// @Param        userID  path      int  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/{userID} [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("userID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid user ID: %w", err)))
		return
	}

	user, err := h.svc.Get(ctx.Request.Context(), uint(userID))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
			return
		}

		err = fmt.Errorf("v1.HandleGetUser -> h.svc.Get -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleDeleteUser godoc
// @Summary      Delete a user
// @Description  The caller must outrank the user being deleted.
// @Tags         users
// @Produce      json
// @Param        userID  path      int  true  "User ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/{userID} [delete]
// @Security     BearerAuth
func (h *UserHandler) HandleDeleteUser(ctx *gin.Context) {
	policy, respErr := getPolicy(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	userID, err := strconv.ParseUint(ctx.Param("userID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid user ID: %w", err)))
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), uint(userID), policy); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
		case errors.Is(err, service.ErrRoleNotAllowed):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleDeleteUser -> h.svc.Delete -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleAssignEntity godoc
// @Summary      Assign a club to a user
// @Tags         users
// @Produce      json
// @Param        userID    path      int  true  "User ID"
// @Param        entityID  path      int  true  "Entity ID"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/{userID}/entities/{entityID} [post]
// @Security     BearerAuth
func (h *UserHandler) HandleAssignEntity(ctx *gin.Context) {
	policy, respErr := getPolicy(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !policy.CanManageUsers() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot manage users", policy.UserID)))
		return
	}

	userID, err := strconv.ParseUint(ctx.Param("userID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid user ID: %w", err)))
		return
	}

	entityID, err := strconv.ParseUint(ctx.Param("entityID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid entity ID: %w", err)))
		return
	}

	if err := h.svc.AssignEntity(ctx.Request.Context(), uint(userID), uint(entityID)); err != nil {
		err = fmt.Errorf("v1.HandleAssignEntity -> h.svc.AssignEntity -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "entity assigned"})
}

// HandleUnassignEntity godoc
// @Summary      Remove a club assignment from a user
// @Tags         users
// @Produce      json
// @Param        userID    path      int  true  "User ID"
// @Param        entityID  path      int  true  "Entity ID"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/{userID}/entities/{entityID} [delete]
// @Security     BearerAuth
func (h *UserHandler) HandleUnassignEntity(ctx *gin.Context) {
	policy, respErr := getPolicy(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !policy.CanManageUsers() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot manage users", policy.UserID)))
		return
	}

	userID, err := strconv.ParseUint(ctx.Param("userID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid user ID: %w", err)))
		return
	}

	entityID, err := strconv.ParseUint(ctx.Param("entityID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid entity ID: %w", err)))
		return
	}

	if err := h.svc.UnassignEntity(ctx.Request.Context(), uint(userID), uint(entityID)); err != nil {
		err = fmt.Errorf("v1.HandleUnassignEntity -> h.svc.UnassignEntity -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "entity unassigned"})
}
