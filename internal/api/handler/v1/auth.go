package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clubraffle/raffle-api/internal/api/handler/v1/request"
	"github.com/clubraffle/raffle-api/internal/api/handler/v1/response"
	"github.com/clubraffle/raffle-api/internal/config"
	"github.com/clubraffle/raffle-api/internal/domain"
	"github.com/clubraffle/raffle-api/internal/pkg/jwthelper"
	"github.com/clubraffle/raffle-api/internal/service"
)

type AuthService interface {
	CreateUser(ctx context.Context, user domain.User, password string, creator domain.Policy) (domain.User, error)
	Login(ctx context.Context, username, password string) (domain.User, error)
	ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error
}

type AuthHandler struct {
	conf      *config.APIConfig
	svc       AuthService
	policySvc PolicyService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService, policySvc PolicyService) *AuthHandler {
	return &AuthHandler{
		conf:      conf,
		svc:       svc,
		policySvc: policySvc,
	}
}

// HandleLogin godoc
// @Summary      Login a user
// @Tags         auth
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))

			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ttl := time.Duration(h.conf.TokenTTLHours) * time.Hour
	token, err := jwthelper.GenerateToken(h.conf.JWTSigningKey, user, ttl)
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token: token,
		User:  user,
	})
}

// HandleCreateUser godoc
// @Summary      Create a new user
// @Description  Registers a user. The caller must outrank the role being created.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request   body      request.CreateUserRequest true "request body"
// @Success      201      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/users [post]
// @Security     BearerAuth
func (h *AuthHandler) HandleCreateUser(ctx *gin.Context) {
	policy, respErr := getPolicy(ctx, h.policySvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !policy.CanManageUsers() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot manage users", policy.UserID)))
		return
	}

	var req request.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user := domain.User{
		Username:    req.Username,
		RafflerName: req.RafflerName,
		Role:        domain.Role(req.Role),
	}

	created, err := h.svc.CreateUser(ctx.Request.Context(), user, req.Password, policy)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoleNotAllowed):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrUsernameExists):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleCreateUser -> h.svc.CreateUser -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleChangePassword godoc
// @Summary      Change the caller's password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request   body      request.ChangePasswordRequest true "request body"
// @Success      200
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/password [put]
// @Security     BearerAuth
func (h *AuthHandler) HandleChangePassword(ctx *gin.Context) {
	policy, respErr := getPolicy(ctx, h.policySvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.svc.ChangePassword(ctx.Request.Context(), policy.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))
			return
		}

		err = fmt.Errorf("v1.HandleChangePassword -> h.svc.ChangePassword -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
