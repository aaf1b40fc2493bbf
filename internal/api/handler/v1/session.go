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

type SessionService interface {
	Start(ctx context.Context, entityID uint, policy domain.Policy) (domain.Session, error)
	Close(ctx context.Context, id uint, policy domain.Policy) (domain.Session, error)
	Get(ctx context.Context, id uint) (domain.Session, error)
	ActiveForEntity(ctx context.Context, entityID uint) (domain.Session, error)
	ActiveForUser(ctx context.Context, userID uint) ([]domain.Session, error)
	Find(ctx context.Context, filter domain.SessionFilter) ([]domain.Session, error)
	Summary(ctx context.Context, id uint) (domain.SessionSummary, error)
}

type SessionPurchaseService interface {
	GetPurchasesBySession(ctx context.Context, sessionID uint) ([]domain.TicketPurchase, error)
}

type SessionHandler struct {
	svc         SessionService
	purchaseSvc SessionPurchaseService
	policySvc   PolicyService
}

func NewSessionHandler(svc SessionService, purchaseSvc SessionPurchaseService, policySvc PolicyService) *SessionHandler {
	return &SessionHandler{
		svc:         svc,
		purchaseSvc: purchaseSvc,
		policySvc:   policySvc,
	}
}

// HandleStartSession godoc
// @Summary      Start a selling session
// @Description  Opens a shift for the caller on the club. The club's ticket counter is reset so numbering restarts at 1. Fails with 409 if the club already has an active session.
// @Tags         sessions
// @Produce      json
// @Param        entityID  path      int  true  "Entity ID"
// @Success      201  {object}  domain.Session
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /entities/{entityID}/sessions [post]
// @Security     BearerAuth
func (h *SessionHandler) HandleStartSession(ctx *gin.Context) {
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

	if !policy.CanAccessEntity(uint(entityID)) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot sell for entity %v", policy.UserID, entityID)))
		return
	}

	session, err := h.svc.Start(ctx.Request.Context(), uint(entityID), policy)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEntityNotFound):
			response.RenderErr(ctx, response.ErrNotFound("entity", "ID", entityID))
		case errors.Is(err, service.ErrSessionActive):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleStartSession -> h.svc.Start -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, session)
}

// HandleCloseSession godoc
// @Summary      Close a selling session
// @Description  Finalizes the shift: totals are recomputed from its purchases and the end ticket number is recorded. Only the session owner or a superuser may close it.
// @Tags         sessions
// @Produce      json
// @Param        sessionID  path      int  true  "Session ID"
// @Success      200  {object}  domain.Session
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /sessions/{sessionID}/close [post]
// @Security     BearerAuth
func (h *SessionHandler) HandleCloseSession(ctx *gin.Context) {
	policy, respErr := getPolicy(ctx, h.policySvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	sessionID, err := strconv.ParseUint(ctx.Param("sessionID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid session ID: %w", err)))
		return
	}

	session, err := h.svc.Close(ctx.Request.Context(), uint(sessionID), policy)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("session", "ID", sessionID))
		case errors.Is(err, service.ErrNotSessionOwner):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrSessionNotActive):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleCloseSession -> h.svc.Close -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, session)
}

// HandleGetSession godoc
// @Summary      Get a session by ID
// @Tags         sessions
// @Produce      json
// @Param        sessionID  path      int  true  "Session ID"
// @Success      200  {object}  domain.Session
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /sessions/{sessionID} [get]
// @Security     BearerAuth
func (h *SessionHandler) HandleGetSession(ctx *gin.Context) {
	sessionID, err := strconv.ParseUint(ctx.Param("sessionID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid session ID: %w", err)))
		return
	}

	session, err := h.svc.Get(ctx.Request.Context(), uint(sessionID))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("session", "ID", sessionID))
			return
		}

		err = fmt.Errorf("v1.HandleGetSession -> h.svc.Get -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, session)
}

// HandleGetActiveSession godoc
// @Summary      Get the club's active session
// @Tags         sessions
// @Produce      json
// @Param        entityID  path      int  true  "Entity ID"
// @Success      200  {object}  domain.Session
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /entities/{entityID}/sessions/active [get]
// @Security     BearerAuth
func (h *SessionHandler) HandleGetActiveSession(ctx *gin.Context) {
	entityID, err := strconv.ParseUint(ctx.Param("entityID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid entity ID: %w", err)))
		return
	}

	session, err := h.svc.ActiveForEntity(ctx.Request.Context(), uint(entityID))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("active session", "entityID", entityID))
			return
		}

		err = fmt.Errorf("v1.HandleGetActiveSession -> h.svc.ActiveForEntity -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, session)
}

// HandleGetMySessions godoc
// @Summary      List the caller's active sessions
// @Tags         sessions
// @Produce      json
// @Success      200  {array}   domain.Session
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /me/sessions [get]
// @Security     BearerAuth
func (h *SessionHandler) HandleGetMySessions(ctx *gin.Context) {
	policy, respErr := getPolicy(ctx, h.policySvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	sessions, err := h.svc.ActiveForUser(ctx.Request.Context(), policy.UserID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMySessions -> h.svc.ActiveForUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, sessions)
}

// HandleFindSessions godoc
// @Summary      List a club's sessions
// @Description  Filter by status (active, closed or all) and by start/end date (YYYY-MM-DD).
// @Tags         sessions
// @Produce      json
// @Param        entityID    path   int     true   "Entity ID"
// @Param        status      query  string  false  "active, closed or all"
// @Param        start_date  query  string  false  "Start date (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "End date (YYYY-MM-DD)"
// @Success      200  {array}   domain.Session
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /entities/{entityID}/sessions [get]
// @Security     BearerAuth
func (h *SessionHandler) HandleFindSessions(ctx *gin.Context) {
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

	if !policy.CanAccessEntity(uint(entityID)) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot view entity %v", policy.UserID, entityID)))
		return
	}

	startDate, endDate, err := parseDateRange(ctx.Query("start_date"), ctx.Query("end_date"))
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	status := ctx.DefaultQuery("status", "all")
	if status != "active" && status != "closed" && status != "all" {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid status %q", status)))
		return
	}

	sessions, err := h.svc.Find(ctx.Request.Context(), domain.SessionFilter{
		EntityID:  uint(entityID),
		StartDate: startDate,
		EndDate:   endDate,
		Status:    status,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleFindSessions -> h.svc.Find -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, sessions)
}

// HandleGetSessionSummary godoc
// @Summary      Get a session's summary
// @Description  The session with its purchases and the paid/unpaid revenue split.
// @Tags         sessions
// @Produce      json
// @Param        sessionID  path      int  true  "Session ID"
// @Success      200  {object}  domain.SessionSummary
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /sessions/{sessionID}/summary [get]
// @Security     BearerAuth
func (h *SessionHandler) HandleGetSessionSummary(ctx *gin.Context) {
	sessionID, err := strconv.ParseUint(ctx.Param("sessionID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid session ID: %w", err)))
		return
	}

	summary, err := h.svc.Summary(ctx.Request.Context(), uint(sessionID))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("session", "ID", sessionID))
			return
		}

		err = fmt.Errorf("v1.HandleGetSessionSummary -> h.svc.Summary -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, summary)
}

// HandleGetSessionPurchases godoc
// @Summary      List a session's purchases
// @Tags         sessions
// @Produce      json
// @Param        sessionID  path      int  true  "Session ID"
// @Success      200  {array}   domain.TicketPurchase
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /sessions/{sessionID}/purchases [get]
// @Security     BearerAuth
func (h *SessionHandler) HandleGetSessionPurchases(ctx *gin.Context) {
	sessionID, err := strconv.ParseUint(ctx.Param("sessionID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid session ID: %w", err)))
		return
	}

	purchases, err := h.purchaseSvc.GetPurchasesBySession(ctx.Request.Context(), uint(sessionID))
	if err != nil {
		err = fmt.Errorf("v1.HandleGetSessionPurchases -> h.purchaseSvc.GetPurchasesBySession -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, purchases)
}
