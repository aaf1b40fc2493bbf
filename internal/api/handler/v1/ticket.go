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

type TicketService interface {
	PurchaseTickets(ctx context.Context, purchase domain.TicketPurchase) (domain.TicketPurchase, string, error)
	NextTicketNumber(ctx context.Context, entityID uint) (int, error)
	ResetCounter(ctx context.Context, entityID uint) error
	Stats(ctx context.Context, entityID uint, sessionID *uint) (domain.TicketStats, error)
	Announcement(ctx context.Context, entityID uint, rafflerName string, pricePerTicket float64) (string, error)
	GetPurchase(ctx context.Context, id uint) (domain.TicketPurchase, error)
	GetAllPurchases(ctx context.Context) ([]domain.TicketPurchase, error)
	GetPurchasesByEntity(ctx context.Context, entityID uint, sessionOnly bool) ([]domain.TicketPurchase, error)
	GetPurchasesByDateRange(ctx context.Context, entityID uint, startDate, endDate *time.Time) ([]domain.TicketPurchase, error)
	ReceiptForPurchase(ctx context.Context, id uint) (string, error)
	UpdatePaymentStatus(ctx context.Context, id uint, isPaid bool) (domain.TicketPurchase, error)
	UpdateBuyerName(ctx context.Context, id uint, buyerName string) (domain.TicketPurchase, error)
	DeletePurchase(ctx context.Context, id uint) error
}

type TicketHandler struct {
	svc       TicketService
	policySvc PolicyService
}

func NewTicketHandler(svc TicketService, policySvc PolicyService) *TicketHandler {
	return &TicketHandler{
		svc:       svc,
		policySvc: policySvc,
	}
}

// HandlePurchaseTickets godoc
// @Summary      Sell a block of tickets
// @Description  Claims the next contiguous block of ticket numbers for the club and records the purchase. Returns the purchase together with its formatted receipt.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        entityID  path      int                            true  "Entity ID"
// @Param        request   body      request.PurchaseTicketsRequest true  "request body"
// @Success      201  {object}  response.Purchase
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /entities/{entityID}/purchases [post]
// @Security     BearerAuth
func (h *TicketHandler) HandlePurchaseTickets(ctx *gin.Context) {
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

	var req request.PurchaseTicketsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	rafflerName := req.RafflerName
	if rafflerName == "" {
		rafflerName = policy.Username
	}

	purchase := domain.TicketPurchase{
		EntityID:       uint(entityID),
		SessionID:      req.SessionID,
		BuyerName:      req.BuyerName,
		RafflerName:    rafflerName,
		TicketCount:    req.TicketCount,
		PricePerTicket: req.PricePerTicket,
		IsGift:         req.IsGift,
		GifterName:     req.GifterName,
	}

	created, receiptText, err := h.svc.PurchaseTickets(ctx.Request.Context(), purchase)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEntityNotFound):
			response.RenderErr(ctx, response.ErrNotFound("entity", "ID", entityID))
		case errors.Is(err, service.ErrSessionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("session", "ID", *req.SessionID))
		case errors.Is(err, service.ErrSessionNotActive),
			errors.Is(err, service.ErrSessionEntityMismatch):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrTicketCountInvalid),
			errors.Is(err, service.ErrPriceInvalid),
			errors.Is(err, service.ErrGifterRequired):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandlePurchaseTickets -> h.svc.PurchaseTickets -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, response.Purchase{
		Purchase: created,
		Receipt:  receiptText,
	})
}

// HandleNextTicketNumber godoc
// @Summary      Peek the next ticket number
// @Description  Returns the number the next purchase would start at. Read-only; the counter only advances when tickets are sold.
// @Tags         tickets
// @Produce      json
// @Param        entityID  path      int  true  "Entity ID"
// @Success      200  {object}  response.NextTicketNumber
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /entities/{entityID}/next-ticket [get]
// @Security     BearerAuth
func (h *TicketHandler) HandleNextTicketNumber(ctx *gin.Context) {
	entityID, err := strconv.ParseUint(ctx.Param("entityID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid entity ID: %w", err)))
		return
	}

	next, err := h.svc.NextTicketNumber(ctx.Request.Context(), uint(entityID))
	if err != nil {
		if errors.Is(err, service.ErrCounterNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("counter", "entityID", entityID))
			return
		}

		err = fmt.Errorf("v1.HandleNextTicketNumber -> h.svc.NextTicketNumber -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NextTicketNumber{NextTicketNumber: next})
}

// HandleResetCounter godoc
// @Summary      Reset a club's ticket counter
// @Description  Administrative reset back to zero, outside of any session.
// @Tags         tickets
// @Produce      json
// @Param        entityID  path      int  true  "Entity ID"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /entities/{entityID}/counter/reset [post]
// @Security     BearerAuth
func (h *TicketHandler) HandleResetCounter(ctx *gin.Context) {
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
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot reset the counter of entity %v", policy.UserID, entityID)))
		return
	}

	if err := h.svc.ResetCounter(ctx.Request.Context(), uint(entityID)); err != nil {
		if errors.Is(err, service.ErrEntityNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("entity", "ID", entityID))
			return
		}

		err = fmt.Errorf("v1.HandleResetCounter -> h.svc.ResetCounter -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "counter reset"})
}

// HandleGetStats godoc
// @Summary      Get ticket stats for a club
// @Description  Aggregated totals and prize amount. Scoped to the session given by the session_id query parameter, otherwise the club's active session, otherwise its entire history.
// @Tags         tickets
// @Produce      json
// @Param        entityID   path      int  true   "Entity ID"
// @Param        session_id query     int  false  "Session ID"
// @Success      200  {object}  domain.TicketStats
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /entities/{entityID}/stats [get]
// @Security     BearerAuth
func (h *TicketHandler) HandleGetStats(ctx *gin.Context) {
	entityID, err := strconv.ParseUint(ctx.Param("entityID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid entity ID: %w", err)))
		return
	}

	var sessionID *uint
	if raw := ctx.Query("session_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid session ID: %w", err)))
			return
		}
		id := uint(parsed)
		sessionID = &id
	}

	stats, err := h.svc.Stats(ctx.Request.Context(), uint(entityID), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrEntityNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("entity", "ID", entityID))
			return
		}

		err = fmt.Errorf("v1.HandleGetStats -> h.svc.Stats -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// HandleGetAnnouncement godoc
// @Summary      Render the seller's announcement text
// @Tags         tickets
// @Produce      json
// @Param        entityID          path   int     true   "Entity ID"
// @Param        raffler_name      query  string  false  "Seller display name"
// @Param        price_per_ticket  query  number  false  "Advertised price per ticket"
// @Success      200  {object}  response.Announcement
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /entities/{entityID}/announcement [get]
// @Security     BearerAuth
func (h *TicketHandler) HandleGetAnnouncement(ctx *gin.Context) {
	entityID, err := strconv.ParseUint(ctx.Param("entityID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid entity ID: %w", err)))
		return
	}

	pricePerTicket := 0.0
	if raw := ctx.Query("price_per_ticket"); raw != "" {
		pricePerTicket, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid price: %w", err)))
			return
		}
	}

	announcement, err := h.svc.Announcement(ctx.Request.Context(), uint(entityID), ctx.Query("raffler_name"), pricePerTicket)
	if err != nil {
		if errors.Is(err, service.ErrEntityNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("entity", "ID", entityID))
			return
		}

		err = fmt.Errorf("v1.HandleGetAnnouncement -> h.svc.Announcement -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Announcement{Announcement: announcement})
}

// HandleGetEntityPurchases godoc
// @Summary      List a club's purchases
// @Description  Newest first. With session_only=true only purchases of the active session are returned; with start_date/end_date (YYYY-MM-DD) the list is filtered by purchase date.
// @Tags         tickets
// @Produce      json
// @Param        entityID      path   int     true   "Entity ID"
// @Param        session_only  query  bool    false  "Only the active session's purchases"
// @Param        start_date    query  string  false  "Start date (YYYY-MM-DD)"
// @Param        end_date      query  string  false  "End date (YYYY-MM-DD)"
// @Success      200  {array}   domain.TicketPurchase
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /entities/{entityID}/purchases [get]
// @Security     BearerAuth
func (h *TicketHandler) HandleGetEntityPurchases(ctx *gin.Context) {
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

	var purchases []domain.TicketPurchase
	if startDate != nil || endDate != nil {
		purchases, err = h.svc.GetPurchasesByDateRange(ctx.Request.Context(), uint(entityID), startDate, endDate)
	} else {
		sessionOnly := ctx.Query("session_only") == "true"
		purchases, err = h.svc.GetPurchasesByEntity(ctx.Request.Context(), uint(entityID), sessionOnly)
	}
	if err != nil {
		err = fmt.Errorf("v1.HandleGetEntityPurchases -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, purchases)
}

// HandleGetPurchases godoc
// @Summary      List all purchases across clubs
// @Tags         tickets
// @Produce      json
// @Success      200  {array}   domain.TicketPurchase
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /purchases [get]
// @Security     BearerAuth
func (h *TicketHandler) HandleGetPurchases(ctx *gin.Context) {
	policy, respErr := getPolicy(ctx, h.policySvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if policy.Role != domain.RoleSuperuser {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot list all purchases", policy.UserID)))
		return
	}

	purchases, err := h.svc.GetAllPurchases(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetPurchases -> h.svc.GetAllPurchases -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, purchases)
}

// HandleGetPurchase godoc
// @Summary      Get a purchase by ID
// @Tags         tickets
// @Produce      json
// @Param        purchaseID  path      int  true  "Purchase ID"
// @Success      200  {object}  domain.TicketPurchase
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /purchases/{purchaseID} [get]
// @Security     BearerAuth
func (h *TicketHandler) HandleGetPurchase(ctx *gin.Context) {
	policy, respErr := getPolicy(ctx, h.policySvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	purchaseID, err := strconv.ParseUint(ctx.Param("purchaseID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid purchase ID: %w", err)))
		return
	}

	purchase, err := h.svc.GetPurchase(ctx.Request.Context(), uint(purchaseID))
	if err != nil {
		if errors.Is(err, service.ErrPurchaseNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("purchase", "ID", purchaseID))
			return
		}

		err = fmt.Errorf("v1.HandleGetPurchase -> h.svc.GetPurchase -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if !policy.CanAccessEntity(purchase.EntityID) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot view entity %v", policy.UserID, purchase.EntityID)))
		return
	}

	ctx.JSON(http.StatusOK, purchase)
}

// HandleGetReceipt godoc
// @Summary      Re-render the receipt for a purchase
// @Tags         tickets
// @Produce      json
// @Param        purchaseID  path      int  true  "Purchase ID"
// @Success      200  {object}  response.Receipt
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /purchases/{purchaseID}/receipt [get]
// @Security     BearerAuth
func (h *TicketHandler) HandleGetReceipt(ctx *gin.Context) {
	purchaseID, err := strconv.ParseUint(ctx.Param("purchaseID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid purchase ID: %w", err)))
		return
	}

	receiptText, err := h.svc.ReceiptForPurchase(ctx.Request.Context(), uint(purchaseID))
	if err != nil {
		if errors.Is(err, service.ErrPurchaseNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("purchase", "ID", purchaseID))
			return
		}

		err = fmt.Errorf("v1.HandleGetReceipt -> h.svc.ReceiptForPurchase -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Receipt{Receipt: receiptText})
}

// HandleUpdatePayment godoc
// @Summary      Mark a purchase paid or unpaid
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        purchaseID  path      int                          true  "Purchase ID"
// @Param        request     body      request.UpdatePaymentRequest true  "request body"
// @Success      200  {object}  domain.TicketPurchase
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /purchases/{purchaseID}/payment [patch]
// @Security     BearerAuth
func (h *TicketHandler) HandleUpdatePayment(ctx *gin.Context) {
	purchaseID, err := strconv.ParseUint(ctx.Param("purchaseID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid purchase ID: %w", err)))
		return
	}

	var req request.UpdatePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdatePaymentStatus(ctx.Request.Context(), uint(purchaseID), *req.IsPaid)
	if err != nil {
		if errors.Is(err, service.ErrPurchaseNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("purchase", "ID", purchaseID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdatePayment -> h.svc.UpdatePaymentStatus -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleUpdateBuyer godoc
// @Summary      Rename the buyer on a purchase
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        purchaseID  path      int                        true  "Purchase ID"
// @Param        request     body      request.UpdateBuyerRequest true  "request body"
// @Success      200  {object}  domain.TicketPurchase
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /purchases/{purchaseID}/buyer [patch]
// @Security     BearerAuth
func (h *TicketHandler) HandleUpdateBuyer(ctx *gin.Context) {
	purchaseID, err := strconv.ParseUint(ctx.Param("purchaseID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid purchase ID: %w", err)))
		return
	}

	var req request.UpdateBuyerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdateBuyerName(ctx.Request.Context(), uint(purchaseID), req.BuyerName)
	if err != nil {
		if errors.Is(err, service.ErrPurchaseNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("purchase", "ID", purchaseID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateBuyer -> h.svc.UpdateBuyerName -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeletePurchase godoc
// @Summary      Delete a purchase
// @Description  Removes the purchase and its tickets. The counter never rolls back, so the freed numbers are not reused. Purchases of a closed session cannot be deleted.
// @Tags         tickets
// @Produce      json
// @Param        purchaseID  path      int  true  "Purchase ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /purchases/{purchaseID} [delete]
// @Security     BearerAuth
func (h *TicketHandler) HandleDeletePurchase(ctx *gin.Context) {
	policy, respErr := getPolicy(ctx, h.policySvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	purchaseID, err := strconv.ParseUint(ctx.Param("purchaseID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid purchase ID: %w", err)))
		return
	}

	purchase, err := h.svc.GetPurchase(ctx.Request.Context(), uint(purchaseID))
	if err != nil {
		if errors.Is(err, service.ErrPurchaseNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("purchase", "ID", purchaseID))
			return
		}

		err = fmt.Errorf("v1.HandleDeletePurchase -> h.svc.GetPurchase -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if !policy.CanAccessEntity(purchase.EntityID) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot modify entity %v", policy.UserID, purchase.EntityID)))
		return
	}

	if err := h.svc.DeletePurchase(ctx.Request.Context(), uint(purchaseID)); err != nil {
		if errors.Is(err, service.ErrSessionFinalized) {
			response.RenderErr(ctx, response.ErrConflict(err))
			return
		}

		err = fmt.Errorf("v1.HandleDeletePurchase -> h.svc.DeletePurchase -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

func parseDateRange(startRaw, endRaw string) (*time.Time, *time.Time, error) {
	var startDate, endDate *time.Time

	if startRaw != "" {
		parsed, err := time.Parse("2006-01-02", startRaw)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid start date: %w", err)
		}
		startDate = &parsed
	}

	if endRaw != "" {
		parsed, err := time.Parse("2006-01-02", endRaw)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid end date: %w", err)
		}
		// Inclusive end of day.
		endOfDay := parsed.Add(24*time.Hour - time.Nanosecond)
		endDate = &endOfDay
	}

	return startDate, endDate, nil
}
