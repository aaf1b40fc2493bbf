package v1

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/clubraffle/raffle-api/internal/api/handler/v1/response"
	"github.com/clubraffle/raffle-api/internal/domain"
)

type ExportService interface {
	PurchasesWorkbook(ctx context.Context, entityIDs []uint) (*excelize.File, error)
}

type ExportHandler struct {
	svc       ExportService
	policySvc PolicyService
}

func NewExportHandler(svc ExportService, policySvc PolicyService) *ExportHandler {
	return &ExportHandler{
		svc:       svc,
		policySvc: policySvc,
	}
}

// HandleExportPurchases godoc
// @Summary      Export the purchase ledger as xlsx
// @Description  Streams a workbook with Purchases, Tickets and Summary sheets. Non-superusers only get their assigned clubs; entity_ids narrows the export further.
// @Tags         export
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        entity_ids  query  string  false  "Comma-separated entity IDs"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /export/purchases [get]
// @Security     BearerAuth
func (h *ExportHandler) HandleExportPurchases(ctx *gin.Context) {
	policy, respErr := getPolicy(ctx, h.policySvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	requested, err := parseEntityIDs(ctx.Query("entity_ids"))
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	entityIDs, err := exportScope(policy, requested)
	if err != nil {
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
		return
	}

	workbook, err := h.svc.PurchasesWorkbook(ctx.Request.Context(), entityIDs)
	if err != nil {
		err = fmt.Errorf("v1.HandleExportPurchases -> h.svc.PurchasesWorkbook -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	filename := fmt.Sprintf("purchases-%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := workbook.Write(ctx.Writer); err != nil {
		err = fmt.Errorf("v1.HandleExportPurchases -> workbook.Write -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}
}

func parseEntityIDs(raw string) ([]uint, error) {
	if raw == "" {
		return nil, nil
	}

	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid entity ID %q: %w", part, err)
		}
		ids = append(ids, uint(id))
	}

	return ids, nil
}

// exportScope intersects the requested entity set with what the caller may
// see. Superusers may export everything; an empty request means all of the
// caller's accessible entities.
func exportScope(policy domain.Policy, requested []uint) ([]uint, error) {
	if policy.Role == domain.RoleSuperuser {
		return requested, nil
	}

	if len(requested) == 0 {
		if len(policy.EntityIDs) == 0 {
			return nil, fmt.Errorf("user %v has no assigned entities to export", policy.UserID)
		}

		return policy.EntityIDs, nil
	}

	var scoped []uint
	for _, id := range requested {
		if policy.CanAccessEntity(id) {
			scoped = append(scoped, id)
		}
	}
	if len(scoped) == 0 {
		return nil, fmt.Errorf("user %v cannot export the requested entities", policy.UserID)
	}

	return scoped, nil
}
