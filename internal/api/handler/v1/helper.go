package v1

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/clubraffle/raffle-api/internal/api/handler/v1/response"
	"github.com/clubraffle/raffle-api/internal/api/middleware"
	"github.com/clubraffle/raffle-api/internal/domain"
)

// PolicyService resolves the caller's capability set from the user ID
// stored on the context by the JWT middleware.
type PolicyService interface {
	PolicyFor(ctx context.Context, userID uint) (domain.Policy, error)
}

func getPolicy(ctx *gin.Context, svc PolicyService) (domain.Policy, *response.Err) {
	raw, ok := ctx.Get(middleware.ContextKeyUserID)
	if !ok {
		return domain.Policy{}, response.ErrUnauthorized("missing authentication")
	}

	userID, ok := raw.(uint)
	if !ok {
		return domain.Policy{}, response.ErrUnauthorized("invalid authentication context")
	}

	policy, err := svc.PolicyFor(ctx.Request.Context(), userID)
	if err != nil {
		return domain.Policy{}, response.ErrInternalServerError(fmt.Errorf("getPolicy -> svc.PolicyFor -> %w", err))
	}

	return policy, nil
}
