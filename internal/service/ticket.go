package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/clubraffle/raffle-api/internal/domain"
	"github.com/clubraffle/raffle-api/internal/pkg/receipt"
	"github.com/clubraffle/raffle-api/internal/repository"
)

var (
	ErrEntityNotFound   = repository.ErrEntityNotFound
	ErrEntityExists     = repository.ErrEntityExists
	ErrCounterNotFound  = repository.ErrCounterNotFound
	ErrPurchaseNotFound = repository.ErrPurchaseNotFound

	ErrTicketCountInvalid    = errors.New("ticket count must be positive")
	ErrPriceInvalid          = errors.New("price per ticket must be positive")
	ErrGifterRequired        = errors.New("gifter name is required for gift purchases")
	ErrSessionFinalized      = errors.New("purchase belongs to a closed session")
	ErrSessionEntityMismatch = errors.New("session belongs to a different entity")
)

type TicketEntityRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Entity, error)
	CounterValue(ctx context.Context, entityID uint) (int, error)
	ResetCounter(ctx context.Context, entityID uint) error
}

type TicketSessionRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Session, error)
	FindActiveByEntityID(ctx context.Context, entityID uint) (domain.Session, error)
	RefreshStats(ctx context.Context, id uint) error
}

type PurchaseRepository interface {
	Create(ctx context.Context, purchase domain.TicketPurchase) (domain.TicketPurchase, error)
	FindByID(ctx context.Context, id uint) (domain.TicketPurchase, error)
	FindAll(ctx context.Context) ([]domain.TicketPurchase, error)
	FindByEntityID(ctx context.Context, entityID uint) ([]domain.TicketPurchase, error)
	FindBySessionID(ctx context.Context, sessionID uint) ([]domain.TicketPurchase, error)
	FindByEntityAndDateRange(ctx context.Context, entityID uint, startDate, endDate *time.Time) ([]domain.TicketPurchase, error)
	UpdatePaymentStatus(ctx context.Context, id uint, isPaid bool) (domain.TicketPurchase, error)
	UpdateBuyerName(ctx context.Context, id uint, buyerName string) (domain.TicketPurchase, error)
	Delete(ctx context.Context, id uint) error
}

// TicketService owns the purchase ledger: creating purchases against the
// per-entity ticket counter, payment/buyer updates, stats aggregation and
// the receipt/announcement texts.
type TicketService struct {
	repo        PurchaseRepository
	entityRepo  TicketEntityRepository
	sessionRepo TicketSessionRepository
}

func NewTicketService(repo PurchaseRepository, entityRepo TicketEntityRepository, sessionRepo TicketSessionRepository) *TicketService {
	return &TicketService{
		repo:        repo,
		entityRepo:  entityRepo,
		sessionRepo: sessionRepo,
	}
}

// PurchaseTickets sells a contiguous block of tickets. The ticket range is
// claimed atomically by the storage layer, the purchase is stamped with the
// entity's active session (if any), the session's running totals are
// recomputed, and the formatted receipt is returned alongside the purchase.
func (s *TicketService) PurchaseTickets(ctx context.Context, purchase domain.TicketPurchase) (domain.TicketPurchase, string, error) {
	if purchase.TicketCount <= 0 {
		return domain.TicketPurchase{}, "", ErrTicketCountInvalid
	}
	if purchase.PricePerTicket <= 0 {
		return domain.TicketPurchase{}, "", ErrPriceInvalid
	}
	if purchase.IsGift && purchase.GifterName == "" {
		return domain.TicketPurchase{}, "", ErrGifterRequired
	}

	entity, err := s.entityRepo.FindByID(ctx, purchase.EntityID)
	if err != nil {
		if errors.Is(err, repository.ErrEntityNotFound) {
			return domain.TicketPurchase{}, "", ErrEntityNotFound
		}

		return domain.TicketPurchase{}, "", fmt.Errorf("s.entityRepo.FindByID -> %w", err)
	}

	if purchase.SessionID != nil {
		session, err := s.sessionRepo.FindByID(ctx, *purchase.SessionID)
		if err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				return domain.TicketPurchase{}, "", ErrSessionNotFound
			}
			return domain.TicketPurchase{}, "", fmt.Errorf("s.sessionRepo.FindByID -> %w", err)
		}
		if session.EntityID != purchase.EntityID {
			return domain.TicketPurchase{}, "", ErrSessionEntityMismatch
		}
		if session.Status != domain.SessionActive {
			return domain.TicketPurchase{}, "", ErrSessionNotActive
		}
	} else {
		session, err := s.sessionRepo.FindActiveByEntityID(ctx, purchase.EntityID)
		if err == nil {
			purchase.SessionID = &session.ID
		} else if !errors.Is(err, repository.ErrSessionNotFound) {
			return domain.TicketPurchase{}, "", fmt.Errorf("s.sessionRepo.FindActiveByEntityID -> %w", err)
		}
	}

	purchase.TotalPrice = float64(purchase.TicketCount) * purchase.PricePerTicket

	created, err := s.repo.Create(ctx, purchase)
	if err != nil {
		return domain.TicketPurchase{}, "", fmt.Errorf("s.repo.Create -> %w", err)
	}

	if created.SessionID != nil {
		if err := s.sessionRepo.RefreshStats(ctx, *created.SessionID); err != nil {
			return domain.TicketPurchase{}, "", fmt.Errorf("s.sessionRepo.RefreshStats -> %w", err)
		}
	}

	return created, receipt.Generate(entity, created), nil
}

// NextTicketNumber returns the number the next purchase would start at.
// Pure read; the counter only advances when a purchase is created.
func (s *TicketService) NextTicketNumber(ctx context.Context, entityID uint) (int, error) {
	last, err := s.entityRepo.CounterValue(ctx, entityID)
	if err != nil {
		if errors.Is(err, repository.ErrCounterNotFound) {
			return 0, ErrCounterNotFound
		}

		return 0, fmt.Errorf("s.entityRepo.CounterValue -> %w", err)
	}

	return last + 1, nil
}

// ResetCounter sets the entity's counter back to zero (administrative
// reset; session start resets it as part of its own transaction).
func (s *TicketService) ResetCounter(ctx context.Context, entityID uint) error {
	if _, err := s.entityRepo.FindByID(ctx, entityID); err != nil {
		if errors.Is(err, repository.ErrEntityNotFound) {
			return ErrEntityNotFound
		}

		return fmt.Errorf("s.entityRepo.FindByID -> %w", err)
	}

	if err := s.entityRepo.ResetCounter(ctx, entityID); err != nil {
		return fmt.Errorf("s.entityRepo.ResetCounter -> %w", err)
	}

	return nil
}

// Stats aggregates ticket totals. Scope is the given session if sessionID
// is set, otherwise the entity's active session, otherwise the entity's
// entire history. The prize amount is floor(revenue * percentage / 100).
func (s *TicketService) Stats(ctx context.Context, entityID uint, sessionID *uint) (domain.TicketStats, error) {
	entity, err := s.entityRepo.FindByID(ctx, entityID)
	if err != nil {
		if errors.Is(err, repository.ErrEntityNotFound) {
			return domain.TicketStats{}, ErrEntityNotFound
		}

		return domain.TicketStats{}, fmt.Errorf("s.entityRepo.FindByID -> %w", err)
	}

	var purchases []domain.TicketPurchase
	switch {
	case sessionID != nil:
		purchases, err = s.repo.FindBySessionID(ctx, *sessionID)
		if err != nil {
			return domain.TicketStats{}, fmt.Errorf("s.repo.FindBySessionID -> %w", err)
		}
	default:
		session, sessionErr := s.sessionRepo.FindActiveByEntityID(ctx, entityID)
		switch {
		case sessionErr == nil:
			purchases, err = s.repo.FindBySessionID(ctx, session.ID)
			if err != nil {
				return domain.TicketStats{}, fmt.Errorf("s.repo.FindBySessionID -> %w", err)
			}
		case errors.Is(sessionErr, repository.ErrSessionNotFound):
			purchases, err = s.repo.FindByEntityID(ctx, entityID)
			if err != nil {
				return domain.TicketStats{}, fmt.Errorf("s.repo.FindByEntityID -> %w", err)
			}
		default:
			return domain.TicketStats{}, fmt.Errorf("s.sessionRepo.FindActiveByEntityID -> %w", sessionErr)
		}
	}

	return aggregateStats(purchases, entity.RafflePercentage), nil
}

// Announcement renders the seller's chat announcement from the entity's
// current stats. Read-only.
func (s *TicketService) Announcement(ctx context.Context, entityID uint, rafflerName string, pricePerTicket float64) (string, error) {
	entity, err := s.entityRepo.FindByID(ctx, entityID)
	if err != nil {
		if errors.Is(err, repository.ErrEntityNotFound) {
			return "", ErrEntityNotFound
		}

		return "", fmt.Errorf("s.entityRepo.FindByID -> %w", err)
	}

	stats, err := s.Stats(ctx, entityID, nil)
	if err != nil {
		return "", fmt.Errorf("s.Stats -> %w", err)
	}

	return receipt.Announcement(entity, stats, rafflerName, pricePerTicket), nil
}

func (s *TicketService) GetPurchase(ctx context.Context, id uint) (domain.TicketPurchase, error) {
	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPurchaseNotFound) {
			return domain.TicketPurchase{}, ErrPurchaseNotFound
		}

		return domain.TicketPurchase{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return purchase, nil
}

func (s *TicketService) GetAllPurchases(ctx context.Context) ([]domain.TicketPurchase, error) {
	purchases, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return purchases, nil
}

// GetPurchasesByEntity lists the entity's purchases, newest first. With
// sessionOnly set, only purchases in the entity's active session are
// returned (none when no session is active).
func (s *TicketService) GetPurchasesByEntity(ctx context.Context, entityID uint, sessionOnly bool) ([]domain.TicketPurchase, error) {
	if sessionOnly {
		session, err := s.sessionRepo.FindActiveByEntityID(ctx, entityID)
		if err != nil {
			if errors.Is(err, repository.ErrSessionNotFound) {
				return []domain.TicketPurchase{}, nil
			}

			return nil, fmt.Errorf("s.sessionRepo.FindActiveByEntityID -> %w", err)
		}

		return s.GetPurchasesBySession(ctx, session.ID)
	}

	purchases, err := s.repo.FindByEntityID(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEntityID -> %w", err)
	}

	return purchases, nil
}

func (s *TicketService) GetPurchasesBySession(ctx context.Context, sessionID uint) ([]domain.TicketPurchase, error) {
	purchases, err := s.repo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindBySessionID -> %w", err)
	}

	return purchases, nil
}

func (s *TicketService) GetPurchasesByDateRange(ctx context.Context, entityID uint, startDate, endDate *time.Time) ([]domain.TicketPurchase, error) {
	purchases, err := s.repo.FindByEntityAndDateRange(ctx, entityID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEntityAndDateRange -> %w", err)
	}

	return purchases, nil
}

// ReceiptForPurchase re-renders the receipt for an existing purchase.
func (s *TicketService) ReceiptForPurchase(ctx context.Context, id uint) (string, error) {
	purchase, err := s.GetPurchase(ctx, id)
	if err != nil {
		return "", err
	}

	entity, err := s.entityRepo.FindByID(ctx, purchase.EntityID)
	if err != nil {
		if errors.Is(err, repository.ErrEntityNotFound) {
			return "", ErrEntityNotFound
		}

		return "", fmt.Errorf("s.entityRepo.FindByID -> %w", err)
	}

	return receipt.Generate(entity, purchase), nil
}

func (s *TicketService) UpdatePaymentStatus(ctx context.Context, id uint, isPaid bool) (domain.TicketPurchase, error) {
	updated, err := s.repo.UpdatePaymentStatus(ctx, id, isPaid)
	if err != nil {
		if errors.Is(err, repository.ErrPurchaseNotFound) {
			return domain.TicketPurchase{}, ErrPurchaseNotFound
		}

		return domain.TicketPurchase{}, fmt.Errorf("s.repo.UpdatePaymentStatus -> %w", err)
	}

	return updated, nil
}

func (s *TicketService) UpdateBuyerName(ctx context.Context, id uint, buyerName string) (domain.TicketPurchase, error) {
	updated, err := s.repo.UpdateBuyerName(ctx, id, buyerName)
	if err != nil {
		if errors.Is(err, repository.ErrPurchaseNotFound) {
			return domain.TicketPurchase{}, ErrPurchaseNotFound
		}

		return domain.TicketPurchase{}, fmt.Errorf("s.repo.UpdateBuyerName -> %w", err)
	}

	return updated, nil
}

// DeletePurchase removes a purchase and its tickets. The counter is never
// rolled back. Purchases belonging to a closed session cannot be deleted,
// since the session's finalized totals would silently go stale; deleting
// from an active session triggers a stats recompute instead.
func (s *TicketService) DeletePurchase(ctx context.Context, id uint) error {
	purchase, err := s.GetPurchase(ctx, id)
	if err != nil {
		return err
	}

	if purchase.SessionID != nil {
		session, err := s.sessionRepo.FindByID(ctx, *purchase.SessionID)
		if err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
			return fmt.Errorf("s.sessionRepo.FindByID -> %w", err)
		}
		if err == nil && session.Status == domain.SessionClosed {
			return ErrSessionFinalized
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	if purchase.SessionID != nil {
		if err := s.sessionRepo.RefreshStats(ctx, *purchase.SessionID); err != nil {
			return fmt.Errorf("s.sessionRepo.RefreshStats -> %w", err)
		}
	}

	return nil
}

func aggregateStats(purchases []domain.TicketPurchase, rafflePercentage int) domain.TicketStats {
	var stats domain.TicketStats
	for _, p := range purchases {
		stats.TicketsSold += p.TicketCount
		stats.TotalRevenue += p.TotalPrice
	}
	stats.PrizeAmount = int(math.Floor(stats.TotalRevenue * float64(rafflePercentage) / 100))

	return stats
}
