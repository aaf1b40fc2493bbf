package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clubraffle/raffle-api/internal/domain"
	"github.com/clubraffle/raffle-api/internal/repository"
)

var (
	ErrSessionNotFound  = repository.ErrSessionNotFound
	ErrSessionActive    = repository.ErrSessionActive
	ErrSessionNotActive = repository.ErrSessionNotActive

	ErrNotSessionOwner = errors.New("only the session owner or a superuser can close a session")
)

type SessionRepository interface {
	Start(ctx context.Context, session domain.Session) (domain.Session, error)
	Close(ctx context.Context, id uint) (domain.Session, error)
	RefreshStats(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (domain.Session, error)
	FindActiveByEntityID(ctx context.Context, entityID uint) (domain.Session, error)
	FindActiveByUserID(ctx context.Context, userID uint) ([]domain.Session, error)
	FindByFilter(ctx context.Context, filter domain.SessionFilter) ([]domain.Session, error)
}

type SessionEntityRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Entity, error)
}

type SessionPurchaseRepository interface {
	FindBySessionID(ctx context.Context, sessionID uint) ([]domain.TicketPurchase, error)
}

// SessionService models selling shifts. At most one session is active per
// entity; starting one resets the entity's ticket counter so numbering
// restarts at 1 for the new shift.
type SessionService struct {
	repo         SessionRepository
	entityRepo   SessionEntityRepository
	purchaseRepo SessionPurchaseRepository
}

func NewSessionService(repo SessionRepository, entityRepo SessionEntityRepository, purchaseRepo SessionPurchaseRepository) *SessionService {
	return &SessionService{
		repo:         repo,
		entityRepo:   entityRepo,
		purchaseRepo: purchaseRepo,
	}
}

// Start opens a shift for the caller on the entity. Fails with
// ErrSessionActive if the entity already has an active session.
func (s *SessionService) Start(ctx context.Context, entityID uint, policy domain.Policy) (domain.Session, error) {
	if _, err := s.entityRepo.FindByID(ctx, entityID); err != nil {
		if errors.Is(err, repository.ErrEntityNotFound) {
			return domain.Session{}, ErrEntityNotFound
		}

		return domain.Session{}, fmt.Errorf("s.entityRepo.FindByID -> %w", err)
	}

	session, err := s.repo.Start(ctx, domain.Session{
		EntityID:          entityID,
		UserID:            policy.UserID,
		Username:          policy.Username,
		StartedAt:         time.Now(),
		StartTicketNumber: 1,
		Status:            domain.SessionActive,
	})
	if err != nil {
		if errors.Is(err, repository.ErrSessionActive) {
			return domain.Session{}, ErrSessionActive
		}

		return domain.Session{}, fmt.Errorf("s.repo.Start -> %w", err)
	}

	return session, nil
}

// Close finalizes the session. Totals are re-derived from the purchase
// ledger by the storage layer, never trusted from the running columns.
func (s *SessionService) Close(ctx context.Context, id uint, policy domain.Policy) (domain.Session, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return domain.Session{}, ErrSessionNotFound
		}

		return domain.Session{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !policy.CanCloseSession(session) {
		return domain.Session{}, ErrNotSessionOwner
	}

	closed, err := s.repo.Close(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotActive) {
			return domain.Session{}, ErrSessionNotActive
		}

		return domain.Session{}, fmt.Errorf("s.repo.Close -> %w", err)
	}

	return closed, nil
}

func (s *SessionService) Get(ctx context.Context, id uint) (domain.Session, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return domain.Session{}, ErrSessionNotFound
		}

		return domain.Session{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return session, nil
}

// ActiveForEntity returns the entity's active session, or ErrSessionNotFound.
func (s *SessionService) ActiveForEntity(ctx context.Context, entityID uint) (domain.Session, error) {
	session, err := s.repo.FindActiveByEntityID(ctx, entityID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return domain.Session{}, ErrSessionNotFound
		}

		return domain.Session{}, fmt.Errorf("s.repo.FindActiveByEntityID -> %w", err)
	}

	return session, nil
}

// ActiveForUser returns the user's active sessions across all entities.
func (s *SessionService) ActiveForUser(ctx context.Context, userID uint) ([]domain.Session, error) {
	sessions, err := s.repo.FindActiveByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindActiveByUserID -> %w", err)
	}

	return sessions, nil
}

func (s *SessionService) Find(ctx context.Context, filter domain.SessionFilter) ([]domain.Session, error) {
	sessions, err := s.repo.FindByFilter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByFilter -> %w", err)
	}

	return sessions, nil
}

// Summary assembles the session, its purchases and the paid/unpaid split
// for reporting. Totals here are derived live from the ledger.
func (s *SessionService) Summary(ctx context.Context, id uint) (domain.SessionSummary, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return domain.SessionSummary{}, err
	}

	entityName := "Unknown"
	if entity, err := s.entityRepo.FindByID(ctx, session.EntityID); err == nil {
		entityName = entity.DisplayName
	}

	purchases, err := s.purchaseRepo.FindBySessionID(ctx, id)
	if err != nil {
		return domain.SessionSummary{}, fmt.Errorf("s.purchaseRepo.FindBySessionID -> %w", err)
	}

	summary := domain.SessionSummary{
		Session:       session,
		EntityName:    entityName,
		Purchases:     purchases,
		PurchaseCount: len(purchases),
	}
	for _, p := range purchases {
		summary.TicketsSold += p.TicketCount
		summary.TotalRevenue += p.TotalPrice
		if p.IsPaid {
			summary.PaidAmount += p.TotalPrice
		} else {
			summary.UnpaidAmount += p.TotalPrice
		}
	}

	return summary, nil
}
