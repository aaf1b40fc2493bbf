package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/clubraffle/raffle-api/internal/domain"
	"github.com/clubraffle/raffle-api/internal/repository/dao"
)

var (
	ErrSessionNotFound  = dao.ErrSessionNotFound
	ErrSessionActive    = dao.ErrSessionActive
	ErrSessionNotActive = dao.ErrSessionNotActive
)

type SessionDAO interface {
	Start(ctx context.Context, session dao.Session) (dao.Session, error)
	Close(ctx context.Context, id uint) (dao.Session, error)
	RefreshStats(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (dao.Session, error)
	FindActiveByEntityID(ctx context.Context, entityID uint) (dao.Session, error)
	FindActiveByUserID(ctx context.Context, userID uint) ([]dao.Session, error)
	FindByFilter(ctx context.Context, entityID uint, startDate, endDate *time.Time, status string) ([]dao.Session, error)
}

type SessionRepository struct {
	dao SessionDAO
}

func NewSessionRepository(dao SessionDAO) *SessionRepository {
	return &SessionRepository{
		dao: dao,
	}
}

// Start opens a session for the entity. The DAO resets the entity's ticket
// counter in the same transaction and fails with ErrSessionActive if the
// entity already has an active session.
func (r *SessionRepository) Start(ctx context.Context, session domain.Session) (domain.Session, error) {
	started, err := r.dao.Start(ctx, dao.Session{
		EntityID:          session.EntityID,
		UserID:            session.UserID,
		Username:          session.Username,
		StartedAt:         session.StartedAt,
		StartTicketNumber: session.StartTicketNumber,
		Status:            string(domain.SessionActive),
	})
	if err != nil {
		return domain.Session{}, fmt.Errorf("r.dao.Start -> %w", err)
	}

	return r.daoToDomain(started), nil
}

func (r *SessionRepository) Close(ctx context.Context, id uint) (domain.Session, error) {
	closed, err := r.dao.Close(ctx, id)
	if err != nil {
		return domain.Session{}, fmt.Errorf("r.dao.Close -> %w", err)
	}

	return r.daoToDomain(closed), nil
}

func (r *SessionRepository) RefreshStats(ctx context.Context, id uint) error {
	if err := r.dao.RefreshStats(ctx, id); err != nil {
		return fmt.Errorf("r.dao.RefreshStats -> %w", err)
	}

	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id uint) (domain.Session, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Session{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *SessionRepository) FindActiveByEntityID(ctx context.Context, entityID uint) (domain.Session, error) {
	found, err := r.dao.FindActiveByEntityID(ctx, entityID)
	if err != nil {
		return domain.Session{}, fmt.Errorf("r.dao.FindActiveByEntityID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *SessionRepository) FindActiveByUserID(ctx context.Context, userID uint) ([]domain.Session, error) {
	found, err := r.dao.FindActiveByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindActiveByUserID -> %w", err)
	}

	sessions := make([]domain.Session, 0, len(found))
	for _, s := range found {
		sessions = append(sessions, r.daoToDomain(s))
	}

	return sessions, nil
}

func (r *SessionRepository) FindByFilter(ctx context.Context, filter domain.SessionFilter) ([]domain.Session, error) {
	found, err := r.dao.FindByFilter(ctx, filter.EntityID, filter.StartDate, filter.EndDate, filter.Status)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByFilter -> %w", err)
	}

	sessions := make([]domain.Session, 0, len(found))
	for _, s := range found {
		sessions = append(sessions, r.daoToDomain(s))
	}

	return sessions, nil
}

func (r *SessionRepository) daoToDomain(s dao.Session) domain.Session {
	return domain.Session{
		ID:                s.ID,
		EntityID:          s.EntityID,
		UserID:            s.UserID,
		Username:          s.Username,
		StartedAt:         s.StartedAt,
		EndedAt:           s.EndedAt,
		StartTicketNumber: s.StartTicketNumber,
		EndTicketNumber:   s.EndTicketNumber,
		TicketsSold:       s.TicketsSold,
		TotalRevenue:      s.TotalRevenue,
		Status:            domain.SessionStatus(s.Status),
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}
