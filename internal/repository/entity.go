package repository

import (
	"context"
	"fmt"

	"github.com/clubraffle/raffle-api/internal/domain"
	"github.com/clubraffle/raffle-api/internal/repository/dao"
)

var (
	ErrEntityNotFound  = dao.ErrEntityNotFound
	ErrEntityExists    = dao.ErrEntityExists
	ErrCounterNotFound = dao.ErrCounterNotFound
)

type EntityDAO interface {
	Insert(ctx context.Context, entity dao.Entity) (dao.Entity, error)
	FindAll(ctx context.Context) ([]dao.Entity, error)
	FindByID(ctx context.Context, id uint) (dao.Entity, error)
	Update(ctx context.Context, entity dao.Entity) (dao.Entity, error)
	Delete(ctx context.Context, id uint) error
	CounterValue(ctx context.Context, entityID uint) (int, error)
	ResetCounter(ctx context.Context, entityID uint) error
}

type EntityRepository struct {
	dao EntityDAO
}

func NewEntityRepository(dao EntityDAO) *EntityRepository {
	return &EntityRepository{
		dao: dao,
	}
}

func (r *EntityRepository) Create(ctx context.Context, entity domain.Entity) (domain.Entity, error) {
	created, err := r.dao.Insert(ctx, dao.Entity{
		Name:             entity.Name,
		DisplayName:      entity.DisplayName,
		Emoji:            entity.Emoji,
		Tagline:          entity.Tagline,
		RafflePercentage: entity.RafflePercentage,
	})
	if err != nil {
		return domain.Entity{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EntityRepository) FindAll(ctx context.Context) ([]domain.Entity, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	entities := make([]domain.Entity, 0, len(found))
	for _, e := range found {
		entities = append(entities, r.daoToDomain(e))
	}

	return entities, nil
}

func (r *EntityRepository) FindByID(ctx context.Context, id uint) (domain.Entity, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Entity{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *EntityRepository) Update(ctx context.Context, entity domain.Entity) (domain.Entity, error) {
	updated, err := r.dao.Update(ctx, dao.Entity{
		ID:               entity.ID,
		Name:             entity.Name,
		DisplayName:      entity.DisplayName,
		Emoji:            entity.Emoji,
		Tagline:          entity.Tagline,
		RafflePercentage: entity.RafflePercentage,
	})
	if err != nil {
		return domain.Entity{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *EntityRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

// CounterValue returns the entity's last issued ticket number.
func (r *EntityRepository) CounterValue(ctx context.Context, entityID uint) (int, error) {
	value, err := r.dao.CounterValue(ctx, entityID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CounterValue -> %w", err)
	}

	return value, nil
}

func (r *EntityRepository) ResetCounter(ctx context.Context, entityID uint) error {
	if err := r.dao.ResetCounter(ctx, entityID); err != nil {
		return fmt.Errorf("r.dao.ResetCounter -> %w", err)
	}

	return nil
}

func (r *EntityRepository) daoToDomain(e dao.Entity) domain.Entity {
	return domain.Entity{
		ID:               e.ID,
		Name:             e.Name,
		DisplayName:      e.DisplayName,
		Emoji:            e.Emoji,
		Tagline:          e.Tagline,
		RafflePercentage: e.RafflePercentage,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}
