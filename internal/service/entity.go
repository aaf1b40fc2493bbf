package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/clubraffle/raffle-api/internal/domain"
	"github.com/clubraffle/raffle-api/internal/repository"
)

var ErrPercentageInvalid = errors.New("raffle percentage must be between 0 and 100")

type EntityRepository interface {
	Create(ctx context.Context, entity domain.Entity) (domain.Entity, error)
	FindAll(ctx context.Context) ([]domain.Entity, error)
	FindByID(ctx context.Context, id uint) (domain.Entity, error)
	Update(ctx context.Context, entity domain.Entity) (domain.Entity, error)
	Delete(ctx context.Context, id uint) error
}

// EntityService manages clubs. Creating an entity also provisions its
// ticket counter (done atomically in the storage layer).
type EntityService struct {
	repo EntityRepository
}

func NewEntityService(repo EntityRepository) *EntityService {
	return &EntityService{
		repo: repo,
	}
}

func (s *EntityService) Create(ctx context.Context, entity domain.Entity) (domain.Entity, error) {
	if entity.Emoji == "" {
		entity.Emoji = domain.DefaultEmoji
	}
	if entity.Tagline == "" {
		entity.Tagline = domain.DefaultTagline
	}
	if entity.RafflePercentage == 0 {
		entity.RafflePercentage = domain.DefaultRafflePercentage
	}
	if entity.RafflePercentage < 0 || entity.RafflePercentage > 100 {
		return domain.Entity{}, ErrPercentageInvalid
	}

	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		if errors.Is(err, repository.ErrEntityExists) {
			return domain.Entity{}, ErrEntityExists
		}

		return domain.Entity{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EntityService) GetAll(ctx context.Context) ([]domain.Entity, error) {
	entities, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return entities, nil
}

func (s *EntityService) Get(ctx context.Context, id uint) (domain.Entity, error) {
	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEntityNotFound) {
			return domain.Entity{}, ErrEntityNotFound
		}

		return domain.Entity{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return entity, nil
}

func (s *EntityService) Update(ctx context.Context, entity domain.Entity) (domain.Entity, error) {
	if entity.RafflePercentage < 0 || entity.RafflePercentage > 100 {
		return domain.Entity{}, ErrPercentageInvalid
	}

	current, err := s.Get(ctx, entity.ID)
	if err != nil {
		return domain.Entity{}, err
	}

	// Unset fields keep their current values.
	if entity.Name == "" {
		entity.Name = current.Name
	}
	if entity.DisplayName == "" {
		entity.DisplayName = current.DisplayName
	}
	if entity.Emoji == "" {
		entity.Emoji = current.Emoji
	}
	if entity.Tagline == "" {
		entity.Tagline = current.Tagline
	}
	if entity.RafflePercentage == 0 {
		entity.RafflePercentage = current.RafflePercentage
	}

	updated, err := s.repo.Update(ctx, entity)
	if err != nil {
		if errors.Is(err, repository.ErrEntityNotFound) {
			return domain.Entity{}, ErrEntityNotFound
		}

		return domain.Entity{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// Delete removes the entity and its counter. Historical purchases stay in
// the ledger, orphaned.
func (s *EntityService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrEntityNotFound) {
			return ErrEntityNotFound
		}

		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
