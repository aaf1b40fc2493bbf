package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/clubraffle/raffle-api/internal/domain"
	"github.com/clubraffle/raffle-api/internal/repository"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id uint) error
	AssignEntity(ctx context.Context, userID, entityID uint) error
	UnassignEntity(ctx context.Context, userID, entityID uint) error
	AssignedEntityIDs(ctx context.Context, userID uint) ([]uint, error)
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) Get(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) GetAll(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return users, nil
}

// Delete removes a user. The caller must outrank the target.
func (s *UserService) Delete(ctx context.Context, id uint, policy domain.Policy) error {
	target, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if !policy.Role.CanManage(target.Role) {
		return ErrRoleNotAllowed
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *UserService) AssignEntity(ctx context.Context, userID, entityID uint) error {
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}

	if err := s.repo.AssignEntity(ctx, userID, entityID); err != nil {
		return fmt.Errorf("s.repo.AssignEntity -> %w", err)
	}

	return nil
}

func (s *UserService) UnassignEntity(ctx context.Context, userID, entityID uint) error {
	if err := s.repo.UnassignEntity(ctx, userID, entityID); err != nil {
		return fmt.Errorf("s.repo.UnassignEntity -> %w", err)
	}

	return nil
}

// PolicyFor resolves the caller's capability set: role plus assigned
// entities. Built once per request by the handler layer and passed into
// core operations.
func (s *UserService) PolicyFor(ctx context.Context, userID uint) (domain.Policy, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return domain.Policy{}, err
	}

	entityIDs, err := s.repo.AssignedEntityIDs(ctx, userID)
	if err != nil {
		return domain.Policy{}, fmt.Errorf("s.repo.AssignedEntityIDs -> %w", err)
	}

	return domain.Policy{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		EntityIDs: entityIDs,
	}, nil
}
