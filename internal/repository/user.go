package repository

import (
	"context"
	"fmt"

	"github.com/clubraffle/raffle-api/internal/domain"
	"github.com/clubraffle/raffle-api/internal/repository/dao"
)

var (
	ErrUsernameExists = dao.ErrUsernameExists
	ErrUserNotFound   = dao.ErrUserNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByUsername(ctx context.Context, username string) (dao.User, error)
	FindAll(ctx context.Context) ([]dao.User, error)
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	Delete(ctx context.Context, id uint) error
	AssignEntity(ctx context.Context, userID, entityID uint) error
	UnassignEntity(ctx context.Context, userID, entityID uint) error
	AssignedEntityIDs(ctx context.Context, userID uint) ([]uint, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, dao.User{
		Username:    user.Username,
		Password:    user.Password,
		RafflerName: user.RafflerName,
		Role:        string(user.Role),
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	found, err := r.dao.FindByUsername(ctx, username)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByUsername -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	users := make([]domain.User, 0, len(found))
	for _, u := range found {
		users = append(users, r.daoToDomain(u))
	}

	return users, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	if err := r.dao.UpdatePassword(ctx, id, passwordHash); err != nil {
		return fmt.Errorf("r.dao.UpdatePassword -> %w", err)
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *UserRepository) AssignEntity(ctx context.Context, userID, entityID uint) error {
	if err := r.dao.AssignEntity(ctx, userID, entityID); err != nil {
		return fmt.Errorf("r.dao.AssignEntity -> %w", err)
	}

	return nil
}

func (r *UserRepository) UnassignEntity(ctx context.Context, userID, entityID uint) error {
	if err := r.dao.UnassignEntity(ctx, userID, entityID); err != nil {
		return fmt.Errorf("r.dao.UnassignEntity -> %w", err)
	}

	return nil
}

func (r *UserRepository) AssignedEntityIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids, err := r.dao.AssignedEntityIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.AssignedEntityIDs -> %w", err)
	}

	return ids, nil
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:          u.ID,
		Username:    u.Username,
		RafflerName: u.RafflerName,
		Role:        domain.Role(u.Role),
		Password:    u.Password,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
