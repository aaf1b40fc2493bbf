package repository

import (
	"context"
	"fmt"

	"github.com/clubraffle/raffle-api/internal/domain"
	"github.com/clubraffle/raffle-api/internal/repository/dao"
)

var (
	ErrRaffleNotFound  = dao.ErrRaffleNotFound
	ErrRaffleNotActive = dao.ErrRaffleNotActive
	ErrNoTicketsInDraw = dao.ErrNoTicketsInDraw
)

type RaffleDAO interface {
	Insert(ctx context.Context, raffle dao.Raffle) (dao.Raffle, error)
	FindByID(ctx context.Context, id uint) (dao.Raffle, error)
	FindAll(ctx context.Context) ([]dao.Raffle, error)
	FindByEntityID(ctx context.Context, entityID uint) ([]dao.Raffle, error)
	Update(ctx context.Context, raffle dao.Raffle) (dao.Raffle, error)
	RecordWinner(ctx context.Context, id uint, winningTicketNumber int, winnerPurchaseID uint) error
	Delete(ctx context.Context, id uint) error
}

type RaffleRepository struct {
	dao RaffleDAO
}

func NewRaffleRepository(dao RaffleDAO) *RaffleRepository {
	return &RaffleRepository{
		dao: dao,
	}
}

func (r *RaffleRepository) Create(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error) {
	created, err := r.dao.Insert(ctx, dao.Raffle{
		EntityID:         raffle.EntityID,
		Name:             raffle.Name,
		Description:      raffle.Description,
		PrizeDescription: raffle.PrizeDescription,
		TicketPrice:      raffle.TicketPrice,
		MaxTickets:       raffle.MaxTickets,
		IsActive:         true,
		DrawDate:         raffle.DrawDate,
	})
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *RaffleRepository) FindByID(ctx context.Context, id uint) (domain.Raffle, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *RaffleRepository) FindAll(ctx context.Context) ([]domain.Raffle, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	raffles := make([]domain.Raffle, 0, len(found))
	for _, raffle := range found {
		raffles = append(raffles, r.daoToDomain(raffle))
	}

	return raffles, nil
}

func (r *RaffleRepository) FindByEntityID(ctx context.Context, entityID uint) ([]domain.Raffle, error) {
	found, err := r.dao.FindByEntityID(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEntityID -> %w", err)
	}

	raffles := make([]domain.Raffle, 0, len(found))
	for _, raffle := range found {
		raffles = append(raffles, r.daoToDomain(raffle))
	}

	return raffles, nil
}

func (r *RaffleRepository) Update(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error) {
	updated, err := r.dao.Update(ctx, dao.Raffle{
		ID:               raffle.ID,
		Name:             raffle.Name,
		Description:      raffle.Description,
		PrizeDescription: raffle.PrizeDescription,
		TicketPrice:      raffle.TicketPrice,
		MaxTickets:       raffle.MaxTickets,
		IsActive:         raffle.IsActive,
		DrawDate:         raffle.DrawDate,
	})
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *RaffleRepository) RecordWinner(ctx context.Context, id uint, winningTicketNumber int, winnerPurchaseID uint) error {
	if err := r.dao.RecordWinner(ctx, id, winningTicketNumber, winnerPurchaseID); err != nil {
		return fmt.Errorf("r.dao.RecordWinner -> %w", err)
	}

	return nil
}

func (r *RaffleRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *RaffleRepository) daoToDomain(raffle dao.Raffle) domain.Raffle {
	return domain.Raffle{
		ID:                  raffle.ID,
		EntityID:            raffle.EntityID,
		Name:                raffle.Name,
		Description:         raffle.Description,
		PrizeDescription:    raffle.PrizeDescription,
		TicketPrice:         raffle.TicketPrice,
		MaxTickets:          raffle.MaxTickets,
		SoldTickets:         raffle.SoldTickets,
		IsActive:            raffle.IsActive,
		DrawDate:            raffle.DrawDate,
		WinningTicketNumber: raffle.WinningTicketNumber,
		WinnerID:            raffle.WinnerID,
		CreatedAt:           raffle.CreatedAt,
		UpdatedAt:           raffle.UpdatedAt,
	}
}
