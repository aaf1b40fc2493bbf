package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/clubraffle/raffle-api/internal/domain"
	"github.com/clubraffle/raffle-api/internal/repository"
)

var (
	ErrRaffleNotFound  = repository.ErrRaffleNotFound
	ErrRaffleNotActive = repository.ErrRaffleNotActive
	ErrNoTicketsInDraw = repository.ErrNoTicketsInDraw
)

type RaffleRepository interface {
	Create(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error)
	FindByID(ctx context.Context, id uint) (domain.Raffle, error)
	FindAll(ctx context.Context) ([]domain.Raffle, error)
	FindByEntityID(ctx context.Context, entityID uint) ([]domain.Raffle, error)
	Update(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error)
	RecordWinner(ctx context.Context, id uint, winningTicketNumber int, winnerPurchaseID uint) error
	Delete(ctx context.Context, id uint) error
}

type RafflePurchaseRepository interface {
	FindByID(ctx context.Context, id uint) (domain.TicketPurchase, error)
	FindTicketsByEntityID(ctx context.Context, entityID uint) ([]domain.RaffleTicket, error)
}

type RaffleEntityRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Entity, error)
}

// RaffleService manages prize drawings. A draw selects uniformly among all
// tickets ever sold for the raffle's entity, marks the raffle inactive and
// records the winner; it cannot be repeated.
type RaffleService struct {
	repo         RaffleRepository
	purchaseRepo RafflePurchaseRepository
	entityRepo   RaffleEntityRepository
	rng          *rand.Rand
}

func NewRaffleService(repo RaffleRepository, purchaseRepo RafflePurchaseRepository, entityRepo RaffleEntityRepository) *RaffleService {
	return &RaffleService{
		repo:         repo,
		purchaseRepo: purchaseRepo,
		entityRepo:   entityRepo,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *RaffleService) Create(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error) {
	if _, err := s.entityRepo.FindByID(ctx, raffle.EntityID); err != nil {
		if errors.Is(err, repository.ErrEntityNotFound) {
			return domain.Raffle{}, ErrEntityNotFound
		}

		return domain.Raffle{}, fmt.Errorf("s.entityRepo.FindByID -> %w", err)
	}

	if raffle.MaxTickets == 0 {
		raffle.MaxTickets = 1000
	}

	created, err := s.repo.Create(ctx, raffle)
	if err != nil {
		return domain.Raffle{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *RaffleService) Get(ctx context.Context, id uint) (domain.Raffle, error) {
	raffle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRaffleNotFound) {
			return domain.Raffle{}, ErrRaffleNotFound
		}

		return domain.Raffle{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return raffle, nil
}

func (s *RaffleService) GetAll(ctx context.Context) ([]domain.Raffle, error) {
	raffles, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return raffles, nil
}

func (s *RaffleService) GetByEntity(ctx context.Context, entityID uint) ([]domain.Raffle, error) {
	raffles, err := s.repo.FindByEntityID(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEntityID -> %w", err)
	}

	return raffles, nil
}

func (s *RaffleService) Update(ctx context.Context, raffle domain.Raffle) (domain.Raffle, error) {
	updated, err := s.repo.Update(ctx, raffle)
	if err != nil {
		if errors.Is(err, repository.ErrRaffleNotFound) {
			return domain.Raffle{}, ErrRaffleNotFound
		}

		return domain.Raffle{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *RaffleService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRaffleNotFound) {
			return ErrRaffleNotFound
		}

		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// DrawWinner picks a uniformly random ticket from the entity-wide pool.
// Fails without touching the raffle when it is missing, already drawn, or
// the entity has sold no tickets.
func (s *RaffleService) DrawWinner(ctx context.Context, raffleID uint) (domain.DrawResult, error) {
	raffle, err := s.Get(ctx, raffleID)
	if err != nil {
		return domain.DrawResult{}, err
	}
	if !raffle.IsActive {
		return domain.DrawResult{}, ErrRaffleNotActive
	}

	tickets, err := s.purchaseRepo.FindTicketsByEntityID(ctx, raffle.EntityID)
	if err != nil {
		return domain.DrawResult{}, fmt.Errorf("s.purchaseRepo.FindTicketsByEntityID -> %w", err)
	}
	if len(tickets) == 0 {
		return domain.DrawResult{}, ErrNoTicketsInDraw
	}

	winning := tickets[s.rng.Intn(len(tickets))]

	purchase, err := s.purchaseRepo.FindByID(ctx, winning.PurchaseID)
	if err != nil {
		return domain.DrawResult{}, fmt.Errorf("s.purchaseRepo.FindByID -> %w", err)
	}

	if err := s.repo.RecordWinner(ctx, raffleID, winning.TicketNumber, purchase.ID); err != nil {
		return domain.DrawResult{}, fmt.Errorf("s.repo.RecordWinner -> %w", err)
	}

	return domain.DrawResult{
		RaffleID:            raffleID,
		WinningTicketNumber: winning.TicketNumber,
		WinnerName:          purchase.BuyerName,
		PrizeName:           raffle.PrizeDescription,
	}, nil
}
