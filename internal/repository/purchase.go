package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/clubraffle/raffle-api/internal/domain"
	"github.com/clubraffle/raffle-api/internal/repository/dao"
)

var ErrPurchaseNotFound = dao.ErrPurchaseNotFound

type PurchaseDAO interface {
	Insert(ctx context.Context, purchase dao.TicketPurchase) (dao.TicketPurchase, error)
	FindByID(ctx context.Context, id uint) (dao.TicketPurchase, error)
	FindAll(ctx context.Context) ([]dao.TicketPurchase, error)
	FindByEntityID(ctx context.Context, entityID uint) ([]dao.TicketPurchase, error)
	FindBySessionID(ctx context.Context, sessionID uint) ([]dao.TicketPurchase, error)
	FindByEntityAndDateRange(ctx context.Context, entityID uint, startDate, endDate *time.Time) ([]dao.TicketPurchase, error)
	FindTicketsByEntityID(ctx context.Context, entityID uint) ([]dao.RaffleTicket, error)
	UpdatePaymentStatus(ctx context.Context, id uint, isPaid bool) (dao.TicketPurchase, error)
	UpdateBuyerName(ctx context.Context, id uint, buyerName string) (dao.TicketPurchase, error)
	Delete(ctx context.Context, id uint) error
}

type PurchaseRepository struct {
	dao PurchaseDAO
}

func NewPurchaseRepository(dao PurchaseDAO) *PurchaseRepository {
	return &PurchaseRepository{
		dao: dao,
	}
}

// Create persists the purchase. The ticket range is claimed atomically by
// the DAO; the returned purchase carries the assigned numbers and tickets.
func (r *PurchaseRepository) Create(ctx context.Context, purchase domain.TicketPurchase) (domain.TicketPurchase, error) {
	created, err := r.dao.Insert(ctx, dao.TicketPurchase{
		EntityID:       purchase.EntityID,
		SessionID:      purchase.SessionID,
		BuyerName:      purchase.BuyerName,
		RafflerName:    purchase.RafflerName,
		TicketCount:    purchase.TicketCount,
		PricePerTicket: purchase.PricePerTicket,
		TotalPrice:     purchase.TotalPrice,
		IsGift:         purchase.IsGift,
		GifterName:     purchase.GifterName,
	})
	if err != nil {
		return domain.TicketPurchase{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *PurchaseRepository) FindByID(ctx context.Context, id uint) (domain.TicketPurchase, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.TicketPurchase{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PurchaseRepository) FindAll(ctx context.Context) ([]domain.TicketPurchase, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *PurchaseRepository) FindByEntityID(ctx context.Context, entityID uint) ([]domain.TicketPurchase, error) {
	found, err := r.dao.FindByEntityID(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEntityID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *PurchaseRepository) FindBySessionID(ctx context.Context, sessionID uint) ([]domain.TicketPurchase, error) {
	found, err := r.dao.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindBySessionID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *PurchaseRepository) FindByEntityAndDateRange(ctx context.Context, entityID uint, startDate, endDate *time.Time) ([]domain.TicketPurchase, error) {
	found, err := r.dao.FindByEntityAndDateRange(ctx, entityID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEntityAndDateRange -> %w", err)
	}

	return r.daosToDomain(found), nil
}

// FindTicketsByEntityID returns all tickets ever sold for the entity, the
// pool the raffle draw selects from.
func (r *PurchaseRepository) FindTicketsByEntityID(ctx context.Context, entityID uint) ([]domain.RaffleTicket, error) {
	found, err := r.dao.FindTicketsByEntityID(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindTicketsByEntityID -> %w", err)
	}

	tickets := make([]domain.RaffleTicket, 0, len(found))
	for _, t := range found {
		tickets = append(tickets, r.ticketDaoToDomain(t))
	}

	return tickets, nil
}

func (r *PurchaseRepository) UpdatePaymentStatus(ctx context.Context, id uint, isPaid bool) (domain.TicketPurchase, error) {
	updated, err := r.dao.UpdatePaymentStatus(ctx, id, isPaid)
	if err != nil {
		return domain.TicketPurchase{}, fmt.Errorf("r.dao.UpdatePaymentStatus -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *PurchaseRepository) UpdateBuyerName(ctx context.Context, id uint, buyerName string) (domain.TicketPurchase, error) {
	updated, err := r.dao.UpdateBuyerName(ctx, id, buyerName)
	if err != nil {
		return domain.TicketPurchase{}, fmt.Errorf("r.dao.UpdateBuyerName -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *PurchaseRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *PurchaseRepository) daoToDomain(p dao.TicketPurchase) domain.TicketPurchase {
	tickets := make([]domain.RaffleTicket, 0, len(p.Tickets))
	for _, t := range p.Tickets {
		tickets = append(tickets, r.ticketDaoToDomain(t))
	}

	return domain.TicketPurchase{
		ID:                p.ID,
		EntityID:          p.EntityID,
		SessionID:         p.SessionID,
		BuyerName:         p.BuyerName,
		RafflerName:       p.RafflerName,
		TicketCount:       p.TicketCount,
		PricePerTicket:    p.PricePerTicket,
		TotalPrice:        p.TotalPrice,
		StartTicketNumber: p.StartTicketNumber,
		EndTicketNumber:   p.EndTicketNumber,
		Tickets:           tickets,
		IsGift:            p.IsGift,
		GifterName:        p.GifterName,
		IsPaid:            p.IsPaid,
		CreatedAt:         p.CreatedAt,
	}
}

func (r *PurchaseRepository) daosToDomain(found []dao.TicketPurchase) []domain.TicketPurchase {
	purchases := make([]domain.TicketPurchase, 0, len(found))
	for _, p := range found {
		purchases = append(purchases, r.daoToDomain(p))
	}

	return purchases
}

func (r *PurchaseRepository) ticketDaoToDomain(t dao.RaffleTicket) domain.RaffleTicket {
	return domain.RaffleTicket{
		ID:           t.ID,
		TicketNumber: t.TicketNumber,
		PurchaseID:   t.PurchaseID,
		CreatedAt:    t.CreatedAt,
	}
}
