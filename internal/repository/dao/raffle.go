package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrRaffleNotFound  = errors.New("raffle not found")
	ErrRaffleNotActive = errors.New("raffle is not active")
	ErrNoTicketsInDraw = errors.New("no tickets sold for this entity")
)

type Raffle struct {
	ID uint `gorm:"primaryKey"`

	EntityID uint `gorm:"not null;index"`

	Name             string  `gorm:"not null"`
	Description      string  ``
	PrizeDescription string  `gorm:"not null"`
	TicketPrice      float64 `gorm:"not null"`
	MaxTickets       int     `gorm:"not null;default:1000"`
	SoldTickets      int     `gorm:"not null;default:0"`
	IsActive         bool    `gorm:"not null;default:true"`

	DrawDate            *time.Time ``
	WinningTicketNumber *int       ``
	WinnerID            *uint      ``

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type RaffleDAO struct {
	db *gorm.DB
}

func NewRaffleDAO(db *gorm.DB) *RaffleDAO {
	return &RaffleDAO{
		db: db,
	}
}

func (d *RaffleDAO) Insert(ctx context.Context, raffle Raffle) (Raffle, error) {
	result := d.db.WithContext(ctx).Create(&raffle)
	if result.Error != nil {
		return Raffle{}, result.Error
	}

	return raffle, nil
}

func (d *RaffleDAO) FindByID(ctx context.Context, id uint) (Raffle, error) {
	var raffle Raffle

	result := d.db.WithContext(ctx).First(&raffle, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Raffle{}, ErrRaffleNotFound
		}

		return Raffle{}, result.Error
	}

	return raffle, nil
}

func (d *RaffleDAO) FindAll(ctx context.Context) ([]Raffle, error) {
	var raffles []Raffle

	result := d.db.WithContext(ctx).Order("created_at DESC").Find(&raffles)
	if result.Error != nil {
		return nil, result.Error
	}

	return raffles, nil
}

func (d *RaffleDAO) FindByEntityID(ctx context.Context, entityID uint) ([]Raffle, error) {
	var raffles []Raffle

	result := d.db.WithContext(ctx).
		Where("entity_id = ?", entityID).
		Order("created_at DESC").
		Find(&raffles)
	if result.Error != nil {
		return nil, result.Error
	}

	return raffles, nil
}

func (d *RaffleDAO) Update(ctx context.Context, raffle Raffle) (Raffle, error) {
	result := d.db.WithContext(ctx).Model(&Raffle{}).Where("id = ?", raffle.ID).Updates(map[string]any{
		"name":              raffle.Name,
		"description":       raffle.Description,
		"prize_description": raffle.PrizeDescription,
		"ticket_price":      raffle.TicketPrice,
		"max_tickets":       raffle.MaxTickets,
		"is_active":         raffle.IsActive,
		"draw_date":         raffle.DrawDate,
	})
	if result.Error != nil {
		return Raffle{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Raffle{}, ErrRaffleNotFound
	}

	return d.FindByID(ctx, raffle.ID)
}

// RecordWinner marks the raffle drawn: inactive, with the winning ticket
// number and the owning purchase recorded. Single-shot per raffle.
func (d *RaffleDAO) RecordWinner(ctx context.Context, id uint, winningTicketNumber int, winnerPurchaseID uint) error {
	result := d.db.WithContext(ctx).Model(&Raffle{}).Where("id = ? AND is_active", id).Updates(map[string]any{
		"is_active":             false,
		"winning_ticket_number": winningTicketNumber,
		"winner_id":             winnerPurchaseID,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRaffleNotActive
	}

	return nil
}

func (d *RaffleDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Raffle{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRaffleNotFound
	}

	return nil
}
