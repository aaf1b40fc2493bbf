package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrPurchaseNotFound = errors.New("purchase not found")

type TicketPurchase struct {
	ID uint `gorm:"primaryKey"`

	EntityID  uint  `gorm:"not null;index"`
	SessionID *uint `gorm:"index"`

	BuyerName      string  `gorm:"not null"`
	RafflerName    string  `gorm:"not null"`
	TicketCount    int     `gorm:"not null"`
	PricePerTicket float64 `gorm:"not null"`
	TotalPrice     float64 `gorm:"not null"`

	StartTicketNumber int `gorm:"not null"`
	EndTicketNumber   int `gorm:"not null"`

	Tickets []RaffleTicket `gorm:"foreignKey:PurchaseID"`

	IsGift     bool   `gorm:"not null;default:false"`
	GifterName string ``
	IsPaid     bool   `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type RaffleTicket struct {
	ID uint `gorm:"primaryKey"`

	TicketNumber int  `gorm:"not null"`
	PurchaseID   uint `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"not null"`
}

type PurchaseDAO struct {
	db *gorm.DB
}

func NewPurchaseDAO(db *gorm.DB) *PurchaseDAO {
	return &PurchaseDAO{
		db: db,
	}
}

// Insert claims a contiguous ticket range from the entity's counter and
// persists the purchase with one RaffleTicket row per number, all in one
// transaction. The claim is a single UPDATE .. RETURNING, so concurrent
// purchases for the same entity can never be handed overlapping ranges.
func (d *PurchaseDAO) Insert(ctx context.Context, purchase TicketPurchase) (TicketPurchase, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int64
		result := tx.Raw(
			`UPDATE ticket_counters
			 SET last_ticket_number = last_ticket_number + ?
			 WHERE entity_id = ?
			 RETURNING last_ticket_number`,
			purchase.TicketCount, purchase.EntityID,
		).Scan(&last)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCounterNotFound
		}

		purchase.EndTicketNumber = int(last)
		purchase.StartTicketNumber = int(last) - purchase.TicketCount + 1

		if err := tx.Omit("Tickets").Create(&purchase).Error; err != nil {
			return err
		}

		tickets := make([]RaffleTicket, 0, purchase.TicketCount)
		for number := purchase.StartTicketNumber; number <= purchase.EndTicketNumber; number++ {
			tickets = append(tickets, RaffleTicket{
				TicketNumber: number,
				PurchaseID:   purchase.ID,
			})
		}
		if err := tx.Create(&tickets).Error; err != nil {
			return err
		}
		purchase.Tickets = tickets

		return nil
	})
	if err != nil {
		return TicketPurchase{}, err
	}

	return purchase, nil
}

func (d *PurchaseDAO) FindByID(ctx context.Context, id uint) (TicketPurchase, error) {
	var purchase TicketPurchase

	result := d.db.WithContext(ctx).Preload("Tickets").First(&purchase, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return TicketPurchase{}, ErrPurchaseNotFound
		}

		return TicketPurchase{}, result.Error
	}

	return purchase, nil
}

func (d *PurchaseDAO) FindAll(ctx context.Context) ([]TicketPurchase, error) {
	var purchases []TicketPurchase

	result := d.db.WithContext(ctx).Preload("Tickets").Order("created_at DESC").Find(&purchases)
	if result.Error != nil {
		return nil, result.Error
	}

	return purchases, nil
}

func (d *PurchaseDAO) FindByEntityID(ctx context.Context, entityID uint) ([]TicketPurchase, error) {
	var purchases []TicketPurchase

	result := d.db.WithContext(ctx).
		Preload("Tickets").
		Where("entity_id = ?", entityID).
		Order("created_at DESC").
		Find(&purchases)
	if result.Error != nil {
		return nil, result.Error
	}

	return purchases, nil
}

func (d *PurchaseDAO) FindBySessionID(ctx context.Context, sessionID uint) ([]TicketPurchase, error) {
	var purchases []TicketPurchase

	result := d.db.WithContext(ctx).
		Preload("Tickets").
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&purchases)
	if result.Error != nil {
		return nil, result.Error
	}

	return purchases, nil
}

func (d *PurchaseDAO) FindByEntityAndDateRange(ctx context.Context, entityID uint, startDate, endDate *time.Time) ([]TicketPurchase, error) {
	query := d.db.WithContext(ctx).Preload("Tickets").Where("entity_id = ?", entityID)

	if startDate != nil {
		query = query.Where("created_at >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("created_at <= ?", *endDate)
	}

	var purchases []TicketPurchase
	result := query.Order("created_at DESC").Find(&purchases)
	if result.Error != nil {
		return nil, result.Error
	}

	return purchases, nil
}

// FindTicketsByEntityID returns every ticket ever sold for the entity,
// across all its purchases. This is the pool the raffle draw selects from.
func (d *PurchaseDAO) FindTicketsByEntityID(ctx context.Context, entityID uint) ([]RaffleTicket, error) {
	var tickets []RaffleTicket

	result := d.db.WithContext(ctx).
		Joins("JOIN ticket_purchases ON ticket_purchases.id = raffle_tickets.purchase_id").
		Where("ticket_purchases.entity_id = ?", entityID).
		Order("raffle_tickets.ticket_number").
		Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

func (d *PurchaseDAO) UpdatePaymentStatus(ctx context.Context, id uint, isPaid bool) (TicketPurchase, error) {
	result := d.db.WithContext(ctx).
		Model(&TicketPurchase{}).
		Where("id = ?", id).
		Update("is_paid", isPaid)
	if result.Error != nil {
		return TicketPurchase{}, result.Error
	}
	if result.RowsAffected == 0 {
		return TicketPurchase{}, ErrPurchaseNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *PurchaseDAO) UpdateBuyerName(ctx context.Context, id uint, buyerName string) (TicketPurchase, error) {
	result := d.db.WithContext(ctx).
		Model(&TicketPurchase{}).
		Where("id = ?", id).
		Update("buyer_name", buyerName)
	if result.Error != nil {
		return TicketPurchase{}, result.Error
	}
	if result.RowsAffected == 0 {
		return TicketPurchase{}, ErrPurchaseNotFound
	}

	return d.FindByID(ctx, id)
}

// Delete removes the purchase and its tickets. The entity's counter is left
// untouched: ticket numbers are an append-only log and are never reused.
func (d *PurchaseDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_id = ?", id).Delete(&RaffleTicket{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&TicketPurchase{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPurchaseNotFound
		}

		return nil
	})
}
