package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrEntityNotFound  = errors.New("entity not found")
	ErrEntityExists    = errors.New("entity already exists")
	ErrCounterNotFound = errors.New("ticket counter not found")
)

type Entity struct {
	ID uint `gorm:"primaryKey"`

	Name             string `gorm:"unique;not null"`
	DisplayName      string `gorm:"not null"`
	Emoji            string `gorm:"not null"`
	Tagline          string `gorm:"not null"`
	RafflePercentage int    `gorm:"not null;default:70"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TicketCounter holds the last ticket number issued for an entity. One row
// per entity, provisioned in the same transaction that creates the entity.
type TicketCounter struct {
	EntityID         uint `gorm:"primaryKey"`
	LastTicketNumber int  `gorm:"not null;default:0"`
}

type EntityDAO struct {
	db *gorm.DB
}

func NewEntityDAO(db *gorm.DB) *EntityDAO {
	return &EntityDAO{
		db: db,
	}
}

// Insert creates the entity and its ticket counter atomically, so every
// entity always has a counter row.
func (d *EntityDAO) Insert(ctx context.Context, entity Entity) (Entity, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entity).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) &&
				pgErr.Code == pgerrcode.UniqueViolation &&
				strings.Contains(pgErr.Message, "uni_entities_name") {
				return ErrEntityExists
			}

			return err
		}

		return tx.Create(&TicketCounter{EntityID: entity.ID}).Error
	})
	if err != nil {
		return Entity{}, err
	}

	return entity, nil
}

func (d *EntityDAO) FindAll(ctx context.Context) ([]Entity, error) {
	var entities []Entity

	result := d.db.WithContext(ctx).Order("created_at DESC").Find(&entities)
	if result.Error != nil {
		return nil, result.Error
	}

	return entities, nil
}

func (d *EntityDAO) FindByID(ctx context.Context, id uint) (Entity, error) {
	var entity Entity

	result := d.db.WithContext(ctx).First(&entity, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Entity{}, ErrEntityNotFound
		}

		return Entity{}, result.Error
	}

	return entity, nil
}

func (d *EntityDAO) Update(ctx context.Context, entity Entity) (Entity, error) {
	result := d.db.WithContext(ctx).Model(&Entity{}).Where("id = ?", entity.ID).Updates(map[string]any{
		"name":              entity.Name,
		"display_name":      entity.DisplayName,
		"emoji":             entity.Emoji,
		"tagline":           entity.Tagline,
		"raffle_percentage": entity.RafflePercentage,
	})
	if result.Error != nil {
		return Entity{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Entity{}, ErrEntityNotFound
	}

	return d.FindByID(ctx, entity.ID)
}

// Delete removes the entity and its counter. Historical purchases are left
// in place, orphaned.
func (d *EntityDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&Entity{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrEntityNotFound
		}

		return tx.Where("entity_id = ?", id).Delete(&TicketCounter{}).Error
	})
}

// CounterValue returns the last ticket number issued for the entity.
func (d *EntityDAO) CounterValue(ctx context.Context, entityID uint) (int, error) {
	var counter TicketCounter

	result := d.db.WithContext(ctx).First(&counter, "entity_id = ?", entityID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return 0, ErrCounterNotFound
		}

		return 0, result.Error
	}

	return counter.LastTicketNumber, nil
}

// ResetCounter sets the entity's counter back to zero. Used on session
// start and by explicit administrative reset.
func (d *EntityDAO) ResetCounter(ctx context.Context, entityID uint) error {
	result := d.db.WithContext(ctx).
		Model(&TicketCounter{}).
		Where("entity_id = ?", entityID).
		Update("last_ticket_number", 0)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCounterNotFound
	}

	return nil
}
