package dao

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionActive    = errors.New("an active session already exists for this entity")
	ErrSessionNotActive = errors.New("session is not active")
)

type Session struct {
	ID uint `gorm:"primaryKey"`

	EntityID uint   `gorm:"not null;index"`
	UserID   uint   `gorm:"not null;index"`
	Username string `gorm:"not null"`

	StartedAt         time.Time  `gorm:"not null"`
	EndedAt           *time.Time ``
	StartTicketNumber int        `gorm:"not null"`
	EndTicketNumber   *int       ``
	TicketsSold       int        `gorm:"not null;default:0"`
	TotalRevenue      float64    `gorm:"not null;default:0"`
	Status            string     `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type sessionTotals struct {
	Tickets int64
	Revenue float64
	MaxEnd  sql.NullInt64
}

func sessionTotalsQuery(tx *gorm.DB, sessionID uint) (sessionTotals, error) {
	var totals sessionTotals
	err := tx.Model(&TicketPurchase{}).
		Select("COALESCE(SUM(ticket_count), 0) AS tickets, COALESCE(SUM(total_price), 0) AS revenue, MAX(end_ticket_number) AS max_end").
		Where("session_id = ?", sessionID).
		Scan(&totals).Error

	return totals, err
}

type SessionDAO struct {
	db *gorm.DB
}

func NewSessionDAO(db *gorm.DB) *SessionDAO {
	return &SessionDAO{
		db: db,
	}
}

// Start creates an active session for the entity and resets its ticket
// counter, all in one transaction. The counter row is locked first so that
// two concurrent starts for the same entity serialize; the loser then fails
// the at-most-one-active check with ErrSessionActive.
func (d *SessionDAO) Start(ctx context.Context, session Session) (Session, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var counter TicketCounter
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&counter, "entity_id = ?", session.EntityID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEntityNotFound
			}

			return err
		}

		var active int64
		err = tx.Model(&Session{}).
			Where("entity_id = ? AND status = ?", session.EntityID, "active").
			Count(&active).Error
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrSessionActive
		}

		err = tx.Model(&TicketCounter{}).
			Where("entity_id = ?", session.EntityID).
			Update("last_ticket_number", 0).Error
		if err != nil {
			return err
		}

		return tx.Create(&session).Error
	})
	if err != nil {
		return Session{}, err
	}

	return session, nil
}

// Close finalizes the session. Totals are re-derived from the purchases
// that reference the session, not trusted from the incrementally updated
// columns. A session with no purchases ends at startTicketNumber-1.
func (d *SessionDAO) Close(ctx context.Context, id uint) (Session, error) {
	var session Session

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&session, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}

			return err
		}
		if session.Status != "active" {
			return ErrSessionNotActive
		}

		totals, err := sessionTotalsQuery(tx, id)
		if err != nil {
			return err
		}

		endTicket := session.StartTicketNumber - 1
		if totals.MaxEnd.Valid {
			endTicket = int(totals.MaxEnd.Int64)
		}
		now := time.Now()

		session.Status = "closed"
		session.EndedAt = &now
		session.TicketsSold = int(totals.Tickets)
		session.TotalRevenue = totals.Revenue
		session.EndTicketNumber = &endTicket

		return tx.Model(&Session{}).Where("id = ?", id).Updates(map[string]any{
			"status":            session.Status,
			"ended_at":          session.EndedAt,
			"tickets_sold":      session.TicketsSold,
			"total_revenue":     session.TotalRevenue,
			"end_ticket_number": session.EndTicketNumber,
		}).Error
	})
	if err != nil {
		return Session{}, err
	}

	return session, nil
}

// RefreshStats recomputes the session's running totals from its purchases.
// Recomputing instead of incrementing keeps the columns correct even if an
// earlier refresh was missed.
func (d *SessionDAO) RefreshStats(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session Session
		err := tx.First(&session, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}

			return err
		}

		totals, err := sessionTotalsQuery(tx, id)
		if err != nil {
			return err
		}

		endTicket := session.StartTicketNumber - 1
		if totals.MaxEnd.Valid {
			endTicket = int(totals.MaxEnd.Int64)
		}

		return tx.Model(&Session{}).Where("id = ?", id).Updates(map[string]any{
			"tickets_sold":      int(totals.Tickets),
			"total_revenue":     totals.Revenue,
			"end_ticket_number": endTicket,
		}).Error
	})
}

func (d *SessionDAO) FindByID(ctx context.Context, id uint) (Session, error) {
	var session Session

	result := d.db.WithContext(ctx).First(&session, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Session{}, ErrSessionNotFound
		}

		return Session{}, result.Error
	}

	return session, nil
}

// FindActiveByEntityID returns the entity's active session, or
// ErrSessionNotFound when the entity has none.
func (d *SessionDAO) FindActiveByEntityID(ctx context.Context, entityID uint) (Session, error) {
	var session Session

	result := d.db.WithContext(ctx).
		Where("entity_id = ? AND status = ?", entityID, "active").
		Order("created_at DESC").
		First(&session)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Session{}, ErrSessionNotFound
		}

		return Session{}, result.Error
	}

	return session, nil
}

func (d *SessionDAO) FindActiveByUserID(ctx context.Context, userID uint) ([]Session, error) {
	var sessions []Session

	result := d.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, "active").
		Find(&sessions)
	if result.Error != nil {
		return nil, result.Error
	}

	return sessions, nil
}

// FindByFilter lists an entity's sessions, optionally constrained by date
// range and status, newest first.
func (d *SessionDAO) FindByFilter(ctx context.Context, entityID uint, startDate, endDate *time.Time, status string) ([]Session, error) {
	query := d.db.WithContext(ctx).Where("entity_id = ?", entityID)

	if startDate != nil {
		query = query.Where("started_at >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("ended_at <= ? OR ended_at IS NULL", *endDate)
	}
	if status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}

	var sessions []Session
	result := query.Order("created_at DESC").Find(&sessions)
	if result.Error != nil {
		return nil, result.Error
	}

	return sessions, nil
}
