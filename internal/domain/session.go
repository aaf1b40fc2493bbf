package domain

import "time"

type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionClosed SessionStatus = "closed"
)

// Session is one selling shift: one user selling tickets for one entity.
// Starting a session resets the entity's ticket counter, so every session
// owns its own numbering epoch beginning at ticket 1.
type Session struct {
	ID                uint          `json:"id"`
	EntityID          uint          `json:"entity_id"`
	UserID            uint          `json:"user_id"`
	Username          string        `json:"username"` // denormalized for reporting
	StartedAt         time.Time     `json:"started_at"`
	EndedAt           *time.Time    `json:"ended_at"`
	StartTicketNumber int           `json:"start_ticket_number"`
	EndTicketNumber   *int          `json:"end_ticket_number"`
	TicketsSold       int           `json:"tickets_sold"`
	TotalRevenue      float64       `json:"total_revenue"`
	Status            SessionStatus `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// SessionFilter narrows session queries for an entity.
type SessionFilter struct {
	EntityID  uint
	StartDate *time.Time
	EndDate   *time.Time
	Status    string // "active", "closed" or "all"
}

// SessionSummary is a closed-or-open session together with its purchases
// and the paid/unpaid split, used for reporting and export.
type SessionSummary struct {
	Session       Session          `json:"session"`
	EntityName    string           `json:"entity_name"`
	Purchases     []TicketPurchase `json:"purchases"`
	TicketsSold   int              `json:"tickets_sold"`
	TotalRevenue  float64          `json:"total_revenue"`
	PaidAmount    float64          `json:"paid_amount"`
	UnpaidAmount  float64          `json:"unpaid_amount"`
	PurchaseCount int              `json:"purchase_count"`
}
