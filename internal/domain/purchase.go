package domain

import "time"

// RaffleTicket is a single numbered ticket inside a purchase's range.
type RaffleTicket struct {
	ID           uint      `json:"id"`
	TicketNumber int       `json:"ticket_number"`
	PurchaseID   uint      `json:"purchase_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// TicketPurchase is one transaction selling a contiguous block of ticket
// numbers to one buyer. The ticket range is claimed from the entity's
// counter when the purchase is created and is never reused, even if the
// purchase is later deleted.
type TicketPurchase struct {
	ID                uint           `json:"id"`
	EntityID          uint           `json:"entity_id"`
	SessionID         *uint          `json:"session_id"` // nil for purchases made outside a session
	BuyerName         string         `json:"buyer_name"`
	RafflerName       string         `json:"raffler_name"`
	TicketCount       int            `json:"ticket_count"`
	PricePerTicket    float64        `json:"price_per_ticket"`
	TotalPrice        float64        `json:"total_price"`
	StartTicketNumber int            `json:"start_ticket_number"`
	EndTicketNumber   int            `json:"end_ticket_number"`
	Tickets           []RaffleTicket `json:"tickets"`
	IsGift            bool           `json:"is_gift"`
	GifterName        string         `json:"gifter_name,omitempty"`
	IsPaid            bool           `json:"is_paid"`
	CreatedAt         time.Time      `json:"created_at"`
}

// TicketStats are the aggregated totals for a session or an entity.
type TicketStats struct {
	TicketsSold  int     `json:"tickets_sold"`
	TotalRevenue float64 `json:"total_revenue"`
	PrizeAmount  int     `json:"prize_amount"`
}
