package domain

import "time"

// Raffle is an independent prize drawing scoped to an entity. The draw
// selects among all tickets ever sold for the entity, not just tickets
// sold against this raffle.
type Raffle struct {
	ID                  uint       `json:"id"`
	EntityID            uint       `json:"entity_id"`
	Name                string     `json:"name"`
	Description         string     `json:"description"`
	PrizeDescription    string     `json:"prize_description"`
	TicketPrice         float64    `json:"ticket_price"`
	MaxTickets          int        `json:"max_tickets"`
	SoldTickets         int        `json:"sold_tickets"`
	IsActive            bool       `json:"is_active"`
	DrawDate            *time.Time `json:"draw_date"`
	WinningTicketNumber *int       `json:"winning_ticket_number"`
	WinnerID            *uint      `json:"winner_id"` // purchase that owns the winning ticket
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// DrawResult is the outcome of drawing a raffle winner.
type DrawResult struct {
	RaffleID            uint   `json:"raffle_id"`
	WinningTicketNumber int    `json:"winning_ticket_number"`
	WinnerName          string `json:"winner_name"`
	PrizeName           string `json:"prize_name"`
}
