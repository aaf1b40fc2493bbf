package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateRaffleRequest struct {
	EntityID         uint    `json:"entity_id" validate:"required"`
	Name             string  `json:"name" validate:"required"`
	Description      string  `json:"description,omitempty"`
	PrizeDescription string  `json:"prize_description,omitempty"`
	TicketPrice      float64 `json:"ticket_price,omitempty"`
	MaxTickets       int     `json:"max_tickets,omitempty"`
	DrawDate         string  `json:"draw_date,omitempty" format:"YYYY-MM-DD"`
}

func (req *CreateRaffleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EntityID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.PrizeDescription, validation.Length(0, 500)),
		validation.Field(&req.TicketPrice, validation.Min(0.0)),
		validation.Field(&req.MaxTickets, validation.Min(0)),
		validation.Field(&req.DrawDate, validation.Date("2006-01-02")),
	)
}

type UpdateRaffleRequest struct {
	Name             string  `json:"name,omitempty"`
	Description      string  `json:"description,omitempty"`
	PrizeDescription string  `json:"prize_description,omitempty"`
	TicketPrice      float64 `json:"ticket_price,omitempty"`
	MaxTickets       int     `json:"max_tickets,omitempty"`
	IsActive         *bool   `json:"is_active,omitempty"`
	DrawDate         string  `json:"draw_date,omitempty" format:"YYYY-MM-DD"`
}

func (req *UpdateRaffleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.PrizeDescription, validation.Length(0, 500)),
		validation.Field(&req.TicketPrice, validation.Min(0.0)),
		validation.Field(&req.MaxTickets, validation.Min(0)),
		validation.Field(&req.DrawDate, validation.Date("2006-01-02")),
	)
}
