package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
)

var errGifterRequired = errors.New("gifter name is required for gift purchases")

type PurchaseTicketsRequest struct {
	BuyerName      string  `json:"buyer_name" validate:"required"`
	RafflerName    string  `json:"raffler_name,omitempty"`
	TicketCount    int     `json:"ticket_count" validate:"required"`
	PricePerTicket float64 `json:"price_per_ticket" validate:"required"`
	IsGift         bool    `json:"is_gift,omitempty"`
	GifterName     string  `json:"gifter_name,omitempty"`
	SessionID      *uint   `json:"session_id,omitempty"`
}

func (req *PurchaseTicketsRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.BuyerName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.RafflerName, validation.Length(0, 50)),
		validation.Field(&req.TicketCount, validation.Required, validation.Min(1)),
		validation.Field(&req.PricePerTicket, validation.Required, validation.Min(0.01)),
		validation.Field(&req.GifterName, validation.Length(0, 100)),
	)
	if err != nil {
		return err
	}

	if req.IsGift && req.GifterName == "" {
		return errGifterRequired
	}

	return nil
}

type UpdatePaymentRequest struct {
	IsPaid *bool `json:"is_paid" validate:"required"`
}

func (req *UpdatePaymentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.IsPaid, validation.NotNil),
	)
}

type UpdateBuyerRequest struct {
	BuyerName string `json:"buyer_name" validate:"required"`
}

func (req *UpdateBuyerRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.BuyerName, validation.Required, validation.Length(1, 100)),
	)
}
