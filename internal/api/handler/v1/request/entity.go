package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateEntityRequest struct {
	Name             string `json:"name" validate:"required"`
	DisplayName      string `json:"display_name,omitempty"`
	Emoji            string `json:"emoji,omitempty"`
	Tagline          string `json:"tagline,omitempty"`
	RafflePercentage int    `json:"raffle_percentage,omitempty"`
}

func (req *CreateEntityRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 50)),
		validation.Field(&req.DisplayName, validation.Length(0, 50)),
		validation.Field(&req.Tagline, validation.Length(0, 200)),
		validation.Field(&req.RafflePercentage, validation.Min(0), validation.Max(100)),
	)
}

// UpdateEntityRequest carries only the fields to change; empty fields keep
// their current values.
type UpdateEntityRequest struct {
	Name             string `json:"name,omitempty"`
	DisplayName      string `json:"display_name,omitempty"`
	Emoji            string `json:"emoji,omitempty"`
	Tagline          string `json:"tagline,omitempty"`
	RafflePercentage int    `json:"raffle_percentage,omitempty"`
}

func (req *UpdateEntityRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Length(2, 50)),
		validation.Field(&req.DisplayName, validation.Length(0, 50)),
		validation.Field(&req.Tagline, validation.Length(0, 200)),
		validation.Field(&req.RafflePercentage, validation.Min(0), validation.Max(100)),
	)
}
