package domain

import "time"

const (
	DefaultEmoji            = "🎲"
	DefaultTagline          = "Thanks for your Purchase.. and good luck~"
	DefaultRafflePercentage = 70
)

// Entity is a club selling raffle tickets under its own branding.
type Entity struct {
	ID               uint      `json:"id"`
	Name             string    `json:"name"`
	DisplayName      string    `json:"display_name"`
	Emoji            string    `json:"emoji"`
	Tagline          string    `json:"tagline"`
	RafflePercentage int       `json:"raffle_percentage"` // share of revenue paid out as the prize, 0-100
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
