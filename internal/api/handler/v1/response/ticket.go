package response

import "github.com/clubraffle/raffle-api/internal/domain"

type Purchase struct {
	Purchase domain.TicketPurchase `json:"purchase"`
	Receipt  string                `json:"receipt"`
}

type Receipt struct {
	Receipt string `json:"receipt"`
}

type Announcement struct {
	Announcement string `json:"announcement"`
}

type NextTicketNumber struct {
	NextTicketNumber int `json:"next_ticket_number"`
}
