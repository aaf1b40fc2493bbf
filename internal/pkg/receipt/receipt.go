// Package receipt renders the receipt and announcement texts that sellers
// paste into chat after a sale.
package receipt

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/clubraffle/raffle-api/internal/domain"
)

const divider = "~~~~~~~~~~~~~~~~~~~~~"

// smallCaps maps lowercase letters to their Unicode small-caps forms, used
// to style the word "raffle" in receipt headers.
var smallCaps = map[rune]string{
	'a': "ᴀ", 'b': "ʙ", 'c': "ᴄ", 'd': "ᴅ", 'e': "ᴇ", 'f': "ꜰ",
	'g': "ɢ", 'h': "ʜ", 'i': "ɪ", 'j': "ᴊ", 'k': "ᴋ", 'l': "ʟ",
	'm': "ᴍ", 'n': "ɴ", 'o': "ᴏ", 'p': "ᴘ", 'q': "ǫ", 'r': "ʀ",
	's': "s", 't': "ᴛ", 'u': "ᴜ", 'v': "ᴠ", 'w': "ᴡ", 'x': "x",
	'y': "ʏ", 'z': "ᴢ",
}

// FormatDisplayName converts lowercase letters to small caps, leaving
// uppercase letters and anything unmapped untouched.
func FormatDisplayName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsUpper(r) {
			b.WriteRune(r)
			continue
		}
		if styled, ok := smallCaps[unicode.ToLower(r)]; ok {
			b.WriteString(styled)
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

// Generate renders the receipt text for a purchase under the entity's
// branding.
func Generate(entity domain.Entity, purchase domain.TicketPurchase) string {
	var giftLine string
	if purchase.IsGift && purchase.GifterName != "" {
		giftLine = fmt.Sprintf("🎁 GIFT from: %s\n", purchase.GifterName)
	}

	return strings.TrimSpace(fmt.Sprintf(`%s %s %s %s
%s
%s
%sBuyer: %s
Tickets purchased: %d
Price per ticket: $%v
Total Price: $%v
Ticket Numbers: %d-%d
Raffler Name: %s
%s`,
		entity.Emoji, entity.DisplayName, FormatDisplayName("raffle"), entity.Emoji,
		entity.Tagline,
		divider,
		giftLine, purchase.BuyerName,
		purchase.TicketCount,
		purchase.PricePerTicket,
		purchase.TotalPrice,
		purchase.StartTicketNumber, purchase.EndTicketNumber,
		purchase.RafflerName,
		divider,
	))
}

// Announcement renders the seller's chat announcement with the current
// sold-ticket count and prize amount.
func Announcement(entity domain.Entity, stats domain.TicketStats, rafflerName string, pricePerTicket float64) string {
	raffler := "your RAFFLER"
	if rafflerName != "" {
		raffler = fmt.Sprintf("your RAFFLER %s", FormatDisplayName(rafflerName))
	}

	return fmt.Sprintf(`%sHey everyone, I am %s for today. Tickets are $%v each. PM me for Tickets, UNLIMITED Available!! %s
%d tickets sold in total. ♥ WINNING AMOUNT is now $%d !! Get your tickets for your lucky chance!~ ♥`,
		entity.Emoji, raffler, pricePerTicket, entity.Emoji,
		stats.TicketsSold, stats.PrizeAmount,
	)
}
