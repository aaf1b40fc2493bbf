package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubraffle/raffle-api/internal/domain"
)

func TestPurchasesWorkbook(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	ticketSvc := NewTicketService(&fakePurchaseStore{store}, store, &fakeSessionStore{store})
	exportSvc := NewExportService(store, &fakePurchaseStore{store})

	chess := testEntity(store)
	darts := store.addEntity(domain.Entity{Name: "darts", DisplayName: "Darts Club", Emoji: "🎯", RafflePercentage: 50})

	_, _, err := ticketSvc.PurchaseTickets(ctx, domain.TicketPurchase{
		EntityID:       chess.ID,
		BuyerName:      "alice",
		TicketCount:    3,
		PricePerTicket: 2,
	})
	require.NoError(t, err)
	_, _, err = ticketSvc.PurchaseTickets(ctx, domain.TicketPurchase{
		EntityID:       darts.ID,
		BuyerName:      "bob",
		TicketCount:    2,
		PricePerTicket: 4,
	})
	require.NoError(t, err)

	t.Run("all entities", func(t *testing.T) {
		workbook, err := exportSvc.PurchasesWorkbook(ctx, nil)
		require.NoError(t, err)
		defer workbook.Close()

		assert.ElementsMatch(t, []string{"Purchases", "Tickets", "Summary"}, workbook.GetSheetList())

		rows, err := workbook.GetRows("Purchases")
		require.NoError(t, err)
		require.Len(t, rows, 3, "header plus one row per purchase")
		assert.Equal(t, "Buyer Name", rows[0][2])
		assert.Equal(t, "alice", rows[1][2])
		assert.Equal(t, "1-3", rows[1][7])
		assert.Equal(t, "bob", rows[2][2])

		ticketRows, err := workbook.GetRows("Tickets")
		require.NoError(t, err)
		assert.Len(t, ticketRows, 6, "header plus five tickets")

		summaryRows, err := workbook.GetRows("Summary")
		require.NoError(t, err)
		require.Len(t, summaryRows, 3)
		assert.Contains(t, summaryRows[1][0], "Chess Club")
		assert.Contains(t, summaryRows[2][0], "Darts Club")
	})

	t.Run("filtered to the caller's entities", func(t *testing.T) {
		workbook, err := exportSvc.PurchasesWorkbook(ctx, []uint{darts.ID})
		require.NoError(t, err)
		defer workbook.Close()

		rows, err := workbook.GetRows("Purchases")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "bob", rows[1][2])
	})
}
