package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubraffle/raffle-api/internal/domain"
)

func newTicketFixture() (*fakeStore, *TicketService) {
	store := newFakeStore()
	svc := NewTicketService(&fakePurchaseStore{store}, store, &fakeSessionStore{store})

	return store, svc
}

func testEntity(store *fakeStore) domain.Entity {
	return store.addEntity(domain.Entity{
		Name:             "chess",
		DisplayName:      "Chess Club",
		Emoji:            "♟️",
		Tagline:          "Good luck!",
		RafflePercentage: 70,
	})
}

func TestPurchaseTickets(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns contiguous disjoint ranges", func(t *testing.T) {
		store, svc := newTicketFixture()
		entity := testEntity(store)

		first, _, err := svc.PurchaseTickets(ctx, domain.TicketPurchase{
			EntityID:       entity.ID,
			BuyerName:      "alice",
			TicketCount:    3,
			PricePerTicket: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, first.StartTicketNumber)
		assert.Equal(t, 3, first.EndTicketNumber)
		assert.Equal(t, 6.0, first.TotalPrice)
		assert.Len(t, first.Tickets, 3)

		second, _, err := svc.PurchaseTickets(ctx, domain.TicketPurchase{
			EntityID:       entity.ID,
			BuyerName:      "bob",
			TicketCount:    4,
			PricePerTicket: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, 4, second.StartTicketNumber)
		assert.Equal(t, 7, second.EndTicketNumber)
	})

	t.Run("concurrent purchases never overlap", func(t *testing.T) {
		store, svc := newTicketFixture()
		entity := testEntity(store)

		const buyers = 20
		const perBuyer = 5

		var wg sync.WaitGroup
		errs := make([]error, buyers)
		for i := 0; i < buyers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, _, errs[i] = svc.PurchaseTickets(ctx, domain.TicketPurchase{
					EntityID:       entity.ID,
					BuyerName:      "buyer",
					TicketCount:    perBuyer,
					PricePerTicket: 1,
				})
			}(i)
		}
		wg.Wait()

		for _, err := range errs {
			require.NoError(t, err)
		}

		purchases, err := svc.GetPurchasesByEntity(ctx, entity.ID, false)
		require.NoError(t, err)
		require.Len(t, purchases, buyers)

		seen := make(map[int]bool)
		for _, p := range purchases {
			assert.Equal(t, perBuyer, p.EndTicketNumber-p.StartTicketNumber+1)
			for n := p.StartTicketNumber; n <= p.EndTicketNumber; n++ {
				assert.False(t, seen[n], "ticket %d assigned twice", n)
				seen[n] = true
			}
		}
		for n := 1; n <= buyers*perBuyer; n++ {
			assert.True(t, seen[n], "ticket %d never assigned", n)
		}
	})

	t.Run("stamps the active session and refreshes its totals", func(t *testing.T) {
		store, svc := newTicketFixture()
		entity := testEntity(store)

		sessions := &fakeSessionStore{store}
		session, err := sessions.Start(ctx, domain.Session{
			EntityID:          entity.ID,
			UserID:            7,
			StartTicketNumber: 1,
			Status:            domain.SessionActive,
		})
		require.NoError(t, err)

		created, _, err := svc.PurchaseTickets(ctx, domain.TicketPurchase{
			EntityID:       entity.ID,
			BuyerName:      "alice",
			TicketCount:    2,
			PricePerTicket: 3,
		})
		require.NoError(t, err)
		require.NotNil(t, created.SessionID)
		assert.Equal(t, session.ID, *created.SessionID)

		refreshed, err := sessions.FindByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, refreshed.TicketsSold)
		assert.Equal(t, 6.0, refreshed.TotalRevenue)
	})

	t.Run("no active session leaves the purchase unscoped", func(t *testing.T) {
		store, svc := newTicketFixture()
		entity := testEntity(store)

		created, _, err := svc.PurchaseTickets(ctx, domain.TicketPurchase{
			EntityID:       entity.ID,
			BuyerName:      "alice",
			TicketCount:    1,
			PricePerTicket: 1,
		})
		require.NoError(t, err)
		assert.Nil(t, created.SessionID)
	})

	t.Run("returns a receipt naming the buyer", func(t *testing.T) {
		store, svc := newTicketFixture()
		entity := testEntity(store)

		_, receiptText, err := svc.PurchaseTickets(ctx, domain.TicketPurchase{
			EntityID:       entity.ID,
			BuyerName:      "alice",
			RafflerName:    "carol",
			TicketCount:    2,
			PricePerTicket: 5,
		})
		require.NoError(t, err)
		assert.Contains(t, receiptText, "alice")
		assert.Contains(t, receiptText, "Ticket Numbers: 1-2")
	})

	t.Run("validation", func(t *testing.T) {
		store, svc := newTicketFixture()
		entity := testEntity(store)

		_, _, err := svc.PurchaseTickets(ctx, domain.TicketPurchase{EntityID: entity.ID, TicketCount: 0, PricePerTicket: 1})
		assert.ErrorIs(t, err, ErrTicketCountInvalid)

		_, _, err = svc.PurchaseTickets(ctx, domain.TicketPurchase{EntityID: entity.ID, TicketCount: 1, PricePerTicket: 0})
		assert.ErrorIs(t, err, ErrPriceInvalid)

		_, _, err = svc.PurchaseTickets(ctx, domain.TicketPurchase{EntityID: entity.ID, TicketCount: 1, PricePerTicket: 1, IsGift: true})
		assert.ErrorIs(t, err, ErrGifterRequired)

		_, _, err = svc.PurchaseTickets(ctx, domain.TicketPurchase{EntityID: 999, TicketCount: 1, PricePerTicket: 1})
		assert.ErrorIs(t, err, ErrEntityNotFound)
	})

	t.Run("rejects a closed session and leaves its totals alone", func(t *testing.T) {
		store, svc := newTicketFixture()
		entity := testEntity(store)

		sessions := &fakeSessionStore{store}
		session, err := sessions.Start(ctx, domain.Session{
			EntityID:          entity.ID,
			UserID:            7,
			StartTicketNumber: 1,
			Status:            domain.SessionActive,
		})
		require.NoError(t, err)

		_, _, err = svc.PurchaseTickets(ctx, domain.TicketPurchase{
			EntityID:       entity.ID,
			BuyerName:      "alice",
			TicketCount:    2,
			PricePerTicket: 5,
		})
		require.NoError(t, err)

		closed, err := sessions.Close(ctx, session.ID)
		require.NoError(t, err)
		require.Equal(t, 2, closed.TicketsSold)
		require.Equal(t, 10.0, closed.TotalRevenue)

		_, _, err = svc.PurchaseTickets(ctx, domain.TicketPurchase{
			EntityID:       entity.ID,
			SessionID:      &session.ID,
			BuyerName:      "bob",
			TicketCount:    3,
			PricePerTicket: 5,
		})
		assert.ErrorIs(t, err, ErrSessionNotActive)

		after, err := sessions.FindByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SessionClosed, after.Status)
		assert.Equal(t, 2, after.TicketsSold)
		assert.Equal(t, 10.0, after.TotalRevenue)
	})

	t.Run("rejects a session from another entity", func(t *testing.T) {
		store, svc := newTicketFixture()
		entity := testEntity(store)
		other := store.addEntity(domain.Entity{Name: "darts", DisplayName: "Darts Club", RafflePercentage: 50})

		sessions := &fakeSessionStore{store}
		session, err := sessions.Start(ctx, domain.Session{
			EntityID:          other.ID,
			UserID:            7,
			StartTicketNumber: 1,
			Status:            domain.SessionActive,
		})
		require.NoError(t, err)

		_, _, err = svc.PurchaseTickets(ctx, domain.TicketPurchase{
			EntityID:       entity.ID,
			SessionID:      &session.ID,
			BuyerName:      "alice",
			TicketCount:    1,
			PricePerTicket: 1,
		})
		assert.ErrorIs(t, err, ErrSessionEntityMismatch)
	})

	t.Run("rejects an unknown session id", func(t *testing.T) {
		store, svc := newTicketFixture()
		entity := testEntity(store)

		missing := uint(999)
		_, _, err := svc.PurchaseTickets(ctx, domain.TicketPurchase{
			EntityID:       entity.ID,
			SessionID:      &missing,
			BuyerName:      "alice",
			TicketCount:    1,
			PricePerTicket: 1,
		})
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("purchases always start unpaid", func(t *testing.T) {
		store, svc := newTicketFixture()
		entity := testEntity(store)

		created, _, err := svc.PurchaseTickets(ctx, domain.TicketPurchase{
			EntityID:       entity.ID,
			BuyerName:      "alice",
			TicketCount:    1,
			PricePerTicket: 1,
			IsPaid:         true,
		})
		require.NoError(t, err)
		assert.False(t, created.IsPaid)
	})
}

func TestNextTicketNumber(t *testing.T) {
	ctx := context.Background()
	store, svc := newTicketFixture()
	entity := testEntity(store)

	next, err := svc.NextTicketNumber(ctx, entity.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	// Peeking never advances the counter.
	next, err = svc.NextTicketNumber(ctx, entity.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	_, _, err = svc.PurchaseTickets(ctx, domain.TicketPurchase{
		EntityID:       entity.ID,
		BuyerName:      "alice",
		TicketCount:    5,
		PricePerTicket: 1,
	})
	require.NoError(t, err)

	next, err = svc.NextTicketNumber(ctx, entity.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, next)

	_, err = svc.NextTicketNumber(ctx, 999)
	assert.ErrorIs(t, err, ErrCounterNotFound)
}

func TestResetCounter(t *testing.T) {
	ctx := context.Background()
	store, svc := newTicketFixture()
	entity := testEntity(store)

	_, _, err := svc.PurchaseTickets(ctx, domain.TicketPurchase{
		EntityID:       entity.ID,
		BuyerName:      "alice",
		TicketCount:    4,
		PricePerTicket: 1,
	})
	require.NoError(t, err)

	require.NoError(t, svc.ResetCounter(ctx, entity.ID))

	next, err := svc.NextTicketNumber(ctx, entity.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	assert.ErrorIs(t, svc.ResetCounter(ctx, 999), ErrEntityNotFound)
}

func TestStats(t *testing.T) {
	ctx := context.Background()

	t.Run("prize is the floor of the percentage cut", func(t *testing.T) {
		store, svc := newTicketFixture()
		entity := testEntity(store) // 70%

		_, _, err := svc.PurchaseTickets(ctx, domain.TicketPurchase{
			EntityID:       entity.ID,
			BuyerName:      "alice",
			TicketCount:    3,
			PricePerTicket: 33.33,
		})
		require.NoError(t, err)

		stats, err := svc.Stats(ctx, entity.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.TicketsSold)
		assert.InDelta(t, 99.99, stats.TotalRevenue, 0.001)
		assert.Equal(t, 69, stats.PrizeAmount)
	})

	t.Run("scopes to the active session over history", func(t *testing.T) {
		store, svc := newTicketFixture()
		entity := testEntity(store)
		sessions := &fakeSessionStore{store}

		// Historical purchase outside any session.
		_, _, err := svc.PurchaseTickets(ctx, domain.TicketPurchase{
			EntityID:       entity.ID,
			BuyerName:      "old",
			TicketCount:    10,
			PricePerTicket: 1,
		})
		require.NoError(t, err)

		session, err := sessions.Start(ctx, domain.Session{
			EntityID:          entity.ID,
			StartTicketNumber: 1,
			Status:            domain.SessionActive,
		})
		require.NoError(t, err)

		_, _, err = svc.PurchaseTickets(ctx, domain.TicketPurchase{
			EntityID:       entity.ID,
			BuyerName:      "new",
			TicketCount:    2,
			PricePerTicket: 1,
		})
		require.NoError(t, err)

		stats, err := svc.Stats(ctx, entity.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.TicketsSold, "active session scope, not full history")

		stats, err = svc.Stats(ctx, entity.ID, &session.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.TicketsSold)
	})

	t.Run("falls back to entity history with no session", func(t *testing.T) {
		store, svc := newTicketFixture()
		entity := testEntity(store)

		for i := 0; i < 3; i++ {
			_, _, err := svc.PurchaseTickets(ctx, domain.TicketPurchase{
				EntityID:       entity.ID,
				BuyerName:      "alice",
				TicketCount:    2,
				PricePerTicket: 1,
			})
			require.NoError(t, err)
		}

		stats, err := svc.Stats(ctx, entity.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, 6, stats.TicketsSold)
		assert.Equal(t, 6.0, stats.TotalRevenue)
	})
}

func TestAnnouncement(t *testing.T) {
	ctx := context.Background()
	store, svc := newTicketFixture()
	entity := testEntity(store)

	_, _, err := svc.PurchaseTickets(ctx, domain.TicketPurchase{
		EntityID:       entity.ID,
		BuyerName:      "alice",
		TicketCount:    4,
		PricePerTicket: 5,
	})
	require.NoError(t, err)

	text, err := svc.Announcement(ctx, entity.ID, "carol", 5)
	require.NoError(t, err)
	assert.Contains(t, text, "4 tickets sold in total")
	assert.Contains(t, text, "WINNING AMOUNT is now $14")

	_, err = svc.Announcement(ctx, 999, "", 5)
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestDeletePurchase(t *testing.T) {
	ctx := context.Background()

	t.Run("closed session purchases are immutable", func(t *testing.T) {
		store, svc := newTicketFixture()
		entity := testEntity(store)
		sessions := &fakeSessionStore{store}

		session, err := sessions.Start(ctx, domain.Session{
			EntityID:          entity.ID,
			StartTicketNumber: 1,
			Status:            domain.SessionActive,
		})
		require.NoError(t, err)

		created, _, err := svc.PurchaseTickets(ctx, domain.TicketPurchase{
			EntityID:       entity.ID,
			BuyerName:      "alice",
			TicketCount:    2,
			PricePerTicket: 1,
		})
		require.NoError(t, err)

		_, err = sessions.Close(ctx, session.ID)
		require.NoError(t, err)

		err = svc.DeletePurchase(ctx, created.ID)
		assert.ErrorIs(t, err, ErrSessionFinalized)

		_, err = svc.GetPurchase(ctx, created.ID)
		assert.NoError(t, err, "purchase must survive the rejected delete")
	})

	t.Run("active session delete refreshes totals and keeps numbering", func(t *testing.T) {
		store, svc := newTicketFixture()
		entity := testEntity(store)
		sessions := &fakeSessionStore{store}

		session, err := sessions.Start(ctx, domain.Session{
			EntityID:          entity.ID,
			StartTicketNumber: 1,
			Status:            domain.SessionActive,
		})
		require.NoError(t, err)

		first, _, err := svc.PurchaseTickets(ctx, domain.TicketPurchase{
			EntityID:       entity.ID,
			BuyerName:      "alice",
			TicketCount:    3,
			PricePerTicket: 2,
		})
		require.NoError(t, err)

		require.NoError(t, svc.DeletePurchase(ctx, first.ID))

		refreshed, err := sessions.FindByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, refreshed.TicketsSold)
		assert.Equal(t, 0.0, refreshed.TotalRevenue)

		// Deleted ticket numbers are burned, never reissued.
		next, err := svc.NextTicketNumber(ctx, entity.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, next)
	})

	t.Run("unknown purchase", func(t *testing.T) {
		_, svc := newTicketFixture()
		assert.ErrorIs(t, svc.DeletePurchase(ctx, 42), ErrPurchaseNotFound)
	})
}

func TestUpdatePurchase(t *testing.T) {
	ctx := context.Background()
	store, svc := newTicketFixture()
	entity := testEntity(store)

	created, _, err := svc.PurchaseTickets(ctx, domain.TicketPurchase{
		EntityID:       entity.ID,
		BuyerName:      "alice",
		TicketCount:    1,
		PricePerTicket: 1,
	})
	require.NoError(t, err)

	paid, err := svc.UpdatePaymentStatus(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)

	renamed, err := svc.UpdateBuyerName(ctx, created.ID, "alicia")
	require.NoError(t, err)
	assert.Equal(t, "alicia", renamed.BuyerName)

	_, err = svc.UpdatePaymentStatus(ctx, 999, true)
	assert.ErrorIs(t, err, ErrPurchaseNotFound)
}
