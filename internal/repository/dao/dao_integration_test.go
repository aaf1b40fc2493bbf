package dao

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB starts a throwaway postgres container and migrates the
// schema into it. Skipped in -short mode and when docker is unreachable.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not available: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=raffle",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=raffle",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pool.Purge(resource)
	})
	_ = resource.Expire(180)

	dsn := fmt.Sprintf("host=localhost port=%s user=raffle password=secret dbname=raffle sslmode=disable",
		resource.GetPort("5432/tcp"))

	var database *gorm.DB
	pool.MaxWait = time.Minute
	err = pool.Retry(func() error {
		var openErr error
		database, openErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Discard,
		})
		if openErr != nil {
			return openErr
		}

		sqlDB, dbErr := database.DB()
		if dbErr != nil {
			return dbErr
		}

		return sqlDB.Ping()
	})
	require.NoError(t, err)

	require.NoError(t, InitTables(database))

	return database
}

func insertTestEntity(t *testing.T, db *gorm.DB, name string) Entity {
	t.Helper()

	entity, err := NewEntityDAO(db).Insert(context.Background(), Entity{
		Name:             name,
		DisplayName:      name,
		Emoji:            "🎲",
		Tagline:          "Good luck!",
		RafflePercentage: 70,
	})
	require.NoError(t, err)

	return entity
}

func TestPurchaseDAOConcurrentClaims(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	entity := insertTestEntity(t, db, "chess")
	purchases := NewPurchaseDAO(db)

	const workers = 10
	const perWorker = 5

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = purchases.Insert(ctx, TicketPurchase{
				EntityID:       entity.ID,
				BuyerName:      fmt.Sprintf("buyer-%d", i),
				RafflerName:    "raffler",
				TicketCount:    perWorker,
				PricePerTicket: 1,
				TotalPrice:     perWorker,
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	all, err := purchases.FindByEntityID(ctx, entity.ID)
	require.NoError(t, err)
	require.Len(t, all, workers)

	seen := make(map[int]bool)
	for _, p := range all {
		require.Equal(t, perWorker, p.EndTicketNumber-p.StartTicketNumber+1)
		for n := p.StartTicketNumber; n <= p.EndTicketNumber; n++ {
			require.False(t, seen[n], "ticket %d claimed twice", n)
			seen[n] = true
		}
	}
	for n := 1; n <= workers*perWorker; n++ {
		assert.True(t, seen[n], "ticket %d never claimed", n)
	}

	counterValue, err := NewEntityDAO(db).CounterValue(ctx, entity.ID)
	require.NoError(t, err)
	assert.Equal(t, workers*perWorker, counterValue)
}

func TestPurchaseDAOMissingCounter(t *testing.T) {
	db := setupTestDB(t)

	_, err := NewPurchaseDAO(db).Insert(context.Background(), TicketPurchase{
		EntityID:       9999,
		BuyerName:      "ghost",
		TicketCount:    1,
		PricePerTicket: 1,
	})
	assert.ErrorIs(t, err, ErrCounterNotFound)
}

func TestSessionDAOLifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	entity := insertTestEntity(t, db, "darts")
	sessions := NewSessionDAO(db)
	purchases := NewPurchaseDAO(db)
	entities := NewEntityDAO(db)

	t.Run("start resets the counter", func(t *testing.T) {
		_, err := purchases.Insert(ctx, TicketPurchase{
			EntityID:       entity.ID,
			BuyerName:      "early",
			TicketCount:    7,
			PricePerTicket: 1,
			TotalPrice:     7,
		})
		require.NoError(t, err)

		session, err := sessions.Start(ctx, Session{
			EntityID:          entity.ID,
			UserID:            1,
			Username:          "owner",
			StartedAt:         time.Now(),
			StartTicketNumber: 1,
			Status:            "active",
		})
		require.NoError(t, err)
		require.NotZero(t, session.ID)

		counterValue, err := entities.CounterValue(ctx, entity.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, counterValue)
	})

	t.Run("second start is rejected", func(t *testing.T) {
		_, err := sessions.Start(ctx, Session{
			EntityID:          entity.ID,
			UserID:            2,
			Username:          "other",
			StartedAt:         time.Now(),
			StartTicketNumber: 1,
			Status:            "active",
		})
		assert.ErrorIs(t, err, ErrSessionActive)
	})

	t.Run("close derives totals from the ledger", func(t *testing.T) {
		active, err := sessions.FindActiveByEntityID(ctx, entity.ID)
		require.NoError(t, err)

		_, err = purchases.Insert(ctx, TicketPurchase{
			EntityID:       entity.ID,
			SessionID:      &active.ID,
			BuyerName:      "alice",
			TicketCount:    3,
			PricePerTicket: 2,
			TotalPrice:     6,
		})
		require.NoError(t, err)

		closed, err := sessions.Close(ctx, active.ID)
		require.NoError(t, err)
		assert.Equal(t, "closed", closed.Status)
		assert.Equal(t, 3, closed.TicketsSold)
		assert.Equal(t, 6.0, closed.TotalRevenue)
		require.NotNil(t, closed.EndTicketNumber)
		assert.Equal(t, 3, *closed.EndTicketNumber)

		_, err = sessions.Close(ctx, active.ID)
		assert.ErrorIs(t, err, ErrSessionNotActive)
	})

	t.Run("empty session closes at start-1", func(t *testing.T) {
		session, err := sessions.Start(ctx, Session{
			EntityID:          entity.ID,
			UserID:            1,
			Username:          "owner",
			StartedAt:         time.Now(),
			StartTicketNumber: 1,
			Status:            "active",
		})
		require.NoError(t, err)

		closed, err := sessions.Close(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, closed.TicketsSold)
		require.NotNil(t, closed.EndTicketNumber)
		assert.Equal(t, 0, *closed.EndTicketNumber)
	})

	t.Run("start on an unknown entity", func(t *testing.T) {
		_, err := sessions.Start(ctx, Session{EntityID: 9999, Status: "active"})
		assert.ErrorIs(t, err, ErrEntityNotFound)
	})
}

func TestEntityDAOUniqueName(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	insertTestEntity(t, db, "chess")

	_, err := NewEntityDAO(db).Insert(ctx, Entity{Name: "chess", DisplayName: "Chess Club"})
	assert.ErrorIs(t, err, ErrEntityExists)
}
