package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubraffle/raffle-api/internal/domain"
)

func TestEntityCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("applies branding defaults", func(t *testing.T) {
		svc := NewEntityService(newFakeStore())

		created, err := svc.Create(ctx, domain.Entity{Name: "chess", DisplayName: "Chess Club"})
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultEmoji, created.Emoji)
		assert.Equal(t, domain.DefaultTagline, created.Tagline)
		assert.Equal(t, domain.DefaultRafflePercentage, created.RafflePercentage)
	})

	t.Run("keeps explicit branding", func(t *testing.T) {
		svc := NewEntityService(newFakeStore())

		created, err := svc.Create(ctx, domain.Entity{
			Name:             "darts",
			DisplayName:      "Darts Club",
			Emoji:            "🎯",
			Tagline:          "Bullseye!",
			RafflePercentage: 50,
		})
		require.NoError(t, err)
		assert.Equal(t, "🎯", created.Emoji)
		assert.Equal(t, 50, created.RafflePercentage)
	})

	t.Run("rejects out-of-range percentages", func(t *testing.T) {
		svc := NewEntityService(newFakeStore())

		_, err := svc.Create(ctx, domain.Entity{Name: "chess", RafflePercentage: 101})
		assert.ErrorIs(t, err, ErrPercentageInvalid)

		_, err = svc.Create(ctx, domain.Entity{Name: "chess", RafflePercentage: -1})
		assert.ErrorIs(t, err, ErrPercentageInvalid)
	})

	t.Run("duplicate name", func(t *testing.T) {
		svc := NewEntityService(newFakeStore())

		_, err := svc.Create(ctx, domain.Entity{Name: "chess"})
		require.NoError(t, err)

		_, err = svc.Create(ctx, domain.Entity{Name: "chess"})
		assert.ErrorIs(t, err, ErrEntityExists)
	})
}

func TestEntityUpdate(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewEntityService(store)

	created, err := svc.Create(ctx, domain.Entity{
		Name:             "chess",
		DisplayName:      "Chess Club",
		Emoji:            "♟️",
		Tagline:          "Good luck!",
		RafflePercentage: 70,
	})
	require.NoError(t, err)

	t.Run("unset fields keep current values", func(t *testing.T) {
		updated, err := svc.Update(ctx, domain.Entity{ID: created.ID, Tagline: "New season!"})
		require.NoError(t, err)
		assert.Equal(t, "chess", updated.Name)
		assert.Equal(t, "Chess Club", updated.DisplayName)
		assert.Equal(t, "New season!", updated.Tagline)
		assert.Equal(t, 70, updated.RafflePercentage)
	})

	t.Run("percentage bounds", func(t *testing.T) {
		_, err := svc.Update(ctx, domain.Entity{ID: created.ID, RafflePercentage: 150})
		assert.ErrorIs(t, err, ErrPercentageInvalid)
	})

	t.Run("unknown entity", func(t *testing.T) {
		_, err := svc.Update(ctx, domain.Entity{ID: 999, Name: "ghost"})
		assert.ErrorIs(t, err, ErrEntityNotFound)
	})
}

func TestEntityDelete(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewEntityService(store)

	created, err := svc.Create(ctx, domain.Entity{Name: "chess"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrEntityNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrEntityNotFound)
}
