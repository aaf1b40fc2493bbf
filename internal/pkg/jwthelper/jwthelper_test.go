package jwthelper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubraffle/raffle-api/internal/domain"
)

func TestGenerateAndParseToken(t *testing.T) {
	user := domain.User{ID: 42, Username: "alice", Role: domain.RoleEventManager}

	token, err := GenerateToken("secret", user, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "event_manager", claims.Role)
}

func TestParseTokenRejectsBadInput(t *testing.T) {
	user := domain.User{ID: 1, Username: "alice", Role: domain.RoleStaff}

	t.Run("wrong signing key", func(t *testing.T) {
		token, err := GenerateToken("secret", user, time.Hour)
		require.NoError(t, err)

		_, err = ParseToken("other-secret", token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := GenerateToken("secret", user, -time.Minute)
		require.NoError(t, err)

		_, err = ParseToken("secret", token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := ParseToken("secret", "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
