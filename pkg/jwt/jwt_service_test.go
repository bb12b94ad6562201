package jwt

import (
	"testing"
	"time"

	"foodgram/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTServiceWithSecret("secret", time.Hour)

	token := svc.GenerateTokenUser("user-1", domain.RoleUser)
	require.NotEmpty(t, token)

	id, role, err := svc.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
	assert.Equal(t, domain.RoleUser, role)
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTServiceWithSecret("secret", -time.Minute)

	_, _, err := svc.GetUserIDByToken(svc.GenerateTokenUser("user-1", domain.RoleUser))
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestJWTService_WrongSecret(t *testing.T) {
	token := NewJWTServiceWithSecret("one", time.Hour).GenerateTokenUser("user-1", domain.RoleUser)

	_, _, err := NewJWTServiceWithSecret("two", time.Hour).GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestJWTService_Garbage(t *testing.T) {
	_, _, err := NewJWTServiceWithSecret("secret", time.Hour).GetUserIDByToken("not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
