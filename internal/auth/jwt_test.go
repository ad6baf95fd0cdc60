package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	issuer := NewIssuer("test-secret")
	userID := uuid.New()

	token, err := issuer.Sign(userID, "jane@example.com", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewIssuer("secret-a").Sign(uuid.New(), "jane@example.com", "user")
	require.NoError(t, err)

	_, err = NewIssuer("secret-b").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	_, err := NewIssuer("test-secret").Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
