package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", time.Minute, "")

	token, err := m.GenerateAccessToken("reviewer-7", "rev@example.com", "analyst")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "reviewer-7", claims.ActorID())
	assert.Equal(t, "analyst", claims.Role)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("secret", time.Minute, "").GenerateAccessToken("a", "", "")
	require.NoError(t, err)

	_, err = NewManager("other", time.Minute, "").ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	m := NewManager("secret", -time.Minute, "")
	token, err := m.GenerateAccessToken("a", "", "")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestGenerateRequiresActor(t *testing.T) {
	_, err := NewManager("secret", time.Minute, "").GenerateAccessToken("", "", "")
	assert.Error(t, err)
}
