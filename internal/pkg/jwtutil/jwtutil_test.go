package jwtutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(secret, time.Minute, 7, "ada")
	require.NoError(t, err)

	claims, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "ada", claims.Username)
	assert.Equal(t, TypeAccess, claims.Type)
	assert.Equal(t, "7", claims.Subject)
}

func TestParseRejectsWrongSecretAndExpired(t *testing.T) {
	token, err := GenerateToken(secret, time.Minute, 7, "ada")
	require.NoError(t, err)
	_, err = ParseToken("other", token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := GenerateToken(secret, -time.Minute, 7, "ada")
	require.NoError(t, err)
	_, err = ParseToken(secret, expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken(secret, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenTypesDoNotMix(t *testing.T) {
	mfa, err := GenerateMFAToken(secret, time.Minute, 7, "ada", "challenge-1")
	require.NoError(t, err)

	_, err = ParseToken(secret, mfa)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	claims, err := ParseMFAToken(secret, mfa)
	require.NoError(t, err)
	assert.Equal(t, "challenge-1", claims.ChallengeID)

	access, err := GenerateToken(secret, time.Minute, 7, "ada")
	require.NoError(t, err)
	_, err = ParseMFAToken(secret, access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}
