package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learningpal/internal/pkg/jwtutil"
)

const testSecret = "test-secret"

func registerUser(t *testing.T, svc *AuthService) *AuthResult {
	t.Helper()
	result, err := svc.Register(context.Background(), RegisterInput{
		Username: "ada",
		Email:    "Ada@Example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return result
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(&memoryUserStore{}, testSecret, time.Hour)
	ctx := context.Background()

	registered := registerUser(t, svc)
	assert.Equal(t, "ada@example.com", registered.User.Email)
	assert.NotEqual(t, "correct-horse", registered.User.PasswordHash)

	claims, err := jwtutil.ParseToken(testSecret, registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)

	_, err = svc.Register(ctx, RegisterInput{Username: "ada", Email: "other@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrUsernameExists)
	_, err = svc.Register(ctx, RegisterInput{Username: "bob", Email: "ada@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrEmailExists)
	_, err = svc.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	result, err := svc.Login(ctx, LoginInput{Username: "ada", Password: "correct-horse"})
	require.NoError(t, err)
	assert.False(t, result.MFARequired)
	assert.NotEmpty(t, result.Token)
	assert.NotNil(t, result.User.LastLoginAt)

	_, err = svc.Login(ctx, LoginInput{Username: "ada", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredential)
	_, err = svc.Login(ctx, LoginInput{Username: "nobody", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestLoginWithMFA(t *testing.T) {
	codes := newMemoryCodeStore()
	sender := &capturingSender{}
	svc := NewAuthService(&memoryUserStore{}, testSecret, time.Hour).EnableMFA(codes, sender, 10*time.Minute)
	ctx := context.Background()
	registerUser(t, svc)

	challenge, err := svc.Login(ctx, LoginInput{Username: "ada", Password: "correct-horse"})
	require.NoError(t, err)
	require.True(t, challenge.MFARequired)
	assert.Empty(t, challenge.Token)
	require.NotEmpty(t, challenge.MFAToken)

	_, err = jwtutil.ParseToken(testSecret, challenge.MFAToken)
	assert.ErrorIs(t, err, jwtutil.ErrWrongTokenType)

	code := sender.last()
	assert.Len(t, code, 6)

	_, err = svc.VerifyMFA(ctx, challenge.MFAToken, wrongCode(code))
	assert.ErrorIs(t, err, ErrInvalidMFACode)

	result, err := svc.VerifyMFA(ctx, challenge.MFAToken, code)
	require.NoError(t, err)
	_, err = jwtutil.ParseToken(testSecret, result.Token)
	require.NoError(t, err)

	_, err = svc.VerifyMFA(ctx, challenge.MFAToken, code)
	assert.ErrorIs(t, err, ErrInvalidMFACode)

	_, err = svc.VerifyMFA(ctx, result.Token, code)
	assert.ErrorIs(t, err, ErrInvalidMFAToken)
}

func TestResendMFA(t *testing.T) {
	sender := &capturingSender{}
	svc := NewAuthService(&memoryUserStore{}, testSecret, time.Hour).EnableMFA(newMemoryCodeStore(), sender, 10*time.Minute)
	ctx := context.Background()
	registerUser(t, svc)

	challenge, err := svc.Login(ctx, LoginInput{Username: "ada", Password: "correct-horse"})
	require.NoError(t, err)

	resent, err := svc.ResendMFA(ctx, challenge.MFAToken)
	require.NoError(t, err)
	require.Len(t, sender.codes, 2)

	result, err := svc.VerifyMFA(ctx, resent.MFAToken, sender.last())
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	_, err = svc.ResendMFA(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidMFAToken)
}

func TestMFADisabled(t *testing.T) {
	svc := NewAuthService(&memoryUserStore{}, testSecret, time.Hour)
	_, err := svc.VerifyMFA(context.Background(), "token", "123456")
	assert.ErrorIs(t, err, ErrMFAUnavailable)
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		assert.Regexp(t, `^\d{6}$`, code)
	}
}

func wrongCode(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}
