package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"learningpal/internal/model"
	"learningpal/internal/pkg/jwtutil"
	"learningpal/internal/platform/logger"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUsernameExists    = errors.New("username already exists")
	ErrEmailExists       = errors.New("email already exists")
	ErrInvalidCredential = errors.New("invalid username or password")
	ErrInvalidMFAToken   = errors.New("invalid or expired mfa token")
	ErrInvalidMFACode    = errors.New("invalid or expired verification code")
	ErrMFAUnavailable    = errors.New("mfa is not enabled")
)

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint) (*model.User, error)
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
}

// CodeStore keeps pending MFA codes keyed by challenge id.
type CodeStore interface {
	Save(ctx context.Context, challengeID, code string) error
	Verify(ctx context.Context, challengeID, code string) (bool, error)
}

// CodeSender delivers a verification code to the user.
type CodeSender interface {
	SendCode(ctx context.Context, user *model.User, code string) error
}

// LogCodeSender writes codes to the application log instead of mailing them.
// Reveal controls whether the code itself is logged, which is only useful
// in development.
type LogCodeSender struct {
	Log    *logger.Logger
	Reveal bool
}

func (s LogCodeSender) SendCode(_ context.Context, user *model.User, code string) error {
	if s.Reveal {
		s.Log.Info("verification code issued", "user_id", user.ID, "dev_code", code)
		return nil
	}
	s.Log.Info("verification code issued", "user_id", user.ID)
	return nil
}

type AuthService struct {
	userRepo      UserStore
	jwtSecret     string
	jwtExpiration time.Duration

	codes         CodeStore
	sender        CodeSender
	mfaExpiration time.Duration
	now           func() time.Time
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

// AuthResult carries either an access token or, when MFA is required, a
// challenge token to exchange together with the emailed code.
type AuthResult struct {
	Token       string
	User        *model.User
	MFARequired bool
	MFAToken    string
}

func NewAuthService(userRepo UserStore, jwtSecret string, jwtExpiration time.Duration) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		now:           time.Now,
	}
}

// EnableMFA turns on the second login step.
func (s *AuthService) EnableMFA(codes CodeStore, sender CodeSender, tokenExpiration time.Duration) *AuthService {
	s.codes = codes
	s.sender = sender
	s.mfaExpiration = tokenExpiration
	return s
}

func (s *AuthService) MFAEnabled() bool {
	return s.codes != nil && s.sender != nil
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)

	if username == "" || email == "" || password == "" || len(password) < 8 {
		return nil, ErrInvalidInput
	}

	existingByName, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existingByName != nil {
		return nil, ErrUsernameExists
	}

	existingByEmail, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existingByEmail != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issueAccess(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	password := strings.TrimSpace(input.Password)
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}

	if s.MFAEnabled() {
		return s.startChallenge(ctx, user)
	}
	return s.issueAccess(ctx, user)
}

// VerifyMFA exchanges a challenge token and its code for an access token.
// A code can be used once.
func (s *AuthService) VerifyMFA(ctx context.Context, mfaToken, code string) (*AuthResult, error) {
	if !s.MFAEnabled() {
		return nil, ErrMFAUnavailable
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrInvalidInput
	}

	claims, err := jwtutil.ParseMFAToken(s.jwtSecret, mfaToken)
	if err != nil {
		return nil, ErrInvalidMFAToken
	}

	ok, err := s.codes.Verify(ctx, claims.ChallengeID, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidMFACode
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidMFAToken
	}
	return s.issueAccess(ctx, user)
}

// ResendMFA starts a fresh challenge for the holder of a valid challenge
// token. The previous code stays valid until it expires.
func (s *AuthService) ResendMFA(ctx context.Context, mfaToken string) (*AuthResult, error) {
	if !s.MFAEnabled() {
		return nil, ErrMFAUnavailable
	}
	claims, err := jwtutil.ParseMFAToken(s.jwtSecret, mfaToken)
	if err != nil {
		return nil, ErrInvalidMFAToken
	}
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidMFAToken
	}
	return s.startChallenge(ctx, user)
}

func (s *AuthService) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	return s.userRepo.GetByID(ctx, id)
}

func (s *AuthService) startChallenge(ctx context.Context, user *model.User) (*AuthResult, error) {
	code, err := generateCode()
	if err != nil {
		return nil, err
	}
	challengeID := uuid.NewString()
	if err := s.codes.Save(ctx, challengeID, code); err != nil {
		return nil, err
	}
	if err := s.sender.SendCode(ctx, user, code); err != nil {
		return nil, fmt.Errorf("send verification code failed: %w", err)
	}

	token, err := jwtutil.GenerateMFAToken(s.jwtSecret, s.mfaExpiration, user.ID, user.Username, challengeID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, MFARequired: true, MFAToken: token}, nil
}

func (s *AuthService) issueAccess(ctx context.Context, user *model.User) (*AuthResult, error) {
	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now
	return &AuthResult{Token: token, User: user}, nil
}

// generateCode returns a uniformly random six digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate verification code failed: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
