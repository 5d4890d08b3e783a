package jwtutil

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TypeAccess = "access"
	// TypeMFA marks the short-lived token issued between password check and
	// code verification. It does not grant API access.
	TypeMFA = "mfa"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")
)

type Claims struct {
	UserID      uint   `json:"uid"`
	Username    string `json:"username"`
	Type        string `json:"typ"`
	ChallengeID string `json:"cid,omitempty"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, expiration time.Duration, userID uint, username string) (string, error) {
	return sign(secret, expiration, Claims{UserID: userID, Username: username, Type: TypeAccess})
}

// GenerateMFAToken issues a token bound to a pending code challenge.
func GenerateMFAToken(secret string, expiration time.Duration, userID uint, username, challengeID string) (string, error) {
	return sign(secret, expiration, Claims{
		UserID:      userID,
		Username:    username,
		Type:        TypeMFA,
		ChallengeID: challengeID,
	})
}

func sign(secret string, expiration time.Duration, claims Claims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(claims.UserID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token failed: %w", err)
	}
	return signed, nil
}

// ParseToken accepts access tokens only.
func ParseToken(secret, tokenString string) (*Claims, error) {
	return parse(secret, tokenString, TypeAccess)
}

func ParseMFAToken(secret, tokenString string) (*Claims, error) {
	return parse(secret, tokenString, TypeMFA)
}

func parse(secret, tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	if claims.Type != wantType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
