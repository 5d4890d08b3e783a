package cache

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// OTPStore holds one pending MFA code per challenge. Only a hash of the code
// is stored, and a code is consumed by the first successful verification.
type OTPStore struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewOTPStore(client *redisv9.Client, ttl time.Duration) *OTPStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &OTPStore{client: client, ttl: ttl}
}

func (s *OTPStore) Save(ctx context.Context, challengeID, code string) error {
	if err := s.client.Set(ctx, otpKey(challengeID), HashCode(code), s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set otp failed: %w", err)
	}
	return nil
}

// Verify reports whether code matches the pending code for challengeID and
// deletes it when it does.
func (s *OTPStore) Verify(ctx context.Context, challengeID, code string) (bool, error) {
	key := otpKey(challengeID)
	stored, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redisv9.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get otp failed: %w", err)
	}
	if !CodeMatches(stored, code) {
		return false, nil
	}
	// Del returns 0 if a concurrent verification already consumed the code.
	n, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis delete otp failed: %w", err)
	}
	return n == 1, nil
}

func HashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// CodeMatches compares a stored hash with a submitted code in constant time.
func CodeMatches(storedHash, code string) bool {
	return subtle.ConstantTimeCompare([]byte(storedHash), []byte(HashCode(code))) == 1
}

func otpKey(challengeID string) string {
	return "auth:mfa:otp:" + challengeID
}
