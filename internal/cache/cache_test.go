package cache

import (
	"context"
	"os"
	"testing"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learningpal/internal/learning"
	"learningpal/internal/model"
)

// redisForTest connects to REDIS_TEST_ADDR and skips when it is not set.
func redisForTest(t *testing.T) *redisv9.Client {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client := redisv9.NewClient(&redisv9.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCodeMatches(t *testing.T) {
	stored := HashCode("123456")
	assert.True(t, CodeMatches(stored, "123456"))
	assert.False(t, CodeMatches(stored, "654321"))
	assert.False(t, CodeMatches(stored, ""))
	assert.NotContains(t, stored, "123456")
}

func TestSessionKeyIncludesOwner(t *testing.T) {
	assert.Equal(t, "learning:session:7:abc", sessionKey(7, "abc"))
	assert.NotEqual(t, sessionKey(7, "abc"), sessionKey(8, "abc"))
}

func TestSessionCacheRoundTrip(t *testing.T) {
	client := redisForTest(t)
	c := NewSessionCache(client, time.Minute)
	ctx := context.Background()

	session := model.NewLearningSession("cache-test", 7,
		learning.LearnerInputs{Topic: "Go", Goal: "g", Level: "l", LearningStyle: learning.StyleStudyGuide},
		learning.Generated{Content: learning.ParseFailureMaterial(), Stage: learning.StageFallback, Timestamp: time.Now().UTC()},
	)
	require.NoError(t, c.Set(ctx, session))
	t.Cleanup(func() { _ = c.Delete(ctx, 7, "cache-test") })

	got, ok, err := c.Get(ctx, 7, "cache-test")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, session.Content.Data(), got.Content.Data())

	_, ok, err = c.Get(ctx, 8, "cache-test")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOTPStoreConsumesCode(t *testing.T) {
	client := redisForTest(t)
	s := NewOTPStore(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "challenge-1", "111222"))

	ok, err := s.Verify(ctx, "challenge-1", "000000")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Verify(ctx, "challenge-1", "111222")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Verify(ctx, "challenge-1", "111222")
	require.NoError(t, err)
	assert.False(t, ok)
}
