package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"learningpal/internal/model"
)

type memorySessionStore struct {
	mu        sync.Mutex
	sessions  map[string]*model.LearningSession
	createErr error
	clock     time.Time
	gets      int
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{
		sessions: map[string]*model.LearningSession{},
		clock:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (s *memorySessionStore) Create(_ context.Context, session *model.LearningSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.clock = s.clock.Add(time.Second)
	session.CreatedAt = s.clock
	copied := *session
	s.sessions[session.SessionID] = &copied
	return nil
}

func (s *memorySessionStore) GetByIDAndUserID(_ context.Context, sessionID string, userID uint) (*model.LearningSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	session, ok := s.sessions[sessionID]
	if !ok || session.UserID != userID {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (s *memorySessionStore) ListSummariesByUserID(_ context.Context, userID uint) ([]model.SessionSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.SessionSummary, 0)
	for _, session := range s.sessions {
		if session.UserID != userID {
			continue
		}
		out = append(out, model.SessionSummary{
			SessionID:     session.SessionID,
			Topic:         session.Topic,
			LearningStyle: session.LearningStyle,
			CreatedAt:     session.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memorySessionStore) DeleteByIDAndUserID(_ context.Context, sessionID string, userID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok || session.UserID != userID {
		return false, nil
	}
	delete(s.sessions, sessionID)
	return true, nil
}

type memorySessionCache struct {
	mu      sync.Mutex
	entries map[string]*model.LearningSession
}

func newMemorySessionCache() *memorySessionCache {
	return &memorySessionCache{entries: map[string]*model.LearningSession{}}
}

func cacheKey(userID uint, sessionID string) string {
	return fmt.Sprintf("%d:%s", userID, sessionID)
}

func (c *memorySessionCache) Get(_ context.Context, userID uint, sessionID string) (*model.LearningSession, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	session, ok := c.entries[cacheKey(userID, sessionID)]
	return session, ok, nil
}

func (c *memorySessionCache) Set(_ context.Context, session *model.LearningSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(session.UserID, session.SessionID)] = session
	return nil
}

func (c *memorySessionCache) Delete(_ context.Context, userID uint, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey(userID, sessionID))
	return nil
}

type memoryEvents struct {
	mu     sync.Mutex
	events []model.GenerationEvent
	err    error
}

func (p *memoryEvents) Publish(_ context.Context, event model.GenerationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type memoryUserStore struct {
	mu     sync.Mutex
	users  []*model.User
	nextID uint
}

func (s *memoryUserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	user.ID = s.nextID
	s.users = append(s.users, user)
	return nil
}

func (s *memoryUserStore) find(match func(*model.User) bool) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			copied := *u
			return &copied
		}
	}
	return nil
}

func (s *memoryUserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	return s.find(func(u *model.User) bool { return u.Username == username }), nil
}

func (s *memoryUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return s.find(func(u *model.User) bool { return u.Email == email }), nil
}

func (s *memoryUserStore) GetByID(_ context.Context, id uint) (*model.User, error) {
	return s.find(func(u *model.User) bool { return u.ID == id }), nil
}

func (s *memoryUserStore) TouchLastLogin(_ context.Context, id uint, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			u.LastLoginAt = &at
			return nil
		}
	}
	return errors.New("user not found")
}

type memoryCodeStore struct {
	mu    sync.Mutex
	codes map[string]string
}

func newMemoryCodeStore() *memoryCodeStore {
	return &memoryCodeStore{codes: map[string]string{}}
}

func (s *memoryCodeStore) Save(_ context.Context, challengeID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[challengeID] = code
	return nil
}

func (s *memoryCodeStore) Verify(_ context.Context, challengeID, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.codes[challengeID]
	if !ok || stored != code {
		return false, nil
	}
	delete(s.codes, challengeID)
	return true, nil
}

type capturingSender struct {
	mu    sync.Mutex
	codes []string
}

func (s *capturingSender) SendCode(_ context.Context, _ *model.User, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes = append(s.codes, code)
	return nil
}

func (s *capturingSender) last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[len(s.codes)-1]
}
