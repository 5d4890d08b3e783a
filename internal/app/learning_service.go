package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"learningpal/internal/learning"
	"learningpal/internal/llm"
	"learningpal/internal/model"
	"learningpal/internal/platform/logger"
)

var ErrSessionNotFound = errors.New("learning session not found")

const (
	maxTopicRunes          = 500
	maxLevelRunes          = 100
	maxGoalRunes           = 4000
	maxSourceDocumentBytes = 2 << 20
)

// SessionStore persists learning sessions. Every lookup is scoped by owner.
type SessionStore interface {
	Create(ctx context.Context, session *model.LearningSession) error
	GetByIDAndUserID(ctx context.Context, sessionID string, userID uint) (*model.LearningSession, error)
	ListSummariesByUserID(ctx context.Context, userID uint) ([]model.SessionSummary, error)
	DeleteByIDAndUserID(ctx context.Context, sessionID string, userID uint) (bool, error)
}

type SessionCache interface {
	Get(ctx context.Context, userID uint, sessionID string) (*model.LearningSession, bool, error)
	Set(ctx context.Context, session *model.LearningSession) error
	Delete(ctx context.Context, userID uint, sessionID string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event model.GenerationEvent) error
}

type LearningOptions struct {
	MaxTokens        int
	Temperature      float64
	StructuredOutput bool
	MaxSourceChars   int
	ModelTimeout     time.Duration
	StoreTimeout     time.Duration
}

type LearningService struct {
	store      SessionStore
	provider   llm.Provider
	normalizer *learning.Normalizer
	opts       LearningOptions
	log        *logger.Logger
	tracer     trace.Tracer

	cache  SessionCache
	events EventPublisher
}

type GenerateInput struct {
	UserID         uint
	Topic          string
	Goal           string
	Level          string
	LearningStyle  string
	SourceDocument string
}

type GenerateResult struct {
	SessionID string
	Generated learning.Generated
	CreatedAt time.Time
}

func NewLearningService(store SessionStore, provider llm.Provider, normalizer *learning.Normalizer, opts LearningOptions, log *logger.Logger) *LearningService {
	if opts.ModelTimeout <= 0 {
		opts.ModelTimeout = 60 * time.Second
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = 5 * time.Second
	}
	return &LearningService{
		store:      store,
		provider:   provider,
		normalizer: normalizer,
		opts:       opts,
		log:        log.Named("learning"),
		tracer:     otel.Tracer("learningpal/internal/app"),
	}
}

// WithCache enables read-through caching of full sessions.
func (s *LearningService) WithCache(cache SessionCache) *LearningService {
	s.cache = cache
	return s
}

// WithEvents enables generation events.
func (s *LearningService) WithEvents(events EventPublisher) *LearningService {
	s.events = events
	return s
}

// Generate builds the prompt, calls the model and stores whatever the
// normalizer recovers. Model failures still create a session carrying the
// error material. Only validation and persistence failures are returned.
func (s *LearningService) Generate(ctx context.Context, input GenerateInput) (*GenerateResult, error) {
	in, err := validateInputs(input)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "learning.generate", trace.WithAttributes(
		attribute.String("learning.style", string(in.LearningStyle)),
		attribute.Bool("learning.has_source", in.SourceDocument != ""),
	))
	defer span.End()

	prompt := learning.BuildPrompt(in, s.opts.MaxSourceChars)
	start := time.Now()
	generated, responseChars := s.callModel(ctx, prompt)
	latency := time.Since(start)
	span.SetAttributes(
		attribute.String("learning.stage", string(generated.Stage)),
		attribute.Bool("learning.error", generated.Error),
	)

	session := model.NewLearningSession(uuid.NewString(), input.UserID, in, generated)
	if err := s.persist(ctx, session); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "persist session failed")
		return nil, err
	}

	s.publish(ctx, model.GenerationEvent{
		SessionID:     session.SessionID,
		UserID:        session.UserID,
		Provider:      s.provider.Name(),
		Model:         s.provider.ModelID(),
		Stage:         string(generated.Stage),
		Error:         generated.Error,
		LatencyMS:     latency.Milliseconds(),
		PromptChars:   utf8.RuneCountInString(prompt),
		ResponseChars: responseChars,
	})

	s.log.Info("learning session created",
		"session_id", session.SessionID,
		"user_id", session.UserID,
		"stage", generated.Stage,
		"error", generated.Error,
		"latency_ms", latency.Milliseconds(),
	)
	return &GenerateResult{
		SessionID: session.SessionID,
		Generated: generated,
		CreatedAt: session.CreatedAt,
	}, nil
}

func (s *LearningService) callModel(ctx context.Context, prompt string) (learning.Generated, int) {
	ctx, span := s.tracer.Start(ctx, "learning.model_call", trace.WithAttributes(
		attribute.String("llm.provider", s.provider.Name()),
		attribute.String("llm.model", s.provider.ModelID()),
	))
	defer span.End()

	callCtx, cancel := context.WithTimeout(ctx, s.opts.ModelTimeout)
	defer cancel()

	req := llm.Request{
		Prompt:      prompt,
		MaxTokens:   s.opts.MaxTokens,
		Temperature: s.opts.Temperature,
	}
	if s.opts.StructuredOutput {
		req.Schema = &llm.Schema{
			Name:        learning.MaterialType,
			Description: "Flashcards, quiz, study guide and assignment for one topic",
			Definition:  learning.MaterialSchema(),
		}
	}

	resp, err := s.provider.Generate(callCtx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "model call failed")
		s.log.Warn("model call failed", "provider", s.provider.Name(), "error", err)
		return s.normalizer.UpstreamFailure(), 0
	}

	generated := s.normalizer.Normalize(resp.Text)
	if err := learning.ValidateShape(generated.Content); err != nil {
		s.log.Error("normalized material failed shape check", "stage", generated.Stage, "error", err)
	}
	if generated.Stage != learning.StageDirect {
		s.log.Warn("model response needed recovery",
			"stage", generated.Stage,
			"response_chars", utf8.RuneCountInString(resp.Text),
		)
	}
	return generated, utf8.RuneCountInString(resp.Text)
}

func (s *LearningService) persist(ctx context.Context, session *model.LearningSession) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()
	if err := s.store.Create(ctx, session); err != nil {
		return fmt.Errorf("persist learning session failed: %w", err)
	}
	return nil
}

func (s *LearningService) publish(ctx context.Context, event model.GenerationEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("publish generation event failed", "session_id", event.SessionID, "error", err)
	}
}

// GetSession returns the session only to its owner. Anything else, including
// a malformed id, is ErrSessionNotFound.
func (s *LearningService) GetSession(ctx context.Context, userID uint, sessionID string) (*model.LearningSession, error) {
	sessionID, ok := normalizeSessionID(sessionID)
	if userID == 0 || !ok {
		return nil, ErrSessionNotFound
	}

	if s.cache != nil {
		cached, hit, err := s.cache.Get(ctx, userID, sessionID)
		if err != nil {
			s.log.Warn("session cache read failed", "session_id", sessionID, "error", err)
		} else if hit {
			return cached, nil
		}
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()
	session, err := s.store.GetByIDAndUserID(storeCtx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, session); err != nil {
			s.log.Warn("session cache write failed", "session_id", sessionID, "error", err)
		}
	}
	return session, nil
}

// ListSessions returns the user's session summaries, newest first.
func (s *LearningService) ListSessions(ctx context.Context, userID uint) ([]model.SessionSummary, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	ctx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()
	return s.store.ListSummariesByUserID(ctx, userID)
}

func (s *LearningService) DeleteSession(ctx context.Context, userID uint, sessionID string) error {
	sessionID, ok := normalizeSessionID(sessionID)
	if userID == 0 || !ok {
		return ErrSessionNotFound
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()
	deleted, err := s.store.DeleteByIDAndUserID(storeCtx, sessionID, userID)
	if err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, userID, sessionID); err != nil {
			s.log.Warn("session cache delete failed", "session_id", sessionID, "error", err)
		}
	}
	if !deleted {
		return ErrSessionNotFound
	}
	s.log.Info("learning session deleted", "session_id", sessionID, "user_id", userID)
	return nil
}

func normalizeSessionID(raw string) (string, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func validateInputs(input GenerateInput) (learning.LearnerInputs, error) {
	in := learning.LearnerInputs{
		Topic:          strings.TrimSpace(input.Topic),
		Goal:           strings.TrimSpace(input.Goal),
		Level:          strings.TrimSpace(input.Level),
		SourceDocument: strings.TrimSpace(input.SourceDocument),
	}
	if input.UserID == 0 {
		return in, fmt.Errorf("%w: missing user", ErrInvalidInput)
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"topic", in.Topic},
		{"goal", in.Goal},
		{"level", in.Level},
		{"learningStyle", strings.TrimSpace(input.LearningStyle)},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return in, fmt.Errorf("%w: missing %s", ErrInvalidInput, strings.Join(missing, ", "))
	}

	switch {
	case utf8.RuneCountInString(in.Topic) > maxTopicRunes:
		return in, fmt.Errorf("%w: topic exceeds %d characters", ErrInvalidInput, maxTopicRunes)
	case utf8.RuneCountInString(in.Level) > maxLevelRunes:
		return in, fmt.Errorf("%w: level exceeds %d characters", ErrInvalidInput, maxLevelRunes)
	case utf8.RuneCountInString(in.Goal) > maxGoalRunes:
		return in, fmt.Errorf("%w: goal exceeds %d characters", ErrInvalidInput, maxGoalRunes)
	case len(in.SourceDocument) > maxSourceDocumentBytes:
		return in, fmt.Errorf("%w: source document too large", ErrInvalidInput)
	}

	style, err := learning.ParseLearningStyle(input.LearningStyle)
	if err != nil {
		return in, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	in.LearningStyle = style
	return in, nil
}
