package llm

import (
	"context"
	"time"

	"learningpal/internal/platform/logger"
)

// LoggingProvider logs every call with its latency and outcome. Prompt and
// response bodies are not logged, only their sizes.
type LoggingProvider struct {
	inner Provider
	log   *logger.Logger
}

func WithLogging(p Provider, log *logger.Logger) Provider {
	return &LoggingProvider{inner: p, log: log.Named("llm")}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	kv := []any{
		"provider", l.inner.Name(),
		"model", l.inner.ModelID(),
		"latency_ms", time.Since(start).Milliseconds(),
		"prompt_chars", len(req.Prompt),
		"structured", req.Schema != nil,
	}
	if err != nil {
		l.log.Warn("llm call failed", append(kv, "error", err)...)
		return nil, err
	}
	l.log.Info("llm call finished", append(kv,
		"response_chars", len(resp.Text),
		"stop_reason", resp.StopReason,
		"usage_input", resp.Usage.InputTokens,
		"usage_output", resp.Usage.OutputTokens,
	)...)
	return resp, nil
}

func (l *LoggingProvider) Name() string    { return l.inner.Name() }
func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }
