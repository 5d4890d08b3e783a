package llm

import (
	"fmt"
	"time"
)

// ErrRateLimit means the provider rejected the call with a quota or rate
// limit error.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse means the provider answered but the answer carried no
// usable text.
type ErrInvalidResponse struct {
	Err error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers network, auth and server side failures.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded is returned only when the token limit was hit before
// any text was produced. Truncated text is returned as a normal Response.
type ErrMaxTokensExceeded struct {
	MaxTokens int
}

func (e *ErrMaxTokensExceeded) Error() string {
	return fmt.Sprintf("LLM response empty: max tokens (%d) exceeded", e.MaxTokens)
}

// checkText turns an empty answer into a typed error.
func checkText(text, stopReason string, maxTokens int) error {
	if text != "" {
		return nil
	}
	if stopReason == "max_tokens" {
		return &ErrMaxTokensExceeded{MaxTokens: maxTokens}
	}
	return &ErrInvalidResponse{Err: fmt.Errorf("empty response text")}
}
