package llm

import "context"

// Provider sends one prompt to a text generation model and returns whatever
// text came back. Callers are responsible for interpreting that text.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name is the provider family, e.g. "gemini".
	Name() string

	// ModelID is the model this provider is configured to call.
	ModelID() string
}

type Request struct {
	// System is the system instruction. Optional.
	System string

	// Prompt is the single user turn.
	Prompt string

	// Schema asks the provider to use its native structured output mode.
	// The provider still returns plain text; nothing is validated here.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Schema is a JSON Schema definition handed to providers that support
// structured output.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Response struct {
	Text  string
	Usage Usage
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names pass through unchanged.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
