package ports

import "context"

// LLMGateway sends prompts to the language model backend.
//
//go:generate mockgen -source=llm.go -destination=mocks/mock_llm.go -package=mocks
type LLMGateway interface {
	// Ask returns the raw model answer for prompt.
	// An empty answer with a nil error means the backend produced no usable output.
	Ask(ctx context.Context, prompt string) (string, error)
}

// Sanitizer cleans model output before it is stored.
type Sanitizer interface {
	// Sanitize returns text without incidental formatting markers.
	Sanitize(text string) string
}
