package translator

import "context"

// ============================================================================
// TRANSLATOR — AI boundary for natural language → algebra expression
// ============================================================================
// The Generator is the ONLY component that calls an external AI service.
// It receives the user's question plus a printed schema sample, and returns
// one candidate expression. It NEVER sees the full dataset — only the sample
// rows the engine chose to show it.
//
// Generated text is untrusted. It goes nowhere except the algebra parser.
// ============================================================================

// GenerateRequest carries everything one generation attempt needs.
type GenerateRequest struct {
	// Query is the user's natural language question.
	Query string
	// Sample is the printed schema sample the model grounds itself on.
	Sample string
	// PriorError is the most recent validation or execution failure,
	// empty on the first attempt. Only the latest error is carried —
	// never the full attempt history.
	PriorError string
	// Model overrides the provider's default model when non-empty.
	Model string
}

// Generator produces one candidate expression per call.
//
// A transport or provider error, and an empty reply, both mean the service
// has nothing usable to offer: callers treat either as terminal for the
// whole run and must not re-invoke generation to compensate.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// Config holds generator configuration.
type Config struct {
	APIKey   string // AI provider API key (consumer's key)
	Model    string // Model name (e.g., "gemini-2.0-flash")
	Endpoint string // API endpoint override (empty = default)
}

// DefaultConfig returns a Config with sensible Gemini defaults.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:   apiKey,
		Model:    "gemini-2.0-flash",
		Endpoint: "https://generativelanguage.googleapis.com/v1beta/models",
	}
}
