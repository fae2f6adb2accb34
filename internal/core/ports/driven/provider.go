package driven

import "context"

// Provider generates responses from a language model backend.
//
// Implementations may include:
//   - Ollama (local models)
//   - OpenAI (cloud API)
//
// Availability is probed at registration time via Ping; the manager
// never routes to a provider that failed its probe.
type Provider interface {
	// Generate produces a response for the prompt, optionally grounded
	// in retrieved context. Context longer than MaxContextChars is
	// truncated by the caller before prompt assembly.
	Generate(ctx context.Context, prompt, docContext string) (string, error)

	// Name returns the provider's registry name.
	Name() string

	// MaxContextChars is the largest context string this backend can
	// usefully accept. Smaller for local models with tight windows.
	MaxContextChars() int

	// Ping validates the backend is reachable by making a lightweight
	// test request, without running inference.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
