package driving

import (
	"context"

	"github.com/docuchat/docuchat-cli/internal/core/domain"
)

// ProviderRegistry manages the text-generation backends.
// Exactly one provider is active at a time.
type ProviderRegistry interface {
	// Generate produces a response through the active provider.
	// It always returns usable text: backend failures and a missing
	// active provider come back as descriptive messages, not errors.
	Generate(ctx context.Context, prompt, docContext string) string

	// SetActive switches the active provider. Returns false, leaving
	// the previous selection untouched, when the name is unknown or
	// the provider is unavailable.
	SetActive(name string) bool

	// Active returns the active provider name, or "".
	Active() string

	// Status reports every registered provider.
	Status() domain.ProviderStatus

	// Refresh re-probes availability of all registered providers.
	Refresh(ctx context.Context)
}
