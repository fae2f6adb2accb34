package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/docuchat/docuchat-cli/internal/core/domain"
	"github.com/docuchat/docuchat-cli/internal/core/ports/driven"
	"github.com/docuchat/docuchat-cli/internal/core/ports/driving"
	"github.com/docuchat/docuchat-cli/internal/logger"
)

// Ensure ProviderManager implements the interface.
var _ driving.ProviderRegistry = (*ProviderManager)(nil)

// pingTimeout is the timeout for provider availability probes.
const pingTimeout = 5 * time.Second

// noProviderMessage is returned when no backend can generate.
const noProviderMessage = "No hay ningún proveedor de IA disponible. " +
	"Verifica que Ollama esté en ejecución o configura una clave de API."

// registeredProvider pairs a backend with its probe outcome.
type registeredProvider struct {
	provider   driven.Provider
	available  bool
	configured bool
}

// ProviderManager routes generation requests to the active backend.
// Exactly one provider is active at a time; switching to an unknown or
// unavailable provider is refused and leaves the selection untouched.
//
// Generate never returns an error: backend failures come back as
// descriptive text so the conversation surface always has something
// to show.
type ProviderManager struct {
	providers map[string]*registeredProvider
	active    string
}

// NewProviderManager creates a manager and probes every provider once.
// The first available provider in preference order becomes active;
// preferred is tried first when given.
func NewProviderManager(ctx context.Context, preferred string, providers ...driven.Provider) *ProviderManager {
	m := &ProviderManager{
		providers: make(map[string]*registeredProvider, len(providers)),
	}

	for _, p := range providers {
		if p == nil {
			continue
		}
		m.providers[p.Name()] = &registeredProvider{provider: p, configured: true}
	}

	m.Refresh(ctx)

	if preferred != "" && m.SetActive(preferred) {
		return m
	}
	for _, name := range m.names() {
		if m.SetActive(name) {
			break
		}
	}
	return m
}

// RegisterUnconfigured records a provider name that exists but lacks
// the configuration it needs, so status output can say why it is off.
func (m *ProviderManager) RegisterUnconfigured(name string) {
	if _, ok := m.providers[name]; !ok {
		m.providers[name] = &registeredProvider{}
	}
}

// Refresh re-probes availability of all registered providers.
func (m *ProviderManager) Refresh(ctx context.Context) {
	logger.Section("Provider Probes")
	for name, rp := range m.providers {
		if rp.provider == nil {
			continue
		}
		probeCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err := rp.provider.Ping(probeCtx)
		cancel()

		rp.available = err == nil
		if err != nil {
			logger.Debug("provider %s unavailable: %v", name, err)
		} else {
			logger.Debug("provider %s available", name)
		}
	}

	// An active provider that went away is deselected.
	if m.active != "" && !m.isAvailable(m.active) {
		logger.Warn("active provider %s no longer available", m.active)
		m.active = ""
	}
}

// Generate produces a response through the active provider.
// It always returns usable text, never an error.
func (m *ProviderManager) Generate(ctx context.Context, prompt, docContext string) string {
	rp, ok := m.providers[m.active]
	if !ok || rp.provider == nil || !rp.available {
		return noProviderMessage
	}

	docContext = truncateContext(docContext, rp.provider.MaxContextChars())

	response, err := rp.provider.Generate(ctx, prompt, docContext)
	if err != nil {
		logger.Warn("provider %s generation failed: %v", m.active, err)
		return fmt.Sprintf("Error al generar la respuesta con %s: %v", m.active, err)
	}
	return response
}

// SetActive switches the active provider. Returns false, leaving the
// previous selection untouched, when the name is unknown or the
// provider is unavailable.
func (m *ProviderManager) SetActive(name string) bool {
	if !m.isAvailable(name) {
		return false
	}
	m.active = name
	logger.Debug("active provider: %s", name)
	return true
}

// Active returns the active provider name, or "".
func (m *ProviderManager) Active() string {
	return m.active
}

// Status reports every registered provider.
func (m *ProviderManager) Status() domain.ProviderStatus {
	status := domain.ProviderStatus{
		Active:     m.active,
		Configured: make(map[string]bool, len(m.providers)),
	}
	for _, name := range m.names() {
		rp := m.providers[name]
		status.Configured[name] = rp.configured
		if rp.available {
			status.Available = append(status.Available, name)
		}
	}
	return status
}

// isAvailable reports whether a named provider passed its last probe.
func (m *ProviderManager) isAvailable(name string) bool {
	rp, ok := m.providers[name]
	return ok && rp.provider != nil && rp.available
}

// names returns registered provider names in stable order.
func (m *ProviderManager) names() []string {
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// truncateContext cuts a context string to the provider's limit,
// marking the cut so the model doesn't see a mid-sentence cliff.
func truncateContext(docContext string, limit int) string {
	if limit <= 0 || len(docContext) <= limit {
		return docContext
	}
	return docContext[:limit] + "..."
}
