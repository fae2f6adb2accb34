// Package tui implements the interactive chat surface as a driving
// adapter. It follows the Elm architecture via Bubble Tea: the model
// reacts to messages, service calls run as commands, and the view is
// re-rendered from state.
package tui

import (
	"github.com/docuchat/docuchat-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports the chat surface needs.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Conversation orchestrates the document chat session.
	Conversation driving.ConversationService

	// Providers manages the text-generation backends.
	Providers driving.ProviderRegistry

	// Index serves segment lookups for the /show command.
	Index driving.IndexService
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Conversation == nil {
		return ErrMissingConversationService
	}
	if p.Providers == nil {
		return ErrMissingProviderRegistry
	}
	if p.Index == nil {
		return ErrMissingIndexService
	}
	return nil
}
