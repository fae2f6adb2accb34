// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The four services mirror the pipeline: IngestService turns uploads
// into segments, IndexService embeds and retrieves them,
// ProviderManager routes generation to the active backend, and
// Orchestrator ties them together into a chat session.
package services
