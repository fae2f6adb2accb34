package driving

import (
	"context"

	"github.com/docuchat/docuchat-cli/internal/core/domain"
)

// ConversationService orchestrates a document chat session.
// Each session owns its own instance; nothing is shared between
// concurrent sessions.
type ConversationService interface {
	// InitializeSession resets everything and returns the fresh snapshot.
	InitializeSession(ctx context.Context, sessionID string) domain.SessionStatus

	// IngestDocuments runs the upload batch through processing and
	// indexing. Failures surface in the result, never as an error.
	IngestDocuments(ctx context.Context, files []domain.FileUpload) domain.IngestResult

	// Query answers a user question against the loaded documents.
	Query(ctx context.Context, text string) domain.QueryResult

	// ClearSession drops documents, history and the index, returning
	// the session to idle.
	ClearSession(ctx context.Context) error

	// Status returns the current session snapshot.
	Status(ctx context.Context) domain.SessionStatus

	// History returns the interaction log, oldest first.
	History() []domain.HistoryEntry
}
