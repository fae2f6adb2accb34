package domain

import "time"

// ConversationState is the lifecycle state of a chat session.
type ConversationState string

// Session states.
const (
	// StateIdle is the initial state, before any documents are loaded.
	StateIdle ConversationState = "idle"

	// StateProcessingDocuments is active while a batch is being
	// validated, extracted, chunked and indexed.
	StateProcessingDocuments ConversationState = "processing_documents"

	// StateReadyForQuestions means documents are indexed and the
	// session accepts queries.
	StateReadyForQuestions ConversationState = "ready_for_questions"

	// StateGeneratingResponse is active while a query is answered.
	StateGeneratingResponse ConversationState = "generating_response"

	// StateError is entered on unexpected failure. It is recoverable:
	// a new ingest or a session reset leaves it.
	StateError ConversationState = "error"
)

// validTransitions is the explicit session transition table.
// Every state may enter StateError; StateError recovers through
// reprocessing or a reset to idle.
var validTransitions = map[ConversationState][]ConversationState{
	StateIdle:                {StateProcessingDocuments},
	StateProcessingDocuments: {StateReadyForQuestions, StateIdle},
	StateReadyForQuestions:   {StateGeneratingResponse, StateProcessingDocuments, StateIdle},
	StateGeneratingResponse:  {StateReadyForQuestions},
	StateError:               {StateProcessingDocuments, StateIdle},
}

// CanTransitionTo reports whether moving to next is permitted.
func (s ConversationState) CanTransitionTo(next ConversationState) bool {
	if next == StateError {
		return true
	}
	for _, allowed := range validTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// IsValid returns true if the state is recognised.
func (s ConversationState) IsValid() bool {
	switch s {
	case StateIdle, StateProcessingDocuments, StateReadyForQuestions,
		StateGeneratingResponse, StateError:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s ConversationState) String() string {
	return string(s)
}

// Intent classifies what a user query is asking for.
type Intent string

// Query intents, in detection priority order.
const (
	IntentSummary        Intent = "summary"
	IntentComparison     Intent = "comparison"
	IntentClassification Intent = "classification"
	IntentMetadata       Intent = "metadata"
	IntentGeneral        Intent = "general"
)

// String returns the string representation.
func (i Intent) String() string {
	return string(i)
}

// SessionContext is the accumulated document state of a session.
type SessionContext struct {
	// FilesLoaded is true once at least one document is indexed.
	FilesLoaded bool

	// TotalDocuments is the number of documents ingested.
	TotalDocuments int

	// TotalChunks is the number of segments indexed.
	TotalChunks int

	// AvailableFiles lists the ingested filenames in load order.
	AvailableFiles []string
}

// HistoryEntryType distinguishes history entries.
type HistoryEntryType string

// History entry types.
const (
	HistoryIngest HistoryEntryType = "ingest"
	HistoryQuery  HistoryEntryType = "query"
)

// HistoryEntry is one interaction in the session log.
// History is append-only; entries are never mutated after the fact.
type HistoryEntry struct {
	// Timestamp is when the interaction completed.
	Timestamp time.Time

	// Type says whether this was an ingest or a query.
	Type HistoryEntryType

	// Query is the user's question, for query entries.
	Query string

	// Response holds the query outcome, for query entries.
	Response *QueryResult

	// Ingest holds the batch outcome, for ingest entries.
	Ingest *IngestResult
}

// QueryResult is the structured outcome of answering one query.
// Expected conditions (no documents, not enough documents to compare)
// are reported with Success=false and a Message, never as errors.
type QueryResult struct {
	// Success is true when a response was generated.
	Success bool

	// Query is the original user question.
	Query string

	// Intent is the detected query intent.
	Intent Intent

	// Response is the generated answer text.
	Response string

	// Sources lists the distinct source filenames of retrieved context.
	Sources []string

	// ContextUsed is the number of segments fed to the provider.
	ContextUsed int

	// Timestamp is when the response completed.
	Timestamp time.Time

	// Message explains a Success=false outcome in user terms.
	Message string

	// Error carries diagnostic detail on unexpected failures.
	Error string
}

// IngestResult is the structured outcome of a document batch.
type IngestResult struct {
	// Success is true when at least processing completed without an
	// unexpected failure.
	Success bool

	// State is the session state after the operation.
	State ConversationState

	// Summary aggregates the batch.
	Summary BatchResult

	// FilesSummary holds the per-file line items.
	FilesSummary []FileSummary

	// DocumentsSummary is an automatic provider-written overview of
	// the loaded documents, when a provider was available.
	DocumentsSummary string

	// Message explains a Success=false outcome in user terms.
	Message string

	// Error carries diagnostic detail on unexpected failures.
	Error string
}

// ProviderStatus reports the text-generation backend state.
type ProviderStatus struct {
	// Active is the currently selected provider name, or "".
	Active string

	// Available lists providers that answered their liveness probe.
	Available []string

	// Configured maps every registered provider name to whether it
	// has the configuration it needs (e.g. an API key).
	Configured map[string]bool
}

// IndexStats reports the vector index state.
type IndexStats struct {
	// Collection is the active collection name.
	Collection string

	// Count is the number of stored entries.
	Count int

	// Model is the embedding model in use.
	Model string

	// Available is true when the index can serve operations.
	Available bool
}

// SessionStatus is the full session snapshot returned by Status.
type SessionStatus struct {
	// SessionID identifies the session.
	SessionID string

	// State is the current lifecycle state.
	State ConversationState

	// Context is the accumulated document state.
	Context SessionContext

	// Provider reports the generation backend.
	Provider ProviderStatus

	// Index reports the vector index.
	Index IndexStats

	// HistoryLength is the number of interactions so far.
	HistoryLength int
}
