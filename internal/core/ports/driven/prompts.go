package driven

// PromptStore provides access to prompt templates for the response
// strategies. Implementations may load prompts from files, embed them
// in the binary, or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
// Document context travels to the Provider separately from the prompt,
// so templates hold instructions only; PromptGeneral is the exception
// and expects a single %s placeholder for the user question.
const (
	// PromptGeneral answers a question from retrieved context.
	PromptGeneral = "general"

	// PromptSummary summarises retrieved content.
	PromptSummary = "summary"

	// PromptComprehensiveSummary summarises every loaded document.
	PromptComprehensiveSummary = "comprehensive_summary"

	// PromptComparison compares the loaded documents.
	PromptComparison = "comparison"

	// PromptClassification classifies the loaded documents by type.
	PromptClassification = "classification"

	// PromptDocumentsOverview writes the automatic post-ingest overview.
	PromptDocumentsOverview = "documents_overview"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
// Services implementing this interface can have their prompt templates customised
// by injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service should use hardcoded default prompts.
	SetPromptStore(store PromptStore)
}
