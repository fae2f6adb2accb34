package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docuchat/docuchat-cli/internal/core/domain"
	"github.com/docuchat/docuchat-cli/internal/core/ports/driven"
	"github.com/docuchat/docuchat-cli/internal/core/ports/driving"
	"github.com/docuchat/docuchat-cli/internal/logger"
)

// Ensure Orchestrator implements the interfaces.
var (
	_ driving.ConversationService = (*Orchestrator)(nil)
	_ driven.PromptStoreAware     = (*Orchestrator)(nil)
)

// previewChars is how much of each document feeds the automatic
// post-ingest overview.
const previewChars = 300

// User-facing outcome messages. The conversation surface is Spanish.
const (
	msgNoDocuments     = "Primero debes subir documentos PDF para poder hacer preguntas."
	msgBusy            = "La sesión está ocupada procesando otra operación. Inténtalo de nuevo en un momento."
	msgNothingIngested = "No se pudo procesar ningún documento. Verifica que los archivos sean PDFs válidos."
	msgNoContext       = "No encontré información relevante en los documentos para responder esa pregunta."
)

// fallbackPrompts keeps the strategies working when no prompt store is
// injected or a named template is missing from it.
var fallbackPrompts = map[string]string{
	driven.PromptGeneral: "Responde la siguiente pregunta de forma clara y concisa, " +
		"basándote únicamente en el contexto proporcionado. " +
		"Si el contexto no contiene la respuesta, dilo claramente.\n\nPregunta: %s",
	driven.PromptSummary:              "Resume el contenido proporcionado destacando los puntos clave de forma estructurada.",
	driven.PromptComprehensiveSummary: "Genera un resumen completo de todos los documentos proporcionados. Organiza el resumen documento por documento.",
	driven.PromptComparison:           "Compara los documentos proporcionados. Señala las similitudes y diferencias principales de forma estructurada.",
	driven.PromptClassification:       "Clasifica el tipo de cada documento proporcionado (por ejemplo: contrato, informe, artículo, manual) y justifica brevemente cada clasificación.",
	driven.PromptDocumentsOverview:    "Escribe una breve descripción general de los documentos cargados a partir de los extractos proporcionados. Dos o tres frases por documento.",
}

// Orchestrator drives a single document chat session through its
// lifecycle: document ingest, intent-routed question answering, and
// session bookkeeping. It is not safe for concurrent use; each session
// owns its own instance.
//
// State changes go through the transition table in the domain package.
// Expected failures (no documents loaded, too few documents to compare,
// a batch that produced nothing) surface as structured results with a
// user-facing message; only infrastructure failures put the session in
// the error state.
type Orchestrator struct {
	sessionID string
	state     domain.ConversationState
	context   domain.SessionContext
	history   []domain.HistoryEntry

	// documents keeps the per-file results of every successful ingest,
	// in load order. Comparison and metadata strategies read from here
	// instead of round-tripping through the index.
	documents []domain.ProcessResult

	ingest    driving.IngestService
	index     driving.IndexService
	providers driving.ProviderRegistry
	prompts   driven.PromptStore
	retrieval domain.RetrievalConfig
}

// OrchestratorOption customises an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithRetrievalConfig overrides the retrieval policy.
func WithRetrievalConfig(cfg domain.RetrievalConfig) OrchestratorOption {
	return func(o *Orchestrator) {
		o.retrieval = cfg
	}
}

// WithPromptStore injects a prompt template source.
func WithPromptStore(store driven.PromptStore) OrchestratorOption {
	return func(o *Orchestrator) {
		o.prompts = store
	}
}

// NewOrchestrator creates a session orchestrator in the idle state.
func NewOrchestrator(
	ingest driving.IngestService,
	index driving.IndexService,
	providers driving.ProviderRegistry,
	opts ...OrchestratorOption,
) *Orchestrator {
	o := &Orchestrator{
		state:     domain.StateIdle,
		ingest:    ingest,
		index:     index,
		providers: providers,
		retrieval: domain.DefaultRetrievalConfig(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SetPromptStore implements driven.PromptStoreAware.
func (o *Orchestrator) SetPromptStore(store driven.PromptStore) {
	o.prompts = store
}

// InitializeSession resets the session and returns the fresh snapshot.
func (o *Orchestrator) InitializeSession(ctx context.Context, sessionID string) domain.SessionStatus {
	o.sessionID = sessionID
	o.state = domain.StateIdle
	o.context = domain.SessionContext{}
	o.history = nil
	o.documents = nil

	logger.Debug("session %s initialised", sessionID)
	return o.Status(ctx)
}

// IngestDocuments runs an upload batch through processing, indexing and
// the automatic overview. Failures come back in the result, never as an
// error: an unusable batch leaves a message, an infrastructure failure
// moves the session to the error state with diagnostic detail.
func (o *Orchestrator) IngestDocuments(ctx context.Context, files []domain.FileUpload) domain.IngestResult {
	if !o.state.CanTransitionTo(domain.StateProcessingDocuments) {
		return domain.IngestResult{
			Success: false,
			State:   o.state,
			Message: msgBusy,
		}
	}
	o.setState(domain.StateProcessingDocuments)

	batch, err := o.ingest.ProcessBatch(ctx, files)
	if err != nil {
		return o.failIngest("procesamiento de documentos", err)
	}
	if batch.TotalFiles == 0 {
		o.setState(domain.StateError)
		result := domain.IngestResult{
			Success: false,
			State:   o.state,
			Message: msgNothingIngested,
		}
		o.appendIngest(result)
		return result
	}

	segments := make([]domain.Segment, 0, batch.TotalChunks)
	for _, r := range batch.Results {
		segments = append(segments, r.Segments...)
	}
	if err := o.index.AddSegments(ctx, segments); err != nil {
		return o.failIngest("indexación de documentos", err)
	}

	o.context.FilesLoaded = true
	o.context.TotalDocuments += batch.TotalFiles
	o.context.TotalChunks += batch.TotalChunks
	o.context.AvailableFiles = append(o.context.AvailableFiles, batch.FilesProcessed...)
	o.documents = append(o.documents, batch.Results...)

	result := domain.IngestResult{
		Success:          true,
		Summary:          *batch,
		FilesSummary:     filesSummary(batch.Results),
		DocumentsSummary: o.generateOverview(ctx),
	}

	o.setState(domain.StateReadyForQuestions)
	result.State = o.state
	o.appendIngest(result)

	logger.Debug("Ingest complete: %d files, %d segments", batch.TotalFiles, batch.TotalChunks)
	return result
}

// Query answers a user question against the loaded documents.
// The query is routed to a strategy by detected intent; the session
// returns to ready once the response is produced.
func (o *Orchestrator) Query(ctx context.Context, text string) domain.QueryResult {
	if o.state != domain.StateReadyForQuestions {
		return domain.QueryResult{
			Success:   false,
			Query:     text,
			Message:   msgNoDocuments,
			Timestamp: time.Now(),
		}
	}
	o.setState(domain.StateGeneratingResponse)

	intent := detectIntent(text)
	logger.Debug("Query intent: %s", intent)

	var result domain.QueryResult
	var err error

	switch intent {
	case domain.IntentMetadata:
		result = o.answerMetadata(text)
	case domain.IntentComparison:
		result = o.answerComparison(ctx, text)
	case domain.IntentSummary:
		result, err = o.answerSummary(ctx, text)
	case domain.IntentClassification:
		result = o.answerClassification(ctx, text)
	default:
		result, err = o.answerGeneral(ctx, text)
	}

	if err != nil {
		o.setState(domain.StateError)
		logger.Warn("Query failed: %v", err)
		result = domain.QueryResult{
			Success:   false,
			Query:     text,
			Intent:    intent,
			Message:   "Ocurrió un error al procesar tu pregunta.",
			Error:     err.Error(),
			Timestamp: time.Now(),
		}
		o.appendQuery(result)
		return result
	}

	result.Query = text
	result.Intent = intent
	result.Timestamp = time.Now()

	o.setState(domain.StateReadyForQuestions)
	o.appendQuery(result)
	return result
}

// ClearSession drops the index, the history and the document context,
// returning the session to idle.
func (o *Orchestrator) ClearSession(ctx context.Context) error {
	if err := o.index.Clear(ctx); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}

	o.context = domain.SessionContext{}
	o.history = nil
	o.documents = nil
	o.setState(domain.StateIdle)

	logger.Debug("session %s cleared", o.sessionID)
	return nil
}

// Status returns the current session snapshot.
func (o *Orchestrator) Status(ctx context.Context) domain.SessionStatus {
	return domain.SessionStatus{
		SessionID:     o.sessionID,
		State:         o.state,
		Context:       o.context,
		Provider:      o.providers.Status(),
		Index:         o.index.Stats(ctx),
		HistoryLength: len(o.history),
	}
}

// History returns the interaction log, oldest first.
func (o *Orchestrator) History() []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, len(o.history))
	copy(out, o.history)
	return out
}

// answerGeneral retrieves context for the question and asks the
// provider. A question with no relevant context still gets an honest
// answer instead of a hallucinated one.
func (o *Orchestrator) answerGeneral(ctx context.Context, text string) (domain.QueryResult, error) {
	docContext, sources, used, err := o.retrieveContext(ctx, text)
	if err != nil {
		return domain.QueryResult{}, err
	}
	if used == 0 {
		return domain.QueryResult{
			Success:  true,
			Response: msgNoContext,
		}, nil
	}

	prompt := fmt.Sprintf(o.loadPrompt(driven.PromptGeneral), text)
	return domain.QueryResult{
		Success:     true,
		Response:    o.providers.Generate(ctx, prompt, docContext),
		Sources:     sources,
		ContextUsed: used,
	}, nil
}

// answerSummary summarises retrieved context, or every loaded document
// when the query asks for all of them.
func (o *Orchestrator) answerSummary(ctx context.Context, text string) (domain.QueryResult, error) {
	if wantsAllDocuments(text) {
		docContext := o.sampleAllDocuments()
		return domain.QueryResult{
			Success:     true,
			Response:    o.providers.Generate(ctx, o.loadPrompt(driven.PromptComprehensiveSummary), docContext),
			Sources:     append([]string(nil), o.context.AvailableFiles...),
			ContextUsed: o.context.TotalDocuments,
		}, nil
	}

	docContext, sources, used, err := o.retrieveContext(ctx, text)
	if err != nil {
		return domain.QueryResult{}, err
	}
	if used == 0 {
		docContext = o.sampleAllDocuments()
		sources = append([]string(nil), o.context.AvailableFiles...)
		used = o.context.TotalDocuments
	}

	return domain.QueryResult{
		Success:     true,
		Response:    o.providers.Generate(ctx, o.loadPrompt(driven.PromptSummary), docContext),
		Sources:     sources,
		ContextUsed: used,
	}, nil
}

// answerComparison compares the loaded documents from per-document
// samples. Fewer than two documents is an expected condition, reported
// with a message.
func (o *Orchestrator) answerComparison(ctx context.Context, text string) domain.QueryResult {
	if o.context.TotalDocuments < 2 {
		return domain.QueryResult{
			Success: false,
			Message: fmt.Sprintf(
				"La comparación requiere al menos 2 documentos. Actualmente hay %d documento(s) cargado(s).",
				o.context.TotalDocuments,
			),
		}
	}

	docContext := o.sampleAllDocuments()
	return domain.QueryResult{
		Success:     true,
		Response:    o.providers.Generate(ctx, o.loadPrompt(driven.PromptComparison), docContext),
		Sources:     append([]string(nil), o.context.AvailableFiles...),
		ContextUsed: o.context.TotalDocuments,
	}
}

// answerClassification classifies each loaded document by type.
func (o *Orchestrator) answerClassification(ctx context.Context, text string) domain.QueryResult {
	docContext := o.sampleAllDocuments()
	return domain.QueryResult{
		Success:     true,
		Response:    o.providers.Generate(ctx, o.loadPrompt(driven.PromptClassification), docContext),
		Sources:     append([]string(nil), o.context.AvailableFiles...),
		ContextUsed: o.context.TotalDocuments,
	}
}

// answerMetadata formats the stored document metadata directly, without
// retrieval or a provider round trip. The answer is deterministic.
func (o *Orchestrator) answerMetadata(text string) domain.QueryResult {
	var b strings.Builder
	b.WriteString("Información de los documentos cargados:\n")
	for _, doc := range o.documents {
		md := doc.Metadata
		fmt.Fprintf(&b, "\n- %s\n", doc.Filename)
		fmt.Fprintf(&b, "  Título: %s\n", md.Title)
		fmt.Fprintf(&b, "  Autor: %s\n", md.Author)
		fmt.Fprintf(&b, "  Páginas: %d\n", md.PageCount)
		if md.CreationDate != "" {
			fmt.Fprintf(&b, "  Fecha de creación: %s\n", md.CreationDate)
		}
		if md.Subject != "" {
			fmt.Fprintf(&b, "  Tema: %s\n", md.Subject)
		}
	}

	return domain.QueryResult{
		Success:  true,
		Response: b.String(),
		Sources:  append([]string(nil), o.context.AvailableFiles...),
	}
}

// retrieveContext pulls the nearest segments for a query, filters weak
// hits and assembles the surviving content into one context block.
// It returns the block, the distinct source filenames and the number of
// segments used.
func (o *Orchestrator) retrieveContext(ctx context.Context, query string) (string, []string, int, error) {
	hits, err := o.index.Search(ctx, query, o.retrieval.K, nil)
	if err != nil {
		return "", nil, 0, fmt.Errorf("retrieving context: %w", err)
	}

	var parts []string
	var sources []string
	seen := make(map[string]bool)

	for _, hit := range hits {
		if hit.Relevance <= o.retrieval.RelevanceThreshold {
			continue
		}
		if len(parts) >= o.retrieval.ContextSegments {
			break
		}
		parts = append(parts, hit.Content)
		if src := hit.SourceFile(); src != "" && !seen[src] {
			seen[src] = true
			sources = append(sources, src)
		}
	}

	return strings.Join(parts, "\n\n"), sources, len(parts), nil
}

// sampleAllDocuments builds a per-document context block from the
// leading segments of every loaded document.
func (o *Orchestrator) sampleAllDocuments() string {
	var b strings.Builder
	for i, doc := range o.documents {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "=== %s ===\n", doc.Filename)

		n := o.retrieval.CompareSampleChunks
		if n > len(doc.Segments) {
			n = len(doc.Segments)
		}
		for j := 0; j < n; j++ {
			if j > 0 {
				b.WriteString("\n")
			}
			b.WriteString(doc.Segments[j].Content)
		}
	}
	return b.String()
}

// generateOverview asks the provider for a short description of the
// loaded documents, built from a preview of each. The overview is best
// effort; with no provider available the registry's message is passed
// through as-is.
func (o *Orchestrator) generateOverview(ctx context.Context) string {
	var b strings.Builder
	for i := range o.documents {
		doc := &o.documents[i]
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "=== %s ===\n%s", doc.Filename, o.ingest.TextPreview(doc, previewChars))
	}

	return o.providers.Generate(ctx, o.loadPrompt(driven.PromptDocumentsOverview), b.String())
}

// loadPrompt resolves a template by name, falling back to the built-in
// default when no store is set or the store cannot serve the name.
func (o *Orchestrator) loadPrompt(name string) string {
	if o.prompts != nil {
		if prompt, err := o.prompts.Load(name); err == nil && prompt != "" {
			return prompt
		}
		logger.Debug("Prompt %q not in store, using built-in default", name)
	}
	return fallbackPrompts[name]
}

// failIngest records an infrastructure failure, moves the session to
// the error state and builds the structured result.
func (o *Orchestrator) failIngest(stage string, err error) domain.IngestResult {
	o.setState(domain.StateError)
	logger.Warn("Ingest failed during %s: %v", stage, err)

	result := domain.IngestResult{
		Success: false,
		State:   o.state,
		Message: fmt.Sprintf("Falló la etapa de %s.", stage),
		Error:   err.Error(),
	}
	o.appendIngest(result)
	return result
}

// setState applies a transition, logging the odd case of a move the
// table does not permit. The error state is always reachable.
func (o *Orchestrator) setState(next domain.ConversationState) {
	if !o.state.CanTransitionTo(next) {
		logger.Warn("Invalid session transition %s -> %s", o.state, next)
		return
	}
	logger.Debug("Session state %s -> %s", o.state, next)
	o.state = next
}

func (o *Orchestrator) appendIngest(result domain.IngestResult) {
	r := result
	o.history = append(o.history, domain.HistoryEntry{
		Timestamp: time.Now(),
		Type:      domain.HistoryIngest,
		Ingest:    &r,
	})
}

func (o *Orchestrator) appendQuery(result domain.QueryResult) {
	r := result
	o.history = append(o.history, domain.HistoryEntry{
		Timestamp: time.Now(),
		Type:      domain.HistoryQuery,
		Query:     result.Query,
		Response:  &r,
	})
}

// filesSummary builds the per-file line items from batch results.
func filesSummary(results []domain.ProcessResult) []domain.FileSummary {
	out := make([]domain.FileSummary, 0, len(results))
	for _, r := range results {
		out = append(out, domain.FileSummary{
			Filename:   r.Filename,
			Chunks:     r.NumChunks,
			TextLength: r.TextLength,
			Pages:      r.Metadata.PageCount,
		})
	}
	return out
}
