package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuchat/docuchat-cli/internal/core/domain"
)

// --- Mock implementations for the driving ports ---

type mockConversation struct {
	status  domain.SessionStatus
	ingest  domain.IngestResult
	query   domain.QueryResult
	history []domain.HistoryEntry

	clearErr error

	lastQuery     string
	ingestedFiles []string
	cleared       bool
}

func (m *mockConversation) InitializeSession(_ context.Context, id string) domain.SessionStatus {
	m.status.SessionID = id
	return m.status
}

func (m *mockConversation) IngestDocuments(_ context.Context, files []domain.FileUpload) domain.IngestResult {
	for _, file := range files {
		m.ingestedFiles = append(m.ingestedFiles, file.Filename)
	}
	return m.ingest
}

func (m *mockConversation) Query(_ context.Context, text string) domain.QueryResult {
	m.lastQuery = text
	result := m.query
	result.Query = text
	return result
}

func (m *mockConversation) ClearSession(_ context.Context) error {
	m.cleared = true
	return m.clearErr
}

func (m *mockConversation) Status(_ context.Context) domain.SessionStatus {
	return m.status
}

func (m *mockConversation) History() []domain.HistoryEntry {
	return m.history
}

type mockRegistry struct {
	status domain.ProviderStatus
	setOK  bool
	active string
}

func (m *mockRegistry) Generate(_ context.Context, _, _ string) string { return "respuesta" }

func (m *mockRegistry) SetActive(name string) bool {
	if m.setOK {
		m.active = name
	}
	return m.setOK
}

func (m *mockRegistry) Active() string                { return m.active }
func (m *mockRegistry) Status() domain.ProviderStatus { return m.status }
func (m *mockRegistry) Refresh(_ context.Context)     {}

type mockIndex struct {
	stats    domain.IndexStats
	segments []domain.ScoredSegment
	segErr   error

	lastFile string
}

func (m *mockIndex) AddSegments(_ context.Context, _ []domain.Segment) error { return nil }

func (m *mockIndex) Search(_ context.Context, _ string, _ int, _ map[string]any) ([]domain.ScoredSegment, error) {
	return nil, nil
}

func (m *mockIndex) SegmentsByFile(_ context.Context, filename string) ([]domain.ScoredSegment, error) {
	m.lastFile = filename
	return m.segments, m.segErr
}

func (m *mockIndex) Clear(_ context.Context) error             { return nil }
func (m *mockIndex) Stats(_ context.Context) domain.IndexStats { return m.stats }
func (m *mockIndex) Available() bool                           { return m.stats.Available }

// --- Helpers ---

func newTestApp(t *testing.T, conv *mockConversation, reg *mockRegistry, idx *mockIndex) *App {
	t.Helper()
	app, err := NewApp(&Ports{Conversation: conv, Providers: reg, Index: idx})
	require.NoError(t, err)
	app.resize(80, 24)
	return app
}

// enterLine types a line into the input and presses Enter, running any
// resulting command to completion through Update.
func enterLine(app *App, line string) tea.Cmd {
	for _, r := range line {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

// runLine feeds a line through the full message loop: input, Enter,
// and whatever message the dispatched command produces.
func runLine(app *App, line string) {
	cmd := enterLine(app, line)
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		app.Update(msg)
	}
}

// --- Tests ---

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(&Ports{
		Conversation: &mockConversation{},
		Providers:    &mockRegistry{},
		Index:        &mockIndex{},
	})

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.False(t, app.Ready())
	assert.Contains(t, app.Transcript(), "DocuChat")
}

func TestNewApp_MissingPorts(t *testing.T) {
	tests := []struct {
		name  string
		ports *Ports
		want  error
	}{
		{"no conversation", &Ports{Providers: &mockRegistry{}, Index: &mockIndex{}}, ErrMissingConversationService},
		{"no providers", &Ports{Conversation: &mockConversation{}, Index: &mockIndex{}}, ErrMissingProviderRegistry},
		{"no index", &Ports{Conversation: &mockConversation{}, Providers: &mockRegistry{}}, ErrMissingIndexService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, err := NewApp(tt.ports)
			assert.Nil(t, app)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestApp_WindowSizeMakesReady(t *testing.T) {
	app, err := NewApp(&Ports{
		Conversation: &mockConversation{},
		Providers:    &mockRegistry{},
		Index:        &mockIndex{},
	})
	require.NoError(t, err)
	assert.Equal(t, "Cargando...", app.View())

	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "DocuChat")
}

func TestApp_Query(t *testing.T) {
	conv := &mockConversation{query: domain.QueryResult{
		Success:     true,
		Response:    "El documento trata sobre finanzas.",
		Sources:     []string{"a.pdf"},
		ContextUsed: 2,
	}}
	app := newTestApp(t, conv, &mockRegistry{}, &mockIndex{})

	cmd := enterLine(app, "¿de qué trata el documento?")
	require.NotNil(t, cmd)
	assert.True(t, app.Busy())

	app.Update(cmd())

	assert.False(t, app.Busy())
	assert.Equal(t, "¿de qué trata el documento?", conv.lastQuery)
	assert.Contains(t, app.Transcript(), "El documento trata sobre finanzas.")
	assert.Contains(t, app.Transcript(), "Fuentes: a.pdf (2 fragmento(s) de contexto)")
}

func TestApp_QueryFailureShowsMessage(t *testing.T) {
	conv := &mockConversation{query: domain.QueryResult{
		Success: false,
		Message: "Primero debes subir documentos PDF para poder hacer preguntas.",
	}}
	app := newTestApp(t, conv, &mockRegistry{}, &mockIndex{})

	runLine(app, "hola")

	assert.Contains(t, app.Transcript(), "Primero debes subir documentos PDF")
}

func TestApp_IgnoresInputWhileBusy(t *testing.T) {
	conv := &mockConversation{query: domain.QueryResult{Success: true, Response: "ok"}}
	app := newTestApp(t, conv, &mockRegistry{}, &mockIndex{})

	first := enterLine(app, "primera pregunta")
	require.NotNil(t, first)

	second := enterLine(app, "segunda pregunta")
	assert.Nil(t, second)

	app.Update(first())
	assert.Equal(t, "primera pregunta", conv.lastQuery)
}

func TestApp_LoadFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "informe.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0600))

	conv := &mockConversation{ingest: domain.IngestResult{
		Success: true,
		FilesSummary: []domain.FileSummary{
			{Filename: "informe.pdf", Chunks: 4, Pages: 2},
		},
		DocumentsSummary: "Un informe breve.",
	}}
	app := newTestApp(t, conv, &mockRegistry{}, &mockIndex{})

	runLine(app, "/load "+path)

	assert.Equal(t, []string{"informe.pdf"}, conv.ingestedFiles)
	assert.Contains(t, app.Transcript(), "informe.pdf: 4 fragmento(s), 2 página(s)")
	assert.Contains(t, app.Transcript(), "Un informe breve.")
	assert.Contains(t, app.Transcript(), "Listo. Puedes hacer preguntas")
}

func TestApp_LoadMissingFile(t *testing.T) {
	conv := &mockConversation{}
	app := newTestApp(t, conv, &mockRegistry{}, &mockIndex{})

	runLine(app, "/load /does/not/exist.pdf")

	assert.Empty(t, conv.ingestedFiles)
	assert.Contains(t, app.Transcript(), "No se pudo leer")
	assert.Contains(t, app.Transcript(), "No hay archivos que cargar.")
}

func TestApp_InitLoadsQueuedPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notas.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0600))

	conv := &mockConversation{ingest: domain.IngestResult{Success: true}}
	app := newTestApp(t, conv, &mockRegistry{}, &mockIndex{})
	app.WithUploadPaths([]string{path})

	cmd := app.Init()
	require.NotNil(t, cmd)
	assert.True(t, app.Busy())
	assert.Contains(t, app.Transcript(), "Procesando 1 archivo(s)...")
}

func TestApp_Clear(t *testing.T) {
	conv := &mockConversation{}
	app := newTestApp(t, conv, &mockRegistry{}, &mockIndex{})

	runLine(app, "/clear")

	assert.True(t, conv.cleared)
	assert.Contains(t, app.Transcript(), "Sesión reiniciada")
}

func TestApp_ClearFailure(t *testing.T) {
	conv := &mockConversation{clearErr: errors.New("disk full")}
	app := newTestApp(t, conv, &mockRegistry{}, &mockIndex{})

	runLine(app, "/clear")

	assert.Contains(t, app.Transcript(), "disk full")
}

func TestApp_ProviderSwitch(t *testing.T) {
	reg := &mockRegistry{setOK: true}
	app := newTestApp(t, &mockConversation{}, reg, &mockIndex{})

	runLine(app, "/provider openai")

	assert.Equal(t, "openai", reg.active)
	assert.Contains(t, app.Transcript(), "Proveedor activo: openai")
}

func TestApp_ProviderSwitchRefused(t *testing.T) {
	app := newTestApp(t, &mockConversation{}, &mockRegistry{setOK: false}, &mockIndex{})

	runLine(app, "/provider gemini")

	assert.Contains(t, app.Transcript(), `proveedor "gemini" no disponible`)
}

func TestApp_ProviderListing(t *testing.T) {
	reg := &mockRegistry{
		active: "ollama",
		status: domain.ProviderStatus{
			Active:     "ollama",
			Available:  []string{"ollama"},
			Configured: map[string]bool{"ollama": true, "openai": false},
		},
	}
	app := newTestApp(t, &mockConversation{}, reg, &mockIndex{})

	runLine(app, "/provider")

	assert.Contains(t, app.Transcript(), "* ollama (disponible)")
	assert.Contains(t, app.Transcript(), "openai (sin configurar)")
}

func TestApp_History(t *testing.T) {
	conv := &mockConversation{history: []domain.HistoryEntry{
		{
			Timestamp: time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
			Type:      domain.HistoryIngest,
			Ingest:    &domain.IngestResult{Summary: domain.BatchResult{TotalFiles: 2}},
		},
		{
			Timestamp: time.Date(2025, 6, 1, 10, 31, 0, 0, time.UTC),
			Type:      domain.HistoryQuery,
			Query:     "¿de qué trata?",
		},
	}}
	app := newTestApp(t, conv, &mockRegistry{}, &mockIndex{})

	runLine(app, "/history")

	assert.Contains(t, app.Transcript(), "carga de 2 documento(s)")
	assert.Contains(t, app.Transcript(), "¿de qué trata?")
}

func TestApp_SessionStatus(t *testing.T) {
	conv := &mockConversation{status: domain.SessionStatus{
		State: domain.StateReadyForQuestions,
		Context: domain.SessionContext{
			FilesLoaded:    true,
			TotalDocuments: 1,
			TotalChunks:    4,
			AvailableFiles: []string{"a.pdf"},
		},
		Provider: domain.ProviderStatus{Active: "ollama"},
		Index:    domain.IndexStats{Collection: "pdf_documents", Count: 4, Available: true},
	}}
	app := newTestApp(t, conv, &mockRegistry{}, &mockIndex{})

	runLine(app, "/status")

	assert.Contains(t, app.Transcript(), "ready_for_questions")
	assert.Contains(t, app.Transcript(), "Documentos: 1 (4 fragmentos)")
	assert.Contains(t, app.Transcript(), "a.pdf")
}

func TestApp_ShowFileSegments(t *testing.T) {
	idx := &mockIndex{segments: []domain.ScoredSegment{
		{Content: "Los ingresos crecieron un 12% en el primer trimestre."},
		{Content: "El margen operativo se mantuvo estable."},
	}}
	app := newTestApp(t, &mockConversation{}, &mockRegistry{}, idx)

	runLine(app, "/show informe.pdf")

	assert.Equal(t, "informe.pdf", idx.lastFile)
	assert.Contains(t, app.Transcript(), "Fragmentos de informe.pdf:")
	assert.Contains(t, app.Transcript(), "Los ingresos crecieron")
	assert.Contains(t, app.Transcript(), "El margen operativo")
}

func TestApp_ShowUnknownFile(t *testing.T) {
	app := newTestApp(t, &mockConversation{}, &mockRegistry{}, &mockIndex{})

	runLine(app, "/show desconocido.pdf")

	assert.Contains(t, app.Transcript(), "No hay fragmentos de desconocido.pdf")
}

func TestApp_ShowFailure(t *testing.T) {
	idx := &mockIndex{segErr: errors.New("database is locked")}
	app := newTestApp(t, &mockConversation{}, &mockRegistry{}, idx)

	runLine(app, "/show informe.pdf")

	assert.Contains(t, app.Transcript(), "database is locked")
}

func TestApp_UnknownCommand(t *testing.T) {
	app := newTestApp(t, &mockConversation{}, &mockRegistry{}, &mockIndex{})

	runLine(app, "/bogus")

	assert.Contains(t, app.Transcript(), "comando desconocido: /bogus")
}

func TestApp_Exit(t *testing.T) {
	app := newTestApp(t, &mockConversation{}, &mockRegistry{}, &mockIndex{})

	cmd := enterLine(app, "/exit")
	require.NotNil(t, cmd)

	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Contains(t, app.Transcript(), "Hasta luego.")
}
