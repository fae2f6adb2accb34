package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuchat/docuchat-cli/internal/core/domain"
	"github.com/docuchat/docuchat-cli/internal/core/ports/driving"
)

// --- Fakes for the driving ports ---

type fakeConversation struct {
	status  domain.SessionStatus
	ingest  domain.IngestResult
	query   domain.QueryResult
	history []domain.HistoryEntry

	clearErr error

	lastQuery     string
	ingestedFiles []string
	cleared       bool
}

func (f *fakeConversation) InitializeSession(_ context.Context, id string) domain.SessionStatus {
	f.status.SessionID = id
	return f.status
}

func (f *fakeConversation) IngestDocuments(_ context.Context, files []domain.FileUpload) domain.IngestResult {
	for _, file := range files {
		f.ingestedFiles = append(f.ingestedFiles, file.Filename)
	}
	return f.ingest
}

func (f *fakeConversation) Query(_ context.Context, text string) domain.QueryResult {
	f.lastQuery = text
	result := f.query
	result.Query = text
	return result
}

func (f *fakeConversation) ClearSession(_ context.Context) error {
	f.cleared = true
	return f.clearErr
}

func (f *fakeConversation) Status(_ context.Context) domain.SessionStatus {
	return f.status
}

func (f *fakeConversation) History() []domain.HistoryEntry {
	return f.history
}

type fakeRegistry struct {
	status domain.ProviderStatus
	setOK  bool
	active string
}

func (f *fakeRegistry) Generate(_ context.Context, _, _ string) string { return "respuesta" }

func (f *fakeRegistry) SetActive(name string) bool {
	if f.setOK {
		f.active = name
	}
	return f.setOK
}

func (f *fakeRegistry) Active() string                { return f.active }
func (f *fakeRegistry) Status() domain.ProviderStatus { return f.status }
func (f *fakeRegistry) Refresh(_ context.Context)     {}

type fakeIndex struct {
	stats domain.IndexStats
}

func (f *fakeIndex) AddSegments(_ context.Context, _ []domain.Segment) error { return nil }

func (f *fakeIndex) Search(_ context.Context, _ string, _ int, _ map[string]any) ([]domain.ScoredSegment, error) {
	return nil, nil
}

func (f *fakeIndex) SegmentsByFile(_ context.Context, _ string) ([]domain.ScoredSegment, error) {
	return nil, nil
}

func (f *fakeIndex) Clear(_ context.Context) error             { return nil }
func (f *fakeIndex) Stats(_ context.Context) domain.IndexStats { return f.stats }
func (f *fakeIndex) Available() bool                           { return f.stats.Available }

// --- Helpers ---

func withServices(t *testing.T, conv driving.ConversationService, reg driving.ProviderRegistry, idx driving.IndexService) {
	t.Helper()
	oldC, oldR, oldI := conversationService, providerRegistry, indexService
	SetServices(Services{Conversation: conv, Providers: reg, Index: idx})
	t.Cleanup(func() {
		conversationService, providerRegistry, indexService = oldC, oldR, oldI
	})
}

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

// --- Tests ---

// The interactive session itself lives in the tui package; here only
// the launcher wiring is covered.

func TestChatCommand_NotConfigured(t *testing.T) {
	withServices(t, nil, nil, nil)

	_, err := runCommand(t, "", "chat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
