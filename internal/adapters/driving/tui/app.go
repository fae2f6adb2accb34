package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/docuchat/docuchat-cli/internal/core/domain"
)

// banner greets the user at the top of a fresh transcript.
const banner = "DocuChat. Escribe tu pregunta o /help para ver los comandos."

// helpText lists the session commands.
const helpText = `Comandos de la sesión:
  /load <archivos...>   Cargar más documentos PDF
  /show <archivo>       Ver los fragmentos indexados de un archivo
  /status               Mostrar el estado de la sesión
  /history              Mostrar el historial de interacciones
  /provider [nombre]    Mostrar o cambiar el proveedor de generación
  /clear                Eliminar todos los documentos y empezar de nuevo
  /help                 Mostrar esta ayuda
  /exit                 Salir de la sesión`

// showPreviewChars caps the per-segment preview of /show output.
const showPreviewChars = 80

// ingestDone reports a finished document batch.
type ingestDone struct {
	result domain.IngestResult
}

// queryDone reports a finished query.
type queryDone struct {
	result domain.QueryResult
}

// App is the chat application model. It implements tea.Model.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *Styles

	input    textinput.Model
	viewport viewport.Model

	transcript   []string
	pendingPaths []string

	busy  bool
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the chat application over the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Escribe tu pregunta"
	ti.CharLimit = 0
	ti.Focus()

	return &App{
		ports:      ports,
		ctx:        context.Background(),
		styles:     DefaultStyles(),
		input:      ti,
		viewport:   viewport.New(0, 0),
		transcript: []string{banner},
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithUploadPaths queues PDF paths to load when the program starts.
func (a *App) WithUploadPaths(paths []string) *App {
	a.pendingPaths = paths
	return a
}

// Init implements tea.Model. Queued uploads start loading immediately.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, tea.SetWindowTitle("docuchat")}
	if len(a.pendingPaths) > 0 {
		if cmd := a.loadPaths(a.pendingPaths); cmd != nil {
			cmds = append(cmds, cmd)
		}
		a.pendingPaths = nil
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case ingestDone:
		a.busy = false
		a.sayIngest(msg.result)
		return a, nil

	case queryDone:
		a.busy = false
		a.sayQuery(msg.result)
		return a, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			return a, tea.Quit
		case tea.KeyEnter:
			return a, a.submit()
		}
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Cargando..."
	}

	status := "Enter envía tu pregunta. Ctrl+C sale."
	if a.busy {
		status = "Generando respuesta..."
	}

	return a.styles.Title.Render("DocuChat") + "\n" +
		a.viewport.View() + "\n" +
		a.styles.InputBox.Render(a.input.View()) + "\n" +
		a.styles.Status.Render(status)
}

// Ready reports whether the first window size arrived.
func (a *App) Ready() bool {
	return a.ready
}

// Busy reports whether a service call is in flight.
func (a *App) Busy() bool {
	return a.busy
}

// Transcript returns the rendered conversation so far.
func (a *App) Transcript() string {
	return strings.Join(a.transcript, "\n")
}

// submit consumes the input line and dispatches it as a slash command
// or a question. Empty lines and input while busy are ignored.
func (a *App) submit() tea.Cmd {
	line := strings.TrimSpace(a.input.Value())
	if line == "" || a.busy {
		return nil
	}
	a.input.Reset()

	if strings.HasPrefix(line, "/") {
		return a.runCommand(line)
	}

	a.say(a.styles.User.Render("> " + line))
	a.busy = true
	return func() tea.Msg {
		return queryDone{result: a.ports.Conversation.Query(a.ctx, line)}
	}
}

// runCommand dispatches one slash command.
func (a *App) runCommand(line string) tea.Cmd {
	fields := strings.Fields(line)

	switch fields[0] {
	case "/exit", "/quit":
		a.say("Hasta luego.")
		return tea.Quit

	case "/help":
		a.say(helpText)

	case "/load":
		if len(fields) < 2 {
			a.sayError("uso: /load <archivos...>")
			return nil
		}
		return a.loadPaths(fields[1:])

	case "/show":
		if len(fields) < 2 {
			a.sayError("uso: /show <archivo>")
			return nil
		}
		a.sayFileSegments(fields[1])

	case "/status":
		a.sayStatus(a.ports.Conversation.Status(a.ctx))

	case "/history":
		a.sayHistory(a.ports.Conversation.History())

	case "/provider":
		if len(fields) < 2 {
			a.sayProviders(a.ports.Providers.Status())
			return nil
		}
		if !a.ports.Providers.SetActive(fields[1]) {
			a.sayError(fmt.Sprintf("proveedor %q no disponible", fields[1]))
			return nil
		}
		a.say(fmt.Sprintf("Proveedor activo: %s", fields[1]))

	case "/clear":
		if err := a.ports.Conversation.ClearSession(a.ctx); err != nil {
			a.sayError(fmt.Sprintf("Error: %v", err))
			return nil
		}
		a.say("Sesión reiniciada. Los documentos se han eliminado.")

	default:
		a.sayError(fmt.Sprintf("comando desconocido: %s", fields[0]))
	}
	return nil
}

// loadPaths reads PDFs from disk and starts ingestion. Unreadable
// paths are reported and skipped so one typo doesn't void the batch.
func (a *App) loadPaths(paths []string) tea.Cmd {
	var uploads []domain.FileUpload
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			a.sayError(fmt.Sprintf("No se pudo leer %s: %v", path, err))
			continue
		}
		uploads = append(uploads, domain.FileUpload{
			Filename: filepath.Base(path),
			Content:  content,
		})
	}
	if len(uploads) == 0 {
		a.say("No hay archivos que cargar.")
		return nil
	}

	a.say(fmt.Sprintf("Procesando %d archivo(s)...", len(uploads)))
	a.busy = true
	return func() tea.Msg {
		return ingestDone{result: a.ports.Conversation.IngestDocuments(a.ctx, uploads)}
	}
}

func (a *App) resize(width, height int) {
	a.ready = true

	_, frameHeight := a.styles.InputBox.GetFrameSize()
	reserved := 2 + frameHeight + 2 // title, input frame, input line, status
	vh := height - reserved
	if vh < 3 {
		vh = 3
	}
	a.viewport.Width = width
	a.viewport.Height = vh
	a.input.Width = width - 6
	a.refresh()
}

// say appends one entry to the transcript and scrolls to it.
func (a *App) say(text string) {
	a.transcript = append(a.transcript, text)
	a.refresh()
}

func (a *App) sayError(text string) {
	a.say(a.styles.Error.Render(text))
}

func (a *App) refresh() {
	a.viewport.SetContent(strings.Join(a.transcript, "\n"))
	a.viewport.GotoBottom()
}

func (a *App) sayIngest(result domain.IngestResult) {
	if !result.Success {
		a.sayError(result.Message)
		return
	}

	var b strings.Builder
	for _, f := range result.FilesSummary {
		fmt.Fprintf(&b, "  %s: %d fragmento(s), %d página(s)\n", f.Filename, f.Chunks, f.Pages)
	}
	if result.DocumentsSummary != "" {
		b.WriteString("\n" + result.DocumentsSummary + "\n")
	}
	b.WriteString("\nListo. Puedes hacer preguntas sobre los documentos.")
	a.say(b.String())
}

func (a *App) sayQuery(result domain.QueryResult) {
	if !result.Success {
		a.say(result.Message)
		return
	}

	a.say(result.Response)
	if len(result.Sources) > 0 {
		a.say(a.styles.Muted.Render(fmt.Sprintf("Fuentes: %s (%d fragmento(s) de contexto)",
			strings.Join(result.Sources, ", "), result.ContextUsed)))
	}
}

func (a *App) sayStatus(status domain.SessionStatus) {
	var b strings.Builder
	fmt.Fprintf(&b, "Sesión:    %s\n", status.SessionID)
	fmt.Fprintf(&b, "Estado:    %s\n", status.State)
	fmt.Fprintf(&b, "Documentos: %d (%d fragmentos)\n", status.Context.TotalDocuments, status.Context.TotalChunks)
	if len(status.Context.AvailableFiles) > 0 {
		fmt.Fprintf(&b, "Archivos:  %s\n", strings.Join(status.Context.AvailableFiles, ", "))
	}
	active := status.Provider.Active
	if active == "" {
		active = "ninguno"
	}
	fmt.Fprintf(&b, "Proveedor: %s\n", active)
	fmt.Fprintf(&b, "Índice:    %s (%d entradas)\n", status.Index.Collection, status.Index.Count)
	fmt.Fprintf(&b, "Historial: %d interacción(es)", status.HistoryLength)
	a.say(b.String())
}

func (a *App) sayHistory(history []domain.HistoryEntry) {
	if len(history) == 0 {
		a.say("Todavía no hay interacciones.")
		return
	}

	var b strings.Builder
	for i, entry := range history {
		if i > 0 {
			b.WriteByte('\n')
		}
		when := entry.Timestamp.Format("15:04:05")
		switch entry.Type {
		case domain.HistoryIngest:
			files := 0
			if entry.Ingest != nil {
				files = entry.Ingest.Summary.TotalFiles
			}
			fmt.Fprintf(&b, "%2d. [%s] carga de %d documento(s)", i+1, when, files)
		case domain.HistoryQuery:
			fmt.Fprintf(&b, "%2d. [%s] %s", i+1, when, entry.Query)
		}
	}
	a.say(b.String())
}

func (a *App) sayProviders(status domain.ProviderStatus) {
	names := make([]string, 0, len(status.Configured))
	for name := range status.Configured {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Proveedores:")
	for _, name := range names {
		marker := " "
		if name == status.Active {
			marker = "*"
		}
		fmt.Fprintf(&b, "\n  %s %s (%s)", marker, name, providerState(status, name))
	}
	a.say(b.String())
}

// providerState describes one provider for the /provider listing.
func providerState(status domain.ProviderStatus, name string) string {
	if !status.Configured[name] {
		return "sin configurar"
	}
	for _, available := range status.Available {
		if available == name {
			return "disponible"
		}
	}
	return "no disponible"
}

// sayFileSegments lists the indexed segments of one source file.
func (a *App) sayFileSegments(filename string) {
	segments, err := a.ports.Index.SegmentsByFile(a.ctx, filename)
	if err != nil {
		a.sayError(fmt.Sprintf("Error: %v", err))
		return
	}
	if len(segments) == 0 {
		a.say(fmt.Sprintf("No hay fragmentos de %s en el índice.", filename))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Fragmentos de %s:", filename)
	for i, seg := range segments {
		preview := strings.Join(strings.Fields(seg.Content), " ")
		if runes := []rune(preview); len(runes) > showPreviewChars {
			preview = string(runes[:showPreviewChars]) + "..."
		}
		fmt.Fprintf(&b, "\n%3d. %s", i+1, preview)
	}
	a.say(b.String())
}
