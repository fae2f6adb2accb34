package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/docuchat/docuchat-cli/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// promptsFilename is the TOML file the store reads and seeds.
const promptsFilename = "prompts.toml"

// PromptStore loads strategy prompts from a user-editable TOML file.
// Missing names fall back to embedded defaults, so a partial or broken
// file never disables a strategy.
//
// The store uses lazy initialisation - the file is only created when
// first accessed, not in the constructor. This makes testing easier
// and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	configDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains the embedded default templates.
// These are used when the user file lacks an entry and as the initial
// content for a fresh file.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
// Retrieved context travels to the provider separately, so only the
// general template carries a placeholder (for the question itself).
var defaultPrompts = map[string]string{
	driven.PromptGeneral: `Responde la siguiente pregunta de forma clara y concisa, basándote únicamente en el contexto proporcionado. Si el contexto no contiene la respuesta, dilo claramente.

Pregunta: %s`,

	driven.PromptSummary: `Resume el contenido proporcionado destacando los puntos clave de forma estructurada.`,

	driven.PromptComprehensiveSummary: `Genera un resumen completo de todos los documentos proporcionados. Organiza el resumen documento por documento.`,

	driven.PromptComparison: `Compara los documentos proporcionados. Señala las similitudes y diferencias principales de forma estructurada.`,

	driven.PromptClassification: `Clasifica el tipo de cada documento proporcionado (por ejemplo: contrato, informe, artículo, manual) y justifica brevemente cada clasificación.`,

	driven.PromptDocumentsOverview: `Escribe una breve descripción general de los documentos cargados a partir de los extractos proporcionados. Dos o tres frases por documento.`,
}

// NewPromptStore creates a new TOML-backed prompt store.
// If configDir is empty, defaults to ~/.docuchat.
//
// The constructor does not perform any I/O - directory creation and
// the file write happen lazily on first Load() call.
func NewPromptStore(configDir string) (*PromptStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".docuchat")
	}

	return &PromptStore{
		configDir: configDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the config directory and seeds the file
// with defaults. Falls back to the embedded default when the file
// lacks the entry or cannot be read.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if len(s.cache) == 0 {
		s.mu.RUnlock()
		if err := s.loadFile(); err != nil {
			if prompt, ok := defaultPrompts[name]; ok {
				return prompt, nil
			}
			return "", fmt.Errorf("load prompts: %w", err)
		}
		s.mu.RLock()
	}
	prompt, ok := s.cache[name]
	s.mu.RUnlock()

	if ok && strings.TrimSpace(prompt) != "" {
		return prompt, nil
	}
	if prompt, ok := defaultPrompts[name]; ok {
		return prompt, nil
	}
	return "", fmt.Errorf("unknown prompt %q", name)
}

// Reload clears the prompt cache, forcing a fresh read from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Path returns the prompts file path.
func (s *PromptStore) Path() string {
	return filepath.Join(s.configDir, promptsFilename)
}

// initialise creates the config directory and seeds the prompt file.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.configDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create config directory: %w", err)
		return
	}

	path := s.Path()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return
	}

	data, err := toml.Marshal(defaultPrompts)
	if err != nil {
		s.initErr = fmt.Errorf("marshal default prompts: %w", err)
		return
	}

	header := "# DocuChat prompt templates.\n" +
		"# Edit any entry to customise strategy behaviour; %s placeholders\n" +
		"# must be kept in position. Deleting an entry restores its default.\n\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0600); err != nil {
		s.initErr = fmt.Errorf("seed prompts file: %w", err)
	}
}

// loadFile reads and caches the whole prompts file.
func (s *PromptStore) loadFile() error {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		return err
	}

	parsed := make(map[string]string)
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parse %s: %w", promptsFilename, err)
	}

	s.mu.Lock()
	for name, prompt := range parsed {
		s.cache[name] = strings.TrimSpace(prompt)
	}
	s.mu.Unlock()
	return nil
}
