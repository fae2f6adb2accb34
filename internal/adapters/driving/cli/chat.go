package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/docuchat/docuchat-cli/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat [pdf-files...]",
	Short: "Start an interactive chat session",
	Long: `Start an interactive session. PDF files given as arguments are
loaded before the first prompt.

Session commands:
  /load <files...>   Load more PDF documents
  /show <file>       Show the indexed segments of a file
  /status            Show the session status
  /history           Show the interaction history
  /provider [name]   Show or switch the generation provider
  /clear             Drop all documents and start over
  /help              Show this help
  /exit              Leave the session`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}

	// Panic recovery to get stack traces out of the alt screen.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	conversationService.InitializeSession(cmd.Context(), uuid.New().String())

	app, err := tui.NewApp(&tui.Ports{
		Conversation: conversationService,
		Providers:    providerRegistry,
		Index:        indexService,
	})
	if err != nil {
		return fmt.Errorf("creating chat session: %w", err)
	}
	app.WithContext(cmd.Context())
	if len(args) > 0 {
		app.WithUploadPaths(args)
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat session error: %w", err)
	}
	return nil
}
