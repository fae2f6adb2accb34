// Package cli implements the command-line driving adapter.
// Commands talk to the core exclusively through the driving ports;
// the composition root injects the services before Execute runs.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/docuchat/docuchat-cli/internal/core/ports/driving"
	"github.com/docuchat/docuchat-cli/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

// Injected services. Commands check for nil so a partially wired
// binary fails with a clear message instead of a panic.
var (
	conversationService driving.ConversationService
	providerRegistry    driving.ProviderRegistry
	indexService        driving.IndexService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "docuchat",
	Short: "Chat with your PDF documents",
	Long: `DocuChat ingests PDF documents and answers questions about them
using a local or cloud language model.

Load documents and start asking:

  docuchat chat report.pdf notes.pdf`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

// Services bundles everything the commands need.
type Services struct {
	Conversation driving.ConversationService
	Providers    driving.ProviderRegistry
	Index        driving.IndexService
}

// SetServices injects the driving services into the command tree.
func SetServices(s Services) {
	conversationService = s.Conversation
	providerRegistry = s.Providers
	indexService = s.Index
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
