package cli

import (
	"context"
	"errors"
	"sort"

	"github.com/spf13/cobra"

	"github.com/docuchat/docuchat-cli/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show provider and index status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if providerRegistry == nil || indexService == nil {
		return errors.New("services not configured")
	}

	printProviders(cmd, providerRegistry.Status())

	stats := indexService.Stats(context.Background())
	cmd.Println("\nÍndice:")
	cmd.Printf("  Colección: %s\n", stats.Collection)
	if stats.Model != "" {
		cmd.Printf("  Modelo:    %s\n", stats.Model)
	}
	cmd.Printf("  Entradas:  %d\n", stats.Count)
	if stats.Available {
		cmd.Println("  Estado:    disponible")
	} else {
		cmd.Println("  Estado:    no disponible")
	}

	return nil
}

func printProviders(cmd *cobra.Command, status domain.ProviderStatus) {
	cmd.Println("Proveedores:")
	for _, name := range providerNames(status) {
		marker := " "
		if name == status.Active {
			marker = "*"
		}
		cmd.Printf("  %s %s (%s)\n", marker, name, providerState(status, name))
	}
}

// providerNames returns every registered provider name in stable order.
func providerNames(status domain.ProviderStatus) []string {
	names := make([]string, 0, len(status.Configured))
	for name := range status.Configured {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// providerState describes one provider for status output.
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
