package cmd

import (
	"log/slog"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// CmdList defines the 'list' command.
var CmdList = &cobra.Command{
	Use:   "list [flags]",
	Short: "List all apps on the device",
	Args:  cobra.NoArgs,
	Run:   runList,
}

// Initialize command options
func init() {
	CmdList.Flags().Bool("system", false, "include system apps")
	CmdList.Flags().StringP("search", "s", "", "fuzzy filter on name and identifier")
}

// runList is called when the 'list' sub-command is used.
func runList(cmd *cobra.Command, _ []string) {
	includeSystem, _ := cmd.Flags().GetBool("system")
	query, _ := cmd.Flags().GetString("search")

	// Assemble the coordinator
	store, cleanup, err := newStore(cmd.Context(), includeSystem, "")
	if err != nil {
		slog.Error("Failed to open package source", slog.Any("error", err))
		os.Exit(1)
	}

	defer cleanup()

	// Load the inventory
	if err := loadWithProgress(cmd.Context(), store); err != nil {
		slog.Error("Failed to load packages", slog.Any("error", err))
		os.Exit(1)
	}

	// Apply the filter; an empty query leaves the full inventory
	store.Search(query)

	// Render the displayable list
	rows := pterm.TableData{{"Name", "Identifier", "Version", "Path"}}
	for _, app := range store.Displayable() {
		rows = append(rows, []string{app.Name, app.Identifier, app.Version, app.Path})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		slog.Error("Failed to render table", slog.Any("error", err))
		os.Exit(1)
	}
}
