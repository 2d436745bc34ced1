package cmd

import (
	"log/slog"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fieldworks/apkex/internal/inventory"
)

// CmdExtract defines the 'extract' command.
var CmdExtract = &cobra.Command{
	Use:   "extract [flags] [identifier ...]",
	Short: "Export the install packages of the given apps",
	Run:   runExtract,
}

// Initialize command options
func init() {
	CmdExtract.Flags().Bool("system", false, "include system apps")
	CmdExtract.Flags().Bool("all", false, "export every listed app")
	CmdExtract.Flags().StringP("out", "o", "", "destination folder (overrides the configured one)")
}

// runExtract is called when the 'extract' sub-command is used.
func runExtract(cmd *cobra.Command, args []string) {
	includeSystem, _ := cmd.Flags().GetBool("system")
	all, _ := cmd.Flags().GetBool("all")
	out, _ := cmd.Flags().GetString("out")

	if !all && len(args) == 0 {
		slog.Error("Nothing to export, name identifiers or pass --all")
		os.Exit(1)
	}

	// Assemble the coordinator
	store, cleanup, err := newStore(cmd.Context(), includeSystem, out)
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

	// Build the selection
	if all {
		store.ToggleSelectAll()
	} else {
		byIdentifier := make(map[string]*inventory.Application)
		for _, app := range store.Apps() {
			byIdentifier[app.Identifier] = app
		}

		for _, identifier := range args {
			app, ok := byIdentifier[identifier]
			if !ok {
				slog.Error("Application not found", slog.String("identifier", identifier))
				os.Exit(1)
			}

			store.ToggleSelect(app)
		}
	}

	// Export the selection against one shared destination
	batch := store.ExtractSelected(cmd.Context())

	for _, outcome := range batch.Outcomes {
		if outcome.Extracted() {
			pterm.Success.Printfln("%s -> %s", outcome.App.Identifier, outcome.File)
		} else {
			pterm.Error.Printfln("%s: %s", outcome.App.Identifier, outcome.Kind)
		}
	}

	switch batch.Kind {
	case inventory.BatchAllExtracted:
		pterm.Success.Printfln("Exported %d of %d packages", batch.Extracted(), len(batch.Outcomes))

	case inventory.BatchPermissionDenied:
		pterm.Error.Printfln("Export denied, no destination or a denied write")
		os.Exit(1)

	default:
		pterm.Warning.Printfln("Exported %d of %d packages", batch.Extracted(), len(batch.Outcomes))
		os.Exit(1)
	}
}
