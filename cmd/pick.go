package cmd

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fieldworks/apkex/internal/ui"
)

// CmdPick defines the 'pick' command.
var CmdPick = &cobra.Command{
	Use:   "pick [flags]",
	Short: "Pick and export apps interactively",
	Args:  cobra.NoArgs,
	Run:   runPick,
}

// Initialize command options
func init() {
	CmdPick.Flags().Bool("system", false, "include system apps")
}

// runPick is called when the 'pick' sub-command is used.
func runPick(cmd *cobra.Command, _ []string) {
	includeSystem, _ := cmd.Flags().GetBool("system")

	// Assemble the coordinator
	store, cleanup, err := newStore(cmd.Context(), includeSystem, "")
	if err != nil {
		slog.Error("Failed to open package source", slog.Any("error", err))
		os.Exit(1)
	}

	defer cleanup()

	// Run the picker; it loads the inventory itself
	program := tea.NewProgram(ui.New(store), tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		slog.Error("Failed to run picker", slog.Any("error", err))
		os.Exit(1)
	}
}
