// Package export resolves the destination folder exported packages are
// written to, and writes them there.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/viper"
)

// destinationKey is the configuration key the chosen folder persists under.
const destinationKey = "export.destination"

// Locator resolves and persists the export destination folder. The last
// chosen folder is stored in the configuration file, so the user is asked
// at most once.
type Locator struct {
	config *viper.Viper
	prompt func(ctx context.Context) (string, error)
}

// NewLocator creates a locator backed by the given configuration.
func NewLocator(config *viper.Viper) *Locator {
	return &Locator{config: config, prompt: promptForFolder}
}

// Current returns the persisted destination, if one was chosen before.
func (l *Locator) Current() (string, bool) {
	dest := l.config.GetString(destinationKey)

	return dest, dest != ""
}

// Ensure returns the persisted destination, prompting the user for one the
// first time and writing the choice back. Declining the prompt yields an
// empty destination without an error.
func (l *Locator) Ensure(ctx context.Context) (string, error) {
	if dest, ok := l.Current(); ok {
		return dest, nil
	}

	dest, err := l.prompt(ctx)
	if err != nil {
		return "", fmt.Errorf("choose export folder: %w", err)
	}

	if dest == "" {
		return "", nil
	}

	dest, err = filepath.Abs(dest)
	if err != nil {
		return "", fmt.Errorf("resolve export folder: %w", err)
	}

	if err := os.MkdirAll(dest, 0755); err != nil {
		return "", fmt.Errorf("create export folder: %w", err)
	}

	l.persist(dest)

	return dest, nil
}

// persist stores the chosen destination in the configuration file. Losing
// the setting is not fatal; the user is simply asked again next time.
func (l *Locator) persist(dest string) {
	l.config.Set(destinationKey, dest)

	err := l.config.WriteConfig()
	if err != nil {
		err = l.config.SafeWriteConfig()
	}

	if err != nil {
		slog.Warn("Failed to persist export folder", slog.String("destination", dest), slog.Any("error", err))
	}
}

// promptForFolder asks the user to type a destination folder. An empty
// answer means the user declined.
func promptForFolder(_ context.Context) (string, error) {
	return pterm.DefaultInteractiveTextInput.
		WithDefaultText("Export folder").
		Show()
}
