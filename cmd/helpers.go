package cmd

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/viper"

	"github.com/fieldworks/apkex/internal/adb"
	"github.com/fieldworks/apkex/internal/export"
	"github.com/fieldworks/apkex/internal/inventory"
	"github.com/fieldworks/apkex/internal/remote"
)

// newStore assembles the coordinator from the configured package source and
// export collaborators. The returned cleanup function releases the source.
func newStore(ctx context.Context, includeSystem bool, destination string) (*inventory.Store, func(), error) {
	var (
		source  inventory.Source
		cleanup = func() {}
	)

	if addr := viper.GetString("remote"); addr != "" {
		// Networked rooted device over SSH
		src, err := remote.Dial(addr, viper.GetString("remote-user"), viper.GetString("remote-password"))
		if err != nil {
			return nil, nil, fmt.Errorf("connect to remote device: %w", err)
		}

		source = src
		cleanup = src.Close
	} else {
		// Local device through the adb server
		device, err := adb.FindDevice(ctx, viper.GetString("adb"))
		if err != nil {
			return nil, nil, fmt.Errorf("find device: %w", err)
		}

		source = adb.NewSource(viper.GetString("adb"), device.Serial)
	}

	var locator inventory.Locator = export.NewLocator(viper.GetViper())
	if destination != "" {
		locator = export.FixedLocator(destination)
	}

	store := inventory.NewStore(source, locator, export.DirSink{}, inventory.ListOptions{
		IncludeSystemApps: includeSystem,
	})

	return store, cleanup, nil
}

// loadWithProgress runs the loading lifecycle while rendering an incremental
// "N of M" progress bar driven by the store's change notifications.
func loadWithProgress(ctx context.Context, store *inventory.Store) error {
	done := make(chan error, 1)

	go func() {
		done <- store.LoadPackages(ctx)
	}()

	var bar *pterm.ProgressbarPrinter

	for {
		select {
		case err := <-done:
			if bar != nil {
				bar.Add(store.Progress().Loaded - bar.Current)
				_, _ = bar.Stop()
			}

			return err

		case <-store.Changes():
			progress := store.Progress()

			if bar == nil && progress.Total > 0 {
				bar, _ = pterm.DefaultProgressbar.
					WithTotal(progress.Total).
					WithTitle("Loading packages").
					Start()
			}

			if bar != nil {
				bar.Add(progress.Loaded - bar.Current)
			}
		}
	}
}
