// Package adb enumerates the packages installed on an Android device through
// the adb binary and reads their install packages off the device.
package adb

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/fieldworks/apkex/internal/inventory"
	"github.com/fieldworks/apkex/internal/pm"
)

// Source enumerates packages on one device through the adb server.
type Source struct {
	adbPath string
	serial  string
}

// NewSource creates a package source addressing the device with the given
// serial number.
func NewSource(adbPath string, serial string) *Source {
	return &Source{adbPath: adbPath, serial: serial}
}

// run executes one adb command against the device.
func (s *Source) run(ctx context.Context, args ...string) ([]byte, error) {
	full := append([]string{"-s", s.serial}, args...)

	out, err := exec.CommandContext(ctx, s.adbPath, full...).Output()
	if err != nil {
		return nil, fmt.Errorf("adb %s: %w", strings.Join(args, " "), err)
	}

	return out, nil
}

// listArgs builds the `pm list packages` invocation. Without system apps
// only user-installed (third-party) packages are listed.
func listArgs(opts inventory.ListOptions, withPaths bool) []string {
	args := []string{"shell", "pm", "list", "packages"}

	if withPaths {
		args = append(args, "-f")
	}

	if !opts.IncludeSystemApps {
		args = append(args, "-3")
	}

	return args
}

// CountInstalled returns the number of installed packages in one up-front
// query.
func (s *Source) CountInstalled(ctx context.Context, opts inventory.ListOptions) (int, error) {
	out, err := s.run(ctx, listArgs(opts, false)...)
	if err != nil {
		return 0, err
	}

	return len(pm.ParsePackageList(string(out))), nil
}

// Installed enumerates installed applications one by one. Per-package
// parameters come from `dumpsys package`; a package whose parameters cannot
// be read is still delivered, just without a version. Icons are not
// available through the package manager CLI, so IncludeIcons is accepted but
// has no effect here.
func (s *Source) Installed(ctx context.Context, opts inventory.ListOptions) iter.Seq2[*inventory.Application, error] {
	return func(yield func(*inventory.Application, error) bool) {
		out, err := s.run(ctx, listArgs(opts, true)...)
		if err != nil {
			yield(nil, err)
			return
		}

		for _, entry := range pm.ParsePackageList(string(out)) {
			app := &inventory.Application{
				Identifier: entry.Identifier,
				Name:       pm.Label(entry.Identifier),
				Path:       entry.Path,
			}

			params, err := s.packageParams(ctx, entry.Identifier)
			if err != nil {
				slog.Warn("Failed to read package parameters", slog.String("identifier", entry.Identifier), slog.Any("error", err))
			} else {
				app.Version = params.VersionName
			}

			if !yield(app, nil) {
				return
			}
		}
	}
}

// packageParams reads and decodes the per-package parameters.
func (s *Source) packageParams(ctx context.Context, identifier string) (*pm.Params, error) {
	out, err := s.run(ctx, "shell", "dumpsys", "package", identifier)
	if err != nil {
		return nil, err
	}

	return pm.ParseParams(string(out))
}

// ReadPackage reads the full bytes of an install package off the device.
// exec-out keeps the stream binary-safe, unlike `adb shell cat`.
func (s *Source) ReadPackage(ctx context.Context, path string) ([]byte, error) {
	data, err := s.run(ctx, "exec-out", "cat", path)
	if err != nil {
		return nil, fmt.Errorf("read install package [%s]: %w", path, err)
	}

	return data, nil
}
