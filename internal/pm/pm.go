// Package pm parses the output of the Android package manager, as printed
// by `pm list packages` and `dumpsys package`.
package pm

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Entry is one line of `pm list packages -f` output: the on-device path of
// the install package and the package identifier.
type Entry struct {
	Identifier string
	Path       string
}

// ParsePackageList parses `pm list packages [-f]` output. Lines without the
// `package:` prefix are ignored. With -f each line reads
// `package:<path>=<identifier>`; without it, `package:<identifier>`.
func ParsePackageList(out string) []Entry {
	var entries []Entry

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "package:") {
			continue
		}

		rest := strings.TrimPrefix(line, "package:")

		// The path may contain '='; the identifier never does, so split at
		// the last one.
		if idx := strings.LastIndex(rest, "="); idx >= 0 {
			entries = append(entries, Entry{Identifier: rest[idx+1:], Path: rest[:idx]})
		} else {
			entries = append(entries, Entry{Identifier: rest})
		}
	}

	return entries
}

// Params holds the per-package parameters surfaced by `dumpsys package`.
type Params struct {
	VersionName string `mapstructure:"versionName"`
	VersionCode string `mapstructure:"versionCode"`
	MinSDK      string `mapstructure:"minSdk"`
	TargetSDK   string `mapstructure:"targetSdk"`
	InstallTime string `mapstructure:"firstInstallTime"`
	UpdateTime  string `mapstructure:"lastUpdateTime"`
}

// ParseParams decodes `dumpsys package <identifier>` output into Params.
func ParseParams(out string) (*Params, error) {
	// Collect key=value tokens; the first occurrence of a key wins, which
	// keeps the installed package's values over older entries further down.
	fields := make(map[string]any)

	for _, line := range strings.Split(out, "\n") {
		for _, token := range strings.Fields(line) {
			key, value, ok := strings.Cut(token, "=")
			if !ok || key == "" {
				continue
			}

			if _, exists := fields[key]; !exists {
				fields[key] = value
			}
		}
	}

	var params Params

	err := mapstructure.Decode(fields, &params)
	if err != nil {
		return nil, fmt.Errorf("decode package parameters: %w", err)
	}

	return &params, nil
}
