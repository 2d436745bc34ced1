package inventory

import (
	"context"
	"log/slog"
	"strings"
)

// MimeTypeAPK is the media type exported packages are written with.
const MimeTypeAPK = "application/vnd.android.package-archive"

// suffixLength is the length of the random filename suffix.
const suffixLength = 5

// ExtractAPK exports one application's install package. A non-empty dest
// overrides the configured export location; otherwise the locator resolves
// one, prompting the user if none is configured yet. A missing destination
// and a failed write both yield a denied outcome carrying the on-device
// source path.
func (s *Store) ExtractAPK(ctx context.Context, app *Application, dest string) Outcome {
	defer s.notify()

	if dest == "" {
		resolved, err := s.locator.Ensure(ctx)
		if err != nil || resolved == "" {
			return Outcome{Kind: OutcomePermissionDenied, App: app, File: app.Path}
		}

		dest = resolved
	}

	return s.extractTo(ctx, app, dest)
}

// ExtractSelected exports every selected application into one shared
// destination, resolved once up front so the user is prompted at most once
// per batch. When no destination resolves, the batch short-circuits to a
// denied classification with no outcomes instead of falling through to the
// count-based rule, which would misread an empty batch as all-failed.
func (s *Store) ExtractSelected(ctx context.Context) BatchOutcome {
	defer s.notify()

	dest, err := s.locator.Ensure(ctx)
	if err != nil || dest == "" {
		return BatchOutcome{Kind: BatchPermissionDenied}
	}

	selected := s.Selected()

	outcomes := make([]Outcome, 0, len(selected))
	for _, app := range selected {
		outcomes = append(outcomes, s.extractTo(ctx, app, dest))
	}

	return BatchOutcome{Kind: classifyBatch(outcomes), Outcomes: outcomes}
}

// extractTo reads the source package and writes it into dest under a
// collision-resistant name.
func (s *Store) extractTo(ctx context.Context, app *Application, dest string) Outcome {
	denied := Outcome{Kind: OutcomePermissionDenied, App: app, File: app.Path}

	name, err := s.packageFileName(app)
	if err != nil {
		slog.Warn("Failed to generate file name", slog.String("identifier", app.Identifier), slog.Any("error", err))
		return denied
	}

	data, err := s.source.ReadPackage(ctx, app.Path)
	if err != nil {
		slog.Warn("Failed to read install package", slog.String("identifier", app.Identifier), slog.Any("error", err))
		return denied
	}

	created, err := s.sink.CreateFile(ctx, dest, MimeTypeAPK, name, data)
	if err != nil {
		slog.Warn("Failed to create file", slog.String("identifier", app.Identifier), slog.Any("error", err))
		return denied
	}

	return Outcome{Kind: OutcomeExtracted, App: app, File: created}
}

// packageFileName combines the application name, identifier, version, and a
// short random suffix into a collision-resistant display name.
func (s *Store) packageFileName(app *Application) (string, error) {
	suffix, err := s.newID(suffixLength)
	if err != nil {
		return "", err
	}

	return strings.Join([]string{app.Name, app.Identifier, app.Version, suffix}, "_"), nil
}
