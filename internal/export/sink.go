package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// mimeExtensions maps the media types this tool writes to file extensions.
var mimeExtensions = map[string]string{
	"application/vnd.android.package-archive": ".apk",
}

// DirSink writes exported packages into a local directory. The zero value is
// ready to use.
type DirSink struct{}

// CreateFile writes data as a new file named after displayName, with the
// extension derived from the media type. An existing file of the same name
// fails the call rather than being overwritten.
func (DirSink) CreateFile(ctx context.Context, parent string, mimeType string, displayName string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(parent, sanitizeName(displayName)+mimeExtensions[mimeType])

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(path)

		return "", fmt.Errorf("write file: %w", err)
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}

	return path, nil
}

// sanitizeName keeps a display name usable as a single path element.
func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '-'
		}

		return r
	}, name)
}

// FixedLocator is a Locator that always resolves to one folder, used when
// the destination comes from a command-line flag instead of the persisted
// configuration.
type FixedLocator string

// Current returns the fixed folder.
func (l FixedLocator) Current() (string, bool) {
	return string(l), l != ""
}

// Ensure creates the fixed folder if needed and returns it.
func (l FixedLocator) Ensure(_ context.Context) (string, error) {
	if l == "" {
		return "", nil
	}

	if err := os.MkdirAll(string(l), 0755); err != nil {
		return "", fmt.Errorf("create export folder: %w", err)
	}

	return string(l), nil
}
