package inventory

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ListOptions control which applications a Source enumerates.
type ListOptions struct {
	IncludeIcons      bool // IncludeIcons requests icon blobs where the source supports them.
	IncludeSystemApps bool // IncludeSystemApps includes system packages, not just user-installed ones.
}

// Source enumerates the applications installed on a device and reads their
// install packages. The sequence returned by Installed is finite and not
// restartable; its end signals completion of the enumeration.
type Source interface {
	CountInstalled(ctx context.Context, opts ListOptions) (int, error)
	Installed(ctx context.Context, opts ListOptions) iter.Seq2[*Application, error]
	ReadPackage(ctx context.Context, path string) ([]byte, error)
}

// Locator resolves the destination folder exported packages are written to.
// Ensure may prompt the user once and persists the choice for later calls.
type Locator interface {
	Current() (string, bool)
	Ensure(ctx context.Context) (string, error)
}

// Sink creates files in a destination folder.
type Sink interface {
	CreateFile(ctx context.Context, parent string, mimeType string, displayName string, data []byte) (string, error)
}

// Progress describes the loading lifecycle of the inventory.
type Progress struct {
	Total   int  // Total is the expected number of applications, fetched once up front.
	Loaded  int  // Loaded is the number of applications delivered so far.
	Loading bool // Loading is true while the enumeration is in flight.
}

// FullyLoaded reports whether every expected application has been delivered.
func (p Progress) FullyLoaded() bool {
	return !p.Loading && p.Loaded == p.Total
}

// Store coordinates the installed-application inventory: incremental
// loading, the selection set, the search filter, and the export workflow.
// It is safe for concurrent use; every mutating call signals the change
// channel so observers can re-render.
type Store struct {
	source  Source
	locator Locator
	sink    Sink
	opts    ListOptions
	newID   func(length int) (string, error)

	mu        sync.Mutex
	apps      []*Application
	selected  map[string]*Application
	searching bool
	query     string
	results   []*Application
	progress  Progress

	changes chan struct{}
}

// NewStore creates a coordinator over the given package source and export
// collaborators.
func NewStore(source Source, locator Locator, sink Sink, opts ListOptions) *Store {
	return &Store{
		source:  source,
		locator: locator,
		sink:    sink,
		opts:    opts,
		newID: func(length int) (string, error) {
			return gonanoid.New(length)
		},
		selected: make(map[string]*Application),
		changes:  make(chan struct{}, 1),
	}
}

// Changes returns the change-notification channel. Signals are coalesced:
// a pending signal covers any number of mutations since the last receive.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

func (s *Store) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// LoadPackages fetches the expected count, then appends each application
// delivered by the source to the inventory, signaling observers after every
// append. Enumeration failures are returned as-is; whatever prefix of the
// inventory already arrived is kept.
func (s *Store) LoadPackages(ctx context.Context) error {
	total, err := s.source.CountInstalled(ctx, s.opts)
	if err != nil {
		return fmt.Errorf("count installed applications: %w", err)
	}

	s.mu.Lock()
	s.progress = Progress{Total: total, Loading: true}
	s.mu.Unlock()
	s.notify()

	for app, err := range s.source.Installed(ctx, s.opts) {
		if err != nil {
			s.mu.Lock()
			s.progress.Loading = false
			s.mu.Unlock()
			s.notify()

			return fmt.Errorf("enumerate installed applications: %w", err)
		}

		s.mu.Lock()
		s.apps = append(s.apps, app)
		s.progress.Loaded = len(s.apps)

		// Keep an active result list consistent with the inventory
		if s.searching && fuzzy.Match(s.query, matchKey(app)) {
			s.results = append(s.results, app)
		}
		s.mu.Unlock()
		s.notify()
	}

	s.mu.Lock()
	s.progress.Loading = false
	s.mu.Unlock()
	s.notify()

	return nil
}

// Progress returns a snapshot of the loading state.
func (s *Store) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.progress
}

// Apps returns the full inventory in discovery order.
func (s *Store) Apps() []*Application {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Application, len(s.apps))
	copy(out, s.apps)

	return out
}

// Displayable returns the active view: the search results while a filter is
// active, the full inventory otherwise.
func (s *Store) Displayable() []*Application {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := s.displayableLocked()
	out := make([]*Application, len(view))
	copy(out, view)

	return out
}

func (s *Store) displayableLocked() []*Application {
	if s.searching {
		return s.results
	}

	return s.apps
}

// ToggleSelect adds the application to the selection if absent and removes
// it if present, keyed by its identifier.
func (s *Store) ToggleSelect(app *Application) {
	s.mu.Lock()
	if _, ok := s.selected[app.Identifier]; ok {
		delete(s.selected, app.Identifier)
	} else {
		s.selected[app.Identifier] = app
	}
	s.mu.Unlock()
	s.notify()
}

// ToggleSelectAll clears the selection when it already spans the displayable
// view, and replaces it with exactly the displayable set otherwise. A filter,
// when active, bounds the operation.
func (s *Store) ToggleSelectAll() {
	s.mu.Lock()
	view := s.displayableLocked()
	if len(s.selected) == len(view) {
		s.selected = make(map[string]*Application)
	} else {
		s.selected = make(map[string]*Application, len(view))
		for _, app := range view {
			s.selected[app.Identifier] = app
		}
	}
	s.mu.Unlock()
	s.notify()
}

// ClearSelection empties the selection unconditionally.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	s.selected = make(map[string]*Application)
	s.mu.Unlock()
	s.notify()
}

// RestoreToDefault clears the selection and disables the search filter,
// returning to the full, unselected view.
func (s *Store) RestoreToDefault() {
	s.mu.Lock()
	s.selected = make(map[string]*Application)
	s.searching = false
	s.query = ""
	s.results = nil
	s.mu.Unlock()
	s.notify()
}

// IsSelected reports whether the application with the given identifier is in
// the selection.
func (s *Store) IsSelected(identifier string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.selected[identifier]

	return ok
}

// Selected returns the selected applications in discovery order, so batch
// runs over the selection are deterministic.
func (s *Store) Selected() []*Application {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Application, 0, len(s.selected))
	for _, app := range s.apps {
		if _, ok := s.selected[app.Identifier]; ok {
			out = append(out, app)
		}
	}

	return out
}

// SelectionSize returns the number of selected applications.
func (s *Store) SelectionSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.selected)
}

// Search filters the displayable view down to the applications whose name
// and identifier contain the query as an in-order subsequence, ignoring
// case. The result list is recomputed eagerly on every call. An empty query
// disables the filter instead of matching everything.
func (s *Store) Search(text string) {
	if text == "" {
		s.DisableSearch()
		return
	}

	query := strings.ToLower(text)

	s.mu.Lock()
	results := make([]*Application, 0, len(s.apps))
	for _, app := range s.apps {
		if fuzzy.Match(query, matchKey(app)) {
			results = append(results, app)
		}
	}

	s.searching = true
	s.query = query
	s.results = results
	s.mu.Unlock()
	s.notify()
}

// DisableSearch drops the filter and returns to the full inventory view.
func (s *Store) DisableSearch() {
	s.mu.Lock()
	s.searching = false
	s.query = ""
	s.results = nil
	s.mu.Unlock()
	s.notify()
}

// Query returns the active search query, if any.
func (s *Store) Query() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.query, s.searching
}

// matchKey is the string the search query is matched against.
func matchKey(app *Application) string {
	return strings.ToLower(app.Name + " " + app.Identifier)
}
