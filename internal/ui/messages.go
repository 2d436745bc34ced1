package ui

import "github.com/fieldworks/apkex/internal/inventory"

// storeChangedMsg is delivered whenever the store signals its change
// channel.
type storeChangedMsg struct{}

// loadDoneMsg is delivered when the loading lifecycle finishes.
type loadDoneMsg struct {
	err error
}

// extractDoneMsg is delivered when a batch export finishes.
type extractDoneMsg struct {
	batch inventory.BatchOutcome
}
