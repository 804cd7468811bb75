package ports

import (
	"context"
	"time"

	"ReleaseRadar/internal/domain"
	"ReleaseRadar/internal/rumor"
)

// ReleaseSource pulls release items from the two upstream source groups.
// Both calls are best-effort: a parse or network failure yields an empty
// list, never an error.
type ReleaseSource interface {
	// FetchPrimary returns items from the announcement (web) sources.
	FetchPrimary(ctx context.Context) []domain.ReleaseItem
	// FetchSecondary returns items from the update-catalog (OTA) sources.
	FetchSecondary(ctx context.Context) []domain.ReleaseItem
}

// RumorSource pulls raw entries from one rumor feed. Best-effort like
// ReleaseSource.
type RumorSource interface {
	FetchRumorEntries(ctx context.Context, feedURL string) []rumor.Entry
}

// ReleaseRepository persists the merged timeline and serves the history
// projection. It is the single source of truth for "have we seen this build
// before", keyed by the release identity key.
type ReleaseRepository interface {
	AlreadySeen(ctx context.Context, keys []string) (map[string]bool, error)
	Upsert(ctx context.Context, item domain.ReleaseItem) error
	LoadHistory(ctx context.Context, platform domain.Platform) ([]domain.HistoryEntry, error)
}

// Notifier receives every filtered item that carries a source status. It is
// responsible for its own deduplication window.
type Notifier interface {
	NotifyRelease(ctx context.Context, item domain.ReleaseItem) error
}

// Scheduler controls when reconciliation cycles execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
