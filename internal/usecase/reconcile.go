package usecase

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"ReleaseRadar/internal/config"
	"ReleaseRadar/internal/domain"
	"ReleaseRadar/internal/forecast"
	"ReleaseRadar/internal/merge"
	"ReleaseRadar/internal/ports"
	"ReleaseRadar/internal/rumor"
)

// ReconcilerDeps wires all driven adapters into the reconciliation pipeline.
type ReconcilerDeps struct {
	Source     ports.ReleaseSource
	Rumors     ports.RumorSource
	RumorFeeds []string
	Repository ports.ReleaseRepository
	Notifier   ports.Notifier
	Extractor  *rumor.Extractor
	Logger     *slog.Logger
}

// Reconciler implements one fetch → merge → persist → forecast cycle.
type Reconciler struct {
	source     ports.ReleaseSource
	rumors     ports.RumorSource
	rumorFeeds []string
	repository ports.ReleaseRepository
	notifier   ports.Notifier
	extractor  *rumor.Extractor
	logger     *slog.Logger
}

// Snapshot is the result of one reconciliation cycle.
type Snapshot struct {
	Best         map[domain.Platform]domain.ReleaseItem
	Forecast     domain.ForecastSummary
	Rumors       []domain.RumorPrediction
	Transitional bool
}

// NewReconciler constructs the orchestration component.
func NewReconciler(deps ReconcilerDeps) *Reconciler {
	extractor := deps.Extractor
	if extractor == nil {
		extractor = rumor.NewExtractor(nil)
	}
	return &Reconciler{
		source:     deps.Source,
		rumors:     deps.Rumors,
		rumorFeeds: deps.RumorFeeds,
		repository: deps.Repository,
		notifier:   deps.Notifier,
		extractor:  extractor,
		logger:     deps.Logger,
	}
}

// Reconcile fans out to every source, merges the results, persists and
// notifies the filtered timeline, and derives the forecast. Collaborator
// failures degrade the cycle (thinner merge, fallback forecast); they never
// abort it.
func (r *Reconciler) Reconcile(ctx context.Context, now time.Time, settings config.Settings) Snapshot {
	primary, secondary, entries := r.fetchAll(ctx)

	merged := merge.Merge(primary, secondary)
	items := make([]domain.ReleaseItem, 0, len(merged))
	for _, item := range merged {
		items = append(items, item)
	}
	filtered := FilterBySettings(items, settings)

	seen := r.persist(ctx, filtered)
	r.notify(ctx, filtered, seen)

	predictions := r.extractor.Predict(entries, now)
	summary := r.forecast(ctx, now, predictions)

	transitional := false
	for _, item := range filtered {
		if item.Status.Transitional() {
			transitional = true
			break
		}
	}

	r.debug("cycle done",
		"merged", len(merged),
		"filtered", len(filtered),
		"rumors", len(predictions),
		"transitional", transitional)

	return Snapshot{
		Best:         merge.SelectBest(filtered),
		Forecast:     summary,
		Rumors:       predictions,
		Transitional: transitional,
	}
}

// fetchAll runs both release sources and every rumor feed concurrently and
// collects the results. The fetchers are best-effort, so the group never
// returns an error.
func (r *Reconciler) fetchAll(ctx context.Context) (primary, secondary []domain.ReleaseItem, entries []rumor.Entry) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if r.source != nil {
			primary = r.source.FetchPrimary(gctx)
		}
		return nil
	})
	g.Go(func() error {
		if r.source != nil {
			secondary = r.source.FetchSecondary(gctx)
		}
		return nil
	})

	perFeed := make([][]rumor.Entry, len(r.rumorFeeds))
	for i, feedURL := range r.rumorFeeds {
		g.Go(func() error {
			if r.rumors != nil {
				perFeed[i] = r.rumors.FetchRumorEntries(gctx, feedURL)
			}
			return nil
		})
	}

	_ = g.Wait()

	for _, batch := range perFeed {
		entries = append(entries, batch...)
	}
	return primary, secondary, entries
}

// persist upserts every filtered item and reports which identity keys were
// already known beforehand.
func (r *Reconciler) persist(ctx context.Context, items []domain.ReleaseItem) map[string]bool {
	if r.repository == nil {
		return map[string]bool{}
	}

	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = item.Key()
	}

	seen, err := r.repository.AlreadySeen(ctx, keys)
	if err != nil {
		r.warn("seen lookup failed", "error", err)
		seen = map[string]bool{}
	}

	for _, item := range items {
		if err := r.repository.Upsert(ctx, item); err != nil {
			r.warn("persist failed", "key", item.Key(), "error", err)
		}
	}
	return seen
}

// notify forwards newly seen items to the notifier, which applies its own
// deduplication window on top.
func (r *Reconciler) notify(ctx context.Context, items []domain.ReleaseItem, seen map[string]bool) {
	if r.notifier == nil {
		return
	}
	for _, item := range items {
		switch item.Status {
		case domain.StatusConfirmed, domain.StatusDeviceFirst, domain.StatusAnnounceFirst:
		default:
			continue
		}
		if seen[item.Key()] {
			continue
		}
		if err := r.notifier.NotifyRelease(ctx, item); err != nil {
			r.warn("notify failed", "key", item.Key(), "error", err)
		}
	}
}

func (r *Reconciler) forecast(ctx context.Context, now time.Time, predictions []domain.RumorPrediction) domain.ForecastSummary {
	var history []domain.HistoryEntry
	if r.repository != nil {
		var err error
		history, err = r.repository.LoadHistory(ctx, domain.PlatformIOS)
		if err != nil {
			r.warn("history load failed", "error", err)
			history = nil
		}
	}
	return forecast.Summary(domain.PlatformIOS, history, now, predictions)
}

// FilterBySettings keeps only items on enabled platforms and channels. The
// settings snapshot is an explicit argument; nothing here reads shared state.
func FilterBySettings(items []domain.ReleaseItem, settings config.Settings) []domain.ReleaseItem {
	out := make([]domain.ReleaseItem, 0, len(items))
	for _, item := range items {
		if !settings.PlatformEnabled(item.Platform) {
			continue
		}
		if !settings.ChannelEnabled(item.Channel) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (r *Reconciler) debug(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

func (r *Reconciler) warn(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
