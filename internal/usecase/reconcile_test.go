package usecase

import (
	"context"
	"testing"
	"time"

	"ReleaseRadar/internal/config"
	"ReleaseRadar/internal/domain"
	"ReleaseRadar/internal/rumor"
)

type fakeSource struct {
	primary   []domain.ReleaseItem
	secondary []domain.ReleaseItem
}

func (f *fakeSource) FetchPrimary(context.Context) []domain.ReleaseItem   { return f.primary }
func (f *fakeSource) FetchSecondary(context.Context) []domain.ReleaseItem { return f.secondary }

type fakeRumors struct {
	entries map[string][]rumor.Entry
}

func (f *fakeRumors) FetchRumorEntries(_ context.Context, feedURL string) []rumor.Entry {
	return f.entries[feedURL]
}

type fakeRepository struct {
	seen     map[string]bool
	upserted []domain.ReleaseItem
	history  []domain.HistoryEntry
}

func (f *fakeRepository) AlreadySeen(_ context.Context, keys []string) (map[string]bool, error) {
	out := make(map[string]bool, len(keys))
	for _, k := range keys {
		out[k] = f.seen[k]
	}
	return out, nil
}

func (f *fakeRepository) Upsert(_ context.Context, item domain.ReleaseItem) error {
	f.upserted = append(f.upserted, item)
	return nil
}

func (f *fakeRepository) LoadHistory(context.Context, domain.Platform) ([]domain.HistoryEntry, error) {
	return f.history, nil
}

type fakeNotifier struct {
	notified []domain.ReleaseItem
}

func (f *fakeNotifier) NotifyRelease(_ context.Context, item domain.ReleaseItem) error {
	f.notified = append(f.notified, item)
	return nil
}

func allEnabled() config.Settings {
	platforms := make(map[domain.Platform]bool)
	for _, p := range domain.AllPlatforms {
		platforms[p] = true
	}
	channels := make(map[domain.Channel]bool)
	for _, ch := range domain.OrderedChannels {
		channels[ch] = true
	}
	return config.Settings{Platforms: platforms, Channels: channels, RefreshMinutes: 15}
}

func release(platform domain.Platform, version, build string, status domain.SourceStatus) domain.ReleaseItem {
	return domain.ReleaseItem{
		Platform:    platform,
		Version:     version,
		Build:       build,
		Channel:     domain.ChannelRelease,
		PublishedAt: time.Date(2024, time.October, 28, 17, 0, 0, 0, time.UTC),
		Status:      status,
	}
}

func TestReconcileMergesPersistsAndNotifies(t *testing.T) {
	t.Parallel()

	announced := release(domain.PlatformIOS, "18.1", "22B83", domain.StatusAnnounceFirst)
	device := release(domain.PlatformIOS, "18.1", "22B83", domain.StatusDeviceFirst)

	repo := &fakeRepository{seen: map[string]bool{}}
	notifier := &fakeNotifier{}
	r := NewReconciler(ReconcilerDeps{
		Source:     &fakeSource{primary: []domain.ReleaseItem{announced}, secondary: []domain.ReleaseItem{device}},
		Repository: repo,
		Notifier:   notifier,
	})

	now := time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC)
	snapshot := r.Reconcile(context.Background(), now, allEnabled())

	if len(repo.upserted) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(repo.upserted))
	}
	if repo.upserted[0].Status != domain.StatusConfirmed {
		t.Fatalf("persisted status = %s", repo.upserted[0].Status)
	}
	if len(notifier.notified) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.notified))
	}
	if snapshot.Transitional {
		t.Fatal("confirmed item must not leave the cycle transitional")
	}

	best, ok := snapshot.Best[domain.PlatformIOS]
	if !ok || best.Version != "18.1" {
		t.Fatalf("best = %+v", snapshot.Best)
	}
	if len(snapshot.Forecast.Items) != len(domain.OrderedChannels) {
		t.Fatalf("forecast items = %d", len(snapshot.Forecast.Items))
	}
}

func TestReconcileSkipsAlreadySeenNotifications(t *testing.T) {
	t.Parallel()

	item := release(domain.PlatformIOS, "18.1", "22B83", domain.StatusAnnounceFirst)
	repo := &fakeRepository{seen: map[string]bool{item.Key(): true}}
	notifier := &fakeNotifier{}
	r := NewReconciler(ReconcilerDeps{
		Source:     &fakeSource{primary: []domain.ReleaseItem{item}},
		Repository: repo,
		Notifier:   notifier,
	})

	r.Reconcile(context.Background(), time.Now(), allEnabled())
	if len(notifier.notified) != 0 {
		t.Fatalf("expected no notifications, got %d", len(notifier.notified))
	}
	// The item is still upserted so the stored channel/date stay current.
	if len(repo.upserted) != 1 {
		t.Fatalf("expected upsert, got %d", len(repo.upserted))
	}
}

func TestReconcileAppliesSettingsFilter(t *testing.T) {
	t.Parallel()

	ios := release(domain.PlatformIOS, "18.1", "22B83", domain.StatusAnnounceFirst)
	tv := release(domain.PlatformTVOS, "18.1", "22J580", domain.StatusAnnounceFirst)

	settings := allEnabled()
	settings.Platforms[domain.PlatformTVOS] = false

	repo := &fakeRepository{seen: map[string]bool{}}
	notifier := &fakeNotifier{}
	r := NewReconciler(ReconcilerDeps{
		Source:     &fakeSource{primary: []domain.ReleaseItem{ios, tv}},
		Repository: repo,
		Notifier:   notifier,
	})

	snapshot := r.Reconcile(context.Background(), time.Now(), settings)
	if len(repo.upserted) != 1 || repo.upserted[0].Platform != domain.PlatformIOS {
		t.Fatalf("filter leaked into persistence: %+v", repo.upserted)
	}
	if _, ok := snapshot.Best[domain.PlatformTVOS]; ok {
		t.Fatal("disabled platform present in best selection")
	}
}

func TestReconcileReportsTransitional(t *testing.T) {
	t.Parallel()

	item := release(domain.PlatformIOS, "18.1", "22B83", domain.StatusAnnounceFirst)
	r := NewReconciler(ReconcilerDeps{
		Source: &fakeSource{primary: []domain.ReleaseItem{item}},
	})

	snapshot := r.Reconcile(context.Background(), time.Now(), allEnabled())
	if !snapshot.Transitional {
		t.Fatal("announce-first item must leave the cycle transitional")
	}
}

func TestReconcileCollectsRumorFeeds(t *testing.T) {
	t.Parallel()

	entries := map[string][]rumor.Entry{
		"https://a.example/feed": {{
			Source:     "MacRumors",
			Title:      "iPhone 17 launch on September 9",
			Confidence: domain.ConfidenceMedium,
		}},
		"https://b.example/feed": {{
			Source:     "9to5Mac",
			Title:      "iOS 19 beta expected September 20",
			Confidence: domain.ConfidenceLow,
		}},
	}
	r := NewReconciler(ReconcilerDeps{
		Source:     &fakeSource{},
		Rumors:     &fakeRumors{entries: entries},
		RumorFeeds: []string{"https://a.example/feed", "https://b.example/feed"},
	})

	now := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	snapshot := r.Reconcile(context.Background(), now, allEnabled())
	if len(snapshot.Rumors) != 2 {
		t.Fatalf("expected 2 rumor predictions, got %+v", snapshot.Rumors)
	}
	if !snapshot.Rumors[0].Window.Earliest.Before(snapshot.Rumors[1].Window.Earliest) {
		t.Fatal("rumor predictions not ordered by window start")
	}
}

func TestFilterBySettings(t *testing.T) {
	t.Parallel()

	beta := release(domain.PlatformIOS, "18.2", "22C5109p", domain.StatusAnnounceFirst)
	beta.Channel = domain.ChannelDeveloperBeta
	stable := release(domain.PlatformIOS, "18.1", "22B83", domain.StatusConfirmed)

	settings := allEnabled()
	settings.Channels[domain.ChannelDeveloperBeta] = false

	got := FilterBySettings([]domain.ReleaseItem{beta, stable}, settings)
	if len(got) != 1 || got[0].Channel != domain.ChannelRelease {
		t.Fatalf("filtered = %+v", got)
	}
}
