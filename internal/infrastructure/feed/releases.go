// Package feed implements the web-facing fetch strategies: the developer
// releases feed, its HTML fallback, and the rumor feeds.
package feed

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"ReleaseRadar/internal/domain"
	"ReleaseRadar/internal/source"
)

const userAgent = "ReleaseRadar/1.0"

var (
	buildExpr   = regexp.MustCompile(`\(([A-Za-z0-9]+)\)`)
	versionExpr = regexp.MustCompile(`\d+(?:\.\d+){0,3}`)
	betaNumExpr = regexp.MustCompile(`(?i)beta\s*(\d+)`)
)

// ReleasesFetcher reads the developer releases RSS/Atom feed and maps entry
// titles like "iOS 17.5 RC (21F79)" to release items.
type ReleasesFetcher struct {
	parser *gofeed.Parser
}

var _ source.Fetcher = (*ReleasesFetcher)(nil)

// NewReleasesFetcher wires an HTTP client; a nil client gets a 20s timeout.
func NewReleasesFetcher(client *http.Client) *ReleasesFetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent
	return &ReleasesFetcher{parser: parser}
}

// Name identifies the strategy inside the registry.
func (f *ReleasesFetcher) Name() string {
	return "releases-rss"
}

// Fetch downloads the feed and maps each recognizable entry. Entries whose
// title names no known platform or carries no build are dropped here so the
// core never sees partial items.
func (f *ReleasesFetcher) Fetch(ctx context.Context, req source.Request) ([]domain.ReleaseItem, error) {
	parsed, err := f.parser.ParseURLWithContext(req.URL, ctx)
	if err != nil {
		return nil, err
	}

	items := make([]domain.ReleaseItem, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		item, ok := mapTitle(entry.Title)
		if !ok {
			continue
		}
		item.PublishedAt = entryDate(entry)
		items = append(items, item)
	}
	return items, nil
}

func entryDate(entry *gofeed.Item) time.Time {
	if entry.PublishedParsed != nil {
		return *entry.PublishedParsed
	}
	if entry.UpdatedParsed != nil {
		return *entry.UpdatedParsed
	}
	// Zero time is below the plausibility epoch, so a later sighting with a
	// real date wins the date merge.
	return time.Time{}
}

// mapTitle extracts platform, version, build, channel, and beta number from a
// feed entry title. The second result is false when the title is not a
// release announcement.
func mapTitle(title string) (domain.ReleaseItem, bool) {
	platform, ok := guessPlatform(title)
	if !ok {
		return domain.ReleaseItem{}, false
	}

	version := versionExpr.FindString(title)
	build := ""
	if m := buildExpr.FindStringSubmatch(title); m != nil {
		build = m[1]
	}
	if version == "" || build == "" {
		return domain.ReleaseItem{}, false
	}

	lower := strings.ToLower(title)
	channel := domain.ChannelRelease
	switch {
	case strings.Contains(lower, "public beta"):
		channel = domain.ChannelPublicBeta
	case strings.Contains(lower, "beta"):
		channel = domain.ChannelDeveloperBeta
	case strings.Contains(lower, "rc"):
		channel = domain.ChannelReleaseCandidate
	}

	betaNumber := 0
	if m := betaNumExpr.FindStringSubmatch(title); m != nil {
		betaNumber, _ = strconv.Atoi(m[1])
	}

	return domain.ReleaseItem{
		Platform:   platform,
		Version:    version,
		Build:      build,
		Channel:    channel,
		Status:     domain.StatusAnnounceFirst,
		BetaNumber: betaNumber,
	}, true
}

func guessPlatform(title string) (domain.Platform, bool) {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "xcode"):
		return domain.PlatformXcode, true
	case strings.Contains(lower, "ipados"):
		return domain.PlatformIPadOS, true
	case strings.Contains(lower, "ios"):
		return domain.PlatformIOS, true
	case strings.Contains(lower, "macos"):
		return domain.PlatformMacOS, true
	case strings.Contains(lower, "watchos"):
		return domain.PlatformWatchOS, true
	case strings.Contains(lower, "tvos"):
		return domain.PlatformTVOS, true
	}
	return "", false
}
