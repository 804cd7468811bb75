package feed

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"ReleaseRadar/internal/domain"
	"ReleaseRadar/internal/ports"
	"ReleaseRadar/internal/rumor"
)

// RumorFetcher pulls entries from rumor publication feeds. Failures degrade
// to an empty result; a rumor feed being down never blocks reconciliation.
type RumorFetcher struct {
	parser *gofeed.Parser
	logger *slog.Logger
}

var _ ports.RumorSource = (*RumorFetcher)(nil)

// NewRumorFetcher wires an HTTP client; a nil client gets a 20s timeout.
func NewRumorFetcher(client *http.Client, logger *slog.Logger) *RumorFetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent
	return &RumorFetcher{parser: parser, logger: logger}
}

// FetchRumorEntries downloads one feed and maps its items to rumor entries
// tagged with the publication's readable name and trust level.
func (f *RumorFetcher) FetchRumorEntries(ctx context.Context, feedURL string) []rumor.Entry {
	parsed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		if f.logger != nil {
			f.logger.Warn("rumor feed unavailable", "url", feedURL, "error", err)
		}
		return nil
	}

	host := feedHost(feedURL)
	entries := make([]rumor.Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		link := item.Link
		if link == "" {
			link = feedURL
		}
		entries = append(entries, rumor.Entry{
			Source:     readableSourceName(host),
			Title:      item.Title,
			Summary:    item.Description,
			URL:        link,
			Confidence: confidenceForHost(host),
		})
	}
	return entries
}

func feedHost(feedURL string) string {
	parsed, err := url.Parse(feedURL)
	if err != nil {
		return ""
	}
	return parsed.Host
}

func readableSourceName(host string) string {
	switch {
	case strings.Contains(host, "macrumors"):
		return "MacRumors"
	case strings.Contains(host, "9to5mac"):
		return "9to5Mac"
	case strings.Contains(host, "appleinsider"):
		return "AppleInsider"
	case host == "":
		return "Unknown"
	}
	return host
}

// confidenceForHost encodes how reliable each publication's timelines have
// been historically.
func confidenceForHost(host string) domain.Confidence {
	if strings.Contains(host, "appleinsider") || strings.Contains(host, "macrumors") {
		return domain.ConfidenceMedium
	}
	return domain.ConfidenceLow
}
