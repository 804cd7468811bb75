package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ReleaseRadar/internal/domain"
	"ReleaseRadar/internal/source"
)

// defaultTitleSelector matches the release headings on the developer news
// releases page. Overridable per source via the "selector" option.
const defaultTitleSelector = "h2"

// ReleasesPageFetcher scrapes the developer releases HTML page as a fallback
// announcement source when the feed lags behind.
type ReleasesPageFetcher struct {
	client *http.Client
}

var _ source.Fetcher = (*ReleasesPageFetcher)(nil)

// NewReleasesPageFetcher wires an HTTP client; a nil client gets a 20s timeout.
func NewReleasesPageFetcher(client *http.Client) *ReleasesPageFetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &ReleasesPageFetcher{client: client}
}

// Name identifies the strategy inside the registry.
func (f *ReleasesPageFetcher) Name() string {
	return "releases-html"
}

// Fetch downloads the page and maps every heading that reads like a release
// title. Headings without a build number are dropped. Publish dates are not
// recoverable from the page, so items carry the zero date and rely on the
// merge-side date arbitration.
func (f *ReleasesPageFetcher) Fetch(ctx context.Context, req source.Request) ([]domain.ReleaseItem, error) {
	doc, err := f.fetchDocument(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	selector := req.Options["selector"]
	if selector == "" {
		selector = defaultTitleSelector
	}

	var items []domain.ReleaseItem
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Text())
		if item, ok := mapTitle(title); ok {
			items = append(items, item)
		}
	})
	return items, nil
}

func (f *ReleasesPageFetcher) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("releases page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}
