// Package ota implements the software-update catalog fetch strategy.
package ota

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"howett.net/plist"

	"ReleaseRadar/internal/domain"
	"ReleaseRadar/internal/source"
)

const maxCatalogBytes = 32 << 20

// CatalogFetcher reads a software-update catalog plist and maps its products
// to device-first release items.
type CatalogFetcher struct {
	client *http.Client
}

var _ source.Fetcher = (*CatalogFetcher)(nil)

// NewCatalogFetcher wires an HTTP client; a nil client gets a 30s timeout.
func NewCatalogFetcher(client *http.Client) *CatalogFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &CatalogFetcher{client: client}
}

// Name identifies the strategy inside the registry.
func (f *CatalogFetcher) Name() string {
	return "ota-catalog"
}

type catalog struct {
	Products map[string]product `plist:"Products"`
}

type product struct {
	// PostDate is a plist date in current catalogs but has shipped as an
	// ISO8601 string before.
	PostDate     interface{} `plist:"PostDate"`
	OSVersion    string      `plist:"OSVersion"`
	BuildVersion string      `plist:"BuildVersion"`
}

// Fetch downloads the catalog and extracts every product that carries
// version and build metadata. Products without them are ignored; they are
// installer payloads, not OS releases.
func (f *CatalogFetcher) Fetch(ctx context.Context, req source.Request) ([]domain.ReleaseItem, error) {
	raw, err := f.download(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	var cat catalog
	if _, err := plist.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	platform := domain.Platform(req.Options["platform"])
	if platform == "" {
		platform = domain.PlatformMacOS
	}

	items := make([]domain.ReleaseItem, 0, len(cat.Products))
	for _, p := range cat.Products {
		if p.OSVersion == "" || p.BuildVersion == "" {
			continue
		}
		items = append(items, domain.ReleaseItem{
			Platform:    platform,
			Version:     p.OSVersion,
			Build:       p.BuildVersion,
			Channel:     classifyChannel(p.OSVersion),
			PublishedAt: coerceDate(p.PostDate),
			Status:      domain.StatusDeviceFirst,
		})
	}
	return items, nil
}

func (f *CatalogFetcher) download(ctx context.Context, catalogURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, catalogURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "ReleaseRadar/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned %s", resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return raw, nil
}

// coerceDate accepts the two PostDate encodings seen in the wild. Anything
// else becomes the zero time, which the plausibility date merge discards.
func coerceDate(value interface{}) time.Time {
	switch v := value.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func classifyChannel(version string) domain.Channel {
	v := strings.ToLower(version)
	if strings.Contains(v, "beta") {
		return domain.ChannelDeveloperBeta
	}
	if strings.Contains(v, "rc") {
		return domain.ChannelReleaseCandidate
	}
	return domain.ChannelRelease
}
