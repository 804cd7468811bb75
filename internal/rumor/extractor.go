// Package rumor turns rumor-feed entries into confidence-rated release date
// predictions.
package rumor

import (
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"ReleaseRadar/internal/domain"
)

const (
	staleGrace   = 12 * time.Hour
	farHorizon   = 180 * 24 * time.Hour
	summaryLimit = 240
)

// relevanceKeywords gates which entries are considered at all.
var relevanceKeywords = []string{"ios", "iphone", "beta", "release", "launch"}

var (
	markupExpr     = regexp.MustCompile(`<[^>]+>`)
	whitespaceExpr = regexp.MustCompile(`\s+`)
)

// Entry is one rumor-feed item as delivered by the fetch collaborator.
type Entry struct {
	Source     string
	Title      string
	Summary    string
	URL        string
	Confidence domain.Confidence
}

// Extractor scans rumor entries for plausible future release dates.
type Extractor struct {
	detector DateDetector
}

// NewExtractor builds an Extractor; a nil detector selects TokenDetector.
func NewExtractor(detector DateDetector) *Extractor {
	if detector == nil {
		detector = TokenDetector{}
	}
	return &Extractor{detector: detector}
}

// Predict converts the concatenated entries of every configured feed into
// deduplicated, ordered predictions. Entries without a plausible date window
// are dropped, never escalated.
func (e *Extractor) Predict(entries []Entry, referenceDate time.Time) []domain.RumorPrediction {
	predictions := make([]domain.RumorPrediction, 0, len(entries))
	for _, entry := range entries {
		if !relevant(entry) {
			continue
		}
		window := e.ExtractWindow(entry.Title+" "+entry.Summary, referenceDate)
		if window == nil {
			continue
		}
		predictions = append(predictions, domain.RumorPrediction{
			Source:     entry.Source,
			Title:      entry.Title,
			Summary:    Sanitize(entry.Summary),
			URL:        entry.URL,
			Window:     window,
			Confidence: entry.Confidence,
		})
	}
	return order(dedupe(predictions))
}

// ExtractWindow scans text for candidate dates, discards stale (older than
// 12h before the reference date) and implausibly far (beyond 180 days)
// matches, and widens the first surviving match into a ±1 day window.
func (e *Extractor) ExtractWindow(text string, referenceDate time.Time) *domain.Window {
	for _, date := range e.detector.DetectCandidateDates(text, referenceDate) {
		if date.Before(referenceDate.Add(-staleGrace)) {
			continue
		}
		if date.After(referenceDate.Add(farHorizon)) {
			continue
		}
		return &domain.Window{
			Earliest: date.AddDate(0, 0, -1),
			Latest:   date.AddDate(0, 0, 1),
		}
	}
	return nil
}

// Sanitize prepares feed text for display: markup stripped, whitespace
// collapsed, truncated to 240 characters with a trailing ellipsis. The limit
// counts runes, not bytes, so multibyte text is never cut mid-character.
func Sanitize(text string) string {
	cleaned := markupExpr.ReplaceAllString(text, " ")
	cleaned = strings.TrimSpace(whitespaceExpr.ReplaceAllString(cleaned, " "))
	if utf8.RuneCountInString(cleaned) > summaryLimit {
		runes := []rune(cleaned)
		return string(runes[:summaryLimit]) + "..."
	}
	return cleaned
}

func relevant(entry Entry) bool {
	title := strings.ToLower(entry.Title)
	summary := strings.ToLower(entry.Summary)
	for _, keyword := range relevanceKeywords {
		if strings.Contains(title, keyword) || strings.Contains(summary, keyword) {
			return true
		}
	}
	return false
}

// dedupe keeps the first occurrence per (lowercased title, formatted window).
func dedupe(predictions []domain.RumorPrediction) []domain.RumorPrediction {
	seen := make(map[string]struct{}, len(predictions))
	out := make([]domain.RumorPrediction, 0, len(predictions))
	for _, p := range predictions {
		key := strings.ToLower(p.Title)
		if p.Window != nil {
			key += p.Window.Formatted()
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

// order sorts ascending by window start (windowless entries last), breaking
// ties by title.
func order(predictions []domain.RumorPrediction) []domain.RumorPrediction {
	sort.SliceStable(predictions, func(i, j int) bool {
		li := windowStart(predictions[i])
		lj := windowStart(predictions[j])
		if li.Equal(lj) {
			return predictions[i].Title < predictions[j].Title
		}
		return li.Before(lj)
	})
	return predictions
}

var distantFuture = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

func windowStart(p domain.RumorPrediction) time.Time {
	if p.Window == nil {
		return distantFuture
	}
	return p.Window.Earliest
}
