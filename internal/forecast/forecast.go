// Package forecast projects the next release date per channel from the
// cadence of past releases, with fixed heuristics when history is thin.
package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"

	"ReleaseRadar/internal/domain"
)

const (
	// maxIntervals bounds the sampling window to the most recent gaps.
	maxIntervals = 4
	// minToleranceDays is the floor for the window half-width.
	minToleranceDays = 2.0

	day = 24 * time.Hour

	noteDateLayout = "Jan 2, 2006"
)

// fallbackDays is the typical spacing assumed per channel when history is
// too thin to measure.
var fallbackDays = map[domain.Channel]int{
	domain.ChannelDeveloperBeta:    14,
	domain.ChannelPublicBeta:       16,
	domain.ChannelReleaseCandidate: 21,
	domain.ChannelRelease:          35,
}

// Summary runs Forecast over the fixed channel set and bundles the results.
func Summary(platform domain.Platform, history []domain.HistoryEntry, referenceDate time.Time, rumors []domain.RumorPrediction) domain.ForecastSummary {
	items := make([]domain.ReleaseForecast, 0, len(domain.OrderedChannels))
	for _, channel := range domain.OrderedChannels {
		if f := Forecast(channel, history, referenceDate, rumors); f != nil {
			items = append(items, *f)
		}
	}
	return domain.ForecastSummary{
		Platform:    platform,
		GeneratedAt: referenceDate,
		Items:       items,
		Rumors:      rumors,
	}
}

// Forecast projects the next release on the given channel. It never fails:
// when history is missing or degenerate it falls back to the typical channel
// cadence with low confidence.
func Forecast(channel domain.Channel, history []domain.HistoryEntry, referenceDate time.Time, rumors []domain.RumorPrediction) *domain.ReleaseForecast {
	channelHistory := filterChannel(history, channel)
	if len(channelHistory) == 0 {
		return fallback(channel, referenceDate, rumors)
	}

	latest := channelHistory[len(channelHistory)-1].Date
	intervals := collectIntervals(channelHistory)
	if len(intervals) == 0 {
		return fallback(channel, latest, rumors)
	}

	avg := mean(intervals)
	stdDev := populationStdDev(intervals, avg)
	expected := latest.Add(time.Duration(avg * float64(day)))
	tolerance := math.Max(minToleranceDays, stdDev)
	window := makeWindow(expected, tolerance)

	confidence := domain.ConfidenceLow
	switch {
	case len(intervals) >= 3 && stdDev <= 3:
		confidence = domain.ConfidenceHigh
	case len(intervals) >= 2:
		confidence = domain.ConfidenceMedium
	}

	note := fmt.Sprintf("Average of the last %d releases points to %s (roughly every %d days).",
		len(intervals)+1,
		expected.Format(noteDateLayout),
		int(math.Round(avg)))
	if channel == domain.ChannelRelease {
		if blurb := earliestRumorBlurb(rumors); blurb != "" {
			note += " Rumor spotlight: " + blurb
		}
	}

	return &domain.ReleaseForecast{
		Channel:    channel,
		Headline:   headline(channel),
		Note:       note,
		Window:     &window,
		Confidence: confidence,
	}
}

func fallback(channel domain.Channel, anchor time.Time, rumors []domain.RumorPrediction) *domain.ReleaseForecast {
	days := fallbackDays[channel]
	expected := anchor.Add(time.Duration(days) * day)
	window := makeWindow(expected, float64(days)*0.2)

	note := fmt.Sprintf("Not enough history - using a typical spacing of %d days for the %s channel.",
		days, channel.DisplayName())
	if channel == domain.ChannelRelease {
		if blurb := earliestRumorBlurb(rumors); blurb != "" {
			note += " Rumor spotlight: " + blurb
		}
	}

	return &domain.ReleaseForecast{
		Channel:    channel,
		Headline:   headline(channel),
		Note:       note,
		Window:     &window,
		Confidence: domain.ConfidenceLow,
	}
}

func filterChannel(history []domain.HistoryEntry, channel domain.Channel) []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, 0, len(history))
	for _, entry := range history {
		if entry.Channel == channel {
			out = append(out, entry)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// collectIntervals measures whole-day gaps between consecutive entries,
// dropping zero and negative gaps, and keeps at most the last maxIntervals.
func collectIntervals(history []domain.HistoryEntry) []float64 {
	if len(history) < 2 {
		return nil
	}
	intervals := make([]float64, 0, len(history)-1)
	for i := 1; i < len(history); i++ {
		diff := int(history[i].Date.Sub(history[i-1].Date).Hours() / 24)
		if diff > 0 {
			intervals = append(intervals, float64(diff))
		}
	}
	if len(intervals) > maxIntervals {
		intervals = intervals[len(intervals)-maxIntervals:]
	}
	return intervals
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func populationStdDev(values []float64, average float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var variance float64
	for _, v := range values {
		delta := v - average
		variance += delta * delta
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

func makeWindow(around time.Time, toleranceDays float64) domain.Window {
	offset := int(math.Ceil(toleranceDays))
	if offset < 1 {
		offset = 1
	}
	return domain.Window{
		Earliest: around.Add(-time.Duration(offset) * day),
		Latest:   around.Add(time.Duration(offset) * day),
	}
}

// earliestRumorBlurb names the rumor whose window opens soonest. Rumors only
// decorate the note; they never move the window or the confidence.
func earliestRumorBlurb(rumors []domain.RumorPrediction) string {
	var top *domain.RumorPrediction
	for i := range rumors {
		if rumors[i].Window == nil {
			continue
		}
		if top == nil || rumors[i].Window.Earliest.Before(top.Window.Earliest) {
			top = &rumors[i]
		}
	}
	if top == nil {
		return ""
	}
	return fmt.Sprintf("%s talks about %s.", top.Source, top.Window.Formatted())
}

func headline(channel domain.Channel) string {
	switch channel {
	case domain.ChannelDeveloperBeta:
		return "Next developer beta"
	case domain.ChannelPublicBeta:
		return "Next public beta"
	case domain.ChannelReleaseCandidate:
		return "Release candidate"
	default:
		return "Public release"
	}
}
