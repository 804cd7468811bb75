package domain

import "time"

// Confidence grades how much a forecast or rumor should be trusted.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Window is an inclusive date range a release is expected to land in.
type Window struct {
	Earliest time.Time
	Latest   time.Time
}

const windowDateLayout = "Jan 2, 2006"

// Formatted renders the window for display, collapsing same-day windows to a
// single date.
func (w Window) Formatted() string {
	if sameDay(w.Earliest, w.Latest) {
		return w.Earliest.Format(windowDateLayout)
	}
	return w.Earliest.Format(windowDateLayout) + " - " + w.Latest.Format(windowDateLayout)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ReleaseForecast is the projected next release for one channel. Derived
// fresh each run, never persisted.
type ReleaseForecast struct {
	Channel    Channel
	Headline   string
	Note       string
	Window     *Window
	Confidence Confidence
}

// ForecastSummary bundles the per-channel forecasts produced in one run.
type ForecastSummary struct {
	Platform    Platform
	GeneratedAt time.Time
	Items       []ReleaseForecast
	Rumors      []RumorPrediction
}

// RumorPrediction is a date hint extracted from a rumor feed entry. Derived
// fresh each run, never persisted.
type RumorPrediction struct {
	Source     string
	Title      string
	Summary    string
	URL        string
	Window     *Window
	Confidence Confidence
}
