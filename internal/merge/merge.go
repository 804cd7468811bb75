// Package merge reconciles release items from the announcement feed and the
// software-update catalog into one timeline per platform.
package merge

import (
	"strings"
	"time"

	"ReleaseRadar/internal/domain"
	"ReleaseRadar/internal/versioning"
)

// Key is the collision key used during merging. Build is deliberately
// excluded so that any build update for the same platform/version triggers
// arbitration, not just exact duplicates.
func Key(item domain.ReleaseItem) string {
	return string(item.Platform) + "-" + versioning.Normalize(item.Version)
}

// EqualBuilds compares build numbers after normalization (spaces stripped,
// lowercased).
func EqualBuilds(a, b string) bool {
	na := strings.ToLower(strings.ReplaceAll(a, " ", ""))
	nb := strings.ToLower(strings.ReplaceAll(b, " ", ""))
	return na == nb
}

// Merge folds the announcement items (primary) and then the catalog items
// (secondary) into a fresh map keyed by platform/normalized version.
//
// The fold order is significant: when conflicting builds collide, the catalog
// side is allowed to override the announcement side but not the other way
// around. This encodes the trust ranking between the two sources and must
// not be reordered.
func Merge(primary, secondary []domain.ReleaseItem) map[string]domain.ReleaseItem {
	acc := make(map[string]domain.ReleaseItem, len(primary)+len(secondary))

	for _, item := range primary {
		k := Key(item)
		prev, ok := acc[k]
		if !ok {
			acc[k] = item
			continue
		}
		if EqualBuilds(prev.Build, item.Build) {
			acc[k] = confirm(prev, item, item.Channel)
			continue
		}
		// Conflicting build: the announcement replaces anything except a
		// catalog-first sighting.
		if prev.Status != domain.StatusDeviceFirst {
			acc[k] = item.WithStatus(domain.StatusAnnounceFirst)
		}
	}

	for _, item := range secondary {
		k := Key(item)
		prev, ok := acc[k]
		if !ok {
			acc[k] = item
			continue
		}
		if EqualBuilds(prev.Build, item.Build) {
			acc[k] = confirm(prev, item, preferChannel(prev.Channel, item.Channel))
			continue
		}
		// Conflicting build: the catalog replaces anything except an
		// announcement-first sighting.
		if prev.Status != domain.StatusAnnounceFirst {
			acc[k] = item.WithStatus(domain.StatusDeviceFirst)
		}
	}

	return acc
}

// confirm combines two sightings of the same build into one item: the later
// publish date wins, the first reported beta number sticks, and the status
// runs through the promotion FSM.
func confirm(prev, incoming domain.ReleaseItem, channel domain.Channel) domain.ReleaseItem {
	merged := incoming
	merged.Channel = channel
	merged.Status = prev.Status.Promote(incoming.Status)
	if prev.PublishedAt.After(incoming.PublishedAt) {
		merged.PublishedAt = prev.PublishedAt
	}
	if merged.BetaNumber == 0 {
		merged.BetaNumber = prev.BetaNumber
	}
	return merged
}

// preferChannel keeps the higher-authority channel; ties keep the existing one.
func preferChannel(existing, incoming domain.Channel) domain.Channel {
	if existing.Authority() >= incoming.Authority() {
		return existing
	}
	return incoming
}

// plausibilityEpoch is the earliest publish date treated as real. No tracked
// release predates it, so anything older marks a parse failure.
var plausibilityEpoch = time.Date(2002, time.January, 1, 0, 0, 0, 0, time.UTC)

// BestPublishedDate picks the more credible of two publish dates. An
// implausible date loses to a plausible one; two plausible dates resolve to
// the later.
func BestPublishedDate(a, b time.Time) time.Time {
	aUnknown := a.Before(plausibilityEpoch)
	bUnknown := b.Before(plausibilityEpoch)
	if aUnknown && !bUnknown {
		return b
	}
	if bUnknown && !aUnknown {
		return a
	}
	if b.After(a) {
		return b
	}
	return a
}

// SelectBest picks the single most authoritative current item per platform:
// highest version first, then channel authority, then beta number (absent
// counts as -1). Every replacement re-derives the publish date through
// BestPublishedDate so a parse-failure date never shadows a real one.
func SelectBest(items []domain.ReleaseItem) map[domain.Platform]domain.ReleaseItem {
	best := make(map[domain.Platform]domain.ReleaseItem)
	for _, item := range items {
		existing, ok := best[item.Platform]
		if !ok {
			best[item.Platform] = item
			continue
		}
		if replaces(item, existing) {
			best[item.Platform] = item.WithPublishedAt(
				BestPublishedDate(item.PublishedAt, existing.PublishedAt))
		}
	}
	return best
}

func replaces(candidate, incumbent domain.ReleaseItem) bool {
	switch versioning.Compare(candidate.Version, incumbent.Version) {
	case 1:
		return true
	case -1:
		return false
	}
	if candidate.Channel.Authority() != incumbent.Channel.Authority() {
		return candidate.Channel.Authority() > incumbent.Channel.Authority()
	}
	return betaNumber(candidate) > betaNumber(incumbent)
}

func betaNumber(item domain.ReleaseItem) int {
	if item.BetaNumber == 0 {
		return -1
	}
	return item.BetaNumber
}
