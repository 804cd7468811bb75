package domain

import (
	"fmt"
	"strings"
	"time"
)

// Platform identifies an operating system (or toolchain) whose releases are tracked.
type Platform string

const (
	PlatformIOS     Platform = "iOS"
	PlatformIPadOS  Platform = "iPadOS"
	PlatformMacOS   Platform = "macOS"
	PlatformWatchOS Platform = "watchOS"
	PlatformTVOS    Platform = "tvOS"
	PlatformXcode   Platform = "xcode"
)

// AllPlatforms lists every tracked platform in display order.
var AllPlatforms = []Platform{
	PlatformIOS,
	PlatformIPadOS,
	PlatformMacOS,
	PlatformWatchOS,
	PlatformTVOS,
	PlatformXcode,
}

// DisplayName returns the user-facing platform name.
func (p Platform) DisplayName() string {
	if p == PlatformXcode {
		return "Xcode"
	}
	return string(p)
}

// Channel is the distribution track a release ships on.
type Channel string

const (
	ChannelDeveloperBeta    Channel = "developerBeta"
	ChannelPublicBeta       Channel = "publicBeta"
	ChannelReleaseCandidate Channel = "rc"
	ChannelRelease          Channel = "release"
)

// OrderedChannels is the fixed channel set in forecast order.
var OrderedChannels = []Channel{
	ChannelDeveloperBeta,
	ChannelPublicBeta,
	ChannelReleaseCandidate,
	ChannelRelease,
}

// Authority ranks channels for tie-breaking: developer beta outranks public
// beta, which outranks RC, which outranks the public release. It is not a
// recency signal.
func (c Channel) Authority() int {
	switch c {
	case ChannelDeveloperBeta:
		return 3
	case ChannelPublicBeta:
		return 2
	case ChannelReleaseCandidate:
		return 1
	default:
		return 0
	}
}

// DisplayName returns the user-facing channel name.
func (c Channel) DisplayName() string {
	switch c {
	case ChannelDeveloperBeta:
		return "Developer Beta"
	case ChannelPublicBeta:
		return "Public Beta"
	case ChannelReleaseCandidate:
		return "RC"
	default:
		return "Release"
	}
}

// ReleaseItem is an immutable snapshot of one release observed by a source.
type ReleaseItem struct {
	Platform         Platform
	Version          string
	Build            string
	Channel          Channel
	PublishedAt      time.Time
	Status           SourceStatus
	DeviceIdentifier string
	BetaNumber       int // 0 when the source did not report one
}

// Key is the identity of the underlying real-world release. Two items with
// the same key describe the same release and must not both survive a merge.
func (r ReleaseItem) Key() string {
	return fmt.Sprintf("%s-%s-%s-%s", r.Platform, r.Version, r.Build, r.Channel)
}

// WithStatus returns a copy of the item carrying the given status.
func (r ReleaseItem) WithStatus(s SourceStatus) ReleaseItem {
	r.Status = s
	return r
}

// WithPublishedAt returns a copy of the item carrying the given publish date.
func (r ReleaseItem) WithPublishedAt(t time.Time) ReleaseItem {
	r.PublishedAt = t
	return r
}

// DisplayTitle renders the item the way it appears in notifications,
// e.g. "iOS 18.0 beta 2 - Developer Beta".
func (r ReleaseItem) DisplayTitle() string {
	version := r.Version
	if !strings.Contains(version, ".") {
		version += ".0"
	}
	base := r.Platform.DisplayName() + " " + version
	switch r.Channel {
	case ChannelDeveloperBeta, ChannelPublicBeta:
		if r.BetaNumber > 0 {
			base += fmt.Sprintf(" beta %d", r.BetaNumber)
		} else {
			base += " beta"
		}
	}
	return base + " - " + r.Channel.DisplayName()
}

// HistoryEntry is the read-only projection of a persisted release used by the
// forecast engine. It is owned by the persistence collaborator.
type HistoryEntry struct {
	Version string
	Channel Channel
	Date    time.Time
}
