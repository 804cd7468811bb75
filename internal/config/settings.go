package config

import "ReleaseRadar/internal/domain"

// Settings is the immutable per-cycle snapshot of user preferences. It is
// passed explicitly to filtering and notification-eligibility code; nothing
// reads process-wide state.
type Settings struct {
	Platforms      map[domain.Platform]bool
	Channels       map[domain.Channel]bool
	RefreshMinutes int
}

// Snapshot derives a Settings value from the loaded configuration.
// Channels absent from the config default to enabled.
func (c Config) Snapshot() Settings {
	platforms := make(map[domain.Platform]bool, len(c.Settings.Platforms))
	for _, p := range c.Settings.Platforms {
		platforms[domain.Platform(p)] = true
	}

	channels := make(map[domain.Channel]bool, len(domain.OrderedChannels))
	for _, ch := range domain.OrderedChannels {
		enabled, ok := c.Settings.Channels[string(ch)]
		channels[ch] = !ok || enabled
	}

	minutes := c.Scheduler.RefreshMinutes
	if minutes <= 0 {
		minutes = defaultRefreshMinutes
	}

	return Settings{
		Platforms:      platforms,
		Channels:       channels,
		RefreshMinutes: minutes,
	}
}

// PlatformEnabled reports whether releases for the platform are tracked.
func (s Settings) PlatformEnabled(p domain.Platform) bool {
	return s.Platforms[p]
}

// ChannelEnabled reports whether releases on the channel are tracked.
func (s Settings) ChannelEnabled(ch domain.Channel) bool {
	return s.Channels[ch]
}

// EnabledPlatforms lists tracked platforms in display order.
func (s Settings) EnabledPlatforms() []domain.Platform {
	out := make([]domain.Platform, 0, len(s.Platforms))
	for _, p := range domain.AllPlatforms {
		if s.Platforms[p] {
			out = append(out, p)
		}
	}
	return out
}
