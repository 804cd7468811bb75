package domain

import (
	"testing"
	"time"
)

func TestPromote(t *testing.T) {
	t.Parallel()

	cases := []struct {
		current, evidence, want SourceStatus
	}{
		{StatusDeviceFirst, StatusAnnounceFirst, StatusConfirmed},
		{StatusAnnounceFirst, StatusDeviceFirst, StatusConfirmed},
		{StatusConfirmed, StatusDeviceFirst, StatusConfirmed},
		{StatusConfirmed, StatusAnnounceFirst, StatusConfirmed},
		{StatusDeviceFirst, StatusConfirmed, StatusConfirmed},
		{StatusDeviceFirst, StatusDeviceFirst, StatusDeviceFirst},
		{StatusAnnounceFirst, StatusAnnounceFirst, StatusAnnounceFirst},
	}

	for _, tc := range cases {
		if got := tc.current.Promote(tc.evidence); got != tc.want {
			t.Errorf("Promote(%s, %s) = %s, want %s", tc.current, tc.evidence, got, tc.want)
		}
	}
}

func TestChannelAuthority(t *testing.T) {
	t.Parallel()

	order := []Channel{ChannelRelease, ChannelReleaseCandidate, ChannelPublicBeta, ChannelDeveloperBeta}
	for i := 1; i < len(order); i++ {
		if order[i].Authority() <= order[i-1].Authority() {
			t.Fatalf("expected %s to outrank %s", order[i], order[i-1])
		}
	}
}

func TestDisplayTitle(t *testing.T) {
	t.Parallel()

	item := ReleaseItem{
		Platform:   PlatformIOS,
		Version:    "18",
		Channel:    ChannelDeveloperBeta,
		BetaNumber: 2,
	}
	if got := item.DisplayTitle(); got != "iOS 18.0 beta 2 - Developer Beta" {
		t.Fatalf("unexpected title: %q", got)
	}

	item = ReleaseItem{Platform: PlatformMacOS, Version: "15.1", Channel: ChannelRelease}
	if got := item.DisplayTitle(); got != "macOS 15.1 - Release" {
		t.Fatalf("unexpected title: %q", got)
	}
}

func TestWindowFormatted(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	w := Window{Earliest: day, Latest: day.Add(2 * time.Hour)}
	if got := w.Formatted(); got != "Jun 10, 2024" {
		t.Fatalf("same-day window: %q", got)
	}

	w = Window{Earliest: day, Latest: day.AddDate(0, 0, 3)}
	if got := w.Formatted(); got != "Jun 10, 2024 - Jun 13, 2024" {
		t.Fatalf("multi-day window: %q", got)
	}
}

func TestKeyIdentity(t *testing.T) {
	t.Parallel()

	a := ReleaseItem{Platform: PlatformIOS, Version: "18.1", Build: "22B83", Channel: ChannelRelease}
	b := a
	b.Status = StatusConfirmed
	if a.Key() != b.Key() {
		t.Fatal("status must not contribute to identity")
	}

	c := a
	c.Build = "22B91"
	if a.Key() == c.Key() {
		t.Fatal("build must contribute to identity")
	}
}
