package domain

// SourceStatus records which source(s) have observed a release so far.
type SourceStatus string

const (
	// StatusDeviceFirst marks a build seen only in the update catalog.
	StatusDeviceFirst SourceStatus = "device_first"
	// StatusAnnounceFirst marks a build seen only in the announcement feed.
	StatusAnnounceFirst SourceStatus = "announce_first"
	// StatusConfirmed marks a build observed by both sources. Terminal.
	StatusConfirmed SourceStatus = "confirmed"
)

// DisplayName returns the user-facing status label.
func (s SourceStatus) DisplayName() string {
	switch s {
	case StatusDeviceFirst:
		return "device first"
	case StatusAnnounceFirst:
		return "announce first"
	default:
		return "confirmed"
	}
}

// Transitional reports whether the status still awaits confirmation from the
// other source.
func (s SourceStatus) Transitional() bool {
	return s == StatusDeviceFirst || s == StatusAnnounceFirst
}

// Promote applies the status transition triggered by evidence of the same
// build arriving with the given status. Confirmation is terminal; matching
// evidence from the opposite source confirms, evidence from the same side
// changes nothing.
func (s SourceStatus) Promote(evidence SourceStatus) SourceStatus {
	if s == StatusConfirmed || evidence == StatusConfirmed {
		return StatusConfirmed
	}
	if s != evidence {
		return StatusConfirmed
	}
	return s
}
