// Package protocol maps replay protocol build numbers to the capability
// flags that drive participant resolution and bank reconstruction.
//
// The flags encode two decades of protocol drift:
//
//   - Before Heart of the Swarm (build 24764) observers were not separated
//     from players, event origins carried a player id, and the lobby had no
//     working-slot concept.
//   - From 24764 onward event origins carry a user id and details rows
//     reference lobby slots through working-set-slot ids.
//   - From 25604 onward replays carry a tracker stream whose leading
//     playerSetup events are the authoritative source for player ids.
//
// The cutoffs live in Thresholds rather than inline comparisons so new
// builds can shift them without touching call sites.
package protocol

// Features is the per-replay identifier-space flag set. It is derived once
// from the build number and never changes for the lifetime of a replay.
type Features struct {
	// UserIDDriven reports whether event origins carry a user id
	// (lobby/session scoped) rather than a player id (competitive seat).
	UserIDDriven bool `json:"userIdDriven"`

	// WorkingSlots reports whether details rows reference lobby slots
	// through working-set-slot ids.
	WorkingSlots bool `json:"workingSlots"`

	// TrackerPresent reports whether a tracker event stream is expected.
	TrackerPresent bool `json:"trackerPresent"`

	// TrackerPlayerID reports whether the tracker's leading playerSetup
	// events provide authoritative player ids.
	TrackerPlayerID bool `json:"trackerPlayerId"`
}

// Thresholds holds the effective-build cutoffs for each capability.
// A build at or above a cutoff has the capability.
type Thresholds struct {
	UserIDDriven    int `yaml:"user_id_driven"`
	WorkingSlots    int `yaml:"working_slots"`
	TrackerPresent  int `yaml:"tracker_present"`
	TrackerPlayerID int `yaml:"tracker_player_id"`

	// HighBuild marks the point past which fallback decoder selection
	// prefers the next-newer known build over the nearest one.
	HighBuild int `yaml:"high_build"`
}

// Default cutoffs, from SC2 patch history. 24764 is the HotS protocol
// overhaul (user ids, working slots); 25604 is patch 2.0.8 (tracker
// playerSetup events).
const (
	DefaultUserIDDrivenBuild    = 24764
	DefaultWorkingSlotsBuild    = 24764
	DefaultTrackerPresentBuild  = 25604
	DefaultTrackerPlayerIDBuild = 25604
	DefaultHighBuild            = 70000
)

// DefaultThresholds returns the built-in protocol-history cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		UserIDDriven:    DefaultUserIDDrivenBuild,
		WorkingSlots:    DefaultWorkingSlotsBuild,
		TrackerPresent:  DefaultTrackerPresentBuild,
		TrackerPlayerID: DefaultTrackerPlayerIDBuild,
		HighBuild:       DefaultHighBuild,
	}
}

// Resolve maps a build number to its capability flags.
// Pure and total: every build resolves to some flag set.
func (t Thresholds) Resolve(build int) Features {
	return Features{
		UserIDDriven:    build >= t.UserIDDriven,
		WorkingSlots:    build >= t.WorkingSlots,
		TrackerPresent:  build >= t.TrackerPresent,
		TrackerPlayerID: build >= t.TrackerPlayerID,
	}
}

// Resolve maps a build number to capability flags using the default
// thresholds.
func Resolve(build int) Features {
	return DefaultThresholds().Resolve(build)
}
