// Package roster builds the per-replay participant directory and resolves
// event origins across the protocol's identifier namespaces.
package roster

import (
	"fmt"
	"strings"

	"github.com/sc2kit/s2bank/internal/rep"
)

// ControlKind says who (if anyone) occupies a player-list row.
type ControlKind int

const (
	ControlOpen ControlKind = iota
	ControlClosed
	ControlHuman
	ControlComputer
)

func (c ControlKind) String() string {
	switch c {
	case ControlOpen:
		return "OPEN"
	case ControlClosed:
		return "CLOSED"
	case ControlHuman:
		return "HUMAN"
	case ControlComputer:
		return "COMPUTER"
	default:
		return fmt.Sprintf("CONTROL(%d)", int(c))
	}
}

// ObserveKind distinguishes active competitors from spectators.
type ObserveKind int

const (
	ObserveNone ObserveKind = iota
	ObserveSpectator
	ObserveReferee
)

func (o ObserveKind) String() string {
	switch o {
	case ObserveNone:
		return "NONE"
	case ObserveSpectator:
		return "SPECTATOR"
	case ObserveReferee:
		return "REFEREE"
	default:
		return fmt.Sprintf("OBSERVE(%d)", int(o))
	}
}

// Participant is one occupied player-list row, enriched with lobby and
// tracker data. Records are created once at replay load; only PlayerID may
// be back-filled afterward, by the tracker setup pass.
type Participant struct {
	// Index is the 1-based position in the details player list.
	Index int

	// PlayerID is the in-game competitive id, nil until resolved.
	PlayerID *int

	// UserID is the lobby/session id, nil when unresolvable.
	UserID *int

	// WorkingSlot is the lobby slot index, nil for participants without a
	// working slot (recovered/excluded games).
	WorkingSlot *int

	Control ControlKind
	Observe ObserveKind

	Name string
	Clan string

	Color rep.ColorRGBA

	// Handle is the account handle ("region-S2-realm-id"), set only for
	// human participants whose account region resolved to a non-zero value.
	Handle string
}

// clanSep is the marker embedded in details names between clan tag and
// player name.
const clanSep = "<sp/>"

// splitName separates an embedded clan tag from the display name and
// unescapes the tag's angle brackets.
func splitName(raw string) (name, clan string) {
	parts := strings.SplitN(raw, clanSep, 2)
	if len(parts) == 2 {
		clan = strings.NewReplacer("&lt;", "<", "&gt;", ">").Replace(parts[0])
		return parts[1], clan
	}
	return parts[0], ""
}

// toonHandle formats account coordinates as a handle string. Returns ""
// when the region is zero; whether that marks a handle-less local account
// or a decode gap is unknown, so the handle stays unset.
func toonHandle(t *rep.Toon) string {
	if t == nil || t.Region == 0 {
		return ""
	}
	return fmt.Sprintf("%d-S2-%d-%d", t.Region, t.Realm, t.ID)
}
