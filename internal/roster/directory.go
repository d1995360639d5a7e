package roster

import (
	"log/slog"

	"github.com/sc2kit/s2bank/internal/protocol"
	"github.com/sc2kit/s2bank/internal/rep"
)

// Directory owns the participant records for one replay and resolves
// lookups across the identifier namespaces. It is read-only after Build.
type Directory struct {
	features     protocol.Features
	participants []*Participant
}

// Build constructs the directory from the details player list, the
// init-data lobby slots, and (when the protocol provides them) the tracker
// stream's leading playerSetup events.
//
// Open rows are unoccupied and skipped. On protocols with working slots, a
// row whose working-set-slot id has no matching lobby slot is kept but left
// slotless: it gets a synthetic sequential user id and a warning, which
// covers games recovered mid-match where a player was replaced or dropped.
// On older protocols slots are assigned sequentially in player-list order.
//
// The tracker pass consumes only the contiguous playerSetup prefix of the
// stream, via one-event peeks, leaving the remainder untouched for later
// consumers.
func Build(rows []rep.PlayerRow, slots []rep.LobbySlot, tracker *rep.Stream, feats protocol.Features, log *slog.Logger) *Directory {
	if log == nil {
		log = slog.Default()
	}

	d := &Directory{features: feats}

	for i, row := range rows {
		if ControlKind(row.Control) == ControlOpen {
			continue
		}

		p := &Participant{
			Index:   i + 1,
			Control: ControlKind(row.Control),
			Observe: ObserveKind(row.Observe),
			Color:   row.Color,
		}
		p.Name, p.Clan = splitName(row.Name)
		if p.Control == ControlHuman {
			p.Handle = toonHandle(row.Toon)
		}
		d.participants = append(d.participants, p)

		if feats.WorkingSlots {
			if !assignLobbySlot(p, row, slots) {
				log.Warn("participant has no working slot assigned",
					"name", p.Name,
					"index", p.Index,
				)
				p.UserID = intp(d.nextSyntheticUserID())
				continue
			}
		} else {
			next := 0
			if n := len(d.participants); n > 1 {
				if prev := d.participants[n-2].WorkingSlot; prev != nil {
					next = *prev + 1
				}
			}
			p.WorkingSlot = intp(next)
			if next < len(slots) && slots[next].UserID != nil {
				p.UserID = intp(*slots[next].UserID)
			}
		}

		// Competitive numbering is slot+1 for active competitors. On
		// slotless protocols every occupied row counts; otherwise
		// observers wait for the tracker's authoritative setup events.
		if p.Observe == ObserveNone || !feats.WorkingSlots {
			p.PlayerID = intp(*p.WorkingSlot + 1)
		}
	}

	if feats.TrackerPlayerID && tracker != nil {
		d.backfillPlayerIDs(tracker, log)
	}

	return d
}

// assignLobbySlot matches a details row to its lobby slot by working-set
// id. Reports false when the row has no id or no slot matches.
func assignLobbySlot(p *Participant, row rep.PlayerRow, slots []rep.LobbySlot) bool {
	if row.WorkingSetSlotID == nil {
		return false
	}
	for j, sl := range slots {
		if sl.WorkingSetSlotID == nil || *sl.WorkingSetSlotID != *row.WorkingSetSlotID {
			continue
		}
		p.WorkingSlot = intp(j)
		if sl.UserID != nil {
			p.UserID = intp(*sl.UserID)
		}
		return true
	}
	return false
}

// nextSyntheticUserID continues the user-id sequence past the previous
// participant, starting at 0 for the first.
func (d *Directory) nextSyntheticUserID() int {
	if n := len(d.participants); n > 1 {
		if prev := d.participants[n-2].UserID; prev != nil {
			return *prev + 1
		}
	}
	return 0
}

// backfillPlayerIDs overwrites player ids from the tracker's playerSetup
// prefix. The prefix is guaranteed contiguous at stream start; the first
// event of any other kind ends the scan without being consumed.
func (d *Directory) backfillPlayerIDs(tracker *rep.Stream, log *slog.Logger) {
	for {
		ev, ok := tracker.Peek()
		if !ok {
			return
		}
		setup, ok := ev.(*rep.PlayerSetupEvent)
		if !ok {
			return
		}
		tracker.Next()

		if setup.SlotID == nil {
			continue
		}
		p := d.BySlot(*setup.SlotID)
		if p == nil {
			log.Warn("tracker setup names unmatched slot",
				"slot", *setup.SlotID,
				"player_id", setup.PlayerID,
			)
			continue
		}
		p.PlayerID = intp(setup.PlayerID)
	}
}

// Participants returns the records in player-list order.
func (d *Directory) Participants() []*Participant {
	return d.participants
}

// Features returns the identifier-space flags the directory was built with.
func (d *Directory) Features() protocol.Features {
	return d.features
}

// ByOrigin resolves an event origin through the identifier space the
// replay's protocol uses. Returns nil when the origin does not resolve.
func (d *Directory) ByOrigin(o rep.Origin) *Participant {
	if d.features.UserIDDriven {
		if o.UserID == nil {
			return nil
		}
		return d.ByUserID(*o.UserID)
	}
	if o.PlayerID == nil {
		return nil
	}
	return d.ByPlayerID(*o.PlayerID)
}

// ByUserID returns the participant with the given user id, or nil.
func (d *Directory) ByUserID(uid int) *Participant {
	for _, p := range d.participants {
		if p.UserID != nil && *p.UserID == uid {
			return p
		}
	}
	return nil
}

// ByPlayerID returns the participant with the given player id, or nil.
func (d *Directory) ByPlayerID(pid int) *Participant {
	for _, p := range d.participants {
		if p.PlayerID != nil && *p.PlayerID == pid {
			return p
		}
	}
	return nil
}

// BySlot returns the participant with the given working slot, or nil.
func (d *Directory) BySlot(slot int) *Participant {
	for _, p := range d.participants {
		if p.WorkingSlot != nil && *p.WorkingSlot == slot {
			return p
		}
	}
	return nil
}

func intp(v int) *int {
	return &v
}
