package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sc2kit/s2bank/internal/bank"
	"github.com/sc2kit/s2bank/internal/roster"
)

// BankRecord pairs a reconstructed document with its verification result
// for cataloging.
type BankRecord struct {
	Document     *bank.Document
	Verification bank.Verification
}

// Ingest records one replay dump with its participants and bank summaries
// in a single transaction. Either everything is written or nothing is.
//
// Each ingest is stamped with a UUIDv7 id, so re-ingesting the same dump
// produces a new catalog entry rather than silently merging.
func (s *Store) Ingest(ctx context.Context, source string, build int, title string, region int, participants []*roster.Participant, banks []BankRecord) (string, error) {
	id := uuid.Must(uuid.NewV7()).String()
	now := time.Now().UTC().Format(time.RFC3339)

	err := s.tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO replays (id, source, build, title, region, ingested_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, id, source, build, title, region, now); err != nil {
			return fmt.Errorf("write replay: %w", err)
		}

		for _, p := range participants {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO participants
				(replay_id, idx, player_id, user_id, working_slot, control, name, clan, handle, color)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(replay_id, idx) DO NOTHING
			`,
				id, p.Index,
				nullableInt(p.PlayerID), nullableInt(p.UserID), nullableInt(p.WorkingSlot),
				p.Control.String(), p.Name, p.Clan, p.Handle, roster.ColorHex(p.Color),
			); err != nil {
				return fmt.Errorf("write participant %d: %w", p.Index, err)
			}
		}

		for _, rec := range banks {
			doc := rec.Document
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO banks
				(replay_id, participant_idx, name, sections, keys, content_bytes, net_bits, signed,
				 expected_digest, computed_digest)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(replay_id, participant_idx, name) DO NOTHING
			`,
				id, doc.Owner.Index, doc.Name,
				doc.Summary.Sections, doc.Summary.Keys,
				doc.Summary.ContentBytes, doc.Summary.NetBits, doc.Summary.Signed,
				rec.Verification.Expected, rec.Verification.Computed,
			); err != nil {
				return fmt.Errorf("write bank %q: %w", doc.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
