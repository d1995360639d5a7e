package store

import (
	"context"
	"fmt"
)

// ReplayRow is one cataloged replay.
type ReplayRow struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	Build      int    `json:"build"`
	Title      string `json:"title,omitempty"`
	Region     int    `json:"region,omitempty"`
	IngestedAt string `json:"ingestedAt"`
}

// BankRow is one cataloged bank summary with its verification digests.
type BankRow struct {
	ReplayID       string `json:"replayId"`
	ParticipantIdx int    `json:"participantIdx"`
	Player         string `json:"player"`
	Name           string `json:"name"`
	Sections       int    `json:"sections"`
	Keys           int    `json:"keys"`
	ContentBytes   int64  `json:"contentBytes"`
	NetBits        int64  `json:"netBits"`
	Signed         bool   `json:"signed"`
	ExpectedDigest string `json:"expectedDigest,omitempty"`
	ComputedDigest string `json:"computedDigest,omitempty"`
}

// ListReplays returns cataloged replays, newest ingest first.
func (s *Store) ListReplays(ctx context.Context) ([]ReplayRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, build, title, region, ingested_at
		FROM replays
		ORDER BY ingested_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list replays: %w", err)
	}
	defer rows.Close()

	var out []ReplayRow
	for rows.Next() {
		var r ReplayRow
		if err := rows.Scan(&r.ID, &r.Source, &r.Build, &r.Title, &r.Region, &r.IngestedAt); err != nil {
			return nil, fmt.Errorf("scan replay: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// BanksForReplay returns a replay's cataloged banks in participant order.
func (s *Store) BanksForReplay(ctx context.Context, replayID string) ([]BankRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.replay_id, b.participant_idx, p.name, b.name,
		       b.sections, b.keys, b.content_bytes, b.net_bits, b.signed,
		       b.expected_digest, b.computed_digest
		FROM banks b
		JOIN participants p
		  ON p.replay_id = b.replay_id AND p.idx = b.participant_idx
		WHERE b.replay_id = ?
		ORDER BY b.participant_idx ASC, b.name ASC
	`, replayID)
	if err != nil {
		return nil, fmt.Errorf("list banks: %w", err)
	}
	defer rows.Close()

	var out []BankRow
	for rows.Next() {
		var b BankRow
		if err := rows.Scan(&b.ReplayID, &b.ParticipantIdx, &b.Player, &b.Name,
			&b.Sections, &b.Keys, &b.ContentBytes, &b.NetBits, &b.Signed,
			&b.ExpectedDigest, &b.ComputedDigest); err != nil {
			return nil, fmt.Errorf("scan bank: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// BankHistory returns every cataloged occurrence of a bank name across
// replays, newest ingest first. Useful for tracking a map's save data over
// time.
func (s *Store) BankHistory(ctx context.Context, bankName string) ([]BankRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.replay_id, b.participant_idx, p.name, b.name,
		       b.sections, b.keys, b.content_bytes, b.net_bits, b.signed,
		       b.expected_digest, b.computed_digest
		FROM banks b
		JOIN participants p
		  ON p.replay_id = b.replay_id AND p.idx = b.participant_idx
		JOIN replays r ON r.id = b.replay_id
		WHERE b.name = ?
		ORDER BY r.ingested_at DESC, b.participant_idx ASC
	`, bankName)
	if err != nil {
		return nil, fmt.Errorf("bank history: %w", err)
	}
	defer rows.Close()

	var out []BankRow
	for rows.Next() {
		var b BankRow
		if err := rows.Scan(&b.ReplayID, &b.ParticipantIdx, &b.Player, &b.Name,
			&b.Sections, &b.Keys, &b.ContentBytes, &b.NetBits, &b.Signed,
			&b.ExpectedDigest, &b.ComputedDigest); err != nil {
			return nil, fmt.Errorf("scan bank: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
