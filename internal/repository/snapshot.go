package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kirkit-dashboard/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

type SnapshotRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSnapshotRepository(sqlDB *sql.DB, logger zerolog.Logger) *SnapshotRepository {
	return &SnapshotRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// snapshotEntry is the stored JSON shape; it mirrors the backend's wire
// format so snapshots can be served back unchanged.
type snapshotEntry struct {
	Rank      int    `json:"rank"`
	TeamID    int    `json:"team_id"`
	TeamName  string `json:"team_name,omitempty"`
	TeamOwner string `json:"team_owner,omitempty"`
	Points    *int   `json:"points,omitempty"`
}

// Upsert stores the leaderboard for (tournament, date), replacing any earlier
// snapshot for the same day.
func (r *SnapshotRepository) Upsert(ctx context.Context, snap *domain.Snapshot) error {
	rows := make([]snapshotEntry, 0, len(snap.Entries))
	for _, e := range snap.Entries {
		rows = append(rows, snapshotEntry{
			Rank:      e.Rank,
			TeamID:    e.TeamID,
			TeamName:  e.TeamName,
			TeamOwner: e.TeamOwner,
			Points:    e.Points,
		})
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to encode leaderboard: %w", err)
	}

	id := snap.ID
	if id == "" {
		id, err = gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
	}

	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO leaderboard_snapshots (id, tournament_id, snapshot_date, leaderboard_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (tournament_id, snapshot_date) DO UPDATE SET
			leaderboard_json = excluded.leaderboard_json,
			updated_at = excluded.updated_at`,
		id, snap.TournamentID, snap.Date, string(payload), now, now)
	if err != nil {
		r.logger.Error().Err(err).Int("tournament_id", snap.TournamentID).Str("date", snap.Date).Msg("failed to upsert snapshot")
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}

	r.logger.Debug().
		Int("tournament_id", snap.TournamentID).
		Str("date", snap.Date).
		Int("entries", len(rows)).
		Msg("snapshot stored")
	return nil
}

func (r *SnapshotRepository) Get(ctx context.Context, tournamentID int, date string) (*domain.Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, tournament_id, snapshot_date, leaderboard_json, created_at, updated_at
		FROM leaderboard_snapshots
		WHERE tournament_id = ? AND snapshot_date = ?`,
		tournamentID, date)

	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// ListByTournament returns snapshots newest first.
func (r *SnapshotRepository) ListByTournament(ctx context.Context, tournamentID, limit int) ([]domain.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tournament_id, snapshot_date, leaderboard_json, created_at, updated_at
		FROM leaderboard_snapshots
		WHERE tournament_id = ?
		ORDER BY snapshot_date DESC
		LIMIT ?`,
		tournamentID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	out := []domain.Snapshot{}
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *snap)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(s scanner) (*domain.Snapshot, error) {
	var (
		snap    domain.Snapshot
		payload string
	)
	if err := s.Scan(&snap.ID, &snap.TournamentID, &snap.Date, &payload, &snap.CreatedAt, &snap.UpdatedAt); err != nil {
		return nil, err
	}

	var rows []snapshotEntry
	if err := json.Unmarshal([]byte(payload), &rows); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", snap.ID, err)
	}
	snap.Entries = make([]domain.LeaderboardEntry, 0, len(rows))
	for _, e := range rows {
		snap.Entries = append(snap.Entries, domain.LeaderboardEntry{
			Rank:      e.Rank,
			TeamID:    e.TeamID,
			TeamName:  e.TeamName,
			TeamOwner: e.TeamOwner,
			Points:    e.Points,
		})
	}
	return &snap, nil
}
