package service

import (
	"context"
	"errors"
	"time"

	"kirkit-dashboard/internal/config"
	"kirkit-dashboard/internal/constants"
	"kirkit-dashboard/internal/domain"
	"kirkit-dashboard/internal/repository"

	"github.com/rs/zerolog"
)

// SnapshotService keeps one leaderboard snapshot per tournament per UTC day.
type SnapshotService struct {
	repo    *repository.SnapshotRepository
	enabled bool
	now     func() time.Time
	logger  zerolog.Logger
}

func NewSnapshotService(repo *repository.SnapshotRepository, cfg *config.Config, logger zerolog.Logger) *SnapshotService {
	return &SnapshotService{
		repo:    repo,
		enabled: cfg.SnapshotsEnabled,
		now:     time.Now,
		logger:  logger,
	}
}

func (s *SnapshotService) Record(ctx context.Context, tournamentID int, entries []domain.LeaderboardEntry) error {
	if !s.enabled {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	snap := &domain.Snapshot{
		TournamentID: tournamentID,
		Date:         s.now().UTC().Format(constants.SnapshotDateLayout),
		Entries:      entries,
	}
	if err := s.repo.Upsert(ctx, snap); err != nil {
		return err
	}

	s.logger.Debug().Int("tournament_id", tournamentID).Str("date", snap.Date).Msg("leaderboard snapshot recorded")
	return nil
}

func (s *SnapshotService) List(ctx context.Context, tournamentID int) ([]domain.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	snaps, err := s.repo.ListByTournament(ctx, tournamentID, constants.SnapshotListLimit)
	if err != nil {
		s.logger.Error().Err(err).Int("tournament_id", tournamentID).Msg("failed to list snapshots")
		return nil, err
	}
	return snaps, nil
}

func (s *SnapshotService) Get(ctx context.Context, tournamentID int, date string) (*domain.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	snap, err := s.repo.Get(ctx, tournamentID, date)
	if err != nil {
		if !errors.Is(err, repository.ErrSnapshotNotFound) {
			s.logger.Error().Err(err).Int("tournament_id", tournamentID).Str("date", date).Msg("failed to get snapshot")
		}
		return nil, err
	}
	return snap, nil
}
