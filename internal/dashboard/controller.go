package dashboard

import (
	"context"
	"errors"
	"sync"

	"kirkit-dashboard/internal/constants"
	"kirkit-dashboard/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var ErrClosed = errors.New("dashboard closed")

// Fetcher is the read side of the standings API.
type Fetcher interface {
	GetTournaments(ctx context.Context) ([]domain.Tournament, error)
	GetLeaderboard(ctx context.Context, tournamentID int) ([]domain.LeaderboardEntry, error)
	GetMatches(ctx context.Context, seriesID string) ([]domain.Match, error)
	GetFantasyLeagues(ctx context.Context, seriesID string) ([]domain.FantasyTeam, error)
}

// LeaderboardRecorder is notified after a leaderboard has been committed.
type LeaderboardRecorder interface {
	Record(ctx context.Context, tournamentID int, entries []domain.LeaderboardEntry) error
}

// Controller owns all fetched dashboard state. The tournament list is loaded
// once; every selection change reloads the per-tournament detail. Detail
// fetches are tagged with a token and only the latest token may commit.
type Controller struct {
	fetcher  Fetcher
	recorder LeaderboardRecorder
	logger   zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	startOnce sync.Once
	loaded    chan struct{}

	mu     sync.RWMutex
	state  State
	token  uint64
	closed bool
}

func NewController(fetcher Fetcher, recorder LeaderboardRecorder, logger zerolog.Logger) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		fetcher:  fetcher,
		recorder: recorder,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		loaded:   make(chan struct{}),
		state:    State{Loading: true},
	}
}

// Start kicks off the tournament list fetch. A non-zero selectedID is used as
// the initial selection instead of the first tournament. Calls after the first
// are no-ops.
func (c *Controller) Start(selectedID int) {
	c.startOnce.Do(func() {
		c.mu.Lock()
		c.state.SelectedID = selectedID
		c.mu.Unlock()
		go c.load()
	})
}

// Wait blocks until the initial load (tournament list and, when a tournament
// was auto-selected, its detail) has settled or ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	select {
	case <-c.loaded:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.clone()
}

// Close tears the controller down. Results that arrive afterward are dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel()
}

func (c *Controller) load() {
	defer close(c.loaded)

	if err := c.loadTournaments(c.ctx); err != nil && !errors.Is(err, ErrClosed) {
		c.logger.Debug().Err(err).Msg("initial load finished with error")
	}
}

// Reload re-runs the tournament list fetch and reselects the current
// tournament (or the first one when nothing is selected). It clears an error
// left by an earlier load or selection.
func (c *Controller) Reload(ctx context.Context) error {
	c.Start(0)
	if err := c.Wait(ctx); err != nil {
		return err
	}
	return c.loadTournaments(ctx)
}

func (c *Controller) loadTournaments(ctx context.Context) error {
	fetchCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	tournaments, err := c.fetcher.GetTournaments(fetchCtx)
	cancel()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.logger.Debug().Msg("controller closed before tournaments resolved, discarding")
		return ErrClosed
	}
	c.state.Loading = false
	if err != nil {
		c.state.Err = err.Error()
		c.mu.Unlock()
		c.logger.Error().Err(err).Msg("failed to load tournaments")
		return err
	}
	if tournaments == nil {
		tournaments = []domain.Tournament{}
	}
	c.state.Tournaments = tournaments
	c.state.Err = ""
	initial := c.state.SelectedID
	if len(tournaments) > 0 && initial == 0 {
		initial = tournaments[0].ID
	}
	c.mu.Unlock()

	c.logger.Info().Int("count", len(tournaments)).Int("selected", initial).Msg("tournaments loaded")

	if initial == 0 {
		return nil
	}
	if err := c.Select(ctx, initial); err != nil {
		if !errors.Is(err, ErrClosed) {
			c.logger.Warn().Err(err).Int("tournament_id", initial).Msg("initial selection failed")
		}
		return err
	}
	return nil
}

// Select makes id the current tournament and reloads its leaderboard, matches
// and fantasy teams concurrently. A tournament without a series id gets empty
// matches and fantasy teams. If a newer selection is issued while this one is
// in flight, its results are discarded.
func (c *Controller) Select(ctx context.Context, id int) error {
	if id == 0 {
		c.Clear()
		return nil
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.token++
	token := c.token
	c.state.SelectedID = id
	c.state.Err = ""
	tournament, known := findTournament(c.state.Tournaments, id)
	c.mu.Unlock()

	seriesID := tournament.SeriesID
	log := c.logger.With().Int("tournament_id", id).Str("series_id", seriesID).Uint64("token", token).Logger()
	log.Debug().Msg("loading tournament detail")

	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	var (
		leaderboard []domain.LeaderboardEntry
		matches     = []domain.Match{}
		teams       = []domain.FantasyTeam{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		leaderboard, err = c.fetcher.GetLeaderboard(gctx, id)
		return err
	})
	if seriesID != "" {
		g.Go(func() error {
			var err error
			matches, err = c.fetcher.GetMatches(gctx, seriesID)
			return err
		})
		g.Go(func() error {
			var err error
			teams, err = c.fetcher.GetFantasyLeagues(gctx, seriesID)
			return err
		})
	}
	err := g.Wait()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		log.Debug().Msg("controller closed, discarding detail")
		return ErrClosed
	}
	if latest := c.token; token != latest {
		c.mu.Unlock()
		log.Debug().Uint64("latest", latest).Msg("stale detail response discarded")
		return nil
	}
	if err != nil {
		c.state.Err = err.Error()
		c.mu.Unlock()
		log.Error().Err(err).Msg("failed to load tournament detail")
		return err
	}
	c.state.Leaderboard = orEmpty(leaderboard)
	c.state.Matches = orEmpty(matches)
	c.state.FantasyTeams = orEmpty(teams)
	c.mu.Unlock()

	log.Info().
		Int("entries", len(leaderboard)).
		Int("matches", len(matches)).
		Int("fantasy_teams", len(teams)).
		Msg("tournament detail loaded")

	// Ids typed into the URL that are not in the tournament list are shown but
	// never persisted.
	if c.recorder != nil && known {
		if err := c.recorder.Record(ctx, id, orEmpty(leaderboard)); err != nil {
			log.Warn().Err(err).Msg("failed to record leaderboard snapshot")
		}
	}
	return nil
}

// Clear drops the selection. Any in-flight detail fetch is invalidated.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.token++
	c.state.SelectedID = 0
	c.state.Leaderboard = []domain.LeaderboardEntry{}
	c.state.Matches = []domain.Match{}
	c.state.FantasyTeams = []domain.FantasyTeam{}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
