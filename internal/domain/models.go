package domain

import (
	"encoding/json"
	"strconv"
	"time"
)

type TournamentStatus int

const (
	StatusUnknown TournamentStatus = iota - 1
	StatusNotStarted
	StatusInProgress
	StatusDone
)

// ParseTournamentStatus maps the backend's numeric status code.
func ParseTournamentStatus(code int) TournamentStatus {
	switch TournamentStatus(code) {
	case StatusNotStarted, StatusInProgress, StatusDone:
		return TournamentStatus(code)
	default:
		return StatusUnknown
	}
}

func (s TournamentStatus) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusInProgress:
		return "in_progress"
	case StatusDone:
		return "done"
	default:
		return "unknown"
	}
}

type Tournament struct {
	ID       int
	Name     string
	Status   TournamentStatus
	SeriesID string // empty when the tournament is not tied to a series
}

type LeaderboardEntry struct {
	Rank      int
	TeamID    int
	TeamName  string
	TeamOwner string
	Points    *int // nil when the backend omitted it
}

func (e LeaderboardEntry) DisplayName() string {
	if e.TeamName != "" {
		return e.TeamName
	}
	return "Team " + strconv.Itoa(e.TeamID)
}

func (e LeaderboardEntry) DisplayOwner() string {
	if e.TeamOwner != "" {
		return e.TeamOwner
	}
	return "—"
}

func (e LeaderboardEntry) PointsOrZero() int {
	if e.Points == nil {
		return 0
	}
	return *e.Points
}

type Match struct {
	ID       int
	SeriesID string
	MatchID  string
	Info     json.RawMessage
}

type FantasyTeam struct {
	ID        int
	SeriesID  string
	TeamName  string
	TeamOwner string
}

type Snapshot struct {
	ID           string // nanoid
	TournamentID int
	Date         string // YYYY-MM-DD, UTC
	Entries      []LeaderboardEntry
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
