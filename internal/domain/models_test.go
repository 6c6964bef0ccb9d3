package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTournamentStatus(t *testing.T) {
	assert.Equal(t, StatusNotStarted, ParseTournamentStatus(0))
	assert.Equal(t, StatusInProgress, ParseTournamentStatus(1))
	assert.Equal(t, StatusDone, ParseTournamentStatus(2))
	assert.Equal(t, StatusUnknown, ParseTournamentStatus(7))
	assert.Equal(t, StatusUnknown, ParseTournamentStatus(-1))
	assert.Equal(t, "done", StatusDone.String())
}

func TestLeaderboardEntry_Fallbacks(t *testing.T) {
	pts := 42
	named := LeaderboardEntry{Rank: 1, TeamID: 7, TeamName: "Strikers", TeamOwner: "Asha", Points: &pts}
	bare := LeaderboardEntry{Rank: 2, TeamID: 3}

	assert.Equal(t, "Strikers", named.DisplayName())
	assert.Equal(t, "Asha", named.DisplayOwner())
	assert.Equal(t, 42, named.PointsOrZero())

	assert.Equal(t, "Team 3", bare.DisplayName())
	assert.Equal(t, "—", bare.DisplayOwner())
	assert.Equal(t, 0, bare.PointsOrZero())
}
