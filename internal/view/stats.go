package view

import (
	"fmt"
	"strconv"

	"kirkit-dashboard/internal/domain"
)

type Card struct {
	Label string
	Value string
	Desc  string
}

func TotalPoints(entries []domain.LeaderboardEntry) int {
	total := 0
	for _, e := range entries {
		total += e.PointsOrZero()
	}
	return total
}

// Leader returns the rank-1 entry, if any.
func Leader(entries []domain.LeaderboardEntry) (domain.LeaderboardEntry, bool) {
	for _, e := range entries {
		if e.Rank == 1 {
			return e, true
		}
	}
	return domain.LeaderboardEntry{}, false
}

// BuildStats derives the five summary cards in display order.
func BuildStats(leaderboard []domain.LeaderboardEntry, matches []domain.Match, teams []domain.FantasyTeam) []Card {
	leaderValue, leaderDesc := "—", "Rank 1"
	if top, ok := Leader(leaderboard); ok {
		leaderValue = top.DisplayName()
		leaderDesc = fmt.Sprintf("%d pts", top.PointsOrZero())
	}

	return []Card{
		{Label: "Teams in leaderboard", Value: strconv.Itoa(len(leaderboard)), Desc: "From leaderboard table"},
		{Label: "Total points", Value: FormatPoints(TotalPoints(leaderboard)), Desc: "Sum of all team points"},
		{Label: "Matches in series", Value: strconv.Itoa(len(matches)), Desc: "From game table (series_id)"},
		{Label: "Fantasy teams", Value: strconv.Itoa(len(teams)), Desc: "From fantasy_league table"},
		{Label: "Leader", Value: leaderValue, Desc: leaderDesc},
	}
}
