package view

import (
	"strconv"

	"kirkit-dashboard/internal/domain"
)

type Row struct {
	Key    string
	Medal  string
	Rank   string
	Team   string
	Owner  string
	Points string
	First  bool
}

func Medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return ""
	}
}

func BuildRows(entries []domain.LeaderboardEntry) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Row{
			Key:    strconv.Itoa(e.TeamID),
			Medal:  Medal(e.Rank),
			Rank:   strconv.Itoa(e.Rank),
			Team:   e.DisplayName(),
			Owner:  e.DisplayOwner(),
			Points: FormatPoints(e.PointsOrZero()),
			First:  e.Rank == 1,
		})
	}
	return rows
}

type Option struct {
	Value    string
	Label    string
	Selected bool
}

func BuildOptions(tournaments []domain.Tournament, selectedID int) []Option {
	opts := make([]Option, 0, len(tournaments))
	for _, t := range tournaments {
		label := t.Name
		if t.Status == domain.StatusDone {
			label += " (Done)"
		}
		opts = append(opts, Option{
			Value:    strconv.Itoa(t.ID),
			Label:    label,
			Selected: t.ID == selectedID,
		})
	}
	return opts
}
