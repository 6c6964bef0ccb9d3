package dashboard

import "kirkit-dashboard/internal/domain"

// State is an immutable view of a Controller. Slices are copies owned by the
// receiver.
type State struct {
	Tournaments  []domain.Tournament
	SelectedID   int // 0 when nothing is selected
	Leaderboard  []domain.LeaderboardEntry
	Matches      []domain.Match
	FantasyTeams []domain.FantasyTeam
	Loading      bool
	Err          string
}

func (s State) Selected() (domain.Tournament, bool) {
	return findTournament(s.Tournaments, s.SelectedID)
}

func (s State) clone() State {
	out := s
	out.Tournaments = append([]domain.Tournament(nil), s.Tournaments...)
	out.Leaderboard = append([]domain.LeaderboardEntry(nil), s.Leaderboard...)
	out.Matches = append([]domain.Match(nil), s.Matches...)
	out.FantasyTeams = append([]domain.FantasyTeam(nil), s.FantasyTeams...)
	return out
}

func findTournament(ts []domain.Tournament, id int) (domain.Tournament, bool) {
	if id == 0 {
		return domain.Tournament{}, false
	}
	for _, t := range ts {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Tournament{}, false
}
