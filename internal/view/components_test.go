package view

import (
	"bytes"
	"context"
	"testing"

	"kirkit-dashboard/internal/dashboard"
	"kirkit-dashboard/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderDoc(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestLeaderboard_ExampleRows(t *testing.T) {
	doc := renderDoc(t, Leaderboard(BuildRows(exampleLeaderboard())))

	rows := doc.Find("tbody tr")
	require.Equal(t, 2, rows.Length())

	first := rows.Eq(0)
	assert.True(t, first.HasClass("leaderboard__row--first"))
	assert.Equal(t, "🥇", first.Find(".leaderboard__medal").Text())
	assert.Equal(t, "🥇1", first.Find(".leaderboard__rank").Text())
	assert.Equal(t, "Strikers", first.Find(".leaderboard__team").Text())
	assert.Equal(t, "—", first.Find(".leaderboard__owner").Text())
	assert.Equal(t, "150", first.Find(".leaderboard__points").Text())

	second := rows.Eq(1)
	assert.False(t, second.HasClass("leaderboard__row--first"))
	assert.Equal(t, "🥈2", second.Find(".leaderboard__rank").Text())
	assert.Equal(t, "Team 3", second.Find(".leaderboard__team").Text())
	assert.Equal(t, "120", second.Find(".leaderboard__points").Text())
}

func TestLeaderboard_NoMedalBeyondThird(t *testing.T) {
	doc := renderDoc(t, Leaderboard(BuildRows([]domain.LeaderboardEntry{
		{TeamID: 1, Rank: 4, Points: pts(1500)},
	})))

	assert.Equal(t, 0, doc.Find(".leaderboard__medal").Length())
	assert.Equal(t, "4", doc.Find(".leaderboard__rank").Text())
	assert.Equal(t, "1,500", doc.Find(".leaderboard__points").Text())
}

func TestLeaderboard_Empty(t *testing.T) {
	doc := renderDoc(t, Leaderboard(nil))

	assert.Equal(t, "No entries yet.", doc.Find(".leaderboard__empty").Text())
	assert.Equal(t, 0, doc.Find("table").Length())
}

func TestLeaderboard_EscapesNames(t *testing.T) {
	var buf bytes.Buffer
	rows := BuildRows([]domain.LeaderboardEntry{{TeamID: 1, Rank: 1, TeamName: "<script>x</script>"}})
	require.NoError(t, Leaderboard(rows).Render(context.Background(), &buf))

	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}

func TestTournamentSelector(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TournamentSelector(nil).Render(context.Background(), &buf))
	assert.Empty(t, buf.String())

	doc := renderDoc(t, TournamentSelector(BuildOptions([]domain.Tournament{
		{ID: 1, Name: "World Cup", Status: domain.StatusDone},
		{ID: 5, Name: "League", Status: domain.StatusNotStarted},
	}, 5)))

	opts := doc.Find("select#tournament option")
	require.Equal(t, 2, opts.Length())
	assert.Equal(t, "World Cup (Done)", opts.Eq(0).Text())
	assert.Equal(t, "League", opts.Eq(1).Text())

	selected, _ := doc.Find("option[selected]").Attr("value")
	assert.Equal(t, "5", selected)
}

func TestPage_States(t *testing.T) {
	loading := renderDoc(t, Page(dashboard.State{Loading: true}))
	assert.Equal(t, "Loading…", loading.Find(".app-loading").Text())
	assert.Equal(t, 0, loading.Find(".app").Length())

	failed := renderDoc(t, Page(dashboard.State{Err: "not found"}))
	assert.Equal(t, "Error: not found", failed.Find(".app-error").Text())
	assert.Equal(t, 0, failed.Find(".leaderboard").Length())

	ready := renderDoc(t, Page(dashboard.State{
		Tournaments: []domain.Tournament{{ID: 1, Name: "World Cup", SeriesID: "wc"}},
		SelectedID:  1,
		Leaderboard: exampleLeaderboard(),
	}))
	assert.Equal(t, 1, ready.Find(".tournament-selector").Length())
	assert.Equal(t, 5, ready.Find(".stats__card").Length())
	assert.Equal(t, "270", ready.Find(".stats__card-value").Eq(1).Text())
	assert.Equal(t, "Strikers", ready.Find(".stats__card-value").Eq(4).Text())
	assert.Equal(t, 2, ready.Find(".leaderboard tbody tr").Length())
}
