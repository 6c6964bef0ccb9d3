package view

import (
	"context"
	"io"

	"kirkit-dashboard/internal/dashboard"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so components can be written
// as straight-line markup.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func component(fn func(ctx context.Context, h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		fn(ctx, h)
		return h.err
	})
}

// TournamentSelector renders nothing when there are no tournaments.
func TournamentSelector(opts []Option) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		if len(opts) == 0 {
			return
		}
		h.raw(`<section class="tournament-selector"><form method="get" action="/">`)
		h.raw(`<label for="tournament" class="tournament-selector__label">Tournament</label>`)
		h.raw(`<select id="tournament" name="tournament" class="tournament-selector__select" onchange="this.form.submit()">`)
		for _, o := range opts {
			h.raw(`<option value="`)
			h.text(o.Value)
			h.raw(`"`)
			if o.Selected {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(o.Label)
			h.raw(`</option>`)
		}
		h.raw(`</select><noscript><button type="submit">Show</button></noscript></form></section>`)
	})
}

func Stats(cards []Card) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<section class="stats"><h2 class="stats__title">Stats</h2>`)
		h.raw(`<p class="stats__subtitle">Derived from tournament, leaderboard, game, and fantasy_league</p>`)
		h.raw(`<div class="stats__grid">`)
		for _, c := range cards {
			h.raw(`<div class="stats__card"><div class="stats__card-value">`)
			h.text(c.Value)
			h.raw(`</div><div class="stats__card-label">`)
			h.text(c.Label)
			h.raw(`</div><div class="stats__card-desc">`)
			h.text(c.Desc)
			h.raw(`</div></div>`)
		}
		h.raw(`</div></section>`)
	})
}

func Leaderboard(rows []Row) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<section class="leaderboard"><h2 class="leaderboard__title">Leaderboard</h2>`)
		if len(rows) == 0 {
			h.raw(`<p class="leaderboard__empty">No entries yet.</p></section>`)
			return
		}
		h.raw(`<div class="leaderboard__table-wrap"><table class="leaderboard__table"><thead><tr>`)
		h.raw(`<th>Rank</th><th>Team</th><th>Owner</th><th class="leaderboard__th-points">Points</th>`)
		h.raw(`</tr></thead><tbody>`)
		for _, r := range rows {
			h.raw(`<tr data-team="`)
			h.text(r.Key)
			h.raw(`"`)
			if r.First {
				h.raw(` class="leaderboard__row--first"`)
			}
			h.raw(`><td class="leaderboard__rank">`)
			if r.Medal != "" {
				h.raw(`<span class="leaderboard__medal">`)
				h.text(r.Medal)
				h.raw(`</span>`)
			}
			h.text(r.Rank)
			h.raw(`</td><td class="leaderboard__team">`)
			h.text(r.Team)
			h.raw(`</td><td class="leaderboard__owner">`)
			h.text(r.Owner)
			h.raw(`</td><td class="leaderboard__points">`)
			h.text(r.Points)
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table></div></section>`)
	})
}

func layout(body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="UTF-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1.0">`)
		h.raw(`<title>Kirkit</title><link rel="stylesheet" href="/assets/app.css"></head><body>`)
		h.render(ctx, body)
		h.raw(`</body></html>`)
	})
}

// Page renders the whole dashboard for a controller snapshot.
func Page(s dashboard.State) templ.Component {
	if s.Loading {
		return layout(component(func(ctx context.Context, h *htmlWriter) {
			h.raw(`<div class="app-loading">Loading…</div>`)
		}))
	}
	if s.Err != "" {
		return layout(component(func(ctx context.Context, h *htmlWriter) {
			h.raw(`<div class="app-error">Error: `)
			h.text(s.Err)
			h.raw(`</div>`)
		}))
	}

	return layout(component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<div class="app"><header class="app-header">`)
		h.raw(`<img src="/assets/logo.svg" alt="" class="app-logo" aria-hidden="true">`)
		h.raw(`<h1 class="app-title">Kirkit</h1><p class="app-tagline">Fantasy Cricket Leaderboard</p>`)
		h.raw(`</header><main class="app-main">`)
		h.render(ctx, TournamentSelector(BuildOptions(s.Tournaments, s.SelectedID)))
		h.render(ctx, Stats(BuildStats(s.Leaderboard, s.Matches, s.FantasyTeams)))
		h.render(ctx, Leaderboard(BuildRows(s.Leaderboard)))
		h.raw(`</main></div>`)
	}))
}
