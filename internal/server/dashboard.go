package server

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"kirkit-dashboard/internal/constants"
	"kirkit-dashboard/internal/dashboard"
	"kirkit-dashboard/internal/domain"
	"kirkit-dashboard/internal/middleware"
	"kirkit-dashboard/internal/repository"
	"kirkit-dashboard/internal/service"
	"kirkit-dashboard/internal/session"
	"kirkit-dashboard/internal/view"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

type DashboardServer struct {
	sessions  *session.Store
	snapshots *service.SnapshotService
	logger    zerolog.Logger
}

func NewDashboardServer(sessions *session.Store, snapshots *service.SnapshotService, logger zerolog.Logger) *DashboardServer {
	return &DashboardServer{sessions: sessions, snapshots: snapshots, logger: logger}
}

func (s *DashboardServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID(s.logger))
	r.Use(middleware.Recover)

	assets, err := fs.Sub(view.Assets, "assets")
	if err != nil {
		panic(err)
	}

	r.Get("/", s.GetDashboard)
	r.Get("/healthz", s.Healthz)
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(assets))))

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"*"},
		}).Handler)
		r.Get("/snapshots/{tournamentID}", s.ListSnapshots)
	})

	return r
}

// GetDashboard renders the page for the caller's session. The optional
// "tournament" query parameter is the selector's submitted value; an empty
// value clears the selection. A request without it is a fresh page load and
// reloads the tournament list.
func (s *DashboardServer) GetDashboard(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())

	var sessionID string
	if c, err := r.Cookie(constants.SessionCookieName); err == nil {
		sessionID = c.Value
	}
	sessionID, ctrl, created := s.sessions.Get(sessionID)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     constants.SessionCookieName,
			Value:    sessionID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	raw, hasSelection := r.URL.Query()["tournament"]
	selectedID := 0
	if hasSelection {
		selectedID, _ = view.ParseSelection(raw[0])
	}

	ctx, cancel := context.WithTimeout(r.Context(), constants.RequestTimeout)
	defer cancel()

	ctrl.Start(selectedID)
	if err := ctrl.Wait(ctx); err != nil {
		log.Warn().Err(err).Msg("initial load still pending, rendering loading state")
	} else if !created {
		if hasSelection {
			s.applySelection(ctx, ctrl, selectedID)
		} else {
			s.reload(ctx, ctrl)
		}
	}

	state := ctrl.Snapshot()
	status := http.StatusOK
	if state.Err != "" {
		status = http.StatusBadGateway
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := view.Page(state).Render(r.Context(), w); err != nil {
		log.Error().Err(err).Msg("failed to render dashboard")
	}
}

// Selection and reload fetches run detached from the request so a dropped
// browser connection does not surface as a dashboard error.
func (s *DashboardServer) applySelection(ctx context.Context, ctrl *dashboard.Controller, id int) {
	if id == 0 {
		ctrl.Clear()
		return
	}

	state := ctrl.Snapshot()
	if state.Err != "" && len(state.Tournaments) == 0 {
		s.reload(ctx, ctrl)
		state = ctrl.Snapshot()
	}
	if state.SelectedID == id && state.Err == "" {
		return
	}
	if err := ctrl.Select(context.WithoutCancel(ctx), id); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int("tournament_id", id).Msg("selection failed")
	}
}

func (s *DashboardServer) reload(ctx context.Context, ctrl *dashboard.Controller) {
	if err := ctrl.Reload(context.WithoutCancel(ctx)); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("reload failed")
	}
}

type snapshotResponse struct {
	ID           string                  `json:"id"`
	TournamentID int                     `json:"tournament_id"`
	SnapshotDate string                  `json:"snapshot_date"`
	Leaderboard  []snapshotEntryResponse `json:"leaderboard"`
}

type snapshotEntryResponse struct {
	Rank      int    `json:"rank"`
	TeamID    int    `json:"team_id"`
	TeamName  string `json:"team_name,omitempty"`
	TeamOwner string `json:"team_owner,omitempty"`
	Points    int    `json:"points"`
}

type apiResponse struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

func (s *DashboardServer) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "tournamentID"))
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, apiResponse{Error: "invalid tournament id"})
		return
	}

	if date := r.URL.Query().Get("date"); date != "" {
		s.getSnapshot(w, r, id, date)
		return
	}

	snaps, err := s.snapshots.List(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, apiResponse{Error: "failed to load snapshots"})
		return
	}

	out := make([]snapshotResponse, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, toSnapshotResponse(snap))
	}
	writeJSON(w, http.StatusOK, apiResponse{Data: out})
}

func (s *DashboardServer) getSnapshot(w http.ResponseWriter, r *http.Request, tournamentID int, date string) {
	if _, err := time.Parse(constants.SnapshotDateLayout, date); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Error: "invalid date, want YYYY-MM-DD"})
		return
	}

	snap, err := s.snapshots.Get(r.Context(), tournamentID, date)
	if errors.Is(err, repository.ErrSnapshotNotFound) {
		writeJSON(w, http.StatusNotFound, apiResponse{Error: "snapshot not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, apiResponse{Error: "failed to load snapshot"})
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Data: toSnapshotResponse(*snap)})
}

func toSnapshotResponse(snap domain.Snapshot) snapshotResponse {
	entries := make([]snapshotEntryResponse, 0, len(snap.Entries))
	for _, e := range snap.Entries {
		entries = append(entries, snapshotEntryResponse{
			Rank:      e.Rank,
			TeamID:    e.TeamID,
			TeamName:  e.TeamName,
			TeamOwner: e.TeamOwner,
			Points:    e.PointsOrZero(),
		})
	}
	return snapshotResponse{
		ID:           snap.ID,
		TournamentID: snap.TournamentID,
		SnapshotDate: snap.Date,
		Leaderboard:  entries,
	}
}

func (s *DashboardServer) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
