package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"kirkit-dashboard/internal/config"
	"kirkit-dashboard/internal/constants"
	"kirkit-dashboard/internal/domain"

	"github.com/valyala/fasthttp"
)

const (
	tournamentsPath    = "/api/v1/tournaments"
	leaderboardPath    = "/api/v1/leaderboard/"
	matchesPath        = "/api/v1/matches"
	fantasyLeaguesPath = "/api/v1/fantasy-leagues"
)

// ErrRequestFailed is the only error kind returned by Client.
var ErrRequestFailed = errors.New("request failed")

// RequestError carries either a transport/decoding failure or the error
// string reported by the backend. Error returns the message verbatim.
type RequestError struct {
	Path    string
	Status  int
	Message string
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) Is(target error) bool { return target == ErrRequestFailed }

type Client struct {
	baseURL string
	client  *fasthttp.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.APIBase,
		client: &fasthttp.Client{
			MaxConnsPerHost:     constants.APIMaxConnsPerHost,
			ReadTimeout:         constants.APIReadTimeout,
			WriteTimeout:        constants.APIWriteTimeout,
			MaxIdleConnDuration: constants.APIMaxIdleConnDuration,
		},
	}
}

func (c *Client) GetTournaments(ctx context.Context) ([]domain.Tournament, error) {
	rows, err := doRequest[tournamentResponse](ctx, c, tournamentsPath)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Tournament, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (c *Client) GetLeaderboard(ctx context.Context, tournamentID int) ([]domain.LeaderboardEntry, error) {
	rows, err := doRequest[leaderboardEntryResponse](ctx, c, leaderboardPath+strconv.Itoa(tournamentID))
	if err != nil {
		return nil, err
	}
	out := make([]domain.LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (c *Client) GetMatches(ctx context.Context, seriesID string) ([]domain.Match, error) {
	rows, err := doRequest[matchResponse](ctx, c, matchesPath+"?series_id="+url.QueryEscape(seriesID))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Match, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Match{ID: r.ID, SeriesID: r.SeriesID, MatchID: r.MatchID, Info: r.MatchInfo})
	}
	return out, nil
}

func (c *Client) GetFantasyLeagues(ctx context.Context, seriesID string) ([]domain.FantasyTeam, error) {
	rows, err := doRequest[fantasyLeagueResponse](ctx, c, fantasyLeaguesPath+"?series_id="+url.QueryEscape(seriesID))
	if err != nil {
		return nil, err
	}
	out := make([]domain.FantasyTeam, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.FantasyTeam{ID: r.ID, SeriesID: r.SeriesID, TeamName: r.TeamName, TeamOwner: r.TeamOwner})
	}
	return out, nil
}

// doRequest issues a GET and unwraps the {data, error} envelope into a list.
// A data payload that is null or not an array yields an empty list.
func doRequest[T any](ctx context.Context, client *Client, path string) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, &RequestError{Path: path, Message: err.Error()}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(client.baseURL + path)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, &RequestError{Path: path, Message: err.Error()}
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, &RequestError{Path: path, Message: err.Error()}
		}
	}

	status := resp.StatusCode()

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, &RequestError{
			Path:    path,
			Status:  status,
			Message: fmt.Sprintf("invalid response from %s (status %d): %v", path, status, err),
		}
	}
	if env.Error != "" {
		return nil, &RequestError{Path: path, Status: status, Message: env.Error}
	}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || data[0] != '[' {
		return []T{}, nil
	}

	var result []T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &RequestError{
			Path:    path,
			Status:  status,
			Message: fmt.Sprintf("invalid data from %s: %v", path, err),
		}
	}
	return result, nil
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

type tournamentResponse struct {
	ID       int    `json:"id"`
	SeriesID string `json:"series_id"`
	Name     string `json:"name"`
	Status   int    `json:"status"`
}

func (r tournamentResponse) toDomain() domain.Tournament {
	return domain.Tournament{
		ID:       r.ID,
		Name:     r.Name,
		Status:   domain.ParseTournamentStatus(r.Status),
		SeriesID: r.SeriesID,
	}
}

type leaderboardEntryResponse struct {
	ID           int    `json:"id"`
	TournamentID int    `json:"tournament_id"`
	TeamID       int    `json:"team_id"`
	TeamName     string `json:"team_name"`
	TeamOwner    string `json:"team_owner"`
	Points       *int   `json:"points"`
	Rank         int    `json:"rank"`
}

func (r leaderboardEntryResponse) toDomain() domain.LeaderboardEntry {
	return domain.LeaderboardEntry{
		Rank:      r.Rank,
		TeamID:    r.TeamID,
		TeamName:  r.TeamName,
		TeamOwner: r.TeamOwner,
		Points:    r.Points,
	}
}

type matchResponse struct {
	ID        int             `json:"id"`
	SeriesID  string          `json:"series_id"`
	MatchID   string          `json:"match_id"`
	MatchInfo json.RawMessage `json:"match_info"`
}

type fantasyLeagueResponse struct {
	ID        int    `json:"id"`
	SeriesID  string `json:"series_id"`
	TeamName  string `json:"team_name"`
	TeamOwner string `json:"team_owner"`
}
