package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kirkit-dashboard/internal/config"
	"kirkit-dashboard/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(&config.Config{APIBase: srv.URL})
}

func TestClient_GetTournaments(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/tournaments", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"id":1,"series_id":"s-1","name":"World Cup","status":2},
			{"id":2,"series_id":"","name":"Friendly","status":0},
			{"id":3,"name":"Odd","status":9}
		]}`))
	})

	got, err := client.GetTournaments(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, domain.Tournament{ID: 1, Name: "World Cup", Status: domain.StatusDone, SeriesID: "s-1"}, got[0])
	assert.Equal(t, domain.StatusNotStarted, got[1].Status)
	assert.Empty(t, got[1].SeriesID)
	assert.Equal(t, domain.StatusUnknown, got[2].Status)
}

func TestClient_GetLeaderboard(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/leaderboard/42", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[
			{"team_id":7,"rank":1,"points":150,"team_name":"Strikers"},
			{"team_id":3,"rank":2}
		]}`))
	})

	got, err := client.GetLeaderboard(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.NotNil(t, got[0].Points)
	assert.Equal(t, 150, *got[0].Points)
	assert.Equal(t, "Strikers", got[0].TeamName)
	assert.Nil(t, got[1].Points)
	assert.Equal(t, 3, got[1].TeamID)
}

func TestClient_SeriesQueryIsEscaped(t *testing.T) {
	var seen []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.Path+"|"+r.URL.Query().Get("series_id"))
		_, _ = w.Write([]byte(`{"data":[{"id":1,"series_id":"a b&c"}]}`))
	})

	matches, err := client.GetMatches(context.Background(), "a b&c")
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	teams, err := client.GetFantasyLeagues(context.Background(), "a b&c")
	require.NoError(t, err)
	assert.Len(t, teams, 1)

	assert.Equal(t, []string{"/api/v1/matches|a b&c", "/api/v1/fantasy-leagues|a b&c"}, seen)
}

func TestClient_EnvelopeError(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusNotFound} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":"not found"}`))
		})

		_, err := client.GetLeaderboard(context.Background(), 1)
		require.Error(t, err)
		assert.Equal(t, "not found", err.Error())
		assert.True(t, errors.Is(err, ErrRequestFailed))

		var reqErr *RequestError
		require.True(t, errors.As(err, &reqErr))
		assert.Equal(t, status, reqErr.Status)
	}
}

func TestClient_NonJSONBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := client.GetTournaments(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, err.Error(), "status 502")
}

func TestClient_NonArrayDataIsEmpty(t *testing.T) {
	for _, body := range []string{`{"data":null}`, `{}`, `{"data":{"id":1}}`} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})

		got, err := client.GetMatches(context.Background(), "s-1")
		require.NoError(t, err, body)
		assert.NotNil(t, got, body)
		assert.Empty(t, got, body)
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client := NewClient(&config.Config{APIBase: base})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := client.GetTournaments(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestClient_CancelledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetTournaments(ctx)
	assert.ErrorIs(t, err, ErrRequestFailed)
}
