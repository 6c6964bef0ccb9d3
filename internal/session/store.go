package session

import (
	"sync"
	"time"

	"kirkit-dashboard/internal/config"
	"kirkit-dashboard/internal/dashboard"
	"kirkit-dashboard/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type entry struct {
	ctrl     *dashboard.Controller
	lastSeen time.Time
}

// Store gives every visitor their own dashboard controller. Controllers idle
// for longer than the TTL are closed and forgotten.
type Store struct {
	newController func() *dashboard.Controller
	ttl           time.Duration
	now           func() time.Time
	logger        zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*entry
}

func New(newController func() *dashboard.Controller, ttl time.Duration, logger zerolog.Logger) *Store {
	return &Store{
		newController: newController,
		ttl:           ttl,
		now:           time.Now,
		logger:        logger,
		sessions:      make(map[string]*entry),
	}
}

// NewStore builds a Store whose controllers read from fetcher and record
// leaderboards through snapshots.
func NewStore(fetcher dashboard.Fetcher, snapshots *service.SnapshotService, cfg *config.Config, logger zerolog.Logger) *Store {
	factory := func() *dashboard.Controller {
		return dashboard.NewController(fetcher, snapshots, logger)
	}
	return New(factory, cfg.SessionTTL, logger)
}

// Get returns the controller for id, creating a fresh session when id is
// empty or unknown. The returned id is the one the caller should keep.
func (s *Store) Get(id string) (string, *dashboard.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.sessions[id]; ok && id != "" {
		e.lastSeen = now
		return id, e.ctrl, false
	}

	id = uuid.New().String()
	e := &entry{ctrl: s.newController(), lastSeen: now}
	s.sessions[id] = e
	s.logger.Debug().Str("session_id", id).Int("sessions", len(s.sessions)).Msg("session created")
	return id, e.ctrl, true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep closes and removes sessions idle for longer than the TTL.
func (s *Store) Sweep() int {
	s.mu.Lock()
	cutoff := s.now().Add(-s.ttl)
	var expired []*dashboard.Controller
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.ctrl)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, c := range expired {
		c.Close()
	}
	if len(expired) > 0 {
		s.logger.Info().Int("expired", len(expired)).Msg("idle sessions closed")
	}
	return len(expired)
}

// Run sweeps on every tick until stop is closed.
func (s *Store) Run(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-stop:
			return
		}
	}
}

// CloseAll tears down every session.
func (s *Store) CloseAll() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*entry)
	s.mu.Unlock()

	for _, e := range sessions {
		e.ctrl.Close()
	}
}
