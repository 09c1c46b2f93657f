package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/agrolocal/farmstand/internal/models"
	"github.com/agrolocal/farmstand/internal/snapshot"
)

// Session holds the currently logged-in identity. Exactly one or zero users
// are active at a time; no credential validation happens here.
type Session struct {
	mu   sync.Mutex
	user *models.User
	snap *snapshot.Store
	log  *slog.Logger
}

type sessionState struct {
	User *models.User `json:"user"`
}

func NewSession(ctx context.Context, snap *snapshot.Store, log *slog.Logger) (*Session, error) {
	s := &Session{snap: snap, log: log}

	data, err := snap.Load(ctx, snapshot.KeyAuth)
	switch {
	case errors.Is(err, snapshot.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("rehydrate session: %w", err)
	default:
		var state sessionState
		if err := json.Unmarshal(data, &state); err != nil {
			return nil, fmt.Errorf("rehydrate session: %w", err)
		}
		s.user = state.User
	}

	return s, nil
}

func (s *Session) Login(ctx context.Context, user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = &user
	s.persist(ctx)
}

func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.persist(ctx)
}

func (s *Session) Current() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// persist must be called with s.mu held.
func (s *Session) persist(ctx context.Context) {
	data, err := json.Marshal(sessionState{User: s.user})
	if err != nil {
		s.log.Warn("session snapshot marshal failed", "error", err)
		return
	}
	if err := s.snap.Save(ctx, snapshot.KeyAuth, data); err != nil {
		s.log.Warn("session snapshot write failed", "error", err)
	}
}
