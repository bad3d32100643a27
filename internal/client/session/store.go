// Package session persists the signed-in user's session in the local
// sqlite database so a restart resumes straight to the dashboard.
package session

import (
	"context"
	"encoding/json"
	"fmt"
)

const sessionKey = "session"

// Session is the persisted sign-in state.
type Session struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	SessionToken string `json:"sessionToken"`
}

// Repository is the key/value storage the store runs on.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type Store struct {
	repo Repository
}

func NewStore(repo Repository) *Store {
	return &Store{repo: repo}
}

// Load returns the saved session, or nil if none is saved. A record that
// cannot be parsed is discarded so the next sign-in starts clean.
func (s *Store) Load(ctx context.Context) (*Session, error) {
	raw, err := s.repo.Get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil || sess.UserID == "" || sess.SessionToken == "" {
		_ = s.repo.Delete(ctx, sessionKey)
		return nil, nil
	}
	return &sess, nil
}

func (s *Store) Save(ctx context.Context, sess Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return s.repo.Set(ctx, sessionKey, raw)
}

func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, sessionKey)
}
