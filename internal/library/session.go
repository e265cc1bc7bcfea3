package library

import (
	"context"
	"strings"

	"github.com/desertthunder/libratech/internal/models"
	"github.com/desertthunder/libratech/internal/shared"
)

// Login records a desk session. Any provider is accepted and every session is an admin.
func (s *Store) Login(ctx context.Context, provider, name, email string) (models.Session, error) {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		provider = "local"
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Admin"
	}

	session := models.Session{
		UserID:    shared.GenerateID(),
		Name:      name,
		Email:     strings.TrimSpace(email),
		Role:      models.RoleAdmin,
		Provider:  provider,
		StartedAt: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repos.Session.Save(ctx, session); err != nil {
		return models.Session{}, err
	}
	s.logger.Info("session started", "user", session.Name, "provider", session.Provider)
	return session, nil
}

// CurrentSession returns the stored session or [shared.ErrNotAuthenticated].
func (s *Store) CurrentSession(ctx context.Context) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok, err := s.repos.Session.Load(ctx)
	if err != nil {
		return models.Session{}, err
	}
	if !ok {
		return models.Session{}, shared.ErrNotAuthenticated
	}
	return session, nil
}

// Logout clears the stored session. Logging out twice is not an error.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repos.Session.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info("session ended")
	return nil
}
