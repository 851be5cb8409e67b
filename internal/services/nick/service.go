package nick

import (
	"context"
	"log/slog"

	"github.com/mcoot/nickchat/internal/dependencies/clock"
	"github.com/mcoot/nickchat/internal/model"
	"github.com/mcoot/nickchat/internal/storage"
)

// Service reads and writes player display names
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new nick Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// GetNick returns the nick stored for authID, or model.ErrPlayerNotFound
func (s *Service) GetNick(ctx context.Context, authID model.AuthID) (string, error) {
	pn, err := s.storage.GetNick(ctx, authID)
	if err != nil {
		return "", err
	}
	return pn.Nick, nil
}

// SetNick creates or replaces the nick for authID and refreshes its
// updated_at. Nicks that differ only by case from another player's are
// accepted; use NickExists to check first.
func (s *Service) SetNick(ctx context.Context, authID model.AuthID, nick string) error {
	if nick == "" {
		return model.ErrNickRequired
	}

	pn := &model.PlayerNick{
		AuthID:    authID,
		Nick:      nick,
		UpdatedAt: s.clock.Now(),
	}
	if err := s.storage.UpsertNick(ctx, pn); err != nil {
		return err
	}

	s.logger.Debug("nick set", slog.String("auth_id", string(authID)))
	return nil
}

// NickExists reports whether any player holds name, ignoring case
func (s *Service) NickExists(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return false, model.ErrNameRequired
	}
	return s.storage.NickExists(ctx, name)
}
