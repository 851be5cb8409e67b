package admin

import (
	"context"
	"log/slog"

	"github.com/mcoot/nickchat/internal/model"
	"github.com/mcoot/nickchat/internal/storage"
)

// Service performs privileged deletions
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new admin Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// DeletePlayer removes the nick record for authID. It returns
// model.ErrPlayerNotFound when nothing was deleted.
func (s *Service) DeletePlayer(ctx context.Context, authID model.AuthID) (int64, error) {
	n, err := s.storage.DeleteNick(ctx, authID)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, model.ErrPlayerNotFound
	}

	s.logger.Info("player deleted", slog.String("auth_id", string(authID)))
	return n, nil
}

// DeleteChatRange parses the inclusive bounds and deletes every message
// between them. An empty range is not an error; the count is just 0.
func (s *Service) DeleteChatRange(ctx context.Context, start, end string) (int64, error) {
	r, err := model.ParseMessageRange(start, end)
	if err != nil {
		return 0, err
	}

	n, err := s.storage.DeleteMessageRange(ctx, r)
	if err != nil {
		return 0, err
	}

	s.logger.Info("chat messages deleted",
		slog.Int64("start_id", int64(r.Start)),
		slog.Int64("end_id", int64(r.End)),
		slog.Int64("deleted_count", n),
	)
	return n, nil
}
