package chat

import (
	"context"
	"log/slog"

	"github.com/mcoot/nickchat/internal/dependencies/clock"
	"github.com/mcoot/nickchat/internal/model"
	"github.com/mcoot/nickchat/internal/storage"
)

// RecentWindow is how many messages ListRecent returns
const RecentWindow = 30

// Service manages the public chat log
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new chat Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// PostMessage appends a message to the log. The nick is stored as given
// and is not checked against player nicks.
func (s *Service) PostMessage(ctx context.Context, nick, text string) (*model.ChatMessage, error) {
	if nick == "" || text == "" {
		return nil, model.ErrMessageFieldsRequired
	}

	msg := &model.ChatMessage{
		Nick:      nick,
		Text:      text,
		Timestamp: s.clock.Now(),
	}
	if err := s.storage.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.logger.Debug("chat message posted", slog.Int64("message_id", int64(msg.ID)))
	return msg, nil
}

// ListRecent returns the last RecentWindow messages, oldest first
func (s *Service) ListRecent(ctx context.Context) ([]model.ChatMessage, error) {
	return s.storage.RecentMessages(ctx, RecentWindow)
}
