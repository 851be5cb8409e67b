package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/nickchat/internal/model"
	"github.com/mcoot/nickchat/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	nicks    map[model.AuthID]model.PlayerNick
	messages map[model.MessageID]model.ChatMessage
	lastID   model.MessageID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		nicks:    make(map[model.AuthID]model.PlayerNick),
		messages: make(map[model.MessageID]model.ChatMessage),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player nick operations

func (s *Storage) GetNick(ctx context.Context, authID model.AuthID) (*model.PlayerNick, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pn, ok := s.nicks[authID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return &pn, nil
}

func (s *Storage) UpsertNick(ctx context.Context, nick *model.PlayerNick) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nicks[nick.AuthID] = *nick
	return nil
}

func (s *Storage) NickExists(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, pn := range s.nicks {
		if model.NickEqualFold(pn.Nick, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Storage) DeleteNick(ctx context.Context, authID model.AuthID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nicks[authID]; !ok {
		return 0, nil
	}
	delete(s.nicks, authID)
	return 1, nil
}

// Chat operations

func (s *Storage) AppendMessage(ctx context.Context, msg *model.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	msg.ID = s.lastID
	s.messages[msg.ID] = *msg
	return nil
}

func (s *Storage) RecentMessages(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]model.MessageID, 0, len(s.messages))
	for id := range s.messages {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) > limit {
		ids = ids[len(ids)-limit:]
	}

	out := make([]model.ChatMessage, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.messages[id])
	}
	return out, nil
}

func (s *Storage) DeleteMessageRange(ctx context.Context, r model.MessageRange) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id := range s.messages {
		if id >= r.Start && id <= r.End {
			delete(s.messages, id)
			n++
		}
	}
	return n, nil
}

// Close is a no-op for in-memory storage
func (s *Storage) Close() error {
	return nil
}
