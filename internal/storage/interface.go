package storage

import (
	"context"

	"github.com/mcoot/nickchat/internal/model"
)

// Storage defines the interface for data persistence.
//
// Every method is a single atomic operation against the backing store;
// no connection or lock outlives the call.
type Storage interface {
	// Player nick operations
	GetNick(ctx context.Context, authID model.AuthID) (*model.PlayerNick, error)
	UpsertNick(ctx context.Context, nick *model.PlayerNick) error
	// NickExists reports whether any player holds name, ignoring the case
	// of ASCII letters only (see model.NickEqualFold)
	NickExists(ctx context.Context, name string) (bool, error)
	// DeleteNick returns the number of rows removed (0 or 1)
	DeleteNick(ctx context.Context, authID model.AuthID) (int64, error)

	// Chat operations
	// AppendMessage assigns msg.ID
	AppendMessage(ctx context.Context, msg *model.ChatMessage) error
	// RecentMessages returns up to limit messages with the highest IDs,
	// ordered by ascending ID
	RecentMessages(ctx context.Context, limit int) ([]model.ChatMessage, error)
	// DeleteMessageRange removes messages with IDs in the inclusive range
	// and returns how many were removed
	DeleteMessageRange(ctx context.Context, r model.MessageRange) (int64, error)

	Close() error
}
