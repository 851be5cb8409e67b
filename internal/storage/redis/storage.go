package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/nickchat/internal/model"
	"github.com/mcoot/nickchat/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	keys   keys
}

type nickRecord struct {
	Nick      string    `json:"nick"`
	UpdatedAt time.Time `json:"updated_at"`
}

type messageRecord struct {
	ID        int64     `json:"message_id"`
	Nick      string    `json:"nick"`
	Text      string    `json:"message_text"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		keys:   keys{prefix: prefix},
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player nick operations

func (s *Storage) GetNick(ctx context.Context, authID model.AuthID) (*model.PlayerNick, error) {
	data, err := s.client.HGet(ctx, s.keys.playerNicks(), string(authID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("get nick: %w", err)
	}

	var rec nickRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode nick: %w", err)
	}
	return &model.PlayerNick{AuthID: authID, Nick: rec.Nick, UpdatedAt: rec.UpdatedAt.UTC()}, nil
}

// UpsertNick writes the whole record with a single HSET, so concurrent
// writers to one auth_id leave exactly one of their values behind
func (s *Storage) UpsertNick(ctx context.Context, pn *model.PlayerNick) error {
	data, err := json.Marshal(nickRecord{Nick: pn.Nick, UpdatedAt: pn.UpdatedAt.UTC()})
	if err != nil {
		return err
	}
	if err := s.client.HSet(ctx, s.keys.playerNicks(), string(pn.AuthID), data).Err(); err != nil {
		return fmt.Errorf("upsert nick: %w", err)
	}
	return nil
}

// NickExists scans all stored nicks; the table is one row per player
func (s *Storage) NickExists(ctx context.Context, name string) (bool, error) {
	vals, err := s.client.HVals(ctx, s.keys.playerNicks()).Result()
	if err != nil {
		return false, fmt.Errorf("check nick: %w", err)
	}
	for _, v := range vals {
		var rec nickRecord
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			return false, fmt.Errorf("decode nick: %w", err)
		}
		if model.NickEqualFold(rec.Nick, name) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Storage) DeleteNick(ctx context.Context, authID model.AuthID) (int64, error) {
	n, err := s.client.HDel(ctx, s.keys.playerNicks(), string(authID)).Result()
	if err != nil {
		return 0, fmt.Errorf("delete nick: %w", err)
	}
	return n, nil
}

// Chat operations

func (s *Storage) AppendMessage(ctx context.Context, msg *model.ChatMessage) error {
	id, err := s.client.Incr(ctx, s.keys.messageSeq()).Result()
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}

	data, err := json.Marshal(messageRecord{
		ID:        id,
		Nick:      msg.Nick,
		Text:      msg.Text,
		Timestamp: msg.Timestamp.UTC(),
	})
	if err != nil {
		return err
	}

	field := strconv.FormatInt(id, 10)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.keys.messages(), field, data)
		pipe.ZAdd(ctx, s.keys.messageIDs(), redis.Z{Score: float64(id), Member: field})
		return nil
	})
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}

	msg.ID = model.MessageID(id)
	return nil
}

func (s *Storage) RecentMessages(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	ids, err := s.client.ZRevRange(ctx, s.keys.messageIDs(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if len(ids) == 0 {
		return []model.ChatMessage{}, nil
	}

	vals, err := s.client.HMGet(ctx, s.keys.messages(), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	msgs := make([]model.ChatMessage, 0, len(vals))
	// Walk backwards: ZREVRANGE gave newest first
	for i := len(vals) - 1; i >= 0; i-- {
		raw, ok := vals[i].(string)
		if !ok {
			// Removed between the two reads
			continue
		}
		var rec messageRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		msgs = append(msgs, model.ChatMessage{
			ID:        model.MessageID(rec.ID),
			Nick:      rec.Nick,
			Text:      rec.Text,
			Timestamp: rec.Timestamp.UTC(),
		})
	}
	return msgs, nil
}

func (s *Storage) DeleteMessageRange(ctx context.Context, r model.MessageRange) (int64, error) {
	ids, err := s.client.ZRangeByScore(ctx, s.keys.messageIDs(), &redis.ZRangeBy{
		Min: strconv.FormatInt(int64(r.Start), 10),
		Max: strconv.FormatInt(int64(r.End), 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("delete messages: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = id
	}

	var deleted *redis.IntCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, s.keys.messageIDs(), members...)
		deleted = pipe.HDel(ctx, s.keys.messages(), ids...)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete messages: %w", err)
	}
	return deleted.Val(), nil
}
