package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/nickchat/internal/model"
	"github.com/mcoot/nickchat/internal/storage"
	"github.com/mcoot/nickchat/internal/storage/storagetest"
)

func newTestStorage(t *testing.T) (*Storage, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	return NewWithClient(client, DefaultConfig()), mini
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewStorage: func(t *testing.T) storage.Storage {
			s, _ := newTestStorage(t)
			return s
		},
	})
}

func TestNewConnectsWithURL(t *testing.T) {
	mini := miniredis.RunT(t)

	cfg := DefaultConfig()
	cfg.URL = "redis://" + mini.Addr()
	s, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
}

func TestNewRejectsBadURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.URL = "not a url"
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestKeysUsePrefix(t *testing.T) {
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	cfg := DefaultConfig()
	cfg.KeyPrefix = "staging"
	s := NewWithClient(client, cfg)
	defer func() { _ = s.Close() }()

	ctx := context.Background()
	require.NoError(t, s.UpsertNick(ctx, &model.PlayerNick{AuthID: "u1", Nick: "Zed", UpdatedAt: time.Now()}))
	require.NoError(t, s.AppendMessage(ctx, &model.ChatMessage{Nick: "Zed", Text: "hi", Timestamp: time.Now()}))

	assert.True(t, mini.Exists("staging:player_nicks"))
	assert.True(t, mini.Exists("staging:chat:messages"))
	assert.True(t, mini.Exists("staging:chat:ids"))
	assert.True(t, mini.Exists("staging:chat:seq"))
}

func TestDeleteRangeKeepsIndexAndHashInStep(t *testing.T) {
	s, mini := newTestStorage(t)
	defer func() { _ = s.Close() }()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, s.AppendMessage(ctx, &model.ChatMessage{Nick: "Zed", Text: "x", Timestamp: time.Now()}))
	}

	n, err := s.DeleteMessageRange(ctx, model.MessageRange{Start: 2, End: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	members, err := mini.ZMembers("nickchat:chat:ids")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "4"}, members)
	fields, err := mini.HKeys("nickchat:chat:messages")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "4"}, fields)
}

func TestStorageErrorsAreWrapped(t *testing.T) {
	// Nothing listens on port 1
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	s := NewWithClient(client, DefaultConfig())
	defer func() { _ = s.Close() }()

	_, err := s.GetNick(context.Background(), "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrPlayerNotFound)
	assert.Contains(t, err.Error(), "get nick")
}
