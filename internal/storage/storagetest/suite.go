// Package storagetest holds the behaviour every storage backend must share.
// Backends run it from their own tests:
//
//	suite.Run(t, &storagetest.Suite{NewStorage: func(t *testing.T) storage.Storage { ... }})
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/nickchat/internal/model"
	"github.com/mcoot/nickchat/internal/storage"
)

// Suite is a testify suite parameterised by a storage constructor.
// NewStorage is called once per test and must return an empty store.
type Suite struct {
	suite.Suite
	NewStorage func(t *testing.T) storage.Storage

	storage storage.Storage
	ctx     context.Context
	base    time.Time
}

func (s *Suite) SetupTest() {
	s.storage = s.NewStorage(s.T())
	s.ctx = context.Background()
	s.base = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *Suite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func (s *Suite) upsert(authID, nick string) {
	err := s.storage.UpsertNick(s.ctx, &model.PlayerNick{
		AuthID:    model.AuthID(authID),
		Nick:      nick,
		UpdatedAt: s.base,
	})
	s.Require().NoError(err)
}

func (s *Suite) appendN(n int) []model.MessageID {
	ids := make([]model.MessageID, 0, n)
	for i := 0; i < n; i++ {
		msg := &model.ChatMessage{
			Nick:      "Zed",
			Text:      fmt.Sprintf("message %d", i+1),
			Timestamp: s.base.Add(time.Duration(i) * time.Second),
		}
		s.Require().NoError(s.storage.AppendMessage(s.ctx, msg))
		ids = append(ids, msg.ID)
	}
	return ids
}

// Player nick tests

func (s *Suite) TestGetNickNotFound() {
	_, err := s.storage.GetNick(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestUpsertThenGet() {
	s.upsert("u1", "Zed")

	pn, err := s.storage.GetNick(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(model.AuthID("u1"), pn.AuthID)
	s.Equal("Zed", pn.Nick)
	s.True(s.base.Equal(pn.UpdatedAt), "updated_at = %v", pn.UpdatedAt)
}

func (s *Suite) TestUpsertOverwritesNickAndUpdatedAt() {
	s.upsert("u1", "Zed")

	later := s.base.Add(time.Hour)
	err := s.storage.UpsertNick(s.ctx, &model.PlayerNick{AuthID: "u1", Nick: "Zoe", UpdatedAt: later})
	s.Require().NoError(err)

	pn, err := s.storage.GetNick(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal("Zoe", pn.Nick)
	s.True(later.Equal(pn.UpdatedAt))
}

func (s *Suite) TestUpsertIsIdempotent() {
	s.upsert("u1", "Zed")
	s.upsert("u1", "Zed")

	pn, err := s.storage.GetNick(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal("Zed", pn.Nick)

	n, err := s.storage.DeleteNick(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}

func (s *Suite) TestNickExistsIgnoresCase() {
	s.upsert("u1", "alice")
	s.upsert("u2", "BOB")

	for _, name := range []string{"alice", "Alice", "ALICE", "bob", "Bob"} {
		exists, err := s.storage.NickExists(s.ctx, name)
		s.Require().NoError(err)
		s.True(exists, name)
	}

	exists, err := s.storage.NickExists(s.ctx, "carol")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *Suite) TestNickExistsFoldsASCIIOnly() {
	s.upsert("u1", "älice")

	exists, err := s.storage.NickExists(s.ctx, "äLICE")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.storage.NickExists(s.ctx, "ÄLICE")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *Suite) TestNickExistsOnEmptyStore() {
	exists, err := s.storage.NickExists(s.ctx, "anyone")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *Suite) TestNickExistsIsNotSubstringMatch() {
	s.upsert("u1", "Alice")

	exists, err := s.storage.NickExists(s.ctx, "Ali")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *Suite) TestNicksDifferingOnlyByCaseCoexist() {
	s.upsert("u1", "Zed")
	s.upsert("u2", "zed")

	a, err := s.storage.GetNick(s.ctx, "u1")
	s.Require().NoError(err)
	b, err := s.storage.GetNick(s.ctx, "u2")
	s.Require().NoError(err)
	s.Equal("Zed", a.Nick)
	s.Equal("zed", b.Nick)
}

func (s *Suite) TestDeleteNick() {
	s.upsert("u1", "Zed")

	n, err := s.storage.DeleteNick(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	_, err = s.storage.GetNick(s.ctx, "u1")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	n, err = s.storage.DeleteNick(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(int64(0), n)
}

func (s *Suite) TestDeleteNickRemovesFromExists() {
	s.upsert("u1", "Zed")
	_, err := s.storage.DeleteNick(s.ctx, "u1")
	s.Require().NoError(err)

	exists, err := s.storage.NickExists(s.ctx, "zed")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *Suite) TestConcurrentUpsertsKeepOneValue() {
	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.storage.UpsertNick(s.ctx, &model.PlayerNick{
				AuthID:    "u1",
				Nick:      fmt.Sprintf("nick-%d", i),
				UpdatedAt: s.base,
			})
		}(i)
	}
	wg.Wait()

	pn, err := s.storage.GetNick(s.ctx, "u1")
	s.Require().NoError(err)
	valid := make([]string, writers)
	for i := range valid {
		valid[i] = fmt.Sprintf("nick-%d", i)
	}
	s.Contains(valid, pn.Nick)
}

// Chat tests

func (s *Suite) TestAppendAssignsIncreasingIDs() {
	ids := s.appendN(5)
	for i := 1; i < len(ids); i++ {
		s.Greater(ids[i], ids[i-1])
	}
}

func (s *Suite) TestAppendedMessageRoundTrips() {
	msg := &model.ChatMessage{Nick: "Zed", Text: "olá, mundo", Timestamp: s.base}
	s.Require().NoError(s.storage.AppendMessage(s.ctx, msg))

	msgs, err := s.storage.RecentMessages(s.ctx, 30)
	s.Require().NoError(err)
	s.Require().Len(msgs, 1)
	s.Equal(msg.ID, msgs[0].ID)
	s.Equal("Zed", msgs[0].Nick)
	s.Equal("olá, mundo", msgs[0].Text)
	s.True(s.base.Equal(msgs[0].Timestamp))
}

func (s *Suite) TestRecentMessagesEmpty() {
	msgs, err := s.storage.RecentMessages(s.ctx, 30)
	s.Require().NoError(err)
	s.Empty(msgs)
}

func (s *Suite) TestRecentMessagesReturnsLastWindowAscending() {
	ids := s.appendN(35)

	msgs, err := s.storage.RecentMessages(s.ctx, 30)
	s.Require().NoError(err)
	s.Require().Len(msgs, 30)

	for i, m := range msgs {
		s.Equal(ids[5+i], m.ID)
	}
	s.Equal("message 6", msgs[0].Text)
	s.Equal("message 35", msgs[29].Text)
}

func (s *Suite) TestRecentMessagesFewerThanLimit() {
	ids := s.appendN(3)

	msgs, err := s.storage.RecentMessages(s.ctx, 30)
	s.Require().NoError(err)
	s.Require().Len(msgs, 3)
	s.Equal(ids[0], msgs[0].ID)
	s.Equal(ids[2], msgs[2].ID)
}

func (s *Suite) TestDeleteMessageRangeInclusive() {
	ids := s.appendN(10)

	n, err := s.storage.DeleteMessageRange(s.ctx, model.MessageRange{Start: ids[2], End: ids[4]})
	s.Require().NoError(err)
	s.Equal(int64(3), n)

	msgs, err := s.storage.RecentMessages(s.ctx, 30)
	s.Require().NoError(err)
	s.Len(msgs, 7)
	for _, m := range msgs {
		s.False(m.ID >= ids[2] && m.ID <= ids[4], "message %d should be deleted", m.ID)
	}
}

func (s *Suite) TestDeleteMessageRangeSingle() {
	ids := s.appendN(6)

	n, err := s.storage.DeleteMessageRange(s.ctx, model.MessageRange{Start: ids[4], End: ids[4]})
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	msgs, err := s.storage.RecentMessages(s.ctx, 30)
	s.Require().NoError(err)
	s.Len(msgs, 5)
}

func (s *Suite) TestDeleteMessageRangeNoMatches() {
	s.appendN(3)

	n, err := s.storage.DeleteMessageRange(s.ctx, model.MessageRange{Start: 100, End: 200})
	s.Require().NoError(err)
	s.Equal(int64(0), n)
}

func (s *Suite) TestIDsNotReusedAfterDelete() {
	ids := s.appendN(3)

	_, err := s.storage.DeleteMessageRange(s.ctx, model.MessageRange{Start: ids[2], End: ids[2]})
	s.Require().NoError(err)

	next := s.appendN(1)
	s.Greater(next[0], ids[2])
}
