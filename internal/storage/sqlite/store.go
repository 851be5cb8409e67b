// Package sqlite provides the file-backed SQLite storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mcoot/nickchat/internal/model"
	"github.com/mcoot/nickchat/internal/storage"
)

// Config holds the location of the database file
type Config struct {
	// DataDir is created if it does not exist
	DataDir  string
	FileName string
}

// DefaultConfig returns the container layout the service ships with
func DefaultConfig() Config {
	return Config{
		DataDir:  "/app/data",
		FileName: "players.db",
	}
}

// Path returns the full path of the database file
func (c Config) Path() string {
	return filepath.Join(c.DataDir, c.FileName)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS player_nicks (
		auth_id    TEXT PRIMARY KEY,
		nick       TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_player_nicks_nick_nocase
		ON player_nicks (nick COLLATE NOCASE)`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		message_id   INTEGER PRIMARY KEY AUTOINCREMENT,
		nick         TEXT NOT NULL,
		message_text TEXT NOT NULL,
		timestamp    INTEGER NOT NULL
	)`,
}

// Store persists player nicks and chat messages in SQLite
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ storage.Storage = (*Store)(nil)

// Open creates the data directory if needed, opens the database and
// ensures the schema. A schema failure is logged rather than returned:
// the process keeps serving and each request reports its own storage error.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(cfg.DataDir) == "" || strings.TrimSpace(cfg.FileName) == "" {
		return nil, errors.New("sqlite data dir and file name are required")
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dsn := filepath.Clean(cfg.Path()) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure schema", slog.String("path", cfg.Path()), slog.String("error", err.Error()))
	} else {
		logger.Info("schema ready", slog.String("path", cfg.Path()))
	}
	return s, nil
}

// EnsureSchema creates the player_nicks and chat_messages tables if they
// are missing. Safe to call any number of times.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Close closes the database handle
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

// Player nick operations

func (s *Store) GetNick(ctx context.Context, authID model.AuthID) (*model.PlayerNick, error) {
	var (
		nick      string
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT nick, updated_at FROM player_nicks WHERE auth_id = ?`,
		string(authID),
	).Scan(&nick, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("get nick: %w", err)
	}
	return &model.PlayerNick{AuthID: authID, Nick: nick, UpdatedAt: fromMillis(updatedAt)}, nil
}

func (s *Store) UpsertNick(ctx context.Context, pn *model.PlayerNick) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO player_nicks (auth_id, nick, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(auth_id)
		 DO UPDATE SET nick = excluded.nick, updated_at = excluded.updated_at`,
		string(pn.AuthID), pn.Nick, toMillis(pn.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert nick: %w", err)
	}
	return nil
}

// NickExists compares with NOCASE collation, which folds ASCII letters only
func (s *Store) NickExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM player_nicks WHERE nick = ? COLLATE NOCASE)`,
		name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check nick: %w", err)
	}
	return exists, nil
}

func (s *Store) DeleteNick(ctx context.Context, authID model.AuthID) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM player_nicks WHERE auth_id = ?`, string(authID))
	if err != nil {
		return 0, fmt.Errorf("delete nick: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete nick: %w", err)
	}
	return n, nil
}

// Chat operations

func (s *Store) AppendMessage(ctx context.Context, msg *model.ChatMessage) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (nick, message_text, timestamp) VALUES (?, ?, ?)`,
		msg.Nick, msg.Text, toMillis(msg.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	msg.ID = model.MessageID(id)
	return nil
}

func (s *Store) RecentMessages(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT message_id, nick, message_text, timestamp
		 FROM chat_messages
		 ORDER BY message_id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	msgs := make([]model.ChatMessage, 0, limit)
	for rows.Next() {
		var (
			m  model.ChatMessage
			ts int64
		)
		if err := rows.Scan(&m.ID, &m.Nick, &m.Text, &ts); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Timestamp = fromMillis(ts)
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	// Newest first from the query; callers want chronological order.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (s *Store) DeleteMessageRange(ctx context.Context, r model.MessageRange) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM chat_messages WHERE message_id BETWEEN ? AND ?`,
		int64(r.Start), int64(r.End),
	)
	if err != nil {
		return 0, fmt.Errorf("delete messages: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete messages: %w", err)
	}
	return n, nil
}
