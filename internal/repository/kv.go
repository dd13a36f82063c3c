package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	getValueSQL = `SELECT value FROM kv_store WHERE chat_id = $1 AND key = $2`

	setValueSQL = `INSERT INTO kv_store (chat_id, key, value, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (chat_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

	deleteValueSQL = `DELETE FROM kv_store WHERE chat_id = $1 AND key = $2`
)

// DBTX is the subset of pgxpool.Pool the store needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// KVStore is a key/value table partitioned by chat.
type KVStore struct {
	db DBTX
}

func NewKVStore(db DBTX) *KVStore {
	return &KVStore{db: db}
}

// Scope returns the view of the store belonging to one chat.
func (s *KVStore) Scope(chatID int64) *ChatKV {
	return &ChatKV{db: s.db, chatID: chatID}
}

// ChatKV is one chat's slice of the key/value table.
type ChatKV struct {
	db     DBTX
	chatID int64
}

// Get returns the stored value and whether the key exists.
func (c *ChatKV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := c.db.QueryRow(ctx, getValueSQL, c.chatID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (c *ChatKV) Set(ctx context.Context, key, value string) error {
	if _, err := c.db.Exec(ctx, setValueSQL, c.chatID, key, value); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (c *ChatKV) Delete(ctx context.Context, key string) error {
	if _, err := c.db.Exec(ctx, deleteValueSQL, c.chatID, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}
