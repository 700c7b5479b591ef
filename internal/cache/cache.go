// Package cache keeps a local SQLite snapshot of the conversation list.
// It is a write-behind mirror of the in-memory store: refreshed wholesale
// after each successful list call, read back for instant startup render
// and offline listing. The server remains the source of truth.
package cache

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/assisitant-dever/docgen/internal/api"
)

// Cache implements the SQLite snapshot store.
type Cache struct {
	db *sql.DB
}

// New cache.
func New(dbPath string) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS conversations (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			created_at TEXT NOT NULL,
			messages TEXT NOT NULL,
			synced_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return nil, errors.Wrap(err, "creating conversations table")
	}

	return &Cache{db: db}, nil
}

// Replace overwrites the snapshot wholesale, mirroring the store's
// last-write-wins ReplaceAll semantics.
func (c *Cache) Replace(conversations []*api.Conversation) error {
	tx, err := c.db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM conversations`); err != nil {
		return errors.Wrap(err, "clearing snapshot")
	}

	now := time.Now().UnixMicro()
	for _, conversation := range conversations {
		messages, err := json.Marshal(conversation.Messages)
		if err != nil {
			return errors.Wrap(err, "marshaling messages")
		}
		_, err = tx.Exec(`
			INSERT INTO conversations (id, title, created_at, messages, synced_at)
			VALUES (?, ?, ?, ?, ?)
		`, conversation.ID, conversation.Title, conversation.CreatedAt, string(messages), now)
		if err != nil {
			return errors.Wrap(err, "writing conversation to snapshot")
		}
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

// Upsert refreshes a single conversation in the snapshot.
func (c *Cache) Upsert(conversation *api.Conversation) error {
	messages, err := json.Marshal(conversation.Messages)
	if err != nil {
		return errors.Wrap(err, "marshaling messages")
	}
	_, err = c.db.Exec(`
		REPLACE INTO conversations (id, title, created_at, messages, synced_at)
		VALUES (?, ?, ?, ?, ?)
	`, conversation.ID, conversation.Title, conversation.CreatedAt, string(messages), time.Now().UnixMicro())
	return errors.Wrap(err, "writing conversation to snapshot")
}

// Delete removes a conversation from the snapshot.
func (c *Cache) Delete(id int64) error {
	_, err := c.db.Exec(`DELETE FROM conversations WHERE id = ?`, id)
	return errors.Wrap(err, "deleting conversation from snapshot")
}

// List returns the snapshot, oldest first.
func (c *Cache) List() ([]*api.Conversation, error) {
	rows, err := c.db.Query(`
		SELECT id, title, created_at, messages
		FROM conversations
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, errors.Wrap(err, "querying snapshot")
	}
	defer rows.Close()

	var conversations []*api.Conversation
	for rows.Next() {
		conversation := &api.Conversation{}
		var messagesJSON string
		if err := rows.Scan(&conversation.ID, &conversation.Title, &conversation.CreatedAt, &messagesJSON); err != nil {
			return nil, errors.Wrap(err, "scanning conversation")
		}
		if err := json.Unmarshal([]byte(messagesJSON), &conversation.Messages); err != nil {
			return nil, errors.Wrap(err, "unmarshaling messages")
		}
		conversations = append(conversations, conversation)
	}
	return conversations, errors.Wrap(rows.Err(), "iterating snapshot")
}

// Close the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
