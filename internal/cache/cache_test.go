package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assisitant-dever/docgen/internal/api"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := New(filepath.Join(t.TempDir(), "conversations.db"))
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestReplaceAndList(t *testing.T) {
	cache := newTestCache(t)

	conversations := []*api.Conversation{
		{
			ID:        2,
			Title:     "second",
			CreatedAt: "2026-01-02T00:00:00",
			Messages: []*api.Message{
				{ID: 1, Role: api.RoleUser, Content: "hello"},
				{ID: 2, Role: api.RoleAssistant, Content: "generated", DocxFile: "doc.docx"},
			},
		},
		{ID: 1, Title: "first", CreatedAt: "2026-01-01T00:00:00"},
	}
	require.NoError(t, cache.Replace(conversations))

	listed, err := cache.List()
	require.NoError(t, err)
	require.Len(t, listed, 2)
	// Oldest first.
	assert.Equal(t, int64(1), listed[0].ID)
	assert.Equal(t, int64(2), listed[1].ID)

	messages := listed[1].Messages
	require.Len(t, messages, 2)
	assert.Equal(t, "hello", messages[0].Content)
	assert.Equal(t, "doc.docx", messages[1].DocxFile)
}

func TestReplaceIsWholesale(t *testing.T) {
	cache := newTestCache(t)

	require.NoError(t, cache.Replace([]*api.Conversation{{ID: 1, Title: "stale"}}))
	require.NoError(t, cache.Replace([]*api.Conversation{{ID: 2, Title: "fresh"}}))

	listed, err := cache.List()
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, int64(2), listed[0].ID)
}

func TestUpsertAndDelete(t *testing.T) {
	cache := newTestCache(t)

	require.NoError(t, cache.Upsert(&api.Conversation{ID: 1, Title: "original"}))
	require.NoError(t, cache.Upsert(&api.Conversation{ID: 1, Title: "renamed"}))

	listed, err := cache.List()
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "renamed", listed[0].Title)

	require.NoError(t, cache.Delete(1))
	listed, err = cache.List()
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestListEmptySnapshot(t *testing.T) {
	cache := newTestCache(t)

	listed, err := cache.List()
	require.NoError(t, err)
	assert.Empty(t, listed)
}
