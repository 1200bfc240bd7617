package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/samcharles93/promptlens/internal/chat"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": db,
	}
}

func TestStores(t *testing.T) {
	t.Parallel()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			created, err := store.Create(ctx, New("qwen3"))
			require.NoError(t, err)
			require.NotEmpty(t, created.ID)
			require.False(t, created.CreatedAt.IsZero())

			// callers get copies
			created.Messages[0].Content = chat.Ptr("mutated")
			got, err := store.Get(ctx, created.ID)
			require.NoError(t, err)
			require.Equal(t, "You are a helpful assistant.", got.Messages[0].Text())

			updated, err := store.Update(ctx, created.ID, func(s *Session) error {
				s.AddMessage()
				return s.SetToolCall(2, 0, "search", `{"query": "q", "limit": 3}`)
			})
			require.NoError(t, err)
			require.Len(t, updated.Messages, len(chat.DefaultMessages())+1)

			got, err = store.Get(ctx, created.ID)
			require.NoError(t, err)
			require.Len(t, got.Messages, len(updated.Messages))
			args := got.Messages[2].ToolCalls[0].Function.Arguments.(chat.Object)
			require.Equal(t, []string{"query", "limit"}, args.Keys())
			limit, _ := args.Get("limit")
			require.Equal(t, json.Number("3"), limit)

			boom := errors.New("boom")
			_, err = store.Update(ctx, created.ID, func(s *Session) error {
				s.AddMessage()
				return boom
			})
			require.ErrorIs(t, err, boom)
			got, err = store.Get(ctx, created.ID)
			require.NoError(t, err)
			require.Len(t, got.Messages, len(updated.Messages), "failed update is discarded")

			require.NoError(t, store.Delete(ctx, created.ID))
			_, err = store.Get(ctx, created.ID)
			require.ErrorIs(t, err, ErrNotFound)
			require.ErrorIs(t, store.Delete(ctx, created.ID), ErrNotFound)
			_, err = store.Update(ctx, created.ID, func(*Session) error { return nil })
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}
