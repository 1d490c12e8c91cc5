package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/ashborne/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) *state.Session {
	t.Helper()
	s, err := state.NewSession("village_shore", "Ada", 100, time.Now())
	require.NoError(t, err)
	return s
}

func TestMemoryStorage_SaveAndLoad(t *testing.T) {
	store := NewMemoryStorage(0)
	ctx := context.Background()

	s := newSession(t)
	s.CurrentScene = "docks"
	s.Inventory = append(s.Inventory, "brass_key")
	require.NoError(t, store.SaveSession(ctx, s))

	loaded, err := store.LoadSession(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, s.ID, loaded.ID)
	assert.Equal(t, "docks", loaded.CurrentScene)
	assert.Equal(t, []string{"brass_key"}, loaded.Inventory)
	assert.Equal(t, 100, loaded.Health())

	// The loaded copy is independent of the stored one.
	loaded.Inventory = append(loaded.Inventory, "rope")
	again, err := store.LoadSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"brass_key"}, again.Inventory)
}

func TestMemoryStorage_LoadMissing(t *testing.T) {
	store := NewMemoryStorage(0)
	loaded, err := store.LoadSession(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestMemoryStorage_SaveNil(t *testing.T) {
	store := NewMemoryStorage(0)
	assert.Error(t, store.SaveSession(context.Background(), nil))
}

func TestMemoryStorage_Delete(t *testing.T) {
	store := NewMemoryStorage(0)
	ctx := context.Background()
	s := newSession(t)
	require.NoError(t, store.SaveSession(ctx, s))
	require.NoError(t, store.DeleteSession(ctx, s.ID))

	loaded, err := store.LoadSession(ctx, s.ID)
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestMemoryStorage_Expiry(t *testing.T) {
	now := time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC)
	store := NewMemoryStorage(time.Hour)
	store.SetClock(func() time.Time { return now })
	ctx := context.Background()

	s := newSession(t)
	require.NoError(t, store.SaveSession(ctx, s))

	now = now.Add(59 * time.Minute)
	loaded, err := store.LoadSession(ctx, s.ID)
	require.NoError(t, err)
	assert.NotNil(t, loaded)

	now = now.Add(time.Minute)
	loaded, err = store.LoadSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestMemoryStorage_Ping(t *testing.T) {
	store := NewMemoryStorage(0)
	ctx := context.Background()
	assert.NoError(t, store.Ping(ctx))

	store.SetPingError(errors.New("down"))
	assert.EqualError(t, store.Ping(ctx), "down")

	store.SetPingError(nil)
	assert.NoError(t, store.Ping(ctx))
	assert.NoError(t, store.Close())
}
