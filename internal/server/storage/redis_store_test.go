package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	client, mr := newTestClient(t)
	return NewRedisStore(client), mr
}

func TestRedisStore_SaveLoadDeleteRoom(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	roomData := &RoomData{
		Code:       "123456",
		Name:       "mesa",
		State:      "betting",
		MaxPlayers: 2,
		Pot:        20,
		Players: []PlayerData{
			{ID: "a", Name: "Ana", Chips: 90, CurrentBet: 10, Status: "betting"},
		},
		CreatedAt: time.Now().Unix(),
	}

	require.NoError(t, store.SaveRoom(ctx, roomData))
	assert.True(t, mr.Exists(roomKeyPrefix+"123456"))
	assert.Greater(t, mr.TTL(roomKeyPrefix+"123456"), time.Duration(0))

	loaded, err := store.LoadRoom(ctx, "123456")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, roomData.Name, loaded.Name)
	assert.Equal(t, 20, loaded.Pot)
	assert.Equal(t, "Ana", loaded.Players[0].Name)

	codes, err := store.GetAllRoomCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"123456"}, codes)

	require.NoError(t, store.DeleteRoom(ctx, "123456"))
	loaded, err = store.LoadRoom(ctx, "123456")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_ClearRooms(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	for _, code := range []string{"111111", "222222"} {
		require.NoError(t, store.SaveRoom(ctx, &RoomData{Code: code}))
	}
	require.NoError(t, mr.Set("unrelated", "keep"))

	require.NoError(t, store.ClearRooms(ctx))

	codes, err := store.GetAllRoomCodes(ctx)
	require.NoError(t, err)
	assert.Empty(t, codes)
	assert.True(t, mr.Exists("unrelated"))
}

func TestRedisStore_DisabledIsNoop(t *testing.T) {
	t.Parallel()

	store := NewRedisStore(nil)
	ctx := context.Background()

	assert.False(t, store.Enabled())
	assert.NoError(t, store.Ping(ctx))
	assert.NoError(t, store.SaveRoom(ctx, &RoomData{Code: "x"}))
	assert.NoError(t, store.DeleteRoom(ctx, "x"))
	data, err := store.LoadRoom(ctx, "x")
	assert.NoError(t, err)
	assert.Nil(t, data)
}

func TestRedisStore_ConnectionError(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	mr.Close()

	err := store.SaveRoom(context.Background(), &RoomData{Code: "123456"})
	assert.Error(t, err)
}

func TestLeaderboard_RecordAndRank(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t)
	lm := NewLeaderboardManager(client)
	ctx := context.Background()

	require.NoError(t, lm.RecordWin(ctx, "a", "Ana", 20))
	require.NoError(t, lm.RecordWin(ctx, "b", "Beto", 50))
	require.NoError(t, lm.RecordWin(ctx, "a", "Ana", 40))

	entries, err := lm.GetLeaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "a", entries[0].PlayerID)
	assert.Equal(t, "Ana", entries[0].PlayerName)
	assert.Equal(t, int64(60), entries[0].Winnings)
	assert.Equal(t, int64(2), entries[0].Wins)

	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, "b", entries[1].PlayerID)
	assert.Equal(t, int64(1), entries[1].Wins)

	top, err := lm.GetLeaderboard(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestLeaderboard_EmptyAndDisabled(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t)
	entries, err := NewLeaderboardManager(client).GetLeaderboard(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, entries)

	disabled := NewLeaderboardManager(nil)
	assert.False(t, disabled.Enabled())
	assert.NoError(t, disabled.RecordWin(context.Background(), "a", "Ana", 10))
	entries, err = disabled.GetLeaderboard(context.Background(), 5)
	assert.NoError(t, err)
	assert.Nil(t, entries)
}

func TestMirror_AppliesInOrder(t *testing.T) {
	t.Parallel()

	client, mr := newTestClient(t)
	log, _ := test.NewNullLogger()
	m := NewMirror(NewRedisStore(client), NewLeaderboardManager(client), log)

	m.SaveRoom(&RoomData{Code: "123456", Pot: 10})
	m.SaveRoom(&RoomData{Code: "123456", Pot: 30})
	m.SaveRoom(&RoomData{Code: "654321"})
	m.DeleteRoom("654321")
	m.RecordWin("a", "Ana", 30)
	m.Close()

	assert.False(t, mr.Exists(roomKeyPrefix+"654321"))

	loaded, err := NewRedisStore(client).LoadRoom(context.Background(), "123456")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 30, loaded.Pot)

	score, err := mr.ZScore(winningsKey, "a")
	require.NoError(t, err)
	assert.Equal(t, float64(30), score)

	// Submissions after Close are dropped without panicking
	assert.NotPanics(t, func() { m.SaveRoom(&RoomData{Code: "999999"}) })
}

func TestMirror_LogsWriteFailures(t *testing.T) {
	t.Parallel()

	client, mr := newTestClient(t)
	log, hook := test.NewNullLogger()
	m := NewMirror(NewRedisStore(client), NewLeaderboardManager(client), log)

	mr.Close()
	m.SaveRoom(&RoomData{Code: "123456"})
	m.Close()

	require.NotEmpty(t, hook.AllEntries())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestMirror_DisabledSkipsQueue(t *testing.T) {
	t.Parallel()

	log, hook := test.NewNullLogger()
	m := NewMirror(NewRedisStore(nil), NewLeaderboardManager(nil), log)
	m.SaveRoom(&RoomData{Code: "123456"})
	m.DeleteRoom("123456")
	m.RecordWin("a", "Ana", 10)
	m.Close()

	assert.Empty(t, hook.AllEntries())
}
