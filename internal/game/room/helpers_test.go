package room

import (
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/fichas-a-100/internal/protocol"
	"github.com/palemoky/fichas-a-100/internal/testutil"
)

type testEnv struct {
	rm        *RoomManager
	scheduler *testutil.ManualScheduler
	lobby     *testutil.RecordingBroadcaster
}

func newTestEnv(t *testing.T, store Store) *testEnv {
	t.Helper()
	log, _ := test.NewNullLogger()
	env := &testEnv{
		scheduler: testutil.NewManualScheduler(),
		lobby:     &testutil.RecordingBroadcaster{},
	}
	env.rm = NewRoomManager(ManagerDeps{
		Store:       store,
		Scheduler:   env.scheduler,
		Broadcaster: env.lobby,
		Logger:      log,
	})
	return env
}

func identity(id, name string) protocol.PlayerIdentity {
	return protocol.PlayerIdentity{ID: id, Username: name}
}

// bettingRoom creates a 2-seat room (minBet 10, 100 chips) with Ana and Beto joined
func (e *testEnv) bettingRoom(t *testing.T) (*Room, *testutil.SimpleClient, *testutil.SimpleClient) {
	t.Helper()
	room, err := e.rm.CreateRoom("mesa", Config{MaxPlayers: 2, MinBet: 10, StartingChips: 100})
	require.NoError(t, err)

	a := testutil.NewSimpleClient("conn-a")
	b := testutil.NewSimpleClient("conn-b")
	_, err = e.rm.JoinRoom(a, room.ID, identity("a", "Ana"))
	require.NoError(t, err)
	_, err = e.rm.JoinRoom(b, room.ID, identity("b", "Beto"))
	require.NoError(t, err)
	require.Equal(t, RoomStateBetting, room.State)
	return room, a, b
}

// drawingRoom is bettingRoom after both players bet 10
func (e *testEnv) drawingRoom(t *testing.T) (*Room, *testutil.SimpleClient, *testutil.SimpleClient) {
	t.Helper()
	room, a, b := e.bettingRoom(t)
	require.NoError(t, e.rm.PlaceBet(a, 10))
	require.NoError(t, e.rm.PlaceBet(b, 10))
	require.Equal(t, RoomStateDrawing, room.State)
	return room, a, b
}

func (r *Room) player(id string) *Player {
	if i := r.indexOf(id); i >= 0 {
		return r.Players[i]
	}
	return nil
}
