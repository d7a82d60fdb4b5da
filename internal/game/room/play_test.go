package room

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/fichas-a-100/internal/apperrors"
	"github.com/palemoky/fichas-a-100/internal/game/deck"
	"github.com/palemoky/fichas-a-100/internal/protocol"
	"github.com/palemoky/fichas-a-100/internal/testutil"
)

func TestPlaceBet_BeforeSecondPlayer(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	room, err := env.rm.CreateRoom("mesa", Config{MaxPlayers: 2, MinBet: 10, StartingChips: 100})
	require.NoError(t, err)
	a := testutil.NewSimpleClient("conn-a")
	_, err = env.rm.JoinRoom(a, room.ID, identity("a", "Ana"))
	require.NoError(t, err)

	assert.ErrorIs(t, env.rm.PlaceBet(a, 10), apperrors.ErrRoomNotReady)
	assert.ErrorIs(t, env.rm.DrawFicha(a), apperrors.ErrRoomNotReady)
	assert.ErrorIs(t, env.rm.Stand(a), apperrors.ErrRoomNotReady)
	assert.Equal(t, 0, room.Pot)
}

func TestPlaceBet_NotInRoom(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	assert.ErrorIs(t, env.rm.PlaceBet(testutil.NewSimpleClient("x"), 10), apperrors.ErrNotInRoom)
}

func TestPlaceBet_InsufficientChipsLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	room, a, _ := env.bettingRoom(t)
	a.Reset()

	err := env.rm.PlaceBet(a, 101)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientChips)

	ana := room.player("a")
	assert.Equal(t, 100, ana.Chips)
	assert.Equal(t, 0, ana.CurrentBet)
	assert.Equal(t, 0, room.Pot)
	assert.Empty(t, a.SentMessages(), "rejected bets are not broadcast")
}

func TestPlaceBet_Rules(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	room, a, _ := env.bettingRoom(t)

	assert.ErrorIs(t, env.rm.PlaceBet(a, 5), apperrors.ErrBetTooLow)

	require.NoError(t, env.rm.PlaceBet(a, 30))
	assert.ErrorIs(t, env.rm.PlaceBet(a, 10), apperrors.ErrAlreadyBet)

	ana := room.player("a")
	assert.Equal(t, 70, ana.Chips)
	assert.Equal(t, 30, ana.CurrentBet)
	assert.Equal(t, StatusBetting, ana.Status)
	assert.Equal(t, 30, room.Pot)
	assert.Equal(t, RoomStateBetting, room.State, "waits for every player")

	var pot protocol.PotUpdatedPayload
	require.True(t, a.LastPayload(protocol.MsgPotUpdated, &pot))
	assert.Equal(t, 30, pot.Pot)
}

func TestPlaceBet_AllInBelowMinimum(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	room, a, _ := env.bettingRoom(t)
	room.player("a").Chips = 4

	require.NoError(t, env.rm.PlaceBet(a, 4))
	assert.Equal(t, 0, room.player("a").Chips)
	assert.Equal(t, 4, room.Pot)
}

func TestPlaceBet_ClosedWhileDrawing(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	_, a, _ := env.drawingRoom(t)
	assert.ErrorIs(t, env.rm.PlaceBet(a, 10), apperrors.ErrBettingClosed)
}

func TestPlaceBet_AllBetStartsDrawing(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	room, a, b := env.drawingRoom(t)

	assert.Equal(t, 20, room.Pot)
	assert.Equal(t, "a", room.currentTurn, "first player in join order starts")
	assert.Equal(t, StatusPlaying, room.player("a").Status)
	assert.Equal(t, StatusPlaying, room.player("b").Status)

	remaining := room.deck.Remaining()
	assert.Len(t, remaining, deck.Size)
	assert.ElementsMatch(t, deck.Generate(), remaining)

	for _, c := range []*testutil.SimpleClient{a, b} {
		var current protocol.CurrentPlayerUpdatedPayload
		require.True(t, c.LastPayload(protocol.MsgCurrentPlayerUpdated, &current))
		require.NotNil(t, current.Player)
		assert.Equal(t, "a", current.Player.ID)

		var fichas protocol.FichasUpdatedPayload
		require.True(t, c.LastPayload(protocol.MsgFichasUpdated, &fichas))
		assert.Equal(t, deck.Size, fichas.Remaining)

		var state protocol.GameStateUpdatedPayload
		require.True(t, c.LastPayload(protocol.MsgGameStateUpdated, &state))
		assert.Equal(t, "drawing", state.State)
	}
}

func TestPlaceBet_BrokePlayerSitsOut(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	room, err := env.rm.CreateRoom("mesa", Config{MaxPlayers: 2, MinBet: 10, StartingChips: 100})
	require.NoError(t, err)
	a := testutil.NewSimpleClient("conn-a")
	b := testutil.NewSimpleClient("conn-b")
	_, err = env.rm.JoinRoom(a, room.ID, identity("a", "Ana"))
	require.NoError(t, err)
	_, err = env.rm.JoinRoom(b, room.ID, identity("b", "Beto"))
	require.NoError(t, err)
	room.player("a").Chips = 0

	require.NoError(t, env.rm.PlaceBet(b, 10))
	require.Equal(t, RoomStateDrawing, room.State)

	ana := room.player("a")
	assert.True(t, ana.sittingOut)
	assert.Equal(t, StatusStood, ana.Status)
	assert.Equal(t, "b", room.currentTurn)
}

func TestDrawFicha_NotYourTurn(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	room, _, b := env.drawingRoom(t)
	before := room.deck.Len()

	assert.ErrorIs(t, env.rm.DrawFicha(b), apperrors.ErrNotYourTurn)
	assert.ErrorIs(t, env.rm.Stand(b), apperrors.ErrNotYourTurn)

	beto := room.player("b")
	assert.Empty(t, beto.Fichas)
	assert.Equal(t, 0, beto.Score)
	assert.Equal(t, StatusPlaying, beto.Status)
	assert.Equal(t, before, room.deck.Len())
}

func TestDrawFicha_IgnoredOutsideDrawing(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	room, a, _ := env.bettingRoom(t)
	a.Reset()

	assert.NoError(t, env.rm.DrawFicha(a))
	assert.NoError(t, env.rm.Stand(a))
	assert.Empty(t, room.player("a").Fichas)
	assert.Equal(t, StatusWaiting, room.player("a").Status)
	assert.Empty(t, a.SentMessages())
}

func TestDrawFicha_AddsToScore(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	room, a, b := env.drawingRoom(t)
	room.deck = deck.FromSlice([]int{7, 33, 20})

	require.NoError(t, env.rm.DrawFicha(a))
	require.NoError(t, env.rm.DrawFicha(a))

	ana := room.player("a")
	assert.Equal(t, []int{20, 33}, ana.Fichas)
	assert.Equal(t, 53, ana.Score)
	assert.Equal(t, "a", room.currentTurn)

	var fichas protocol.FichasUpdatedPayload
	require.True(t, b.LastPayload(protocol.MsgFichasUpdated, &fichas))
	assert.Equal(t, 1, fichas.Remaining)
}

func TestDrawFicha_BustAdvancesTurn(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	room, a, b := env.drawingRoom(t)
	room.deck = deck.FromSlice([]int{1, 60, 50})

	require.NoError(t, env.rm.DrawFicha(a))
	require.NoError(t, env.rm.DrawFicha(a))

	ana := room.player("a")
	assert.Equal(t, 110, ana.Score)
	assert.Equal(t, StatusBust, ana.Status)
	assert.Equal(t, "b", room.currentTurn)

	var current protocol.CurrentPlayerUpdatedPayload
	require.True(t, b.LastPayload(protocol.MsgCurrentPlayerUpdated, &current))
	assert.Equal(t, "b", current.Player.ID)

	// A busted player has no further turns
	assert.ErrorIs(t, env.rm.DrawFicha(a), apperrors.ErrNotYourTurn)
}

func TestDrawFicha_EmptyDeck(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	room, a, _ := env.drawingRoom(t)
	room.deck = deck.FromSlice(nil)

	assert.ErrorIs(t, env.rm.DrawFicha(a), apperrors.ErrNoFichasLeft)
	assert.Empty(t, room.player("a").Fichas)
	assert.Equal(t, "a", room.currentTurn)
}

func TestDrawFicha_NeverRepeatsWithinRound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	room, err := env.rm.CreateRoom("mesa", Config{MaxPlayers: 2, MinBet: 1, StartingChips: 100})
	require.NoError(t, err)
	a := testutil.NewSimpleClient("conn-a")
	b := testutil.NewSimpleClient("conn-b")
	_, err = env.rm.JoinRoom(a, room.ID, identity("a", "Ana"))
	require.NoError(t, err)
	_, err = env.rm.JoinRoom(b, room.ID, identity("b", "Beto"))
	require.NoError(t, err)
	require.NoError(t, env.rm.PlaceBet(a, 1))
	require.NoError(t, env.rm.PlaceBet(b, 1))

	clients := map[string]*testutil.SimpleClient{"a": a, "b": b}
	seen := make(map[int]bool)
	for room.State == RoomStateDrawing {
		id := room.currentTurn
		require.NoError(t, env.rm.DrawFicha(clients[id]))

		p := room.player(id)
		last := p.Fichas[len(p.Fichas)-1]
		assert.False(t, seen[last], "ficha %d issued twice", last)
		seen[last] = true
	}
	assert.Equal(t, RoomStateRebetting, room.State)
}

func TestStand_AllFinishedMovesToRebetting(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	room, a, b := env.drawingRoom(t)
	room.deck = deck.FromSlice([]int{40, 30})

	require.NoError(t, env.rm.DrawFicha(a))
	require.NoError(t, env.rm.Stand(a))
	assert.Equal(t, "b", room.currentTurn)
	require.NoError(t, env.rm.DrawFicha(b))
	require.NoError(t, env.rm.Stand(b))

	assert.Equal(t, RoomStateRebetting, room.State)
	assert.Empty(t, room.currentTurn)
	for _, p := range room.Players {
		assert.Equal(t, 0, p.CurrentBet)
		assert.Equal(t, 90, p.Chips)
		assert.Equal(t, StatusStood, p.Status)
	}
	assert.Equal(t, []int{30}, room.player("a").Fichas)
	assert.Equal(t, []int{40}, room.player("b").Fichas)
	assert.Equal(t, 20, room.Pot)

	var state protocol.GameStateUpdatedPayload
	require.True(t, a.LastPayload(protocol.MsgGameStateUpdated, &state))
	assert.Equal(t, "rebetting", state.State)
}

func TestLeave_CurrentPlayerDuringDrawingPassesTurn(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	room, err := env.rm.CreateRoom("mesa", Config{MaxPlayers: 3, MinBet: 10, StartingChips: 100})
	require.NoError(t, err)

	clients := make(map[string]*testutil.SimpleClient)
	for _, id := range []string{"a", "b"} {
		clients[id] = testutil.NewSimpleClient("conn-" + id)
		_, err := env.rm.JoinRoom(clients[id], room.ID, identity(id, id))
		require.NoError(t, err)
	}
	// A third seat filled before betting closes
	clients["c"] = testutil.NewSimpleClient("conn-c")
	room.Players = append(room.Players, newPlayer(clients["c"], identity("c", "c"), 100))

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, env.rm.PlaceBet(clients[id], 10))
	}
	require.Equal(t, "a", room.currentTurn)

	require.NoError(t, env.rm.LeaveRoom(clients["a"], room.ID))
	assert.Equal(t, RoomStateDrawing, room.State)
	assert.Equal(t, "b", room.currentTurn)
	assert.Equal(t, 30, room.Pot, "chips already bet stay in the pot")
}

func TestLeave_DuringBettingCompletesRound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	room, err := env.rm.CreateRoom("mesa", Config{MaxPlayers: 3, MinBet: 10, StartingChips: 100})
	require.NoError(t, err)
	a := testutil.NewSimpleClient("conn-a")
	b := testutil.NewSimpleClient("conn-b")
	c := testutil.NewSimpleClient("conn-c")
	_, err = env.rm.JoinRoom(a, room.ID, identity("a", "Ana"))
	require.NoError(t, err)
	_, err = env.rm.JoinRoom(b, room.ID, identity("b", "Beto"))
	require.NoError(t, err)
	room.Players = append(room.Players, newPlayer(c, identity("c", "Caro"), 100))

	require.NoError(t, env.rm.PlaceBet(a, 10))
	require.NoError(t, env.rm.PlaceBet(b, 10))
	require.Equal(t, RoomStateBetting, room.State)

	// The only player who had not bet leaves
	require.NoError(t, env.rm.LeaveRoom(c, room.ID))
	assert.Equal(t, RoomStateDrawing, room.State)
}

func TestLeave_BelowTwoPlayersAbandonsRound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	room, a, b := env.drawingRoom(t)

	require.NoError(t, env.rm.LeaveRoom(b, room.ID))

	require.Len(t, room.Players, 1)
	ana := room.player("a")
	assert.Equal(t, RoomStateWaiting, room.State)
	assert.Equal(t, 0, room.Pot)
	assert.Equal(t, 110, ana.Chips, "remaining player collects the pot")
	assert.Empty(t, ana.Fichas)
	assert.Equal(t, StatusWaiting, ana.Status)
	assert.Equal(t, deck.Size, room.deck.Len())

	var finished protocol.GameFinishedPayload
	require.True(t, a.LastPayload(protocol.MsgGameFinished, &finished))
	require.NotNil(t, finished.Winner)
	assert.Equal(t, "a", finished.Winner.ID)
	assert.Equal(t, 20, finished.Payout)

	// Room is joinable again and restarts with a new player
	c := testutil.NewSimpleClient("conn-c")
	_, err := env.rm.JoinRoom(c, room.ID, identity("c", "Caro"))
	require.NoError(t, err)
	assert.Equal(t, RoomStateBetting, room.State)
}

func TestPotConservation_RandomBets(t *testing.T) {
	t.Parallel()

	for round := range 20 {
		env := newTestEnv(t, nil)
		room, err := env.rm.CreateRoom("mesa", Config{MaxPlayers: 2, MinBet: 1, StartingChips: 100})
		require.NoError(t, err)
		clients := []*testutil.SimpleClient{testutil.NewSimpleClient("conn-a"), testutil.NewSimpleClient("conn-b")}
		_, err = env.rm.JoinRoom(clients[0], room.ID, identity("a", "Ana"))
		require.NoError(t, err)
		_, err = env.rm.JoinRoom(clients[1], room.ID, identity("b", "Beto"))
		require.NoError(t, err)

		accepted := 0
		for range 10 {
			c := clients[rand.IntN(2)]
			amount := rand.IntN(150)
			if err := env.rm.PlaceBet(c, amount); err == nil {
				accepted += amount
			}
		}

		chips := 0
		for _, p := range room.Players {
			chips += p.Chips
		}
		assert.Equal(t, accepted, room.Pot, "round %d", round)
		assert.Equal(t, 200, chips+room.Pot, "round %d", round)
	}
}
