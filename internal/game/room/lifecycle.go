package room

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/palemoky/fichas-a-100/internal/apperrors"
	"github.com/palemoky/fichas-a-100/internal/game/deck"
	"github.com/palemoky/fichas-a-100/internal/protocol"
	"github.com/palemoky/fichas-a-100/internal/protocol/codec"
	"github.com/palemoky/fichas-a-100/internal/types"
)

// CreateRoom 创建房间
func (rm *RoomManager) CreateRoom(name string, cfg Config) (*Room, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	room := rm.register(name, cfg)

	room.mu.Lock()
	rm.persist(room)
	room.mu.Unlock()

	rm.log.WithFields(logrus.Fields{
		"room":        room.ID,
		"name":        name,
		"max_players": cfg.MaxPlayers,
	}).Info("🏠 房间已创建")

	rm.BroadcastRoomList()
	return room, nil
}

// JoinRoom 加入房间；连接已在其他房间时，确认目标房间可加入后再离开原房间
func (rm *RoomManager) JoinRoom(client types.ClientInterface, roomID string, identity protocol.PlayerIdentity) (*Room, error) {
	room := rm.GetRoom(roomID)
	if room == nil {
		return nil, apperrors.ErrRoomNotFound
	}

	if current := rm.FindByParticipant(client); current != nil {
		if current == room {
			return nil, apperrors.ErrAlreadyInRoom
		}
		room.mu.Lock()
		err := room.checkJoinable(client, identity)
		room.mu.Unlock()
		if err != nil {
			return nil, err
		}
		if err := rm.LeaveRoom(client, current.ID); err != nil && !errors.Is(err, apperrors.ErrRoomNotFound) {
			return nil, fmt.Errorf("leave room %s: %w", current.ID, err)
		}
	}

	if err := rm.join(room, client, identity); err != nil {
		return nil, err
	}

	rm.BroadcastRoomList()
	return room, nil
}

func (rm *RoomManager) join(room *Room, client types.ClientInterface, identity protocol.PlayerIdentity) error {
	room.mu.Lock()
	defer room.mu.Unlock()

	if err := room.checkJoinable(client, identity); err != nil {
		return err
	}

	room.Players = append(room.Players, newPlayer(client, identity, room.Config.StartingChips))

	rm.log.WithFields(logrus.Fields{
		"room":   room.ID,
		"player": identity.ID,
		"count":  len(room.Players),
	}).Infof("👤 玩家 %s 加入房间", identity.Username)

	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomJoined, protocol.RoomJoinedPayload{
		Room: room.stateInfo(),
	}))
	room.broadcastPlayers()

	if len(room.Players) == minPlayers {
		room.State = RoomStateBetting
		room.broadcastState()
		rm.log.WithField("room", room.ID).Info("🎲 人数已满足，开始下注")
	}

	rm.persist(room)
	return nil
}

// checkJoinable 检查连接能否加入房间（调用方持有房间锁）
func (r *Room) checkJoinable(client types.ClientInterface, identity protocol.PlayerIdentity) error {
	switch {
	case r.closed:
		return apperrors.ErrRoomNotFound
	case len(r.Players) >= r.Config.MaxPlayers:
		return apperrors.ErrRoomFull
	case r.State != RoomStateWaiting:
		return apperrors.ErrRoomAlreadyPlaying
	case r.hasClient(client) || r.indexOf(identity.ID) >= 0:
		return apperrors.ErrAlreadyInRoom
	}
	return nil
}

// LeaveRoom 离开房间；房间空了即解散。不在房间内时不做任何事，但仍推送大厅房间列表
func (rm *RoomManager) LeaveRoom(client types.ClientInterface, roomID string) error {
	room := rm.GetRoom(roomID)
	if room == nil {
		return apperrors.ErrRoomNotFound
	}

	if err := rm.leave(room, client); err != nil && !errors.Is(err, apperrors.ErrNotInRoom) {
		return err
	}

	rm.BroadcastRoomList()
	return nil
}

// LeaveAll 断线时离开连接所在的所有房间
func (rm *RoomManager) LeaveAll(client types.ClientInterface) int {
	left := 0
	for _, room := range rm.snapshot() {
		if rm.leave(room, client) == nil {
			left++
		}
	}
	if left > 0 {
		rm.BroadcastRoomList()
	}
	return left
}

func (rm *RoomManager) leave(room *Room, client types.ClientInterface) error {
	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		return apperrors.ErrRoomNotFound
	}
	player := room.playerByClient(client)
	if player == nil {
		return apperrors.ErrNotInRoom
	}

	idx := room.indexOf(player.ID)
	room.Players = append(room.Players[:idx], room.Players[idx+1:]...)

	rm.log.WithFields(logrus.Fields{
		"room":   room.ID,
		"player": player.ID,
		"count":  len(room.Players),
	}).Infof("👋 玩家 %s 离开房间", player.Username)

	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomLeft, protocol.RoomLeftPayload{RoomID: room.ID}))

	if len(room.Players) == 0 {
		rm.delete(room)
		return nil
	}

	room.broadcastPlayers()

	switch {
	case room.State != RoomStateWaiting && len(room.Players) < minPlayers:
		rm.abandonRound(room)
	case room.State.acceptsBets():
		rm.checkBets(room)
	case room.State == RoomStateDrawing && room.currentTurn == player.ID:
		// 离开者之后的玩家已前移到 idx
		rm.advanceTurnFrom(room, idx)
	}

	rm.persist(room)
	return nil
}

// abandonRound 人数不足时结束本轮：奖池归剩下的玩家，房间回到等待状态
func (rm *RoomManager) abandonRound(room *Room) {
	rm.scheduler.Cancel(room.ID)

	remaining := room.Players[0]
	payout := room.Pot
	remaining.Chips += payout
	room.Pot = 0

	info := remaining.ToInfo()
	room.broadcast(codec.MustNewMessage(protocol.MsgGameFinished, protocol.GameFinishedPayload{
		Message: fmt.Sprintf("其他玩家已离开，%s 收回奖池 %d", remaining.Username, payout),
		Winner:  &info,
		Payout:  payout,
	}))

	remaining.resetRound()
	room.State = RoomStateWaiting
	room.currentTurn = ""
	room.deck = deck.New()

	room.broadcastState()
	room.broadcastPlayers()
	room.broadcastPot()

	rm.log.WithField("room", room.ID).Info("⏸️ 人数不足，本轮结束，等待新玩家")
}
