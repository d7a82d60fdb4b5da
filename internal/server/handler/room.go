package handler

import (
	"github.com/palemoky/fichas-a-100/internal/apperrors"
	"github.com/palemoky/fichas-a-100/internal/game/room"
	"github.com/palemoky/fichas-a-100/internal/protocol"
	"github.com/palemoky/fichas-a-100/internal/protocol/codec"
	"github.com/palemoky/fichas-a-100/internal/types"
)

// handleListRooms 只回给请求方，变化推送由房间管理器广播
func (h *Handler) handleListRooms(client types.ClientInterface) {
	client.SendMessage(codec.MustNewMessage(protocol.MsgRoomsUpdated, protocol.RoomsUpdatedPayload{
		Rooms: h.roomManager.List(),
	}))
}

// handleCreateRoom 处理创建房间
func (h *Handler) handleCreateRoom(client types.ClientInterface, msg *protocol.Message) {
	if h.server.IsMaintenanceMode() {
		h.sendError(client, apperrors.ErrUnavailable)
		return
	}

	payload, err := codec.ParsePayload[protocol.CreateRoomPayload](msg)
	if err != nil {
		h.sendInvalidPayload(client, err)
		return
	}

	if _, err := h.roomManager.CreateRoom(payload.Name, h.roomConfig(payload)); err != nil {
		h.sendError(client, err)
	}
}

// roomConfig 省略的字段使用服务端默认值
func (h *Handler) roomConfig(p *protocol.CreateRoomPayload) room.Config {
	cfg := room.Config{
		MaxPlayers:    p.MaxPlayers,
		MinBet:        h.defaults.DefaultMinBet,
		StartingChips: p.StartingChips,
	}
	if cfg.MaxPlayers == 0 {
		cfg.MaxPlayers = h.defaults.DefaultMaxPlayers
	}
	if p.MinBet != nil {
		cfg.MinBet = *p.MinBet
	}
	if cfg.StartingChips == 0 {
		cfg.StartingChips = h.defaults.DefaultStartingChips
	}
	return cfg
}

// handleJoinRoom 处理加入房间
func (h *Handler) handleJoinRoom(client types.ClientInterface, msg *protocol.Message) {
	if h.server.IsMaintenanceMode() {
		h.sendError(client, apperrors.ErrUnavailable)
		return
	}

	payload, err := codec.ParsePayload[protocol.JoinRoomPayload](msg)
	if err != nil {
		h.sendInvalidPayload(client, err)
		return
	}

	if _, err := h.roomManager.JoinRoom(client, payload.RoomID, payload.PlayerIdentity); err != nil {
		h.sendError(client, err)
	}
}

// handleLeaveRoom 处理离开房间
func (h *Handler) handleLeaveRoom(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.LeaveRoomPayload](msg)
	if err != nil {
		h.sendInvalidPayload(client, err)
		return
	}

	if err := h.roomManager.LeaveRoom(client, payload.RoomID); err != nil {
		h.sendError(client, err)
	}
}
