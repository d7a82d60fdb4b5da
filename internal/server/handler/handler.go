package handler

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/palemoky/fichas-a-100/internal/apperrors"
	"github.com/palemoky/fichas-a-100/internal/config"
	"github.com/palemoky/fichas-a-100/internal/game/room"
	"github.com/palemoky/fichas-a-100/internal/protocol"
	"github.com/palemoky/fichas-a-100/internal/protocol/codec"
	"github.com/palemoky/fichas-a-100/internal/server/storage"
	"github.com/palemoky/fichas-a-100/internal/types"
)

// Leaderboard 排行榜读取端
type Leaderboard interface {
	Enabled() bool
	GetLeaderboard(ctx context.Context, limit int) ([]*storage.LeaderboardEntry, error)
}

// HandlerDeps 处理器依赖
type HandlerDeps struct {
	Server      types.ServerInterface
	RoomManager *room.RoomManager
	Leaderboard Leaderboard // 可选
	Defaults    config.GameConfig
	Logger      logrus.FieldLogger
}

// Handler 消息处理器，每条入站消息对应一次房间管理器调用
type Handler struct {
	server      types.ServerInterface
	roomManager *room.RoomManager
	leaderboard Leaderboard
	defaults    config.GameConfig
	log         logrus.FieldLogger
	handlers    map[protocol.MessageType]handlerFunc
}

// handlerFunc 统一的处理器函数签名
type handlerFunc func(client types.ClientInterface, msg *protocol.Message)

// NewHandler 创建处理器
func NewHandler(deps HandlerDeps) *Handler {
	h := &Handler{
		server:      deps.Server,
		roomManager: deps.RoomManager,
		leaderboard: deps.Leaderboard,
		defaults:    deps.Defaults,
		log:         deps.Logger,
	}
	if h.log == nil {
		h.log = logrus.StandardLogger()
	}
	h.initHandlers()
	return h
}

// initHandlers 初始化消息处理器映射
func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		// 连接操作
		protocol.MsgPing: h.handlePing,

		// 房间操作
		protocol.MsgListRooms:  func(c types.ClientInterface, _ *protocol.Message) { h.handleListRooms(c) },
		protocol.MsgCreateRoom: h.handleCreateRoom,
		protocol.MsgJoinRoom:   h.handleJoinRoom,
		protocol.MsgLeaveRoom:  h.handleLeaveRoom,

		// 游戏操作
		protocol.MsgPlaceBet:  h.handlePlaceBet,
		protocol.MsgDrawFicha: func(c types.ClientInterface, _ *protocol.Message) { h.handleDrawFicha(c) },
		protocol.MsgStand:     func(c types.ClientInterface, _ *protocol.Message) { h.handleStand(c) },

		// 信息查询
		protocol.MsgGetLeaderboard: h.handleGetLeaderboard,
	}
}

// Handle 处理消息
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	if handler, ok := h.handlers[msg.Type]; ok {
		handler(client, msg)
		return
	}

	h.log.WithFields(logrus.Fields{
		"conn":         client.GetID(),
		"type":         msg.Type,
		"payload_size": len(msg.Payload),
	}).Warn("⚠️ 未知消息类型")
	h.sendError(client, apperrors.ErrInvalidMessage)
}

// sendError 把错误转换为 error 消息，只发给发起连接
func (h *Handler) sendError(client types.ClientInterface, err error) {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		client.SendMessage(codec.NewErrorMessageWithText(gameErr.Code, gameErr.Message))
		return
	}

	h.log.WithError(err).WithField("conn", client.GetID()).Error("处理请求失败")
	client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeUnknown))
}

// sendInvalidPayload 请求 payload 无法解析或校验失败
func (h *Handler) sendInvalidPayload(client types.ClientInterface, err error) {
	h.log.WithError(err).WithField("conn", client.GetID()).Debug("无效的请求")
	client.SendMessage(codec.NewErrorMessageWithText(
		protocol.ErrCodeInvalidMsg,
		protocol.ErrorMessages[protocol.ErrCodeInvalidMsg]+": "+err.Error(),
	))
}
