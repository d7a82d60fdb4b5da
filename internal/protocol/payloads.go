package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// Validator 由需要校验的请求 payload 实现
type Validator interface {
	Validate() error
}

// --- 客户端请求 Payloads ---

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// MaxRoomPlayers 单个房间的人数上限
const MaxRoomPlayers = 10

// CreateRoomPayload 创建房间请求，省略的字段使用服务端默认值
type CreateRoomPayload struct {
	Name          string `json:"name"`
	MaxPlayers    int    `json:"maxPlayers"`
	MinBet        *int   `json:"minBet"`
	StartingChips int    `json:"startingChips"`
}

func (p *CreateRoomPayload) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	switch {
	case p.Name == "":
		return errors.New("name is required")
	case len(p.Name) > 64:
		return errors.New("name is too long")
	case p.MaxPlayers != 0 && p.MaxPlayers < 2:
		return errors.New("maxPlayers must be at least 2")
	case p.MaxPlayers > MaxRoomPlayers:
		return fmt.Errorf("maxPlayers must be at most %d", MaxRoomPlayers)
	case p.MinBet != nil && *p.MinBet < 0:
		return errors.New("minBet must not be negative")
	case p.StartingChips < 0:
		return errors.New("startingChips must be positive")
	}
	return nil
}

// PlayerIdentity 玩家身份（由客户端提供）
type PlayerIdentity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// JoinRoomPayload 加入房间请求
type JoinRoomPayload struct {
	RoomID         string         `json:"roomId"`
	PlayerIdentity PlayerIdentity `json:"playerIdentity"`
}

func (p *JoinRoomPayload) Validate() error {
	p.PlayerIdentity.ID = strings.TrimSpace(p.PlayerIdentity.ID)
	p.PlayerIdentity.Username = strings.TrimSpace(p.PlayerIdentity.Username)
	switch {
	case p.RoomID == "":
		return errors.New("roomId is required")
	case p.PlayerIdentity.ID == "":
		return errors.New("playerIdentity.id is required")
	case p.PlayerIdentity.Username == "":
		return errors.New("playerIdentity.username is required")
	}
	return nil
}

// LeaveRoomPayload 离开房间请求
type LeaveRoomPayload struct {
	RoomID string `json:"roomId"`
}

func (p *LeaveRoomPayload) Validate() error {
	if p.RoomID == "" {
		return errors.New("roomId is required")
	}
	return nil
}

// PlaceBetPayload 下注请求
type PlaceBetPayload struct {
	Amount int `json:"amount"`
}

func (p *PlaceBetPayload) Validate() error {
	if p.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	return nil
}

// GetLeaderboardPayload 获取排行榜请求
type GetLeaderboardPayload struct {
	Limit int `json:"limit"`
}

func (p *GetLeaderboardPayload) Validate() error {
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 10
	}
	return nil
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	ConnectionID string `json:"connectionId"`
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"clientTimestamp"`
	ServerTimestamp int64 `json:"serverTimestamp"` // 服务器时间戳（毫秒）
}

// RoomConfigInfo 房间配置
type RoomConfigInfo struct {
	MaxPlayers    int `json:"maxPlayers"`
	MinBet        int `json:"minBet"`
	StartingChips int `json:"startingChips"`
}

// RoomSummary 房间列表条目
type RoomSummary struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Config      RoomConfigInfo `json:"config"`
	PlayerCount int            `json:"playerCount"`
	State       string         `json:"state"`
}

// RoomsUpdatedPayload 房间列表推送
type RoomsUpdatedPayload struct {
	Rooms []RoomSummary `json:"rooms"`
}

// PlayerInfo 玩家信息
type PlayerInfo struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Chips      int    `json:"chips"`
	CurrentBet int    `json:"currentBet"`
	Fichas     []int  `json:"fichas"`
	Score      int    `json:"score"`
	Status     string `json:"status"`
}

// RoomStateInfo 完整房间状态
type RoomStateInfo struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Config        RoomConfigInfo `json:"config"`
	Players       []PlayerInfo   `json:"players"`
	Pot           int            `json:"pot"`
	State         string         `json:"state"`
	CurrentPlayer *PlayerInfo    `json:"currentPlayer"`
	FichasLeft    int            `json:"fichasLeft"`
}

// RoomJoinedPayload 加入房间成功响应
type RoomJoinedPayload struct {
	Room RoomStateInfo `json:"room"`
}

// RoomLeftPayload 离开房间响应
type RoomLeftPayload struct {
	RoomID string `json:"roomId"`
}

// PlayersUpdatedPayload 玩家列表推送
type PlayersUpdatedPayload struct {
	Players []PlayerInfo `json:"players"`
}

// PotUpdatedPayload 奖池推送
type PotUpdatedPayload struct {
	Pot int `json:"pot"`
}

// GameStateUpdatedPayload 游戏阶段推送
type GameStateUpdatedPayload struct {
	State string `json:"state"`
}

// CurrentPlayerUpdatedPayload 当前回合玩家推送
type CurrentPlayerUpdatedPayload struct {
	Player *PlayerInfo `json:"player"`
}

// FichasUpdatedPayload 剩余筹码推送（只公开数量，不公开顺序）
type FichasUpdatedPayload struct {
	Remaining int `json:"remaining"`
}

// GameFinishedPayload 本轮结果
type GameFinishedPayload struct {
	Message string      `json:"message"`
	Winner  *PlayerInfo `json:"winner"`
	Payout  int         `json:"payout"`
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Winnings   int64  `json:"winnings"`
	Wins       int64  `json:"wins"`
}

// LeaderboardResultPayload 排行榜结果
type LeaderboardResultPayload struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// ErrorPayload 错误消息
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
