package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgPing MessageType = "ping" // 心跳 ping

	// 房间操作
	MsgListRooms  MessageType = "list-rooms"  // 获取房间列表
	MsgCreateRoom MessageType = "create-room" // 创建房间
	MsgJoinRoom   MessageType = "join-room"   // 加入房间
	MsgLeaveRoom  MessageType = "leave-room"  // 离开房间

	// 游戏操作
	MsgPlaceBet  MessageType = "place-bet"  // 下注
	MsgDrawFicha MessageType = "draw-ficha" // 抽一枚筹码
	MsgStand     MessageType = "stand"      // 停牌

	// 排行榜
	MsgGetLeaderboard MessageType = "get-leaderboard" // 获取赢分排行榜
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected MessageType = "connected" // 连接成功
	MsgPong      MessageType = "pong"      // 心跳 pong

	// 大厅（所有连接）
	MsgRoomsUpdated MessageType = "rooms-updated" // 房间列表变化

	// 房间相关（仅发起连接）
	MsgRoomJoined MessageType = "room-joined" // 加入房间成功
	MsgRoomLeft   MessageType = "room-left"   // 离开房间成功

	// 房间广播
	MsgPlayersUpdated       MessageType = "players-updated"        // 玩家列表
	MsgPotUpdated           MessageType = "pot-updated"            // 奖池
	MsgGameStateUpdated     MessageType = "game-state-updated"     // 游戏阶段
	MsgCurrentPlayerUpdated MessageType = "current-player-updated" // 当前回合玩家
	MsgFichasUpdated        MessageType = "fichas-updated"         // 剩余筹码数
	MsgGameFinished         MessageType = "game-finished"          // 本轮结果

	// 排行榜
	MsgLeaderboardResult MessageType = "leaderboard-result" // 排行榜结果

	// 错误
	MsgError MessageType = "error" // 错误消息
)
