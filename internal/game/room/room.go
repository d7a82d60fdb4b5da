package room

import (
	"sync"
	"time"

	"github.com/palemoky/fichas-a-100/internal/apperrors"
	"github.com/palemoky/fichas-a-100/internal/game/deck"
	"github.com/palemoky/fichas-a-100/internal/protocol"
	"github.com/palemoky/fichas-a-100/internal/protocol/codec"
	"github.com/palemoky/fichas-a-100/internal/types"
)

const (
	roomCodeLength = 6            // 房间号长度
	roomCodeChars  = "0123456789" // 房间号字符集
	minPlayers     = 2            // 开局所需人数
)

// Config 房间配置
type Config struct {
	MaxPlayers    int
	MinBet        int
	StartingChips int
}

// Validate 校验配置，最低注不得超过初始筹码
func (c Config) Validate() error {
	switch {
	case c.MaxPlayers < minPlayers, c.MaxPlayers > protocol.MaxRoomPlayers:
		return apperrors.ErrInvalidConfig
	case c.StartingChips <= 0, c.MinBet < 0, c.MinBet > c.StartingChips:
		return apperrors.ErrInvalidConfig
	}
	return nil
}

// Room 游戏房间
// 所有读写都必须持有 mu；一次操作及其触发的广播在同一把锁内完成
type Room struct {
	ID        string
	Name      string
	Config    Config
	Players   []*Player // 加入顺序即出手顺序
	Pot       int
	State     RoomState
	CreatedAt time.Time

	currentTurn string // 当前回合玩家 ID
	deck        *deck.Deck
	closed      bool // 已从注册表移除，过期的引用不得再修改

	mu sync.Mutex
}

func newRoom(id, name string, cfg Config) *Room {
	return &Room{
		ID:        id,
		Name:      name,
		Config:    cfg,
		Players:   []*Player{},
		State:     RoomStateWaiting,
		CreatedAt: time.Now(),
		deck:      deck.New(),
	}
}

// --- 查找 ---

func (r *Room) indexOf(playerID string) int {
	for i, p := range r.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

func (r *Room) playerByClient(client types.ClientInterface) *Player {
	for _, p := range r.Players {
		if p.Client != nil && p.Client.GetID() == client.GetID() {
			return p
		}
	}
	return nil
}

func (r *Room) hasClient(client types.ClientInterface) bool {
	return r.playerByClient(client) != nil
}

func (r *Room) currentPlayer() *Player {
	if i := r.indexOf(r.currentTurn); i >= 0 {
		return r.Players[i]
	}
	return nil
}

// allSettled 所有玩家都已完成本阶段下注
// BETTING 还要求至少有一笔下注，REBETTING 时奖池里已有本轮的注码
func (r *Room) allSettled() bool {
	placed := 0
	for _, p := range r.Players {
		if !p.settled() {
			return false
		}
		if p.CurrentBet > 0 {
			placed++
		}
	}
	return placed > 0 || r.State == RoomStateRebetting
}

// allFinished 所有参与本轮的玩家都已停牌或爆牌
func (r *Room) allFinished() bool {
	for _, p := range r.Players {
		if !p.finished() {
			return false
		}
	}
	return true
}

// nextActiveFrom 从 start 开始按加入顺序找下一个仍需出手的玩家
func (r *Room) nextActiveFrom(start int) *Player {
	for i := max(start, 0); i < len(r.Players); i++ {
		if !r.Players[i].finished() {
			return r.Players[i]
		}
	}
	return nil
}

// --- 广播 ---

// broadcast 向房间内所有玩家发送消息
func (r *Room) broadcast(msg *protocol.Message) {
	for _, p := range r.Players {
		if p.Client != nil {
			p.Client.SendMessage(msg)
		}
	}
}

func (r *Room) broadcastPlayers() {
	r.broadcast(codec.MustNewMessage(protocol.MsgPlayersUpdated, protocol.PlayersUpdatedPayload{
		Players: r.playerInfos(),
	}))
}

func (r *Room) broadcastPot() {
	r.broadcast(codec.MustNewMessage(protocol.MsgPotUpdated, protocol.PotUpdatedPayload{Pot: r.Pot}))
}

func (r *Room) broadcastState() {
	r.broadcast(codec.MustNewMessage(protocol.MsgGameStateUpdated, protocol.GameStateUpdatedPayload{
		State: r.State.String(),
	}))
}

func (r *Room) broadcastCurrentPlayer() {
	r.broadcast(codec.MustNewMessage(protocol.MsgCurrentPlayerUpdated, protocol.CurrentPlayerUpdatedPayload{
		Player: r.currentPlayerInfo(),
	}))
}

func (r *Room) broadcastFichas() {
	r.broadcast(codec.MustNewMessage(protocol.MsgFichasUpdated, protocol.FichasUpdatedPayload{
		Remaining: r.deck.Len(),
	}))
}
