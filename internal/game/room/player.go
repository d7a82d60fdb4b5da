package room

import (
	"github.com/palemoky/fichas-a-100/internal/protocol"
	"github.com/palemoky/fichas-a-100/internal/types"
)

// BustScore 超过该分数即爆牌
const BustScore = 100

// PlayerStatus 玩家状态
type PlayerStatus string

const (
	StatusWaiting PlayerStatus = "waiting"
	StatusBetting PlayerStatus = "betting"
	StatusPlaying PlayerStatus = "playing"
	StatusStood   PlayerStatus = "stood"
	StatusBust    PlayerStatus = "bust"
)

// Player 房间中的玩家
type Player struct {
	ID         string
	Username   string
	Client     types.ClientInterface
	Chips      int
	CurrentBet int
	Fichas     []int
	Score      int
	Status     PlayerStatus

	// 本轮没能下注（余额为 0），不参与抽取和开奖
	sittingOut bool
}

func newPlayer(client types.ClientInterface, identity protocol.PlayerIdentity, chips int) *Player {
	return &Player{
		ID:       identity.ID,
		Username: identity.Username,
		Client:   client,
		Chips:    chips,
		Fichas:   []int{},
		Status:   StatusWaiting,
	}
}

// applyBet 扣除余额并记录下注，奖池由 Room 在同一把锁内累加
func (p *Player) applyBet(amount int) {
	p.Chips -= amount
	p.CurrentBet = amount
	p.Status = StatusBetting
}

// receive 收下一枚筹码，返回是否爆牌
func (p *Player) receive(ficha int) bool {
	p.Fichas = append(p.Fichas, ficha)
	p.Score += ficha
	if p.Score > BustScore {
		p.Status = StatusBust
		return true
	}
	return false
}

func (p *Player) resetRound() {
	p.Fichas = []int{}
	p.Score = 0
	p.CurrentBet = 0
	p.Status = StatusWaiting
	p.sittingOut = false
}

// finished 本轮抽取阶段已结束（停牌或爆牌）
func (p *Player) finished() bool {
	return p.Status == StatusStood || p.Status == StatusBust
}

// settled 本下注阶段已完成：已下注，或余额为 0 无法下注
func (p *Player) settled() bool {
	return p.CurrentBet > 0 || p.Chips == 0
}

// ToInfo 转换为协议中的玩家信息
func (p *Player) ToInfo() protocol.PlayerInfo {
	return protocol.PlayerInfo{
		ID:         p.ID,
		Username:   p.Username,
		Chips:      p.Chips,
		CurrentBet: p.CurrentBet,
		Fichas:     append([]int{}, p.Fichas...),
		Score:      p.Score,
		Status:     string(p.Status),
	}
}
