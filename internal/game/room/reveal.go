package room

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/palemoky/fichas-a-100/internal/game/deck"
	"github.com/palemoky/fichas-a-100/internal/protocol"
	"github.com/palemoky/fichas-a-100/internal/protocol/codec"
)

func (rm *RoomManager) startRevealing(room *Room) {
	room.State = RoomStateRevealing
	room.broadcastState()

	rm.log.WithField("room", room.ID).Infof("⏳ %s 后开奖", rm.revealDelay)
	rm.scheduleFor(room, RoomStateRevealing, rm.revealDelay, rm.reveal)
}

// scheduleFor 为房间安排延时任务；触发时房间必须仍在注册表中且处于 expected 状态
func (rm *RoomManager) scheduleFor(room *Room, expected RoomState, delay time.Duration, fn func(*Room)) {
	rm.scheduler.Schedule(room.ID, delay, func() {
		room.mu.Lock()
		defer room.mu.Unlock()

		if !rm.isLive(room) || room.State != expected {
			rm.log.WithField("room", room.ID).Debug("⏭️ 房间已变化，跳过延时任务")
			return
		}
		fn(room)
		rm.persist(room)
	})
}

// pickWinner 未爆牌且最接近 100 的玩家，距离相同时先加入者胜
func (r *Room) pickWinner() *Player {
	var winner *Player
	for _, p := range r.Players {
		if p.sittingOut || p.Score > BustScore {
			continue
		}
		if winner == nil || BustScore-p.Score < BustScore-winner.Score {
			winner = p
		}
	}
	return winner
}

// reveal 开奖并在延时后开始新一轮
func (rm *RoomManager) reveal(room *Room) {
	winner := room.pickWinner()

	var (
		message string
		info    *protocol.PlayerInfo
		payout  int
	)
	if winner != nil {
		payout = room.Pot
		winner.Chips += payout
		room.Pot = 0
		rm.store.RecordWin(winner.ID, winner.Username, payout)

		message = fmt.Sprintf("🏆 %s 以 %d 点赢得 %d 筹码", winner.Username, winner.Score, payout)
		winnerInfo := winner.ToInfo()
		info = &winnerInfo
	} else {
		message = fmt.Sprintf("全员爆牌，奖池 %d 留到下一轮", room.Pot)
	}

	room.broadcast(codec.MustNewMessage(protocol.MsgGameFinished, protocol.GameFinishedPayload{
		Message: message,
		Winner:  info,
		Payout:  payout,
	}))
	room.broadcastPlayers()
	room.broadcastPot()

	rm.log.WithFields(logrus.Fields{
		"room":   room.ID,
		"payout": payout,
		"pot":    room.Pot,
	}).Info(message)

	rm.scheduleFor(room, RoomStateRevealing, rm.resetDelay, rm.resetRound)
}

// resetRound 开始新一轮；没有赢家时奖池保留
func (rm *RoomManager) resetRound(room *Room) {
	room.State = RoomStateBetting
	room.deck = deck.New()
	room.currentTurn = ""
	for _, p := range room.Players {
		p.resetRound()
	}

	room.broadcastState()
	room.broadcastPlayers()
	room.broadcastPot()

	rm.log.WithFields(logrus.Fields{
		"room": room.ID,
		"pot":  room.Pot,
	}).Info("🔄 新一轮开始")
}
