package room

import (
	"github.com/sirupsen/logrus"

	"github.com/palemoky/fichas-a-100/internal/apperrors"
	"github.com/palemoky/fichas-a-100/internal/game/deck"
	"github.com/palemoky/fichas-a-100/internal/types"
)

// PlaceBet 下注
func (rm *RoomManager) PlaceBet(client types.ClientInterface, amount int) error {
	return rm.withPlayer(client, func(room *Room, player *Player) error {
		switch {
		case room.State == RoomStateWaiting:
			return apperrors.ErrRoomNotReady
		case !room.State.acceptsBets():
			return apperrors.ErrBettingClosed
		case player.CurrentBet > 0:
			return apperrors.ErrAlreadyBet
		case amount <= 0:
			return apperrors.ErrBetTooLow
		case amount > player.Chips:
			return apperrors.ErrInsufficientChips
		case amount < room.Config.MinBet && amount < player.Chips:
			// 余额不足最低注时允许全押
			return apperrors.ErrBetTooLow
		}

		player.applyBet(amount)
		room.Pot += amount

		rm.log.WithFields(logrus.Fields{
			"room":   room.ID,
			"player": player.ID,
			"amount": amount,
			"pot":    room.Pot,
		}).Debug("💰 下注")

		room.broadcastPlayers()
		room.broadcastPot()

		rm.checkBets(room)
		rm.persist(room)
		return nil
	})
}

// checkBets 所有人都下注后进入下一阶段
func (rm *RoomManager) checkBets(room *Room) {
	if !room.allSettled() {
		return
	}
	switch room.State {
	case RoomStateBetting:
		rm.startDrawing(room)
	case RoomStateRebetting:
		rm.startRevealing(room)
	}
}

func (rm *RoomManager) startDrawing(room *Room) {
	room.State = RoomStateDrawing
	room.deck = deck.NewShuffled()

	for _, p := range room.Players {
		if p.CurrentBet == 0 {
			p.sittingOut = true
			p.Status = StatusStood
			continue
		}
		p.Status = StatusPlaying
	}

	first := room.nextActiveFrom(0)
	room.currentTurn = first.ID

	room.broadcastState()
	room.broadcastCurrentPlayer()
	room.broadcastPlayers()
	room.broadcastFichas()

	rm.log.WithFields(logrus.Fields{
		"room": room.ID,
		"pot":  room.Pot,
	}).Info("🃏 下注完成，开始抽筹码")
}

// DrawFicha 抽一枚筹码
func (rm *RoomManager) DrawFicha(client types.ClientInterface) error {
	return rm.withPlayer(client, func(room *Room, player *Player) error {
		if ok, err := room.canAct(player); !ok {
			return err
		}

		ficha, err := room.deck.Draw()
		if err != nil {
			return apperrors.ErrNoFichasLeft
		}
		bust := player.receive(ficha)

		rm.log.WithFields(logrus.Fields{
			"room":   room.ID,
			"player": player.ID,
			"ficha":  ficha,
			"score":  player.Score,
		}).Debug("🎯 抽筹码")

		room.broadcastPlayers()
		room.broadcastFichas()

		if bust {
			rm.advanceTurn(room)
		}
		rm.persist(room)
		return nil
	})
}

// Stand 停牌，结束自己的回合
func (rm *RoomManager) Stand(client types.ClientInterface) error {
	return rm.withPlayer(client, func(room *Room, player *Player) error {
		if ok, err := room.canAct(player); !ok {
			return err
		}

		player.Status = StatusStood
		rm.advanceTurn(room)
		rm.persist(room)
		return nil
	})
}

// canAct 抽取阶段的回合检查；非抽取阶段静默忽略
func (r *Room) canAct(player *Player) (bool, error) {
	switch {
	case r.State == RoomStateWaiting:
		return false, apperrors.ErrRoomNotReady
	case r.State != RoomStateDrawing:
		return false, nil
	case r.currentTurn != player.ID:
		return false, apperrors.ErrNotYourTurn
	}
	return true, nil
}

func (rm *RoomManager) advanceTurn(room *Room) {
	rm.advanceTurnFrom(room, room.indexOf(room.currentTurn)+1)
}

// advanceTurnFrom 从 start 开始寻找下一位玩家，没有则进入再次下注
func (rm *RoomManager) advanceTurnFrom(room *Room, start int) {
	next := room.nextActiveFrom(start)
	if next == nil || room.allFinished() {
		rm.startRebetting(room)
		return
	}

	room.currentTurn = next.ID
	room.broadcastCurrentPlayer()
	room.broadcastPlayers()
}

func (rm *RoomManager) startRebetting(room *Room) {
	room.State = RoomStateRebetting
	room.currentTurn = ""
	for _, p := range room.Players {
		p.CurrentBet = 0
	}

	room.broadcastState()
	room.broadcastPlayers()

	rm.log.WithField("room", room.ID).Info("🔁 抽取结束，再次下注")

	// 全员全押后无人能再下注，直接开奖
	rm.checkBets(room)
}
