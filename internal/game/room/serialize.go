package room

import (
	"github.com/palemoky/fichas-a-100/internal/protocol"
	"github.com/palemoky/fichas-a-100/internal/server/storage"
)

func (r *Room) configInfo() protocol.RoomConfigInfo {
	return protocol.RoomConfigInfo{
		MaxPlayers:    r.Config.MaxPlayers,
		MinBet:        r.Config.MinBet,
		StartingChips: r.Config.StartingChips,
	}
}

func (r *Room) playerInfos() []protocol.PlayerInfo {
	infos := make([]protocol.PlayerInfo, 0, len(r.Players))
	for _, p := range r.Players {
		infos = append(infos, p.ToInfo())
	}
	return infos
}

func (r *Room) currentPlayerInfo() *protocol.PlayerInfo {
	if p := r.currentPlayer(); p != nil {
		info := p.ToInfo()
		return &info
	}
	return nil
}

func (r *Room) summary() protocol.RoomSummary {
	return protocol.RoomSummary{
		ID:          r.ID,
		Name:        r.Name,
		Config:      r.configInfo(),
		PlayerCount: len(r.Players),
		State:       r.State.String(),
	}
}

func (r *Room) stateInfo() protocol.RoomStateInfo {
	return protocol.RoomStateInfo{
		ID:            r.ID,
		Name:          r.Name,
		Config:        r.configInfo(),
		Players:       r.playerInfos(),
		Pot:           r.Pot,
		State:         r.State.String(),
		CurrentPlayer: r.currentPlayerInfo(),
		FichasLeft:    r.deck.Len(),
	}
}

// Summary 房间列表条目
func (r *Room) Summary() protocol.RoomSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary()
}

// Snapshot 完整房间状态
func (r *Room) Snapshot() protocol.RoomStateInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stateInfo()
}

// ToRoomData 将 Room 转换为 Redis 镜像数据（调用方持有锁）
func (r *Room) ToRoomData() *storage.RoomData {
	data := &storage.RoomData{
		Code:          r.ID,
		Name:          r.Name,
		State:         r.State.String(),
		MaxPlayers:    r.Config.MaxPlayers,
		MinBet:        r.Config.MinBet,
		StartingChips: r.Config.StartingChips,
		Pot:           r.Pot,
		CurrentTurn:   r.currentTurn,
		Players:       make([]storage.PlayerData, 0, len(r.Players)),
		CreatedAt:     r.CreatedAt.Unix(),
	}
	for _, p := range r.Players {
		data.Players = append(data.Players, storage.PlayerData{
			ID:         p.ID,
			Name:       p.Username,
			Chips:      p.Chips,
			CurrentBet: p.CurrentBet,
			Score:      p.Score,
			Status:     string(p.Status),
		})
	}
	return data
}
