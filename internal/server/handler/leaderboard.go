package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/palemoky/fichas-a-100/internal/apperrors"
	"github.com/palemoky/fichas-a-100/internal/protocol"
	"github.com/palemoky/fichas-a-100/internal/protocol/codec"
	"github.com/palemoky/fichas-a-100/internal/types"
)

const leaderboardTimeout = 3 * time.Second

// handleGetLeaderboard 查询赢分排行榜（需要 Redis）
func (h *Handler) handleGetLeaderboard(client types.ClientInterface, msg *protocol.Message) {
	if h.leaderboard == nil || !h.leaderboard.Enabled() {
		h.sendError(client, apperrors.ErrUnavailable)
		return
	}

	payload, err := codec.ParsePayload[protocol.GetLeaderboardPayload](msg)
	if err != nil {
		h.sendInvalidPayload(client, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), leaderboardTimeout)
	defer cancel()

	entries, err := h.leaderboard.GetLeaderboard(ctx, payload.Limit)
	if err != nil {
		h.sendError(client, fmt.Errorf("get leaderboard: %w", err))
		return
	}

	result := make([]protocol.LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, protocol.LeaderboardEntry{
			Rank:       e.Rank,
			PlayerID:   e.PlayerID,
			PlayerName: e.PlayerName,
			Winnings:   e.Winnings,
			Wins:       e.Wins,
		})
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgLeaderboardResult, protocol.LeaderboardResultPayload{
		Entries: result,
	}))
}
