package storage

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key
	winningsKey    = "fichas:leaderboard:winnings"
	playerStatsKey = "fichas:player:"
)

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank       int
	PlayerID   string
	PlayerName string
	Winnings   int64
	Wins       int64
}

// LeaderboardManager 累计奖金排行榜，client 为 nil 时为空操作
type LeaderboardManager struct {
	redis *redis.Client
}

// NewLeaderboardManager 创建排行榜管理器
func NewLeaderboardManager(client *redis.Client) *LeaderboardManager {
	return &LeaderboardManager{redis: client}
}

// Enabled 是否连接了 Redis
func (lm *LeaderboardManager) Enabled() bool {
	return lm != nil && lm.redis != nil
}

// RecordWin 记录一次赢得奖池
func (lm *LeaderboardManager) RecordWin(ctx context.Context, playerID, playerName string, amount int) error {
	if !lm.Enabled() {
		return nil
	}

	key := playerStatsKey + playerID
	pipe := lm.redis.TxPipeline()
	pipe.ZIncrBy(ctx, winningsKey, float64(amount), playerID)
	pipe.HSet(ctx, key, "name", playerName)
	pipe.HIncrBy(ctx, key, "wins", 1)
	pipe.HIncrBy(ctx, key, "winnings", int64(amount))
	_, err := pipe.Exec(ctx)
	return err
}

// GetLeaderboard 获取前 limit 名
func (lm *LeaderboardManager) GetLeaderboard(ctx context.Context, limit int) ([]*LeaderboardEntry, error) {
	if !lm.Enabled() || limit <= 0 {
		return nil, nil
	}

	ranked, err := lm.redis.ZRevRangeWithScores(ctx, winningsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	pipe := lm.redis.Pipeline()
	stats := make([]*redis.MapStringStringCmd, len(ranked))
	for i, z := range ranked {
		stats[i] = pipe.HGetAll(ctx, playerStatsKey+z.Member.(string))
	}
	if len(ranked) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, err
		}
	}

	entries := make([]*LeaderboardEntry, 0, len(ranked))
	for i, z := range ranked {
		fields := stats[i].Val()
		wins, _ := strconv.ParseInt(fields["wins"], 10, 64)
		entries = append(entries, &LeaderboardEntry{
			Rank:       i + 1,
			PlayerID:   z.Member.(string),
			PlayerName: fields["name"],
			Winnings:   int64(z.Score),
			Wins:       wins,
		})
	}
	return entries, nil
}
