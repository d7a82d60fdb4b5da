//go:build !production

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/fichas-a-100/internal/server/storage"
)

// MockStore 房间镜像 mock
type MockStore struct {
	mock.Mock
}

func (m *MockStore) SaveRoom(data *storage.RoomData) {
	m.Called(data)
}

func (m *MockStore) DeleteRoom(code string) {
	m.Called(code)
}

func (m *MockStore) RecordWin(playerID, playerName string, amount int) {
	m.Called(playerID, playerName, amount)
}

// MockLeaderboard 排行榜 mock
type MockLeaderboard struct {
	mock.Mock
}

func (m *MockLeaderboard) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockLeaderboard) GetLeaderboard(ctx context.Context, limit int) ([]*storage.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.LeaderboardEntry), args.Error(1)
}
