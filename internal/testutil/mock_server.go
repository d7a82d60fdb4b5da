//go:build !production

package testutil

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/fichas-a-100/internal/protocol"
)

// MockServer 实现 types.ServerInterface 的 mock
type MockServer struct {
	mock.Mock
}

func (m *MockServer) Broadcast(msg *protocol.Message) {
	m.Called(msg)
}

func (m *MockServer) GetOnlineCount() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockServer) IsMaintenanceMode() bool {
	args := m.Called()
	return args.Bool(0)
}

// RecordingBroadcaster 记录全局广播的 types.Broadcaster
type RecordingBroadcaster struct {
	mu       sync.Mutex
	messages []*protocol.Message
}

func (b *RecordingBroadcaster) Broadcast(msg *protocol.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, msg)
}

// Messages 返回所有广播过的消息
func (b *RecordingBroadcaster) Messages() []*protocol.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*protocol.Message(nil), b.messages...)
}

// Count 广播次数
func (b *RecordingBroadcaster) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.messages)
}
