package types

import (
	"github.com/palemoky/fichas-a-100/internal/protocol"
)

// ClientInterface 定义客户端接口（房间只持有这个不透明的连接句柄）
type ClientInterface interface {
	GetID() string
	SendMessage(msg *protocol.Message)
	Close()
}

// Broadcaster 向所有在线连接广播（用于房间列表等全局推送）
type Broadcaster interface {
	Broadcast(msg *protocol.Message)
}

// ServerInterface 定义服务器接口（用于打破循环依赖）
type ServerInterface interface {
	Broadcaster
	GetOnlineCount() int
	IsMaintenanceMode() bool
}
