package server

import (
	"context"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/palemoky/fichas-a-100/internal/protocol"
	"github.com/palemoky/fichas-a-100/internal/protocol/codec"
)

const (
	monitorInterval   = 30 * time.Second
	drainPollInterval = 500 * time.Millisecond
)

// monitorStats 定期记录服务器状态
func (s *Server) monitorStats() {
	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopMonitor:
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			s.log.WithFields(logrus.Fields{
				"online":       s.GetOnlineCount(),
				"rooms":        s.roomManager.Count(),
				"active_games": s.roomManager.ActiveGamesCount(),
				"goroutines":   runtime.NumGoroutine(),
				"conns":        len(s.semaphore),
				"max_conns":    s.maxConnections,
				"mem_mb":       float64(m.Alloc) / 1024 / 1024,
			}).Info("📊 [监控]")
		}
	}
}

// EnterMaintenanceMode 进入维护模式：拒绝新连接、创建和加入房间
func (s *Server) EnterMaintenanceMode() {
	s.maintenanceMu.Lock()
	already := s.maintenanceMode
	s.maintenanceMode = true
	s.maintenanceMu.Unlock()
	if already {
		return
	}

	s.Broadcast(codec.NewErrorMessageWithText(protocol.ErrCodeUnavailable, "🔧 服务器维护中，暂停创建和加入房间"))
	s.log.Info("🔧 进入维护模式")
}

// IsMaintenanceMode 检查是否在维护模式
func (s *Server) IsMaintenanceMode() bool {
	s.maintenanceMu.RLock()
	defer s.maintenanceMu.RUnlock()
	return s.maintenanceMode
}

// waitForRounds 等待进行中的回合结束或 ctx 到期
func (s *Server) waitForRounds(ctx context.Context) {
	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()

	for {
		n := s.roomManager.RoundsInProgress()
		if n == 0 {
			return
		}
		select {
		case <-ctx.Done():
			s.log.WithField("rounds", n).Warn("⚠️ 等待超时，强制关闭进行中的回合")
			return
		case <-ticker.C:
			s.log.WithField("rounds", n).Debug("⏳ 等待回合结束")
		}
	}
}

// Shutdown 优雅关闭：进入维护模式，等待回合结束，然后关闭连接、取消定时任务并关闭 Redis
func (s *Server) Shutdown(ctx context.Context) error {
	s.EnterMaintenanceMode()
	s.waitForRounds(ctx)

	err := s.httpServer.Shutdown(ctx)
	s.stopOnce.Do(func() { close(s.stopMonitor) })

	s.clientsMu.RLock()
	clients := make([]*Client, 0, len(s.clients))
	for _, client := range s.clients {
		clients = append(clients, client)
	}
	s.clientsMu.RUnlock()
	for _, client := range clients {
		client.Close()
	}

	s.roomManager.Shutdown()
	s.mirror.Close()
	if s.redis != nil {
		_ = s.redis.Close()
	}

	s.log.Info("👋 服务器已关闭")
	return err
}
