package server

import (
	"encoding/json"
	"net/http"

	"github.com/palemoky/fichas-a-100/internal/logger"
	"github.com/palemoky/fichas-a-100/internal/protocol"
	"github.com/palemoky/fichas-a-100/internal/protocol/codec"
)

// HealthResponse /health 响应
type HealthResponse struct {
	Status string `json:"status"`
	Rooms  int    `json:"rooms"`
	Online int    `json:"online"`
}

// handleWebSocket 处理 WebSocket 连接
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	clientIP := GetClientIP(r)
	log := s.log.WithField("ip", clientIP)

	if s.IsMaintenanceMode() {
		log.Info("🔧 维护模式，拒绝新连接")
		http.Error(w, "Server is under maintenance, please try again later", http.StatusServiceUnavailable)
		return
	}

	// 连接数限制，名额在连接断开时归还
	select {
	case s.semaphore <- struct{}{}:
	default:
		log.WithField("max", s.maxConnections).Warn("🚫 达到最大连接数限制")
		http.Error(w, "Server Full", http.StatusServiceUnavailable)
		return
	}

	// 来源不通过时 Upgrade 会直接返回 403
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		<-s.semaphore
		log.WithError(err).WithField("origin", r.Header.Get("Origin")).Warn("WebSocket 升级失败")
		return
	}

	client := NewClient(s, conn, clientIP)
	s.registerClient(client)
	logger.LogWebSocketConnect(s.log, client.ID, clientIP, client.codec.Name())

	client.SendMessage(codec.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		ConnectionID: client.ID,
	}))

	go client.WritePump()
	go func() {
		defer func() { <-s.semaphore }()
		client.ReadPump()
	}()
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{
		Status: "ok",
		Rooms:  s.roomManager.Count(),
		Online: s.GetOnlineCount(),
	}
	status := http.StatusOK
	if s.IsMaintenanceMode() {
		resp.Status = "maintenance"
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// registerClient 注册客户端
func (s *Server) registerClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.ID] = client
}

// unregisterClient 注销客户端
func (s *Server) unregisterClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, client.ID)
}
