package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/palemoky/fichas-a-100/internal/config"
	"github.com/palemoky/fichas-a-100/internal/game/room"
	"github.com/palemoky/fichas-a-100/internal/logger"
	"github.com/palemoky/fichas-a-100/internal/protocol/codec"
	"github.com/palemoky/fichas-a-100/internal/server/handler"
	"github.com/palemoky/fichas-a-100/internal/server/storage"
)

const redisConnectTimeout = 5 * time.Second

// Server WebSocket 服务器
type Server struct {
	config      *config.Config
	log         logrus.FieldLogger
	redis       *redis.Client // 未配置 Redis 时为 nil
	redisStore  *storage.RedisStore
	leaderboard *storage.LeaderboardManager
	mirror      *storage.Mirror
	roomManager *room.RoomManager
	handler     *handler.Handler
	clients     map[string]*Client
	clientsMu   sync.RWMutex
	upgrader    websocket.Upgrader
	httpServer  *http.Server

	// 安全组件
	originChecker  *OriginChecker
	messageLimiter *MessageRateLimiter

	// 连接控制
	maxConnections int
	semaphore      chan struct{} // 信号量控制并发连接数

	// 维护模式
	maintenanceMode bool
	maintenanceMu   sync.RWMutex

	stopMonitor chan struct{}
	stopOnce    sync.Once
}

type options struct {
	scheduler room.Scheduler
}

// Option 服务器可选项
type Option func(*options)

// WithScheduler 替换房间的延时任务调度器
func WithScheduler(scheduler room.Scheduler) Option {
	return func(o *options) {
		o.scheduler = scheduler
	}
}

// NewServer 创建服务器实例，Redis 地址为空时以纯内存模式运行
func NewServer(cfg *config.Config, log logrus.FieldLogger, opts ...Option) (*Server, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{
		config:         cfg,
		log:            log,
		clients:        make(map[string]*Client),
		originChecker:  NewOriginChecker(cfg.Security.AllowedOrigins),
		messageLimiter: NewMessageRateLimiter(cfg.Security.MessageLimit.MaxPerSecond),
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
		stopMonitor:    make(chan struct{}),
	}

	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis 连接失败: %w", err)
		}
		s.redis = rdb
	}

	s.redisStore = storage.NewRedisStore(s.redis)
	s.leaderboard = storage.NewLeaderboardManager(s.redis)

	// 上次运行留下的房间镜像已失效
	if s.redisStore.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
		defer cancel()
		if err := s.redisStore.ClearRooms(ctx); err != nil {
			s.log.WithError(err).Warn("清理房间镜像失败")
		}
	}
	s.mirror = storage.NewMirror(s.redisStore, s.leaderboard, s.log.WithField("component", "mirror"))

	s.roomManager = room.NewRoomManager(room.ManagerDeps{
		Store:       s.mirror,
		Scheduler:   o.scheduler,
		Broadcaster: s,
		Logger:      s.log.WithField("component", "rooms"),
		RevealDelay: cfg.Game.RevealDelay(),
		ResetDelay:  cfg.Game.ResetDelay(),
	})

	s.handler = handler.NewHandler(handler.HandlerDeps{
		Server:      s,
		RoomManager: s.roomManager,
		Leaderboard: s.leaderboard,
		Defaults:    cfg.Game,
		Logger:      s.log.WithField("component", "handler"),
	})

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Subprotocols:    codec.Subprotocols(),
		CheckOrigin:     s.originChecker.Check,
	}

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s, nil
}

// Handler 返回 HTTP 路由（/ws 与 /health）
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /health", s.handleHealth)
	return logger.Middleware(s.log)(mux)
}

// Start 启动服务器，阻塞直到 Shutdown 被调用
func (s *Server) Start() error {
	addr := s.httpServer.Addr
	go s.monitorStats()

	s.log.WithFields(logrus.Fields{
		"addr":  addr,
		"redis": s.redis != nil,
	}).Info("🚀 服务器启动")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return nil
}

// RoomManager 返回房间管理器
func (s *Server) RoomManager() *room.RoomManager {
	return s.roomManager
}
