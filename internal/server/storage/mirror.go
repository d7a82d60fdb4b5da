package storage

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	mirrorQueueSize    = 1024
	mirrorWriteTimeout = 2 * time.Second
)

type mirrorOp struct {
	save   *RoomData
	delete string
	win    *winRecord
}

type winRecord struct {
	playerID   string
	playerName string
	amount     int
}

// Mirror 把房间快照和胜负记录按提交顺序异步写入 Redis
// 调用方（持有房间锁）不会因网络 I/O 阻塞；队列满时丢弃并记录日志
type Mirror struct {
	rooms       *RedisStore
	leaderboard *LeaderboardManager
	log         logrus.FieldLogger

	queue  chan mirrorOp
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

// NewMirror 创建并启动写入协程
func NewMirror(rooms *RedisStore, leaderboard *LeaderboardManager, log logrus.FieldLogger) *Mirror {
	m := &Mirror{
		rooms:       rooms,
		leaderboard: leaderboard,
		log:         log,
		queue:       make(chan mirrorOp, mirrorQueueSize),
		done:        make(chan struct{}),
	}
	go m.run()
	return m
}

// SaveRoom 提交房间快照
func (m *Mirror) SaveRoom(data *RoomData) {
	if !m.rooms.Enabled() {
		return
	}
	m.enqueue(mirrorOp{save: data})
}

// DeleteRoom 提交房间删除
func (m *Mirror) DeleteRoom(code string) {
	if !m.rooms.Enabled() {
		return
	}
	m.enqueue(mirrorOp{delete: code})
}

// RecordWin 提交一次赢得奖池
func (m *Mirror) RecordWin(playerID, playerName string, amount int) {
	if !m.leaderboard.Enabled() {
		return
	}
	m.enqueue(mirrorOp{win: &winRecord{playerID: playerID, playerName: playerName, amount: amount}})
}

func (m *Mirror) enqueue(op mirrorOp) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return
	}
	select {
	case m.queue <- op:
	default:
		m.log.Warn("⚠️ Redis 镜像队列已满，丢弃一次写入")
	}
}

// Close 处理完队列中剩余的写入后返回
func (m *Mirror) Close() {
	m.mu.Lock()
	if !m.closed {
		m.closed = true
		close(m.queue)
	}
	m.mu.Unlock()
	<-m.done
}

func (m *Mirror) run() {
	defer close(m.done)
	for op := range m.queue {
		m.apply(op)
	}
}

func (m *Mirror) apply(op mirrorOp) {
	ctx, cancel := context.WithTimeout(context.Background(), mirrorWriteTimeout)
	defer cancel()

	var err error
	switch {
	case op.save != nil:
		err = m.rooms.SaveRoom(ctx, op.save)
	case op.delete != "":
		err = m.rooms.DeleteRoom(ctx, op.delete)
	case op.win != nil:
		err = m.leaderboard.RecordWin(ctx, op.win.playerID, op.win.playerName, op.win.amount)
	}
	if err != nil {
		m.log.WithError(err).Warn("Redis 写入失败")
	}
}
