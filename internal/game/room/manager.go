package room

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/palemoky/fichas-a-100/internal/apperrors"
	"github.com/palemoky/fichas-a-100/internal/protocol"
	"github.com/palemoky/fichas-a-100/internal/protocol/codec"
	"github.com/palemoky/fichas-a-100/internal/server/storage"
	"github.com/palemoky/fichas-a-100/internal/types"
)

const (
	defaultRevealDelay = 3 * time.Second
	defaultResetDelay  = 5 * time.Second
)

// Store 房间镜像与胜负记录的写入端，实现必须是非阻塞的
type Store interface {
	SaveRoom(data *storage.RoomData)
	DeleteRoom(code string)
	RecordWin(playerID, playerName string, amount int)
}

// ManagerDeps 房间管理器依赖
type ManagerDeps struct {
	Store       Store             // 可选
	Scheduler   Scheduler         // 默认 TimerScheduler
	Broadcaster types.Broadcaster // 房间列表的全局推送，可选
	Logger      logrus.FieldLogger
	RevealDelay time.Duration
	ResetDelay  time.Duration
}

// RoomManager 房间注册表
// 锁顺序：房间锁 → 注册表锁，持有注册表锁时不得获取房间锁
type RoomManager struct {
	store       Store
	scheduler   Scheduler
	broadcaster types.Broadcaster
	log         logrus.FieldLogger
	revealDelay time.Duration
	resetDelay  time.Duration

	rooms map[string]*Room
	order []string // 创建顺序，用于稳定的房间列表
	mu    sync.RWMutex
}

// NewRoomManager 创建房间管理器
func NewRoomManager(deps ManagerDeps) *RoomManager {
	rm := &RoomManager{
		store:       deps.Store,
		scheduler:   deps.Scheduler,
		broadcaster: deps.Broadcaster,
		log:         deps.Logger,
		revealDelay: deps.RevealDelay,
		resetDelay:  deps.ResetDelay,
		rooms:       make(map[string]*Room),
	}
	if rm.store == nil {
		rm.store = nopStore{}
	}
	if rm.scheduler == nil {
		rm.scheduler = NewTimerScheduler()
	}
	if rm.log == nil {
		rm.log = logrus.StandardLogger()
	}
	if rm.revealDelay <= 0 {
		rm.revealDelay = defaultRevealDelay
	}
	if rm.resetDelay <= 0 {
		rm.resetDelay = defaultResetDelay
	}
	return rm
}

// --- 注册表 ---

// GetRoom 获取房间
func (rm *RoomManager) GetRoom(id string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.rooms[id]
}

// Count 房间数量
func (rm *RoomManager) Count() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}

// snapshot 按创建顺序返回当前所有房间
func (rm *RoomManager) snapshot() []*Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	rooms := make([]*Room, 0, len(rm.order))
	for _, id := range rm.order {
		rooms = append(rooms, rm.rooms[id])
	}
	return rooms
}

// List 按创建顺序返回房间列表
func (rm *RoomManager) List() []protocol.RoomSummary {
	summaries := make([]protocol.RoomSummary, 0)
	for _, room := range rm.snapshot() {
		room.mu.Lock()
		if !room.closed {
			summaries = append(summaries, room.summary())
		}
		room.mu.Unlock()
	}
	return summaries
}

// FindByParticipant 线性扫描找到连接所在的房间
func (rm *RoomManager) FindByParticipant(client types.ClientInterface) *Room {
	for _, room := range rm.snapshot() {
		room.mu.Lock()
		found := !room.closed && room.hasClient(client)
		room.mu.Unlock()
		if found {
			return room
		}
	}
	return nil
}

// ActiveGamesCount 获取进行中的游戏数量
func (rm *RoomManager) ActiveGamesCount() int {
	count := 0
	for _, room := range rm.snapshot() {
		room.mu.Lock()
		if !room.closed && room.State != RoomStateWaiting {
			count++
		}
		room.mu.Unlock()
	}
	return count
}

// RoundsInProgress 获取正在抽取或开奖中的房间数量（下注阶段不计入）
func (rm *RoomManager) RoundsInProgress() int {
	count := 0
	for _, room := range rm.snapshot() {
		room.mu.Lock()
		if !room.closed && room.State != RoomStateWaiting && room.State != RoomStateBetting {
			count++
		}
		room.mu.Unlock()
	}
	return count
}

// register 分配房间号并登记新房间
func (rm *RoomManager) register(name string, cfg Config) *Room {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	room := newRoom(rm.generateRoomCode(), name, cfg)
	rm.rooms[room.ID] = room
	rm.order = append(rm.order, room.ID)
	return room
}

// delete 从注册表移除房间（调用方持有房间锁）
func (rm *RoomManager) delete(room *Room) {
	room.closed = true
	rm.scheduler.Cancel(room.ID)

	rm.mu.Lock()
	if rm.rooms[room.ID] == room {
		delete(rm.rooms, room.ID)
		for i, id := range rm.order {
			if id == room.ID {
				rm.order = append(rm.order[:i], rm.order[i+1:]...)
				break
			}
		}
	}
	rm.mu.Unlock()

	rm.store.DeleteRoom(room.ID)
	rm.log.WithField("room", room.ID).Info("🏠 房间已解散")
}

// isLive 房间仍在注册表中且未关闭（调用方持有房间锁）
func (rm *RoomManager) isLive(room *Room) bool {
	return !room.closed && rm.GetRoom(room.ID) == room
}

// generateRoomCode 生成房间号（调用方持有注册表写锁）
func (rm *RoomManager) generateRoomCode() string {
	for {
		code := make([]byte, roomCodeLength)
		for i := range code {
			code[i] = roomCodeChars[rand.IntN(len(roomCodeChars))]
		}
		codeStr := string(code)
		if _, exists := rm.rooms[codeStr]; !exists {
			return codeStr
		}
	}
}

// --- 通知与镜像 ---

// BroadcastRoomList 向所有在线连接推送房间列表
func (rm *RoomManager) BroadcastRoomList() {
	if rm.broadcaster == nil {
		return
	}
	rm.broadcaster.Broadcast(codec.MustNewMessage(protocol.MsgRoomsUpdated, protocol.RoomsUpdatedPayload{
		Rooms: rm.List(),
	}))
}

// persist 提交房间快照（调用方持有房间锁）
func (rm *RoomManager) persist(room *Room) {
	rm.store.SaveRoom(room.ToRoomData())
}

// withPlayer 定位连接所在的房间并在房间锁内执行 fn
func (rm *RoomManager) withPlayer(client types.ClientInterface, fn func(room *Room, player *Player) error) error {
	room := rm.FindByParticipant(client)
	if room == nil {
		return apperrors.ErrNotInRoom
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		return apperrors.ErrRoomNotFound
	}
	player := room.playerByClient(client)
	if player == nil {
		return apperrors.ErrNotInRoom
	}
	return fn(room, player)
}

// Shutdown 取消所有延时任务
func (rm *RoomManager) Shutdown() {
	rm.scheduler.Stop()
	for _, room := range rm.snapshot() {
		room.mu.Lock()
		room.closed = true
		room.mu.Unlock()
	}
	rm.log.Info("🛑 房间管理器已停止")
}

type nopStore struct{}

func (nopStore) SaveRoom(*storage.RoomData)    {}
func (nopStore) DeleteRoom(string)             {}
func (nopStore) RecordWin(string, string, int) {}
