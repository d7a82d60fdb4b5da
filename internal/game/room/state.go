package room

// RoomState 房间状态
type RoomState int

const (
	RoomStateWaiting   RoomState = iota // 等待第二名玩家
	RoomStateBetting                    // 首轮下注
	RoomStateDrawing                    // 轮流抽筹码
	RoomStateRebetting                  // 再次下注
	RoomStateRevealing                  // 开奖
)

var roomStateNames = [...]string{
	RoomStateWaiting:   "waiting",
	RoomStateBetting:   "betting",
	RoomStateDrawing:   "drawing",
	RoomStateRebetting: "rebetting",
	RoomStateRevealing: "revealing",
}

// String 返回协议中使用的状态名
func (s RoomState) String() string {
	if s < 0 || int(s) >= len(roomStateNames) {
		return "unknown"
	}
	return roomStateNames[s]
}

// acceptsBets 当前阶段是否可以下注
func (s RoomState) acceptsBets() bool {
	return s == RoomStateBetting || s == RoomStateRebetting
}
