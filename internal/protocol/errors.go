package protocol

// 错误码
const (
	ErrCodeUnknown      = 1000
	ErrCodeInvalidMsg   = 1001
	ErrCodeRateLimit    = 1002 // 速率限制
	ErrCodeInvalidRoom  = 1003 // 房间配置无效
	ErrCodeRoomNotFound = 2001
	ErrCodeRoomFull     = 2002
	ErrCodeNotInRoom    = 2003
	ErrCodeRoomPlaying  = 2004 // 游戏已开始
	ErrCodeAlreadyIn    = 2005 // 已在房间中
	ErrCodeRoomNotReady = 3001
	ErrCodeNotYourTurn  = 3002
	ErrCodeNoFichas     = 3003
	ErrCodeNoChips      = 3004 // 筹码不足
	ErrCodeBetClosed    = 3005 // 当前阶段不能下注
	ErrCodeAlreadyBet   = 3006
	ErrCodeBetTooLow    = 3007
	ErrCodeUnavailable  = 5003 // 服务暂不可用
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:      "未知错误",
	ErrCodeInvalidMsg:   "无效的消息格式",
	ErrCodeRateLimit:    "请求过于频繁",
	ErrCodeInvalidRoom:  "房间配置无效",
	ErrCodeRoomNotFound: "房间不存在",
	ErrCodeRoomFull:     "房间已满",
	ErrCodeNotInRoom:    "您不在房间中",
	ErrCodeRoomPlaying:  "游戏已开始",
	ErrCodeAlreadyIn:    "您已在该房间中",
	ErrCodeRoomNotReady: "房间人数不足，游戏尚未开始",
	ErrCodeNotYourTurn:  "还没轮到您",
	ErrCodeNoFichas:     "筹码已抽完",
	ErrCodeNoChips:      "余额不足",
	ErrCodeBetClosed:    "当前阶段不能下注",
	ErrCodeAlreadyBet:   "本阶段您已下注",
	ErrCodeBetTooLow:    "下注低于房间最低注",
	ErrCodeUnavailable:  "服务暂不可用",
}
