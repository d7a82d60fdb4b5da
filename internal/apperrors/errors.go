package apperrors

import (
	"github.com/palemoky/fichas-a-100/internal/protocol"
)

// GameError 游戏错误（请求级别，只回给发起连接）
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

func newGameError(code int) *GameError {
	return &GameError{Code: code, Message: protocol.ErrorMessages[code]}
}

// 预定义错误
var (
	ErrInvalidConfig      = newGameError(protocol.ErrCodeInvalidRoom)
	ErrInvalidMessage     = newGameError(protocol.ErrCodeInvalidMsg)
	ErrRateLimited        = newGameError(protocol.ErrCodeRateLimit)
	ErrRoomNotFound       = newGameError(protocol.ErrCodeRoomNotFound)
	ErrRoomFull           = newGameError(protocol.ErrCodeRoomFull)
	ErrNotInRoom          = newGameError(protocol.ErrCodeNotInRoom)
	ErrRoomAlreadyPlaying = newGameError(protocol.ErrCodeRoomPlaying)
	ErrAlreadyInRoom      = newGameError(protocol.ErrCodeAlreadyIn)
	ErrRoomNotReady       = newGameError(protocol.ErrCodeRoomNotReady)
	ErrNotYourTurn        = newGameError(protocol.ErrCodeNotYourTurn)
	ErrNoFichasLeft       = newGameError(protocol.ErrCodeNoFichas)
	ErrInsufficientChips  = newGameError(protocol.ErrCodeNoChips)
	ErrBettingClosed      = newGameError(protocol.ErrCodeBetClosed)
	ErrAlreadyBet         = newGameError(protocol.ErrCodeAlreadyBet)
	ErrBetTooLow          = newGameError(protocol.ErrCodeBetTooLow)
	ErrUnavailable        = newGameError(protocol.ErrCodeUnavailable)
)
