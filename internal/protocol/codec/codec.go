package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/palemoky/fichas-a-100/internal/protocol"
)

// ErrEmptyType 消息缺少 type 字段
var ErrEmptyType = errors.New("message type is empty")

// Codec 帧编解码器，按 WebSocket 子协议协商
type Codec interface {
	Name() string
	Binary() bool
	Encode(m *protocol.Message) ([]byte, error)
	Decode(data []byte) (*protocol.Message, error)
}

// 支持的子协议
const (
	SubprotocolJSON     = "json"
	SubprotocolProtobuf = "protobuf"
)

var (
	JSON     Codec = jsonCodec{}
	Protobuf Codec = protoCodec{}
)

// Subprotocols 返回服务端支持的子协议列表（按优先级）
func Subprotocols() []string {
	return []string{SubprotocolJSON, SubprotocolProtobuf}
}

// ForSubprotocol 根据协商结果选择编解码器，未知或为空时使用 JSON
func ForSubprotocol(name string) Codec {
	if name == SubprotocolProtobuf {
		return Protobuf
	}
	return JSON
}

// NewMessage 创建一个新消息
func NewMessage(msgType protocol.MessageType, payload any) (*protocol.Message, error) {
	msg := &protocol.Message{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", msgType, err)
		}
		msg.Payload = data
	}
	return msg, nil
}

// MustNewMessage 创建消息，失败时 panic
func MustNewMessage(msgType protocol.MessageType, payload any) *protocol.Message {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		panic(err)
	}
	return msg
}

// ParsePayload 解析并校验消息的 Payload
func ParsePayload[T any](msg *protocol.Message) (*T, error) {
	var payload T
	data := msg.Payload
	if len(data) == 0 || string(data) == "null" {
		data = []byte("{}")
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", msg.Type, err)
	}
	if v, ok := any(&payload).(protocol.Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("invalid %s payload: %w", msg.Type, err)
		}
	}
	return &payload, nil
}

// NewErrorMessage 创建错误消息
func NewErrorMessage(code int) *protocol.Message {
	return NewErrorMessageWithText(code, protocol.ErrorMessages[code])
}

// NewErrorMessageWithText 创建带自定义文本的错误消息
func NewErrorMessageWithText(code int, text string) *protocol.Message {
	msg, _ := NewMessage(protocol.MsgError, protocol.ErrorPayload{
		Code:    code,
		Message: text,
	})
	return msg
}

// --- JSON ---

type jsonCodec struct{}

func (jsonCodec) Name() string { return SubprotocolJSON }

func (jsonCodec) Binary() bool { return false }

// Encode 将消息编码为 JSON 文本帧
func (jsonCodec) Encode(m *protocol.Message) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	if err := json.NewEncoder(buf).Encode(m); err != nil {
		return nil, err
	}
	// Encoder 会追加换行，去掉后复制出池
	out := buf.Bytes()
	out = out[:len(out)-1]
	return append([]byte(nil), out...), nil
}

// Decode 从 JSON 文本帧解码消息
func (jsonCodec) Decode(data []byte) (*protocol.Message, error) {
	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Type == "" {
		return nil, ErrEmptyType
	}
	return &msg, nil
}
