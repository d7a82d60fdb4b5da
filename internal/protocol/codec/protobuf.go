package codec

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/palemoky/fichas-a-100/internal/protocol"
)

// 二进制帧：google.protobuf.Struct{type: string, payload: Value}
// 与 JSON 帧结构一致，客户端可直接用 well-known types 解码
const (
	fieldType    = "type"
	fieldPayload = "payload"
)

type protoCodec struct{}

func (protoCodec) Name() string { return SubprotocolProtobuf }

func (protoCodec) Binary() bool { return true }

// Encode 将消息编码为 Protobuf 字节
func (protoCodec) Encode(m *protocol.Message) ([]byte, error) {
	frame := GetFrameStruct()
	defer PutFrameStruct(frame)

	frame.Fields = map[string]*structpb.Value{
		fieldType: structpb.NewStringValue(string(m.Type)),
	}

	if len(m.Payload) > 0 {
		var payload any
		if err := json.Unmarshal(m.Payload, &payload); err != nil {
			return nil, fmt.Errorf("payload is not valid json: %w", err)
		}
		value, err := structpb.NewValue(payload)
		if err != nil {
			return nil, fmt.Errorf("convert payload: %w", err)
		}
		frame.Fields[fieldPayload] = value
	}

	return proto.Marshal(frame)
}

// Decode 从 Protobuf 字节解码消息
func (protoCodec) Decode(data []byte) (*protocol.Message, error) {
	frame := GetFrameStruct()
	defer PutFrameStruct(frame)

	if err := proto.Unmarshal(data, frame); err != nil {
		return nil, err
	}

	msgType := frame.GetFields()[fieldType].GetStringValue()
	if msgType == "" {
		return nil, ErrEmptyType
	}

	msg := &protocol.Message{Type: protocol.MessageType(msgType)}
	if value, ok := frame.GetFields()[fieldPayload]; ok && value != nil {
		payload, err := protojson.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("convert payload: %w", err)
		}
		msg.Payload = payload
	}
	return msg, nil
}
