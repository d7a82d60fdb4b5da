package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/fichas-a-100/internal/protocol"
)

func TestForSubprotocol(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Protobuf, ForSubprotocol("protobuf"))
	assert.Equal(t, JSON, ForSubprotocol("json"))
	assert.Equal(t, JSON, ForSubprotocol(""))
	assert.Equal(t, JSON, ForSubprotocol("xml"))
}

func TestJSON_EncodeDecode(t *testing.T) {
	t.Parallel()

	msg := MustNewMessage(protocol.MsgPotUpdated, protocol.PotUpdatedPayload{Pot: 40})

	data, err := JSON.Encode(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pot-updated","payload":{"pot":40}}`, string(data))
	assert.False(t, JSON.Binary())

	decoded, err := JSON.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, protocol.MsgPotUpdated, decoded.Type)
	assert.JSONEq(t, `{"pot":40}`, string(decoded.Payload))
}

func TestJSON_DecodeRejectsMissingType(t *testing.T) {
	t.Parallel()

	_, err := JSON.Decode([]byte(`{"payload":{}}`))
	assert.ErrorIs(t, err, ErrEmptyType)

	_, err = JSON.Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestProtobuf_RoundTripKeepsPayload(t *testing.T) {
	t.Parallel()

	msg := MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{
		RoomID:         "123456",
		PlayerIdentity: protocol.PlayerIdentity{ID: "u1", Username: "Ana"},
	})

	data, err := Protobuf.Encode(msg)
	require.NoError(t, err)
	assert.True(t, Protobuf.Binary())

	decoded, err := Protobuf.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, protocol.MsgJoinRoom, decoded.Type)

	payload, err := ParsePayload[protocol.JoinRoomPayload](decoded)
	require.NoError(t, err)
	assert.Equal(t, "123456", payload.RoomID)
	assert.Equal(t, "Ana", payload.PlayerIdentity.Username)
}

func TestProtobuf_IntegersSurviveNumberConversion(t *testing.T) {
	t.Parallel()

	data, err := Protobuf.Encode(MustNewMessage(protocol.MsgPlaceBet, protocol.PlaceBetPayload{Amount: 25}))
	require.NoError(t, err)

	decoded, err := Protobuf.Decode(data)
	require.NoError(t, err)

	payload, err := ParsePayload[protocol.PlaceBetPayload](decoded)
	require.NoError(t, err)
	assert.Equal(t, 25, payload.Amount)
}

func TestProtobuf_MessageWithoutPayload(t *testing.T) {
	t.Parallel()

	data, err := Protobuf.Encode(&protocol.Message{Type: protocol.MsgStand})
	require.NoError(t, err)

	decoded, err := Protobuf.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, protocol.MsgStand, decoded.Type)
	assert.Empty(t, decoded.Payload)
}

func TestProtobuf_DecodeGarbage(t *testing.T) {
	t.Parallel()

	_, err := Protobuf.Decode([]byte{0xff, 0xff, 0xff})
	assert.Error(t, err)
}

func TestParsePayload_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"valid", `{"name":"mesa","maxPlayers":2,"minBet":10,"startingChips":100}`, false},
		{"missing name", `{"maxPlayers":2,"minBet":10,"startingChips":100}`, true},
		{"one player", `{"name":"mesa","maxPlayers":1,"minBet":10,"startingChips":100}`, true},
		{"eleven players", `{"name":"mesa","maxPlayers":11,"minBet":10,"startingChips":100}`, true},
		{"huge max players", `{"name":"mesa","maxPlayers":1099511627776}`, true},
		{"negative min bet", `{"name":"mesa","maxPlayers":2,"minBet":-1,"startingChips":100}`, true},
		{"negative chips", `{"name":"mesa","maxPlayers":2,"minBet":0,"startingChips":-5}`, true},
		{"defaults omitted", `{"name":"mesa"}`, false},
		{"wrong type", `{"name":"mesa","maxPlayers":"two"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			msg := &protocol.Message{Type: protocol.MsgCreateRoom, Payload: []byte(tt.payload)}
			_, err := ParsePayload[protocol.CreateRoomPayload](msg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParsePayload_EmptyPayloadStillValidated(t *testing.T) {
	t.Parallel()

	_, err := ParsePayload[protocol.PlaceBetPayload](&protocol.Message{Type: protocol.MsgPlaceBet})
	assert.Error(t, err)

	lb, err := ParsePayload[protocol.GetLeaderboardPayload](&protocol.Message{Type: protocol.MsgGetLeaderboard})
	require.NoError(t, err)
	assert.Equal(t, 10, lb.Limit)
}

func TestNewErrorMessage(t *testing.T) {
	t.Parallel()

	msg := NewErrorMessage(protocol.ErrCodeRoomFull)
	assert.Equal(t, protocol.MsgError, msg.Type)
	assert.JSONEq(t, `{"code":2002,"message":"房间已满"}`, string(msg.Payload))
}
