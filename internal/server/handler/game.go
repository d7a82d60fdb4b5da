package handler

import (
	"github.com/palemoky/fichas-a-100/internal/protocol"
	"github.com/palemoky/fichas-a-100/internal/protocol/codec"
	"github.com/palemoky/fichas-a-100/internal/types"
)

// handlePlaceBet 处理下注
func (h *Handler) handlePlaceBet(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.PlaceBetPayload](msg)
	if err != nil {
		h.sendInvalidPayload(client, err)
		return
	}

	if err := h.roomManager.PlaceBet(client, payload.Amount); err != nil {
		h.sendError(client, err)
	}
}

// handleDrawFicha 处理抽筹码
func (h *Handler) handleDrawFicha(client types.ClientInterface) {
	if err := h.roomManager.DrawFicha(client); err != nil {
		h.sendError(client, err)
	}
}

// handleStand 处理停牌
func (h *Handler) handleStand(client types.ClientInterface) {
	if err := h.roomManager.Stand(client); err != nil {
		h.sendError(client, err)
	}
}
