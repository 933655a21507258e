package services

import (
	"context"
	"encoding/json"

	"github.com/chatwave/backend/domain"
	"github.com/chatwave/backend/internal/infrastructure/buffer"
	"github.com/chatwave/backend/usecase"
)

// BufferBridge adapts the buffer processor to the dispatcher's buffer port.
type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferNotification(ctx context.Context, n *domain.Notification) error {
	if b.processor == nil || n == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	item := buffer.Item{
		ID:      n.ID,
		UserID:  n.UserID,
		Payload: payload,
	}
	return b.processor.BufferOperation(ctx, item)
}

var _ usecase.NotificationBuffer = (*BufferBridge)(nil)
