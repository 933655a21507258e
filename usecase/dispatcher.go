package usecase

import (
	"context"

	"github.com/chatwave/backend/domain"
)

// EventDispatcher receives event intents from the mutating components and
// owns their persistence and fan-out. Emitters treat dispatch as best-effort:
// a failed dispatch never rolls back the state change that produced it.
type EventDispatcher interface {
	Dispatch(ctx context.Context, intent domain.EventIntent) error
}
