package delivery

import (
	"sync"

	"go.uber.org/zap"
)

// Event is one frame pushed to a connected client.
type Event struct {
	Topic   string      `json:"topic"`
	Payload interface{} `json:"payload"`
}

// Hub tracks the live delivery channel of every connected user, keyed by
// email. Pushes are best-effort: an absent or saturated channel drops the
// frame, the durable notification row remains the source of truth.
type Hub struct {
	channels   sync.Map
	bufferSize int
	logger     *zap.Logger
}

// NewHub creates a hub whose per-user channels buffer up to bufferSize frames.
func NewHub(bufferSize int, logger *zap.Logger) *Hub {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		bufferSize: bufferSize,
		logger:     logger,
	}
}

// Register opens the delivery channel for a user and returns its receive
// side. A second registration for the same email replaces the first.
func (h *Hub) Register(email string) <-chan Event {
	ch := make(chan Event, h.bufferSize)
	if prev, loaded := h.channels.Swap(email, ch); loaded {
		close(prev.(chan Event))
	}
	return ch
}

// Unregister closes and removes the user's delivery channel. The channel
// returned by Register must be passed back so that a stale subscriber cannot
// tear down a newer registration for the same email.
func (h *Hub) Unregister(email string, ch <-chan Event) {
	value, ok := h.channels.Load(email)
	if !ok {
		return
	}
	current := value.(chan Event)
	if (<-chan Event)(current) != ch {
		return
	}
	h.channels.Delete(email)
	close(current)
}

// IsConnected reports whether the user currently has a delivery channel.
func (h *Hub) IsConnected(email string) bool {
	_, ok := h.channels.Load(email)
	return ok
}

// Push hands a frame to the user's channel if one is registered. It never
// blocks: a full channel drops the frame with a log line.
func (h *Hub) Push(email, topic string, payload interface{}) {
	value, ok := h.channels.Load(email)
	if !ok {
		return
	}
	select {
	case value.(chan Event) <- Event{Topic: topic, Payload: payload}:
	default:
		h.logger.Warn("dropping live event, channel full",
			zap.String("email", email),
			zap.String("topic", topic))
	}
}
