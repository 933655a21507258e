package handler

import (
	"bufio"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/chatwave/backend/api/transport"
	"github.com/chatwave/backend/domain"
	"github.com/chatwave/backend/internal/services/delivery"
	"github.com/chatwave/backend/pkg/httpcontext"
)

type EventsHandler struct {
	baseHandler
	hub *delivery.Hub
}

func NewEventsHandler(hub *delivery.Hub, adapter *httpcontext.Adapter, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		hub:         hub,
	}
}

// @Summary Subscribe to live events
// @Tags events
// @Router /api/v1/events [get]
func (h *EventsHandler) Subscribe(ctx *fasthttp.RequestCtx) {
	if h.userID(ctx) == "" {
		return
	}
	email := string(ctx.Request.Header.Peek("X-User-Email"))
	if email == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing user email", nil))
		return
	}

	events := h.hub.Register(email)
	h.logger.Info("live stream opened", zap.String("email", email))

	ctx.Response.Header.SetContentType("text/event-stream")
	ctx.Response.Header.Set("Cache-Control", "no-cache")
	ctx.Response.Header.Set("Connection", "keep-alive")

	hub := h.hub
	logger := h.logger
	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		defer hub.Unregister(email, events)
		for event := range events {
			frame, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if _, err := w.WriteString("event: " + event.Topic + "\n"); err != nil {
				return
			}
			if _, err := w.Write(append([]byte("data: "), frame...)); err != nil {
				return
			}
			if _, err := w.WriteString("\n\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				logger.Debug("live stream closed", zap.String("email", email))
				return
			}
		}
	})
}
