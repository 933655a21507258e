package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/chatwave/backend/api/transport"
	"github.com/chatwave/backend/domain"
	"github.com/chatwave/backend/pkg/httpcontext"
	notifyUC "github.com/chatwave/backend/usecase/notify"
)

type NotificationsHandler struct {
	baseHandler
	uc *notifyUC.Dispatcher
}

func NewNotificationsHandler(uc *notifyUC.Dispatcher, adapter *httpcontext.Adapter, logger *zap.Logger) *NotificationsHandler {
	return &NotificationsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List notifications
// @Tags notifications
// @Router /api/v1/notifications [get]
func (h *NotificationsHandler) List(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	notifications, err := h.uc.List(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, notifications)
}

// @Summary Mark a notification read
// @Tags notifications
// @Router /api/v1/notifications/{id}/read [post]
func (h *NotificationsHandler) MarkRead(ctx *fasthttp.RequestCtx) {
	if h.userID(ctx) == "" {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing notification id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.MarkRead(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

// @Summary Delete a notification
// @Tags notifications
// @Router /api/v1/notifications/{id} [delete]
func (h *NotificationsHandler) DeleteOne(ctx *fasthttp.RequestCtx) {
	if h.userID(ctx) == "" {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing notification id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteOne(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Delete all notifications
// @Tags notifications
// @Router /api/v1/notifications [delete]
func (h *NotificationsHandler) DeleteAll(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteAll(stdCtx, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}
