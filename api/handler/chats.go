package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/chatwave/backend/api/transport"
	"github.com/chatwave/backend/domain"
	"github.com/chatwave/backend/pkg/httpcontext"
	membershipUC "github.com/chatwave/backend/usecase/membership"
	messagingUC "github.com/chatwave/backend/usecase/messaging"
)

type ChatsHandler struct {
	baseHandler
	membership *membershipUC.Registry
	messaging  *messagingUC.Service
}

func NewChatsHandler(membership *membershipUC.Registry, messaging *messagingUC.Service, adapter *httpcontext.Adapter, logger *zap.Logger) *ChatsHandler {
	return &ChatsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		membership:  membership,
		messaging:   messaging,
	}
}

// @Summary Create a chat
// @Tags chats
// @Router /api/v1/chats [post]
func (h *ChatsHandler) Create(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.ChatCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid request body", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	chat, err := h.membership.CreateChat(stdCtx, req.Name, domain.ChatType(req.Type), userID, req.MemberIDs)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, chat)
}

// @Summary Leave a chat
// @Tags chats
// @Router /api/v1/chats/{id}/leave [post]
func (h *ChatsHandler) Leave(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	chatID, _ := ctx.UserValue("id").(string)
	if chatID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing chat id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.membership.MarkLeft(stdCtx, chatID, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

// @Summary Promote a participant to admin
// @Tags chats
// @Router /api/v1/chats/{id}/promote [post]
func (h *ChatsHandler) Promote(ctx *fasthttp.RequestCtx) {
	actorID := h.userID(ctx)
	if actorID == "" {
		return
	}

	chatID, _ := ctx.UserValue("id").(string)
	if chatID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing chat id", nil))
		return
	}

	var req transport.ChatPromoteRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.UserID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid request body", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.membership.PromoteToAdmin(stdCtx, chatID, actorID, req.UserID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

// @Summary Send a message
// @Tags messages
// @Router /api/v1/chats/{id}/messages [post]
func (h *ChatsHandler) SendMessage(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	chatID, _ := ctx.UserValue("id").(string)
	if chatID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing chat id", nil))
		return
	}

	var req transport.MessageSendRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Content == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid request body", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	message, err := h.messaging.SendMessage(stdCtx, chatID, userID, req.Content)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, message)
}

// @Summary List messages
// @Tags messages
// @Router /api/v1/chats/{id}/messages [get]
func (h *ChatsHandler) ListMessages(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	chatID, _ := ctx.UserValue("id").(string)
	if chatID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing chat id", nil))
		return
	}

	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 50)
	offset := parseInt(string(ctx.QueryArgs().Peek("offset")), 0)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	messages, err := h.messaging.ListMessages(stdCtx, chatID, userID, limit, offset)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, messages)
}
