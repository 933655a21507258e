package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/chatwave/backend/api/transport"
	"github.com/chatwave/backend/domain"
	"github.com/chatwave/backend/pkg/httpcontext"
	relationshipUC "github.com/chatwave/backend/usecase/relationship"
)

type FriendsHandler struct {
	baseHandler
	uc *relationshipUC.Engine
}

func NewFriendsHandler(uc *relationshipUC.Engine, adapter *httpcontext.Adapter, logger *zap.Logger) *FriendsHandler {
	return &FriendsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Send a friend request
// @Tags friends
// @Router /api/v1/friends/requests [post]
func (h *FriendsHandler) SendRequest(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.FriendRequestCreate
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	request, err := h.uc.SendRequest(stdCtx, userID, req.ReceiverEmail)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, request)
}

// @Summary Accept a friend request
// @Tags friends
// @Router /api/v1/friends/requests/{id}/accept [post]
func (h *FriendsHandler) AcceptRequest(ctx *fasthttp.RequestCtx) {
	h.respond(ctx, h.uc.AcceptRequest)
}

// @Summary Reject a friend request
// @Tags friends
// @Router /api/v1/friends/requests/{id}/reject [post]
func (h *FriendsHandler) RejectRequest(ctx *fasthttp.RequestCtx) {
	h.respond(ctx, h.uc.RejectRequest)
}

// @Summary List friends
// @Tags friends
// @Router /api/v1/friends [get]
func (h *FriendsHandler) ListFriends(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	friends, err := h.uc.ListFriends(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, friends)
}

// @Summary List pending incoming requests
// @Tags friends
// @Router /api/v1/friends/requests [get]
func (h *FriendsHandler) ListPending(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	requests, err := h.uc.ListPendingIncoming(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, requests)
}

type respondFunc func(ctx context.Context, requestID, actorID string) (*domain.FriendRequest, error)

func (h *FriendsHandler) respond(ctx *fasthttp.RequestCtx, fn respondFunc) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	requestID, _ := ctx.UserValue("id").(string)
	if requestID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing request id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	request, err := fn(stdCtx, requestID, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, request)
}
