package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/chatwave/backend/pkg/httpcontext"
	accountUC "github.com/chatwave/backend/usecase/account"
)

type AccountHandler struct {
	baseHandler
	uc *accountUC.Manager
}

func NewAccountHandler(uc *accountUC.Manager, adapter *httpcontext.Adapter, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Check whether the account can be deleted
// @Tags account
// @Router /api/v1/account/deletable [get]
func (h *AccountHandler) CanDelete(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	deletable, err := h.uc.CanDeleteUser(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]bool{"deletable": deletable})
}

// @Summary Soft delete the account
// @Tags account
// @Router /api/v1/account [delete]
func (h *AccountHandler) SoftDelete(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.SoftDeleteUser(stdCtx, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Hard delete the account
// @Tags account
// @Router /api/v1/account/purge [delete]
func (h *AccountHandler) HardDelete(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.HardDeleteUser(stdCtx, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}
