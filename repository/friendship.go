package repository

import (
	"context"
	"time"

	"github.com/chatwave/backend/domain"
)

type FriendRequestRepository interface {
	GetByID(ctx context.Context, id string) (*domain.FriendRequest, error)

	// CreatePending inserts a PENDING request. The duplicate check (a PENDING
	// or ACCEPTED row between the pair, in either direction) runs atomically
	// with the insert; concurrent sends for the same unordered pair are
	// serialized. Returns domain.ErrRequestPending or domain.ErrAlreadyFriends
	// on conflict.
	CreatePending(ctx context.Context, req *domain.FriendRequest) error

	// Respond moves a request out of PENDING. The state check is atomic with
	// the write; a request that is no longer PENDING yields
	// domain.ErrRequestNotPending.
	Respond(ctx context.Context, id string, status domain.FriendRequestStatus, respondedAt time.Time) (*domain.FriendRequest, error)

	// ListFriends returns the distinct counterparts of ACCEPTED requests where
	// the user is on either side. Order is unspecified.
	ListFriends(ctx context.Context, userID string) ([]domain.User, error)

	// ListPendingIncoming returns PENDING requests addressed to the user,
	// newest first.
	ListPendingIncoming(ctx context.Context, userID string) ([]domain.FriendRequest, error)
}
