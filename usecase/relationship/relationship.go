package relationship

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chatwave/backend/domain"
	"github.com/chatwave/backend/repository"
	"github.com/chatwave/backend/usecase"
)

// Engine drives the friend-request state machine and derives the accepted
// friends set.
type Engine struct {
	users    repository.UserRepository
	requests repository.FriendRequestRepository
	events   usecase.EventDispatcher
	logger   *zap.Logger
}

func New(users repository.UserRepository, requests repository.FriendRequestRepository, events usecase.EventDispatcher, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		users:    users,
		requests: requests,
		events:   events,
		logger:   logger,
	}
}

// SendRequest creates a PENDING request from sender to the user behind
// receiverEmail and notifies the receiver. The duplicate check covers both
// directions and is atomic with the insert.
func (e *Engine) SendRequest(ctx context.Context, senderID, receiverEmail string) (*domain.FriendRequest, error) {
	receiverEmail = strings.TrimSpace(receiverEmail)
	if receiverEmail == "" {
		return nil, domain.ErrEmailRequired
	}

	sender, err := e.users.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	receiver, err := e.users.GetByEmail(ctx, receiverEmail)
	if err != nil {
		return nil, err
	}
	if receiver.ID == sender.ID {
		return nil, domain.ErrSelfRequest
	}

	request := &domain.FriendRequest{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
	}
	if err := e.requests.CreatePending(ctx, request); err != nil {
		return nil, err
	}

	e.emit(ctx, domain.EventIntent{
		Type:           domain.NotificationFriendRequest,
		RecipientID:    receiver.ID,
		RecipientEmail: receiver.Email,
		ActorEmail:     sender.Email,
		ActorFirstName: sender.FirstName,
	})
	return request, nil
}

// AcceptRequest transitions a PENDING request to ACCEPTED. Only the receiver
// may accept; a request that already left PENDING is rejected.
func (e *Engine) AcceptRequest(ctx context.Context, requestID, actorID string) (*domain.FriendRequest, error) {
	return e.respond(ctx, requestID, actorID, domain.FriendRequestAccepted, domain.NotificationResponseAccepted)
}

// RejectRequest transitions a PENDING request to REJECTED under the same
// guards as AcceptRequest.
func (e *Engine) RejectRequest(ctx context.Context, requestID, actorID string) (*domain.FriendRequest, error) {
	return e.respond(ctx, requestID, actorID, domain.FriendRequestRejected, domain.NotificationResponseRejected)
}

func (e *Engine) respond(ctx context.Context, requestID, actorID string, status domain.FriendRequestStatus, event domain.NotificationType) (*domain.FriendRequest, error) {
	request, err := e.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.ReceiverID != actorID {
		return nil, domain.ErrNotRequestReceiver
	}

	updated, err := e.requests.Respond(ctx, requestID, status, time.Now())
	if err != nil {
		return nil, err
	}

	actor, err := e.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	sender, err := e.users.GetByID(ctx, updated.SenderID)
	if err != nil {
		return nil, err
	}

	e.emit(ctx, domain.EventIntent{
		Type:           event,
		RecipientID:    sender.ID,
		RecipientEmail: sender.Email,
		ActorEmail:     actor.Email,
		ActorFirstName: actor.FirstName,
	})
	return updated, nil
}

// ListFriends returns the distinct counterparts of the user's ACCEPTED
// requests, in no particular order.
func (e *Engine) ListFriends(ctx context.Context, userID string) ([]domain.User, error) {
	return e.requests.ListFriends(ctx, userID)
}

// ListPendingIncoming returns PENDING requests addressed to the user, newest
// first.
func (e *Engine) ListPendingIncoming(ctx context.Context, userID string) ([]domain.FriendRequest, error) {
	return e.requests.ListPendingIncoming(ctx, userID)
}

func (e *Engine) emit(ctx context.Context, intent domain.EventIntent) {
	if e.events == nil {
		return
	}
	if err := e.events.Dispatch(ctx, intent); err != nil {
		e.logger.Error("failed to dispatch relationship event",
			zap.String("type", string(intent.Type)),
			zap.String("recipient", intent.RecipientID),
			zap.Error(err))
	}
}
