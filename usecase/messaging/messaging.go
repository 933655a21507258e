package messaging

import (
	"context"

	"go.uber.org/zap"

	"github.com/chatwave/backend/domain"
	"github.com/chatwave/backend/repository"
	"github.com/chatwave/backend/usecase"
)

// Service persists chat messages and fans NEW_MESSAGE events out to the other
// active participants.
type Service struct {
	users          repository.UserRepository
	messages       repository.MessageRepository
	participations repository.ParticipationRepository
	events         usecase.EventDispatcher
	logger         *zap.Logger
}

func New(
	users repository.UserRepository,
	messages repository.MessageRepository,
	participations repository.ParticipationRepository,
	events usecase.EventDispatcher,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:          users,
		messages:       messages,
		participations: participations,
		events:         events,
		logger:         logger,
	}
}

// SendMessage stores the message and notifies every other active participant.
// Only active participants may send.
func (s *Service) SendMessage(ctx context.Context, chatID, senderID, content string) (*domain.Message, error) {
	if content == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "message content is required")
	}

	ok, err := s.participations.IsParticipant(ctx, chatID, senderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotParticipant
	}

	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	message := &domain.Message{
		ChatID:   chatID,
		SenderID: senderID,
		Content:  content,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}

	s.notifyParticipants(ctx, chatID, sender, content)
	return message, nil
}

// ListMessages returns the chat's messages, newest first.
func (s *Service) ListMessages(ctx context.Context, chatID, actorID string, limit, offset int) ([]domain.Message, error) {
	ok, err := s.participations.IsParticipant(ctx, chatID, actorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotParticipant
	}
	return s.messages.ListByChat(ctx, chatID, limit, offset)
}

func (s *Service) notifyParticipants(ctx context.Context, chatID string, sender *domain.User, content string) {
	if s.events == nil {
		return
	}

	participants, err := s.participations.ListActive(ctx, chatID)
	if err != nil {
		s.logger.Error("failed to list participants for fan-out",
			zap.String("chat_id", chatID),
			zap.Error(err))
		return
	}

	for _, p := range participants {
		if p.UserID == sender.ID {
			continue
		}
		recipient, err := s.users.GetByID(ctx, p.UserID)
		if err != nil {
			s.logger.Warn("skipping unreachable recipient",
				zap.String("user_id", p.UserID),
				zap.Error(err))
			continue
		}
		intent := domain.EventIntent{
			Type:           domain.NotificationNewMessage,
			RecipientID:    recipient.ID,
			RecipientEmail: recipient.Email,
			ActorEmail:     sender.Email,
			Body:           content,
		}
		if err := s.events.Dispatch(ctx, intent); err != nil {
			s.logger.Error("failed to dispatch message event",
				zap.String("recipient", recipient.ID),
				zap.Error(err))
		}
	}
}
