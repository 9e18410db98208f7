package services

import (
	"corpmatch_backend/internal/logger"
	"corpmatch_backend/internal/models"
	"corpmatch_backend/internal/repositories"
	"corpmatch_backend/internal/services/dto"
	"corpmatch_backend/pkg/apperrors"
)

const defaultMessagePageSize = 50

type MessageService interface {
	SendMessage(senderID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	GetConversation(userID, otherUserID string, limit, offset int) ([]*dto.MessageResponse, error)
	MarkConversationRead(userID, otherUserID string) error
	GetUnreadCount(userID string) (int64, error)
}

type MessageServiceImpl struct {
	messageRepo repositories.MessageRepository
	matchRepo   repositories.MatchRepository
	userRepo    repositories.UserRepository
	notifRepo   repositories.NotificationRepository
	publisher   Publisher
}

func NewMessageService(
	messageRepo repositories.MessageRepository,
	matchRepo repositories.MatchRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
	publisher Publisher,
) MessageService {
	return &MessageServiceImpl{
		messageRepo: messageRepo,
		matchRepo:   matchRepo,
		userRepo:    userRepo,
		notifRepo:   notifRepo,
		publisher:   publisher,
	}
}

// SendMessage отправляет сообщение. Переписка разрешена
// только внутри взаимной пары.
func (s *MessageServiceImpl) SendMessage(senderID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	matched, err := s.matchRepo.AreMatched(senderID, req.ReceiverID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !matched {
		return nil, apperrors.ErrUsersNotMatched
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.ToMessageResponse(message)

	if sender, err := s.userRepo.FindByID(senderID); err == nil {
		if err := s.notifRepo.CreateNewMessageNotification(req.ReceiverID, senderID, sender.Name); err != nil {
			logger.WithError(err).Warn("failed to create message notification")
		}
	}
	s.publisher.Publish(req.ReceiverID, "message.new", resp)

	return resp, nil
}

func (s *MessageServiceImpl) GetConversation(userID, otherUserID string, limit, offset int) ([]*dto.MessageResponse, error) {
	matched, err := s.matchRepo.AreMatched(userID, otherUserID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !matched {
		return nil, apperrors.ErrUsersNotMatched
	}

	if limit <= 0 || limit > 100 {
		limit = defaultMessagePageSize
	}

	messages, err := s.messageRepo.FindConversation(userID, otherUserID, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]*dto.MessageResponse, 0, len(messages))
	for i := range messages {
		result = append(result, dto.ToMessageResponse(&messages[i]))
	}
	return result, nil
}

func (s *MessageServiceImpl) MarkConversationRead(userID, otherUserID string) error {
	return s.messageRepo.MarkConversationRead(userID, otherUserID)
}

func (s *MessageServiceImpl) GetUnreadCount(userID string) (int64, error) {
	return s.messageRepo.CountUnread(userID)
}
