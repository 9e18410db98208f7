package services

import (
	"corpmatch_backend/internal/logger"
	"corpmatch_backend/internal/repositories"
	"corpmatch_backend/internal/services/payment"
	"corpmatch_backend/pkg/apperrors"
)

type WebhookService interface {
	HandleWebhook(body []byte, signature string) error
}

type WebhookServiceImpl struct {
	meetingRepo repositories.MeetingRepository
	premiumRepo repositories.PremiumRepository
	gateway     *payment.RazorpayService
}

func NewWebhookService(
	meetingRepo repositories.MeetingRepository,
	premiumRepo repositories.PremiumRepository,
	gateway *payment.RazorpayService,
) WebhookService {
	return &WebhookServiceImpl{
		meetingRepo: meetingRepo,
		premiumRepo: premiumRepo,
		gateway:     gateway,
	}
}

// HandleWebhook обрабатывает событие шлюза. Подпись проверяется
// по сырому телу запроса. Неизвестные события подтверждаются без действий.
func (s *WebhookServiceImpl) HandleWebhook(body []byte, signature string) error {
	if !s.gateway.VerifyWebhookSignature(body, signature) {
		logger.Warn("webhook signature mismatch")
		return apperrors.ErrInvalidPaymentSignature
	}

	event, err := payment.ParseWebhookEvent(body)
	if err != nil {
		return apperrors.ValidationError(map[string]string{"body": err.Error()})
	}

	entity := event.Payload.Payment.Entity

	switch event.Event {
	case "payment.captured":
		return s.handleCaptured(entity.OrderID, entity.ID)
	case "payment.failed":
		return s.handleFailed(entity.OrderID, entity.ErrorCode, entity.ErrorDescription)
	default:
		// Шлюз шлет много типов событий, интересны только платежные
		logger.Debug("webhook event ignored", "event", event.Event)
		return nil
	}
}

// handleCaptured дублирует клиентскую верификацию на случай
// когда клиент закрыл страницу до редиректа
func (s *WebhookServiceImpl) handleCaptured(orderID, paymentID string) error {
	if meeting, err := s.meetingRepo.FindByOrderID(orderID); err == nil {
		userID := meeting.InitiatorID
		if orderID == meeting.PartnerOrderID {
			userID = meeting.PartnerID
		}
		_, err := s.meetingRepo.CompletePayment(meeting.ID, userID, paymentID)
		if err != nil && !apperrors.Is(err, repositories.ErrPaymentNotPending) {
			return apperrors.InternalError(err)
		}
		logger.Info("webhook captured meeting payment", "order_id", orderID)
		return nil
	}

	if purchase, err := s.premiumRepo.FindByOrderID(orderID); err == nil {
		_, err := s.premiumRepo.CompletePurchase(purchase.ID, paymentID)
		if err != nil && !apperrors.Is(err, repositories.ErrPurchaseNotPending) {
			return apperrors.InternalError(err)
		}
		logger.Info("webhook captured premium payment", "order_id", orderID)
		return nil
	}

	// Заказ не найден - событие устарело или чужое, подтверждаем
	logger.Warn("webhook order not found", "order_id", orderID)
	return nil
}

func (s *WebhookServiceImpl) handleFailed(orderID, errorCode, errorDescription string) error {
	if err := s.meetingRepo.FailPaymentByOrderID(orderID); err == nil {
		return nil
	} else if !apperrors.Is(err, repositories.ErrMeetingNotFound) {
		return apperrors.InternalError(err)
	}

	if err := s.premiumRepo.FailPurchaseByOrderID(orderID, errorCode, errorDescription); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
