package services

import (
	"context"
	"fmt"

	"corpmatch_backend/internal/config"
	"corpmatch_backend/internal/email"
	"corpmatch_backend/internal/logger"
	"corpmatch_backend/internal/models"
	"corpmatch_backend/internal/repositories"
	"corpmatch_backend/internal/services/dto"
	"corpmatch_backend/internal/services/payment"
	"corpmatch_backend/pkg/apperrors"
)

type MeetingService interface {
	CreateMeeting(userID string, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, error)
	GetMeeting(userID, meetingID string) (*dto.MeetingResponse, error)
	ListMeetings(userID string) ([]*dto.MeetingResponse, error)
	UpdateStatus(userID, meetingID string, req *dto.UpdateMeetingStatusRequest) (*dto.MeetingResponse, error)

	CreateOrder(ctx context.Context, userID, meetingID string) (*dto.CreateOrderResponse, error)
	VerifyPayment(ctx context.Context, userID, meetingID string, req *dto.VerifyPaymentRequest) (*dto.MeetingResponse, error)
}

type MeetingServiceImpl struct {
	meetingRepo    repositories.MeetingRepository
	matchRepo      repositories.MatchRepository
	userRepo       repositories.UserRepository
	restaurantRepo repositories.RestaurantRepository
	notifRepo      repositories.NotificationRepository
	gateway        *payment.RazorpayService
	emailProvider  email.Provider
	publisher      Publisher
	payments       *config.PaymentsConfig
}

func NewMeetingService(
	meetingRepo repositories.MeetingRepository,
	matchRepo repositories.MatchRepository,
	userRepo repositories.UserRepository,
	restaurantRepo repositories.RestaurantRepository,
	notifRepo repositories.NotificationRepository,
	gateway *payment.RazorpayService,
	emailProvider email.Provider,
	publisher Publisher,
	payments *config.PaymentsConfig,
) MeetingService {
	return &MeetingServiceImpl{
		meetingRepo:    meetingRepo,
		matchRepo:      matchRepo,
		userRepo:       userRepo,
		restaurantRepo: restaurantRepo,
		notifRepo:      notifRepo,
		gateway:        gateway,
		emailProvider:  emailProvider,
		publisher:      publisher,
		payments:       payments,
	}
}

// CreateMeeting создает встречу. Требования:
// взаимная пара, валидный тариф, активный ресторан,
// нет незавершенной встречи между этими же пользователями.
func (s *MeetingServiceImpl) CreateMeeting(userID string, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, error) {
	matched, err := s.matchRepo.AreMatched(userID, req.PartnerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !matched {
		return nil, apperrors.ErrUsersNotMatched
	}

	tier, ok := s.payments.MeetingTiers()[req.Tier]
	if !ok {
		return nil, apperrors.ErrInvalidPaymentTier
	}

	restaurant, err := s.restaurantRepo.FindByID(req.RestaurantID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRestaurantNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if !restaurant.IsActive {
		return nil, apperrors.ErrInvalidOperation("meeting", "restaurant is not available")
	}

	if _, err := s.meetingRepo.FindActiveBetween(userID, req.PartnerID); err == nil {
		return nil, apperrors.ErrMeetingExists
	} else if !apperrors.Is(err, repositories.ErrMeetingNotFound) {
		return nil, apperrors.InternalError(err)
	}

	meeting := &models.Meeting{
		InitiatorID:     userID,
		PartnerID:       req.PartnerID,
		RestaurantID:    req.RestaurantID,
		ScheduledAt:     req.ScheduledAt,
		Status:          models.MeetingStatusPending,
		SpecialRequests: req.SpecialRequests,
		InitiatorAmount: req.Tier,
		PartnerAmount:   tier.PartnerAmount,
		TotalAmount:     tier.Total,
	}

	if err := s.meetingRepo.Create(meeting); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notifyMeeting(req.PartnerID, meeting.ID,
		repositories.NotificationTypeMeetingCreated,
		"Dinner invitation",
		fmt.Sprintf("You have been invited to dinner at %s", restaurant.Name))

	logger.Info("meeting created", "meeting_id", meeting.ID, "tier", req.Tier)
	return dto.ToMeetingResponse(meeting), nil
}

func (s *MeetingServiceImpl) GetMeeting(userID, meetingID string) (*dto.MeetingResponse, error) {
	meeting, err := s.loadForParticipant(userID, meetingID)
	if err != nil {
		return nil, err
	}
	return dto.ToMeetingResponse(meeting), nil
}

func (s *MeetingServiceImpl) ListMeetings(userID string) ([]*dto.MeetingResponse, error) {
	meetings, err := s.meetingRepo.FindForUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]*dto.MeetingResponse, 0, len(meetings))
	for i := range meetings {
		result = append(result, dto.ToMeetingResponse(&meetings[i]))
	}
	return result, nil
}

// допустимые переходы статуса встречи
var meetingTransitions = map[models.MeetingStatus][]models.MeetingStatus{
	models.MeetingStatusPending:   {models.MeetingStatusConfirmed, models.MeetingStatusCancelled},
	models.MeetingStatusConfirmed: {models.MeetingStatusCompleted},
}

// UpdateStatus переводит встречу между статусами. cancelled и completed -
// терминальные. confirmed достигается оплатой или явным принятием
// приглашения, и принять может только приглашенная сторона.
func (s *MeetingServiceImpl) UpdateStatus(userID, meetingID string, req *dto.UpdateMeetingStatusRequest) (*dto.MeetingResponse, error) {
	meeting, err := s.loadForParticipant(userID, meetingID)
	if err != nil {
		return nil, err
	}

	target := models.MeetingStatus(req.Status)
	allowed := false
	for _, st := range meetingTransitions[meeting.Status] {
		if st == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperrors.ErrInvalidStatus("meeting",
			fmt.Sprintf("cannot transition from %s to %s", meeting.Status, target))
	}
	if target == models.MeetingStatusConfirmed && userID != meeting.PartnerID {
		return nil, apperrors.ErrInvalidStatus("meeting", "only the invited party can accept")
	}

	if err := s.meetingRepo.UpdateStatus(meetingID, target); err != nil {
		return nil, apperrors.InternalError(err)
	}

	updated, err := s.meetingRepo.FindByID(meetingID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.ToMeetingResponse(updated), nil
}

// CreateOrder создает заказ в шлюзе на долю вызывающего участника
func (s *MeetingServiceImpl) CreateOrder(ctx context.Context, userID, meetingID string) (*dto.CreateOrderResponse, error) {
	meeting, err := s.loadForParticipant(userID, meetingID)
	if err != nil {
		return nil, err
	}

	amount := meeting.InitiatorAmount
	paid := meeting.InitiatorPaymentStatus
	if userID == meeting.PartnerID {
		amount = meeting.PartnerAmount
		paid = meeting.PartnerPaymentStatus
	}

	if amount == 0 {
		return nil, apperrors.ErrInvalidOperation("meeting", "nothing to pay for this participant")
	}
	if paid == models.PaymentStatusCompleted {
		return nil, apperrors.ErrPaymentAlreadyCompleted
	}

	receipt := fmt.Sprintf("meeting_%s_%s", meetingID, userID)
	order, err := s.gateway.CreateOrder(ctx, amount, receipt, map[string]string{
		"meeting_id": meetingID,
		"user_id":    userID,
	})
	if err != nil {
		logger.PaymentLog("create_order", receipt, amount, err)
		return nil, err
	}

	if err := s.meetingRepo.SetOrderID(meetingID, userID, order.ID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.PaymentLog("create_order", order.ID, amount, nil)
	return &dto.CreateOrderResponse{
		OrderID:  order.ID,
		Amount:   amount,
		Currency: s.payments.Currency,
		KeyID:    s.payments.GatewayKeyID,
	}, nil
}

// VerifyPayment проверяет подпись и статус capture, затем атомарно
// закрывает платеж участника. Когда обе стороны оплатили,
// встреча подтверждается.
func (s *MeetingServiceImpl) VerifyPayment(ctx context.Context, userID, meetingID string, req *dto.VerifyPaymentRequest) (*dto.MeetingResponse, error) {
	meeting, err := s.loadForParticipant(userID, meetingID)
	if err != nil {
		return nil, err
	}

	expectedOrder := meeting.InitiatorOrderID
	if userID == meeting.PartnerID {
		expectedOrder = meeting.PartnerOrderID
	}
	if expectedOrder == "" || expectedOrder != req.OrderID {
		return nil, apperrors.ErrInvalidOperation("payment", "order does not belong to this participant")
	}

	if !s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		logger.Warn("payment signature mismatch", "order_id", req.OrderID)
		return nil, apperrors.ErrInvalidPaymentSignature
	}

	pmt, err := s.gateway.FetchPayment(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}
	if !pmt.IsCaptured() {
		return nil, apperrors.ErrPaymentNotCaptured
	}

	updated, err := s.meetingRepo.CompletePayment(meetingID, userID, req.PaymentID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPaymentNotPending) {
			return nil, apperrors.ErrPaymentAlreadyCompleted
		}
		return nil, apperrors.InternalError(err)
	}

	logger.PaymentLog("verify", req.OrderID, float64(pmt.Amount)/100, nil)

	if updated.Status == models.MeetingStatusConfirmed {
		s.onMeetingConfirmed(updated)
	}

	return dto.ToMeetingResponse(updated), nil
}

func (s *MeetingServiceImpl) onMeetingConfirmed(meeting *models.Meeting) {
	for _, uid := range []string{meeting.InitiatorID, meeting.PartnerID} {
		s.notifyMeeting(uid, meeting.ID,
			repositories.NotificationTypeMeetingConfirmed,
			"Meeting confirmed",
			"Both payments received, your dinner is confirmed")
	}

	// Письма с деталями встречи
	restaurant, err := s.restaurantRepo.FindByID(meeting.RestaurantID)
	if err != nil {
		logger.WithError(err).Warn("failed to load restaurant for confirmation email")
		return
	}
	for _, uid := range []string{meeting.InitiatorID, meeting.PartnerID} {
		user, err := s.userRepo.FindByID(uid)
		if err != nil {
			continue
		}
		body := fmt.Sprintf(
			"<p>Your dinner at <b>%s</b> (%s) is confirmed for %s.</p>",
			restaurant.Name, restaurant.Address,
			meeting.ScheduledAt.Format("Mon, 2 Jan 2006 15:04"),
		)
		if err := s.emailProvider.Send(user.Email, "Your dinner is confirmed", body); err != nil {
			logger.WithError(err).Warn("failed to send confirmation email", "user_id", uid)
		}
	}
}

func (s *MeetingServiceImpl) notifyMeeting(userID, meetingID, notifType, title, message string) {
	if err := s.notifRepo.CreateMeetingNotification(userID, meetingID, notifType, title, message); err != nil {
		logger.WithError(err).Warn("failed to create meeting notification")
	}
	s.publisher.Publish(userID, notifType, map[string]string{"meeting_id": meetingID})
}

func (s *MeetingServiceImpl) loadForParticipant(userID, meetingID string) (*models.Meeting, error) {
	meeting, err := s.meetingRepo.FindByID(meetingID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrMeetingNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if userID != meeting.InitiatorID && userID != meeting.PartnerID {
		return nil, apperrors.ErrNotMeetingParticipant
	}
	return meeting, nil
}
