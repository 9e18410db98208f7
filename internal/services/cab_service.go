package services

import (
	"corpmatch_backend/internal/config"
	"corpmatch_backend/internal/logger"
	"corpmatch_backend/internal/models"
	"corpmatch_backend/internal/repositories"
	"corpmatch_backend/internal/services/dto"
	"corpmatch_backend/internal/services/rides"
	"corpmatch_backend/pkg/apperrors"
)

type CabService interface {
	EstimateRide(req *dto.EstimateRideRequest) (*rides.Estimate, error)
	CreateBooking(userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	ListBookings(userID string) ([]*dto.BookingResponse, error)
	CancelBooking(userID, bookingID string) error
}

type CabServiceImpl struct {
	bookingRepo repositories.CabBookingRepository
	meetingRepo repositories.MeetingRepository
	notifRepo   repositories.NotificationRepository
	estimator   *rides.Estimator
	publisher   Publisher
	payments    *config.PaymentsConfig
}

func NewCabService(
	bookingRepo repositories.CabBookingRepository,
	meetingRepo repositories.MeetingRepository,
	notifRepo repositories.NotificationRepository,
	estimator *rides.Estimator,
	publisher Publisher,
	payments *config.PaymentsConfig,
) CabService {
	return &CabServiceImpl{
		bookingRepo: bookingRepo,
		meetingRepo: meetingRepo,
		notifRepo:   notifRepo,
		estimator:   estimator,
		publisher:   publisher,
		payments:    payments,
	}
}

func (s *CabServiceImpl) EstimateRide(req *dto.EstimateRideRequest) (*rides.Estimate, error) {
	est := s.estimator.EstimateRide(req.PickupLat, req.PickupLng, req.DropoffLat, req.DropoffLng)
	if est.Fare <= 0 {
		return nil, apperrors.ErrEstimateFailed
	}
	return est, nil
}

// ComputeSplit делит стоимость поездки между заказавшим и пассажиром.
// Свою поездку заказавший оплачивает целиком; чужую - до лимита
// покрытия, остаток доплачивает пассажир.
func ComputeSplit(fare float64, bookingForSelf bool, maxCoverage float64) (userShare, passengerShare float64) {
	if bookingForSelf {
		return fare, 0
	}
	userShare = fare
	if userShare > maxCoverage {
		userShare = maxCoverage
	}
	passengerShare = fare - userShare
	if passengerShare < 0 {
		passengerShare = 0
	}
	return userShare, passengerShare
}

// CreateBooking заказывает такси для участника подтвержденной встречи.
// Заказать можно свою поездку или поездку второго участника.
// Если пассажиру придется доплачивать, требуется явное согласие.
func (s *CabServiceImpl) CreateBooking(userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	meeting, err := s.meetingRepo.FindByID(req.MeetingID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrMeetingNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if userID != meeting.InitiatorID && userID != meeting.PartnerID {
		return nil, apperrors.ErrPassengerNotInMeeting
	}
	if meeting.Status != models.MeetingStatusConfirmed {
		return nil, apperrors.ErrInvalidStatus("cab", "meeting is not confirmed")
	}

	passengerID := req.PassengerID
	if passengerID == "" {
		passengerID = userID
	}
	if passengerID != meeting.InitiatorID && passengerID != meeting.PartnerID {
		return nil, apperrors.ErrPassengerNotInMeeting
	}

	est := s.estimator.EstimateRide(req.PickupLat, req.PickupLng, req.DropoffLat, req.DropoffLng)
	if est.Fare <= 0 {
		return nil, apperrors.ErrEstimateFailed
	}

	userShare, passengerShare := ComputeSplit(est.Fare, passengerID == userID, s.payments.CabMaxCoverage)
	if passengerShare > 0 && !req.ConsentToSplit {
		return nil, apperrors.ErrBookingConsentRequired.WithDetails(map[string]interface{}{
			"estimated_fare":   est.Fare,
			"user_amount":      userShare,
			"passenger_amount": passengerShare,
		})
	}

	booking := &models.CabBooking{
		MeetingID:       req.MeetingID,
		UserID:          userID,
		PassengerID:     passengerID,
		PickupAddress:   req.PickupAddress,
		PickupLat:       req.PickupLat,
		PickupLng:       req.PickupLng,
		DropoffAddress:  req.DropoffAddress,
		DropoffLat:      req.DropoffLat,
		DropoffLng:      req.DropoffLng,
		EstimatedFare:   est.Fare,
		UserAmount:      userShare,
		PassengerAmount: passengerShare,
		DistanceKm:      est.DistanceKm,
		DurationMin:     est.DurationMin,
		Currency:        est.Currency,
		Status:          models.BookingStatusConfirmed,
		PickupTime:      req.PickupTime,
	}

	if err := s.bookingRepo.Create(booking); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.notifRepo.CreateMeetingNotification(passengerID, meeting.ID,
		repositories.NotificationTypeCabBooked,
		"Cab booked",
		"Your ride to the meeting is booked"); err != nil {
		logger.WithError(err).Warn("failed to create cab notification")
	}
	s.publisher.Publish(passengerID, repositories.NotificationTypeCabBooked,
		map[string]string{"booking_id": booking.ID})

	logger.Info("cab booked", "booking_id", booking.ID, "fare", est.Fare,
		"user_amount", userShare, "passenger_amount", passengerShare)
	return dto.ToBookingResponse(booking), nil
}

func (s *CabServiceImpl) ListBookings(userID string) ([]*dto.BookingResponse, error) {
	bookings, err := s.bookingRepo.FindForUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]*dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		result = append(result, dto.ToBookingResponse(&bookings[i]))
	}
	return result, nil
}

func (s *CabServiceImpl) CancelBooking(userID, bookingID string) error {
	booking, err := s.bookingRepo.FindByID(bookingID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrBookingNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if booking.UserID != userID && booking.PassengerID != userID {
		return apperrors.NewForbiddenError("booking belongs to another user")
	}
	if booking.Status == models.BookingStatusCancelled {
		return apperrors.ErrInvalidStatus("cab", "booking is already cancelled")
	}

	return s.bookingRepo.UpdateStatus(bookingID, models.BookingStatusCancelled)
}
