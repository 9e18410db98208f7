package repositories

import (
	"errors"
	"time"

	"corpmatch_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrMeetingNotFound = errors.New("meeting not found")
)

type MeetingRepository interface {
	FindByID(id string) (*models.Meeting, error)
	FindByOrderID(orderID string) (*models.Meeting, error)
	Create(meeting *models.Meeting) error
	Update(meeting *models.Meeting) error
	FindForUser(userID string) ([]models.Meeting, error)
	FindActiveBetween(initiatorID, partnerID string) (*models.Meeting, error)
	UpdateStatus(meetingID string, status models.MeetingStatus) error
	SetOrderID(meetingID, userID, orderID string) error

	// CompletePayment атомарно переводит платеж pending -> completed.
	// Возвращает ErrPaymentNotPending если платеж уже обработан.
	CompletePayment(meetingID, userID, paymentID string) (*models.Meeting, error)
	FailPaymentByOrderID(orderID string) error
}

var ErrPaymentNotPending = errors.New("payment is not pending")

type MeetingRepositoryImpl struct {
	db *gorm.DB
}

func NewMeetingRepository(db *gorm.DB) MeetingRepository {
	return &MeetingRepositoryImpl{db: db}
}

func (r *MeetingRepositoryImpl) FindByID(id string) (*models.Meeting, error) {
	var meeting models.Meeting
	err := r.db.Preload("Initiator").Preload("Partner").Preload("Restaurant").
		First(&meeting, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, err
	}
	return &meeting, nil
}

func (r *MeetingRepositoryImpl) FindByOrderID(orderID string) (*models.Meeting, error) {
	var meeting models.Meeting
	err := r.db.First(&meeting,
		"initiator_order_id = ? OR partner_order_id = ?", orderID, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, err
	}
	return &meeting, nil
}

func (r *MeetingRepositoryImpl) Create(meeting *models.Meeting) error {
	return r.db.Create(meeting).Error
}

func (r *MeetingRepositoryImpl) Update(meeting *models.Meeting) error {
	return r.db.Save(meeting).Error
}

func (r *MeetingRepositoryImpl) FindForUser(userID string) ([]models.Meeting, error) {
	var meetings []models.Meeting
	err := r.db.Preload("Initiator").Preload("Partner").Preload("Restaurant").
		Where("initiator_id = ? OR partner_id = ?", userID, userID).
		Order("scheduled_at DESC").
		Find(&meetings).Error
	return meetings, err
}

// FindActiveBetween ищет незавершенную встречу между двумя пользователями
// в любом направлении
func (r *MeetingRepositoryImpl) FindActiveBetween(initiatorID, partnerID string) (*models.Meeting, error) {
	var meeting models.Meeting
	err := r.db.Where(
		"((initiator_id = ? AND partner_id = ?) OR (initiator_id = ? AND partner_id = ?)) AND status IN ?",
		initiatorID, partnerID, partnerID, initiatorID,
		[]models.MeetingStatus{models.MeetingStatusPending, models.MeetingStatusConfirmed},
	).First(&meeting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, err
	}
	return &meeting, nil
}

func (r *MeetingRepositoryImpl) UpdateStatus(meetingID string, status models.MeetingStatus) error {
	updates := map[string]interface{}{"status": status}
	now := time.Now()
	switch status {
	case models.MeetingStatusConfirmed:
		updates["confirmed_at"] = &now
	case models.MeetingStatusCancelled:
		updates["cancelled_at"] = &now
	}

	result := r.db.Model(&models.Meeting{}).Where("id = ?", meetingID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMeetingNotFound
	}
	return nil
}

func (r *MeetingRepositoryImpl) SetOrderID(meetingID, userID, orderID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var meeting models.Meeting
		if err := tx.First(&meeting, "id = ?", meetingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMeetingNotFound
			}
			return err
		}

		column := "initiator_order_id"
		if userID == meeting.PartnerID {
			column = "partner_order_id"
		}
		return tx.Model(&meeting).Update(column, orderID).Error
	})
}

func (r *MeetingRepositoryImpl) CompletePayment(meetingID, userID, paymentID string) (*models.Meeting, error) {
	var meeting models.Meeting

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&meeting, "id = ?", meetingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMeetingNotFound
			}
			return err
		}

		statusCol := "initiator_payment_status"
		paymentCol := "initiator_payment_id"
		if userID == meeting.PartnerID {
			statusCol = "partner_payment_status"
			paymentCol = "partner_payment_id"
		}

		// Условный update: переход только из pending, повтор не проходит
		result := tx.Model(&models.Meeting{}).
			Where("id = ? AND "+statusCol+" = ?", meetingID, models.PaymentStatusPending).
			Updates(map[string]interface{}{
				statusCol:  models.PaymentStatusCompleted,
				paymentCol: paymentID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPaymentNotPending
		}

		if err := tx.First(&meeting, "id = ?", meetingID).Error; err != nil {
			return err
		}

		// Обе стороны оплатили - встреча подтверждается
		if meeting.FullyPaid() && meeting.Status == models.MeetingStatusPending {
			now := time.Now()
			if err := tx.Model(&meeting).Updates(map[string]interface{}{
				"status":       models.MeetingStatusConfirmed,
				"confirmed_at": &now,
			}).Error; err != nil {
				return err
			}
			meeting.Status = models.MeetingStatusConfirmed
			meeting.ConfirmedAt = &now
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

func (r *MeetingRepositoryImpl) FailPaymentByOrderID(orderID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var meeting models.Meeting
		err := tx.First(&meeting,
			"initiator_order_id = ? OR partner_order_id = ?", orderID, orderID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMeetingNotFound
			}
			return err
		}

		statusCol := "initiator_payment_status"
		if orderID == meeting.PartnerOrderID {
			statusCol = "partner_payment_status"
		}

		// Завершенный платеж не откатывается событием failed
		return tx.Model(&models.Meeting{}).
			Where("id = ? AND "+statusCol+" = ?", meeting.ID, models.PaymentStatusPending).
			Update(statusCol, models.PaymentStatusFailed).Error
	})
}
