package repositories

import (
	"errors"
	"time"

	"corpmatch_backend/internal/models"

	"gorm.io/gorm"
)

var ErrBookingNotFound = errors.New("cab booking not found")

type CabBookingRepository interface {
	FindByID(id string) (*models.CabBooking, error)
	Create(booking *models.CabBooking) error
	FindForMeeting(meetingID string) ([]models.CabBooking, error)
	FindForUser(userID string) ([]models.CabBooking, error)
	UpdateStatus(bookingID string, status models.BookingStatus) error
}

type CabBookingRepositoryImpl struct {
	db *gorm.DB
}

func NewCabBookingRepository(db *gorm.DB) CabBookingRepository {
	return &CabBookingRepositoryImpl{db: db}
}

func (r *CabBookingRepositoryImpl) FindByID(id string) (*models.CabBooking, error) {
	var booking models.CabBooking
	err := r.db.Preload("Meeting").Preload("Passenger").First(&booking, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *CabBookingRepositoryImpl) Create(booking *models.CabBooking) error {
	return r.db.Create(booking).Error
}

func (r *CabBookingRepositoryImpl) FindForMeeting(meetingID string) ([]models.CabBooking, error) {
	var bookings []models.CabBooking
	err := r.db.Where("meeting_id = ?", meetingID).Find(&bookings).Error
	return bookings, err
}

// FindForUser возвращает заказы где пользователь заказчик или пассажир
func (r *CabBookingRepositoryImpl) FindForUser(userID string) ([]models.CabBooking, error) {
	var bookings []models.CabBooking
	err := r.db.Preload("Meeting").
		Where("user_id = ? OR passenger_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *CabBookingRepositoryImpl) UpdateStatus(bookingID string, status models.BookingStatus) error {
	updates := map[string]interface{}{"status": status}
	if status == models.BookingStatusCancelled {
		now := time.Now()
		updates["cancelled_at"] = &now
	}

	result := r.db.Model(&models.CabBooking{}).Where("id = ?", bookingID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}
