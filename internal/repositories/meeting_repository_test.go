package repositories_test

import (
	"testing"
	"time"

	"corpmatch_backend/internal/models"
	"corpmatch_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestMeeting(t *testing.T, db *gorm.DB, initiatorID, partnerID string, partnerAmount float64) *models.Meeting {
	t.Helper()
	restaurant := &models.Restaurant{Name: "Bistro", City: "Bangalore", IsActive: true}
	require.NoError(t, db.Create(restaurant).Error)

	meeting := &models.Meeting{
		InitiatorID:            initiatorID,
		PartnerID:              partnerID,
		RestaurantID:           restaurant.ID,
		ScheduledAt:            time.Now().Add(48 * time.Hour),
		Status:                 models.MeetingStatusPending,
		InitiatorAmount:        1000 - partnerAmount,
		PartnerAmount:          partnerAmount,
		InitiatorPaymentStatus: models.PaymentStatusPending,
		PartnerPaymentStatus:   models.PaymentStatusPending,
	}
	require.NoError(t, db.Create(meeting).Error)
	return meeting
}

func TestCompletePayment_InitiatorOnly_TierWithoutPartnerShare(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewMeetingRepository(db)

	a := createTestUser(t, db, "a@corp.com")
	b := createTestUser(t, db, "b@corp.com")
	meeting := createTestMeeting(t, db, a.ID, b.ID, 0)

	// Тариф 1000: партнер не платит, оплата инициатора подтверждает встречу
	updated, err := repo.CompletePayment(meeting.ID, a.ID, "pay_1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, updated.InitiatorPaymentStatus)
	assert.Equal(t, models.MeetingStatusConfirmed, updated.Status)
	assert.NotNil(t, updated.ConfirmedAt)
}

func TestCompletePayment_BothSidesRequired(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewMeetingRepository(db)

	a := createTestUser(t, db, "a@corp.com")
	b := createTestUser(t, db, "b@corp.com")
	meeting := createTestMeeting(t, db, a.ID, b.ID, 350)

	// Оплата инициатора при тарифе 650 еще не подтверждает встречу
	updated, err := repo.CompletePayment(meeting.ID, a.ID, "pay_1")
	require.NoError(t, err)
	assert.Equal(t, models.MeetingStatusPending, updated.Status)

	// После доплаты партнера встреча подтверждена
	updated, err = repo.CompletePayment(meeting.ID, b.ID, "pay_2")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, updated.PartnerPaymentStatus)
	assert.Equal(t, models.MeetingStatusConfirmed, updated.Status)
}

func TestCompletePayment_RepeatIsRejected(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewMeetingRepository(db)

	a := createTestUser(t, db, "a@corp.com")
	b := createTestUser(t, db, "b@corp.com")
	meeting := createTestMeeting(t, db, a.ID, b.ID, 0)

	_, err := repo.CompletePayment(meeting.ID, a.ID, "pay_1")
	require.NoError(t, err)

	// Повторная доставка того же платежа (retry вебхука) не проходит
	_, err = repo.CompletePayment(meeting.ID, a.ID, "pay_1")
	assert.ErrorIs(t, err, repositories.ErrPaymentNotPending)
}

func TestFindByOrderID_MatchesEitherSide(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewMeetingRepository(db)

	a := createTestUser(t, db, "a@corp.com")
	b := createTestUser(t, db, "b@corp.com")
	meeting := createTestMeeting(t, db, a.ID, b.ID, 350)

	require.NoError(t, repo.SetOrderID(meeting.ID, a.ID, "order_init"))
	require.NoError(t, repo.SetOrderID(meeting.ID, b.ID, "order_partner"))

	found, err := repo.FindByOrderID("order_init")
	require.NoError(t, err)
	assert.Equal(t, meeting.ID, found.ID)
	assert.Equal(t, "order_init", found.InitiatorOrderID)

	found, err = repo.FindByOrderID("order_partner")
	require.NoError(t, err)
	assert.Equal(t, "order_partner", found.PartnerOrderID)

	_, err = repo.FindByOrderID("order_unknown")
	assert.ErrorIs(t, err, repositories.ErrMeetingNotFound)
}

func TestFailPaymentByOrderID_DoesNotRollBackCompleted(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewMeetingRepository(db)

	a := createTestUser(t, db, "a@corp.com")
	b := createTestUser(t, db, "b@corp.com")
	meeting := createTestMeeting(t, db, a.ID, b.ID, 350)

	require.NoError(t, repo.SetOrderID(meeting.ID, a.ID, "order_init"))
	_, err := repo.CompletePayment(meeting.ID, a.ID, "pay_1")
	require.NoError(t, err)

	// Запоздавший payment.failed не откатывает completed
	require.NoError(t, repo.FailPaymentByOrderID("order_init"))

	found, err := repo.FindByID(meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, found.InitiatorPaymentStatus)
}

func TestFindActiveBetween_IgnoresFinishedMeetings(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewMeetingRepository(db)

	a := createTestUser(t, db, "a@corp.com")
	b := createTestUser(t, db, "b@corp.com")
	meeting := createTestMeeting(t, db, a.ID, b.ID, 0)

	// Активная встреча видна в обоих направлениях
	found, err := repo.FindActiveBetween(b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, meeting.ID, found.ID)

	require.NoError(t, repo.UpdateStatus(meeting.ID, models.MeetingStatusCancelled))

	_, err = repo.FindActiveBetween(a.ID, b.ID)
	assert.ErrorIs(t, err, repositories.ErrMeetingNotFound)
}
