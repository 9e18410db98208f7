package services_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"corpmatch_backend/internal/config"
	"corpmatch_backend/internal/email"
	"corpmatch_backend/internal/models"
	"corpmatch_backend/internal/repositories"
	"corpmatch_backend/internal/services"
	"corpmatch_backend/internal/services/dto"
	"corpmatch_backend/internal/services/payment"
	"corpmatch_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeGateway эмулирует платежный шлюз: отдает заказы и платежи
type fakeGateway struct {
	mu        sync.Mutex
	orders    int
	ordersErr bool
	payments  map[string]payment.Payment // paymentID -> payment
	server    *httptest.Server
}

func newFakeGateway(t *testing.T) *fakeGateway {
	t.Helper()
	g := &fakeGateway{payments: make(map[string]payment.Payment)}

	g.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/orders":
			g.mu.Lock()
			if g.ordersErr {
				g.mu.Unlock()
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			g.orders++
			id := fmt.Sprintf("order_%d", g.orders)
			g.mu.Unlock()
			json.NewEncoder(w).Encode(payment.Order{ID: id, Status: "created", Currency: "INR"})

		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/payments/"):
			id := strings.TrimPrefix(r.URL.Path, "/payments/")
			g.mu.Lock()
			p, ok := g.payments[id]
			g.mu.Unlock()
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(p)

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(g.server.Close)
	return g
}

// failOrders включает или выключает отказ на создании заказов
func (g *fakeGateway) failOrders(fail bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ordersErr = fail
}

// registerPayment регистрирует платеж в шлюзе со статусом
func (g *fakeGateway) registerPayment(paymentID, orderID, status string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.payments[paymentID] = payment.Payment{ID: paymentID, OrderID: orderID, Status: status}
}

func testPaymentsConfig(gatewayURL string) *config.PaymentsConfig {
	return &config.PaymentsConfig{
		GatewayKeyID:         "rzp_test_key",
		GatewaySecret:        "key_secret",
		WebhookSecret:        "webhook_secret",
		GatewayURL:           gatewayURL,
		Currency:             "INR",
		CabMaxCoverage:       350,
		PremiumPricePhone:    10,
		PremiumPriceLinkedin: 5,
	}
}

// clientSignature считает подпись так же, как это делает клиентский SDK
func clientSignature(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte("key_secret"))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

type meetingTestEnv struct {
	db      *gorm.DB
	service services.MeetingService
	gateway *fakeGateway
}

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Match{},
		&models.Restaurant{},
		&models.Meeting{},
		&models.CabBooking{},
		&models.PremiumPurchase{},
		&models.Message{},
		&models.Notification{},
	))
	return db
}

func newMeetingEnv(t *testing.T) *meetingTestEnv {
	t.Helper()
	db := setupServiceDB(t)
	gw := newFakeGateway(t)
	cfg := testPaymentsConfig(gw.server.URL)

	svc := services.NewMeetingService(
		repositories.NewMeetingRepository(db),
		repositories.NewMatchRepository(db),
		repositories.NewUserRepository(db),
		repositories.NewRestaurantRepository(db),
		repositories.NewNotificationRepository(db),
		payment.NewRazorpayService(cfg),
		&email.NoopProvider{},
		services.NoopPublisher{},
		cfg,
	)
	return &meetingTestEnv{db: db, service: svc, gateway: gw}
}

func seedUser(t *testing.T, db *gorm.DB, emailAddr string) *models.User {
	t.Helper()
	age := 30
	user := &models.User{
		Email:             emailAddr,
		PasswordHash:      "hash",
		Name:              "User",
		Age:               &age,
		Gender:            "male",
		LookingFor:        "female",
		Company:           "Acme",
		IsProfileComplete: true,
		IsActive:          true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedMutualMatch(t *testing.T, db *gorm.DB, a, b string) {
	t.Helper()
	repo := repositories.NewMatchRepository(db)
	_, _, err := repo.RecordLike(a, b)
	require.NoError(t, err)
	_, mutual, err := repo.RecordLike(b, a)
	require.NoError(t, err)
	require.True(t, mutual)
}

func seedRestaurant(t *testing.T, db *gorm.DB) *models.Restaurant {
	t.Helper()
	r := &models.Restaurant{Name: "Trattoria", Address: "1 Main St", City: "Bangalore", IsActive: true}
	require.NoError(t, db.Create(r).Error)
	return r
}

func TestCreateMeeting_RequiresMutualMatch(t *testing.T) {
	env := newMeetingEnv(t)
	a := seedUser(t, env.db, "a@corp.com")
	b := seedUser(t, env.db, "b@corp.com")
	r := seedRestaurant(t, env.db)

	_, err := env.service.CreateMeeting(a.ID, &dto.CreateMeetingRequest{
		PartnerID:    b.ID,
		RestaurantID: r.ID,
		ScheduledAt:  time.Now().Add(24 * time.Hour),
		Tier:         650,
	})
	assert.ErrorIs(t, err, apperrors.ErrUsersNotMatched)
}

func TestCreateMeeting_InvalidTier(t *testing.T) {
	env := newMeetingEnv(t)
	a := seedUser(t, env.db, "a@corp.com")
	b := seedUser(t, env.db, "b@corp.com")
	seedMutualMatch(t, env.db, a.ID, b.ID)
	r := seedRestaurant(t, env.db)

	_, err := env.service.CreateMeeting(a.ID, &dto.CreateMeetingRequest{
		PartnerID:    b.ID,
		RestaurantID: r.ID,
		ScheduledAt:  time.Now().Add(24 * time.Hour),
		Tier:         777,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPaymentTier)
}

func TestCreateMeeting_TierSplitsAmounts(t *testing.T) {
	env := newMeetingEnv(t)
	a := seedUser(t, env.db, "a@corp.com")
	b := seedUser(t, env.db, "b@corp.com")
	seedMutualMatch(t, env.db, a.ID, b.ID)
	r := seedRestaurant(t, env.db)

	meeting, err := env.service.CreateMeeting(a.ID, &dto.CreateMeetingRequest{
		PartnerID:       b.ID,
		RestaurantID:    r.ID,
		ScheduledAt:     time.Now().Add(24 * time.Hour),
		Tier:            650,
		SpecialRequests: "window table, no onions",
	})
	require.NoError(t, err)
	assert.Equal(t, 650.0, meeting.InitiatorAmount)
	assert.Equal(t, 350.0, meeting.PartnerAmount)
	assert.Equal(t, 1000.0, meeting.TotalAmount)
	assert.Equal(t, "window table, no onions", meeting.SpecialRequests)
	assert.Equal(t, models.MeetingStatusPending, meeting.Status)
}

func TestCreateMeeting_DuplicateActiveMeetingRejected(t *testing.T) {
	env := newMeetingEnv(t)
	a := seedUser(t, env.db, "a@corp.com")
	b := seedUser(t, env.db, "b@corp.com")
	seedMutualMatch(t, env.db, a.ID, b.ID)
	r := seedRestaurant(t, env.db)

	req := &dto.CreateMeetingRequest{
		PartnerID:    b.ID,
		RestaurantID: r.ID,
		ScheduledAt:  time.Now().Add(24 * time.Hour),
		Tier:         1000,
	}
	_, err := env.service.CreateMeeting(a.ID, req)
	require.NoError(t, err)

	// Вторая активная встреча между той же парой запрещена, даже от партнера
	req.PartnerID = a.ID
	_, err = env.service.CreateMeeting(b.ID, req)
	assert.ErrorIs(t, err, apperrors.ErrMeetingExists)
}

func TestMeetingPaymentFlow_Tier650(t *testing.T) {
	env := newMeetingEnv(t)
	ctx := context.Background()
	a := seedUser(t, env.db, "a@corp.com")
	b := seedUser(t, env.db, "b@corp.com")
	seedMutualMatch(t, env.db, a.ID, b.ID)
	r := seedRestaurant(t, env.db)

	meeting, err := env.service.CreateMeeting(a.ID, &dto.CreateMeetingRequest{
		PartnerID:    b.ID,
		RestaurantID: r.ID,
		ScheduledAt:  time.Now().Add(24 * time.Hour),
		Tier:         650,
	})
	require.NoError(t, err)

	// Инициатор платит свою долю
	order, err := env.service.CreateOrder(ctx, a.ID, meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, 650.0, order.Amount)
	assert.Equal(t, "rzp_test_key", order.KeyID)

	env.gateway.registerPayment("pay_a", order.OrderID, "captured")
	updated, err := env.service.VerifyPayment(ctx, a.ID, meeting.ID, &dto.VerifyPaymentRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_a",
		Signature: clientSignature(order.OrderID, "pay_a"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, updated.InitiatorPaymentStatus)
	// Одной оплаты недостаточно
	assert.Equal(t, models.MeetingStatusPending, updated.Status)

	// Партнер доплачивает 350
	order2, err := env.service.CreateOrder(ctx, b.ID, meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, 350.0, order2.Amount)

	env.gateway.registerPayment("pay_b", order2.OrderID, "captured")
	updated, err = env.service.VerifyPayment(ctx, b.ID, meeting.ID, &dto.VerifyPaymentRequest{
		OrderID:   order2.OrderID,
		PaymentID: "pay_b",
		Signature: clientSignature(order2.OrderID, "pay_b"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.MeetingStatusConfirmed, updated.Status)
	assert.NotNil(t, updated.ConfirmedAt)
}

func TestMeetingPaymentFlow_Tier1000_PartnerHasNothingToPay(t *testing.T) {
	env := newMeetingEnv(t)
	ctx := context.Background()
	a := seedUser(t, env.db, "a@corp.com")
	b := seedUser(t, env.db, "b@corp.com")
	seedMutualMatch(t, env.db, a.ID, b.ID)
	r := seedRestaurant(t, env.db)

	meeting, err := env.service.CreateMeeting(a.ID, &dto.CreateMeetingRequest{
		PartnerID:    b.ID,
		RestaurantID: r.ID,
		ScheduledAt:  time.Now().Add(24 * time.Hour),
		Tier:         1000,
	})
	require.NoError(t, err)

	// У партнера нулевая доля - заказ не создается
	_, err = env.service.CreateOrder(ctx, b.ID, meeting.ID)
	assert.Error(t, err)

	order, err := env.service.CreateOrder(ctx, a.ID, meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, order.Amount)

	env.gateway.registerPayment("pay_a", order.OrderID, "captured")
	updated, err := env.service.VerifyPayment(ctx, a.ID, meeting.ID, &dto.VerifyPaymentRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_a",
		Signature: clientSignature(order.OrderID, "pay_a"),
	})
	require.NoError(t, err)

	// Единственная нужная оплата подтверждает встречу
	assert.Equal(t, models.MeetingStatusConfirmed, updated.Status)
}

func TestVerifyPayment_BadSignature(t *testing.T) {
	env := newMeetingEnv(t)
	ctx := context.Background()
	a := seedUser(t, env.db, "a@corp.com")
	b := seedUser(t, env.db, "b@corp.com")
	seedMutualMatch(t, env.db, a.ID, b.ID)
	r := seedRestaurant(t, env.db)

	meeting, err := env.service.CreateMeeting(a.ID, &dto.CreateMeetingRequest{
		PartnerID:    b.ID,
		RestaurantID: r.ID,
		ScheduledAt:  time.Now().Add(24 * time.Hour),
		Tier:         1000,
	})
	require.NoError(t, err)

	order, err := env.service.CreateOrder(ctx, a.ID, meeting.ID)
	require.NoError(t, err)

	env.gateway.registerPayment("pay_a", order.OrderID, "captured")
	_, err = env.service.VerifyPayment(ctx, a.ID, meeting.ID, &dto.VerifyPaymentRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_a",
		Signature: "deadbeef",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPaymentSignature)
}

func TestVerifyPayment_NotCaptured(t *testing.T) {
	env := newMeetingEnv(t)
	ctx := context.Background()
	a := seedUser(t, env.db, "a@corp.com")
	b := seedUser(t, env.db, "b@corp.com")
	seedMutualMatch(t, env.db, a.ID, b.ID)
	r := seedRestaurant(t, env.db)

	meeting, err := env.service.CreateMeeting(a.ID, &dto.CreateMeetingRequest{
		PartnerID:    b.ID,
		RestaurantID: r.ID,
		ScheduledAt:  time.Now().Add(24 * time.Hour),
		Tier:         1000,
	})
	require.NoError(t, err)

	order, err := env.service.CreateOrder(ctx, a.ID, meeting.ID)
	require.NoError(t, err)

	// Платеж авторизован, но средства не списаны
	env.gateway.registerPayment("pay_a", order.OrderID, "authorized")
	_, err = env.service.VerifyPayment(ctx, a.ID, meeting.ID, &dto.VerifyPaymentRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_a",
		Signature: clientSignature(order.OrderID, "pay_a"),
	})
	assert.ErrorIs(t, err, apperrors.ErrPaymentNotCaptured)
}

func TestVerifyPayment_RepeatRejected(t *testing.T) {
	env := newMeetingEnv(t)
	ctx := context.Background()
	a := seedUser(t, env.db, "a@corp.com")
	b := seedUser(t, env.db, "b@corp.com")
	seedMutualMatch(t, env.db, a.ID, b.ID)
	r := seedRestaurant(t, env.db)

	meeting, err := env.service.CreateMeeting(a.ID, &dto.CreateMeetingRequest{
		PartnerID:    b.ID,
		RestaurantID: r.ID,
		ScheduledAt:  time.Now().Add(24 * time.Hour),
		Tier:         1000,
	})
	require.NoError(t, err)

	order, err := env.service.CreateOrder(ctx, a.ID, meeting.ID)
	require.NoError(t, err)

	env.gateway.registerPayment("pay_a", order.OrderID, "captured")
	req := &dto.VerifyPaymentRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_a",
		Signature: clientSignature(order.OrderID, "pay_a"),
	}
	_, err = env.service.VerifyPayment(ctx, a.ID, meeting.ID, req)
	require.NoError(t, err)

	_, err = env.service.VerifyPayment(ctx, a.ID, meeting.ID, req)
	assert.ErrorIs(t, err, apperrors.ErrPaymentAlreadyCompleted)
}

func TestUpdateStatus_InvitedPartyAccepts(t *testing.T) {
	env := newMeetingEnv(t)
	a := seedUser(t, env.db, "a@corp.com")
	b := seedUser(t, env.db, "b@corp.com")
	seedMutualMatch(t, env.db, a.ID, b.ID)
	r := seedRestaurant(t, env.db)

	meeting, err := env.service.CreateMeeting(a.ID, &dto.CreateMeetingRequest{
		PartnerID:    b.ID,
		RestaurantID: r.ID,
		ScheduledAt:  time.Now().Add(24 * time.Hour),
		Tier:         1000,
	})
	require.NoError(t, err)

	// Инициатор не принимает собственное приглашение
	_, err = env.service.UpdateStatus(a.ID, meeting.ID, &dto.UpdateMeetingStatusRequest{Status: "confirmed"})
	assert.Error(t, err)

	// Приглашенная сторона принимает явно
	updated, err := env.service.UpdateStatus(b.ID, meeting.ID, &dto.UpdateMeetingStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, models.MeetingStatusConfirmed, updated.Status)

	// Из confirmed встречу уже не отменить, только завершить
	_, err = env.service.UpdateStatus(b.ID, meeting.ID, &dto.UpdateMeetingStatusRequest{Status: "cancelled"})
	assert.Error(t, err)

	updated, err = env.service.UpdateStatus(a.ID, meeting.ID, &dto.UpdateMeetingStatusRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, models.MeetingStatusCompleted, updated.Status)

	// completed терминален
	_, err = env.service.UpdateStatus(a.ID, meeting.ID, &dto.UpdateMeetingStatusRequest{Status: "cancelled"})
	assert.Error(t, err)
}

func TestUpdateStatus_CancelFromPending(t *testing.T) {
	env := newMeetingEnv(t)
	a := seedUser(t, env.db, "a@corp.com")
	b := seedUser(t, env.db, "b@corp.com")
	seedMutualMatch(t, env.db, a.ID, b.ID)
	r := seedRestaurant(t, env.db)

	meeting, err := env.service.CreateMeeting(a.ID, &dto.CreateMeetingRequest{
		PartnerID:    b.ID,
		RestaurantID: r.ID,
		ScheduledAt:  time.Now().Add(24 * time.Hour),
		Tier:         1000,
	})
	require.NoError(t, err)

	updated, err := env.service.UpdateStatus(a.ID, meeting.ID, &dto.UpdateMeetingStatusRequest{Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, models.MeetingStatusCancelled, updated.Status)

	// cancelled терминален
	_, err = env.service.UpdateStatus(b.ID, meeting.ID, &dto.UpdateMeetingStatusRequest{Status: "confirmed"})
	assert.Error(t, err)
}

func TestGetMeeting_OutsiderForbidden(t *testing.T) {
	env := newMeetingEnv(t)
	a := seedUser(t, env.db, "a@corp.com")
	b := seedUser(t, env.db, "b@corp.com")
	outsider := seedUser(t, env.db, "c@corp.com")
	seedMutualMatch(t, env.db, a.ID, b.ID)
	r := seedRestaurant(t, env.db)

	meeting, err := env.service.CreateMeeting(a.ID, &dto.CreateMeetingRequest{
		PartnerID:    b.ID,
		RestaurantID: r.ID,
		ScheduledAt:  time.Now().Add(24 * time.Hour),
		Tier:         1000,
	})
	require.NoError(t, err)

	_, err = env.service.GetMeeting(outsider.ID, meeting.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotMeetingParticipant)
}
