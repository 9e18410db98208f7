package services_test

import (
	"context"
	"testing"

	"corpmatch_backend/internal/models"
	"corpmatch_backend/internal/repositories"
	"corpmatch_backend/internal/services"
	"corpmatch_backend/internal/services/dto"
	"corpmatch_backend/internal/services/payment"
	"corpmatch_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type premiumTestEnv struct {
	db      *gorm.DB
	service services.PremiumService
	gateway *fakeGateway
}

func newPremiumEnv(t *testing.T) *premiumTestEnv {
	t.Helper()
	db := setupServiceDB(t)
	gw := newFakeGateway(t)
	cfg := testPaymentsConfig(gw.server.URL)

	svc := services.NewPremiumService(
		repositories.NewPremiumRepository(db),
		repositories.NewUserRepository(db),
		repositories.NewMatchRepository(db),
		payment.NewRazorpayService(cfg),
		cfg,
	)
	return &premiumTestEnv{db: db, service: svc, gateway: gw}
}

func TestPremiumCreateOrder_RequiresMatch(t *testing.T) {
	env := newPremiumEnv(t)
	a := seedUser(t, env.db, "a@corp.com")
	b := seedUser(t, env.db, "b@corp.com")

	_, err := env.service.CreateOrder(context.Background(), a.ID, &dto.CreatePremiumOrderRequest{
		TargetUserID: b.ID,
		AccessType:   "phone",
	})
	assert.ErrorIs(t, err, apperrors.ErrUsersNotMatched)
}

func TestPremiumCreateOrder_SelfRejected(t *testing.T) {
	env := newPremiumEnv(t)
	a := seedUser(t, env.db, "a@corp.com")

	_, err := env.service.CreateOrder(context.Background(), a.ID, &dto.CreatePremiumOrderRequest{
		TargetUserID: a.ID,
		AccessType:   "phone",
	})
	assert.Error(t, err)
}

func TestPremiumPhoneUnlockFlow(t *testing.T) {
	env := newPremiumEnv(t)
	ctx := context.Background()

	a := seedUser(t, env.db, "a@corp.com")
	b := seedUser(t, env.db, "b@corp.com")
	require.NoError(t, env.db.Model(b).Update("phone", "+919876543210").Error)
	seedMutualMatch(t, env.db, a.ID, b.ID)

	// До покупки доступа нет
	access, err := env.service.CheckAccess(a.ID, b.ID, models.AccessTypePhone)
	require.NoError(t, err)
	assert.False(t, access.HasAccess)
	assert.Empty(t, access.Value)

	order, err := env.service.CreateOrder(ctx, a.ID, &dto.CreatePremiumOrderRequest{
		TargetUserID: b.ID,
		AccessType:   "phone",
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, order.Amount)

	env.gateway.registerPayment("pay_1", order.OrderID, "captured")
	purchase, err := env.service.VerifyPayment(ctx, a.ID, &dto.VerifyPaymentRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_1",
		Signature: clientSignature(order.OrderID, "pay_1"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseStatusCompleted, purchase.Status)

	// После покупки контакт раскрывается
	access, err = env.service.CheckAccess(a.ID, b.ID, models.AccessTypePhone)
	require.NoError(t, err)
	assert.True(t, access.HasAccess)
	assert.Equal(t, "+919876543210", access.Value)

	// Доступ направленный: b не видит телефон a
	access, err = env.service.CheckAccess(b.ID, a.ID, models.AccessTypePhone)
	require.NoError(t, err)
	assert.False(t, access.HasAccess)
}

func TestPremiumCreateOrder_DoublePurchaseConflict(t *testing.T) {
	env := newPremiumEnv(t)
	ctx := context.Background()

	a := seedUser(t, env.db, "a@corp.com")
	b := seedUser(t, env.db, "b@corp.com")
	seedMutualMatch(t, env.db, a.ID, b.ID)

	order, err := env.service.CreateOrder(ctx, a.ID, &dto.CreatePremiumOrderRequest{
		TargetUserID: b.ID,
		AccessType:   "phone",
	})
	require.NoError(t, err)

	env.gateway.registerPayment("pay_1", order.OrderID, "captured")
	_, err = env.service.VerifyPayment(ctx, a.ID, &dto.VerifyPaymentRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_1",
		Signature: clientSignature(order.OrderID, "pay_1"),
	})
	require.NoError(t, err)

	// Повторная покупка того же контакта - конфликт
	_, err = env.service.CreateOrder(ctx, a.ID, &dto.CreatePremiumOrderRequest{
		TargetUserID: b.ID,
		AccessType:   "phone",
	})
	assert.ErrorIs(t, err, apperrors.ErrAccessAlreadyPurchased)

	// Но другой тип доступа к тому же пользователю - новая покупка
	order2, err := env.service.CreateOrder(ctx, a.ID, &dto.CreatePremiumOrderRequest{
		TargetUserID: b.ID,
		AccessType:   "linkedin",
	})
	require.NoError(t, err)
	assert.Equal(t, 5.0, order2.Amount)
}

func TestPremiumCreateOrder_PendingPurchaseConflicts(t *testing.T) {
	env := newPremiumEnv(t)
	ctx := context.Background()

	a := seedUser(t, env.db, "a@corp.com")
	b := seedUser(t, env.db, "b@corp.com")
	seedMutualMatch(t, env.db, a.ID, b.ID)

	req := &dto.CreatePremiumOrderRequest{TargetUserID: b.ID, AccessType: "phone"}

	_, err := env.service.CreateOrder(ctx, a.ID, req)
	require.NoError(t, err)

	// Незакрытая pending-покупка блокирует повторный заказ
	_, err = env.service.CreateOrder(ctx, a.ID, req)
	assert.ErrorIs(t, err, apperrors.ErrPurchasePending)

	var count int64
	env.db.Model(&models.PremiumPurchase{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestPremiumCreateOrder_FailedPurchaseReused(t *testing.T) {
	env := newPremiumEnv(t)
	ctx := context.Background()

	a := seedUser(t, env.db, "a@corp.com")
	b := seedUser(t, env.db, "b@corp.com")
	seedMutualMatch(t, env.db, a.ID, b.ID)

	req := &dto.CreatePremiumOrderRequest{TargetUserID: b.ID, AccessType: "phone"}

	order1, err := env.service.CreateOrder(ctx, a.ID, req)
	require.NoError(t, err)

	repo := repositories.NewPremiumRepository(env.db)
	require.NoError(t, repo.FailPurchaseByOrderID(order1.OrderID, "BAD_REQUEST_ERROR", "card declined"))

	// failed-покупка получает новый заказ, строка не дублируется
	order2, err := env.service.CreateOrder(ctx, a.ID, req)
	require.NoError(t, err)
	assert.NotEqual(t, order1.OrderID, order2.OrderID)

	var count int64
	env.db.Model(&models.PremiumPurchase{}).Count(&count)
	assert.Equal(t, int64(1), count)

	found, err := repo.FindByOrderID(order2.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseStatusPending, found.Status)
	assert.Empty(t, found.ErrorCode)
}

func TestPremiumCreateOrder_GatewayFailureLeavesNoRow(t *testing.T) {
	env := newPremiumEnv(t)
	ctx := context.Background()

	a := seedUser(t, env.db, "a@corp.com")
	b := seedUser(t, env.db, "b@corp.com")
	c := seedUser(t, env.db, "c@corp.com")
	seedMutualMatch(t, env.db, a.ID, b.ID)
	seedMutualMatch(t, env.db, a.ID, c.ID)

	env.gateway.failOrders(true)
	_, err := env.service.CreateOrder(ctx, a.ID, &dto.CreatePremiumOrderRequest{
		TargetUserID: b.ID,
		AccessType:   "phone",
	})
	require.Error(t, err)

	// Ошибка шлюза не оставляет локальной записи
	var count int64
	env.db.Model(&models.PremiumPurchase{}).Count(&count)
	assert.Equal(t, int64(0), count)

	// И не блокирует последующие покупки
	env.gateway.failOrders(false)
	_, err = env.service.CreateOrder(ctx, a.ID, &dto.CreatePremiumOrderRequest{
		TargetUserID: c.ID,
		AccessType:   "phone",
	})
	require.NoError(t, err)
}

func TestPremiumVerifyPayment_ForeignPurchaseForbidden(t *testing.T) {
	env := newPremiumEnv(t)
	ctx := context.Background()

	a := seedUser(t, env.db, "a@corp.com")
	b := seedUser(t, env.db, "b@corp.com")
	c := seedUser(t, env.db, "c@corp.com")
	seedMutualMatch(t, env.db, a.ID, b.ID)

	order, err := env.service.CreateOrder(ctx, a.ID, &dto.CreatePremiumOrderRequest{
		TargetUserID: b.ID,
		AccessType:   "phone",
	})
	require.NoError(t, err)

	env.gateway.registerPayment("pay_1", order.OrderID, "captured")
	_, err = env.service.VerifyPayment(ctx, c.ID, &dto.VerifyPaymentRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_1",
		Signature: clientSignature(order.OrderID, "pay_1"),
	})
	assert.Error(t, err)
}
