package services_test

import (
	"context"
	"testing"
	"time"

	"corpmatch_backend/internal/otp"
	"corpmatch_backend/internal/repositories"
	"corpmatch_backend/internal/services"
	"corpmatch_backend/internal/services/dto"
	"corpmatch_backend/pkg/apperrors"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPhoneService(t *testing.T, db *gorm.DB) (services.PhoneService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := otp.NewStoreWithClient(client, 5*time.Minute, 3)
	return services.NewPhoneService(repositories.NewUserRepository(db), store), mr
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+919876543210", services.NormalizePhone("+91 98765 43210"))
	assert.Equal(t, "+14155552671", services.NormalizePhone("+1 (415) 555-2671"))
	assert.Equal(t, "+914422334455", services.NormalizePhone("+91-44-2233-4455"))
}

func TestSendOTP_InvalidNumber(t *testing.T) {
	db := setupServiceDB(t)
	svc, _ := newPhoneService(t, db)
	a := seedUser(t, db, "a@corp.com")

	err := svc.SendOTP(context.Background(), a.ID, &dto.SendOTPRequest{Phone: "not-a-phone"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPhoneNumber)

	err = svc.SendOTP(context.Background(), a.ID, &dto.SendOTPRequest{Phone: "0123456"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPhoneNumber)
}

func TestSendOTP_PhoneTakenByAnotherUser(t *testing.T) {
	db := setupServiceDB(t)
	svc, _ := newPhoneService(t, db)

	a := seedUser(t, db, "a@corp.com")
	b := seedUser(t, db, "b@corp.com")
	require.NoError(t, db.Model(b).Update("phone", "+919876543210").Error)

	err := svc.SendOTP(context.Background(), a.ID, &dto.SendOTPRequest{Phone: "+91 98765 43210"})
	assert.ErrorIs(t, err, apperrors.ErrPhoneAlreadyRegistered)
}

func TestVerifyOTP_FullFlow(t *testing.T) {
	db := setupServiceDB(t)
	svc, mr := newPhoneService(t, db)
	ctx := context.Background()
	a := seedUser(t, db, "a@corp.com")

	require.NoError(t, svc.SendOTP(ctx, a.ID, &dto.SendOTPRequest{Phone: "+91 98765 43210"}))

	// Код доставляется по SMS, в тесте читаем его из хранилища
	code, err := mr.Get("otp:code:+919876543210")
	require.NoError(t, err)

	require.NoError(t, svc.VerifyOTP(ctx, a.ID, &dto.VerifyOTPRequest{
		Phone: "+919876543210",
		Code:  code,
	}))

	user, err := repositories.NewUserRepository(db).FindByID(a.ID)
	require.NoError(t, err)
	assert.True(t, user.PhoneVerified)
	assert.Equal(t, "+919876543210", user.Phone)
	assert.NotNil(t, user.PhoneVerifiedAt)
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	db := setupServiceDB(t)
	svc, mr := newPhoneService(t, db)
	ctx := context.Background()
	a := seedUser(t, db, "a@corp.com")

	require.NoError(t, svc.SendOTP(ctx, a.ID, &dto.SendOTPRequest{Phone: "+919876543210"}))

	code, err := mr.Get("otp:code:+919876543210")
	require.NoError(t, err)
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	err = svc.VerifyOTP(ctx, a.ID, &dto.VerifyOTPRequest{Phone: "+919876543210", Code: wrong})
	assert.Error(t, err)

	user, err := repositories.NewUserRepository(db).FindByID(a.ID)
	require.NoError(t, err)
	assert.False(t, user.PhoneVerified)
}
