package services

import (
	"context"
	"regexp"
	"strings"

	"corpmatch_backend/internal/logger"
	"corpmatch_backend/internal/otp"
	"corpmatch_backend/internal/repositories"
	"corpmatch_backend/internal/services/dto"
	"corpmatch_backend/pkg/apperrors"
)

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

type PhoneService interface {
	SendOTP(ctx context.Context, userID string, req *dto.SendOTPRequest) error
	VerifyOTP(ctx context.Context, userID string, req *dto.VerifyOTPRequest) error
}

type PhoneServiceImpl struct {
	userRepo repositories.UserRepository
	otpStore *otp.Store
}

func NewPhoneService(userRepo repositories.UserRepository, otpStore *otp.Store) PhoneService {
	return &PhoneServiceImpl{userRepo: userRepo, otpStore: otpStore}
}

// NormalizePhone убирает пробелы, дефисы и скобки
func NormalizePhone(raw string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	return replacer.Replace(raw)
}

// SendOTP отправляет код верификации на номер.
// Номер должен быть валидным E.164 и не занят другим пользователем.
func (s *PhoneServiceImpl) SendOTP(ctx context.Context, userID string, req *dto.SendOTPRequest) error {
	phone := NormalizePhone(req.Phone)
	if !phonePattern.MatchString(phone) {
		return apperrors.ErrInvalidPhoneNumber
	}

	existing, err := s.userRepo.FindByPhone(phone)
	if err != nil && !apperrors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.InternalError(err)
	}
	if existing != nil && existing.ID != userID {
		return apperrors.ErrPhoneAlreadyRegistered
	}

	code, err := s.otpStore.GenerateCode(ctx, phone)
	if err != nil {
		return apperrors.InternalError(err)
	}

	// Доставка кода через SMS-провайдера за рамками этого сервиса,
	// код пишется в лог только в debug
	logger.Debug("otp generated", "phone", phone, "code", code)
	return nil
}

// VerifyOTP проверяет код и помечает телефон подтвержденным
func (s *PhoneServiceImpl) VerifyOTP(ctx context.Context, userID string, req *dto.VerifyOTPRequest) error {
	phone := NormalizePhone(req.Phone)
	if !phonePattern.MatchString(phone) {
		return apperrors.ErrInvalidPhoneNumber
	}

	if err := s.otpStore.VerifyCode(ctx, phone, req.Code); err != nil {
		switch {
		case apperrors.Is(err, otp.ErrTooManyAttempts):
			return apperrors.ErrOTPInvalid.WithDetails("too many attempts")
		case apperrors.Is(err, otp.ErrCodeNotFound), apperrors.Is(err, otp.ErrCodeMismatch):
			return apperrors.ErrOTPInvalid
		default:
			return apperrors.InternalError(err)
		}
	}

	if err := s.userRepo.MarkPhoneVerified(userID, phone); err != nil {
		return apperrors.InternalError(err)
	}

	logger.Info("phone verified", "user_id", userID)
	return nil
}
