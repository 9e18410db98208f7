package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"corpmatch_backend/internal/config"
	"corpmatch_backend/internal/logger"
	"corpmatch_backend/internal/models"
	"corpmatch_backend/internal/repositories"
	"corpmatch_backend/internal/services/dto"
	"corpmatch_backend/internal/services/payment"
	"corpmatch_backend/pkg/apperrors"
)

type PremiumService interface {
	CreateOrder(ctx context.Context, buyerID string, req *dto.CreatePremiumOrderRequest) (*dto.CreateOrderResponse, error)
	VerifyPayment(ctx context.Context, buyerID string, req *dto.VerifyPaymentRequest) (*dto.PremiumPurchaseResponse, error)
	CheckAccess(buyerID, targetUserID string, accessType models.AccessType) (*dto.CheckAccessResponse, error)
	ListPurchases(buyerID string) ([]*dto.PremiumPurchaseResponse, error)
}

type PremiumServiceImpl struct {
	premiumRepo repositories.PremiumRepository
	userRepo    repositories.UserRepository
	matchRepo   repositories.MatchRepository
	gateway     *payment.RazorpayService
	payments    *config.PaymentsConfig
}

func NewPremiumService(
	premiumRepo repositories.PremiumRepository,
	userRepo repositories.UserRepository,
	matchRepo repositories.MatchRepository,
	gateway *payment.RazorpayService,
	payments *config.PaymentsConfig,
) PremiumService {
	return &PremiumServiceImpl{
		premiumRepo: premiumRepo,
		userRepo:    userRepo,
		matchRepo:   matchRepo,
		gateway:     gateway,
		payments:    payments,
	}
}

func (s *PremiumServiceImpl) priceFor(accessType models.AccessType) float64 {
	if accessType == models.AccessTypeLinkedin {
		return s.payments.PremiumPriceLinkedin
	}
	return s.payments.PremiumPricePhone
}

// CreateOrder создает заказ на покупку контакта.
// Доступ покупается только к участнику взаимной пары.
// Завершенный или незакрытый pending-доступ - конфликт,
// failed-покупка переиспользуется с новым заказом.
// Локальная запись появляется только после успешного заказа в шлюзе.
func (s *PremiumServiceImpl) CreateOrder(ctx context.Context, buyerID string, req *dto.CreatePremiumOrderRequest) (*dto.CreateOrderResponse, error) {
	if buyerID == req.TargetUserID {
		return nil, apperrors.ErrInvalidOperation("premium", "cannot purchase access to own contact")
	}

	matched, err := s.matchRepo.AreMatched(buyerID, req.TargetUserID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !matched {
		return nil, apperrors.ErrUsersNotMatched
	}

	if _, err := s.userRepo.FindByID(req.TargetUserID); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	accessType := models.AccessType(req.AccessType)
	amount := s.priceFor(accessType)

	existing, err := s.premiumRepo.FindAccess(buyerID, req.TargetUserID, accessType)
	if err != nil && !apperrors.Is(err, repositories.ErrPurchaseNotFound) {
		return nil, apperrors.InternalError(err)
	}

	if existing != nil {
		switch existing.Status {
		case models.PurchaseStatusCompleted:
			return nil, apperrors.ErrAccessAlreadyPurchased
		case models.PurchaseStatusPending:
			return nil, apperrors.ErrPurchasePending
		}
	}

	purchaseID := uuid.NewString()
	if existing != nil {
		// failed: та же запись получает новый заказ
		purchaseID = existing.ID
	}

	receipt := fmt.Sprintf("premium_%s", purchaseID)
	order, err := s.gateway.CreateOrder(ctx, amount, receipt, map[string]string{
		"purchase_id": purchaseID,
		"access_type": string(accessType),
	})
	if err != nil {
		logger.PaymentLog("create_order", receipt, amount, err)
		return nil, err
	}

	if existing != nil {
		if err := s.premiumRepo.SetOrder(existing.ID, order.ID); err != nil {
			return nil, apperrors.InternalError(err)
		}
	} else {
		purchase := &models.PremiumPurchase{
			BaseModel:    models.BaseModel{ID: purchaseID},
			BuyerID:      buyerID,
			TargetUserID: req.TargetUserID,
			AccessType:   accessType,
			Amount:       amount,
			Currency:     s.payments.Currency,
			OrderID:      order.ID,
			Status:       models.PurchaseStatusPending,
		}
		if err := s.premiumRepo.Create(purchase); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	logger.PaymentLog("create_order", order.ID, amount, nil)
	return &dto.CreateOrderResponse{
		OrderID:  order.ID,
		Amount:   amount,
		Currency: s.payments.Currency,
		KeyID:    s.payments.GatewayKeyID,
	}, nil
}

// VerifyPayment проверяет подпись и capture, затем атомарно
// завершает покупку. Повторная верификация - конфликт.
func (s *PremiumServiceImpl) VerifyPayment(ctx context.Context, buyerID string, req *dto.VerifyPaymentRequest) (*dto.PremiumPurchaseResponse, error) {
	purchase, err := s.premiumRepo.FindByOrderID(req.OrderID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPurchaseNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if purchase.BuyerID != buyerID {
		return nil, apperrors.NewForbiddenError("purchase belongs to another user")
	}

	if !s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		logger.Warn("premium signature mismatch", "order_id", req.OrderID)
		return nil, apperrors.ErrInvalidPaymentSignature
	}

	pmt, err := s.gateway.FetchPayment(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}
	if !pmt.IsCaptured() {
		return nil, apperrors.ErrPaymentNotCaptured
	}

	completed, err := s.premiumRepo.CompletePurchase(purchase.ID, req.PaymentID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPurchaseNotPending) {
			return nil, apperrors.ErrPaymentAlreadyCompleted
		}
		return nil, apperrors.InternalError(err)
	}

	logger.PaymentLog("verify", req.OrderID, purchase.Amount, nil)
	return dto.ToPremiumPurchaseResponse(completed), nil
}

// CheckAccess возвращает контакт, если доступ куплен
func (s *PremiumServiceImpl) CheckAccess(buyerID, targetUserID string, accessType models.AccessType) (*dto.CheckAccessResponse, error) {
	purchase, err := s.premiumRepo.FindAccess(buyerID, targetUserID, accessType)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPurchaseNotFound) {
			return &dto.CheckAccessResponse{HasAccess: false}, nil
		}
		return nil, apperrors.InternalError(err)
	}
	if purchase.Status != models.PurchaseStatusCompleted {
		return &dto.CheckAccessResponse{HasAccess: false}, nil
	}

	target, err := s.userRepo.FindByID(targetUserID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	value := target.Phone
	if accessType == models.AccessTypeLinkedin {
		value = target.LinkedinURL
	}

	return &dto.CheckAccessResponse{HasAccess: true, Value: value}, nil
}

func (s *PremiumServiceImpl) ListPurchases(buyerID string) ([]*dto.PremiumPurchaseResponse, error) {
	purchases, err := s.premiumRepo.FindCompletedForBuyer(buyerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]*dto.PremiumPurchaseResponse, 0, len(purchases))
	for i := range purchases {
		result = append(result, dto.ToPremiumPurchaseResponse(&purchases[i]))
	}
	return result, nil
}
