package repositories

import (
	"errors"
	"time"

	"corpmatch_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPurchaseNotFound   = errors.New("premium purchase not found")
	ErrPurchaseNotPending = errors.New("premium purchase is not pending")
)

type PremiumRepository interface {
	FindByID(id string) (*models.PremiumPurchase, error)
	FindByOrderID(orderID string) (*models.PremiumPurchase, error)
	Create(purchase *models.PremiumPurchase) error
	FindAccess(buyerID, targetUserID string, accessType models.AccessType) (*models.PremiumPurchase, error)
	FindCompletedForBuyer(buyerID string) ([]models.PremiumPurchase, error)
	SetOrder(purchaseID, orderID string) error

	// CompletePurchase атомарно переводит покупку pending -> completed
	CompletePurchase(purchaseID, paymentID string) (*models.PremiumPurchase, error)
	FailPurchaseByOrderID(orderID, errorCode, errorDescription string) error
}

type PremiumRepositoryImpl struct {
	db *gorm.DB
}

func NewPremiumRepository(db *gorm.DB) PremiumRepository {
	return &PremiumRepositoryImpl{db: db}
}

func (r *PremiumRepositoryImpl) FindByID(id string) (*models.PremiumPurchase, error) {
	var purchase models.PremiumPurchase
	err := r.db.First(&purchase, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

func (r *PremiumRepositoryImpl) FindByOrderID(orderID string) (*models.PremiumPurchase, error) {
	var purchase models.PremiumPurchase
	err := r.db.First(&purchase, "order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

func (r *PremiumRepositoryImpl) Create(purchase *models.PremiumPurchase) error {
	return r.db.Create(purchase).Error
}

func (r *PremiumRepositoryImpl) FindAccess(buyerID, targetUserID string, accessType models.AccessType) (*models.PremiumPurchase, error) {
	var purchase models.PremiumPurchase
	err := r.db.First(&purchase,
		"buyer_id = ? AND target_user_id = ? AND access_type = ?",
		buyerID, targetUserID, accessType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

func (r *PremiumRepositoryImpl) FindCompletedForBuyer(buyerID string) ([]models.PremiumPurchase, error) {
	var purchases []models.PremiumPurchase
	err := r.db.Preload("TargetUser").
		Where("buyer_id = ? AND status = ?", buyerID, models.PurchaseStatusCompleted).
		Order("completed_at DESC").
		Find(&purchases).Error
	return purchases, err
}

// SetOrder привязывает новый gateway-заказ к покупке и возвращает ее в pending
func (r *PremiumRepositoryImpl) SetOrder(purchaseID, orderID string) error {
	result := r.db.Model(&models.PremiumPurchase{}).
		Where("id = ? AND status <> ?", purchaseID, models.PurchaseStatusCompleted).
		Updates(map[string]interface{}{
			"order_id":          orderID,
			"status":            models.PurchaseStatusPending,
			"error_code":        "",
			"error_description": "",
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPurchaseNotFound
	}
	return nil
}

func (r *PremiumRepositoryImpl) CompletePurchase(purchaseID, paymentID string) (*models.PremiumPurchase, error) {
	var purchase models.PremiumPurchase

	err := r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		// Условный update: повторная верификация того же платежа не проходит
		result := tx.Model(&models.PremiumPurchase{}).
			Where("id = ? AND status = ?", purchaseID, models.PurchaseStatusPending).
			Updates(map[string]interface{}{
				"status":       models.PurchaseStatusCompleted,
				"payment_id":   paymentID,
				"completed_at": &now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPurchaseNotPending
		}

		return tx.First(&purchase, "id = ?", purchaseID).Error
	})

	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// FailPurchaseByOrderID фиксирует отказ шлюза вместе с его кодом и описанием
func (r *PremiumRepositoryImpl) FailPurchaseByOrderID(orderID, errorCode, errorDescription string) error {
	return r.db.Model(&models.PremiumPurchase{}).
		Where("order_id = ? AND status = ?", orderID, models.PurchaseStatusPending).
		Updates(map[string]interface{}{
			"status":            models.PurchaseStatusFailed,
			"error_code":        errorCode,
			"error_description": errorDescription,
		}).Error
}
