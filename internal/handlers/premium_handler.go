package handlers

import (
	"net/http"

	"corpmatch_backend/internal/models"
	"corpmatch_backend/internal/services"
	"corpmatch_backend/internal/services/dto"
	"corpmatch_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type PremiumHandler struct {
	*BaseHandler
	premiumService services.PremiumService
}

func NewPremiumHandler(base *BaseHandler, premiumService services.PremiumService) *PremiumHandler {
	return &PremiumHandler{
		BaseHandler:    base,
		premiumService: premiumService,
	}
}

func (h *PremiumHandler) RegisterRoutes(rg *gin.RouterGroup) {
	premium := rg.Group("/premium")
	{
		premium.POST("/order", h.CreateOrder)
		premium.POST("/verify-payment", h.VerifyPayment)
		premium.GET("/access/:userID/:type", h.CheckAccess)
		premium.GET("/purchases", h.ListPurchases)
	}
}

func (h *PremiumHandler) CreateOrder(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePremiumOrderRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	order, err := h.premiumService.CreateOrder(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *PremiumHandler) VerifyPayment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.VerifyPaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	purchase, err := h.premiumService.VerifyPayment(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, purchase)
}

func (h *PremiumHandler) CheckAccess(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	accessType := models.AccessType(c.Param("type"))
	if accessType != models.AccessTypePhone && accessType != models.AccessTypeLinkedin {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Unknown access type"))
		return
	}

	access, err := h.premiumService.CheckAccess(userID, c.Param("userID"), accessType)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, access)
}

func (h *PremiumHandler) ListPurchases(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	purchases, err := h.premiumService.ListPurchases(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"purchases": purchases,
		"count":     len(purchases),
	})
}
