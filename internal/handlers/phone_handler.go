package handlers

import (
	"net/http"

	"corpmatch_backend/internal/services"
	"corpmatch_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PhoneHandler struct {
	*BaseHandler
	phoneService services.PhoneService
}

func NewPhoneHandler(base *BaseHandler, phoneService services.PhoneService) *PhoneHandler {
	return &PhoneHandler{
		BaseHandler:  base,
		phoneService: phoneService,
	}
}

func (h *PhoneHandler) RegisterRoutes(rg *gin.RouterGroup) {
	phone := rg.Group("/phone")
	{
		phone.POST("/send-otp", h.SendOTP)
		phone.POST("/verify-otp", h.VerifyOTP)
	}
}

func (h *PhoneHandler) SendOTP(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SendOTPRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.phoneService.SendOTP(c.Request.Context(), userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

func (h *PhoneHandler) VerifyOTP(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.VerifyOTPRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.phoneService.VerifyOTP(c.Request.Context(), userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Phone number verified"})
}
