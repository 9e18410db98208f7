package handlers

import (
	"io"
	"net/http"

	"corpmatch_backend/internal/logger"
	"corpmatch_backend/internal/services"
	"corpmatch_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	*BaseHandler
	webhookService services.WebhookService
}

func NewWebhookHandler(base *BaseHandler, webhookService services.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		BaseHandler:    base,
		webhookService: webhookService,
	}
}

// RegisterRoutes — вебхуки платежного шлюза, без AuthMiddleware:
// подлинность запроса подтверждает подпись тела, а не JWT
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	webhooks := rg.Group("/webhooks")
	{
		webhooks.POST("/payments", h.HandlePaymentWebhook)
	}
}

func (h *WebhookHandler) HandlePaymentWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	// Подпись считается по сырому телу, поэтому ShouldBind здесь не подходит
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logger.CtxError(ctx, "Failed to read webhook body", err)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Cannot read request body"))
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if signature == "" {
		logger.CtxWarn(ctx, "Webhook request without signature header", "ip", c.ClientIP())
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Missing webhook signature"))
		return
	}

	if err := h.webhookService.HandleWebhook(body, signature); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
