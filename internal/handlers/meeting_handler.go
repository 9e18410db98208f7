package handlers

import (
	"net/http"

	"corpmatch_backend/internal/services"
	"corpmatch_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type MeetingHandler struct {
	*BaseHandler
	meetingService services.MeetingService
}

func NewMeetingHandler(base *BaseHandler, meetingService services.MeetingService) *MeetingHandler {
	return &MeetingHandler{
		BaseHandler:    base,
		meetingService: meetingService,
	}
}

func (h *MeetingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	meetings := rg.Group("/meetings")
	{
		meetings.POST("", h.Create)
		meetings.GET("", h.List)
		meetings.GET("/:id", h.Get)
		meetings.PATCH("/:id/status", h.UpdateStatus)

		// Оплата ужина проходит через платежный шлюз
		meetings.POST("/:id/order", h.CreateOrder)
		meetings.POST("/:id/verify-payment", h.VerifyPayment)
	}
}

func (h *MeetingHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateMeetingRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	meeting, err := h.meetingService.CreateMeeting(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, meeting)
}

func (h *MeetingHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	meetings, err := h.meetingService.ListMeetings(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"meetings": meetings,
		"count":    len(meetings),
	})
}

func (h *MeetingHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	meeting, err := h.meetingService.GetMeeting(userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, meeting)
}

func (h *MeetingHandler) UpdateStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateMeetingStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	meeting, err := h.meetingService.UpdateStatus(userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, meeting)
}

func (h *MeetingHandler) CreateOrder(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	order, err := h.meetingService.CreateOrder(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *MeetingHandler) VerifyPayment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.VerifyPaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	meeting, err := h.meetingService.VerifyPayment(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, meeting)
}
