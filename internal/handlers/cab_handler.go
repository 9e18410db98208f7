package handlers

import (
	"net/http"

	"corpmatch_backend/internal/services"
	"corpmatch_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type CabHandler struct {
	*BaseHandler
	cabService services.CabService
}

func NewCabHandler(base *BaseHandler, cabService services.CabService) *CabHandler {
	return &CabHandler{
		BaseHandler: base,
		cabService:  cabService,
	}
}

func (h *CabHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cabs := rg.Group("/cabs")
	{
		cabs.POST("/estimate", h.Estimate)
		cabs.POST("/bookings", h.CreateBooking)
		cabs.GET("/bookings", h.ListBookings)
		cabs.POST("/bookings/:id/cancel", h.CancelBooking)
	}
}

func (h *CabHandler) Estimate(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	var req dto.EstimateRideRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	estimate, err := h.cabService.EstimateRide(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, estimate)
}

func (h *CabHandler) CreateBooking(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBookingRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	booking, err := h.cabService.CreateBooking(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

func (h *CabHandler) ListBookings(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	bookings, err := h.cabService.ListBookings(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

func (h *CabHandler) CancelBooking(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.cabService.CancelBooking(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled"})
}
