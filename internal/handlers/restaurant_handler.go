package handlers

import (
	"net/http"

	"corpmatch_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type RestaurantHandler struct {
	*BaseHandler
	restaurantService services.RestaurantService
}

func NewRestaurantHandler(base *BaseHandler, restaurantService services.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{
		BaseHandler:       base,
		restaurantService: restaurantService,
	}
}

func (h *RestaurantHandler) RegisterRoutes(rg *gin.RouterGroup) {
	restaurants := rg.Group("/restaurants")
	{
		restaurants.GET("", h.List)
		restaurants.GET("/:id", h.Get)
	}
}

func (h *RestaurantHandler) List(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	offset := (page - 1) * pageSize

	restaurants, total, err := h.restaurantService.ListRestaurants(c.Query("city"), pageSize, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurants": restaurants,
		"total":       total,
		"page":        page,
	})
}

func (h *RestaurantHandler) Get(c *gin.Context) {
	restaurant, err := h.restaurantService.GetRestaurant(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, restaurant)
}
