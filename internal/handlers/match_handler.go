package handlers

import (
	"net/http"

	"corpmatch_backend/internal/services"
	"corpmatch_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	*BaseHandler
	matchService services.MatchService
}

func NewMatchHandler(base *BaseHandler, matchService services.MatchService) *MatchHandler {
	return &MatchHandler{
		BaseHandler:  base,
		matchService: matchService,
	}
}

func (h *MatchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	matches := rg.Group("/matches")
	{
		matches.GET("/potential", h.ListPotential)
		matches.POST("/like", h.Like)
		matches.GET("", h.ListMatches)
	}
}

// ListPotential возвращает ленту кандидатов для свайпа
func (h *MatchHandler) ListPotential(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	candidates, err := h.matchService.ListPotentialMatches(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"candidates": candidates,
		"count":      len(candidates),
	})
}

func (h *MatchHandler) Like(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.LikeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.matchService.RecordLike(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *MatchHandler) ListMatches(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	matches, err := h.matchService.ListAcceptedMatches(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"matches": matches,
		"count":   len(matches),
	})
}
