package dto

import (
	"time"

	"corpmatch_backend/internal/models"
)

// LikeRequest - лайк пользователя
type LikeRequest struct {
	TargetUserID string `json:"target_user_id" binding:"required,uuid"`
}

// LikeResponse - результат лайка
type LikeResponse struct {
	MatchID string        `json:"match_id"`
	Status  string        `json:"status"`
	Mutual  bool          `json:"mutual"`
	Partner *UserResponse `json:"partner,omitempty"` // заполняется при взаимном лайке
}

// MatchResponse - взаимная пара
type MatchResponse struct {
	MatchID   string        `json:"match_id"`
	Partner   *UserResponse `json:"partner"`
	MatchedAt *time.Time    `json:"matched_at"`
}

// ToMatchResponse конвертирует match. partner - вторая сторона пары.
func ToMatchResponse(match *models.Match, partner *models.User) *MatchResponse {
	return &MatchResponse{
		MatchID:   match.ID,
		Partner:   ToUserResponse(partner, false),
		MatchedAt: match.MatchedAt,
	}
}
