package dto

import (
	"encoding/json"
	"time"

	"corpmatch_backend/internal/models"
)

// UserResponse - публичное представление пользователя.
// Контакты (phone, linkedin) не включаются - они отдаются
// только через premium доступ.
type UserResponse struct {
	ID                string    `json:"id"`
	Email             string    `json:"email,omitempty"`
	Name              string    `json:"name"`
	Age               *int      `json:"age,omitempty"`
	Gender            string    `json:"gender,omitempty"`
	LookingFor        string    `json:"looking_for,omitempty"`
	Company           string    `json:"company,omitempty"`
	Designation       string    `json:"designation,omitempty"`
	Bio               string    `json:"bio,omitempty"`
	Photos            []string  `json:"photos,omitempty"`
	IsProfileComplete bool      `json:"is_profile_complete"`
	PhoneVerified     bool      `json:"phone_verified"`
	CreatedAt         time.Time `json:"created_at"`
}

// UpdateProfileRequest - обновление профиля
type UpdateProfileRequest struct {
	Name        string   `json:"name,omitempty"`
	Age         *int     `json:"age,omitempty" binding:"omitempty,min=25,max=65"`
	Gender      string   `json:"gender,omitempty" binding:"omitempty,is-gender"`
	LookingFor  string   `json:"looking_for,omitempty" binding:"omitempty,is-looking-for"`
	Company     string   `json:"company,omitempty"`
	Designation string   `json:"designation,omitempty"`
	Bio         string   `json:"bio,omitempty" binding:"omitempty,max=1000"`
	Photos      []string `json:"photos,omitempty" binding:"omitempty,max=6,dive,url"`
}

// ContactResponse - контакт открытый через premium
type ContactResponse struct {
	TargetUserID string `json:"target_user_id"`
	AccessType   string `json:"access_type"`
	Value        string `json:"value"`
}

// ToUserResponse конвертирует модель в DTO
func ToUserResponse(user *models.User, includeEmail bool) *UserResponse {
	resp := &UserResponse{
		ID:                user.ID,
		Name:              user.Name,
		Age:               user.Age,
		Gender:            user.Gender,
		LookingFor:        user.LookingFor,
		Company:           user.Company,
		Designation:       user.Designation,
		Bio:               user.Bio,
		IsProfileComplete: user.IsProfileComplete,
		PhoneVerified:     user.PhoneVerified,
		CreatedAt:         user.CreatedAt,
	}
	if includeEmail {
		resp.Email = user.Email
	}
	if len(user.Photos) > 0 {
		var photos []string
		if err := json.Unmarshal(user.Photos, &photos); err == nil {
			resp.Photos = photos
		}
	}
	return resp
}
