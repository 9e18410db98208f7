package services

import (
	"encoding/json"

	"corpmatch_backend/internal/models"
	"corpmatch_backend/internal/repositories"
	"corpmatch_backend/internal/services/dto"
	"corpmatch_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

type ProfileService interface {
	GetProfile(userID string) (*dto.UserResponse, error)
	UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	DeactivateAccount(userID string) error
}

type ProfileServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewProfileService(userRepo repositories.UserRepository) ProfileService {
	return &ProfileServiceImpl{userRepo: userRepo}
}

func (s *ProfileServiceImpl) GetProfile(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.ToUserResponse(user, true), nil
}

// UpdateProfile обновляет только переданные поля.
// isProfileComplete пересчитывается после каждого обновления.
func (s *ProfileServiceImpl) UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Age != nil {
		user.Age = req.Age
	}
	if req.Gender != "" {
		user.Gender = req.Gender
	}
	if req.LookingFor != "" {
		user.LookingFor = req.LookingFor
	}
	if req.Company != "" {
		user.Company = req.Company
	}
	if req.Designation != "" {
		user.Designation = req.Designation
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.Photos != nil {
		data, err := json.Marshal(req.Photos)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		user.Photos = datatypes.JSON(data)
	}

	user.IsProfileComplete = isProfileComplete(user)

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.ToUserResponse(user, true), nil
}

func (s *ProfileServiceImpl) DeactivateAccount(userID string) error {
	if err := s.userRepo.Deactivate(userID); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return s.userRepo.DeleteUserRefreshTokens(userID)
}

// Профиль полон когда заполнены поля нужные для матчинга
func isProfileComplete(user *models.User) bool {
	return user.Name != "" &&
		user.Age != nil &&
		user.Gender != "" &&
		user.LookingFor != "" &&
		user.Company != "" &&
		len(user.Photos) > 0
}
