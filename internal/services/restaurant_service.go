package services

import (
	"corpmatch_backend/internal/repositories"
	"corpmatch_backend/internal/services/dto"
	"corpmatch_backend/pkg/apperrors"
)

type RestaurantService interface {
	ListRestaurants(city string, limit, offset int) ([]*dto.RestaurantResponse, int64, error)
	GetRestaurant(id string) (*dto.RestaurantResponse, error)
}

type RestaurantServiceImpl struct {
	restaurantRepo repositories.RestaurantRepository
}

func NewRestaurantService(restaurantRepo repositories.RestaurantRepository) RestaurantService {
	return &RestaurantServiceImpl{restaurantRepo: restaurantRepo}
}

func (s *RestaurantServiceImpl) ListRestaurants(city string, limit, offset int) ([]*dto.RestaurantResponse, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	restaurants, total, err := s.restaurantRepo.FindActive(city, limit, offset)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	result := make([]*dto.RestaurantResponse, 0, len(restaurants))
	for i := range restaurants {
		result = append(result, dto.ToRestaurantResponse(&restaurants[i]))
	}
	return result, total, nil
}

func (s *RestaurantServiceImpl) GetRestaurant(id string) (*dto.RestaurantResponse, error) {
	restaurant, err := s.restaurantRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRestaurantNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.ToRestaurantResponse(restaurant), nil
}
