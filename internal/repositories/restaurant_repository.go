package repositories

import (
	"errors"

	"corpmatch_backend/internal/models"

	"gorm.io/gorm"
)

var ErrRestaurantNotFound = errors.New("restaurant not found")

type RestaurantRepository interface {
	FindByID(id string) (*models.Restaurant, error)
	FindActive(city string, limit, offset int) ([]models.Restaurant, int64, error)
	Create(restaurant *models.Restaurant) error
	Update(restaurant *models.Restaurant) error
}

type RestaurantRepositoryImpl struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &RestaurantRepositoryImpl{db: db}
}

func (r *RestaurantRepositoryImpl) FindByID(id string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.First(&restaurant, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return &restaurant, nil
}

func (r *RestaurantRepositoryImpl) FindActive(city string, limit, offset int) ([]models.Restaurant, int64, error) {
	query := r.db.Model(&models.Restaurant{}).Where("is_active = ?", true)
	if city != "" {
		query = query.Where("city = ?", city)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var restaurants []models.Restaurant
	err := query.Order("rating DESC").Limit(limit).Offset(offset).Find(&restaurants).Error
	return restaurants, total, err
}

func (r *RestaurantRepositoryImpl) Create(restaurant *models.Restaurant) error {
	return r.db.Create(restaurant).Error
}

func (r *RestaurantRepositoryImpl) Update(restaurant *models.Restaurant) error {
	return r.db.Save(restaurant).Error
}
