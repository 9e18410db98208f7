package repositories

import (
	"errors"
	"time"

	"corpmatch_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrMatchExists   = errors.New("like already recorded")
)

type MatchRepository interface {
	FindByID(id string) (*models.Match, error)
	FindPair(userID, matchedUserID string) (*models.Match, error)
	Create(match *models.Match) error

	// RecordLike записывает лайк и, при взаимности, переводит обе
	// строки в accepted одной транзакцией. Возвращает (match, mutual).
	RecordLike(userID, likedUserID string) (*models.Match, bool, error)

	FindAcceptedForUser(userID string) ([]models.Match, error)
	FindLikedIDs(userID string) ([]string, error)
	AreMatched(userID, otherUserID string) (bool, error)
}

type MatchRepositoryImpl struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &MatchRepositoryImpl{db: db}
}

func (r *MatchRepositoryImpl) FindByID(id string) (*models.Match, error) {
	var match models.Match
	err := r.db.Preload("User").Preload("MatchedUser").First(&match, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *MatchRepositoryImpl) FindPair(userID, matchedUserID string) (*models.Match, error) {
	var match models.Match
	err := r.db.First(&match, "user_id = ? AND matched_user_id = ?", userID, matchedUserID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *MatchRepositoryImpl) Create(match *models.Match) error {
	return r.db.Create(match).Error
}

func (r *MatchRepositoryImpl) RecordLike(userID, likedUserID string) (*models.Match, bool, error) {
	var result *models.Match
	mutual := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Повторный лайк той же пары запрещен
		var existing models.Match
		err := tx.Where("user_id = ? AND matched_user_id = ?", userID, likedUserID).
			First(&existing).Error
		if err == nil {
			return ErrMatchExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		match := &models.Match{
			UserID:        userID,
			MatchedUserID: likedUserID,
			Status:        models.MatchStatusPending,
		}
		if err := tx.Create(match).Error; err != nil {
			return err
		}

		// Проверка взаимности: есть ли встречный лайк
		var reverse models.Match
		err = tx.Where("user_id = ? AND matched_user_id = ?", likedUserID, userID).
			First(&reverse).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			result = match
			return nil
		}
		if err != nil {
			return err
		}

		// Взаимный лайк: обе строки переходят в accepted атомарно
		now := time.Now()
		if err := tx.Model(&models.Match{}).
			Where("id IN ?", []string{match.ID, reverse.ID}).
			Updates(map[string]interface{}{
				"status":     models.MatchStatusAccepted,
				"matched_at": &now,
			}).Error; err != nil {
			return err
		}

		match.Status = models.MatchStatusAccepted
		match.MatchedAt = &now
		result = match
		mutual = true
		return nil
	})

	if err != nil {
		return nil, false, err
	}
	return result, mutual, nil
}

func (r *MatchRepositoryImpl) FindAcceptedForUser(userID string) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.Preload("User").Preload("MatchedUser").
		Where("user_id = ? AND status = ?", userID, models.MatchStatusAccepted).
		Order("matched_at DESC").
		Find(&matches).Error
	return matches, err
}

func (r *MatchRepositoryImpl) FindLikedIDs(userID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.Match{}).
		Where("user_id = ?", userID).
		Pluck("matched_user_id", &ids).Error
	return ids, err
}

func (r *MatchRepositoryImpl) AreMatched(userID, otherUserID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Match{}).
		Where("user_id = ? AND matched_user_id = ? AND status = ?",
			userID, otherUserID, models.MatchStatusAccepted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
