package services

import (
	"corpmatch_backend/internal/logger"
	"corpmatch_backend/internal/repositories"
	"corpmatch_backend/internal/services/dto"
	"corpmatch_backend/pkg/apperrors"
)

const potentialMatchesLimit = 20

type MatchService interface {
	RecordLike(userID string, req *dto.LikeRequest) (*dto.LikeResponse, error)
	ListPotentialMatches(userID string) ([]*dto.UserResponse, error)
	ListAcceptedMatches(userID string) ([]*dto.MatchResponse, error)
}

type MatchServiceImpl struct {
	matchRepo repositories.MatchRepository
	userRepo  repositories.UserRepository
	notifRepo repositories.NotificationRepository
	publisher Publisher
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
	publisher Publisher,
) MatchService {
	return &MatchServiceImpl{
		matchRepo: matchRepo,
		userRepo:  userRepo,
		notifRepo: notifRepo,
		publisher: publisher,
	}
}

// RecordLike записывает лайк. При взаимности обе записи становятся
// accepted и обе стороны получают уведомление.
func (s *MatchServiceImpl) RecordLike(userID string, req *dto.LikeRequest) (*dto.LikeResponse, error) {
	if userID == req.TargetUserID {
		return nil, apperrors.ErrCannotLikeSelf
	}

	target, err := s.userRepo.FindByID(req.TargetUserID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	match, mutual, err := s.matchRepo.RecordLike(userID, req.TargetUserID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrMatchExists) {
			return nil, apperrors.ErrLikeAlreadyRecorded
		}
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.LikeResponse{
		MatchID: match.ID,
		Status:  string(match.Status),
		Mutual:  mutual,
	}

	if mutual {
		resp.Partner = dto.ToUserResponse(target, false)
		s.notifyMutualMatch(userID, req.TargetUserID, match.ID)
		logger.Info("mutual match", "match_id", match.ID)
	}

	return resp, nil
}

// notifyMutualMatch шлет уведомление обеим сторонам пары
func (s *MatchServiceImpl) notifyMutualMatch(userID, targetID, matchID string) {
	user, errU := s.userRepo.FindByID(userID)
	target, errT := s.userRepo.FindByID(targetID)
	if errU != nil || errT != nil {
		logger.Warn("failed to load users for match notification", "match_id", matchID)
		return
	}

	if err := s.notifRepo.CreateNewMatchNotification(userID, matchID, target.Name); err != nil {
		logger.WithError(err).Warn("failed to create match notification")
	}
	if err := s.notifRepo.CreateNewMatchNotification(targetID, matchID, user.Name); err != nil {
		logger.WithError(err).Warn("failed to create match notification")
	}

	s.publisher.Publish(userID, "match.new", map[string]string{"match_id": matchID, "partner_name": target.Name})
	s.publisher.Publish(targetID, "match.new", map[string]string{"match_id": matchID, "partner_name": user.Name})
}

// ListPotentialMatches возвращает кандидатов для свайпа
func (s *MatchServiceImpl) ListPotentialMatches(userID string) ([]*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	likedIDs, err := s.matchRepo.FindLikedIDs(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	candidates, err := s.userRepo.FindPotentialMatches(user, likedIDs, potentialMatchesLimit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]*dto.UserResponse, 0, len(candidates))
	for i := range candidates {
		result = append(result, dto.ToUserResponse(&candidates[i], false))
	}
	return result, nil
}

// ListAcceptedMatches возвращает взаимные пары пользователя
func (s *MatchServiceImpl) ListAcceptedMatches(userID string) ([]*dto.MatchResponse, error) {
	matches, err := s.matchRepo.FindAcceptedForUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]*dto.MatchResponse, 0, len(matches))
	for i := range matches {
		if matches[i].MatchedUser == nil {
			continue
		}
		result = append(result, dto.ToMatchResponse(&matches[i], matches[i].MatchedUser))
	}
	return result, nil
}
