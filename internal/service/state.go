package service

import (
	"context"
	"time"

	"smartstudio/internal/domain"
	"smartstudio/internal/models"

	"github.com/rs/zerolog"
)

// SessionService loads and saves conversation drafts, creating a
// fresh idle session when none exists yet.
type SessionService struct {
	stateRepo domain.StateRepository
	logger    *zerolog.Logger
}

func NewSessionService(stateRepo domain.StateRepository, logger *zerolog.Logger) *SessionService {
	return &SessionService{
		stateRepo: stateRepo,
		logger:    logger,
	}
}

func (s *SessionService) GetSession(ctx context.Context, userID int64) (*models.Session, error) {
	session, err := s.stateRepo.GetSession(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to get session")
		return nil, err
	}
	if session == nil {
		session = models.NewSession(userID)
	}
	return session, nil
}

func (s *SessionService) SaveSession(ctx context.Context, session *models.Session) error {
	return s.stateRepo.SetSession(ctx, session)
}

func (s *SessionService) ClearSession(ctx context.Context, userID int64) error {
	return s.stateRepo.ClearSession(ctx, userID)
}

func (s *SessionService) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	return s.stateRepo.CheckRateLimit(ctx, userID, limit, window)
}
