package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"tle_tracker/internal/common"
	"tle_tracker/internal/domain/model"
	"tle_tracker/internal/domain/repository"
	"tle_tracker/internal/platform/problemsource"

	"go.uber.org/zap"
)

type UserService struct {
	userRepo repository.UserRepository
	source   problemsource.Source
	log      *zap.Logger
	now      func() time.Time
}

func NewUserService(userRepo repository.UserRepository, source problemsource.Source, log *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, source: source, log: log.Named("users"), now: time.Now}
}

type LinkAccountRequest struct {
	ProblemSourceUsername string `json:"problemSourceUsername" validate:"required,max=64"`
}

type UserProfile struct {
	Exists                bool             `json:"exists"`
	ProblemSourceUsername string           `json:"problemSourceUsername,omitempty"`
	Stats                 *model.UserStats `json:"stats,omitempty"`
}

func (s *UserService) Profile(ctx context.Context, userID string) (*UserProfile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return &UserProfile{Exists: false}, nil
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &UserProfile{
		Exists:                true,
		ProblemSourceUsername: user.ProblemSourceUsername,
		Stats:                 user.Stats,
	}, nil
}

// Link records the caller's problem-source username. email may be nil when the token has none.
func (s *UserService) Link(ctx context.Context, userID string, email *string, req LinkAccountRequest) (*model.User, error) {
	req.ProblemSourceUsername = strings.TrimSpace(req.ProblemSourceUsername)
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}
	user, err := s.userRepo.Upsert(ctx, &model.User{
		ID:                    userID,
		Email:                 email,
		ProblemSourceUsername: req.ProblemSourceUsername,
		UpdatedAt:             s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to link account: %w", err)
	}
	s.log.Info("linked problem source account", zap.String("user_id", userID), zap.String("username", user.ProblemSourceUsername))
	return user, nil
}

// RefreshStats fetches lifetime stats on demand. Unlike the sync path, failures are reported.
func (s *UserService) RefreshStats(ctx context.Context, userID string) (*model.UserStats, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.HasLinkedAccount() {
		return nil, common.ErrMissingLinkedAccount
	}

	stats, err := s.source.SolvedStats(ctx, user.ProblemSourceUsername)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamFetchFailed, err)
	}
	now := s.now().UTC()
	stats.FetchedAt = now
	if err := s.userRepo.UpdateStats(ctx, userID, *stats, now); err != nil {
		return nil, fmt.Errorf("failed to store stats: %w", err)
	}
	return stats, nil
}
