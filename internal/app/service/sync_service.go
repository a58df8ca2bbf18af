package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"tle_tracker/internal/common"
	"tle_tracker/internal/domain/model"
	"tle_tracker/internal/domain/repository"
	"tle_tracker/internal/platform/problemsource"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SyncResult is returned by Synchronize. NewSubmissions is never nil.
type SyncResult struct {
	Message        string             `json:"message"`
	NewSubmissions []model.Submission `json:"newSubmissions"`
}

// SyncService reconciles a user's recent accepted solves from the problem source into the store.
type SyncService struct {
	userRepo       repository.UserRepository
	questionRepo   repository.QuestionRepository
	submissionRepo repository.SubmissionRepository
	source         problemsource.Source
	log            *zap.Logger
	now            func() time.Time
}

func NewSyncService(
	userRepo repository.UserRepository,
	questionRepo repository.QuestionRepository,
	submissionRepo repository.SubmissionRepository,
	source problemsource.Source,
	log *zap.Logger,
) *SyncService {
	return &SyncService{
		userRepo:       userRepo,
		questionRepo:   questionRepo,
		submissionRepo: submissionRepo,
		source:         source,
		log:            log.Named("sync"),
		now:            time.Now,
	}
}

// Synchronize pulls the latest batch for the user's linked account. Only the submissions fetch is
// fatal; stats and metadata lookups degrade to "unknown". Each event commits on its own, so a
// failure part way through leaves earlier events stored and later ones for the next run.
func (s *SyncService) Synchronize(ctx context.Context, userID string) (*SyncResult, error) {
	user, err := s.linkedUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	log := s.log.With(zap.String("user_id", userID), zap.String("username", user.ProblemSourceUsername))

	s.refreshStats(ctx, log, user)

	batch, err := s.source.RecentSubmissions(ctx, user.ProblemSourceUsername)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamFetchFailed, err)
	}

	accepted := make([]problemsource.RecentSubmission, 0, len(batch))
	for _, ev := range batch {
		if ev.Accepted() {
			accepted = append(accepted, ev)
		}
	}

	result := &SyncResult{NewSubmissions: []model.Submission{}}
	if len(accepted) == 0 {
		result.Message = "No new accepted submissions found"
		return result, nil
	}

	for _, ev := range accepted {
		sub, err := s.processEvent(ctx, log, userID, ev)
		if err != nil {
			return nil, err
		}
		if sub != nil {
			result.NewSubmissions = append(result.NewSubmissions, *sub)
		}
	}

	result.Message = fmt.Sprintf("Successfully synced %d new submissions", len(result.NewSubmissions))
	log.Info("sync finished", zap.Int("fetched", len(batch)), zap.Int("accepted", len(accepted)),
		zap.Int("new", len(result.NewSubmissions)))
	return result, nil
}

// processEvent records one accepted event. It returns nil when the event was already stored.
func (s *SyncService) processEvent(ctx context.Context, log *zap.Logger, userID string, ev problemsource.RecentSubmission) (*model.Submission, error) {
	solvedAt, ok := ev.Timestamp.Time()
	if !ok {
		log.Warn("skipping event with invalid timestamp", zap.String("title_slug", ev.TitleSlug))
		return nil, nil
	}

	exists, err := s.submissionRepo.ExistsEvent(ctx, userID, ev.TitleSlug, solvedAt)
	if err != nil {
		return nil, fmt.Errorf("check existing event: %w", err)
	}
	if exists {
		return nil, nil
	}

	meta := s.lookupMetadata(ctx, log, ev.TitleSlug)
	now := s.now().UTC()

	err = s.questionRepo.RecordSolve(ctx, model.QuestionSolve{
		TitleSlug: ev.TitleSlug,
		Title:     ev.Title,
		Language:  ev.Lang,
		SolvedAt:  solvedAt,
		Metadata:  meta,
		At:        now,
	})
	if err != nil {
		return nil, fmt.Errorf("record question solve: %w", err)
	}

	solvedBefore, err := s.submissionRepo.HasSolved(ctx, userID, ev.TitleSlug)
	if err != nil {
		return nil, fmt.Errorf("check first solve: %w", err)
	}

	if solvedBefore {
		n, err := s.submissionRepo.CompleteDueReminders(ctx, userID, ev.TitleSlug, solvedAt)
		if err != nil {
			return nil, fmt.Errorf("complete due reminders: %w", err)
		}
		if n > 0 {
			log.Info("resolved reminders by re-solve", zap.String("title_slug", ev.TitleSlug), zap.Int64("count", n))
		}
	}

	solveType := model.SolveTypeNew
	sub := &model.Submission{
		ID:             uuid.NewString(),
		UserID:         userID,
		TitleSlug:      ev.TitleSlug,
		Title:          ev.Title,
		Timestamp:      solvedAt,
		Lang:           ev.Lang,
		SolveType:      &solveType,
		IsFirstSolve:   !solvedBefore,
		Difficulty:     meta.Difficulty,
		QuestionNumber: meta.QuestionNumber,
		TopicTags:      meta.TopicTags,
		QuestionLink:   meta.QuestionLink,
		CreatedAt:      now,
	}

	inserted, err := s.submissionRepo.Create(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("insert submission: %w", err)
	}
	if !inserted {
		// A concurrent sync stored the same event first.
		return nil, nil
	}
	sub.ReminderStatus = sub.ReminderStateAt(now)
	return sub, nil
}

func (s *SyncService) linkedUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrMissingLinkedAccount
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.HasLinkedAccount() {
		return nil, common.ErrMissingLinkedAccount
	}
	return user, nil
}

func (s *SyncService) refreshStats(ctx context.Context, log *zap.Logger, user *model.User) {
	stats, err := s.source.SolvedStats(ctx, user.ProblemSourceUsername)
	if err != nil {
		log.Warn("stats fetch failed, continuing", zap.Error(err))
		return
	}
	now := s.now().UTC()
	stats.FetchedAt = now
	if err := s.userRepo.UpdateStats(ctx, user.ID, *stats, now); err != nil {
		log.Warn("stats update failed, continuing", zap.Error(err))
	}
}

func (s *SyncService) lookupMetadata(ctx context.Context, log *zap.Logger, titleSlug string) model.ProblemMetadata {
	meta, err := s.source.Question(ctx, titleSlug)
	if err != nil {
		log.Warn("metadata lookup failed", zap.String("title_slug", titleSlug), zap.Error(err))
		return model.ProblemMetadata{}
	}
	return *meta
}
