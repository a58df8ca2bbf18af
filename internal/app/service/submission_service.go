package service

import (
	"context"
	"fmt"
	"time"
	"tle_tracker/internal/common"
	"tle_tracker/internal/domain/model"
	"tle_tracker/internal/domain/repository"
	"tle_tracker/internal/platform/problemsource"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// metadataInvalidator is implemented by sources that keep a metadata cache.
type metadataInvalidator interface {
	Invalidate(ctx context.Context, titleSlug string) error
}

type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	questionRepo   repository.QuestionRepository
	source         problemsource.Source
	log            *zap.Logger
	now            func() time.Time
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	questionRepo repository.QuestionRepository,
	source problemsource.Source,
	log *zap.Logger,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		questionRepo:   questionRepo,
		source:         source,
		log:            log.Named("submissions"),
		now:            time.Now,
	}
}

// UpdateSubmissionRequest is the PATCH body. Absent fields are left untouched; notes and
// reminderDate are cleared by null or "". reminderDate also takes a bare YYYY-MM-DD.
type UpdateSubmissionRequest struct {
	ID                string                          `json:"id" validate:"required"`
	SolveType         *model.SolveType                `json:"solveType,omitempty" validate:"omitempty,oneof=new revision practice old"`
	Notes             model.Nullable[string]          `json:"notes"`
	ReminderDate      model.Nullable[model.DateInput] `json:"reminderDate"`
	ReminderCompleted *bool                           `json:"reminderCompleted,omitempty"`
	QuestionLink      *string                         `json:"questionLink,omitempty" validate:"omitempty,url"`
	QuestionNumber    *int                            `json:"questionNumber,omitempty" validate:"omitempty,gt=0"`
	Difficulty        *model.ProblemDifficulty        `json:"difficulty,omitempty" validate:"omitempty,oneof=Easy Medium Hard"`
	TopicTags         *model.TopicTags                `json:"topicTags,omitempty"`
}

func (r UpdateSubmissionRequest) Patch() model.SubmissionPatch {
	notes := r.Notes
	if notes.Valid && notes.Value == "" {
		notes = model.NullOf[string]()
	}
	reminder := model.Nullable[time.Time]{Set: r.ReminderDate.Set}
	if r.ReminderDate.Valid && !r.ReminderDate.Value.IsZero() {
		reminder = model.NullableOf(r.ReminderDate.Value.Time().UTC())
	}

	return model.SubmissionPatch{
		SolveType:         r.SolveType,
		Notes:             notes,
		ReminderDate:      reminder,
		ReminderCompleted: r.ReminderCompleted,
		QuestionLink:      r.QuestionLink,
		QuestionNumber:    r.QuestionNumber,
		Difficulty:        r.Difficulty,
		TopicTags:         r.TopicTags,
	}
}

// List returns the user's submissions for the filter, newest first unless the filter asks
// otherwise. Missing question fields are filled from the question cache in the returned
// values only.
func (s *SubmissionService) List(ctx context.Context, userID string, filter model.SubmissionFilter) ([]model.Submission, error) {
	now := s.now().UTC()
	if filter.PendingReminders && filter.TargetDate.IsZero() {
		filter.TargetDate = now
	}

	subs, err := s.submissionRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	if err := s.enrich(ctx, subs, now); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *SubmissionService) Get(ctx context.Context, userID, id string) (*model.Submission, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrNotFound
	}
	sub, err := s.submissionRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.enrichOne(ctx, sub)
}

// Update applies a user edit. Question number, difficulty and tags are also written back to the
// shared question cache.
func (s *SubmissionService) Update(ctx context.Context, userID string, req UpdateSubmissionRequest) (*model.Submission, error) {
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}
	return s.applyPatch(ctx, userID, req.ID, req.Patch())
}

// RefreshMetadata re-fetches the problem's metadata from the source, bypassing the metadata
// cache, and writes it to both the submission and the question cache.
func (s *SubmissionService) RefreshMetadata(ctx context.Context, userID, id string) (*model.Submission, error) {
	current, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if inv, ok := s.source.(metadataInvalidator); ok {
		if err := inv.Invalidate(ctx, current.TitleSlug); err != nil {
			s.log.Warn("metadata cache invalidate failed", zap.String("title_slug", current.TitleSlug), zap.Error(err))
		}
	}

	meta, err := s.source.Question(ctx, current.TitleSlug)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamFetchFailed, err)
	}

	patch := model.SubmissionPatch{
		QuestionNumber: meta.QuestionNumber,
		Difficulty:     meta.Difficulty,
		QuestionLink:   meta.QuestionLink,
	}
	if len(meta.TopicTags) > 0 {
		tags := meta.TopicTags
		patch.TopicTags = &tags
	}
	if patch.IsEmpty() {
		return current, nil
	}

	updated, err := s.applyPatch(ctx, userID, id, patch)
	if err != nil {
		return nil, err
	}
	if meta.QuestionLink != nil {
		if err := s.questionRepo.ApplyPatch(ctx, current.TitleSlug, model.QuestionPatch{QuestionLink: meta.QuestionLink}, s.now().UTC()); err != nil {
			return nil, fmt.Errorf("failed to update question link: %w", err)
		}
	}
	return updated, nil
}

func (s *SubmissionService) applyPatch(ctx context.Context, userID, id string, patch model.SubmissionPatch) (*model.Submission, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrNotFound
	}
	current, err := s.submissionRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	resolveReminderFields(current, &patch, now)

	updated, err := s.submissionRepo.Update(ctx, userID, id, patch)
	if err != nil {
		return nil, err
	}

	if qp := patch.QuestionPatch(); !qp.IsEmpty() {
		if err := s.questionRepo.ApplyPatch(ctx, updated.TitleSlug, qp, now); err != nil {
			return nil, fmt.Errorf("failed to propagate question metadata: %w", err)
		}
	}
	return s.enrichOne(ctx, updated)
}

// resolveReminderFields keeps completedAt consistent with the reminder edits in patch:
// clearing the due date resets completion, completing stamps now, undoing clears the stamp.
func resolveReminderFields(current *model.Submission, patch *model.SubmissionPatch, now time.Time) {
	if patch.ReminderDate.Set && !patch.ReminderDate.Valid {
		done := false
		patch.ReminderCompleted = &done
		patch.CompletedAt = model.NullOf[time.Time]()
		return
	}
	if patch.ReminderCompleted == nil || patch.CompletedAt.Set {
		return
	}
	switch {
	case *patch.ReminderCompleted && !current.ReminderCompleted:
		patch.CompletedAt = model.NullableOf(now)
	case !*patch.ReminderCompleted:
		patch.CompletedAt = model.NullOf[time.Time]()
	}
}

func (s *SubmissionService) enrichOne(ctx context.Context, sub *model.Submission) (*model.Submission, error) {
	subs := []model.Submission{*sub}
	if err := s.enrich(ctx, subs, s.now().UTC()); err != nil {
		return nil, err
	}
	return &subs[0], nil
}

// enrich fills missing question fields from the cache and computes the reminder status.
func (s *SubmissionService) enrich(ctx context.Context, subs []model.Submission, now time.Time) error {
	seen := map[string]bool{}
	var slugs []string
	for i := range subs {
		if subs[i].MissingQuestionMetadata() && !seen[subs[i].TitleSlug] {
			seen[subs[i].TitleSlug] = true
			slugs = append(slugs, subs[i].TitleSlug)
		}
	}

	var questions map[string]*model.Question
	if len(slugs) > 0 {
		var err error
		questions, err = s.questionRepo.FindBySlugs(ctx, slugs)
		if err != nil {
			return fmt.Errorf("failed to load question metadata: %w", err)
		}
	}

	for i := range subs {
		if q, ok := questions[subs[i].TitleSlug]; ok {
			subs[i].FillMetadataFrom(q)
		}
		subs[i].ReminderStatus = subs[i].ReminderStateAt(now)
	}
	return nil
}
