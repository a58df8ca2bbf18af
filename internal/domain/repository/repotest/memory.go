// Package repotest provides in-memory repositories that honour the same contracts as the
// Postgres implementations: (user, slug, solvedAt) is unique and languages are a set.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"
	"tle_tracker/internal/common"
	"tle_tracker/internal/domain/model"
	"tle_tracker/internal/domain/repository"
)

type UserRepo struct {
	mu    sync.Mutex
	Users map[string]model.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{Users: map[string]model.User{}}
}

func (r *UserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.Users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepo) Upsert(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved, ok := r.Users[user.ID]
	if !ok {
		saved = model.User{ID: user.ID, CreatedAt: user.UpdatedAt}
	}
	if user.Email != nil {
		saved.Email = user.Email
	}
	saved.ProblemSourceUsername = user.ProblemSourceUsername
	saved.UpdatedAt = user.UpdatedAt
	r.Users[user.ID] = saved
	return &saved, nil
}

func (r *UserRepo) UpdateStats(_ context.Context, id string, stats model.UserStats, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.Users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.Stats = &stats
	u.UpdatedAt = at
	r.Users[id] = u
	return nil
}

type QuestionRepo struct {
	mu        sync.Mutex
	Questions map[string]model.Question
}

func NewQuestionRepo() *QuestionRepo {
	return &QuestionRepo{Questions: map[string]model.Question{}}
}

func (r *QuestionRepo) FindBySlug(_ context.Context, titleSlug string) (*model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.Questions[titleSlug]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &q, nil
}

func (r *QuestionRepo) FindBySlugs(ctx context.Context, titleSlugs []string) (map[string]*model.Question, error) {
	out := map[string]*model.Question{}
	for _, s := range titleSlugs {
		if q, err := r.FindBySlug(ctx, s); err == nil {
			out[s] = q
		}
	}
	return out, nil
}

func (r *QuestionRepo) RecordSolve(_ context.Context, s model.QuestionSolve) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.Questions[s.TitleSlug]
	if !ok {
		solved := s.SolvedAt
		q = model.Question{TitleSlug: s.TitleSlug, FirstSolvedAt: &solved, LastSolvedAt: &solved, CreatedAt: s.At}
	} else {
		if s.SolvedAt.Before(*q.FirstSolvedAt) {
			solved := s.SolvedAt
			q.FirstSolvedAt = &solved
		}
		if s.SolvedAt.After(*q.LastSolvedAt) {
			solved := s.SolvedAt
			q.LastSolvedAt = &solved
		}
	}
	q.Title = s.Title
	q.TotalSolves++
	q.Languages.Add(s.Language)
	if s.Metadata.QuestionNumber != nil {
		q.QuestionNumber = s.Metadata.QuestionNumber
	}
	if s.Metadata.Difficulty != nil {
		q.Difficulty = s.Metadata.Difficulty
	}
	if len(s.Metadata.TopicTags) > 0 {
		q.TopicTags = s.Metadata.TopicTags
	}
	if s.Metadata.QuestionLink != nil {
		q.QuestionLink = s.Metadata.QuestionLink
	}
	q.UpdatedAt = s.At
	r.Questions[s.TitleSlug] = q
	return nil
}

func (r *QuestionRepo) ApplyPatch(_ context.Context, titleSlug string, p model.QuestionPatch, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.Questions[titleSlug]
	if !ok {
		return nil
	}
	if p.QuestionNumber != nil {
		q.QuestionNumber = p.QuestionNumber
	}
	if p.Difficulty != nil {
		q.Difficulty = p.Difficulty
	}
	if p.TopicTags != nil {
		q.TopicTags = *p.TopicTags
	}
	if p.QuestionLink != nil {
		q.QuestionLink = p.QuestionLink
	}
	q.UpdatedAt = at
	r.Questions[titleSlug] = q
	return nil
}

type SubmissionRepo struct {
	mu   sync.Mutex
	Subs []model.Submission
}

func (r *SubmissionRepo) ExistsEvent(_ context.Context, userID, titleSlug string, solvedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.Subs {
		if s.UserID == userID && s.TitleSlug == titleSlug && s.Timestamp.Equal(solvedAt) {
			return true, nil
		}
	}
	return false, nil
}

func (r *SubmissionRepo) HasSolved(_ context.Context, userID, titleSlug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.Subs {
		if s.UserID == userID && s.TitleSlug == titleSlug {
			return true, nil
		}
	}
	return false, nil
}

func (r *SubmissionRepo) CompleteDueReminders(_ context.Context, userID, titleSlug string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.Subs {
		s := &r.Subs[i]
		if s.UserID == userID && s.TitleSlug == titleSlug && s.IsReminderDue(at) {
			completedAt := at
			s.ReminderCompleted = true
			s.CompletedAt = &completedAt
			n++
		}
	}
	return n, nil
}

func (r *SubmissionRepo) Create(_ context.Context, sub *model.Submission) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.Subs {
		if s.UserID == sub.UserID && s.TitleSlug == sub.TitleSlug && s.Timestamp.Equal(sub.Timestamp) {
			return false, nil
		}
	}
	r.Subs = append(r.Subs, *sub)
	return true, nil
}

func (r *SubmissionRepo) FindByID(_ context.Context, userID, id string) (*model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.Subs {
		if s.ID == id && s.UserID == userID {
			return &s, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *SubmissionRepo) List(_ context.Context, userID string, f model.SubmissionFilter) ([]model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byReminder := f.Mode == model.ModeReminders || f.PendingReminders
	field := func(s model.Submission) *time.Time {
		if byReminder {
			return s.ReminderDate
		}
		t := s.Timestamp
		return &t
	}

	out := []model.Submission{}
	for _, s := range r.Subs {
		if s.UserID != userID {
			continue
		}
		ts := field(s)
		if ts == nil {
			continue
		}
		if f.TitleSlug != "" && s.TitleSlug != f.TitleSlug {
			continue
		}
		if f.PendingReminders {
			if !s.IsReminderDue(f.TargetDate) {
				continue
			}
		} else {
			if f.StartDate != nil && ts.Before(*f.StartDate) {
				continue
			}
			if f.EndDate != nil && ts.After(*f.EndDate) {
				continue
			}
		}
		if f.NeedsMetadata {
			if s.SolveType != nil {
				continue
			}
		} else if f.SolveType != nil && (s.SolveType == nil || *s.SolveType != *f.SolveType) {
			continue
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if f.SortAscending {
			return field(out[i]).Before(*field(out[j]))
		}
		return field(out[i]).After(*field(out[j]))
	})
	return out, nil
}

func (r *SubmissionRepo) Update(_ context.Context, userID, id string, p model.SubmissionPatch) (*model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Subs {
		s := &r.Subs[i]
		if s.ID != id || s.UserID != userID {
			continue
		}
		if p.SolveType != nil {
			s.SolveType = p.SolveType
		}
		if p.Notes.Set {
			s.Notes = p.Notes.Ptr()
		}
		if p.ReminderDate.Set {
			s.ReminderDate = p.ReminderDate.Ptr()
		}
		if p.ReminderCompleted != nil {
			s.ReminderCompleted = *p.ReminderCompleted
		}
		if p.CompletedAt.Set {
			s.CompletedAt = p.CompletedAt.Ptr()
		}
		if p.QuestionLink != nil {
			s.QuestionLink = p.QuestionLink
		}
		if p.QuestionNumber != nil {
			s.QuestionNumber = p.QuestionNumber
		}
		if p.Difficulty != nil {
			s.Difficulty = p.Difficulty
		}
		if p.TopicTags != nil {
			s.TopicTags = *p.TopicTags
		}
		out := *s
		return &out, nil
	}
	return nil, common.ErrNotFound
}

// All returns a copy of every stored submission.
func (r *SubmissionRepo) All() []model.Submission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Submission(nil), r.Subs...)
}

// Seed stores sub as is, bypassing the uniqueness check.
func (r *SubmissionRepo) Seed(sub model.Submission) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Subs = append(r.Subs, sub)
}

var (
	_ repository.UserRepository       = (*UserRepo)(nil)
	_ repository.QuestionRepository   = (*QuestionRepo)(nil)
	_ repository.SubmissionRepository = (*SubmissionRepo)(nil)
)
