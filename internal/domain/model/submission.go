package model

import (
	"time"
)

type SolveType string

const (
	SolveTypeNew      SolveType = "new"
	SolveTypeRevision SolveType = "revision"
	SolveTypePractice SolveType = "practice"
	SolveTypeOld      SolveType = "old"
)

func (t SolveType) Valid() bool {
	switch t {
	case SolveTypeNew, SolveTypeRevision, SolveTypePractice, SolveTypeOld:
		return true
	}
	return false
}

// ReminderState is derived at read time; only the due date and the completed flag are stored.
type ReminderState string

const (
	ReminderNone      ReminderState = "none"
	ReminderPending   ReminderState = "pending"
	ReminderMissed    ReminderState = "missed"
	ReminderCompleted ReminderState = "completed"
)

// SubmissionStatusAccepted is the only upstream status the tracker records.
const SubmissionStatusAccepted = "Accepted"

// Submission is one accepted solve event of one user.
type Submission struct {
	ID                string             `json:"id" db:"id"`
	UserID            string             `json:"userId" db:"user_id"`
	TitleSlug         string             `json:"titleSlug" db:"title_slug"`
	Title             string             `json:"title" db:"title"`
	Timestamp         time.Time          `json:"timestamp" db:"solved_at"`
	Lang              string             `json:"lang" db:"lang"`
	SolveType         *SolveType         `json:"solveType" db:"solve_type"`
	Notes             *string            `json:"notes" db:"notes"`
	ReminderDate      *time.Time         `json:"reminderDate" db:"reminder_date"`
	ReminderCompleted bool               `json:"reminderCompleted" db:"reminder_completed"`
	CompletedAt       *time.Time         `json:"completedAt" db:"completed_at"`
	IsFirstSolve      bool               `json:"isFirstSolve" db:"is_first_solve"`
	Difficulty        *ProblemDifficulty `json:"difficulty,omitempty" db:"difficulty"`
	QuestionNumber    *int               `json:"questionNumber,omitempty" db:"question_number"`
	TopicTags         TopicTags          `json:"topicTags,omitempty" db:"topic_tags"`
	QuestionLink      *string            `json:"questionLink,omitempty" db:"question_link"`
	CreatedAt         time.Time          `json:"createdAt" db:"created_at"`

	ReminderStatus ReminderState `json:"reminderStatus,omitempty" db:"-"`
}

// ReminderStateAt classifies the reminder relative to now.
func (s *Submission) ReminderStateAt(now time.Time) ReminderState {
	switch {
	case s.ReminderDate == nil:
		return ReminderNone
	case s.ReminderCompleted:
		return ReminderCompleted
	case s.ReminderDate.Before(now):
		return ReminderMissed
	default:
		return ReminderPending
	}
}

// IsReminderDue reports reminderDate <= at and not completed.
func (s *Submission) IsReminderDue(at time.Time) bool {
	return s.ReminderDate != nil && !s.ReminderCompleted && !s.ReminderDate.After(at)
}

// MissingQuestionMetadata reports whether any denormalized question field is missing.
func (s *Submission) MissingQuestionMetadata() bool {
	return s.Difficulty == nil || s.QuestionNumber == nil || len(s.TopicTags) == 0
}

// FillMetadataFrom copies missing denormalized fields from the question cache entry.
// Fields already present on the submission win.
func (s *Submission) FillMetadataFrom(q *Question) {
	if q == nil {
		return
	}
	if s.Difficulty == nil && q.Difficulty != nil {
		d := *q.Difficulty
		s.Difficulty = &d
	}
	if s.QuestionNumber == nil && q.QuestionNumber != nil {
		n := *q.QuestionNumber
		s.QuestionNumber = &n
	}
	if len(s.TopicTags) == 0 && len(q.TopicTags) > 0 {
		s.TopicTags = append(TopicTags(nil), q.TopicTags...)
	}
	if s.QuestionLink == nil && q.QuestionLink != nil {
		l := *q.QuestionLink
		s.QuestionLink = &l
	}
}

// SubmissionPatch lists the user-editable fields. Nullable fields distinguish "clear" from "leave".
type SubmissionPatch struct {
	SolveType         *SolveType
	Notes             Nullable[string]
	ReminderDate      Nullable[time.Time]
	ReminderCompleted *bool
	CompletedAt       Nullable[time.Time]
	QuestionLink      *string
	QuestionNumber    *int
	Difficulty        *ProblemDifficulty
	TopicTags         *TopicTags
}

func (p SubmissionPatch) IsEmpty() bool {
	return p.SolveType == nil && !p.Notes.Set && !p.ReminderDate.Set && p.ReminderCompleted == nil &&
		!p.CompletedAt.Set && p.QuestionLink == nil && p.QuestionNumber == nil && p.Difficulty == nil && p.TopicTags == nil
}

// QuestionPatch extracts the part of the patch that corrects shared question metadata.
func (p SubmissionPatch) QuestionPatch() QuestionPatch {
	return QuestionPatch{
		QuestionNumber: p.QuestionNumber,
		Difficulty:     p.Difficulty,
		TopicTags:      p.TopicTags,
	}
}

type SubmissionListMode string

const (
	ModeSubmissions SubmissionListMode = "submissions"
	ModeReminders   SubmissionListMode = "reminders"
)

// SubmissionFilter selects a user's submissions. Bounds are inclusive.
type SubmissionFilter struct {
	StartDate        *time.Time
	EndDate          *time.Time
	SolveType        *SolveType // nil means "all"
	Mode             SubmissionListMode
	PendingReminders bool
	TargetDate       time.Time // upper bound for PendingReminders
	NeedsMetadata    bool      // classification unset; overrides SolveType
	TitleSlug        string
	SortAscending    bool
}
