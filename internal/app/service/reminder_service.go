package service

import (
	"context"
	"time"
	"tle_tracker/internal/common"
	"tle_tracker/internal/domain/model"
)

type ReminderAction string

const (
	ReminderActionComplete   ReminderAction = "complete"
	ReminderActionReschedule ReminderAction = "reschedule"
	ReminderActionUndo       ReminderAction = "undo"
)

// ReminderService backs the simplified reminder endpoints. It is a thin layer over
// SubmissionService so scoping and reminder bookkeeping stay in one place.
type ReminderService struct {
	submissions *SubmissionService
	now         func() time.Time
}

func NewReminderService(submissions *SubmissionService) *ReminderService {
	return &ReminderService{submissions: submissions, now: time.Now}
}

// ReminderActionRequest is the PATCH body. newDate takes RFC 3339 or YYYY-MM-DD; "" counts as missing.
type ReminderActionRequest struct {
	ID      string           `json:"id" validate:"required"`
	Action  ReminderAction   `json:"action" validate:"required,oneof=complete reschedule undo"`
	NewDate *model.DateInput `json:"newDate,omitempty" validate:"required_if=Action reschedule"`
}

// ListDue returns open reminders due by the end of the current UTC day, earliest first.
func (s *ReminderService) ListDue(ctx context.Context, userID string) ([]model.Submission, error) {
	return s.submissions.List(ctx, userID, model.SubmissionFilter{
		PendingReminders: true,
		TargetDate:       endOfDay(s.now().UTC()),
		SortAscending:    true,
	})
}

func (s *ReminderService) Apply(ctx context.Context, userID string, req ReminderActionRequest) (*model.Submission, error) {
	if req.NewDate != nil && req.NewDate.IsZero() {
		req.NewDate = nil
	}
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	var patch model.SubmissionPatch
	switch req.Action {
	case ReminderActionComplete:
		done := true
		patch.ReminderCompleted = &done
	case ReminderActionUndo:
		done := false
		patch.ReminderCompleted = &done
	case ReminderActionReschedule:
		patch.ReminderDate = model.NullableOf(req.NewDate.Time().UTC())
	}
	return s.submissions.applyPatch(ctx, userID, req.ID, patch)
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Millisecond), t.Location())
}
