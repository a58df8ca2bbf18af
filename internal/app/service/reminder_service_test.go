package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"
	"tle_tracker/internal/common"
	"tle_tracker/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminders_ListDueThroughEndOfDay(t *testing.T) {
	h := newHarness(t)
	past := seedSubmission(h, "u1", "a", testNow.Add(-96*time.Hour), func(s *model.Submission) { s.ReminderDate = ptr(testNow.Add(-48 * time.Hour)) })
	tonight := seedSubmission(h, "u1", "b", testNow.Add(-96*time.Hour), func(s *model.Submission) { s.ReminderDate = ptr(testNow.Add(6 * time.Hour)) })
	seedSubmission(h, "u1", "c", testNow.Add(-96*time.Hour), func(s *model.Submission) { s.ReminderDate = ptr(testNow.Add(36 * time.Hour)) })
	seedSubmission(h, "u2", "d", testNow.Add(-96*time.Hour), func(s *model.Submission) { s.ReminderDate = ptr(testNow.Add(-time.Hour)) })

	due, err := h.reminders.ListDue(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, past.ID, due[0].ID)
	assert.Equal(t, tonight.ID, due[1].ID)
	assert.Equal(t, model.ReminderMissed, due[0].ReminderStatus)
	assert.Equal(t, model.ReminderPending, due[1].ReminderStatus)
}

func TestReminders_Actions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sub := seedSubmission(h, "u1", "a", testNow.Add(-96*time.Hour), func(s *model.Submission) { s.ReminderDate = ptr(testNow.Add(-time.Hour)) })

	done, err := h.reminders.Apply(ctx, "u1", ReminderActionRequest{ID: sub.ID, Action: ReminderActionComplete})
	require.NoError(t, err)
	assert.True(t, done.ReminderCompleted)
	assert.Equal(t, testNow, *done.CompletedAt)

	newDate := testNow.Add(72 * time.Hour)
	moved, err := h.reminders.Apply(ctx, "u1", ReminderActionRequest{ID: sub.ID, Action: ReminderActionReschedule, NewDate: ptr(model.DateInputOf(newDate))})
	require.NoError(t, err)
	assert.Equal(t, newDate, *moved.ReminderDate)
	assert.True(t, moved.ReminderCompleted)

	undone, err := h.reminders.Apply(ctx, "u1", ReminderActionRequest{ID: sub.ID, Action: ReminderActionUndo})
	require.NoError(t, err)
	assert.False(t, undone.ReminderCompleted)
	assert.Nil(t, undone.CompletedAt)
	assert.Equal(t, model.ReminderPending, undone.ReminderStatus)
}

func TestReminders_ActionValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sub := seedSubmission(h, "u1", "a", testNow, nil)

	_, err := h.reminders.Apply(ctx, "u1", ReminderActionRequest{ID: sub.ID, Action: ReminderActionReschedule})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = h.reminders.Apply(ctx, "u1", ReminderActionRequest{ID: sub.ID, Action: "snooze"})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = h.reminders.Apply(ctx, "u2", ReminderActionRequest{ID: sub.ID, Action: ReminderActionComplete})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestReminders_RescheduleDateFormsFromJSON(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	sub := seedSubmission(h, "u1", "a", testNow.Add(-96*time.Hour), func(s *model.Submission) { s.ReminderDate = ptr(testNow.Add(-time.Hour)) })

	decodeReq := func(newDate string) ReminderActionRequest {
		var req ReminderActionRequest
		require.NoError(t, json.Unmarshal([]byte(`{"id":"`+sub.ID+`","action":"reschedule","newDate":`+newDate+`}`), &req))
		return req
	}

	moved, err := h.reminders.Apply(ctx, "u1", decodeReq(`"2023-11-27"`))
	require.NoError(t, err)
	assert.True(t, time.Date(2023, 11, 27, 0, 0, 0, 0, time.UTC).Equal(*moved.ReminderDate))
	assert.Equal(t, model.ReminderPending, moved.ReminderStatus)

	moved, err = h.reminders.Apply(ctx, "u1", decodeReq(`"2023-11-28T15:00:00Z"`))
	require.NoError(t, err)
	assert.True(t, time.Date(2023, 11, 28, 15, 0, 0, 0, time.UTC).Equal(*moved.ReminderDate))

	_, err = h.reminders.Apply(ctx, "u1", decodeReq(`""`))
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = h.reminders.Apply(ctx, "u1", decodeReq(`null`))
	assert.ErrorIs(t, err, common.ErrValidation)
}
