package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestSubmission_ReminderStateAt(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		sub  Submission
		want ReminderState
	}{
		{"no reminder", Submission{}, ReminderNone},
		{"due in future", Submission{ReminderDate: ptr(now.Add(24 * time.Hour))}, ReminderPending},
		{"due exactly now", Submission{ReminderDate: ptr(now)}, ReminderPending},
		{"past and open", Submission{ReminderDate: ptr(now.Add(-time.Hour))}, ReminderMissed},
		{"past and done", Submission{ReminderDate: ptr(now.Add(-time.Hour)), ReminderCompleted: true}, ReminderCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sub.ReminderStateAt(now))
		})
	}
}

func TestSubmission_CompletingRemovesMissed(t *testing.T) {
	now := time.Now()
	sub := Submission{ReminderDate: ptr(now.Add(-48 * time.Hour))}
	assert.Equal(t, ReminderMissed, sub.ReminderStateAt(now))

	sub.ReminderCompleted = true
	assert.NotEqual(t, ReminderMissed, sub.ReminderStateAt(now))
}

func TestSubmission_IsReminderDue(t *testing.T) {
	at := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	assert.False(t, (&Submission{}).IsReminderDue(at))
	assert.True(t, (&Submission{ReminderDate: ptr(at)}).IsReminderDue(at))
	assert.False(t, (&Submission{ReminderDate: ptr(at.Add(time.Second))}).IsReminderDue(at))
	assert.False(t, (&Submission{ReminderDate: ptr(at), ReminderCompleted: true}).IsReminderDue(at))
}

func TestSubmission_FillMetadataFrom(t *testing.T) {
	medium := DifficultyMedium
	q := &Question{
		TitleSlug:      "two-sum",
		Difficulty:     &medium,
		QuestionNumber: ptr(1),
		TopicTags:      TopicTags{{Name: "Array", Slug: "array"}},
		QuestionLink:   ptr("https://leetcode.com/problems/two-sum"),
	}

	easy := DifficultyEasy
	sub := Submission{Difficulty: &easy}
	sub.FillMetadataFrom(q)

	assert.Equal(t, DifficultyEasy, *sub.Difficulty, "submission value wins over the cache")
	assert.Equal(t, 1, *sub.QuestionNumber)
	assert.Len(t, sub.TopicTags, 1)
	assert.False(t, sub.MissingQuestionMetadata())

	sub.TopicTags[0].Name = "changed"
	assert.Equal(t, "Array", q.TopicTags[0].Name, "filling must not alias the cache entry")

	sub.FillMetadataFrom(nil)
}

func TestSolveType_Valid(t *testing.T) {
	for _, st := range []SolveType{SolveTypeNew, SolveTypeRevision, SolveTypePractice, SolveTypeOld} {
		assert.True(t, st.Valid(), st)
	}
	assert.False(t, SolveType("mastered").Valid())
}

func TestSubmissionPatch_IsEmpty(t *testing.T) {
	assert.True(t, SubmissionPatch{}.IsEmpty())
	assert.False(t, SubmissionPatch{Notes: NullOf[string]()}.IsEmpty())
	assert.True(t, SubmissionPatch{SolveType: ptr(SolveTypeOld)}.QuestionPatch().IsEmpty())
	assert.False(t, SubmissionPatch{QuestionNumber: ptr(7)}.QuestionPatch().IsEmpty())
}
