package repository

import (
	"strings"
	"testing"
	"time"
	"tle_tracker/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListQuery_DateRangeAndSolveType(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	st := model.SolveTypeRevision

	query, args := buildListQuery("u1", model.SubmissionFilter{StartDate: &start, EndDate: &end, SolveType: &st})

	assert.Contains(t, query, "user_id = $1")
	assert.Contains(t, query, "solved_at >= $2")
	assert.Contains(t, query, "solved_at <= $3")
	assert.Contains(t, query, "solve_type = $4")
	assert.True(t, strings.HasSuffix(query, "ORDER BY solved_at DESC, created_at DESC"))
	assert.Equal(t, []interface{}{"u1", start, end, "revision"}, args)
}

func TestBuildListQuery_NeedsMetadataOverridesSolveType(t *testing.T) {
	st := model.SolveTypeNew
	query, args := buildListQuery("u1", model.SubmissionFilter{SolveType: &st, NeedsMetadata: true})

	assert.NotContains(t, query, "solve_type =")
	assert.Contains(t, query, "solve_type IS NULL")
	assert.Equal(t, []interface{}{"u1"}, args)
}

func TestBuildListQuery_RemindersModeFiltersOnReminderDate(t *testing.T) {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	query, args := buildListQuery("u1", model.SubmissionFilter{Mode: model.ModeReminders, StartDate: &start})

	assert.Contains(t, query, "reminder_date IS NOT NULL")
	assert.Contains(t, query, "reminder_date >= $2")
	assert.NotContains(t, query, "solved_at >=")
	assert.Contains(t, query, "ORDER BY reminder_date DESC")
	assert.Equal(t, []interface{}{"u1", start}, args)
}

func TestBuildListQuery_PendingRemindersIgnoresDateRange(t *testing.T) {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	target := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	query, args := buildListQuery("u1", model.SubmissionFilter{
		StartDate:        &start,
		PendingReminders: true,
		TargetDate:       target,
		TitleSlug:        "two-sum",
		SortAscending:    true,
	})

	assert.Contains(t, query, "title_slug = $2")
	assert.Contains(t, query, "reminder_date <= $3")
	assert.Contains(t, query, "reminder_completed = FALSE")
	assert.NotContains(t, query, ">=")
	assert.Contains(t, query, "ORDER BY reminder_date ASC, created_at ASC")
	assert.Equal(t, []interface{}{"u1", "two-sum", target}, args)
}

func TestBuildUpdateQuery_Empty(t *testing.T) {
	query, args := buildUpdateQuery("u1", "id1", model.SubmissionPatch{})
	assert.Empty(t, query)
	assert.Nil(t, args)
}

func TestBuildUpdateQuery_ClearsNullableFields(t *testing.T) {
	done := false
	patch := model.SubmissionPatch{
		Notes:             model.NullOf[string](),
		ReminderDate:      model.NullOf[time.Time](),
		ReminderCompleted: &done,
		CompletedAt:       model.NullOf[time.Time](),
	}

	query, args := buildUpdateQuery("u1", "id1", patch)

	require.NotEmpty(t, query)
	assert.Contains(t, query, "notes = $1, reminder_date = $2, reminder_completed = $3, completed_at = $4")
	assert.Contains(t, query, "WHERE id = $5 AND user_id = $6 RETURNING")
	require.Len(t, args, 6)
	assert.Nil(t, args[0].(*string))
	assert.Nil(t, args[1].(*time.Time))
	assert.Equal(t, false, args[2])
	assert.Equal(t, "id1", args[4])
	assert.Equal(t, "u1", args[5])
}

func TestBuildUpdateQuery_MetadataFields(t *testing.T) {
	n := 42
	d := model.DifficultyHard
	tags := model.TopicTags{{Name: "Array", Slug: "array"}}
	link := "https://example.com/p"
	st := model.SolveTypePractice

	query, args := buildUpdateQuery("u1", "id1", model.SubmissionPatch{
		SolveType:      &st,
		QuestionLink:   &link,
		QuestionNumber: &n,
		Difficulty:     &d,
		TopicTags:      &tags,
	})

	assert.Contains(t, query, "solve_type = $1")
	assert.Contains(t, query, "question_link = $2")
	assert.Contains(t, query, "question_number = $3")
	assert.Contains(t, query, "difficulty = $4")
	assert.Contains(t, query, "topic_tags = $5::jsonb")
	assert.Equal(t, []interface{}{"practice", link, 42, "Hard", tags, "id1", "u1"}, args)
}
