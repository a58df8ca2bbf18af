package repository

import (
	"context"
	"os"
	"testing"
	"time"
	"tle_tracker/internal/domain/model"
	"tle_tracker/internal/platform/config"
	"tle_tracker/internal/platform/database"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to TEST_DATABASE_URL and applies the schema. Tests that need it are
// skipped when the variable is unset.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := database.Connect(ctx, &config.Config{DBConnStr: url})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(ctx, db))
	return db
}

func createTestUser(t *testing.T, db *sqlx.DB) string {
	t.Helper()
	id := "user_" + uuid.NewString()
	_, err := NewPgUserRepository(db).Upsert(context.Background(), &model.User{
		ID:                    id,
		ProblemSourceUsername: "alice",
		UpdatedAt:             time.Now().UTC(),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Exec(`DELETE FROM submissions WHERE user_id = $1`, id)
		db.Exec(`DELETE FROM users WHERE id = $1`, id)
	})
	return id
}

func uniqueSlug(t *testing.T, db *sqlx.DB) string {
	t.Helper()
	slug := "two-sum-" + uuid.NewString()[:8]
	t.Cleanup(func() { db.Exec(`DELETE FROM questions WHERE title_slug = $1`, slug) })
	return slug
}

func TestPgQuestionRepository_RecordSolveMergesLanguagesAndKeepsMetadata(t *testing.T) {
	db := openTestDB(t)
	repo := NewPgQuestionRepository(db)
	ctx := context.Background()
	slug := uniqueSlug(t, db)

	first := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	number := 1
	easy := model.DifficultyEasy
	tags := model.TopicTags{{Name: "Array", Slug: "array"}}

	require.NoError(t, repo.RecordSolve(ctx, model.QuestionSolve{
		TitleSlug: slug, Title: "Two Sum", Language: "python", SolvedAt: first, At: first,
		Metadata: model.ProblemMetadata{QuestionNumber: &number, Difficulty: &easy, TopicTags: tags},
	}))
	// Unknown metadata and a repeated language.
	require.NoError(t, repo.RecordSolve(ctx, model.QuestionSolve{
		TitleSlug: slug, Title: "Two Sum", Language: "python", SolvedAt: first.Add(-time.Hour), At: first,
	}))
	require.NoError(t, repo.RecordSolve(ctx, model.QuestionSolve{
		TitleSlug: slug, Title: "Two Sum", Language: "go", SolvedAt: first.Add(time.Hour), At: first,
	}))

	q, err := repo.FindBySlug(ctx, slug)
	require.NoError(t, err)
	assert.Equal(t, model.LanguageSet{"python", "go"}, q.Languages)
	assert.Equal(t, 3, q.TotalSolves)
	require.NotNil(t, q.QuestionNumber)
	assert.Equal(t, 1, *q.QuestionNumber)
	require.NotNil(t, q.Difficulty)
	assert.Equal(t, model.DifficultyEasy, *q.Difficulty)
	assert.Equal(t, tags, q.TopicTags)
	require.NotNil(t, q.FirstSolvedAt)
	require.NotNil(t, q.LastSolvedAt)
	assert.True(t, first.Add(-time.Hour).Equal(*q.FirstSolvedAt))
	assert.True(t, first.Add(time.Hour).Equal(*q.LastSolvedAt))
}

func TestPgSubmissionRepository_CreateIsIdempotentPerEvent(t *testing.T) {
	db := openTestDB(t)
	repo := NewPgSubmissionRepository(db)
	ctx := context.Background()
	userID := createTestUser(t, db)
	slug := uniqueSlug(t, db)
	solvedAt := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	newSub := func() *model.Submission {
		st := model.SolveTypeNew
		return &model.Submission{
			ID: uuid.NewString(), UserID: userID, TitleSlug: slug, Title: "Two Sum",
			Timestamp: solvedAt, Lang: "python", SolveType: &st, IsFirstSolve: true, CreatedAt: solvedAt,
		}
	}

	inserted, err := repo.Create(ctx, newSub())
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Create(ctx, newSub())
	require.NoError(t, err)
	assert.False(t, inserted)

	exists, err := repo.ExistsEvent(ctx, userID, slug, solvedAt)
	require.NoError(t, err)
	assert.True(t, exists)

	solved, err := repo.HasSolved(ctx, userID, slug)
	require.NoError(t, err)
	assert.True(t, solved)

	subs, err := repo.List(ctx, userID, model.SubmissionFilter{TitleSlug: slug})
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestPgSubmissionRepository_CompleteDueReminders(t *testing.T) {
	db := openTestDB(t)
	repo := NewPgSubmissionRepository(db)
	ctx := context.Background()
	userID := createTestUser(t, db)
	slug := uniqueSlug(t, db)
	base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	seedWithReminder := func(solvedAt, reminder time.Time) string {
		sub := &model.Submission{
			ID: uuid.NewString(), UserID: userID, TitleSlug: slug, Title: "Two Sum",
			Timestamp: solvedAt, Lang: "python", ReminderDate: &reminder, CreatedAt: solvedAt,
		}
		inserted, err := repo.Create(ctx, sub)
		require.NoError(t, err)
		require.True(t, inserted)
		return sub.ID
	}
	due := seedWithReminder(base, base.Add(24*time.Hour))
	later := seedWithReminder(base.Add(time.Minute), base.Add(72*time.Hour))

	event := base.Add(48 * time.Hour)
	n, err := repo.CompleteDueReminders(ctx, userID, slug, event)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.FindByID(ctx, userID, due)
	require.NoError(t, err)
	assert.True(t, got.ReminderCompleted)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, event.Equal(*got.CompletedAt))

	got, err = repo.FindByID(ctx, userID, later)
	require.NoError(t, err)
	assert.False(t, got.ReminderCompleted)
	assert.Nil(t, got.CompletedAt)

	n, err = repo.CompleteDueReminders(ctx, userID, slug, event)
	require.NoError(t, err)
	assert.Zero(t, n)
}
