package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"tle_tracker/internal/common"
	"tle_tracker/internal/domain/model"

	"github.com/jmoiron/sqlx"
)

type SubmissionRepository interface {
	// ExistsEvent reports whether the exact (user, slug, timestamp) event is already stored.
	ExistsEvent(ctx context.Context, userID, titleSlug string, solvedAt time.Time) (bool, error)
	// HasSolved reports whether the user has any stored submission for the slug.
	HasSolved(ctx context.Context, userID, titleSlug string) (bool, error)
	// CompleteDueReminders marks every open reminder on the slug with a due date at or
	// before at as completed, stamped with at. It returns the number of rows touched.
	CompleteDueReminders(ctx context.Context, userID, titleSlug string, at time.Time) (int64, error)
	// Create inserts the submission. It returns false without error when the event already exists.
	Create(ctx context.Context, sub *model.Submission) (bool, error)
	FindByID(ctx context.Context, userID, id string) (*model.Submission, error)
	List(ctx context.Context, userID string, filter model.SubmissionFilter) ([]model.Submission, error)
	Update(ctx context.Context, userID, id string, patch model.SubmissionPatch) (*model.Submission, error)
}

type pgSubmissionRepository struct {
	db *sqlx.DB
}

func NewPgSubmissionRepository(db *sqlx.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

const submissionColumns = `id::text AS id, user_id, title_slug, title, solved_at, lang, solve_type, notes,
	reminder_date, reminder_completed, completed_at, is_first_solve, difficulty, question_number,
	topic_tags, question_link, created_at`

func (r *pgSubmissionRepository) ExistsEvent(ctx context.Context, userID, titleSlug string, solvedAt time.Time) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM submissions WHERE user_id = $1 AND title_slug = $2 AND solved_at = $3)`
	if err := r.db.GetContext(ctx, &exists, query, userID, titleSlug, solvedAt); err != nil {
		return false, fmt.Errorf("pgSubmissionRepository.ExistsEvent: %w", err)
	}
	return exists, nil
}

func (r *pgSubmissionRepository) HasSolved(ctx context.Context, userID, titleSlug string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM submissions WHERE user_id = $1 AND title_slug = $2)`
	if err := r.db.GetContext(ctx, &exists, query, userID, titleSlug); err != nil {
		return false, fmt.Errorf("pgSubmissionRepository.HasSolved: %w", err)
	}
	return exists, nil
}

func (r *pgSubmissionRepository) CompleteDueReminders(ctx context.Context, userID, titleSlug string, at time.Time) (int64, error) {
	query := `UPDATE submissions SET reminder_completed = TRUE, completed_at = $3
	          WHERE user_id = $1 AND title_slug = $2
	            AND reminder_date IS NOT NULL AND reminder_date <= $3
	            AND reminder_completed = FALSE`
	res, err := r.db.ExecContext(ctx, query, userID, titleSlug, at)
	if err != nil {
		return 0, fmt.Errorf("pgSubmissionRepository.CompleteDueReminders: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *pgSubmissionRepository) Create(ctx context.Context, sub *model.Submission) (bool, error) {
	query := `INSERT INTO submissions (id, user_id, title_slug, title, solved_at, lang, solve_type, notes,
	              reminder_date, reminder_completed, completed_at, is_first_solve, difficulty,
	              question_number, topic_tags, question_link, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15::jsonb, $16, $17)
	          ON CONFLICT (user_id, title_slug, solved_at) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query,
		sub.ID, sub.UserID, sub.TitleSlug, sub.Title, sub.Timestamp, sub.Lang, solveTypeArg(sub.SolveType),
		sub.Notes, sub.ReminderDate, sub.ReminderCompleted, sub.CompletedAt, sub.IsFirstSolve,
		difficultyArg(sub.Difficulty), sub.QuestionNumber, tagsArg(sub.TopicTags), sub.QuestionLink, sub.CreatedAt,
	)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("pgSubmissionRepository.Create: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *pgSubmissionRepository) FindByID(ctx context.Context, userID, id string) (*model.Submission, error) {
	sub := &model.Submission{}
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, sub, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.FindByID: %w", err)
	}
	return sub, nil
}

func (r *pgSubmissionRepository) List(ctx context.Context, userID string, filter model.SubmissionFilter) ([]model.Submission, error) {
	query, args := buildListQuery(userID, filter)
	subs := []model.Submission{}
	if err := r.db.SelectContext(ctx, &subs, query, args...); err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.List: %w", err)
	}
	return subs, nil
}

func (r *pgSubmissionRepository) Update(ctx context.Context, userID, id string, patch model.SubmissionPatch) (*model.Submission, error) {
	query, args := buildUpdateQuery(userID, id, patch)
	if query == "" {
		return r.FindByID(ctx, userID, id)
	}
	sub := &model.Submission{}
	if err := r.db.GetContext(ctx, sub, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.Update: %w", err)
	}
	return sub, nil
}

// buildListQuery renders the filter into SQL. Pending-reminder mode replaces the date
// range with "due by TargetDate and not completed".
func buildListQuery(userID string, f model.SubmissionFilter) (string, []interface{}) {
	conditions := []string{"user_id = $1"}
	args := []interface{}{userID}
	argID := 2

	add := func(cond string, arg interface{}) {
		conditions = append(conditions, fmt.Sprintf(cond, argID))
		args = append(args, arg)
		argID++
	}

	orderField := "solved_at"
	if f.Mode == model.ModeReminders || f.PendingReminders {
		orderField = "reminder_date"
		conditions = append(conditions, "reminder_date IS NOT NULL")
	}

	if f.TitleSlug != "" {
		add("title_slug = $%d", f.TitleSlug)
	}

	if f.PendingReminders {
		add("reminder_date <= $%d", f.TargetDate)
		conditions = append(conditions, "reminder_completed = FALSE")
	} else {
		if f.StartDate != nil {
			add(orderField+" >= $%d", *f.StartDate)
		}
		if f.EndDate != nil {
			add(orderField+" <= $%d", *f.EndDate)
		}
	}

	if f.NeedsMetadata {
		conditions = append(conditions, "solve_type IS NULL")
	} else if f.SolveType != nil {
		add("solve_type = $%d", string(*f.SolveType))
	}

	direction := "DESC"
	if f.SortAscending {
		direction = "ASC"
	}

	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE ` + strings.Join(conditions, " AND ") +
		fmt.Sprintf(" ORDER BY %s %s, created_at %s", orderField, direction, direction)
	return query, args
}

// buildUpdateQuery returns an empty query when the patch touches nothing.
func buildUpdateQuery(userID, id string, p model.SubmissionPatch) (string, []interface{}) {
	var sets []string
	var args []interface{}
	argID := 1

	set := func(column string, arg interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, arg)
		argID++
	}

	if p.SolveType != nil {
		set("solve_type", string(*p.SolveType))
	}
	if p.Notes.Set {
		set("notes", p.Notes.Ptr())
	}
	if p.ReminderDate.Set {
		set("reminder_date", p.ReminderDate.Ptr())
	}
	if p.ReminderCompleted != nil {
		set("reminder_completed", *p.ReminderCompleted)
	}
	if p.CompletedAt.Set {
		set("completed_at", p.CompletedAt.Ptr())
	}
	if p.QuestionLink != nil {
		set("question_link", *p.QuestionLink)
	}
	if p.QuestionNumber != nil {
		set("question_number", *p.QuestionNumber)
	}
	if p.Difficulty != nil {
		set("difficulty", string(*p.Difficulty))
	}
	if p.TopicTags != nil {
		sets = append(sets, fmt.Sprintf("topic_tags = $%d::jsonb", argID))
		args = append(args, *p.TopicTags)
		argID++
	}

	if len(sets) == 0 {
		return "", nil
	}

	query := fmt.Sprintf(`UPDATE submissions SET %s WHERE id = $%d AND user_id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argID, argID+1, submissionColumns)
	args = append(args, id, userID)
	return query, args
}

func solveTypeArg(t *model.SolveType) interface{} {
	if t == nil {
		return nil
	}
	return string(*t)
}

func tagsArg(tags model.TopicTags) interface{} {
	if len(tags) == 0 {
		return nil
	}
	return tags
}
