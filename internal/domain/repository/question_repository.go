package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"tle_tracker/internal/common"
	"tle_tracker/internal/domain/model"

	"github.com/jmoiron/sqlx"
)

type QuestionRepository interface {
	FindBySlug(ctx context.Context, titleSlug string) (*model.Question, error)
	FindBySlugs(ctx context.Context, titleSlugs []string) (map[string]*model.Question, error)
	// RecordSolve creates the cache entry if absent, otherwise bumps counters, widens the
	// solved-at window, unions the language set and fills in any metadata that is known.
	RecordSolve(ctx context.Context, solve model.QuestionSolve) error
	// ApplyPatch writes user corrections into an existing entry. Missing entries are left alone.
	ApplyPatch(ctx context.Context, titleSlug string, patch model.QuestionPatch, at time.Time) error
}

type pgQuestionRepository struct {
	db *sqlx.DB
}

func NewPgQuestionRepository(db *sqlx.DB) QuestionRepository {
	return &pgQuestionRepository{db: db}
}

const questionColumns = `title_slug, title, question_number, difficulty, topic_tags, languages, question_link,
	total_solves, first_solved_at, last_solved_at, created_at, updated_at`

func (r *pgQuestionRepository) FindBySlug(ctx context.Context, titleSlug string) (*model.Question, error) {
	q := &model.Question{}
	err := r.db.GetContext(ctx, q, `SELECT `+questionColumns+` FROM questions WHERE title_slug = $1`, titleSlug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgQuestionRepository.FindBySlug: %w", err)
	}
	return q, nil
}

func (r *pgQuestionRepository) FindBySlugs(ctx context.Context, titleSlugs []string) (map[string]*model.Question, error) {
	out := make(map[string]*model.Question, len(titleSlugs))
	if len(titleSlugs) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`SELECT `+questionColumns+` FROM questions WHERE title_slug IN (?)`, titleSlugs)
	if err != nil {
		return nil, fmt.Errorf("pgQuestionRepository.FindBySlugs build: %w", err)
	}
	var questions []model.Question
	if err := r.db.SelectContext(ctx, &questions, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("pgQuestionRepository.FindBySlugs: %w", err)
	}
	for i := range questions {
		out[questions[i].TitleSlug] = &questions[i]
	}
	return out, nil
}

func (r *pgQuestionRepository) RecordSolve(ctx context.Context, s model.QuestionSolve) error {
	languages := model.LanguageSet{}
	languages.Add(s.Language)

	query := `INSERT INTO questions (title_slug, title, question_number, difficulty, topic_tags, languages,
	              question_link, total_solves, first_solved_at, last_solved_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5::jsonb, $6::jsonb, $7, 1, $8, $8, $9, $9)
	          ON CONFLICT (title_slug) DO UPDATE SET
	              title = EXCLUDED.title,
	              question_number = COALESCE(EXCLUDED.question_number, questions.question_number),
	              difficulty = COALESCE(EXCLUDED.difficulty, questions.difficulty),
	              topic_tags = CASE WHEN jsonb_array_length(EXCLUDED.topic_tags) > 0
	                                THEN EXCLUDED.topic_tags ELSE questions.topic_tags END,
	              languages = CASE WHEN questions.languages @> EXCLUDED.languages
	                               THEN questions.languages ELSE questions.languages || EXCLUDED.languages END,
	              question_link = COALESCE(EXCLUDED.question_link, questions.question_link),
	              total_solves = questions.total_solves + 1,
	              first_solved_at = LEAST(questions.first_solved_at, EXCLUDED.first_solved_at),
	              last_solved_at = GREATEST(questions.last_solved_at, EXCLUDED.last_solved_at),
	              updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		s.TitleSlug, s.Title, s.Metadata.QuestionNumber, difficultyArg(s.Metadata.Difficulty),
		s.Metadata.TopicTags, languages, s.Metadata.QuestionLink, s.SolvedAt, s.At)
	if err != nil {
		return fmt.Errorf("pgQuestionRepository.RecordSolve: %w", err)
	}
	return nil
}

func (r *pgQuestionRepository) ApplyPatch(ctx context.Context, titleSlug string, p model.QuestionPatch, at time.Time) error {
	if p.IsEmpty() {
		return nil
	}
	var tags interface{}
	if p.TopicTags != nil {
		tags = *p.TopicTags
	}
	query := `UPDATE questions SET
	              question_number = COALESCE($2::int, question_number),
	              difficulty = COALESCE($3::text, difficulty),
	              topic_tags = COALESCE($4::jsonb, topic_tags),
	              question_link = COALESCE($5::text, question_link),
	              updated_at = $6
	          WHERE title_slug = $1`
	_, err := r.db.ExecContext(ctx, query, titleSlug, p.QuestionNumber, difficultyArg(p.Difficulty), tags, p.QuestionLink, at)
	if err != nil {
		return fmt.Errorf("pgQuestionRepository.ApplyPatch: %w", err)
	}
	return nil
}

func difficultyArg(d *model.ProblemDifficulty) interface{} {
	if d == nil {
		return nil
	}
	return string(*d)
}
