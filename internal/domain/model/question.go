package model

import (
	"database/sql/driver"
	"encoding/json"
	"slices"
	"time"
)

type ProblemDifficulty string

const (
	DifficultyEasy   ProblemDifficulty = "Easy"
	DifficultyMedium ProblemDifficulty = "Medium"
	DifficultyHard   ProblemDifficulty = "Hard"
)

// ProblemLinkBase prefixes a slug to form the canonical problem link.
const ProblemLinkBase = "https://leetcode.com/problems/"

func ProblemLink(slug string) string {
	return ProblemLinkBase + slug
}

type TopicTag struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// TopicTags is stored as a JSONB array; order carries no meaning.
type TopicTags []TopicTag

func (t TopicTags) Value() (driver.Value, error) {
	if t == nil {
		t = TopicTags{}
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *TopicTags) Scan(src any) error {
	return scanJSON(src, t)
}

// LanguageSet holds every language a question has been solved in, without duplicates.
type LanguageSet []string

// Add inserts lang unless it is empty or already present. It reports whether the set changed.
func (s *LanguageSet) Add(lang string) bool {
	if lang == "" || s.Contains(lang) {
		return false
	}
	*s = append(*s, lang)
	return true
}

func (s LanguageSet) Contains(lang string) bool {
	return slices.Contains(s, lang)
}

func (s LanguageSet) Value() (driver.Value, error) {
	if s == nil {
		s = LanguageSet{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *LanguageSet) Scan(src any) error {
	var langs []string
	if err := scanJSON(src, &langs); err != nil {
		return err
	}
	set := LanguageSet{}
	for _, l := range langs {
		set.Add(l)
	}
	*s = set
	return nil
}

// Question is the shared, advisory metadata cache keyed by slug.
type Question struct {
	TitleSlug      string             `json:"titleSlug" db:"title_slug"`
	Title          string             `json:"title" db:"title"`
	QuestionNumber *int               `json:"questionNumber" db:"question_number"`
	Difficulty     *ProblemDifficulty `json:"difficulty" db:"difficulty"`
	TopicTags      TopicTags          `json:"topicTags" db:"topic_tags"`
	Languages      LanguageSet        `json:"languages" db:"languages"`
	QuestionLink   *string            `json:"questionLink" db:"question_link"`
	TotalSolves    int                `json:"totalSolves" db:"total_solves"`
	FirstSolvedAt  *time.Time         `json:"firstSolvedAt" db:"first_solved_at"`
	LastSolvedAt   *time.Time         `json:"lastSolvedAt" db:"last_solved_at"`
	CreatedAt      time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time          `json:"updatedAt" db:"updated_at"`
}

// ProblemMetadata is what the problem source knows about a slug. Every field is optional.
type ProblemMetadata struct {
	QuestionNumber *int               `json:"questionNumber,omitempty"`
	Difficulty     *ProblemDifficulty `json:"difficulty,omitempty"`
	TopicTags      TopicTags          `json:"topicTags,omitempty"`
	QuestionLink   *string            `json:"questionLink,omitempty"`
}

// QuestionSolve records one observed accepted solve against the question cache.
type QuestionSolve struct {
	TitleSlug string
	Title     string
	Language  string
	SolvedAt  time.Time
	Metadata  ProblemMetadata
	At        time.Time
}

// QuestionPatch carries user corrections that flow back into the shared cache.
type QuestionPatch struct {
	QuestionNumber *int
	Difficulty     *ProblemDifficulty
	TopicTags      *TopicTags
	QuestionLink   *string
}

func (p QuestionPatch) IsEmpty() bool {
	return p.QuestionNumber == nil && p.Difficulty == nil && p.TopicTags == nil && p.QuestionLink == nil
}
