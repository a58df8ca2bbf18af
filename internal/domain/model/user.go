package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

type User struct {
	ID                    string     `json:"id" db:"id"` // subject of the external auth provider
	Email                 *string    `json:"email,omitempty" db:"email"`
	ProblemSourceUsername string     `json:"problemSourceUsername" db:"problem_source_username"`
	Stats                 *UserStats `json:"stats,omitempty" db:"stats"`
	CreatedAt             time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt             time.Time  `json:"updatedAt" db:"updated_at"`
}

// HasLinkedAccount reports whether onboarding recorded a problem-source username.
func (u *User) HasLinkedAccount() bool {
	return u != nil && u.ProblemSourceUsername != ""
}

// UserStats is the lifetime aggregate cached from the problem source.
type UserStats struct {
	SolvedProblem int       `json:"solvedProblem"`
	EasySolved    int       `json:"easySolved"`
	MediumSolved  int       `json:"mediumSolved"`
	HardSolved    int       `json:"hardSolved"`
	FetchedAt     time.Time `json:"fetchedAt"`
}

func (s UserStats) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *UserStats) Scan(src any) error {
	return scanJSON(src, s)
}
