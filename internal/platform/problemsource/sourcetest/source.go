// Package sourcetest provides a scripted problemsource.Source for tests.
package sourcetest

import (
	"context"
	"errors"
	"sync"
	"tle_tracker/internal/domain/model"
	"tle_tracker/internal/platform/problemsource"
)

// Source is a scripted problem source. Question fails for slugs missing from Meta.
type Source struct {
	mu          sync.Mutex
	Recent      []problemsource.RecentSubmission
	RecentErr   error
	Meta        map[string]model.ProblemMetadata
	StatsErr    error
	Stats       model.UserStats
	MetaCalls   int
	Invalidated []string
}

func (f *Source) RecentSubmissions(_ context.Context, _ string) ([]problemsource.RecentSubmission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RecentErr != nil {
		return nil, f.RecentErr
	}
	return append([]problemsource.RecentSubmission(nil), f.Recent...), nil
}

func (f *Source) Question(_ context.Context, titleSlug string) (*model.ProblemMetadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MetaCalls++
	m, ok := f.Meta[titleSlug]
	if !ok {
		return nil, errors.New("metadata unavailable")
	}
	return &m, nil
}

func (f *Source) SolvedStats(_ context.Context, _ string) (*model.UserStats, error) {
	if f.StatsErr != nil {
		return nil, f.StatsErr
	}
	s := f.Stats
	return &s, nil
}

func (f *Source) Invalidate(_ context.Context, titleSlug string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Invalidated = append(f.Invalidated, titleSlug)
	return nil
}

// SetRecent replaces the recent-submissions batch.
func (f *Source) SetRecent(events ...problemsource.RecentSubmission) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Recent = events
}

// Accepted builds an accepted event.
func Accepted(slug, title string, ts int64, lang string) problemsource.RecentSubmission {
	return problemsource.RecentSubmission{
		Title:         title,
		TitleSlug:     slug,
		Timestamp:     problemsource.EpochSeconds(ts),
		StatusDisplay: model.SubmissionStatusAccepted,
		Lang:          lang,
	}
}

// New returns a Source with an empty metadata table.
func New() *Source {
	return &Source{Meta: map[string]model.ProblemMetadata{}}
}

var _ problemsource.Source = (*Source)(nil)
