package service

import (
	"context"
	"sort"
	"time"
	"tle_tracker/internal/domain/model"
)

type StatsService struct {
	submissions *SubmissionService
	now         func() time.Time
}

func NewStatsService(submissions *SubmissionService) *StatsService {
	return &StatsService{submissions: submissions, now: time.Now}
}

type DifficultyBreakdown struct {
	Easy    int `json:"easy"`
	Medium  int `json:"medium"`
	Hard    int `json:"hard"`
	Unknown int `json:"unknown"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type ReminderCounts struct {
	Pending   int `json:"pending"`
	Missed    int `json:"missed"`
	Completed int `json:"completed"`
}

type StatsSummary struct {
	Total        int                 `json:"total"`
	New          int                 `json:"new"`
	Revision     int                 `json:"revision"`
	Old          int                 `json:"old"`
	Unclassified int                 `json:"unclassified"`
	Languages    []string            `json:"languages"`
	Difficulty   DifficultyBreakdown `json:"difficulty"`
	PerDay       []DayCount          `json:"perDay"`
	Reminders    ReminderCounts      `json:"reminders"`
}

// Summary aggregates the caller's submissions solved within [start, end]. Either bound may be nil.
func (s *StatsService) Summary(ctx context.Context, userID string, start, end *time.Time) (*StatsSummary, error) {
	subs, err := s.submissions.List(ctx, userID, model.SubmissionFilter{StartDate: start, EndDate: end})
	if err != nil {
		return nil, err
	}
	return summarize(subs, s.now().UTC()), nil
}

// summarize expects submissions already enriched from the question cache.
func summarize(subs []model.Submission, now time.Time) *StatsSummary {
	out := &StatsSummary{Languages: []string{}, PerDay: []DayCount{}}
	langs := model.LanguageSet{}
	days := map[string]int{}

	for i := range subs {
		sub := &subs[i]
		out.Total++

		switch {
		case sub.IsFirstSolve || (sub.SolveType != nil && *sub.SolveType == model.SolveTypeNew):
			out.New++
		case sub.SolveType == nil:
			out.Unclassified++
		case *sub.SolveType == model.SolveTypeRevision:
			out.Revision++
		default:
			out.Old++
		}

		langs.Add(sub.Lang)

		switch {
		case sub.Difficulty == nil:
			out.Difficulty.Unknown++
		case *sub.Difficulty == model.DifficultyEasy:
			out.Difficulty.Easy++
		case *sub.Difficulty == model.DifficultyMedium:
			out.Difficulty.Medium++
		case *sub.Difficulty == model.DifficultyHard:
			out.Difficulty.Hard++
		default:
			out.Difficulty.Unknown++
		}

		days[sub.Timestamp.UTC().Format(time.DateOnly)]++

		switch sub.ReminderStateAt(now) {
		case model.ReminderPending:
			out.Reminders.Pending++
		case model.ReminderMissed:
			out.Reminders.Missed++
		case model.ReminderCompleted:
			out.Reminders.Completed++
		}
	}

	out.Languages = append(out.Languages, langs...)
	sort.Strings(out.Languages)

	for day, n := range days {
		out.PerDay = append(out.PerDay, DayCount{Date: day, Count: n})
	}
	sort.Slice(out.PerDay, func(i, j int) bool { return out.PerDay[i].Date < out.PerDay[j].Date })
	return out
}
