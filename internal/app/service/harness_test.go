package service

import (
	"context"
	"testing"
	"time"
	"tle_tracker/internal/domain/model"
	"tle_tracker/internal/domain/repository/repotest"
	"tle_tracker/internal/platform/problemsource/sourcetest"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2023, 11, 20, 12, 0, 0, 0, time.UTC)

type harness struct {
	users     *repotest.UserRepo
	questions *repotest.QuestionRepo
	subs      *repotest.SubmissionRepo
	source    *sourcetest.Source

	sync        *SyncService
	submissions *SubmissionService
	reminders   *ReminderService
	questionSvc *QuestionService
	userSvc     *UserService
	stats       *StatsService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		users:     repotest.NewUserRepo(),
		questions: repotest.NewQuestionRepo(),
		subs:      &repotest.SubmissionRepo{},
		source:    sourcetest.New(),
	}
	log := zap.NewNop()
	clock := func() time.Time { return testNow }

	h.sync = NewSyncService(h.users, h.questions, h.subs, h.source, log)
	h.sync.now = clock
	h.submissions = NewSubmissionService(h.subs, h.questions, h.source, log)
	h.submissions.now = clock
	h.reminders = NewReminderService(h.submissions)
	h.reminders.now = clock
	h.questionSvc = NewQuestionService(h.questions, h.submissions)
	h.userSvc = NewUserService(h.users, h.source, log)
	h.userSvc.now = clock
	h.stats = NewStatsService(h.submissions)
	h.stats.now = clock
	return h
}

func (h *harness) link(t *testing.T, userID, username string) {
	t.Helper()
	_, err := h.userSvc.Link(context.Background(), userID, nil, LinkAccountRequest{ProblemSourceUsername: username})
	require.NoError(t, err)
}

func (h *harness) syncOnce(t *testing.T, userID string) *SyncResult {
	t.Helper()
	res, err := h.sync.Synchronize(context.Background(), userID)
	require.NoError(t, err)
	return res
}

func (h *harness) onlySubmission(t *testing.T, userID, slug string, ts time.Time) model.Submission {
	t.Helper()
	for _, s := range h.subs.All() {
		if s.UserID == userID && s.TitleSlug == slug && s.Timestamp.Equal(ts) {
			return s
		}
	}
	t.Fatalf("no submission for %s/%s at %s", userID, slug, ts)
	return model.Submission{}
}

func ptr[T any](v T) *T { return &v }
