// Package problemsource talks to the public practice-site API that the tracker mirrors:
// recent accepted submissions, per-problem metadata and lifetime solve counts.
package problemsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"tle_tracker/internal/domain/model"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// RecentSubmissionLimit is how many accepted submissions the source returns per call.
const RecentSubmissionLimit = 20

// ErrUnknownProblem is returned when the source answers but knows nothing about the slug.
var ErrUnknownProblem = errors.New("problem source has no such problem")

// RecentSubmission is one entry of the source's recent-submissions feed.
type RecentSubmission struct {
	Title         string       `json:"title"`
	TitleSlug     string       `json:"titleSlug"`
	Timestamp     EpochSeconds `json:"timestamp"`
	StatusDisplay string       `json:"statusDisplay"`
	Lang          string       `json:"lang"`
}

func (s RecentSubmission) Accepted() bool {
	return s.StatusDisplay == model.SubmissionStatusAccepted
}

// EpochSeconds accepts both "1700000000" and 1700000000. Anything else decodes to 0 so one
// malformed entry is skipped by the caller instead of failing the whole feed.
type EpochSeconds int64

func (e *EpochSeconds) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*e = 0
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		*e = 0
		return nil
	}
	*e = EpochSeconds(n)
	return nil
}

// Time converts to a UTC instant. Zero or negative values are not valid solve times.
func (e EpochSeconds) Time() (time.Time, bool) {
	if e <= 0 {
		return time.Time{}, false
	}
	return time.Unix(int64(e), 0).UTC(), true
}

type recentSubmissionsResponse struct {
	Count      int                `json:"count"`
	Submission []RecentSubmission `json:"submission"`
}

type questionResponse struct {
	Link               string `json:"link"`
	QuestionFrontendID string `json:"questionFrontendId"`
	QuestionTitle      string `json:"questionTitle"`
	TitleSlug          string `json:"titleSlug"`
	Difficulty         string `json:"difficulty"`
	TopicTags          []struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	} `json:"topicTags"`
}

type solvedResponse struct {
	SolvedProblem int `json:"solvedProblem"`
	EasySolved    int `json:"easySolved"`
	MediumSolved  int `json:"mediumSolved"`
	HardSolved    int `json:"hardSolved"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
	now        func() time.Time
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Named("problemsource"),
		now:        time.Now,
	}
}

// RecentSubmissions returns the user's latest submissions in source order. The feed can contain
// non-accepted attempts; callers filter.
func (c *Client) RecentSubmissions(ctx context.Context, username string) ([]RecentSubmission, error) {
	path := fmt.Sprintf("/%s/acSubmission?limit=%d", url.PathEscape(username), RecentSubmissionLimit)
	var resp recentSubmissionsResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Submission, nil
}

// Question returns whatever metadata the source has for slug.
func (c *Client) Question(ctx context.Context, titleSlug string) (*model.ProblemMetadata, error) {
	path := "/select?titleSlug=" + url.QueryEscape(titleSlug)
	var resp questionResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	if resp.TitleSlug == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProblem, titleSlug)
	}

	meta := &model.ProblemMetadata{}
	if n, err := strconv.Atoi(resp.QuestionFrontendID); err == nil {
		meta.QuestionNumber = &n
	}
	switch d := model.ProblemDifficulty(resp.Difficulty); d {
	case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
		meta.Difficulty = &d
	}
	for _, tag := range resp.TopicTags {
		if tag.Name == "" {
			continue
		}
		tagSlug := tag.Slug
		if tagSlug == "" {
			tagSlug = slug.Make(tag.Name)
		}
		meta.TopicTags = append(meta.TopicTags, model.TopicTag{Name: tag.Name, Slug: tagSlug})
	}
	link := resp.Link
	if link == "" {
		link = model.ProblemLink(resp.TitleSlug)
	}
	meta.QuestionLink = &link
	return meta, nil
}

// SolvedStats returns the user's lifetime solved counts.
func (c *Client) SolvedStats(ctx context.Context, username string) (*model.UserStats, error) {
	var resp solvedResponse
	if err := c.getJSON(ctx, "/"+url.PathEscape(username)+"/solved", &resp); err != nil {
		return nil, err
	}
	return &model.UserStats{
		SolvedProblem: resp.SolvedProblem,
		EasySolved:    resp.EasySolved,
		MediumSolved:  resp.MediumSolved,
		HardSolved:    resp.HardSolved,
		FetchedAt:     c.now().UTC(),
	}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("problemsource: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("problemsource: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("upstream call",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("problemsource: GET %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("problemsource: decode %s: %w", path, err)
	}
	return nil
}
