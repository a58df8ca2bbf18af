package problemsource

import (
	"context"
	"encoding/json"
	"errors"
	"time"
	"tle_tracker/internal/domain/model"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const metadataKeyPrefix = "problem_meta:"

// Source is the full upstream surface.
type Source interface {
	RecentSubmissions(ctx context.Context, username string) ([]RecentSubmission, error)
	Question(ctx context.Context, titleSlug string) (*model.ProblemMetadata, error)
	SolvedStats(ctx context.Context, username string) (*model.UserStats, error)
}

// CachedSource puts a Redis read-through cache in front of Question lookups, which the sync loop
// issues once per new event against a rate-limited API. Submissions and stats are never cached.
type CachedSource struct {
	Source
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewCachedSource(upstream Source, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *CachedSource {
	return &CachedSource{
		Source: upstream,
		rdb:    rdb,
		ttl:    ttl,
		log:    log.Named("problemsource.cache"),
	}
}

func (c *CachedSource) Question(ctx context.Context, titleSlug string) (*model.ProblemMetadata, error) {
	key := metadataKeyPrefix + titleSlug

	cached, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var meta model.ProblemMetadata
		if err := json.Unmarshal(cached, &meta); err == nil {
			return &meta, nil
		}
		c.log.Warn("dropping undecodable cache entry", zap.String("slug", titleSlug))
	case !errors.Is(err, redis.Nil):
		c.log.Warn("metadata cache read failed", zap.String("slug", titleSlug), zap.Error(err))
	}

	meta, err := c.Source.Question(ctx, titleSlug)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(meta); err == nil {
		if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.log.Warn("metadata cache write failed", zap.String("slug", titleSlug), zap.Error(err))
		}
	}
	return meta, nil
}

// Invalidate drops the cached metadata for slug so the next lookup goes upstream.
func (c *CachedSource) Invalidate(ctx context.Context, titleSlug string) error {
	return c.rdb.Del(ctx, metadataKeyPrefix+titleSlug).Err()
}
