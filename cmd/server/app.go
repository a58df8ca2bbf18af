package main

import (
	"context"
	"fmt"
	"tle_tracker/internal/app/service"
	"tle_tracker/internal/domain/repository"
	"tle_tracker/internal/platform/cache"
	"tle_tracker/internal/platform/config"
	"tle_tracker/internal/platform/database"
	"tle_tracker/internal/platform/logger"
	"tle_tracker/internal/platform/problemsource"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// app holds the process-wide handles. Everything below it receives them by injection.
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *sqlx.DB
	rdb *redis.Client

	syncService       *service.SyncService
	submissionService *service.SubmissionService
	reminderService   *service.ReminderService
	userService       *service.UserService
	questionService   *service.QuestionService
	statsService      *service.StatsService
}

// bootstrap loads configuration and the logger only.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg := config.Load()
	log, err := logger.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	if cfg.DotEnvLoaded {
		log.Debug("loaded .env file")
	}
	return cfg, log, nil
}

// newApp connects to Postgres and, when requireRedis is false, treats Redis as optional:
// without it problem metadata is fetched uncached.
func newApp(ctx context.Context, requireRedis bool) (*app, error) {
	cfg, log, err := bootstrap()
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log}

	a.db, err = database.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("database connected")

	a.rdb, err = cache.ConnectRedis(ctx, cfg)
	if err != nil {
		if requireRedis {
			a.db.Close()
			return nil, err
		}
		log.Warn("redis unavailable, metadata cache disabled", zap.Error(err))
		a.rdb = nil
	} else {
		log.Info("redis connected")
	}

	userRepo := repository.NewPgUserRepository(a.db)
	questionRepo := repository.NewPgQuestionRepository(a.db)
	submissionRepo := repository.NewPgSubmissionRepository(a.db)

	var source problemsource.Source = problemsource.NewClient(cfg.ProblemSourceURL, cfg.ProblemSourceTimeout, log)
	if a.rdb != nil {
		source = problemsource.NewCachedSource(source, a.rdb, cfg.MetadataCacheTTL, log)
	}

	a.syncService = service.NewSyncService(userRepo, questionRepo, submissionRepo, source, log)
	a.submissionService = service.NewSubmissionService(submissionRepo, questionRepo, source, log)
	a.reminderService = service.NewReminderService(a.submissionService)
	a.userService = service.NewUserService(userRepo, source, log)
	a.questionService = service.NewQuestionService(questionRepo, a.submissionService)
	a.statsService = service.NewStatsService(a.submissionService)
	return a, nil
}

func (a *app) Close() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.log.Warn("redis close failed", zap.Error(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.log.Warn("database close failed", zap.Error(err))
	}
	_ = a.log.Sync()
}

func (a *app) describe() string {
	return fmt.Sprintf("env=%s port=%s source=%s", a.cfg.AppEnv, a.cfg.APIPort, a.cfg.ProblemSourceURL)
}
