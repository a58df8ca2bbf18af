package api

import (
	"net/http"
	"time"
	"tle_tracker/internal/api/handler"
	"tle_tracker/internal/api/middleware"
	"tle_tracker/internal/app/service"
	"tle_tracker/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"go.uber.org/zap"
)

func NewRouter(
	log *zap.Logger,
	tokenAuth *security.TokenAuth,
	health http.Handler,
	syncService *service.SyncService,
	submissionService *service.SubmissionService,
	reminderService *service.ReminderService,
	userService *service.UserService,
	questionService *service.QuestionService,
	statsService *service.StatsService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(log.Named("http")))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies "Authorization: Bearer T" when present; Authenticator on each route group enforces it.
	r.Use(jwtauth.Verifier(tokenAuth.JWTAuth()))

	r.Method(http.MethodGet, "/health", health)

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Route("/sync", handler.NewSyncHandler(syncService, log).RegisterRoutes)
		v1.Route("/submissions", handler.NewSubmissionHandler(submissionService, log).RegisterRoutes)
		v1.Route("/reminders", handler.NewReminderHandler(reminderService, log).RegisterRoutes)
		v1.Route("/user", handler.NewUserHandler(userService, log).RegisterRoutes)
		v1.Route("/questions", handler.NewQuestionHandler(questionService, log).RegisterRoutes)
		v1.Route("/stats", handler.NewStatsHandler(statsService, log).RegisterRoutes)
	})

	return r
}
