package handler

import (
	"net/http"
	"tle_tracker/internal/api/middleware"
	"tle_tracker/internal/app/service"
	"tle_tracker/internal/common"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type StatsHandler struct {
	statsService *service.StatsService
	log          *zap.Logger
}

func NewStatsHandler(ss *service.StatsService, log *zap.Logger) *StatsHandler {
	return &StatsHandler{statsService: ss, log: log}
}

func (h *StatsHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/", h.getStats)
}

func (h *StatsHandler) getStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	start, err := parseTimeParam("startDate", q.Get("startDate"), false)
	if err != nil {
		common.RespondWithDomainError(w, h.log, err)
		return
	}
	end, err := parseTimeParam("endDate", q.Get("endDate"), true)
	if err != nil {
		common.RespondWithDomainError(w, h.log, err)
		return
	}

	summary, err := h.statsService.Summary(r.Context(), userID, start, end)
	if err != nil {
		common.RespondWithDomainError(w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, summary)
}
