package handler

import (
	"net/http"
	"tle_tracker/internal/api/middleware"
	"tle_tracker/internal/app/service"
	"tle_tracker/internal/common"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type QuestionHandler struct {
	questionService *service.QuestionService
	log             *zap.Logger
}

func NewQuestionHandler(qs *service.QuestionService, log *zap.Logger) *QuestionHandler {
	return &QuestionHandler{questionService: qs, log: log}
}

func (h *QuestionHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/{titleSlug}", h.getQuestion)
}

func (h *QuestionHandler) getQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	details, err := h.questionService.Details(r.Context(), userID, chi.URLParam(r, "titleSlug"))
	if err != nil {
		common.RespondWithDomainError(w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, details)
}
