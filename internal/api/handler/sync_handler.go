package handler

import (
	"net/http"
	"tle_tracker/internal/api/middleware"
	"tle_tracker/internal/app/service"
	"tle_tracker/internal/common"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SyncHandler struct {
	syncService *service.SyncService
	log         *zap.Logger
}

func NewSyncHandler(ss *service.SyncService, log *zap.Logger) *SyncHandler {
	return &SyncHandler{syncService: ss, log: log}
}

func (h *SyncHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Post("/", h.synchronize)
}

func (h *SyncHandler) synchronize(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	result, err := h.syncService.Synchronize(r.Context(), userID)
	if err != nil {
		common.RespondWithDomainError(w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}
