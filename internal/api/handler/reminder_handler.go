package handler

import (
	"encoding/json"
	"net/http"
	"tle_tracker/internal/api/middleware"
	"tle_tracker/internal/app/service"
	"tle_tracker/internal/common"
	"tle_tracker/internal/domain/model"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ReminderHandler serves the simplified reminder endpoints kept for older clients;
// GET /submissions?pendingReminders=true covers the same ground.
type ReminderHandler struct {
	reminderService *service.ReminderService
	log             *zap.Logger
}

func NewReminderHandler(rs *service.ReminderService, log *zap.Logger) *ReminderHandler {
	return &ReminderHandler{reminderService: rs, log: log}
}

func (h *ReminderHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/", h.listReminders)
	r.Patch("/", h.updateReminder)
}

func (h *ReminderHandler) listReminders(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	reminders, err := h.reminderService.ListDue(r.Context(), userID)
	if err != nil {
		common.RespondWithDomainError(w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string][]model.Submission{"reminders": reminders})
}

func (h *ReminderHandler) updateReminder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req service.ReminderActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	sub, err := h.reminderService.Apply(r.Context(), userID, req)
	if err != nil {
		common.RespondWithDomainError(w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, updateSubmissionResponse{
		Message:    "Reminder updated successfully",
		Success:    true,
		Submission: sub,
	})
}
