package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"tle_tracker/internal/api/middleware"
	"tle_tracker/internal/app/service"
	"tle_tracker/internal/common"
	"tle_tracker/internal/domain/model"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
	log               *zap.Logger
}

func NewSubmissionHandler(ss *service.SubmissionService, log *zap.Logger) *SubmissionHandler {
	return &SubmissionHandler{submissionService: ss, log: log}
}

func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator) // All submission routes require auth
	r.Get("/", h.listSubmissions)
	r.Patch("/", h.updateSubmission)
	r.Get("/{submissionID}", h.getSubmission)
	r.Post("/{submissionID}/refresh-metadata", h.refreshMetadata)
}

type submissionsResponse struct {
	Submissions []model.Submission `json:"submissions"`
}

type updateSubmissionResponse struct {
	Message    string            `json:"message"`
	Success    bool              `json:"success"`
	Submission *model.Submission `json:"submission"`
}

func (h *SubmissionHandler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	filter, err := parseSubmissionFilter(r)
	if err != nil {
		common.RespondWithDomainError(w, h.log, err)
		return
	}

	subs, err := h.submissionService.List(r.Context(), userID, filter)
	if err != nil {
		common.RespondWithDomainError(w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submissionsResponse{Submissions: subs})
}

func (h *SubmissionHandler) getSubmission(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	sub, err := h.submissionService.Get(r.Context(), userID, chi.URLParam(r, "submissionID"))
	if err != nil {
		common.RespondWithDomainError(w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sub)
}

func (h *SubmissionHandler) updateSubmission(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req service.UpdateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if req.ID == "" {
		common.RespondWithError(w, http.StatusBadRequest, "ID required")
		return
	}

	sub, err := h.submissionService.Update(r.Context(), userID, req)
	if err != nil {
		common.RespondWithDomainError(w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, updateSubmissionResponse{
		Message:    "Submission updated successfully",
		Success:    true,
		Submission: sub,
	})
}

func (h *SubmissionHandler) refreshMetadata(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	sub, err := h.submissionService.RefreshMetadata(r.Context(), userID, chi.URLParam(r, "submissionID"))
	if err != nil {
		common.RespondWithDomainError(w, h.log, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, sub)
}

func parseSubmissionFilter(r *http.Request) (model.SubmissionFilter, error) {
	q := r.URL.Query()
	var f model.SubmissionFilter
	var err error

	if f.StartDate, err = parseTimeParam("startDate", q.Get("startDate"), false); err != nil {
		return f, err
	}
	if f.EndDate, err = parseTimeParam("endDate", q.Get("endDate"), true); err != nil {
		return f, err
	}

	if st := q.Get("solveType"); st != "" && st != "all" {
		solveType := model.SolveType(st)
		if !solveType.Valid() {
			return f, fmt.Errorf("%w: unknown solveType %q", common.ErrValidation, st)
		}
		f.SolveType = &solveType
	}

	switch mode := model.SubmissionListMode(q.Get("mode")); mode {
	case "", model.ModeSubmissions:
		f.Mode = model.ModeSubmissions
	case model.ModeReminders:
		f.Mode = model.ModeReminders
	default:
		return f, fmt.Errorf("%w: unknown mode %q", common.ErrValidation, mode)
	}

	if f.PendingReminders, err = parseBoolParam("pendingReminders", q.Get("pendingReminders")); err != nil {
		return f, err
	}
	target, err := parseTimeParam("targetDate", q.Get("targetDate"), true)
	if err != nil {
		return f, err
	}
	if target != nil {
		f.TargetDate = *target
	}
	if f.NeedsMetadata, err = parseBoolParam("needsMetadata", q.Get("needsMetadata")); err != nil {
		return f, err
	}
	return f, nil
}
