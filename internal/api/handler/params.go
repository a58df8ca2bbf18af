package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
	"tle_tracker/internal/api/middleware"
	"tle_tracker/internal/common"
	"tle_tracker/internal/domain/model"
)

func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return "", false
	}
	return userID, true
}

// parseTimeParam accepts RFC 3339 or a bare YYYY-MM-DD date. A bare date used as an upper
// bound means the end of that UTC day.
func parseTimeParam(name, value string, upper bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, dateOnly, err := model.ParseDateInput(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be RFC 3339 or YYYY-MM-DD", common.ErrValidation, name)
	}
	if dateOnly && upper {
		t = t.Add(24*time.Hour - time.Millisecond)
	}
	return &t, nil
}

func parseBoolParam(name, value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", common.ErrValidation, name)
	}
	return b, nil
}
