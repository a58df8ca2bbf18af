package common

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound             = errors.New("requested resource not found")
	ErrUnauthorized         = errors.New("unauthorized access")
	ErrBadRequest           = errors.New("bad request")
	ErrConflict             = errors.New("resource conflict")
	ErrInternalServer       = errors.New("internal server error")
	ErrValidation           = errors.New("validation failed")
	ErrMissingLinkedAccount = errors.New("no problem source username linked to this account")
	ErrUpstreamFetchFailed  = errors.New("failed to fetch from problem source")
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrValidation) || errors.Is(err, ErrMissingLinkedAccount) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	if IsUniqueViolation(err) {
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

// PublicMessage is the text a client may see for err. Unexpected errors collapse to a generic
// message so internals never leak; upstream failures keep their cause because it is actionable.
func PublicMessage(err error) string {
	switch {
	case errors.Is(err, ErrUpstreamFetchFailed):
		return err.Error()
	case HTTPStatusFromError(err) == http.StatusInternalServerError:
		return ErrInternalServer.Error()
	default:
		return err.Error()
	}
}

// IsUniqueViolation reports a Postgres unique constraint violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
