package common

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{fmt.Errorf("lookup: %w", ErrNotFound), http.StatusNotFound},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrMissingLinkedAccount, http.StatusBadRequest},
		{fmt.Errorf("%w: id is required", ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: timeout", ErrUpstreamFetchFailed), http.StatusInternalServerError},
		{&pgconn.PgError{Code: "23505"}, http.StatusConflict},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatusFromError(tt.err), "%v", tt.err)
	}
}

func TestPublicMessage_HidesInternals(t *testing.T) {
	assert.Equal(t, "internal server error", PublicMessage(fmt.Errorf("pq: relation \"submissions\" does not exist")))
	assert.Equal(t, "failed to fetch from problem source: status 503",
		PublicMessage(fmt.Errorf("%w: status 503", ErrUpstreamFetchFailed)))
	assert.Equal(t, ErrNotFound.Error(), PublicMessage(ErrNotFound))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(nil))
}
