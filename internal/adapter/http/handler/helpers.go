package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/vietacct/ledgerkit/internal/adapter/http/dto"
	"github.com/vietacct/ledgerkit/internal/domain"
	"github.com/vietacct/ledgerkit/internal/usecase"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes. Validation
// failures are 400, missing entities 404, state conflicts 409.
func mapDomainError(err error) int {
	var (
		notBalanced  *domain.NotBalancedError
		invalidInput *domain.InvalidInputError
		invalidRate  *domain.InvalidRateError
		mismatch     *domain.CurrencyMismatchError
		signed       *domain.AlreadySignedError
		immutable    *domain.ImmutableVoucherError
		locked       *domain.PeriodLockedError
		insufficient *domain.InsufficientStockError
		conflict     *domain.ConcurrentModificationError
	)

	switch {
	case errors.Is(err, domain.ErrVoucherNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrPeriodNotFound),
		errors.Is(err, domain.ErrJournalNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrCurrencyNotFound):
		return http.StatusNotFound
	case errors.As(err, &notBalanced),
		errors.As(err, &invalidInput),
		errors.As(err, &invalidRate),
		errors.As(err, &mismatch):
		return http.StatusBadRequest
	case errors.As(err, &signed),
		errors.As(err, &immutable),
		errors.As(err, &locked),
		errors.As(err, &insufficient),
		errors.As(err, &conflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// actorFrom builds the audit actor from request headers. UserID comes
// from the authenticated identity header set upstream.
func actorFrom(r *http.Request) usecase.Actor {
	return usecase.Actor{
		UserID:    r.Header.Get("X-User-ID"),
		UserIP:    r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
}
