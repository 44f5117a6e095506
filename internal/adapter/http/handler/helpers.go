package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/fincontrol/internal/adapter/http/dto"
	"github.com/iho/fincontrol/internal/adapter/http/middleware"
	"github.com/iho/fincontrol/internal/domain"
)

const maxBodyBytes = 1 << 20

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

// respondError maps err to a status and writes it. Internal errors do not
// leak their text.
func respondError(w http.ResponseWriter, err error) {
	status, code := mapDomainError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	writeError(w, status, code, message)
}

var (
	notFoundErrors = []error{
		domain.ErrAccountNotFound,
		domain.ErrTransactionNotFound,
		domain.ErrCategoryNotFound,
		domain.ErrGoalNotFound,
		domain.ErrBudgetNotFound,
		domain.ErrUserNotFound,
	}
	conflictErrors = []error{
		domain.ErrAccountNameTaken,
		domain.ErrLastAccount,
		domain.ErrCategoryNameTaken,
		domain.ErrSystemCategory,
		domain.ErrCategoryInUse,
		domain.ErrGoalCompleted,
		domain.ErrEmailTaken,
	}
	validationErrors = []error{
		domain.ErrNegativeBalanceNotAllowed,
		domain.ErrInvalidAmount,
		domain.ErrCategoryKindMismatch,
		domain.ErrContributionExceedsTarget,
		domain.ErrInvalidAccountName,
		domain.ErrInvalidAccountKind,
		domain.ErrInvalidTransactionKind,
		domain.ErrInvalidDescription,
		domain.ErrInvalidRecurrence,
		domain.ErrInvalidCategoryName,
		domain.ErrInvalidGoal,
		domain.ErrInvalidDeadline,
		domain.ErrAmountTooLarge,
		domain.ErrAmountPrecision,
		domain.ErrInvalidEmail,
		domain.ErrPasswordTooWeak,
		domain.ErrInvalidIDFormat,
		domain.ErrInvalidUserName,
		domain.ErrInvalidFilter,
		domain.ErrInvalidDate,
	}
	authErrors = []error{
		domain.ErrUnauthorized,
		domain.ErrInvalidToken,
		domain.ErrExpiredToken,
		domain.ErrInvalidCredentials,
	}
)

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// mapDomainError maps domain errors to HTTP status codes and an error code.
func mapDomainError(err error) (int, string) {
	switch {
	case isAny(err, notFoundErrors):
		return http.StatusNotFound, "not_found"
	case isAny(err, conflictErrors):
		return http.StatusConflict, "conflict"
	case isAny(err, validationErrors):
		return http.StatusBadRequest, "validation_error"
	case isAny(err, authErrors):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrDataUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("request body is empty")
		}
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}

// pathID returns the {id} URL parameter when it is a well-formed ID.
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if err := domain.ValidateID(id); err != nil {
		respondError(w, err)
		return "", false
	}
	return id, true
}

// ownerID returns the authenticated owner. Routes behind the auth
// middleware always have one.
func ownerID(r *http.Request) string {
	return middleware.OwnerID(r.Context())
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) (int, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidFilter, key)
	}
	return i, nil
}

// parseBoolQuery parses a boolean query parameter with a default value.
func parseBoolQuery(r *http.Request, key string, defaultValue bool) (bool, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", domain.ErrInvalidFilter, key)
	}
	return b, nil
}

// parsePeriodQuery reads start_date and end_date. Both or neither must be
// given; nil means the caller's default window.
func parsePeriodQuery(r *http.Request) (*domain.PeriodFilter, error) {
	q := r.URL.Query()
	start, end := q.Get("start_date"), q.Get("end_date")
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, fmt.Errorf("%w: start_date and end_date must be given together", domain.ErrInvalidFilter)
	}

	startDate, err := dto.ParseDate(start)
	if err != nil {
		return nil, err
	}
	endDate, err := dto.ParseDate(end)
	if err != nil {
		return nil, err
	}
	if len(end) == len("2006-01-02") {
		endDate = endDate.Add(24*time.Hour - time.Nanosecond)
	}
	if startDate.After(endDate) {
		return nil, fmt.Errorf("%w: start_date must not be after end_date", domain.ErrInvalidFilter)
	}
	return &domain.PeriodFilter{StartDate: startDate, EndDate: endDate}, nil
}
