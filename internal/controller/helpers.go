package controller

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	domainErrors "github.com/cassiomorais/fintrack/internal/domain/errors"
	"github.com/cassiomorais/fintrack/internal/domain/transaction"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{domainErrors.ErrTransactionNotFound, http.StatusNotFound, "not_found"},
	{domainErrors.ErrUserNotFound, http.StatusNotFound, "not_found"},
	{domainErrors.ErrEmailTaken, http.StatusConflict, "email_taken"},
	{domainErrors.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{domainErrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{domainErrors.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: err.Error()}

	var validationErr *domainErrors.ValidationError
	if errors.As(err, &validationErr) {
		resp.Code = "validation_error"
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			resp.Code = m.code
			writeJSON(w, m.status, resp)
			return
		}
	}

	var domainErr *domainErrors.DomainError
	if errors.As(err, &domainErr) {
		resp.Code = domainErr.Code
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	// Store failures land here; never leak internals to the caller.
	log.Error().Err(err).Msg("unhandled error in handler")
	resp.Code = "internal_error"
	resp.Error = "internal server error"
	writeJSON(w, http.StatusInternalServerError, resp)
}

func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domainErrors.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			return domainErrors.NewValidationError(ve[0].Field(), ve[0].Tag()+" validation failed")
		}
		return domainErrors.NewValidationError("body", err.Error())
	}
	return nil
}

// parseDate accepts RFC 3339 timestamps or plain dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// parseWindow reads the optional startDate/endDate query parameters.
func parseWindow(r *http.Request) (transaction.Window, error) {
	var w transaction.Window
	if s := r.URL.Query().Get("startDate"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return w, domainErrors.NewValidationError("startDate", "must be a valid date")
		}
		w.Start = &t
	}
	if s := r.URL.Query().Get("endDate"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			return w, domainErrors.NewValidationError("endDate", "must be a valid date")
		}
		w.End = &t
	}
	return w, nil
}

// floatToCents converts a decimal amount to cents.
func floatToCents(f float64) int64 {
	return int64(math.Round(f * 100))
}

// centsToFloat converts cents to a two-decimal amount.
func centsToFloat(cents int64) float64 {
	return float64(cents) / 100.0
}
