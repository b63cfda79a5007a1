package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domainErrors "github.com/cassiomorais/fintrack/internal/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "validation error",
			err:            domainErrors.NewValidationError("amount", "must be non-negative"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "validation_error",
		},
		{
			name:           "transaction not found",
			err:            domainErrors.ErrTransactionNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   "not_found",
		},
		{
			name:           "wrapped transaction not found",
			err:            fmt.Errorf("update: %w", domainErrors.ErrTransactionNotFound),
			expectedStatus: http.StatusNotFound,
			expectedCode:   "not_found",
		},
		{
			name:           "email taken",
			err:            domainErrors.ErrEmailTaken,
			expectedStatus: http.StatusConflict,
			expectedCode:   "email_taken",
		},
		{
			name:           "invalid credentials",
			err:            domainErrors.ErrInvalidCredentials,
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "invalid_credentials",
		},
		{
			name:           "domain error",
			err:            domainErrors.NewDomainError("kind_mismatch", "category does not match kind", nil),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "kind_mismatch",
		},
		{
			name:           "unknown error",
			err:            fmt.Errorf("pgx: connection refused"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedCode, resp.Code)
		})
	}
}

func TestWriteError_NeverLeaksInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, fmt.Errorf("dial tcp 10.0.0.5:5432: connect: connection refused"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "internal server error", resp.Error)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		expectedField string
	}{
		{
			name: "valid body",
			body: `{"kind":"expense","amount":25.5,"category":"food"}`,
		},
		{
			name:          "malformed JSON",
			body:          `{"kind":`,
			expectedField: "body",
		},
		{
			name:          "missing kind",
			body:          `{"amount":25.5,"category":"food"}`,
			expectedField: "Kind",
		},
		{
			name:          "unknown kind",
			body:          `{"kind":"transfer","amount":25.5,"category":"food"}`,
			expectedField: "Kind",
		},
		{
			name:          "missing amount",
			body:          `{"kind":"expense","category":"food"}`,
			expectedField: "Amount",
		},
		{
			name:          "negative amount",
			body:          `{"kind":"expense","amount":-1,"category":"food"}`,
			expectedField: "Amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst CreateTransactionRequest
			err := decodeAndValidate(req, &dst)

			if tt.expectedField == "" {
				assert.NoError(t, err)
				return
			}
			var validationErr *domainErrors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.expectedField, validationErr.Field)
		})
	}
}

func TestDecodeAndValidate_ZeroAmountPasses(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"kind":"expense","amount":0,"category":"food"}`))
	var dst CreateTransactionRequest
	require.NoError(t, decodeAndValidate(req, &dst))
	require.NotNil(t, dst.Amount)
	assert.Zero(t, *dst.Amount)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  time.Time
		expectErr bool
	}{
		{
			name:     "rfc3339",
			input:    "2026-05-10T14:30:00Z",
			expected: time.Date(2026, time.May, 10, 14, 30, 0, 0, time.UTC),
		},
		{
			name:     "plain date",
			input:    "2026-05-10",
			expected: time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "garbage",
			input:     "10/05/2026",
			expectErr: true,
		},
		{
			name:      "empty",
			input:     "",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := parseDate(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(parsed))
		})
	}
}

func TestParseWindow(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?startDate=2026-05-01&endDate=2026-05-31", nil)
	w, err := parseWindow(req)
	require.NoError(t, err)
	require.NotNil(t, w.Start)
	require.NotNil(t, w.End)
	assert.Equal(t, time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC), *w.Start)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	w, err = parseWindow(req)
	require.NoError(t, err)
	assert.Nil(t, w.Start)
	assert.Nil(t, w.End)

	req = httptest.NewRequest(http.MethodGet, "/?startDate=notadate", nil)
	_, err = parseWindow(req)
	var validationErr *domainErrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "startDate", validationErr.Field)
}

func TestMoneyConversion(t *testing.T) {
	tests := []struct {
		amount float64
		cents  int64
	}{
		{amount: 0, cents: 0},
		{amount: 25.5, cents: 2550},
		{amount: 100.10, cents: 10010},
		{amount: 0.01, cents: 1},
		{amount: 1234.56, cents: 123456},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.cents, floatToCents(tt.amount))
		assert.Equal(t, tt.amount, centsToFloat(tt.cents))
	}

	// floating point representation must not shave a cent
	assert.Equal(t, int64(2999), floatToCents(29.99))
}
