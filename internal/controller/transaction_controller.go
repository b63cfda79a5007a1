package controller

import (
	"net/http"
	"strconv"
	"time"

	domainErrors "github.com/cassiomorais/fintrack/internal/domain/errors"
	"github.com/cassiomorais/fintrack/internal/domain/transaction"
	"github.com/cassiomorais/fintrack/internal/infrastructure/observability"
	"github.com/cassiomorais/fintrack/internal/middleware"
	"github.com/cassiomorais/fintrack/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type TransactionController struct {
	transactionService *service.TransactionService
	analyticsService   *service.AnalyticsService
	metrics            *observability.Metrics
}

func NewTransactionController(
	transactionService *service.TransactionService,
	analyticsService *service.AnalyticsService,
	metrics *observability.Metrics,
) *TransactionController {
	return &TransactionController{
		transactionService: transactionService,
		analyticsService:   analyticsService,
		metrics:            metrics,
	}
}

func (h *TransactionController) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	var req CreateTransactionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			writeError(w, domainErrors.NewValidationError("date", "must be a valid date"))
			return
		}
		date = parsed
	}

	t, err := h.transactionService.Create(r.Context(), ownerID, service.CreateTransactionInput{
		Kind:        transaction.Kind(req.Kind),
		Category:    transaction.Category(req.Category),
		AmountCents: floatToCents(*req.Amount),
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		h.recordMutation("create", "error")
		writeError(w, err)
		return
	}

	h.recordMutation("create", "ok")
	if h.metrics != nil {
		h.metrics.TransactionsCreated.WithLabelValues(string(t.Kind), string(t.Category)).Inc()
	}
	writeJSON(w, http.StatusCreated, FromTransaction(t))
}

func (h *TransactionController) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "transaction not found", Code: "not_found"})
		return
	}

	var req UpdateTransactionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	in := service.UpdateTransactionInput{
		Description: req.Description,
	}
	if req.Kind != nil {
		kind := transaction.Kind(*req.Kind)
		in.Kind = &kind
	}
	if req.Category != nil {
		category := transaction.Category(*req.Category)
		in.Category = &category
	}
	if req.Amount != nil {
		cents := floatToCents(*req.Amount)
		in.AmountCents = &cents
	}
	if req.Date != nil {
		parsed, err := parseDate(*req.Date)
		if err != nil {
			writeError(w, domainErrors.NewValidationError("date", "must be a valid date"))
			return
		}
		in.Date = &parsed
	}

	t, err := h.transactionService.Update(r.Context(), id, ownerID, in)
	if err != nil {
		h.recordMutation("update", "error")
		writeError(w, err)
		return
	}

	h.recordMutation("update", "ok")
	writeJSON(w, http.StatusOK, FromTransaction(t))
}

func (h *TransactionController) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "transaction not found", Code: "not_found"})
		return
	}

	if err := h.transactionService.Delete(r.Context(), id, ownerID); err != nil {
		h.recordMutation("delete", "error")
		writeError(w, err)
		return
	}

	h.recordMutation("delete", "ok")
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *TransactionController) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	window, err := parseWindow(r)
	if err != nil {
		writeError(w, err)
		return
	}

	in := service.ListTransactionsInput{Window: window}

	if s := r.URL.Query().Get("kind"); s != "" {
		kind := transaction.Kind(s)
		if !kind.Valid() {
			writeError(w, domainErrors.NewValidationError("kind", "must be income or expense"))
			return
		}
		in.Kind = &kind
	}
	if s := r.URL.Query().Get("category"); s != "" {
		category := transaction.Category(s)
		in.Category = &category
	}
	in.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	in.PageSize, _ = strconv.Atoi(r.URL.Query().Get("pageSize"))

	result, err := h.transactionService.List(r.Context(), ownerID, in)
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]*TransactionResponse, 0, len(result.Items))
	for _, t := range result.Items {
		items = append(items, FromTransaction(t))
	}
	writeJSON(w, http.StatusOK, ListTransactionsResponse{
		Items:       items,
		TotalPages:  result.TotalPages,
		CurrentPage: result.CurrentPage,
		Total:       result.Total,
	})
}

func (h *TransactionController) Summary(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	window, err := parseWindow(r)
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := h.analyticsService.Summarize(r.Context(), ownerID, window)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]SummaryResponse{"summary": FromSummary(summary)})
}

func (h *TransactionController) recordMutation(operation, outcome string) {
	if h.metrics != nil {
		h.metrics.TransactionMutations.WithLabelValues(operation, outcome).Inc()
	}
}
