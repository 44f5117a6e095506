package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/fincontrol/internal/adapter/http/dto"
	"github.com/iho/fincontrol/internal/domain"
	"github.com/iho/fincontrol/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	CreateTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, ownerID, id string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, q domain.TransactionQuery) ([]*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, input usecase.UpdateTransactionInput) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, ownerID, id string) error
	DuplicateTransaction(ctx context.Context, ownerID, id string, date *time.Time) (*domain.Transaction, error)
}

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	txUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(txUC TransactionService) *TransactionHandler {
	return &TransactionHandler{txUC: txUC}
}

// Create books a transaction.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	input, err := req.ToUseCaseInput(ownerID(r))
	if err != nil {
		respondError(w, err)
		return
	}

	tx, err := h.txUC.CreateTransaction(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(tx))
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	tx, err := h.txUC.GetTransaction(r.Context(), ownerID(r), id)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(tx))
}

// List lists transactions, newest first, filtered by account, category,
// kind and date range.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := transactionQuery(r)
	if err != nil {
		respondError(w, err)
		return
	}

	txs, err := h.txUC.ListTransactions(r.Context(), q)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NewListResponse(dto.TransactionsFromDomain(txs)))
}

func transactionQuery(r *http.Request) (domain.TransactionQuery, error) {
	params := r.URL.Query()
	q := domain.TransactionQuery{
		OwnerID:    ownerID(r),
		AccountID:  params.Get("account_id"),
		CategoryID: params.Get("category_id"),
		Kind:       domain.TransactionKind(params.Get("kind")),
	}
	if q.Kind != "" && !q.Kind.IsValid() {
		return q, domain.ErrInvalidTransactionKind
	}

	period, err := parsePeriodQuery(r)
	if err != nil {
		return q, err
	}
	if period != nil {
		q.StartDate = &period.StartDate
		q.EndDate = &period.EndDate
	}

	limit, err := parseIntQuery(r, "limit", 0)
	if err != nil {
		return q, err
	}
	offset, err := parseIntQuery(r, "offset", 0)
	if err != nil {
		return q, err
	}
	q.Limit, q.Offset = domain.NormalizePagination(limit, offset)
	return q, nil
}

// Update applies partial changes to a transaction.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.UpdateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	input, err := req.ToUseCaseInput(ownerID(r), id)
	if err != nil {
		respondError(w, err)
		return
	}

	tx, err := h.txUC.UpdateTransaction(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(tx))
}

// Delete soft-deletes a transaction.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.txUC.DeleteTransaction(r.Context(), ownerID(r), id); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Duplicate copies a transaction, optionally to another date. The body is
// optional.
func (h *TransactionHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req dto.DuplicateTransactionRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	date, err := req.ParsedDate()
	if err != nil {
		respondError(w, err)
		return
	}

	tx, err := h.txUC.DuplicateTransaction(r.Context(), ownerID(r), id, date)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(tx))
}
