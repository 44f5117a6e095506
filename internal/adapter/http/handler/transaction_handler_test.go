package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fincontrol/internal/domain"
	"github.com/iho/fincontrol/internal/usecase"
)

type transactionServiceStub struct {
	createFn    func(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	listFn      func(ctx context.Context, q domain.TransactionQuery) ([]*domain.Transaction, error)
	updateFn    func(ctx context.Context, input usecase.UpdateTransactionInput) (*domain.Transaction, error)
	duplicateFn func(ctx context.Context, ownerID, id string, date *time.Time) (*domain.Transaction, error)
}

func (s *transactionServiceStub) CreateTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error) {
	return s.createFn(ctx, input)
}

func (s *transactionServiceStub) GetTransaction(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
	return nil, domain.ErrTransactionNotFound
}

func (s *transactionServiceStub) ListTransactions(ctx context.Context, q domain.TransactionQuery) ([]*domain.Transaction, error) {
	return s.listFn(ctx, q)
}

func (s *transactionServiceStub) UpdateTransaction(ctx context.Context, input usecase.UpdateTransactionInput) (*domain.Transaction, error) {
	return s.updateFn(ctx, input)
}

func (s *transactionServiceStub) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	return nil
}

func (s *transactionServiceStub) DuplicateTransaction(ctx context.Context, ownerID, id string, date *time.Time) (*domain.Transaction, error) {
	return s.duplicateFn(ctx, ownerID, id, date)
}

func TestTransactionHandler_Create(t *testing.T) {
	var captured usecase.CreateTransactionInput
	handler := NewTransactionHandler(&transactionServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error) {
			captured = input
			return &domain.Transaction{ID: testID, Kind: input.Kind, Amount: input.Amount, Date: input.Date}, nil
		},
	})

	rr := serve(handler.Create, http.MethodPost, "/transactions", map[string]any{
		"account_id":  "acc",
		"category_id": "cat",
		"kind":        "expense",
		"amount":      "150.00",
		"description": "Groceries",
		"date":        "2025-03-05",
	}, nil)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if captured.OwnerID != testOwner || !captured.Amount.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("unexpected input %+v", captured)
	}
}

func TestTransactionHandler_CreateRejectsBadDate(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error) {
			t.Fatalf("use case should not be called")
			return nil, nil
		},
	})

	rr := serve(handler.Create, http.MethodPost, "/transactions", map[string]any{"date": "05/03/2025"}, nil)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestTransactionHandler_CreateOverdraft(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error) {
			return nil, domain.ErrNegativeBalanceNotAllowed
		},
	})

	rr := serve(handler.Create, http.MethodPost, "/transactions", map[string]any{"kind": "expense"}, nil)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestTransactionHandler_ListQuery(t *testing.T) {
	var captured domain.TransactionQuery
	handler := NewTransactionHandler(&transactionServiceStub{
		listFn: func(ctx context.Context, q domain.TransactionQuery) ([]*domain.Transaction, error) {
			captured = q
			return nil, nil
		},
	})

	rr := serve(handler.List, http.MethodGet,
		"/transactions?kind=income&account_id=acc&start_date=2025-01-01&end_date=2025-01-31&limit=10&offset=20", nil, nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if captured.OwnerID != testOwner || captured.Kind != domain.TransactionKindIncome || captured.AccountID != "acc" {
		t.Fatalf("unexpected query %+v", captured)
	}
	if captured.Limit != 10 || captured.Offset != 20 || captured.StartDate == nil || captured.EndDate == nil {
		t.Fatalf("unexpected paging %+v", captured)
	}
	if rr.Body.String() != "{\"items\":[],\"total\":0}\n" {
		t.Fatalf("unexpected body %q", rr.Body.String())
	}
}

func TestTransactionHandler_ListRejectsUnknownKind(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{})

	rr := serve(handler.List, http.MethodGet, "/transactions?kind=transfer", nil, nil)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestTransactionHandler_Duplicate(t *testing.T) {
	var gotDate *time.Time
	handler := NewTransactionHandler(&transactionServiceStub{
		duplicateFn: func(ctx context.Context, ownerID, id string, date *time.Time) (*domain.Transaction, error) {
			gotDate = date
			return &domain.Transaction{ID: "copy"}, nil
		},
	})

	rr := serve(handler.Duplicate, http.MethodPost, "/transactions/"+testID+"/duplicate", nil, withID())
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotDate != nil {
		t.Fatalf("expected original date to be kept")
	}

	serve(handler.Duplicate, http.MethodPost, "/transactions/"+testID+"/duplicate", map[string]any{"date": "2025-04-01"}, withID())
	if gotDate == nil || gotDate.Month() != time.April {
		t.Fatalf("expected the requested date, got %v", gotDate)
	}
}

func TestTransactionHandler_GetNotFound(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{})

	rr := serve(handler.Get, http.MethodGet, "/transactions/"+testID, nil, withID())

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}
