package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/fincontrol/internal/adapter/http/dto"
	"github.com/iho/fincontrol/internal/domain"
	"github.com/iho/fincontrol/internal/usecase"
)

type accountServiceStub struct {
	createFn     func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	getFn        func(ctx context.Context, ownerID, id string) (*domain.Account, error)
	listFn       func(ctx context.Context, ownerID string) ([]*domain.Account, error)
	updateFn     func(ctx context.Context, input usecase.UpdateAccountInput) (*domain.Account, error)
	deleteFn     func(ctx context.Context, ownerID, id string) error
	setPrimaryFn func(ctx context.Context, ownerID, id string) (*domain.Account, error)
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, input)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, ownerID, id string) (*domain.Account, error) {
	return s.getFn(ctx, ownerID, id)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	return s.listFn(ctx, ownerID)
}

func (s *accountServiceStub) UpdateAccount(ctx context.Context, input usecase.UpdateAccountInput) (*domain.Account, error) {
	return s.updateFn(ctx, input)
}

func (s *accountServiceStub) DeleteAccount(ctx context.Context, ownerID, id string) error {
	return s.deleteFn(ctx, ownerID, id)
}

func (s *accountServiceStub) SetPrimary(ctx context.Context, ownerID, id string) (*domain.Account, error) {
	return s.setPrimaryFn(ctx, ownerID, id)
}

func TestAccountHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateAccountInput
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			captured = input
			return &domain.Account{
				ID:             testID,
				OwnerID:        input.OwnerID,
				Name:           input.Name,
				Kind:           input.Kind,
				OpeningBalance: input.OpeningBalance,
				Balance:        input.OpeningBalance,
			}, nil
		},
	})

	rr := serve(handler.Create, http.MethodPost, "/accounts", map[string]any{
		"name":            "Main",
		"kind":            "checking",
		"opening_balance": "1500.00",
	}, nil)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if captured.OwnerID != testOwner || captured.Kind != domain.AccountKindChecking {
		t.Fatalf("unexpected input %+v", captured)
	}
	if !captured.OpeningBalance.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("unexpected opening balance %s", captured.OpeningBalance)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != testID || !resp.Balance.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestAccountHandler_Create_InvalidBody(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{})

	rr := serve(handler.Create, http.MethodPost, "/accounts", "{", nil)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestAccountHandler_Create_ValidationError(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			return nil, domain.ErrInvalidAccountKind
		},
	})

	rr := serve(handler.Create, http.MethodPost, "/accounts", map[string]any{"name": "x", "kind": "cash"}, nil)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Error != "validation_error" {
		t.Fatalf("unexpected error code %q", resp.Error)
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, ownerID, id string) (*domain.Account, error) {
			if ownerID != testOwner || id != testID {
				t.Fatalf("unexpected lookup %s/%s", ownerID, id)
			}
			return nil, domain.ErrAccountNotFound
		},
	})

	rr := serve(handler.Get, http.MethodGet, "/accounts/"+testID, nil, withID())

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestAccountHandler_List(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		listFn: func(ctx context.Context, ownerID string) ([]*domain.Account, error) {
			return []*domain.Account{
				{ID: "a", Name: "Main", IsPrimary: true},
				{ID: "b", Name: "Savings"},
			}, nil
		},
	})

	rr := serve(handler.List, http.MethodGet, "/accounts", nil, nil)

	var resp dto.ListResponse[dto.AccountResponse]
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 2 || resp.Items[0].ID != "a" || !resp.Items[0].IsPrimary {
		t.Fatalf("unexpected list %+v", resp)
	}
}

func TestAccountHandler_Update(t *testing.T) {
	var captured usecase.UpdateAccountInput
	handler := NewAccountHandler(&accountServiceStub{
		updateFn: func(ctx context.Context, input usecase.UpdateAccountInput) (*domain.Account, error) {
			captured = input
			return &domain.Account{ID: input.ID, Name: *input.Name}, nil
		},
	})

	rr := serve(handler.Update, http.MethodPut, "/accounts/"+testID, map[string]any{"name": "Renamed"}, withID())

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if captured.ID != testID || captured.Kind != nil || captured.OpeningBalance != nil {
		t.Fatalf("unexpected input %+v", captured)
	}
}

func TestAccountHandler_Delete(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "deleted", status: http.StatusNoContent},
		{name: "only account", err: domain.ErrLastAccount, status: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAccountHandler(&accountServiceStub{
				deleteFn: func(ctx context.Context, ownerID, id string) error { return tt.err },
			})

			rr := serve(handler.Delete, http.MethodDelete, "/accounts/"+testID, nil, withID())

			if rr.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rr.Code)
			}
		})
	}
}

func TestAccountHandler_SetPrimary(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		setPrimaryFn: func(ctx context.Context, ownerID, id string) (*domain.Account, error) {
			return &domain.Account{ID: id, IsPrimary: true}, nil
		},
	})

	rr := serve(handler.SetPrimary, http.MethodPatch, "/accounts/"+testID+"/primary", nil, withID())

	var resp dto.AccountResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.IsPrimary {
		t.Fatalf("expected primary account")
	}
}
