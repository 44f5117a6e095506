package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fincontrol/internal/domain"
	"github.com/iho/fincontrol/internal/usecase"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// ParseDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates, the
// latter at midnight UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, value)
	}
	return t, nil
}

// ParseMonth accepts YYYY-MM or any date ParseDate understands.
func ParseMonth(value string) (time.Time, error) {
	if t, err := time.Parse(monthLayout, strings.TrimSpace(value)); err == nil {
		return t, nil
	}
	return ParseDate(value)
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := ParseDate(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// RegisterRequest represents a sign-up request.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{Email: r.Email, Name: r.Name, Password: r.Password}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *LoginRequest) ToUseCaseInput() usecase.AuthenticateInput {
	return usecase.AuthenticateInput{Email: r.Email, Password: r.Password}
}

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	IsPrimary      bool            `json:"is_primary"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(ownerID string) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		OwnerID:        ownerID,
		Name:           r.Name,
		Kind:           domain.AccountKind(r.Kind),
		OpeningBalance: r.OpeningBalance,
		IsPrimary:      r.IsPrimary,
	}
}

// UpdateAccountRequest changes the fields that are present.
type UpdateAccountRequest struct {
	Name           *string          `json:"name,omitempty"`
	Kind           *string          `json:"kind,omitempty"`
	OpeningBalance *decimal.Decimal `json:"opening_balance,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAccountRequest) ToUseCaseInput(ownerID, id string) usecase.UpdateAccountInput {
	input := usecase.UpdateAccountInput{
		OwnerID:        ownerID,
		ID:             id,
		Name:           r.Name,
		OpeningBalance: r.OpeningBalance,
	}
	if r.Kind != nil {
		kind := domain.AccountKind(*r.Kind)
		input.Kind = &kind
	}
	return input
}

// CreateTransactionRequest represents a request to book a transaction.
type CreateTransactionRequest struct {
	AccountID           string          `json:"account_id"`
	CategoryID          string          `json:"category_id"`
	Kind                string          `json:"kind"`
	Amount              decimal.Decimal `json:"amount"`
	Description         string          `json:"description"`
	Date                string          `json:"date,omitempty"`
	IsRecurring         bool            `json:"is_recurring"`
	RecurrenceFrequency string          `json:"recurrence_frequency,omitempty"`
}

// ToUseCaseInput converts to use case input. An empty date means today.
func (r *CreateTransactionRequest) ToUseCaseInput(ownerID string) (usecase.CreateTransactionInput, error) {
	input := usecase.CreateTransactionInput{
		OwnerID:             ownerID,
		AccountID:           r.AccountID,
		CategoryID:          r.CategoryID,
		Kind:                domain.TransactionKind(r.Kind),
		Amount:              r.Amount,
		Description:         r.Description,
		IsRecurring:         r.IsRecurring,
		RecurrenceFrequency: domain.RecurrenceFrequency(r.RecurrenceFrequency),
	}
	if r.Date != "" {
		date, err := ParseDate(r.Date)
		if err != nil {
			return input, err
		}
		input.Date = date
	}
	return input, nil
}

// UpdateTransactionRequest changes the fields that are present.
type UpdateTransactionRequest struct {
	AccountID           *string          `json:"account_id,omitempty"`
	CategoryID          *string          `json:"category_id,omitempty"`
	Kind                *string          `json:"kind,omitempty"`
	Amount              *decimal.Decimal `json:"amount,omitempty"`
	Description         *string          `json:"description,omitempty"`
	Date                *string          `json:"date,omitempty"`
	IsRecurring         *bool            `json:"is_recurring,omitempty"`
	RecurrenceFrequency *string          `json:"recurrence_frequency,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateTransactionRequest) ToUseCaseInput(ownerID, id string) (usecase.UpdateTransactionInput, error) {
	input := usecase.UpdateTransactionInput{
		OwnerID:     ownerID,
		ID:          id,
		AccountID:   r.AccountID,
		CategoryID:  r.CategoryID,
		Amount:      r.Amount,
		Description: r.Description,
		IsRecurring: r.IsRecurring,
	}
	if r.Kind != nil {
		kind := domain.TransactionKind(*r.Kind)
		input.Kind = &kind
	}
	if r.RecurrenceFrequency != nil {
		freq := domain.RecurrenceFrequency(*r.RecurrenceFrequency)
		input.RecurrenceFrequency = &freq
	}
	date, err := parseOptionalDate(r.Date)
	if err != nil {
		return input, err
	}
	input.Date = date
	return input, nil
}

// DuplicateTransactionRequest optionally moves the copy to another date.
type DuplicateTransactionRequest struct {
	Date *string `json:"date,omitempty"`
}

// ParsedDate returns the requested date, or nil to keep the original one.
func (r *DuplicateTransactionRequest) ParsedDate() (*time.Time, error) {
	return parseOptionalDate(r.Date)
}

// CreateCategoryRequest represents a request to create a category.
type CreateCategoryRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCategoryRequest) ToUseCaseInput(ownerID string) usecase.CreateCategoryInput {
	return usecase.CreateCategoryInput{
		OwnerID: ownerID,
		Name:    r.Name,
		Kind:    domain.TransactionKind(r.Kind),
	}
}

// UpdateCategoryRequest renames a category.
type UpdateCategoryRequest struct {
	Name string `json:"name"`
}

// CreateGoalRequest represents a request to create a savings goal.
type CreateGoalRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Deadline      string          `json:"deadline"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateGoalRequest) ToUseCaseInput(ownerID string) (usecase.CreateGoalInput, error) {
	input := usecase.CreateGoalInput{
		OwnerID:       ownerID,
		Name:          r.Name,
		Description:   r.Description,
		TargetAmount:  r.TargetAmount,
		CurrentAmount: r.CurrentAmount,
	}
	deadline, err := ParseDate(r.Deadline)
	if err != nil {
		return input, err
	}
	input.Deadline = deadline
	return input, nil
}

// UpdateGoalRequest changes the fields that are present.
type UpdateGoalRequest struct {
	Name         *string          `json:"name,omitempty"`
	Description  *string          `json:"description,omitempty"`
	TargetAmount *decimal.Decimal `json:"target_amount,omitempty"`
	Deadline     *string          `json:"deadline,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateGoalRequest) ToUseCaseInput(ownerID, id string) (usecase.UpdateGoalInput, error) {
	input := usecase.UpdateGoalInput{
		OwnerID:      ownerID,
		ID:           id,
		Name:         r.Name,
		Description:  r.Description,
		TargetAmount: r.TargetAmount,
	}
	deadline, err := parseOptionalDate(r.Deadline)
	if err != nil {
		return input, err
	}
	input.Deadline = deadline
	return input, nil
}

// ContributeRequest adds money to a goal.
type ContributeRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// SetBudgetRequest creates or replaces a monthly budget.
type SetBudgetRequest struct {
	CategoryID string          `json:"category_id"`
	Amount     decimal.Decimal `json:"amount"`
	Month      string          `json:"month,omitempty"`
}

// ToUseCaseInput converts to use case input. An empty month means the
// current one.
func (r *SetBudgetRequest) ToUseCaseInput(ownerID string) (usecase.SetBudgetInput, error) {
	input := usecase.SetBudgetInput{
		OwnerID:    ownerID,
		CategoryID: r.CategoryID,
		Amount:     r.Amount,
	}
	if r.Month != "" {
		month, err := ParseMonth(r.Month)
		if err != nil {
			return input, err
		}
		input.Month = month
	}
	return input, nil
}
