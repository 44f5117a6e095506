package domain

import "errors"

var (
	// Account errors
	ErrNegativeBalanceNotAllowed = errors.New("account does not allow negative balance")
	ErrAccountNotFound           = errors.New("account not found")
	ErrAccountNameTaken          = errors.New("account name already in use")
	ErrLastAccount               = errors.New("cannot delete the only account")

	// Transaction errors
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrCategoryKindMismatch = errors.New("category kind does not match transaction kind")

	// Category errors
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryNameTaken = errors.New("category name already in use")
	ErrSystemCategory    = errors.New("system categories cannot be modified")
	ErrCategoryInUse     = errors.New("category has transactions")

	// Goal errors
	ErrGoalNotFound              = errors.New("goal not found")
	ErrGoalCompleted             = errors.New("goal already completed")
	ErrContributionExceedsTarget = errors.New("contribution exceeds goal target")

	// Budget errors
	ErrBudgetNotFound = errors.New("budget not found")

	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")

	// ErrDataUnavailable marks a store failure surfaced by a read model.
	ErrDataUnavailable = errors.New("data unavailable")
)
