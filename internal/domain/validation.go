package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountName     = errors.New("invalid account name")
	ErrInvalidAccountKind     = errors.New("invalid account kind")
	ErrInvalidTransactionKind = errors.New("invalid transaction kind")
	ErrInvalidDescription     = errors.New("invalid description")
	ErrInvalidRecurrence      = errors.New("invalid recurrence")
	ErrInvalidCategoryName    = errors.New("invalid category name")
	ErrInvalidGoal            = errors.New("invalid goal")
	ErrInvalidDeadline        = errors.New("deadline must be in the future")
	ErrAmountTooLarge         = errors.New("amount exceeds maximum allowed")
	ErrAmountPrecision        = errors.New("amount has more than 2 decimal places")
	ErrInvalidEmail           = errors.New("invalid email format")
	ErrPasswordTooWeak        = errors.New("password does not meet requirements")
	ErrInvalidIDFormat        = errors.New("invalid ID format")
	ErrInvalidUserName        = errors.New("invalid user name")
	ErrInvalidFilter          = errors.New("invalid filter")
	ErrInvalidDate            = errors.New("invalid date")
)

// Validation constants
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 500
	MaxAmount            = "1000000000000" // 1 trillion
	MaxAmountScale       = 2
	MinPasswordLength    = 8
	MaxPasswordLength    = 128
)

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	upperRegex  = regexp.MustCompile(`[A-Z]`)
	lowerRegex  = regexp.MustCompile(`[a-z]`)
	numberRegex = regexp.MustCompile(`[0-9]`)
	maxAmount   = decimal.RequireFromString(MaxAmount)
)

// ValidateName validates a display name for accounts, categories and goals.
func ValidateName(name string, kind error) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", kind)
	}

	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", kind, MaxNameLength)
	}

	return nil
}

// ValidateAccountName validates account name
func ValidateAccountName(name string) error {
	return ValidateName(name, ErrInvalidAccountName)
}

// ValidateAmount validates a transaction, goal or budget amount
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	if !amount.Equal(amount.Truncate(MaxAmountScale)) {
		return ErrAmountPrecision
	}

	return nil
}

// ValidateDescription validates a transaction description.
func ValidateDescription(description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return fmt.Errorf("%w: description cannot be empty", ErrInvalidDescription)
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidDescription, MaxDescriptionLength)
	}
	return nil
}

// ValidateRecurrence enforces that a frequency is set iff the transaction recurs.
func ValidateRecurrence(recurring bool, frequency RecurrenceFrequency) error {
	if recurring && !frequency.IsValid() {
		return fmt.Errorf("%w: recurring transactions need a frequency", ErrInvalidRecurrence)
	}
	if !recurring && frequency != "" {
		return fmt.Errorf("%w: frequency set on a non-recurring transaction", ErrInvalidRecurrence)
	}
	return nil
}

// ValidateDeadline checks the deadline lies after now.
func ValidateDeadline(deadline, now time.Time) error {
	if !deadline.After(now) {
		return ErrInvalidDeadline
	}
	return nil
}

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidatePassword validates password strength
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}

	if !upperRegex.MatchString(password) || !lowerRegex.MatchString(password) || !numberRegex.MatchString(password) {
		return fmt.Errorf("%w: must contain uppercase, lowercase, and numbers", ErrPasswordTooWeak)
	}

	return nil
}

// ValidateID checks that id is UUID-shaped.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidIDFormat, id)
	}
	return nil
}

// NormalizePagination clamps pagination parameters to the default and
// maximum page size and a non-negative offset.
func NormalizePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
