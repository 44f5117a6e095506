package domain

import "time"

// Category groups transactions. System categories have no owner and are
// visible to every user.
type Category struct {
	ID        string
	OwnerID   string
	Name      string
	Kind      TransactionKind
	IsSystem  bool
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VisibleTo reports whether the owner may use the category.
func (c *Category) VisibleTo(ownerID string) bool {
	if !c.IsActive {
		return false
	}
	if c.IsSystem {
		return true
	}
	return ownerID != "" && c.OwnerID == ownerID
}

// Default system categories seeded on startup.
var (
	SystemIncomeCategories = []string{
		"Salary", "Freelance", "Investments", "Rent", "Sales", "Bonus", "Other",
	}
	SystemExpenseCategories = []string{
		"Food", "Transport", "Housing", "Health", "Education", "Leisure",
		"Clothing", "Technology", "Services", "Taxes", "Other",
	}
)
