package usecase_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/iho/fincontrol/internal/adapter/repository/memory"
	"github.com/iho/fincontrol/internal/domain"
	"github.com/iho/fincontrol/internal/infrastructure/metrics"
	"github.com/iho/fincontrol/internal/usecase"
)

// stack wires the use cases over the in-memory stores.
type stack struct {
	txRepo       *memory.TransactionRepository
	accountRepo  *memory.AccountRepository
	categoryRepo *memory.CategoryRepository
	metrics      *metrics.Metrics

	accounts     *usecase.AccountUseCase
	transactions *usecase.TransactionUseCase
	categories   *usecase.CategoryUseCase
	goals        *usecase.GoalUseCase
	budgets      *usecase.BudgetUseCase
	users        *usecase.UserUseCase
	dashboard    *usecase.DashboardUseCase
}

func newStack(t *testing.T) *stack {
	t.Helper()

	s := &stack{
		txRepo:       memory.NewTransactionRepository(),
		accountRepo:  memory.NewAccountRepository(),
		categoryRepo: memory.NewCategoryRepository(),
		metrics:      metrics.NewWithRegistry(prometheus.NewRegistry()),
	}
	ids := memory.NewUUIDGenerator()
	locker := memory.NewOwnerLock()

	s.accounts = usecase.NewAccountUseCase(s.accountRepo, s.txRepo, locker, ids, s.metrics)
	s.transactions = usecase.NewTransactionUseCase(s.txRepo, s.accountRepo, s.categoryRepo, locker, ids, s.metrics)
	s.categories = usecase.NewCategoryUseCase(s.categoryRepo, s.txRepo, ids)
	s.goals = usecase.NewGoalUseCase(memory.NewGoalRepository(), ids)
	s.budgets = usecase.NewBudgetUseCase(memory.NewBudgetRepository(), s.categoryRepo, s.txRepo, ids)
	s.users = usecase.NewUserUseCase(memory.NewUserRepository(), ids)

	analytics := usecase.NewAnalyticsUseCase(s.txRepo, s.accountRepo, zerolog.Nop(), s.metrics)
	s.dashboard = usecase.NewDashboardUseCase(s.txRepo, s.accountRepo, s.categoryRepo, analytics, zerolog.Nop(), s.metrics)

	_, err := s.categories.SeedSystemCategories(context.Background())
	require.NoError(t, err)
	return s
}

func (s *stack) category(t *testing.T, name string, kind domain.TransactionKind) string {
	t.Helper()
	category, err := s.categoryRepo.GetByName(context.Background(), owner, name, kind)
	require.NoError(t, err)
	return category.ID
}

func (s *stack) account(t *testing.T, name string, kind domain.AccountKind, opening string) *domain.Account {
	t.Helper()
	account, err := s.accounts.CreateAccount(context.Background(), usecase.CreateAccountInput{
		OwnerID:        owner,
		Name:           name,
		Kind:           kind,
		OpeningBalance: dec(opening),
	})
	require.NoError(t, err)
	return account
}
