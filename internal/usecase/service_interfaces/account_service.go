package service_interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/api-sage/account-ledger/internal/domain"
	"github.com/api-sage/account-ledger/internal/usecase/services"
)

type AccountService interface {
	CreateAccount(ctx context.Context, in services.CreateAccountInput) (domain.Account, error)
	GetAccount(ctx context.Context, accountNumber int) (domain.Account, []domain.Transaction, error)
	Deposit(ctx context.Context, accountNumber int, amount decimal.Decimal) (domain.Account, error)
	Withdraw(ctx context.Context, accountNumber int, amount decimal.Decimal) (domain.Account, error)
	ModifyAccount(ctx context.Context, accountNumber int, in services.ModifyAccountInput) (domain.Account, []string, error)
	CloseAccount(ctx context.Context, accountNumber int, confirmed bool) (domain.Account, error)
	ListAccounts(ctx context.Context, order services.SortOrder) ([]domain.Account, error)
}
