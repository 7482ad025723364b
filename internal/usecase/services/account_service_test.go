package services_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/account-ledger/internal/adapter/repository/flatfile"
	"github.com/api-sage/account-ledger/internal/domain"
	"github.com/api-sage/account-ledger/internal/usecase/services"
)

type testLedger struct {
	accounts *services.AccountService
	transfer *services.TransferService
	interest *services.InterestService
	index    *services.AccountIndex
	translog *flatfile.TransLog
	dataFile string
	logFile  string
}

func newTestLedger(t *testing.T) *testLedger {
	t.Helper()

	dir := t.TempDir()
	dataFile := filepath.Join(dir, "accounts.dat")
	logFile := filepath.Join(dir, "transactions.txt")

	var gate sync.Mutex
	store := flatfile.NewStore(dataFile)
	translog := flatfile.NewTransLog(logFile)
	index := services.NewAccountIndex(store)

	return &testLedger{
		accounts: services.NewAccountService(&gate, store, index, translog),
		transfer: services.NewTransferService(&gate, store, index, translog),
		interest: services.NewInterestService(&gate, store, translog),
		index:    index,
		translog: translog,
		dataFile: dataFile,
		logFile:  logFile,
	}
}

func (l *testLedger) mustCreate(t *testing.T, accType string, balance string) domain.Account {
	t.Helper()
	account, err := l.accounts.CreateAccount(context.Background(), services.CreateAccountInput{
		HolderName:     "Test Holder",
		Type:           accType,
		Phone:          "555-0100",
		Address:        "1 Main St",
		InitialBalance: decimal.RequireFromString(balance),
	})
	require.NoError(t, err)
	return account
}

func TestCreateAccountAssignsNumbersFrom1001(t *testing.T) {
	ledger := newTestLedger(t)

	first := ledger.mustCreate(t, "savings", "100.00")
	second := ledger.mustCreate(t, "Current", "0.00")

	assert.Equal(t, 1001, first.Number)
	assert.Equal(t, 1002, second.Number)
	assert.Equal(t, domain.AccountTypeSavings, first.Type)
	assert.Equal(t, domain.AccountTypeCurrent, second.Type)
}

func TestCreateAccountValidation(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.accounts.CreateAccount(ctx, services.CreateAccountInput{
		Type:           "Savings",
		InitialBalance: decimal.Zero,
	})
	assert.Error(t, err, "holder name is required")

	_, err = ledger.accounts.CreateAccount(ctx, services.CreateAccountInput{
		HolderName:     "X",
		Type:           "Checking",
		InitialBalance: decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAccountType)

	_, err = ledger.accounts.CreateAccount(ctx, services.CreateAccountInput{
		HolderName:     "X",
		Type:           "Savings",
		InitialBalance: decimal.RequireFromString("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestDepositAddsAmountAndLogs(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	account := ledger.mustCreate(t, "Savings", "100.00")

	updated, err := ledger.accounts.Deposit(ctx, account.Number, decimal.RequireFromString("25.50"))
	require.NoError(t, err)
	assert.True(t, updated.Balance.Equal(decimal.RequireFromString("125.50")))

	entries, err := ledger.translog.RecentFor(ctx, account.Number, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2) // CREATE then DEPOSIT
	assert.Equal(t, domain.TransactionDeposit, entries[1].Kind)
	assert.True(t, entries[1].ResultingBalance.Equal(decimal.RequireFromString("125.50")))
}

func TestDepositErrors(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	_, err := ledger.accounts.Deposit(ctx, 9999, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	account := ledger.mustCreate(t, "Savings", "100.00")

	_, err = ledger.accounts.Deposit(ctx, account.Number, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = ledger.accounts.CloseAccount(ctx, account.Number, true)
	require.NoError(t, err)

	_, err = ledger.accounts.Deposit(ctx, account.Number, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, domain.ErrAccountClosed)
}

func TestWithdrawSavingsFloor(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	account := ledger.mustCreate(t, "Savings", "100.00")

	_, err := ledger.accounts.Withdraw(ctx, account.Number, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = ledger.accounts.Withdraw(ctx, account.Number, decimal.RequireFromString("100.01"))
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// state unchanged after the rejected withdrawal
	current, _, err := ledger.accounts.GetAccount(ctx, account.Number)
	require.NoError(t, err)
	assert.True(t, current.Balance.Equal(decimal.RequireFromString("100.00")))

	updated, err := ledger.accounts.Withdraw(ctx, account.Number, decimal.RequireFromString("100.00"))
	require.NoError(t, err)
	assert.True(t, updated.Balance.IsZero())
}

func TestWithdrawCurrentAllowsNegative(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	account := ledger.mustCreate(t, "Current", "50.00")

	updated, err := ledger.accounts.Withdraw(ctx, account.Number, decimal.RequireFromString("80.00"))
	require.NoError(t, err)
	assert.True(t, updated.Balance.Equal(decimal.RequireFromString("-30.00")))
}

func TestCloseAccountIsTerminal(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	account := ledger.mustCreate(t, "Savings", "75.00")

	closed, err := ledger.accounts.CloseAccount(ctx, account.Number, true)
	require.NoError(t, err)
	assert.False(t, closed.Active)
	assert.True(t, closed.Balance.Equal(decimal.RequireFromString("75.00")))

	_, err = ledger.accounts.CloseAccount(ctx, account.Number, true)
	assert.ErrorIs(t, err, domain.ErrAlreadyClosed)

	entries, err := ledger.translog.RecentFor(ctx, account.Number, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.TransactionClose, entries[1].Kind)
	assert.True(t, entries[1].Amount.IsZero())
	assert.True(t, entries[1].ResultingBalance.Equal(decimal.RequireFromString("75.00")))
}

func TestCloseAccountRequiresConfirmation(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	account := ledger.mustCreate(t, "Savings", "10.00")

	_, err := ledger.accounts.CloseAccount(ctx, account.Number, false)
	require.Error(t, err)

	current, _, err := ledger.accounts.GetAccount(ctx, account.Number)
	require.NoError(t, err)
	assert.True(t, current.Active)
}

func TestModifyAccountPartialApply(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	account := ledger.mustCreate(t, "Savings", "10.00")

	// all fields empty: nothing changes, still success
	unchanged, warnings, err := ledger.accounts.ModifyAccount(ctx, account.Number, services.ModifyAccountInput{})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, account.Phone, unchanged.Phone)
	assert.Equal(t, account.Address, unchanged.Address)
	assert.Equal(t, account.Type, unchanged.Type)

	// invalid type warns but phone still commits
	updated, warnings, err := ledger.accounts.ModifyAccount(ctx, account.Number, services.ModifyAccountInput{
		Phone: "555-0199",
		Type:  "Premium",
	})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "555-0199", updated.Phone)
	assert.Equal(t, domain.AccountTypeSavings, updated.Type)

	// valid type change applies
	updated, warnings, err = ledger.accounts.ModifyAccount(ctx, account.Number, services.ModifyAccountInput{
		Type: "current",
	})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, domain.AccountTypeCurrent, updated.Type)
}

func TestOperationsSucceedWhenTransactionLogUnwritable(t *testing.T) {
	dir := t.TempDir()

	var gate sync.Mutex
	store := flatfile.NewStore(filepath.Join(dir, "accounts.dat"))
	// parent directory does not exist, so every log append fails
	translog := flatfile.NewTransLog(filepath.Join(dir, "missing", "transactions.txt"))
	index := services.NewAccountIndex(store)
	accounts := services.NewAccountService(&gate, store, index, translog)
	transfer := services.NewTransferService(&gate, store, index, translog)
	ctx := context.Background()

	source, err := accounts.CreateAccount(ctx, services.CreateAccountInput{
		HolderName:     "Test Holder",
		Type:           "Savings",
		InitialBalance: decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	dest, err := accounts.CreateAccount(ctx, services.CreateAccountInput{
		HolderName:     "Other Holder",
		Type:           "Current",
		InitialBalance: decimal.RequireFromString("50.00"),
	})
	require.NoError(t, err)

	// the dropped log entries never abort the operations, and every
	// mutation still persists
	updated, err := accounts.Deposit(ctx, source.Number, decimal.RequireFromString("25.00"))
	require.NoError(t, err)
	assert.True(t, updated.Balance.Equal(decimal.RequireFromString("125.00")))

	result, err := transfer.Transfer(ctx, source.Number, dest.Number, decimal.RequireFromString("30.00"))
	require.NoError(t, err)
	assert.True(t, result.FromAccount.Balance.Equal(decimal.RequireFromString("95.00")))
	assert.True(t, result.ToAccount.Balance.Equal(decimal.RequireFromString("80.00")))

	persisted, _, err := accounts.GetAccount(ctx, source.Number)
	require.NoError(t, err)
	assert.True(t, persisted.Balance.Equal(decimal.RequireFromString("95.00")))
}

func TestGetAccountClosedIsReported(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	account := ledger.mustCreate(t, "Savings", "10.00")
	_, err := ledger.accounts.CloseAccount(ctx, account.Number, true)
	require.NoError(t, err)

	_, _, err = ledger.accounts.GetAccount(ctx, account.Number)
	assert.ErrorIs(t, err, domain.ErrAccountClosed)
}

func TestListAccountsFiltersAndSorts(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	create := func(name, accType, balance string) domain.Account {
		account, err := ledger.accounts.CreateAccount(ctx, services.CreateAccountInput{
			HolderName:     name,
			Type:           accType,
			InitialBalance: decimal.RequireFromString(balance),
		})
		require.NoError(t, err)
		return account
	}

	create("Charlie", "Savings", "300.00")
	bravo := create("bravo", "Current", "100.00")
	create("Alice", "Savings", "200.00")

	_, err := ledger.accounts.CloseAccount(ctx, bravo.Number, true)
	require.NoError(t, err)

	byNumber, err := ledger.accounts.ListAccounts(ctx, services.SortByNumber)
	require.NoError(t, err)
	require.Len(t, byNumber, 2)
	assert.Equal(t, "Charlie", byNumber[0].HolderName)
	assert.Equal(t, "Alice", byNumber[1].HolderName)

	byName, err := ledger.accounts.ListAccounts(ctx, services.SortByName)
	require.NoError(t, err)
	assert.Equal(t, "Alice", byName[0].HolderName)
	assert.Equal(t, "Charlie", byName[1].HolderName)

	byBalance, err := ledger.accounts.ListAccounts(ctx, services.SortByBalance)
	require.NoError(t, err)
	assert.Equal(t, "Alice", byBalance[0].HolderName)
	assert.Equal(t, "Charlie", byBalance[1].HolderName)
}
