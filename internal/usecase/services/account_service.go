package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/account-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/account-ledger/internal/domain"
	"github.com/api-sage/account-ledger/internal/logger"
)

// recentTransactionLimit caps the history shown with an account.
const recentTransactionLimit = 10

type SortOrder string

const (
	SortByNumber  SortOrder = "number"
	SortByName    SortOrder = "name"
	SortByBalance SortOrder = "balance"
)

type CreateAccountInput struct {
	HolderName     string
	Type           string
	Phone          string
	Address        string
	InitialBalance decimal.Decimal
}

func (in CreateAccountInput) Validate() error {
	if strings.TrimSpace(in.HolderName) == "" {
		return fmt.Errorf("holder name is required")
	}
	if _, err := domain.ParseAccountType(in.Type); err != nil {
		return err
	}
	if in.InitialBalance.IsNegative() {
		return fmt.Errorf("%w: initial balance cannot be negative", domain.ErrInvalidAmount)
	}
	return nil
}

type ModifyAccountInput struct {
	Phone   string
	Address string
	Type    string
}

// AccountService implements the single-account read-validate-mutate-
// write cycle. Each operation re-reads the record before mutating, so
// no stale in-memory copy survives across operations. All mutations
// run under the shared gate (single-writer model).
type AccountService struct {
	gate     *sync.Mutex
	store    repo_interfaces.RecordStore
	index    *AccountIndex
	translog repo_interfaces.TransactionLog
}

func NewAccountService(
	gate *sync.Mutex,
	store repo_interfaces.RecordStore,
	index *AccountIndex,
	translog repo_interfaces.TransactionLog,
) *AccountService {
	return &AccountService{
		gate:     gate,
		store:    store,
		index:    index,
		translog: translog,
	}
}

func (s *AccountService) CreateAccount(ctx context.Context, in CreateAccountInput) (domain.Account, error) {
	logger.Info("account service create account request", logger.Fields{
		"holderName": strings.TrimSpace(in.HolderName),
		"type":       in.Type,
	})

	if err := in.Validate(); err != nil {
		logger.Error("account service create account validation failed", err, nil)
		return domain.Account{}, err
	}

	accountType, _ := domain.ParseAccountType(in.Type)

	s.gate.Lock()
	defer s.gate.Unlock()

	number, err := s.index.NextAccountNumber(ctx)
	if err != nil {
		logger.Error("account service next account number failed", err, nil)
		return domain.Account{}, err
	}

	account := domain.Account{
		Number:     number,
		HolderName: strings.TrimSpace(in.HolderName),
		Type:       accountType,
		Balance:    in.InitialBalance.Round(2),
		Phone:      strings.TrimSpace(in.Phone),
		Address:    strings.TrimSpace(in.Address),
		Active:     true,
	}

	if _, err := s.store.Append(ctx, account); err != nil {
		logger.Error("account service create account append failed", err, logger.Fields{
			"accountNumber": account.Number,
		})
		return domain.Account{}, err
	}

	s.appendLog(ctx, account.Number, domain.TransactionCreate, account.Balance, account.Balance)

	logger.Info("account service create account success", logger.Fields{
		"accountNumber": account.Number,
		"balance":       account.Balance.StringFixed(2),
	})

	return account, nil
}

// GetAccount returns an active account together with its recent
// transaction history. Closed accounts are reported, not displayed.
func (s *AccountService) GetAccount(ctx context.Context, accountNumber int) (domain.Account, []domain.Transaction, error) {
	s.gate.Lock()
	defer s.gate.Unlock()

	account, _, err := s.loadActive(ctx, accountNumber)
	if err != nil {
		logger.Error("account service get account failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return domain.Account{}, nil, err
	}

	history, err := s.translog.RecentFor(ctx, accountNumber, recentTransactionLimit)
	if err != nil {
		// history is best effort on the read side too
		logger.Error("account service transaction history scan failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		history = nil
	}

	return account, history, nil
}

func (s *AccountService) Deposit(ctx context.Context, accountNumber int, amount decimal.Decimal) (domain.Account, error) {
	logger.Info("account service deposit request", logger.Fields{
		"accountNumber": accountNumber,
		"amount":        amount.StringFixed(2),
	})

	if !amount.IsPositive() {
		logger.Error("account service deposit validation failed", domain.ErrInvalidAmount, logger.Fields{
			"accountNumber": accountNumber,
			"amount":        amount.StringFixed(2),
		})
		return domain.Account{}, domain.ErrInvalidAmount
	}

	s.gate.Lock()
	defer s.gate.Unlock()

	account, pos, err := s.loadActive(ctx, accountNumber)
	if err != nil {
		logger.Error("account service deposit failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return domain.Account{}, err
	}

	account.Balance = account.Balance.Add(amount.Round(2))
	if err := s.store.WriteAt(ctx, pos, account); err != nil {
		logger.Error("account service deposit write failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return domain.Account{}, err
	}

	s.appendLog(ctx, accountNumber, domain.TransactionDeposit, amount.Round(2), account.Balance)

	logger.Info("account service deposit success", logger.Fields{
		"accountNumber": accountNumber,
		"newBalance":    account.Balance.StringFixed(2),
	})

	return account, nil
}

func (s *AccountService) Withdraw(ctx context.Context, accountNumber int, amount decimal.Decimal) (domain.Account, error) {
	logger.Info("account service withdraw request", logger.Fields{
		"accountNumber": accountNumber,
		"amount":        amount.StringFixed(2),
	})

	if !amount.IsPositive() {
		logger.Error("account service withdraw validation failed", domain.ErrInvalidAmount, logger.Fields{
			"accountNumber": accountNumber,
			"amount":        amount.StringFixed(2),
		})
		return domain.Account{}, domain.ErrInvalidAmount
	}

	s.gate.Lock()
	defer s.gate.Unlock()

	account, pos, err := s.loadActive(ctx, accountNumber)
	if err != nil {
		logger.Error("account service withdraw failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return domain.Account{}, err
	}

	amount = amount.Round(2)
	// Savings balances never go negative; Current accounts have no floor.
	if account.Type == domain.AccountTypeSavings && account.Balance.Sub(amount).IsNegative() {
		logger.Error("account service withdraw savings floor violated", domain.ErrInsufficientFunds, logger.Fields{
			"accountNumber": accountNumber,
			"balance":       account.Balance.StringFixed(2),
			"amount":        amount.StringFixed(2),
		})
		return domain.Account{}, domain.ErrInsufficientFunds
	}

	account.Balance = account.Balance.Sub(amount)
	if err := s.store.WriteAt(ctx, pos, account); err != nil {
		logger.Error("account service withdraw write failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return domain.Account{}, err
	}

	s.appendLog(ctx, accountNumber, domain.TransactionWithdraw, amount, account.Balance)

	logger.Info("account service withdraw success", logger.Fields{
		"accountNumber": accountNumber,
		"newBalance":    account.Balance.StringFixed(2),
	})

	return account, nil
}

// ModifyAccount updates phone, address and type independently; an empty
// field keeps the current value. An invalid type is reported as a
// warning while the remaining fields still commit.
func (s *AccountService) ModifyAccount(ctx context.Context, accountNumber int, in ModifyAccountInput) (domain.Account, []string, error) {
	logger.Info("account service modify account request", logger.Fields{
		"accountNumber": accountNumber,
	})

	s.gate.Lock()
	defer s.gate.Unlock()

	account, pos, err := s.loadActive(ctx, accountNumber)
	if err != nil {
		logger.Error("account service modify account failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return domain.Account{}, nil, err
	}

	var warnings []string
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		account.Phone = phone
	}
	if address := strings.TrimSpace(in.Address); address != "" {
		account.Address = address
	}
	if rawType := strings.TrimSpace(in.Type); rawType != "" {
		accountType, err := domain.ParseAccountType(rawType)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("invalid type %q; keeping %s", rawType, account.Type))
		} else {
			account.Type = accountType
		}
	}

	if err := s.store.WriteAt(ctx, pos, account); err != nil {
		logger.Error("account service modify account write failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return domain.Account{}, nil, err
	}

	logger.Info("account service modify account success", logger.Fields{
		"accountNumber": accountNumber,
		"warnings":      warnings,
	})

	return account, warnings, nil
}

// CloseAccount marks an account closed. Closed is terminal: the record
// and its number stay in storage forever and the slot is never reused.
func (s *AccountService) CloseAccount(ctx context.Context, accountNumber int, confirmed bool) (domain.Account, error) {
	logger.Info("account service close account request", logger.Fields{
		"accountNumber": accountNumber,
		"confirmed":     confirmed,
	})

	if !confirmed {
		return domain.Account{}, fmt.Errorf("close requires explicit confirmation")
	}

	s.gate.Lock()
	defer s.gate.Unlock()

	pos, err := s.index.FindPosition(ctx, accountNumber)
	if err != nil {
		logger.Error("account service close account lookup failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return domain.Account{}, err
	}

	account, err := s.store.ReadAt(ctx, pos)
	if err != nil {
		return domain.Account{}, err
	}
	if !account.Active {
		logger.Error("account service close account already closed", domain.ErrAlreadyClosed, logger.Fields{
			"accountNumber": accountNumber,
		})
		return domain.Account{}, domain.ErrAlreadyClosed
	}

	account.Active = false
	if err := s.store.WriteAt(ctx, pos, account); err != nil {
		logger.Error("account service close account write failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return domain.Account{}, err
	}

	s.appendLog(ctx, accountNumber, domain.TransactionClose, decimal.Zero, account.Balance)

	logger.Info("account service close account success", logger.Fields{
		"accountNumber": accountNumber,
		"finalBalance":  account.Balance.StringFixed(2),
	})

	return account, nil
}

// ListAccounts returns active accounts sorted by the requested order.
func (s *AccountService) ListAccounts(ctx context.Context, order SortOrder) ([]domain.Account, error) {
	s.gate.Lock()
	defer s.gate.Unlock()

	accounts, err := s.store.ReadAll(ctx)
	if err != nil {
		logger.Error("account service list accounts failed", err, nil)
		return nil, err
	}

	active := make([]domain.Account, 0, len(accounts))
	for _, account := range accounts {
		if account.Active {
			active = append(active, account)
		}
	}

	switch order {
	case SortByName:
		sort.SliceStable(active, func(i, j int) bool {
			return strings.ToLower(active[i].HolderName) < strings.ToLower(active[j].HolderName)
		})
	case SortByBalance:
		sort.SliceStable(active, func(i, j int) bool {
			return active[i].Balance.LessThan(active[j].Balance)
		})
	default:
		sort.SliceStable(active, func(i, j int) bool {
			return active[i].Number < active[j].Number
		})
	}

	return active, nil
}

// loadActive resolves, reads and gate-checks one account. Callers must
// hold the gate.
func (s *AccountService) loadActive(ctx context.Context, accountNumber int) (domain.Account, repo_interfaces.Position, error) {
	pos, err := s.index.FindPosition(ctx, accountNumber)
	if err != nil {
		return domain.Account{}, 0, err
	}

	account, err := s.store.ReadAt(ctx, pos)
	if err != nil {
		return domain.Account{}, 0, err
	}
	if !account.Active {
		return domain.Account{}, 0, domain.ErrAccountClosed
	}

	return account, pos, nil
}

// appendLog records history best effort: a log failure is reported and
// swallowed, never surfaced as an operation failure.
func (s *AccountService) appendLog(ctx context.Context, accountNumber int, kind domain.TransactionKind, amount, balance decimal.Decimal) {
	entry := domain.Transaction{
		AccountNumber:    accountNumber,
		Kind:             kind,
		Amount:           amount,
		ResultingBalance: balance,
		Timestamp:        time.Now(),
	}
	if err := s.translog.Append(ctx, entry); err != nil {
		logger.Error("account service transaction log append failed", err, logger.Fields{
			"accountNumber": accountNumber,
			"kind":          string(kind),
		})
	}
}
