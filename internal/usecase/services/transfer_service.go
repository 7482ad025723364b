package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/api-sage/account-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/account-ledger/internal/domain"
	"github.com/api-sage/account-ledger/internal/logger"
)

type TransferResult struct {
	Reference   string
	FromAccount domain.Account
	ToAccount   domain.Account
}

// TransferService moves funds between two accounts. The two writes are
// not atomic: the source is persisted before the destination, and a
// failure between them leaves the ledger debited but not credited.
// That gap is inherent to the storage design; the service reports it
// as domain.ErrPartialTransfer with a reference ID for manual
// reconciliation instead of attempting a rollback.
type TransferService struct {
	gate     *sync.Mutex
	store    repo_interfaces.RecordStore
	index    *AccountIndex
	translog repo_interfaces.TransactionLog
}

func NewTransferService(
	gate *sync.Mutex,
	store repo_interfaces.RecordStore,
	index *AccountIndex,
	translog repo_interfaces.TransactionLog,
) *TransferService {
	return &TransferService{
		gate:     gate,
		store:    store,
		index:    index,
		translog: translog,
	}
}

func (s *TransferService) Transfer(ctx context.Context, fromNumber, toNumber int, amount decimal.Decimal) (TransferResult, error) {
	reference := uuid.New().String()

	logger.Info("transfer service transfer request", logger.Fields{
		"reference": reference,
		"from":      fromNumber,
		"to":        toNumber,
		"amount":    amount.StringFixed(2),
	})

	if !amount.IsPositive() {
		return TransferResult{}, domain.ErrInvalidAmount
	}
	if fromNumber == toNumber {
		return TransferResult{}, fmt.Errorf("source and destination accounts must be distinct")
	}
	amount = amount.Round(2)

	s.gate.Lock()
	defer s.gate.Unlock()

	fromPos, err := s.index.FindPosition(ctx, fromNumber)
	if err != nil {
		logger.Error("transfer service source lookup failed", err, logger.Fields{
			"reference": reference,
			"from":      fromNumber,
		})
		return TransferResult{}, fmt.Errorf("source account: %w", err)
	}
	from, err := s.store.ReadAt(ctx, fromPos)
	if err != nil {
		return TransferResult{}, fmt.Errorf("source account: %w", err)
	}
	if !from.Active {
		return TransferResult{}, fmt.Errorf("source account: %w", domain.ErrAccountClosed)
	}

	toPos, err := s.index.FindPosition(ctx, toNumber)
	if err != nil {
		logger.Error("transfer service destination lookup failed", err, logger.Fields{
			"reference": reference,
			"to":        toNumber,
		})
		return TransferResult{}, fmt.Errorf("destination account: %w", err)
	}
	to, err := s.store.ReadAt(ctx, toPos)
	if err != nil {
		return TransferResult{}, fmt.Errorf("destination account: %w", err)
	}
	if !to.Active {
		return TransferResult{}, fmt.Errorf("destination account: %w", domain.ErrAccountClosed)
	}

	// Savings floor applies to the source only.
	if from.Type == domain.AccountTypeSavings && from.Balance.Sub(amount).IsNegative() {
		logger.Error("transfer service savings floor violated", domain.ErrInsufficientFunds, logger.Fields{
			"reference": reference,
			"from":      fromNumber,
			"balance":   from.Balance.StringFixed(2),
		})
		return TransferResult{}, domain.ErrInsufficientFunds
	}

	from.Balance = from.Balance.Sub(amount)
	to.Balance = to.Balance.Add(amount)

	if err := s.store.WriteAt(ctx, fromPos, from); err != nil {
		logger.Error("transfer service source write failed", err, logger.Fields{
			"reference": reference,
			"from":      fromNumber,
		})
		return TransferResult{}, fmt.Errorf("persist source account: %w", err)
	}

	if err := s.store.WriteAt(ctx, toPos, to); err != nil {
		// The source debit is already on disk. Surface everything a
		// human needs to reconcile by hand.
		logger.Error("transfer service destination write failed after source debit", err, logger.Fields{
			"reference":           reference,
			"from":                fromNumber,
			"to":                  toNumber,
			"amount":              amount.StringFixed(2),
			"sourceBalance":       from.Balance.StringFixed(2),
			"intendedDestBalance": to.Balance.StringFixed(2),
		})
		return TransferResult{}, fmt.Errorf("%w: reference %s: %v", domain.ErrPartialTransfer, reference, err)
	}

	s.appendLog(ctx, fromNumber, domain.TransactionTransferOut, amount, from.Balance)
	s.appendLog(ctx, toNumber, domain.TransactionTransferIn, amount, to.Balance)

	logger.Info("transfer service transfer success", logger.Fields{
		"reference":   reference,
		"from":        fromNumber,
		"to":          toNumber,
		"fromBalance": from.Balance.StringFixed(2),
		"toBalance":   to.Balance.StringFixed(2),
	})

	return TransferResult{
		Reference:   reference,
		FromAccount: from,
		ToAccount:   to,
	}, nil
}

func (s *TransferService) appendLog(ctx context.Context, accountNumber int, kind domain.TransactionKind, amount, balance decimal.Decimal) {
	entry := domain.Transaction{
		AccountNumber:    accountNumber,
		Kind:             kind,
		Amount:           amount,
		ResultingBalance: balance,
		Timestamp:        time.Now(),
	}
	if err := s.translog.Append(ctx, entry); err != nil {
		logger.Error("transfer service transaction log append failed", err, logger.Fields{
			"accountNumber": accountNumber,
			"kind":          string(kind),
		})
	}
}
