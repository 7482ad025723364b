package services

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/account-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/account-ledger/internal/domain"
	"github.com/api-sage/account-ledger/internal/logger"
)

var monthsPerYear = decimal.NewFromInt(12)
var percentDivisor = decimal.NewFromInt(100)

type InterestResult struct {
	AccountsCredited int
	TotalInterest    decimal.Decimal
}

// InterestService applies monthly interest, derived from an annual
// rate, to every active Savings account in one bulk pass: read all,
// mutate in memory, rewrite the whole store. It is the only operation
// that writes all positions at once and therefore requires exclusive
// access for its full duration, which the shared gate provides.
type InterestService struct {
	gate     *sync.Mutex
	store    repo_interfaces.RecordStore
	translog repo_interfaces.TransactionLog
}

func NewInterestService(
	gate *sync.Mutex,
	store repo_interfaces.RecordStore,
	translog repo_interfaces.TransactionLog,
) *InterestService {
	return &InterestService{
		gate:     gate,
		store:    store,
		translog: translog,
	}
}

func (s *InterestService) ApplyInterest(ctx context.Context, ratePercent decimal.Decimal) (InterestResult, error) {
	logger.Info("interest service apply interest request", logger.Fields{
		"ratePercent": ratePercent.String(),
	})

	if !ratePercent.IsPositive() {
		return InterestResult{}, domain.ErrInvalidAmount
	}

	s.gate.Lock()
	defer s.gate.Unlock()

	accounts, err := s.store.ReadAll(ctx)
	if err != nil {
		logger.Error("interest service read accounts failed", err, nil)
		return InterestResult{}, err
	}

	monthlyRate := ratePercent.Div(percentDivisor).Div(monthsPerYear)

	result := InterestResult{TotalInterest: decimal.Zero}
	for i := range accounts {
		if !accounts[i].Active || accounts[i].Type != domain.AccountTypeSavings {
			continue
		}

		// rounded to minor units so the stored balance stays exact
		interest := accounts[i].Balance.Mul(monthlyRate).Round(2)
		accounts[i].Balance = accounts[i].Balance.Add(interest)
		result.AccountsCredited++
		result.TotalInterest = result.TotalInterest.Add(interest)

		s.appendLog(ctx, accounts[i].Number, interest, accounts[i].Balance)
	}

	if err := s.store.RewriteAll(ctx, accounts); err != nil {
		logger.Error("interest service bulk rewrite failed", err, logger.Fields{
			"accountsCredited": result.AccountsCredited,
		})
		return InterestResult{}, err
	}

	logger.Info("interest service apply interest success", logger.Fields{
		"accountsCredited": result.AccountsCredited,
		"totalInterest":    result.TotalInterest.StringFixed(2),
	})

	return result, nil
}

func (s *InterestService) appendLog(ctx context.Context, accountNumber int, amount, balance decimal.Decimal) {
	entry := domain.Transaction{
		AccountNumber:    accountNumber,
		Kind:             domain.TransactionInterest,
		Amount:           amount,
		ResultingBalance: balance,
		Timestamp:        time.Now(),
	}
	if err := s.translog.Append(ctx, entry); err != nil {
		logger.Error("interest service transaction log append failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
	}
}
