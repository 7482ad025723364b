package flatfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/account-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/account-ledger/internal/domain"
)

const logTimestampLayout = "2006-01-02 15:04:05"

// TransLog appends account history as comma-separated text lines:
//
//	accountNumber, KIND, amount, resultingBalance, timestamp
//
// One line per event, never mutated or deleted.
type TransLog struct {
	path string
}

func NewTransLog(path string) *TransLog {
	return &TransLog{path: path}
}

var _ repo_interfaces.TransactionLog = (*TransLog)(nil)

func (l *TransLog) Append(ctx context.Context, entry domain.Transaction) error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open transaction log: %w", err)
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "%d, %s, %s, %s, %s\n",
		entry.AccountNumber,
		entry.Kind,
		entry.Amount.StringFixed(2),
		entry.ResultingBalance.StringFixed(2),
		entry.Timestamp.Format(logTimestampLayout),
	)
	if err != nil {
		return fmt.Errorf("append transaction log: %w", err)
	}

	return nil
}

// RecentFor scans forward from the start of the log and stops after the
// first limit matches, so it returns the earliest entries for the
// account. File order is preserved.
func (l *TransLog) RecentFor(ctx context.Context, accountNumber, limit int) ([]domain.Transaction, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open transaction log: %w", err)
	}
	defer f.Close()

	var entries []domain.Transaction
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		entry, err := parseLogLine(scanner.Text())
		if err != nil {
			// a malformed line is skipped rather than failing the scan
			continue
		}
		if entry.AccountNumber != accountNumber {
			continue
		}
		entries = append(entries, entry)
		if limit > 0 && len(entries) >= limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan transaction log: %w", err)
	}

	return entries, nil
}

func parseLogLine(line string) (domain.Transaction, error) {
	parts := strings.SplitN(line, ",", 5)
	if len(parts) != 5 {
		return domain.Transaction{}, fmt.Errorf("malformed log line: %q", line)
	}

	accountNumber, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("malformed account number: %w", err)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(parts[2]))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("malformed amount: %w", err)
	}

	balance, err := decimal.NewFromString(strings.TrimSpace(parts[3]))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("malformed balance: %w", err)
	}

	timestamp, err := time.ParseInLocation(logTimestampLayout, strings.TrimSpace(parts[4]), time.Local)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("malformed timestamp: %w", err)
	}

	return domain.Transaction{
		AccountNumber:    accountNumber,
		Kind:             domain.TransactionKind(strings.TrimSpace(parts[1])),
		Amount:           amount,
		ResultingBalance: balance,
		Timestamp:        timestamp,
	}, nil
}
