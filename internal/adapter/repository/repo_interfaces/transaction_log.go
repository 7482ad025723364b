package repo_interfaces

import (
	"context"

	"github.com/api-sage/account-ledger/internal/domain"
)

// TransactionLog is the append-only history stream. Appends are best
// effort: a failed append is reported to the caller but must never
// abort the operation that triggered it.
type TransactionLog interface {
	Append(ctx context.Context, entry domain.Transaction) error
	// RecentFor scans forward from the start of the log and returns the
	// first limit entries matching accountNumber, in file order. The
	// forward-scan-stop-at-limit behavior means the earliest matches
	// are returned, which mirrors the historical on-disk reader.
	RecentFor(ctx context.Context, accountNumber, limit int) ([]domain.Transaction, error)
}
