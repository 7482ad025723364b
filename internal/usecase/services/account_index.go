package services

import (
	"context"
	"fmt"

	"github.com/api-sage/account-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/account-ledger/internal/domain"
)

// firstAccountNumber is handed out when the store is empty or absent.
const firstAccountNumber = 1001

// AccountIndex resolves account numbers to store positions by linear
// scan. Correctness, not throughput, is the contract: account numbers
// are unique by construction so first match is only match.
type AccountIndex struct {
	store repo_interfaces.RecordStore
}

func NewAccountIndex(store repo_interfaces.RecordStore) *AccountIndex {
	return &AccountIndex{store: store}
}

// NextAccountNumber returns max(existing)+1, starting at 1001. Numbers
// are monotonically assigned and never reused, so closed accounts still
// reserve theirs.
func (ix *AccountIndex) NextAccountNumber(ctx context.Context) (int, error) {
	accounts, err := ix.store.ReadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("scan accounts for next number: %w", err)
	}

	next := firstAccountNumber
	for _, account := range accounts {
		if account.Number >= next {
			next = account.Number + 1
		}
	}

	return next, nil
}

// FindPosition returns the position of the first record matching
// accountNumber, or domain.ErrNotFound.
func (ix *AccountIndex) FindPosition(ctx context.Context, accountNumber int) (repo_interfaces.Position, error) {
	accounts, err := ix.store.ReadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("scan accounts for position: %w", err)
	}

	for pos, account := range accounts {
		if account.Number == accountNumber {
			return repo_interfaces.Position(pos), nil
		}
	}

	return 0, domain.ErrNotFound
}
