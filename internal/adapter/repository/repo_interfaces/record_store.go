package repo_interfaces

import (
	"context"

	"github.com/api-sage/account-ledger/internal/domain"
)

// Position is the stable zero-based slot index of a record in the
// store. Assigned at append time, never reused; closing an account
// does not free its slot.
type Position int64

// RecordStore persists accounts as fixed-width records addressed by
// position. Every write is immediately durable; callers never rely on
// buffering across calls.
type RecordStore interface {
	// Append writes a record at end-of-file and returns its position.
	Append(ctx context.Context, account domain.Account) (Position, error)
	// ReadAt returns the record at pos, or domain.ErrNotFound when pos
	// is beyond end-of-file or the data file is absent.
	ReadAt(ctx context.Context, pos Position) (domain.Account, error)
	// WriteAt overwrites exactly one record slot in place.
	WriteAt(ctx context.Context, pos Position, account domain.Account) error
	// Count reports the number of stored records, closed accounts
	// included. An absent data file counts as zero, not an error.
	Count(ctx context.Context) (int, error)
	// ReadAll returns a snapshot of every record in position order.
	ReadAll(ctx context.Context) ([]domain.Account, error)
	// RewriteAll replaces the whole store in one pass. Callers must
	// hold exclusive access for the duration.
	RewriteAll(ctx context.Context, accounts []domain.Account) error
}
