package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/account-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/account-ledger/internal/domain"
)

func TestNextAccountNumberEmptyStore(t *testing.T) {
	ledger := newTestLedger(t)

	next, err := ledger.index.NextAccountNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1001, next)
}

func TestNextAccountNumberNeverReused(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	first := ledger.mustCreate(t, "Savings", "10.00")
	ledger.mustCreate(t, "Savings", "20.00")

	// closing an account does not free its number
	_, err := ledger.accounts.CloseAccount(ctx, first.Number, true)
	require.NoError(t, err)

	next, err := ledger.index.NextAccountNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1003, next)
}

func TestFindPositionStoreOrder(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	first := ledger.mustCreate(t, "Savings", "10.00")
	second := ledger.mustCreate(t, "Current", "20.00")

	pos, err := ledger.index.FindPosition(ctx, first.Number)
	require.NoError(t, err)
	assert.Equal(t, repo_interfaces.Position(0), pos)

	pos, err = ledger.index.FindPosition(ctx, second.Number)
	require.NoError(t, err)
	assert.Equal(t, repo_interfaces.Position(1), pos)

	_, err = ledger.index.FindPosition(ctx, 4242)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
