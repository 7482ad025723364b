package flatfile

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/account-ledger/internal/domain"
)

func TestRecordRoundTrip(t *testing.T) {
	account := domain.Account{
		Number:     1001,
		HolderName: "Asha Verma",
		Type:       domain.AccountTypeSavings,
		Balance:    decimal.RequireFromString("1234.56"),
		Phone:      "555-0101",
		Address:    "12 Hill Road, Pune",
		Active:     true,
	}

	buf, err := encodeRecord(account)
	require.NoError(t, err)
	require.Len(t, buf, RecordSize)

	decoded, err := decodeRecord(buf)
	require.NoError(t, err)
	assert.Equal(t, account.Number, decoded.Number)
	assert.Equal(t, account.HolderName, decoded.HolderName)
	assert.Equal(t, account.Type, decoded.Type)
	assert.True(t, account.Balance.Equal(decoded.Balance), "balance %s != %s", account.Balance, decoded.Balance)
	assert.Equal(t, account.Phone, decoded.Phone)
	assert.Equal(t, account.Address, decoded.Address)
	assert.True(t, decoded.Active)
}

func TestRecordNegativeBalanceRoundTrip(t *testing.T) {
	account := domain.Account{
		Number:  1002,
		Type:    domain.AccountTypeCurrent,
		Balance: decimal.RequireFromString("-250.75"),
		Active:  true,
	}

	buf, err := encodeRecord(account)
	require.NoError(t, err)

	decoded, err := decodeRecord(buf)
	require.NoError(t, err)
	assert.True(t, decoded.Balance.Equal(account.Balance))
}

func TestRecordTruncatesOverlongText(t *testing.T) {
	account := domain.Account{
		Number:     1003,
		HolderName: strings.Repeat("n", domain.HolderNameLen+40),
		Type:       domain.AccountTypeSavings,
		Balance:    decimal.Zero,
		Phone:      strings.Repeat("9", domain.PhoneLen+5),
		Address:    strings.Repeat("a", domain.AddressLen+100),
		Active:     true,
	}

	buf, err := encodeRecord(account)
	require.NoError(t, err)
	require.Len(t, buf, RecordSize)

	decoded, err := decodeRecord(buf)
	require.NoError(t, err)
	assert.Len(t, decoded.HolderName, domain.HolderNameLen)
	assert.Len(t, decoded.Phone, domain.PhoneLen)
	assert.Len(t, decoded.Address, domain.AddressLen)
}

func TestEncodeRejectsInvalidRecords(t *testing.T) {
	_, err := encodeRecord(domain.Account{Number: 0, Type: domain.AccountTypeSavings, Balance: decimal.Zero})
	assert.Error(t, err)

	_, err = encodeRecord(domain.Account{Number: 1001, Type: "Checking", Balance: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidAccountType)
}

func TestDecodeRejectsBadInput(t *testing.T) {
	_, err := decodeRecord(make([]byte, RecordSize-1))
	assert.Error(t, err)

	buf := make([]byte, RecordSize)
	buf[3] = 0xE9 // account 1001
	buf[104] = 7  // unknown type byte
	_, err = decodeRecord(buf)
	assert.ErrorIs(t, err, domain.ErrInvalidAccountType)
}
