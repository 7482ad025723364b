package flatfile

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/api-sage/account-ledger/internal/domain"
)

// On-disk record layout, fixed width, independent of in-memory struct
// layout:
//
//	offset  size  field
//	0       4     account number, big-endian uint32
//	4       100   holder name, zero padded
//	104     1     account type: 0 Savings, 1 Current
//	105     8     balance in minor units, big-endian int64
//	113     20    phone, zero padded
//	133     200   address, zero padded
//	333     1     active flag: 1 active, 0 closed
const RecordSize = 334

const (
	typeSavingsByte = 0
	typeCurrentByte = 1
)

// balances are persisted in minor units (two decimal places)
const balanceExponent = 2

func encodeRecord(account domain.Account) ([]byte, error) {
	if account.Number <= 0 {
		return nil, fmt.Errorf("account number must be positive, got %d", account.Number)
	}

	buf := make([]byte, RecordSize)
	binary.BigEndian.PutUint32(buf[0:4], uint32(account.Number))
	putPaddedString(buf[4:104], account.HolderName)

	switch account.Type {
	case domain.AccountTypeSavings:
		buf[104] = typeSavingsByte
	case domain.AccountTypeCurrent:
		buf[104] = typeCurrentByte
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAccountType, account.Type)
	}

	minor := account.Balance.Round(balanceExponent).Shift(balanceExponent)
	if !minor.IsInteger() {
		return nil, fmt.Errorf("balance %s does not round to minor units", account.Balance)
	}
	binary.BigEndian.PutUint64(buf[105:113], uint64(minor.IntPart()))

	putPaddedString(buf[113:133], account.Phone)
	putPaddedString(buf[133:333], account.Address)
	if account.Active {
		buf[333] = 1
	}

	return buf, nil
}

func decodeRecord(buf []byte) (domain.Account, error) {
	if len(buf) != RecordSize {
		return domain.Account{}, fmt.Errorf("record must be %d bytes, got %d", RecordSize, len(buf))
	}

	account := domain.Account{
		Number:     int(binary.BigEndian.Uint32(buf[0:4])),
		HolderName: trimPadded(buf[4:104]),
		Phone:      trimPadded(buf[113:133]),
		Address:    trimPadded(buf[133:333]),
		Active:     buf[333] == 1,
	}

	switch buf[104] {
	case typeSavingsByte:
		account.Type = domain.AccountTypeSavings
	case typeCurrentByte:
		account.Type = domain.AccountTypeCurrent
	default:
		return domain.Account{}, fmt.Errorf("%w: record byte %d", domain.ErrInvalidAccountType, buf[104])
	}

	minor := int64(binary.BigEndian.Uint64(buf[105:113]))
	account.Balance = decimal.New(minor, -balanceExponent)

	return account, nil
}

// putPaddedString truncates s to the field width and zero-pads the
// remainder, so decode never reads past the field.
func putPaddedString(field []byte, s string) {
	raw := []byte(s)
	if len(raw) > len(field) {
		raw = raw[:len(field)]
	}
	copy(field, raw)
	for i := len(raw); i < len(field); i++ {
		field[i] = 0
	}
}

func trimPadded(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		return string(field[:i])
	}
	return string(field)
}
