package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	TransactionCreate      TransactionKind = "CREATE"
	TransactionDeposit     TransactionKind = "DEPOSIT"
	TransactionWithdraw    TransactionKind = "WITHDRAW"
	TransactionClose       TransactionKind = "CLOSE"
	TransactionTransferOut TransactionKind = "TRANSFER_OUT"
	TransactionTransferIn  TransactionKind = "TRANSFER_IN"
	TransactionInterest    TransactionKind = "INTEREST"
)

// Transaction is one line of account history. Entries are append-only;
// file order is chronological order.
type Transaction struct {
	AccountNumber    int
	Kind             TransactionKind
	Amount           decimal.Decimal
	ResultingBalance decimal.Decimal
	Timestamp        time.Time
}
