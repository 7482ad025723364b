package service_interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/api-sage/account-ledger/internal/usecase/services"
)

type TransferService interface {
	Transfer(ctx context.Context, fromNumber, toNumber int, amount decimal.Decimal) (services.TransferResult, error)
}
