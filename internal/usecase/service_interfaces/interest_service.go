package service_interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/api-sage/account-ledger/internal/usecase/services"
)

type InterestService interface {
	ApplyInterest(ctx context.Context, ratePercent decimal.Decimal) (services.InterestResult, error)
}
