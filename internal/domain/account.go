package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeSavings AccountType = "Savings"
	AccountTypeCurrent AccountType = "Current"
)

// ParseAccountType normalizes user input to a canonical account type.
// Matching is case-insensitive.
func ParseAccountType(raw string) (AccountType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "savings":
		return AccountTypeSavings, nil
	case "current":
		return AccountTypeCurrent, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAccountType, raw)
	}
}

// Field widths of the persisted record. Text longer than its width is
// truncated at write time.
const (
	HolderNameLen = 100
	PhoneLen      = 20
	AddressLen    = 200
)

type Account struct {
	Number     int
	HolderName string
	Type       AccountType
	Balance    decimal.Decimal
	Phone      string
	Address    string
	Active     bool
}
